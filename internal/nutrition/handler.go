package nutrition

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type Handler struct {
	service *Service
	log     *zap.Logger
}

func NewHandler(service *Service, log *zap.Logger) *Handler {
	return &Handler{
		service: service,
		log:     log,
	}
}

type barcodeRequest struct {
	Barcode string `json:"barcode"`
}

func (h *Handler) LookupBarcode(c *fiber.Ctx) error {
	var req barcodeRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	if req.Barcode == "" {
		return fiber.NewError(fiber.StatusBadRequest, "barcode is required")
	}

	result, err := h.service.LookupBarcode(req.Barcode)
	if err != nil {
		h.log.Error("barcode lookup failed", zap.String("barcode", req.Barcode), zap.Error(err))
		return fiber.NewError(fiber.StatusInternalServerError, "Internal server error")
	}

	return c.JSON(result)
}
