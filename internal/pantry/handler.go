package pantry

import (
	"math"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/elskow/homecook/internal/auth"
)

type Handler struct {
	repository Repository
	log        *zap.Logger
}

func NewHandler(repo Repository, log *zap.Logger) *Handler {
	return &Handler{
		repository: repo,
		log:        log,
	}
}

type createItemRequest struct {
	Name     string   `json:"name"`
	Quantity *float64 `json:"quantity"`
}

type deleteItemRequest struct {
	ID   *uint  `json:"id"`
	Name string `json:"name"`
}

type itemView struct {
	ID        uint    `json:"id"`
	Name      string  `json:"name"`
	Quantity  float64 `json:"quantity"`
	CreatedAt string  `json:"createdAt"`
}

func (h *Handler) List(c *fiber.Ctx) error {
	claims, err := auth.ClaimsFromContext(c)
	if err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "Invalid token")
	}

	items, err := h.repository.ListItems(claims.UserID)
	if err != nil {
		h.log.Error("pantry list failed", zap.Uint("user_id", claims.UserID), zap.Error(err))
		return fiber.NewError(fiber.StatusInternalServerError, "Internal server error")
	}

	views := make([]itemView, 0, len(items))
	for _, item := range items {
		views = append(views, itemView{
			ID:        item.ID,
			Name:      item.Name,
			Quantity:  item.Quantity,
			CreatedAt: item.CreatedAt.Format(time.RFC3339),
		})
	}

	return c.JSON(fiber.Map{"items": views})
}

func (h *Handler) Create(c *fiber.Ctx) error {
	claims, err := auth.ClaimsFromContext(c)
	if err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "Invalid token")
	}

	var req createItemRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	if req.Name == "" {
		return fiber.NewError(fiber.StatusBadRequest, "name is required")
	}

	quantity := 1.0
	if req.Quantity != nil && !math.IsNaN(*req.Quantity) && !math.IsInf(*req.Quantity, 0) {
		quantity = *req.Quantity
	}

	item := &Item{
		UserID:   claims.UserID,
		Name:     req.Name,
		Quantity: quantity,
	}

	if err := h.repository.CreateItem(item); err != nil {
		h.log.Error("pantry create failed", zap.Uint("user_id", claims.UserID), zap.Error(err))
		return fiber.NewError(fiber.StatusInternalServerError, "Internal server error")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"item": fiber.Map{
			"id":       item.ID,
			"name":     item.Name,
			"quantity": item.Quantity,
		},
	})
}

func (h *Handler) Delete(c *fiber.Ctx) error {
	claims, err := auth.ClaimsFromContext(c)
	if err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "Invalid token")
	}

	var req deleteItemRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	if req.ID == nil && req.Name == "" {
		return fiber.NewError(fiber.StatusBadRequest, "Provide id or name to delete")
	}

	var deleted int64
	if req.ID != nil {
		deleted, err = h.repository.DeleteItemByID(claims.UserID, *req.ID)
	} else {
		deleted, err = h.repository.DeleteItemByName(claims.UserID, req.Name)
	}
	if err != nil {
		h.log.Error("pantry delete failed", zap.Uint("user_id", claims.UserID), zap.Error(err))
		return fiber.NewError(fiber.StatusInternalServerError, "Internal server error")
	}

	return c.JSON(fiber.Map{"deleted": deleted})
}
