package uploads

import (
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/elskow/homecook/internal/auth"
)

// IngredientParser extracts ingredient names from a photo.
type IngredientParser interface {
	ParseImageIngredients(imageBase64 string) ([]string, error)
}

type Handler struct {
	repository Repository
	parser     IngredientParser
	log        *zap.Logger
}

func NewHandler(repo Repository, parser IngredientParser, log *zap.Logger) *Handler {
	return &Handler{
		repository: repo,
		parser:     parser,
		log:        log,
	}
}

type createUploadRequest struct {
	ImageBase64 string `json:"imageBase64"`
}

func (h *Handler) Create(c *fiber.Ctx) error {
	claims, err := auth.ClaimsFromContext(c)
	if err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "Invalid token")
	}

	var req createUploadRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	if req.ImageBase64 == "" {
		return fiber.NewError(fiber.StatusBadRequest, "imageBase64 is required")
	}

	ingredients, err := h.parser.ParseImageIngredients(req.ImageBase64)
	if err != nil {
		h.log.Error("ingredient parsing failed", zap.Uint("user_id", claims.UserID), zap.Error(err))
		return fiber.NewError(fiber.StatusInternalServerError, "Internal server error")
	}

	ingredientsJSON, err := json.Marshal(ingredients)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Internal server error")
	}

	upload := &Upload{
		UserID:          claims.UserID,
		ImageBase64:     req.ImageBase64,
		IngredientsJSON: string(ingredientsJSON),
	}

	if err := h.repository.CreateUpload(upload); err != nil {
		h.log.Error("upload create failed", zap.Uint("user_id", claims.UserID), zap.Error(err))
		return fiber.NewError(fiber.StatusInternalServerError, "Internal server error")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"id":          upload.ID,
		"ingredients": ingredients,
	})
}

func (h *Handler) Get(c *fiber.Ctx) error {
	claims, err := auth.ClaimsFromContext(c)
	if err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "Invalid token")
	}

	id, err := strconv.Atoi(c.Params("id"))
	if err != nil || id <= 0 {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid upload id")
	}

	upload, err := h.repository.GetUpload(claims.UserID, uint(id))
	if err != nil {
		if errors.Is(err, ErrUploadNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Upload not found")
		}
		h.log.Error("upload lookup failed", zap.Uint("user_id", claims.UserID), zap.Error(err))
		return fiber.NewError(fiber.StatusInternalServerError, "Internal server error")
	}

	var ingredients []string
	if err := json.Unmarshal([]byte(upload.IngredientsJSON), &ingredients); err != nil {
		h.log.Error("stored ingredients unreadable", zap.Uint("upload_id", upload.ID), zap.Error(err))
		return fiber.NewError(fiber.StatusInternalServerError, "Internal server error")
	}

	return c.JSON(fiber.Map{
		"id":          upload.ID,
		"imageBase64": upload.ImageBase64,
		"ingredients": ingredients,
		"createdAt":   upload.CreatedAt.Format(time.RFC3339),
	})
}
