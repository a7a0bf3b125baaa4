package pantry

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/elskow/homecook/internal/auth"
)

const testUserID uint = 7

func withClaims(userID uint) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals(auth.ClaimsContextKey, &auth.Claims{UserID: userID, Email: "a@x.com"})
		return c.Next()
	}
}

func newTestApp(t *testing.T) (*fiber.App, *mockRepository) {
	log, err := zap.NewDevelopment()
	require.NoError(t, err)

	repo := newMockRepository()
	h := NewHandler(repo, log)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			var fiberErr *fiber.Error
			if errors.As(err, &fiberErr) {
				return c.Status(fiberErr.Code).JSON(fiber.Map{"error": fiberErr.Message})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal server error"})
		},
	})
	app.Get("/pantry", withClaims(testUserID), h.List)
	app.Post("/pantry", withClaims(testUserID), h.Create)
	app.Delete("/pantry", withClaims(testUserID), h.Delete)

	return app, repo
}

func doJSON(t *testing.T, app *fiber.App, method, path, body string) (int, map[string]interface{}) {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &decoded))
	return resp.StatusCode, decoded
}

func TestHandler_Create(t *testing.T) {
	tests := []struct {
		name         string
		body         string
		wantStatus   int
		wantQuantity float64
	}{
		{
			name:         "explicit quantity",
			body:         `{"name":"rice","quantity":2.5}`,
			wantStatus:   http.StatusCreated,
			wantQuantity: 2.5,
		},
		{
			name:         "quantity defaults to one",
			body:         `{"name":"rice"}`,
			wantStatus:   http.StatusCreated,
			wantQuantity: 1,
		},
		{
			name:       "missing name",
			body:       `{"quantity":2}`,
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app, _ := newTestApp(t)

			status, body := doJSON(t, app, http.MethodPost, "/pantry", tt.body)
			assert.Equal(t, tt.wantStatus, status)
			if tt.wantStatus != http.StatusCreated {
				return
			}

			item := body["item"].(map[string]interface{})
			assert.Equal(t, "rice", item["name"])
			assert.Equal(t, tt.wantQuantity, item["quantity"])
		})
	}
}

func TestHandler_List(t *testing.T) {
	app, repo := newTestApp(t)

	require.NoError(t, repo.CreateItem(&Item{UserID: testUserID, Name: "rice", Quantity: 1}))
	require.NoError(t, repo.CreateItem(&Item{UserID: testUserID, Name: "beans", Quantity: 3}))
	require.NoError(t, repo.CreateItem(&Item{UserID: 99, Name: "not yours", Quantity: 1}))

	status, body := doJSON(t, app, http.MethodGet, "/pantry", "")
	require.Equal(t, http.StatusOK, status)

	items := body["items"].([]interface{})
	assert.Len(t, items, 2, "only the caller's items are listed")
}

func TestHandler_Delete(t *testing.T) {
	t.Run("requires id or name", func(t *testing.T) {
		app, _ := newTestApp(t)

		status, body := doJSON(t, app, http.MethodDelete, "/pantry", `{}`)
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, "Provide id or name to delete", body["error"])
	})

	t.Run("by id", func(t *testing.T) {
		app, repo := newTestApp(t)
		item := &Item{UserID: testUserID, Name: "rice", Quantity: 1}
		require.NoError(t, repo.CreateItem(item))

		status, body := doJSON(t, app, http.MethodDelete, "/pantry", `{"id":1}`)
		require.Equal(t, http.StatusOK, status)
		assert.Equal(t, float64(1), body["deleted"])
	})

	t.Run("by name", func(t *testing.T) {
		app, repo := newTestApp(t)
		require.NoError(t, repo.CreateItem(&Item{UserID: testUserID, Name: "rice", Quantity: 1}))
		require.NoError(t, repo.CreateItem(&Item{UserID: testUserID, Name: "rice", Quantity: 2}))

		status, body := doJSON(t, app, http.MethodDelete, "/pantry", `{"name":"rice"}`)
		require.Equal(t, http.StatusOK, status)
		assert.Equal(t, float64(2), body["deleted"])
	})

	t.Run("cannot delete another user's item", func(t *testing.T) {
		app, repo := newTestApp(t)
		require.NoError(t, repo.CreateItem(&Item{UserID: 99, Name: "rice", Quantity: 1}))

		status, body := doJSON(t, app, http.MethodDelete, "/pantry", `{"id":1}`)
		require.Equal(t, http.StatusOK, status)
		assert.Equal(t, float64(0), body["deleted"])
	})
}
