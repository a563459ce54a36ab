package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"example.com/travel-planner/backend/internal/notifications"
)

type HealthHandler struct {
	StoreDriver string
	Hub         *notifications.Hub
}

type HealthResponse struct {
	Status      string `json:"status"`
	Store       string `json:"store"`
	Subscribers int    `json:"subscribers"`
}

// NewHealthHandler создает обработчик статуса сервиса.
func NewHealthHandler(storeDriver string, hub *notifications.Hub) *HealthHandler {
	return &HealthHandler{StoreDriver: storeDriver, Hub: hub}
}

// Health возвращает статус сервиса, драйвер хранилища и число SSE-подписчиков.
func (h *HealthHandler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{
		Status:      "ok",
		Store:       h.StoreDriver,
		Subscribers: h.Hub.Subscribers(),
	})
}
