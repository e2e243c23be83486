package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// APIResponse is the envelope every endpoint returns. RequestID repeats the X-Request-ID
// header so a sync summary can be matched with its log lines.
type APIResponse struct {
	Status    string `json:"status"`
	Message   string `json:"message,omitempty"`
	Data      any    `json:"data,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

// Success sends data in the envelope, defaulting to 200.
func Success(c echo.Context, status int, message string, data any) error {
	if status == 0 {
		status = http.StatusOK
	}
	return respond(c, status, APIResponse{Status: "success", Message: message, Data: data})
}

// Error sends a failure envelope, defaulting to 500. Partial sync failures are not errors;
// they travel inside a successful summary.
func Error(c echo.Context, status int, message string) error {
	if status == 0 {
		status = http.StatusInternalServerError
	}
	return respond(c, status, APIResponse{Status: "error", Message: message})
}

func respond(c echo.Context, status int, payload APIResponse) error {
	payload.RequestID = c.Response().Header().Get(echo.HeaderXRequestID)
	return c.JSON(status, payload)
}
