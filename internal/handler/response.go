package handler

import "github.com/labstack/echo/v4"

// apiResponse is the envelope returned by every JSON endpoint.
type apiResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// respond writes a success envelope with the given status and payload.
func respond(c echo.Context, status int, message string, data interface{}) error {
	return c.JSON(status, apiResponse{Success: true, Message: message, Data: data})
}

// fail writes a failure envelope with the given status.
func fail(c echo.Context, status int, message string) error {
	return c.JSON(status, apiResponse{Success: false, Message: message})
}
