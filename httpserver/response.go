package httpserver

import (
	"github.com/labstack/echo/v4"
)

// DataResponse is the envelope of every successful response.
type DataResponse struct {
	Data interface{} `json:"data"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

func writeData(c echo.Context, status int, data interface{}) error {
	return c.JSON(status, DataResponse{Data: data})
}

func writeMessage(c echo.Context, status int, message string) error {
	return writeData(c, status, MessageResponse{Message: message})
}
