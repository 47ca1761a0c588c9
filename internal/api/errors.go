package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

func badRequest(c echo.Context, msg string, err error) error {
	resp := ErrorResponse{Error: msg}
	if err != nil {
		resp.Details = err.Error()
	}
	return c.JSON(http.StatusBadRequest, resp)
}

func notFound(c echo.Context, msg string) error {
	return c.JSON(http.StatusNotFound, ErrorResponse{Error: msg})
}
