package api

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/pibridge/pibridge/internal/bridge"
)

// fail maps a bridge error category onto an HTTP status and returns the
// diagnostic message to the caller. The message is the whole contract: no
// retry, no partial-success reporting.
func fail(c echo.Context, err error) error {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, bridge.ErrPath):
		status = http.StatusBadRequest
	case errors.Is(err, bridge.ErrConfig):
		status = http.StatusServiceUnavailable
	case errors.Is(err, bridge.ErrConnection), errors.Is(err, bridge.ErrRemote):
		status = http.StatusBadGateway
	}
	return c.JSON(status, map[string]string{"error": err.Error()})
}
