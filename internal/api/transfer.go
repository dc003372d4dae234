package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/pibridge/pibridge/pkg/types"
)

func (s *Server) downloadFiles(c echo.Context) error {
	user := c.Param("user")

	var req types.TransferRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "invalid request body: " + err.Error(),
		})
	}
	if len(req.Names) == 0 {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "names is required",
		})
	}

	localPaths, err := s.bridge.DownloadFiles(user, req.Path, req.Names)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, types.DownloadResult{LocalPaths: localPaths})
}

func (s *Server) uploadFiles(c echo.Context) error {
	user := c.Param("user")

	var req types.UploadRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "invalid request body: " + err.Error(),
		})
	}
	if len(req.LocalPaths) == 0 {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "localPaths is required",
		})
	}

	if err := s.bridge.UploadFiles(user, req.Path, req.LocalPaths); err != nil {
		return fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
