package api

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/pibridge/pibridge/pkg/types"
)

func (s *Server) listFiles(c echo.Context) error {
	user := c.Param("user")
	segments := c.QueryParams()["path"]

	files, err := s.bridge.Connect(user, segments)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, files)
}

func (s *Server) createFolder(c echo.Context) error {
	user := c.Param("user")

	var req types.FolderRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "invalid request body: " + err.Error(),
		})
	}

	if err := s.bridge.CreateFolder(user, req.Path, req.Name); err != nil {
		return fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) renameFile(c echo.Context) error {
	user := c.Param("user")

	var req types.RenameRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "invalid request body: " + err.Error(),
		})
	}

	if err := s.bridge.RenameFile(user, req.Path, req.OldName, req.NewName); err != nil {
		return fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) deleteFiles(c echo.Context) error {
	user := c.Param("user")

	var req types.DeleteRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "invalid request body: " + err.Error(),
		})
	}

	if err := s.bridge.DeleteFiles(user, req.Path, req.Names); err != nil {
		return fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) readFile(c echo.Context) error {
	user := c.Param("user")
	segments := c.QueryParams()["path"]
	name := c.QueryParam("name")
	if name == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "name query parameter is required",
		})
	}

	content, err := s.bridge.ReadFile(user, segments, name)
	if err != nil {
		return fail(c, err)
	}
	return c.String(http.StatusOK, content)
}

func (s *Server) saveFile(c echo.Context) error {
	user := c.Param("user")

	var req types.SaveFileRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "invalid request body: " + err.Error(),
		})
	}

	if err := s.bridge.SaveFile(user, req.Path, req.Name, req.Content); err != nil {
		return fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) recentHistory(c echo.Context) error {
	if s.history == nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{
			"error": "history is not enabled",
		})
	}

	limit := 50
	if v := c.QueryParam("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return c.JSON(http.StatusBadRequest, map[string]string{
				"error": "invalid limit",
			})
		}
		limit = n
	}

	entries, err := s.history.Recent(limit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": err.Error(),
		})
	}
	return c.JSON(http.StatusOK, entries)
}
