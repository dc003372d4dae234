package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/pibridge/pibridge/internal/auth"
	"github.com/pibridge/pibridge/internal/history"
	"github.com/pibridge/pibridge/internal/metrics"
	"github.com/pibridge/pibridge/internal/progress"
	"github.com/pibridge/pibridge/pkg/types"
)

// Bridge is the command surface the handlers serve. One method per user
// action; each call is an independent unit of work against a fresh session.
type Bridge interface {
	Connect(user string, segments []string) ([]types.FileDescriptor, error)
	DownloadFiles(user string, segments, names []string) ([]string, error)
	UploadFiles(user string, segments, localPaths []string) error
	CreateFolder(user string, segments []string, name string) error
	RenameFile(user string, segments []string, oldName, newName string) error
	DeleteFiles(user string, segments, names []string) error
	ReadFile(user string, segments []string, name string) (string, error)
	SaveFile(user string, segments []string, name, content string) error
}

// Server holds the API server dependencies.
type Server struct {
	echo    *echo.Echo
	bridge  Bridge
	hub     *progress.Hub
	issuer  *auth.JWTIssuer
	history *history.Store
}

// NewServer creates a new API server with all routes configured. issuer and
// hist may be nil; the related endpoints then degrade gracefully.
func NewServer(bridge Bridge, hub *progress.Hub, issuer *auth.JWTIssuer, hist *history.Store, apiKey string) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	s := &Server{
		echo:    e,
		bridge:  bridge,
		hub:     hub,
		issuer:  issuer,
		history: hist,
	}

	// Global middleware
	e.Use(middleware.Recover())
	e.Use(middleware.Logger())
	e.Use(middleware.CORS())
	e.Use(middleware.RequestID())
	e.Use(metrics.EchoMiddleware())

	// Health check (no auth)
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	// Progress stream authenticates with its own short-lived token.
	e.GET("/progress", s.progressSocket)

	// API routes (with auth)
	api := e.Group("")
	api.Use(auth.APIKeyMiddleware(apiKey))

	api.GET("/metrics", echo.WrapHandler(metrics.Handler()))

	// Workspace filesystem
	api.GET("/workspaces/:user/files", s.listFiles)
	api.DELETE("/workspaces/:user/files", s.deleteFiles)
	api.GET("/workspaces/:user/file", s.readFile)
	api.PUT("/workspaces/:user/file", s.saveFile)
	api.POST("/workspaces/:user/folders", s.createFolder)
	api.POST("/workspaces/:user/rename", s.renameFile)

	// Transfers
	api.POST("/workspaces/:user/downloads", s.downloadFiles)
	api.POST("/workspaces/:user/uploads", s.uploadFiles)

	// Progress subscription
	api.POST("/workspaces/:user/progress-token", s.progressToken)

	// Operation history
	api.GET("/history", s.recentHistory)

	return s
}

// Start starts the HTTP server on the given address.
func (s *Server) Start(addr string) error {
	return s.echo.Start(addr)
}

// Close gracefully shuts down the server.
func (s *Server) Close() error {
	return s.echo.Close()
}
