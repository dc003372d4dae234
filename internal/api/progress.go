package api

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"github.com/pibridge/pibridge/internal/metrics"
	"github.com/pibridge/pibridge/pkg/types"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for now; tighten in production
	},
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

const progressTokenTTL = 15 * time.Minute

func (s *Server) progressToken(c echo.Context) error {
	if s.issuer == nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{
			"error": "progress tokens are not enabled",
		})
	}

	token, err := s.issuer.IssueProgressToken(c.Param("user"), progressTokenTTL)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": err.Error(),
		})
	}
	return c.JSON(http.StatusOK, types.ProgressTokenResponse{Token: token})
}

// progressSocket streams every progress event to the subscriber until it
// disconnects. Events have no per-command addressing; a subscriber sees all
// in-flight transfers interleaved.
func (s *Server) progressSocket(c echo.Context) error {
	if s.issuer != nil {
		token := c.QueryParam("token")
		if token == "" {
			return c.JSON(http.StatusUnauthorized, map[string]string{
				"error": "missing progress token",
			})
		}
		if _, err := s.issuer.ValidateProgressToken(token); err != nil {
			return c.JSON(http.StatusForbidden, map[string]string{
				"error": err.Error(),
			})
		}
	}

	ws, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}
	defer ws.Close()

	events, cancel := s.hub.Subscribe()
	defer cancel()

	metrics.ProgressSubscribers.Inc()
	defer metrics.ProgressSubscribers.Dec()

	// Detect the client going away; the read pump exists only for that.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := ws.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case ev := <-events:
			if err := ws.WriteJSON(ev); err != nil {
				return nil
			}
		case <-done:
			ws.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(time.Second))
			return nil
		}
	}
}
