package handler

import (
	"log/slog"
	"net/http"
	"slices"
	"strings"

	"taskflow/config"
	"taskflow/internal/delivery/http/response"
	"taskflow/internal/realtime"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

// WSHandler upgrades authenticated requests into live sync channels.
type WSHandler struct {
	authenticator *realtime.Authenticator
	registry      *realtime.Registry
	upgrader      websocket.Upgrader
	logger        *slog.Logger
}

// NewWSHandler is the constructor for WSHandler, injected by Fx.
func NewWSHandler(authenticator *realtime.Authenticator, registry *realtime.Registry, cfg *config.Config, logger *slog.Logger) *WSHandler {
	var allowedOrigins []string
	if cfg.Realtime != nil {
		allowedOrigins = cfg.Realtime.AllowedOrigins
	}

	return &WSHandler{
		authenticator: authenticator,
		registry:      registry,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(allowedOrigins),
		},
		logger: logger,
	}
}

// Connect authenticates the handshake, upgrades the connection, and
// serves the channel until the client disconnects. The handshake is the
// only authentication point; an established channel outlives its token.
func (h *WSHandler) Connect(c echo.Context) error {
	userID, err := h.authenticator.Authenticate(bearerToken(c))
	if err != nil {
		return response.Unauthorized(c, "AUTHENTICATION_FAILED", "Authentication error")
	}

	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		// Upgrade already wrote the failure response.
		h.logger.Debug("Websocket upgrade failed", slog.Any("error", err))

		return nil
	}

	channel := realtime.NewWSChannel(conn, userID, h.logger)
	h.registry.Admit(channel)
	channel.Serve(h.registry)

	return nil
}

// bearerToken pulls the credential from the query string, falling back
// to the Authorization header for non-browser clients.
func bearerToken(c echo.Context) string {
	if token := c.QueryParam("token"); token != "" {
		return token
	}

	authHeader := c.Request().Header.Get("Authorization")

	return strings.TrimPrefix(authHeader, "Bearer ")
}

func originChecker(allowed []string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		if len(allowed) == 0 {
			return true
		}
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}

		return slices.Contains(allowed, origin)
	}
}
