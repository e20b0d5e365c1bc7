package api

import (
	"net/http"
	"strings"
	"time"

	"hackshare/internal/auth"
	"hackshare/internal/config"
	"hackshare/internal/events"
	"hackshare/internal/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	wsWriteWait  = 10 * time.Second
	wsPongWait   = 60 * time.Second
	wsPingPeriod = wsPongWait * 9 / 10
)

var wsUpgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// GET /ws/moderation
// Streams moderation events to admins. Browsers cannot set headers on a
// websocket handshake, so the token may also come from ?token=.
func WSModerationHandler(cfg *config.Config, svc *Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		if svc.Hub == nil {
			errorJSON(c, http.StatusServiceUnavailable, "event stream disabled")
			return
		}
		token := c.GetHeader("Authorization")
		if token == "" {
			token = c.Query("token")
		}
		if token == "" {
			errorJSON(c, http.StatusUnauthorized, "missing JWT")
			return
		}
		token = strings.TrimPrefix(token, "Bearer ")
		claims, err := auth.ParseJWT(cfg.Server.JWTSecret, token)
		if err != nil {
			errorJSON(c, http.StatusUnauthorized, "invalid JWT")
			return
		}
		ctx := c.Request.Context()
		if live, err := svc.Sessions.Get(ctx, claims.UserID); err != nil || live != token {
			errorJSON(c, http.StatusUnauthorized, auth.ErrNotAuthenticated.Error())
			return
		}
		u, err := svc.Users.FindByID(ctx, claims.UserID)
		if err != nil {
			errorJSON(c, http.StatusInternalServerError, "DB error")
			return
		}
		if u == nil {
			errorJSON(c, http.StatusUnauthorized, auth.ErrUserGone.Error())
			return
		}
		if !u.IsAdmin() {
			errorJSON(c, http.StatusForbidden, auth.ErrNotAdmin.Error())
			return
		}

		conn, err := wsUpgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			logger.Warningf("websocket upgrade failed: %v", err)
			return
		}
		client := events.NewClient(u.ID + "/" + uuid.NewString()[:8])
		svc.Hub.Register(client)
		logger.Debugf("moderation stream opened by %s", u.Username)

		go readPump(conn, svc.Hub, client)
		writePump(conn, client)
	}
}

// readPump discards client frames and unregisters the client once the
// connection closes.
func readPump(conn *websocket.Conn, hub *events.Hub, client *events.Client) {
	defer func() {
		hub.Unregister(client)
		conn.Close()
	}()
	conn.SetReadLimit(512)
	_ = conn.SetReadDeadline(time.Now().Add(wsPongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(wsPongWait))
	})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

// writePump forwards hub messages until the client's channel is closed.
func writePump(conn *websocket.Conn, client *events.Client) {
	ticker := time.NewTicker(wsPingPeriod)
	defer func() {
		ticker.Stop()
		conn.Close()
	}()
	for {
		select {
		case msg, ok := <-client.Send:
			_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if !ok {
				_ = conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
