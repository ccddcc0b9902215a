package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"

	"github.com/workhive/workhive-api/internal/config"
	domainchat "github.com/workhive/workhive-api/internal/domain/chat"
	"github.com/workhive/workhive-api/internal/realtime"
	ucChat "github.com/workhive/workhive-api/internal/usecase/chat"
	"github.com/workhive/workhive-api/internal/ws"
)

type WSHandler struct {
	Hub    *ws.Hub
	Config *config.Config

	Dir      domainchat.Directory
	Msgs     domainchat.MessageStore
	Profiles domainchat.ProfileStore
	Broker   *realtime.Broker
}

// Handle upgrades the connection and streams the user's topic: new
// messages, new conversations, notifications. Browsers cannot set an
// Authorization header on a native WebSocket, so the token rides on a
// query param.
func (h *WSHandler) Handle(c *gin.Context) {
	userID, ok := h.authorize(c)
	if !ok {
		return
	}

	conn, err := websocket.Accept(c.Writer, c.Request, nil)
	if err != nil {
		return // Accept already wrote the error response
	}

	// push-only socket; read just to service control frames
	conn.CloseRead(c.Request.Context())

	client := h.Hub.AddClient(userID, conn)
	defer h.Hub.RemoveClient(client)

	<-c.Request.Context().Done()
}

// HandleChatList streams live conversation-list snapshots. The
// synchronizer is torn down with the connection, so leaving the view
// cancels every per-conversation subscription it held.
func (h *WSHandler) HandleChatList(c *gin.Context) {
	userID, ok := h.authorize(c)
	if !ok {
		return
	}

	conn, err := websocket.Accept(c.Writer, c.Request, nil)
	if err != nil {
		return
	}
	defer conn.Close(websocket.StatusNormalClosure, "bye")

	conn.CloseRead(c.Request.Context())

	sync := ucChat.NewListSynchronizer(userID, h.Dir, h.Msgs, h.Profiles, h.Broker)
	if err := sync.Start(c.Request.Context()); err != nil {
		sync.Close()
		return
	}
	defer sync.Close()

	// initial snapshot, then every change
	if !writeSnapshot(c.Request.Context(), conn, sync.Snapshot()) {
		return
	}

	for {
		select {
		case <-c.Request.Context().Done():
			return
		case snap, open := <-sync.Updates():
			if !open {
				return
			}
			if !writeSnapshot(c.Request.Context(), conn, snap) {
				return
			}
		}
	}
}

func writeSnapshot(ctx context.Context, conn *websocket.Conn, snap []ucChat.ListEntry) bool {
	writeCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return wsjson.Write(writeCtx, conn, gin.H{
		"type": "chat_list",
		"data": snap,
	}) == nil
}

func (h *WSHandler) authorize(c *gin.Context) (uint, bool) {
	tokenStr := c.Query("token")
	if tokenStr == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing_token"})
		return 0, false
	}

	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenMalformed
		}
		return []byte(h.Config.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid_token"})
		return 0, false
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid_token_claims"})
		return 0, false
	}

	sub, ok := claims["sub"].(float64)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid_token_payload"})
		return 0, false
	}

	return uint(sub), true
}
