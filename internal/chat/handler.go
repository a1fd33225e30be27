package chat

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/websocket"

	"github.com/skillhubapp/skillhub-api/internal/authz"
	"github.com/skillhubapp/skillhub-api/internal/config"
	"github.com/skillhubapp/skillhub-api/internal/httperr"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	// Browsers cannot set Authorization on websocket upgrades from every
	// client; origin enforcement belongs to the CORS layer in front.
	CheckOrigin: func(*http.Request) bool { return true },
}

type Handler struct {
	hub    *Hub
	config *config.Config
}

func NewHandler(hub *Hub, cfg *config.Config) *Handler {
	return &Handler{hub: hub, config: cfg}
}

// Serve authenticates the caller and upgrades the connection. A missing,
// malformed, or unknown credential rejects the connection before any
// event is processed; from here on the identity is fixed.
func (h *Handler) Serve(c *gin.Context) {
	tokenString := bearerToken(c)
	if tokenString == "" {
		httperr.Unauthorized(c, "missing_token", "No token provided")
		return
	}

	userID, err := h.parseToken(tokenString)
	if err != nil {
		httperr.Unauthorized(c, "invalid_token", "Invalid token")
		return
	}

	user, err := h.hub.store.GetUserByID(c.Request.Context(), userID)
	if err != nil {
		httperr.Unauthorized(c, "invalid_token", "User not found")
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}

	client := newClient(h.hub, conn, authz.Identity{ID: user.ID, Role: user.Role}, user.Name)

	// The request context dies with this handler once the connection is
	// hijacked; the pumps outlive it.
	go client.writePump()
	go client.readPump(context.Background())
}

func bearerToken(c *gin.Context) string {
	if header := c.GetHeader("Authorization"); header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return parts[1]
		}
		return ""
	}
	return c.Query("token")
}

func (h *Handler) parseToken(tokenString string) (uint, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenMalformed
		}
		return []byte(h.config.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return 0, jwt.ErrTokenMalformed
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, jwt.ErrTokenInvalidClaims
	}

	sub, ok := claims["sub"].(float64)
	if !ok {
		return 0, jwt.ErrTokenInvalidClaims
	}

	return uint(sub), nil
}
