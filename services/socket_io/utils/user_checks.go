package socketio_utils

import (
	"Playroom/middleware"
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/zishang520/socket.io/v2/socket"
)

var ErrMissingAuth = errors.New("missing authorization token")

// TokenFromAuth extracts the bearer token a client put in its handshake auth data,
// as {"authorization": "Bearer <token>"}
func TokenFromAuth(auth any) (string, error) {
	authData, ok := auth.(map[string]interface{})
	if !ok {
		return "", ErrMissingAuth
	}
	raw, ok := authData["authorization"].(string)
	if !ok || strings.TrimSpace(raw) == "" {
		return "", ErrMissingAuth
	}
	parts := strings.Fields(raw)
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return parts[1], nil
	}
	if len(parts) == 1 {
		return parts[0], nil
	}
	return "", ErrMissingAuth
}

// VerifyUserConnection authenticates a socket.io client with the same tokens the
// HTTP API issues. On failure the client gets an "error" event.
func VerifyUserConnection(client *socket.Socket, secret string) (success bool, userID, userName string) {
	token, err := TokenFromAuth(client.Handshake().Auth)
	if err != nil {
		logrus.Info("[SOCKET-AUTH] no authorization in handshake")
		client.Emit("error", gin.H{"error": "Authentication failed: set 'authorization' to 'Bearer <token>' in the handshake auth"})
		return false, "", ""
	}
	claims, err := middleware.ParseToken(token, secret)
	if err != nil {
		logrus.WithError(err).Info("[SOCKET-AUTH] invalid token")
		client.Emit("error", gin.H{"error": "Authentication failed: invalid token"})
		return false, "", ""
	}
	return true, claims.Subject, claims.UserName
}
