package controllers

import (
	"Playroom/middleware"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type sessionRequest struct {
	UserID   string `json:"userId" binding:"max=64"`
	UserName string `json:"userName" binding:"required,max=50"`
}

// SessionResponse carries the bearer token for later requests
type SessionResponse struct {
	Token    string `json:"token"`
	UserID   string `json:"userId"`
	UserName string `json:"userName"`
}

// @Summary Opens a player session
// @Description Issues a bearer token for the given player and stores it in the session cookie. A new id is generated when userId is empty.
// @Tags session
// @Accept json
// @Produce json
// @Param player body sessionRequest true "Player identity"
// @Success 200 {object} SessionResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /session [post]
func OpenSession(secret string, ttl time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req sessionRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}
		userID := strings.TrimSpace(req.UserID)
		if userID == "" {
			userID = uuid.NewString()
		}
		userName := strings.TrimSpace(req.UserName)

		token, err := middleware.IssueToken(secret, userID, userName, ttl)
		if err != nil {
			respondError(c, err)
			return
		}

		session := sessions.Default(c)
		session.Set(middleware.UserIDKey, userID)
		session.Set(middleware.UserNameKey, userName)
		if err := session.Save(); err != nil {
			logrus.WithError(err).Warn("[SESSION] could not save session cookie")
		}
		c.JSON(http.StatusOK, SessionResponse{Token: token, UserID: userID, UserName: userName})
	}
}

// @Summary Closes the cookie session
// @Tags session
// @Produce json
// @Success 200 {object} object{message=string}
// @Router /session [delete]
func CloseSession(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	if err := session.Save(); err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to save session", Code: "INTERNAL"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Successfully logged out"})
}
