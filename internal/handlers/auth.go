package handlers

import (
	"crypto/subtle"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/wolfleithold/guitar-harmony/internal/auth"
)

type loginRequest struct {
	Password string `json:"password"`
}

// Login checks the shared password and sets the session cookie.
func (a *API) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if req.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Password is required"})
		return
	}

	if subtle.ConstantTimeCompare([]byte(req.Password), []byte(a.cfg.AuthPassword)) != 1 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid password"})
		return
	}

	token, err := a.sessions.Mint()
	if err != nil {
		log.Printf("Error minting session token: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error creating session"})
		return
	}

	c.SetCookie(auth.SessionCookie, token, int(auth.SessionTTL.Seconds()), "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"message": "Logged in"})
}

// Logout clears the session cookie.
func (a *API) Logout(c *gin.Context) {
	c.SetCookie(auth.SessionCookie, "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}
