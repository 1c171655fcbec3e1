package handler

import (
	"fmt"
	"net/http"
	"net/mail"

	"github.com/kassiods/Estude/internal/auth/provider"
	"github.com/kassiods/Estude/internal/logger"
	"github.com/kassiods/Estude/internal/user"

	"github.com/gin-gonic/gin"
)

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	if req.Name == "" || req.Email == "" || req.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name, email and password are required"})
		return
	}

	if _, err := mail.ParseAddress(req.Email); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid email address"})
		return
	}

	// Surface the provider's password floor before attempting creation;
	// its own rejection message is not for end users.
	if len(req.Password) < provider.MinPasswordLength {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": fmt.Sprintf("password must be at least %d characters", provider.MinPasswordLength),
		})
		return
	}

	result, err := h.provisioner.CreateUser(
		c.Request.Context(),
		req.Email,
		req.Password,
		req.Name,
	)

	if err != nil {
		switch user.KindOf(err) {
		case user.KindDuplicateEmail:
			c.JSON(http.StatusBadRequest, gin.H{"error": "an account with this email already exists"})
		case user.KindWeakCredential:
			c.JSON(http.StatusBadRequest, gin.H{
				"error": fmt.Sprintf("password must be at least %d characters", provider.MinPasswordLength),
			})
		case user.KindProfileCreationFailed:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "registration could not be completed, please retry"})
		default:
			logger.Error("registration failed", map[string]any{
				"kind":  string(user.KindOf(err)),
				"error": err.Error(),
			})
			c.JSON(http.StatusInternalServerError, gin.H{"error": "registration failed"})
		}
		return
	}

	c.JSON(http.StatusCreated, result)
}
