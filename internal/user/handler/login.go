package handler

import (
	"net/http"

	"github.com/kassiods/Estude/internal/logger"

	"github.com/gin-gonic/gin"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	identity, token, err := h.provider.SignIn(
		c.Request.Context(),
		req.Email,
		req.Password,
	)
	if err != nil {
		// Deliberately generic: unknown email and wrong password are
		// indistinguishable to the caller.
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}

	// A missing profile at login is the reconciler's lazy-repair case.
	// If even that fails, login itself still succeeded; return what we
	// have rather than locking the user out.
	profile, err := h.reconciler.EnsureProfile(c.Request.Context(), identity)
	if err != nil {
		logger.Warn("profile reconciliation failed during login", map[string]any{
			"identity_id": identity.ID,
			"error":       err.Error(),
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"identity": gin.H{
			"id":    identity.ID,
			"email": identity.Email,
		},
		"profile": profile,
		"token":   token,
	})
}
