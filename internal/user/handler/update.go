package handler

import (
	"net/http"

	"github.com/kassiods/Estude/internal/logger"
	"github.com/kassiods/Estude/internal/middleware"
	"github.com/kassiods/Estude/internal/user"

	"github.com/gin-gonic/gin"
)

// updateRequest binds only the mutable attributes. Anything else in
// the body (email, is_premium, id) is silently dropped, not rejected.
type updateRequest struct {
	Name     *string `json:"name"`
	PhotoURL *string `json:"photoUrl"`
}

func (h *Handler) Update(c *gin.Context) {
	identity, ok := middleware.IdentityFromContext(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req updateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	profile, err := h.profiles.Update(c.Request.Context(), identity.ID, user.UpdateFields{
		Name:     req.Name,
		PhotoURL: req.PhotoURL,
	})
	if err == user.ErrNotFound {
		c.JSON(http.StatusNotFound, gin.H{"error": "profile not found"})
		return
	}
	if err != nil {
		logger.Error("profile update failed", map[string]any{
			"identity_id": identity.ID,
			"error":       err.Error(),
		})
		c.JSON(http.StatusInternalServerError, gin.H{"error": "profile update failed"})
		return
	}

	// Mirror the display name into provider metadata so both stores
	// agree on it. Best-effort: a provider failure here is logged and
	// never fails the update.
	if req.Name != nil {
		if err := h.provider.UpdateMetadata(c.Request.Context(), identity.ID, map[string]any{
			"name": *req.Name,
		}); err != nil {
			logger.Warn("metadata mirror failed", map[string]any{
				"identity_id": identity.ID,
				"error":       err.Error(),
			})
		}
	}

	c.JSON(http.StatusOK, gin.H{"profile": profile})
}
