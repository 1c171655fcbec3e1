package handler

import (
	"github.com/kassiods/Estude/internal/auth/provider"
	"github.com/kassiods/Estude/internal/user"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	provisioner *user.Provisioner
	reconciler  *user.Reconciler
	profiles    user.Store
	provider    provider.IdentityProvider
}

func NewHandler(
	provisioner *user.Provisioner,
	reconciler *user.Reconciler,
	profiles user.Store,
	idp provider.IdentityProvider,
) *Handler {
	return &Handler{
		provisioner: provisioner,
		reconciler:  reconciler,
		profiles:    profiles,
		provider:    idp,
	}
}

// RegisterRoutes mounts the user surface. requireAuth gates the
// protected routes; register and login stay public.
func (h *Handler) RegisterRoutes(r *gin.Engine, requireAuth gin.HandlerFunc) {
	users := r.Group("/users")

	users.POST("/register", h.Register)
	users.POST("/login", h.Login)

	protected := users.Group("")
	protected.Use(requireAuth)
	protected.GET("/me", h.Me)
	protected.PATCH("/update", h.Update)
}
