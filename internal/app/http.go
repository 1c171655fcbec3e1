package app

import (
	"context"

	"github.com/kassiods/Estude/internal/auth"
	"github.com/kassiods/Estude/internal/auth/provider/gotrue"
	"github.com/kassiods/Estude/internal/config"
	"github.com/kassiods/Estude/internal/middleware"
	"github.com/kassiods/Estude/internal/orphan"
	"github.com/kassiods/Estude/internal/user"
	"github.com/kassiods/Estude/internal/user/handler"

	"github.com/gin-gonic/gin"
)

func setupHTTP(ctx context.Context, cfg config.Config) (*gin.Engine, func() error, error) {

	infra, err := setupInfra(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	// ----------------------------
	// Dependencies
	// ----------------------------

	identityProvider, err := gotrue.New(
		cfg.IdentityProviderURL,
		cfg.IdentityServiceKey,
	)
	if err != nil {
		return nil, nil, err
	}

	profileStore := user.NewPostgresStore(infra.DB)
	orphanRegistry := orphan.NewRedisRegistry(infra.Redis.Client)

	provisioner := user.NewProvisioner(identityProvider, profileStore, orphanRegistry)
	reconciler := user.NewReconciler(profileStore)
	authenticator := auth.NewAuthenticator(identityProvider)

	userHandler := handler.NewHandler(
		provisioner,
		reconciler,
		profileStore,
		identityProvider,
	)

	// ----------------------------
	// Router
	// ----------------------------

	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	userHandler.RegisterRoutes(router, middleware.RequireAuth(authenticator))

	// ----------------------------
	// Cleanup
	// ----------------------------

	return router, func() error {
		if err := infra.Redis.Close(); err != nil {
			return err
		}
		return infra.DB.Close()
	}, nil
}
