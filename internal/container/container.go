package container

import (
	"log/slog"
	"time"

	"github.com/joshua-takyi/gatherly/internal/config"
	"github.com/joshua-takyi/gatherly/internal/helpers"
	"github.com/joshua-takyi/gatherly/internal/models"
	"github.com/joshua-takyi/gatherly/internal/services"
)

// Container holds all application dependencies
type Container struct {
	Logger         *slog.Logger
	Config         *config.Config
	TokenValidator *helpers.TokenValidator
	EventService   *services.EventService
	// AuthService is nil when Supabase is not configured.
	AuthService *services.AuthService
	// Clock supplies the invocation time for every request.
	Clock func() time.Time
}

// NewContainer creates a new dependency injection container. sessions and
// images are optional.
func NewContainer(
	logger *slog.Logger,
	cfg *config.Config,
	store models.EventStore,
	validator *helpers.TokenValidator,
	sessions models.SessionRepo,
	images services.ImageUploader,
) *Container {
	eventService := services.NewEventService(store, images, services.Features{
		EnforceCapacity:           cfg.Features.EnforceCapacity,
		EnforceUpdateOwnership:    cfg.Features.EnforceUpdateOwnership,
		RequireDeleteConfirmation: cfg.Features.RequireDeleteConfirmation,
		DeleteConfirmationToken:   cfg.Features.DeleteConfirmationToken,
	}, logger)

	var authService *services.AuthService
	if sessions != nil {
		authService = services.NewAuthService(sessions)
	}

	return &Container{
		Logger:         logger,
		Config:         cfg,
		TokenValidator: validator,
		EventService:   eventService,
		AuthService:    authService,
		Clock:          time.Now,
	}
}
