// Package di wires the application together. Construction is explicit and
// ordered; there is no framework magic to trace through when something
// fails to start.
package di

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"vitae-backend/application/commands/handlers"
	queryhandlers "vitae-backend/application/queries/handlers"
	"vitae-backend/application/services"
	"vitae-backend/infrastructure/config"
	"vitae-backend/pkg/auth"
	"vitae-backend/pkg/observability"
)

// Container holds all application dependencies
type Container struct {
	Config *config.Config
	Logger *zap.Logger

	Metrics *observability.Metrics
	Tracer  *observability.Tracer

	// JWTValidator is nil when no secret is configured (local development);
	// the auth middleware then only accepts gateway-injected claims.
	JWTValidator *auth.JWTValidator

	NoteHandler     *handlers.NoteMutationHandler
	ProgressHandler *handlers.ProgressHandler
	CourseHandler   *handlers.CourseHandler
	SearchHandler   *queryhandlers.SearchCoursesHandler
	GetProgress     *queryhandlers.GetProgressHandler
	QuizService     *services.QuizService
}

// NewContainer builds the full dependency graph from configuration
func NewContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	logger, err := ProvideLogger(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	awsCfg, err := ProvideAWSConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	dynamoClient := ProvideDynamoDBClient(awsCfg)
	eventBridgeClient := ProvideEventBridgeClient(awsCfg)
	cloudWatchClient := ProvideCloudWatchClient(awsCfg)

	metrics := ProvideMetrics(cloudWatchClient, cfg, logger)
	tracer := ProvideTracer()

	progressRepo := ProvideProgressRepository(dynamoClient, cfg, logger)
	gateway := ProvideRemoteGateway(cfg, tracer, logger)
	eventBus := ProvideEventBus(eventBridgeClient, cfg, logger)

	var validator *auth.JWTValidator
	if cfg.JWTSecret != "" {
		validator, err = ProvideJWTValidator(cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to create jwt validator: %w", err)
		}
	} else {
		logger.Warn("JWT_SECRET not set, bearer token validation disabled")
	}

	return &Container{
		Config:          cfg,
		Logger:          logger,
		Metrics:         metrics,
		Tracer:          tracer,
		JWTValidator:    validator,
		NoteHandler:     handlers.NewNoteMutationHandler(gateway, metrics, logger),
		ProgressHandler: handlers.NewProgressHandler(progressRepo, eventBus, metrics, logger),
		CourseHandler:   handlers.NewCourseHandler(gateway, logger),
		SearchHandler:   queryhandlers.NewSearchCoursesHandler(gateway, metrics, logger),
		GetProgress:     queryhandlers.NewGetProgressHandler(progressRepo, logger),
		QuizService:     services.NewQuizService(logger),
	}, nil
}

// Shutdown flushes buffered log entries
func (c *Container) Shutdown() {
	if c.Logger != nil {
		_ = c.Logger.Sync()
	}
}
