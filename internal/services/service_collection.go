// file: internal/services/service_collection.go
package services

import (
	"context"

	"coursehub/internal/cache"
	"coursehub/internal/config"
	"coursehub/internal/database"
	"coursehub/internal/gemini"
	"coursehub/internal/repositories"

	"go.uber.org/zap"
)

// ServiceCollection holds all services with their shared dependencies wired.
type ServiceCollection struct {
	DiscussionService DiscussionService
	ReplyService      ReplyService
	QuizService       QuizService

	Repositories *repositories.Collection

	Cache     cache.Cache
	Logger    *zap.Logger
	Config    *config.Config
	DBManager *database.Manager
}

// NewServiceCollection wires repositories, the propagator and all services
// over the shared database, cache and logger.
func NewServiceCollection(
	cfg *config.Config,
	db *database.Manager,
	cacheStore cache.Cache,
	logger *zap.Logger,
) *ServiceCollection {
	repos := &repositories.Collection{
		Discussion: repositories.NewDiscussionRepository(db, logger),
		Reply:      repositories.NewReplyRepository(db, logger),
		Course:     repositories.NewCourseRepository(db, logger),
		User:       repositories.NewUserRepository(db, logger),
	}

	propagator := NewPropagator(repos.Discussion, logger)
	provider := gemini.NewClient(&cfg.Gemini, logger)

	discussionCfg := DefaultDiscussionConfig()
	discussionCfg.StatsCacheTime = cfg.Cache.DefaultTTL

	return &ServiceCollection{
		DiscussionService: NewDiscussionService(repos.Discussion, repos.Reply, repos.Course, cacheStore, logger, discussionCfg),
		ReplyService:      NewReplyService(repos.Reply, repos.Discussion, repos.User, propagator, logger),
		QuizService:       NewQuizService(repos.Course, provider, logger, nil),
		Repositories:      repos,
		Cache:             cacheStore,
		Logger:            logger,
		Config:            cfg,
		DBManager:         db,
	}
}

// Shutdown releases the collection's infrastructure resources.
func (sc *ServiceCollection) Shutdown(ctx context.Context) error {
	if err := sc.Cache.Close(); err != nil {
		sc.Logger.Warn("Failed to close cache", zap.Error(err))
	}
	return sc.DBManager.Close()
}
