// file: internal/router/router.go
package router

import (
	"net/http"

	"coursehub/internal/database"
	"coursehub/internal/handlers/api/v1/discussions"
	"coursehub/internal/handlers/api/v1/quiz"
	"coursehub/internal/handlers/api/v1/replies"
	"coursehub/internal/middleware"
	"coursehub/internal/response"
	"coursehub/internal/services"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// New assembles the API router: the shared middleware chain, the versioned
// forum and quiz routes, and the health endpoint.
func New(sc *services.ServiceCollection, auth *middleware.AuthMiddleware, logger *zap.Logger) http.Handler {
	writer := response.NewWriter(logger)

	discussionCtrl := discussions.NewDiscussionController(sc.DiscussionService, logger, writer)
	replyCtrl := replies.NewReplyController(sc.ReplyService, logger, writer)
	quizCtrl := quiz.NewQuizController(sc.QuizService, logger, writer)

	r := chi.NewRouter()
	r.Use(middleware.RequestID(logger))
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.Logging(logger))

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", healthHandler(sc, writer))

		r.Get("/categories", discussionCtrl.GetCategories)
		r.Get("/tags", discussionCtrl.GetTags)

		r.Route("/discussions", func(r chi.Router) {
			// Public reads; a valid token still resolves the caller so
			// reply listings can stamp the viewer's own vote.
			r.Group(func(r chi.Router) {
				r.Use(auth.OptionalAuth)
				r.Get("/", discussionCtrl.ListDiscussions)
				r.Get("/stats", discussionCtrl.GetStats)
				r.Get("/{id}", discussionCtrl.GetDiscussion)
				r.Get("/{discussionId}/replies", replyCtrl.ListReplies)
			})

			r.Group(func(r chi.Router) {
				r.Use(auth.RequireAuth)
				r.Post("/", discussionCtrl.CreateDiscussion)
				r.Put("/{id}", discussionCtrl.UpdateDiscussion)
				r.Delete("/{id}", discussionCtrl.DeleteDiscussion)
				r.Patch("/{id}/pin", discussionCtrl.TogglePin)
				r.Patch("/{id}/lock", discussionCtrl.ToggleLock)
				r.Post("/{discussionId}/replies", replyCtrl.CreateReply)
			})
		})

		r.Route("/replies", func(r chi.Router) {
			r.Use(auth.RequireAuth)
			r.Put("/{id}", replyCtrl.UpdateReply)
			r.Delete("/{id}", replyCtrl.DeleteReply)
			r.Post("/{id}/vote", replyCtrl.Vote)
			r.Patch("/{id}/accept", replyCtrl.Accept)
			r.Patch("/{id}/unaccept", replyCtrl.Unaccept)
		})

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAuth)
			r.Post("/quiz/generate", quizCtrl.GenerateQuiz)
		})
	})

	return r
}

// healthHandler reports database and cache health with an aggregate status.
func healthHandler(sc *services.ServiceCollection, writer *response.Writer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		dbHealth := database.Health(ctx)
		cacheStatus := database.StatusHealthy
		if err := sc.Cache.Health(ctx); err != nil {
			cacheStatus = database.StatusUnhealthy
		}

		status := http.StatusOK
		overall := database.StatusHealthy
		if dbHealth.Status != database.StatusHealthy || cacheStatus != database.StatusHealthy {
			status = http.StatusServiceUnavailable
			overall = database.StatusUnhealthy
		}

		writer.WriteJSON(ctx, w, status, map[string]interface{}{
			"status":   overall,
			"database": dbHealth,
			"cache":    cacheStatus,
		})
	}
}
