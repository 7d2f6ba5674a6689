// file: internal/handlers/api/v1/discussions/discussions_controller.go
package discussions

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"coursehub/internal/middleware"
	"coursehub/internal/response"
	"coursehub/internal/services"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// DiscussionController handles the discussion API endpoints
type DiscussionController struct {
	service services.DiscussionService
	logger  *zap.Logger
	writer  *response.Writer
}

// NewDiscussionController creates a new discussion controller
func NewDiscussionController(service services.DiscussionService, logger *zap.Logger, writer *response.Writer) *DiscussionController {
	return &DiscussionController{service: service, logger: logger, writer: writer}
}

// ===============================
// LISTING & RETRIEVAL
// ===============================

// ListDiscussions handles GET /api/v1/discussions
func (c *DiscussionController) ListDiscussions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	query := r.URL.Query()

	req := &services.ListDiscussionsRequest{
		Search:     query.Get("search"),
		Category:   query.Get("category"),
		Course:     query.Get("course"),
		Tags:       splitList(query.Get("tags")),
		Unanswered: query.Get("unanswered") == "true",
		Sort:       query.Get("sort"),
		Page:       parseIntParam(query.Get("page")),
		Limit:      parseIntParam(query.Get("limit")),
	}

	result, err := c.service.ListDiscussions(ctx, req)
	if err != nil {
		c.writer.WriteServiceError(ctx, w, err)
		return
	}
	c.writer.WriteJSON(ctx, w, http.StatusOK, result)
}

// GetDiscussion handles GET /api/v1/discussions/{id}
func (c *DiscussionController) GetDiscussion(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	result, err := c.service.GetDiscussion(ctx, chi.URLParam(r, "id"))
	if err != nil {
		c.writer.WriteServiceError(ctx, w, err)
		return
	}
	c.writer.WriteJSON(ctx, w, http.StatusOK, result)
}

// GetStats handles GET /api/v1/discussions/stats
func (c *DiscussionController) GetStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	stats, err := c.service.GetStats(ctx)
	if err != nil {
		c.writer.WriteServiceError(ctx, w, err)
		return
	}
	c.writer.WriteJSON(ctx, w, http.StatusOK, stats)
}

// GetCategories handles GET /api/v1/categories
func (c *DiscussionController) GetCategories(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	c.writer.WriteJSON(ctx, w, http.StatusOK, c.service.GetCategories(ctx))
}

// GetTags handles GET /api/v1/tags
func (c *DiscussionController) GetTags(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	tags, err := c.service.GetPopularTags(ctx)
	if err != nil {
		c.writer.WriteServiceError(ctx, w, err)
		return
	}
	c.writer.WriteJSON(ctx, w, http.StatusOK, tags)
}

// ===============================
// MUTATIONS
// ===============================

// CreateDiscussion handles POST /api/v1/discussions
func (c *DiscussionController) CreateDiscussion(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	authCtx := middleware.GetAuthContext(ctx)
	if authCtx == nil {
		response.WriteError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var req services.CreateDiscussionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.UserID = authCtx.UserID

	discussion, err := c.service.CreateDiscussion(ctx, &req)
	if err != nil {
		c.writer.WriteServiceError(ctx, w, err)
		return
	}

	c.logger.Info("Discussion created",
		zap.String("discussion_id", discussion.ID.Hex()),
		zap.String("slug", discussion.Slug),
		zap.String("user_id", authCtx.UserID.Hex()),
	)
	c.writer.WriteCreated(ctx, w, discussion)
}

// UpdateDiscussion handles PUT /api/v1/discussions/{id}
func (c *DiscussionController) UpdateDiscussion(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	authCtx := middleware.GetAuthContext(ctx)
	if authCtx == nil {
		response.WriteError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var req services.UpdateDiscussionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.DiscussionID = chi.URLParam(r, "id")
	req.UserID = authCtx.UserID
	req.Role = authCtx.Role

	discussion, err := c.service.UpdateDiscussion(ctx, &req)
	if err != nil {
		c.writer.WriteServiceError(ctx, w, err)
		return
	}
	c.writer.WriteJSON(ctx, w, http.StatusOK, discussion)
}

// DeleteDiscussion handles DELETE /api/v1/discussions/{id}
func (c *DiscussionController) DeleteDiscussion(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	authCtx := middleware.GetAuthContext(ctx)
	if authCtx == nil {
		response.WriteError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	req := &services.DeleteDiscussionRequest{
		DiscussionID: chi.URLParam(r, "id"),
		UserID:       authCtx.UserID,
		Role:         authCtx.Role,
	}
	if err := c.service.DeleteDiscussion(ctx, req); err != nil {
		c.writer.WriteServiceError(ctx, w, err)
		return
	}

	c.logger.Info("Discussion deleted",
		zap.String("discussion_id", req.DiscussionID),
		zap.String("user_id", authCtx.UserID.Hex()),
	)
	c.writer.WriteMessage(ctx, w, "Discussion deleted successfully")
}

// ===============================
// MODERATION
// ===============================

// TogglePin handles PATCH /api/v1/discussions/{id}/pin
func (c *DiscussionController) TogglePin(w http.ResponseWriter, r *http.Request) {
	c.toggle(w, r, "pin")
}

// ToggleLock handles PATCH /api/v1/discussions/{id}/lock
func (c *DiscussionController) ToggleLock(w http.ResponseWriter, r *http.Request) {
	c.toggle(w, r, "lock")
}

func (c *DiscussionController) toggle(w http.ResponseWriter, r *http.Request, flag string) {
	ctx := r.Context()
	authCtx := middleware.GetAuthContext(ctx)
	if authCtx == nil {
		response.WriteError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	req := &services.ModerateDiscussionRequest{
		DiscussionID: chi.URLParam(r, "id"),
		Role:         authCtx.Role,
	}

	var (
		state bool
		err   error
	)
	if flag == "pin" {
		state, err = c.service.TogglePin(ctx, req)
	} else {
		state, err = c.service.ToggleLock(ctx, req)
	}
	if err != nil {
		c.writer.WriteServiceError(ctx, w, err)
		return
	}

	c.writer.WriteMessage(ctx, w, toggleMessage(flag, state))
}

func toggleMessage(flag string, state bool) string {
	switch {
	case flag == "pin" && state:
		return "Discussion pinned"
	case flag == "pin":
		return "Discussion unpinned"
	case state:
		return "Discussion locked"
	default:
		return "Discussion unlocked"
	}
}

// ===============================
// HELPERS
// ===============================

func parseIntParam(value string) int {
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0
	}
	return n
}

// splitList parses a comma-separated query value into its non-empty parts.
func splitList(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
