// file: internal/handlers/api/v1/replies/replies_controller.go
package replies

import (
	"encoding/json"
	"net/http"
	"strconv"

	"coursehub/internal/middleware"
	"coursehub/internal/response"
	"coursehub/internal/services"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// ReplyController handles the reply API endpoints
type ReplyController struct {
	service services.ReplyService
	logger  *zap.Logger
	writer  *response.Writer
}

// NewReplyController creates a new reply controller
func NewReplyController(service services.ReplyService, logger *zap.Logger, writer *response.Writer) *ReplyController {
	return &ReplyController{service: service, logger: logger, writer: writer}
}

// ListReplies handles GET /api/v1/discussions/{discussionId}/replies
func (c *ReplyController) ListReplies(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	query := r.URL.Query()

	req := &services.ListRepliesRequest{
		DiscussionID: chi.URLParam(r, "discussionId"),
		Page:         parseIntParam(query.Get("page")),
		Limit:        parseIntParam(query.Get("limit")),
	}
	// Signed-in viewers get their own vote stamped on each reply.
	if authCtx := middleware.GetAuthContext(ctx); authCtx != nil {
		req.Viewer = authCtx.UserID
	}

	result, err := c.service.ListReplies(ctx, req)
	if err != nil {
		c.writer.WriteServiceError(ctx, w, err)
		return
	}
	c.writer.WriteJSON(ctx, w, http.StatusOK, result)
}

// CreateReply handles POST /api/v1/discussions/{discussionId}/replies
func (c *ReplyController) CreateReply(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	authCtx := middleware.GetAuthContext(ctx)
	if authCtx == nil {
		response.WriteError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var req services.CreateReplyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.DiscussionID = chi.URLParam(r, "discussionId")
	req.UserID = authCtx.UserID

	reply, err := c.service.CreateReply(ctx, &req)
	if err != nil {
		c.writer.WriteServiceError(ctx, w, err)
		return
	}

	c.logger.Info("Reply created",
		zap.String("reply_id", reply.ID.Hex()),
		zap.String("discussion_id", req.DiscussionID),
		zap.String("user_id", authCtx.UserID.Hex()),
	)
	c.writer.WriteCreated(ctx, w, reply)
}

// UpdateReply handles PUT /api/v1/replies/{id}
func (c *ReplyController) UpdateReply(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	authCtx := middleware.GetAuthContext(ctx)
	if authCtx == nil {
		response.WriteError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var req services.UpdateReplyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.ReplyID = chi.URLParam(r, "id")
	req.UserID = authCtx.UserID
	req.Role = authCtx.Role

	reply, err := c.service.UpdateReply(ctx, &req)
	if err != nil {
		c.writer.WriteServiceError(ctx, w, err)
		return
	}
	c.writer.WriteJSON(ctx, w, http.StatusOK, reply)
}

// DeleteReply handles DELETE /api/v1/replies/{id}
func (c *ReplyController) DeleteReply(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	authCtx := middleware.GetAuthContext(ctx)
	if authCtx == nil {
		response.WriteError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	req := &services.DeleteReplyRequest{
		ReplyID: chi.URLParam(r, "id"),
		UserID:  authCtx.UserID,
		Role:    authCtx.Role,
	}
	if err := c.service.DeleteReply(ctx, req); err != nil {
		c.writer.WriteServiceError(ctx, w, err)
		return
	}
	c.writer.WriteMessage(ctx, w, "Reply deleted successfully")
}

// Vote handles POST /api/v1/replies/{id}/vote
func (c *ReplyController) Vote(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	authCtx := middleware.GetAuthContext(ctx)
	if authCtx == nil {
		response.WriteError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var req services.VoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.ReplyID = chi.URLParam(r, "id")
	req.UserID = authCtx.UserID

	result, err := c.service.Vote(ctx, &req)
	if err != nil {
		c.writer.WriteServiceError(ctx, w, err)
		return
	}
	c.writer.WriteJSON(ctx, w, http.StatusOK, result)
}

// Accept handles PATCH /api/v1/replies/{id}/accept
func (c *ReplyController) Accept(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	authCtx := middleware.GetAuthContext(ctx)
	if authCtx == nil {
		response.WriteError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	req := &services.AcceptAnswerRequest{
		ReplyID: chi.URLParam(r, "id"),
		UserID:  authCtx.UserID,
		Role:    authCtx.Role,
	}
	if err := c.service.MarkAccepted(ctx, req); err != nil {
		c.writer.WriteServiceError(ctx, w, err)
		return
	}
	c.writer.WriteMessage(ctx, w, "Reply marked as accepted answer")
}

// Unaccept handles PATCH /api/v1/replies/{id}/unaccept
func (c *ReplyController) Unaccept(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	authCtx := middleware.GetAuthContext(ctx)
	if authCtx == nil {
		response.WriteError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	req := &services.AcceptAnswerRequest{
		ReplyID: chi.URLParam(r, "id"),
		UserID:  authCtx.UserID,
		Role:    authCtx.Role,
	}
	if err := c.service.UnmarkAccepted(ctx, req); err != nil {
		c.writer.WriteServiceError(ctx, w, err)
		return
	}
	c.writer.WriteMessage(ctx, w, "Accepted answer removed")
}

func parseIntParam(value string) int {
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0
	}
	return n
}
