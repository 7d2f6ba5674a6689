// file: internal/services/reply_service.go
package services

import (
	"context"
	"strings"
	"time"

	"coursehub/internal/models"
	"coursehub/internal/repositories"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// replyService implements ReplyService over the forum repositories
type replyService struct {
	replyRepo      repositories.ReplyRepository
	discussionRepo repositories.DiscussionRepository
	userRepo       repositories.UserRepository
	propagator     *Propagator
	logger         *zap.Logger
}

// NewReplyService creates a new reply service
func NewReplyService(
	replyRepo repositories.ReplyRepository,
	discussionRepo repositories.DiscussionRepository,
	userRepo repositories.UserRepository,
	propagator *Propagator,
	logger *zap.Logger,
) ReplyService {
	return &replyService{
		replyRepo:      replyRepo,
		discussionRepo: discussionRepo,
		userRepo:       userRepo,
		propagator:     propagator,
		logger:         logger,
	}
}

// ===============================
// LISTING
// ===============================

// ListReplies pages over a discussion's top-level replies, each carrying its
// direct children. Deeper nesting stays stored but is not materialized.
func (s *replyService) ListReplies(ctx context.Context, req *ListRepliesRequest) (*ReplyListResult, error) {
	discussionID, err := primitive.ObjectIDFromHex(req.DiscussionID)
	if err != nil {
		return nil, NewNotFoundError("discussion not found")
	}

	replies, total, err := s.replyRepo.ListTopLevel(ctx, discussionID, req.Page, req.Limit)
	if err != nil {
		return nil, NewInternalError("failed to list replies", err)
	}

	parentIDs := make([]primitive.ObjectID, 0, len(replies))
	for _, reply := range replies {
		parentIDs = append(parentIDs, reply.ID)
	}
	children, err := s.replyRepo.ListChildren(ctx, parentIDs)
	if err != nil {
		return nil, NewInternalError("failed to list nested replies", err)
	}
	for _, reply := range replies {
		reply.Children = children[reply.ID]
	}

	if !req.Viewer.IsZero() {
		for _, reply := range replies {
			reply.UserVote = reply.HasVote(req.Viewer)
			for _, child := range reply.Children {
				child.UserVote = child.HasVote(req.Viewer)
			}
		}
	}

	page, limit := appliedPage(req.Page, req.Limit, 20, 100)
	return &ReplyListResult{
		Replies:    replies,
		Pagination: NewPagination(page, limit, total),
	}, nil
}

// ===============================
// MUTATIONS
// ===============================

func (s *replyService) CreateReply(ctx context.Context, req *CreateReplyRequest) (*models.Reply, error) {
	if err := validate.Struct(req); err != nil {
		return nil, NewValidationError("invalid create reply request", err)
	}
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, NewValidationError("reply content cannot be empty", nil)
	}
	discussionID, err := primitive.ObjectIDFromHex(req.DiscussionID)
	if err != nil {
		return nil, NewNotFoundError("discussion not found")
	}

	discussion, err := s.discussionRepo.GetByID(ctx, discussionID)
	if err != nil {
		if repositories.IsNotFound(err) {
			return nil, NewNotFoundError("discussion not found")
		}
		return nil, NewInternalError("failed to get discussion", err)
	}
	if discussion.IsLocked {
		return nil, NewForbiddenError("discussion is locked")
	}

	var parentID *primitive.ObjectID
	if req.ParentReply != nil && *req.ParentReply != "" {
		id, err := primitive.ObjectIDFromHex(*req.ParentReply)
		if err != nil {
			return nil, NewValidationError("invalid parent reply id", err)
		}
		// The parent must live in the same discussion.
		if _, err := s.replyRepo.FindInDiscussion(ctx, id, discussionID); err != nil {
			if repositories.IsNotFound(err) {
				return nil, NewNotFoundError("parent reply not found")
			}
			return nil, NewInternalError("failed to get parent reply", err)
		}
		parentID = &id
	}

	// The instructor flag is derived from the author's current store role,
	// not the token claims, so a role change takes effect immediately.
	author, err := s.userRepo.GetByID(ctx, req.UserID)
	if err != nil {
		if repositories.IsNotFound(err) {
			return nil, NewNotFoundError("user not found")
		}
		return nil, NewInternalError("failed to get user", err)
	}

	byInstructor := author.IsInstructor()
	reply := &models.Reply{
		Content:           content,
		AuthorID:          req.UserID,
		DiscussionID:      discussionID,
		ParentReplyID:     parentID,
		IsInstructorReply: byInstructor,
	}

	if err := s.replyRepo.Create(ctx, reply); err != nil {
		return nil, NewInternalError("failed to create reply", err)
	}

	s.propagator.ReplyCreated(ctx, discussionID, byInstructor)

	if err := s.replyRepo.Populate(ctx, reply); err != nil {
		return nil, NewInternalError("failed to populate reply", err)
	}
	return reply, nil
}

func (s *replyService) UpdateReply(ctx context.Context, req *UpdateReplyRequest) (*models.Reply, error) {
	if err := validate.Struct(req); err != nil {
		return nil, NewValidationError("invalid update reply request", err)
	}
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, NewValidationError("reply content cannot be empty", nil)
	}
	reply, err := s.getReply(ctx, req.ReplyID)
	if err != nil {
		return nil, err
	}
	if err := authorizeOwner(reply.AuthorID, req.UserID, req.Role); err != nil {
		return nil, err
	}

	updated, err := s.replyRepo.UpdateContent(ctx, reply.ID, content, time.Now())
	if err != nil {
		if repositories.IsNotFound(err) {
			return nil, NewNotFoundError("reply not found")
		}
		return nil, NewInternalError("failed to update reply", err)
	}
	return updated, nil
}

// DeleteReply removes the reply and its direct children, then propagates the
// total count removed to the parent discussion.
func (s *replyService) DeleteReply(ctx context.Context, req *DeleteReplyRequest) error {
	if err := validate.Struct(req); err != nil {
		return NewValidationError("invalid delete reply request", err)
	}
	reply, err := s.getReply(ctx, req.ReplyID)
	if err != nil {
		return err
	}
	if err := authorizeOwner(reply.AuthorID, req.UserID, req.Role); err != nil {
		return err
	}

	childrenDeleted, err := s.replyRepo.DeleteByParent(ctx, reply.ID)
	if err != nil {
		return NewInternalError("failed to delete nested replies", err)
	}
	if err := s.replyRepo.Delete(ctx, reply.ID); err != nil {
		if repositories.IsNotFound(err) {
			return NewNotFoundError("reply not found")
		}
		return NewInternalError("failed to delete reply", err)
	}

	s.propagator.RepliesDeleted(ctx, reply.DiscussionID, childrenDeleted+1)
	return nil
}

// ===============================
// VOTING
// ===============================

// Vote applies the caller's vote to a reply. Any standing vote is cleared
// first, so an upvote followed by a downvote lands the user in exactly one
// set, and "remove" withdraws them from both.
func (s *replyService) Vote(ctx context.Context, req *VoteRequest) (*VoteResult, error) {
	if err := validate.Struct(req); err != nil {
		return nil, NewValidationError("invalid vote request", err)
	}
	reply, err := s.getReply(ctx, req.ReplyID)
	if err != nil {
		return nil, err
	}

	updated, err := s.replyRepo.Vote(ctx, reply.ID, req.UserID, req.VoteType)
	if err != nil {
		return nil, NewInternalError("failed to record vote", err)
	}

	result := &VoteResult{
		UpvoteCount:   len(updated.Upvotes),
		DownvoteCount: len(updated.Downvotes),
	}
	if vote := updated.HasVote(req.UserID); vote != "" {
		result.UserVote = &vote
	}
	return result, nil
}

// ===============================
// ACCEPTED ANSWER
// ===============================

// MarkAccepted makes this reply the discussion's single accepted answer:
// every other reply's flag is cleared first, then this one is set and the
// discussion marked answered.
func (s *replyService) MarkAccepted(ctx context.Context, req *AcceptAnswerRequest) error {
	reply, discussion, err := s.getForAccept(ctx, req)
	if err != nil {
		return err
	}

	if err := s.replyRepo.ClearAccepted(ctx, discussion.ID); err != nil {
		return NewInternalError("failed to clear accepted answers", err)
	}
	if err := s.replyRepo.SetAccepted(ctx, reply.ID, true); err != nil {
		return NewInternalError("failed to accept reply", err)
	}
	if err := s.discussionRepo.SetAnswered(ctx, discussion.ID, true); err != nil {
		return NewInternalError("failed to mark discussion answered", err)
	}
	return nil
}

// UnmarkAccepted clears the flag and recomputes the discussion's answered
// state from whatever accepted replies remain.
func (s *replyService) UnmarkAccepted(ctx context.Context, req *AcceptAnswerRequest) error {
	reply, discussion, err := s.getForAccept(ctx, req)
	if err != nil {
		return err
	}

	if err := s.replyRepo.SetAccepted(ctx, reply.ID, false); err != nil {
		return NewInternalError("failed to unaccept reply", err)
	}
	remaining, err := s.replyRepo.HasAccepted(ctx, discussion.ID)
	if err != nil {
		return NewInternalError("failed to check accepted answers", err)
	}
	if err := s.discussionRepo.SetAnswered(ctx, discussion.ID, remaining); err != nil {
		return NewInternalError("failed to update discussion answered state", err)
	}
	return nil
}

// getForAccept loads the reply and its discussion and checks that the caller
// is the discussion author or an instructor.
func (s *replyService) getForAccept(ctx context.Context, req *AcceptAnswerRequest) (*models.Reply, *models.Discussion, error) {
	if err := validate.Struct(req); err != nil {
		return nil, nil, NewValidationError("invalid accept answer request", err)
	}
	reply, err := s.getReply(ctx, req.ReplyID)
	if err != nil {
		return nil, nil, err
	}

	discussion, err := s.discussionRepo.GetByID(ctx, reply.DiscussionID)
	if err != nil {
		if repositories.IsNotFound(err) {
			return nil, nil, NewNotFoundError("discussion not found")
		}
		return nil, nil, NewInternalError("failed to get discussion", err)
	}
	if err := authorizeOwner(discussion.AuthorID, req.UserID, req.Role); err != nil {
		return nil, nil, NewForbiddenError("only the discussion author or an instructor can manage accepted answers")
	}
	return reply, discussion, nil
}

// ===============================
// HELPERS
// ===============================

func (s *replyService) getReply(ctx context.Context, id string) (*models.Reply, error) {
	replyID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, NewNotFoundError("reply not found")
	}
	reply, err := s.replyRepo.GetByID(ctx, replyID)
	if err != nil {
		if repositories.IsNotFound(err) {
			return nil, NewNotFoundError("reply not found")
		}
		return nil, NewInternalError("failed to get reply", err)
	}
	return reply, nil
}
