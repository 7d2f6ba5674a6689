// file: internal/services/interface.go
package services

import (
	"context"

	"coursehub/internal/models"
)

// DiscussionService manages forum discussions: listing, CRUD, moderation
// toggles and aggregate statistics.
type DiscussionService interface {
	ListDiscussions(ctx context.Context, req *ListDiscussionsRequest) (*DiscussionListResult, error)
	GetDiscussion(ctx context.Context, id string) (*DiscussionDetailResult, error)
	CreateDiscussion(ctx context.Context, req *CreateDiscussionRequest) (*models.Discussion, error)
	UpdateDiscussion(ctx context.Context, req *UpdateDiscussionRequest) (*models.Discussion, error)
	DeleteDiscussion(ctx context.Context, req *DeleteDiscussionRequest) error

	// TogglePin and ToggleLock flip the respective moderation flag and
	// return the new state. Instructor only.
	TogglePin(ctx context.Context, req *ModerateDiscussionRequest) (bool, error)
	ToggleLock(ctx context.Context, req *ModerateDiscussionRequest) (bool, error)

	GetStats(ctx context.Context) (*models.DiscussionStats, error)
	GetCategories(ctx context.Context) []string
	GetPopularTags(ctx context.Context) ([]string, error)
}

// ReplyService manages replies: threaded listing, CRUD, voting and the
// accepted-answer lifecycle.
type ReplyService interface {
	ListReplies(ctx context.Context, req *ListRepliesRequest) (*ReplyListResult, error)
	CreateReply(ctx context.Context, req *CreateReplyRequest) (*models.Reply, error)
	UpdateReply(ctx context.Context, req *UpdateReplyRequest) (*models.Reply, error)
	DeleteReply(ctx context.Context, req *DeleteReplyRequest) error
	Vote(ctx context.Context, req *VoteRequest) (*VoteResult, error)
	MarkAccepted(ctx context.Context, req *AcceptAnswerRequest) error
	UnmarkAccepted(ctx context.Context, req *AcceptAnswerRequest) error
}

// QuizService generates practice quizzes over course material through an
// external generative-text provider.
type QuizService interface {
	GenerateQuiz(ctx context.Context, req *GenerateQuizRequest) (*models.GeneratedQuiz, error)
}
