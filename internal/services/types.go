// file: internal/services/types.go
package services

import (
	"coursehub/internal/models"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// validate is the shared struct validator for request DTOs.
var validate = validator.New()

// ===============================
// PAGINATION
// ===============================

// Pagination is the page descriptor returned next to every listed collection.
type Pagination struct {
	Current int   `json:"current"`
	Pages   int   `json:"pages"`
	Total   int64 `json:"total"`
	Limit   int   `json:"limit"`
}

// NewPagination derives the page descriptor from the applied page inputs and
// the total match count.
func NewPagination(page, limit int, total int64) *Pagination {
	pages := int((total + int64(limit) - 1) / int64(limit))
	return &Pagination{
		Current: page,
		Pages:   pages,
		Total:   total,
		Limit:   limit,
	}
}

// ===============================
// DISCUSSION REQUESTS
// ===============================

// ListDiscussionsRequest carries the parsed listing query. Category and
// Course equal to "All" are cleared by the service before filtering.
type ListDiscussionsRequest struct {
	Search     string
	Category   string
	Course     string
	Tags       []string
	Unanswered bool
	Sort       string
	Page       int
	Limit      int
}

type CreateDiscussionRequest struct {
	UserID   primitive.ObjectID `json:"-" validate:"required"`
	Title    string             `json:"title" validate:"required,max=200"`
	Content  string             `json:"content" validate:"required"`
	Course   string             `json:"course" validate:"required"`
	Category string             `json:"category" validate:"required"`
	Tags     []string           `json:"tags"`
}

type UpdateDiscussionRequest struct {
	DiscussionID string             `json:"-" validate:"required"`
	UserID       primitive.ObjectID `json:"-" validate:"required"`
	Role         string             `json:"-"`
	Title        *string            `json:"title"`
	Content      *string            `json:"content"`
	Category     *string            `json:"category"`
	Tags         []string           `json:"tags"`
}

type DeleteDiscussionRequest struct {
	DiscussionID string             `json:"-" validate:"required"`
	UserID       primitive.ObjectID `json:"-" validate:"required"`
	Role         string             `json:"-"`
}

// ModerateDiscussionRequest covers the instructor-only pin/lock toggles.
type ModerateDiscussionRequest struct {
	DiscussionID string `json:"-" validate:"required"`
	Role         string `json:"-"`
}

// ===============================
// REPLY REQUESTS
// ===============================

// ListRepliesRequest pages a discussion's replies. Viewer, when set, is the
// authenticated caller whose standing vote gets stamped on each reply.
type ListRepliesRequest struct {
	DiscussionID string             `json:"-" validate:"required"`
	Viewer       primitive.ObjectID `json:"-"`
	Page         int
	Limit        int
}

type CreateReplyRequest struct {
	DiscussionID string             `json:"-" validate:"required"`
	UserID       primitive.ObjectID `json:"-" validate:"required"`
	Content      string             `json:"content" validate:"required"`
	ParentReply  *string            `json:"parentReply"`
}

type UpdateReplyRequest struct {
	ReplyID string             `json:"-" validate:"required"`
	UserID  primitive.ObjectID `json:"-" validate:"required"`
	Role    string             `json:"-"`
	Content string             `json:"content" validate:"required"`
}

type DeleteReplyRequest struct {
	ReplyID string             `json:"-" validate:"required"`
	UserID  primitive.ObjectID `json:"-" validate:"required"`
	Role    string             `json:"-"`
}

type VoteRequest struct {
	ReplyID  string             `json:"-" validate:"required"`
	UserID   primitive.ObjectID `json:"-" validate:"required"`
	VoteType string             `json:"voteType" validate:"required,oneof=upvote downvote remove"`
}

// AcceptAnswerRequest covers both the accept and unaccept operations.
type AcceptAnswerRequest struct {
	ReplyID string             `json:"-" validate:"required"`
	UserID  primitive.ObjectID `json:"-" validate:"required"`
	Role    string             `json:"-"`
}

// ===============================
// QUIZ REQUESTS
// ===============================

// GenerateQuizRequest asks for a quiz over either one lecture or a whole
// course. Exactly one of CourseID/LectureID must be set.
type GenerateQuizRequest struct {
	CourseID     string `json:"courseId"`
	LectureID    string `json:"lectureId"`
	NumQuestions int    `json:"numQuestions"`
}

// ===============================
// RESULTS
// ===============================

type DiscussionListResult struct {
	Discussions []*models.Discussion `json:"discussions"`
	Pagination  *Pagination          `json:"pagination"`
}

// DiscussionDetailResult is the detail-page payload: the discussion plus its
// threaded replies.
type DiscussionDetailResult struct {
	Discussion *models.Discussion `json:"discussion"`
	Replies    []*models.Reply    `json:"replies"`
}

type ReplyListResult struct {
	Replies    []*models.Reply `json:"replies"`
	Pagination *Pagination     `json:"pagination"`
}

// VoteResult reports the reply's vote tallies after a vote mutation and the
// caller's own standing vote, nil when they hold none.
type VoteResult struct {
	UpvoteCount   int     `json:"upvoteCount"`
	DownvoteCount int     `json:"downvoteCount"`
	UserVote      *string `json:"userVote"`
}
