// file: internal/repositories/interfaces.go
package repositories

import (
	"context"
	"time"

	"coursehub/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DiscussionFilter captures the supported listing filters. Zero values are
// no-ops; the literal value "All" for Category/Course is treated as absent by
// the service layer before it reaches the repository.
type DiscussionFilter struct {
	Search     string
	Category   string
	CourseID   *primitive.ObjectID
	Tags       []string
	Unanswered bool
	Sort       string // "recent", "replies", "views", "oldest"
	Page       int
	Limit      int
}

// DiscussionPatch is the set of editable discussion fields. Nil members are
// left untouched. Slug is deliberately absent: it never changes after
// creation so permalinks stay stable.
type DiscussionPatch struct {
	Title    *string
	Content  *string
	Category *string
	Tags     []string
}

// DiscussionRepository provides CRUD plus filtered listing and aggregation
// over discussion documents, and the single-document counter updates the
// consistency propagator relies on.
type DiscussionRepository interface {
	List(ctx context.Context, filter DiscussionFilter) ([]*models.Discussion, int64, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Discussion, error)
	IncrementViews(ctx context.Context, id primitive.ObjectID) error
	Create(ctx context.Context, discussion *models.Discussion) error
	Update(ctx context.Context, id primitive.ObjectID, patch DiscussionPatch, lastActivity time.Time) (*models.Discussion, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	SetPinned(ctx context.Context, id primitive.ObjectID, pinned bool) error
	SetLocked(ctx context.Context, id primitive.ObjectID, locked bool) error
	SlugExists(ctx context.Context, slug string) (bool, error)
	Stats(ctx context.Context) (*models.DiscussionStats, error)
	TopTags(ctx context.Context, limit int) ([]models.TagCount, error)

	// Propagator primitives: atomic single-document updates on the parent.
	IncrementReplies(ctx context.Context, id primitive.ObjectID, delta int64, touchActivity *time.Time) error
	MarkInstructorReply(ctx context.Context, id primitive.ObjectID) error
	SetAnswered(ctx context.Context, id primitive.ObjectID, answered bool) error

	Populate(ctx context.Context, discussions ...*models.Discussion) error
}

// ReplyRepository provides CRUD, vote mutation, accepted-answer mutation and
// cascade deletion over reply documents.
type ReplyRepository interface {
	ListTopLevel(ctx context.Context, discussionID primitive.ObjectID, page, limit int) ([]*models.Reply, int64, error)
	ListChildren(ctx context.Context, parentIDs []primitive.ObjectID) (map[primitive.ObjectID][]*models.Reply, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Reply, error)
	FindInDiscussion(ctx context.Context, id, discussionID primitive.ObjectID) (*models.Reply, error)
	Create(ctx context.Context, reply *models.Reply) error
	UpdateContent(ctx context.Context, id primitive.ObjectID, content string, editedAt time.Time) (*models.Reply, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	DeleteByParent(ctx context.Context, parentID primitive.ObjectID) (int64, error)
	DeleteByDiscussion(ctx context.Context, discussionID primitive.ObjectID) (int64, error)

	// Vote removes the user from both vote sets, then adds them to the set
	// named by voteType ("upvote"/"downvote"); "remove" only clears. Returns
	// the reply as it stands after the update.
	Vote(ctx context.Context, id primitive.ObjectID, userID primitive.ObjectID, voteType string) (*models.Reply, error)

	ClearAccepted(ctx context.Context, discussionID primitive.ObjectID) error
	SetAccepted(ctx context.Context, id primitive.ObjectID, accepted bool) error
	HasAccepted(ctx context.Context, discussionID primitive.ObjectID) (bool, error)

	Populate(ctx context.Context, replies ...*models.Reply) error
}

// CourseRepository reads the course catalog; the catalog itself is maintained
// by an external subsystem.
type CourseRepository interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Course, error)
	Exists(ctx context.Context, id primitive.ObjectID) (bool, error)
	GetLectureByID(ctx context.Context, id primitive.ObjectID) (*models.Lecture, error)
	GetLectureTitles(ctx context.Context, ids []primitive.ObjectID) ([]string, error)
}

// UserRepository reads user records; account management is external.
type UserRepository interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	GetSummaries(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]*models.UserSummary, error)
}

// Collection groups all repositories for dependency injection.
type Collection struct {
	Discussion DiscussionRepository
	Reply      ReplyRepository
	Course     CourseRepository
	User       UserRepository
}
