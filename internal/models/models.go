// file: internal/models/models.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ===============================
// USER & COURSE MODELS
// ===============================

// User roles
const (
	RoleStudent    = "student"
	RoleInstructor = "instructor"
)

// User represents a platform user (students and instructors)
type User struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name      string             `bson:"name" json:"name"`
	Email     string             `bson:"email" json:"email"`
	PhotoURL  string             `bson:"photoUrl,omitempty" json:"photoUrl,omitempty"`
	Role      string             `bson:"role" json:"role"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// IsInstructor reports whether the user holds the instructor role.
func (u *User) IsInstructor() bool {
	return u != nil && u.Role == RoleInstructor
}

// UserSummary is the populated author projection embedded in forum payloads
// (name, photo and role only, never email).
type UserSummary struct {
	ID       primitive.ObjectID `bson:"_id" json:"id"`
	Name     string             `bson:"name" json:"name"`
	PhotoURL string             `bson:"photoUrl,omitempty" json:"photoUrl,omitempty"`
	Role     string             `bson:"role" json:"role"`
}

// Course represents a course in the catalog. The catalog itself (creation,
// publishing, video upload) is managed elsewhere; the forum and quiz services
// only read it.
type Course struct {
	ID          primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	CourseTitle string               `bson:"courseTitle" json:"courseTitle"`
	SubTitle    string               `bson:"subTitle,omitempty" json:"subTitle,omitempty"`
	Description string               `bson:"description,omitempty" json:"description,omitempty"`
	Lectures    []primitive.ObjectID `bson:"lectures,omitempty" json:"lectures,omitempty"`
	CreatedAt   time.Time            `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time            `bson:"updatedAt" json:"updatedAt"`
}

// CourseSummary is the populated course projection on a discussion.
type CourseSummary struct {
	ID          primitive.ObjectID `bson:"_id" json:"id"`
	CourseTitle string             `bson:"courseTitle" json:"courseTitle"`
}

// Lecture is a single lecture inside a course.
type Lecture struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	LectureTitle string             `bson:"lectureTitle" json:"lectureTitle"`
	CourseID     primitive.ObjectID `bson:"course,omitempty" json:"course,omitempty"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// ===============================
// FORUM MODELS
// ===============================

// Discussion categories form a fixed closed set.
var DiscussionCategories = []string{"Programming", "Web Design", "Career", "General"}

// IsValidCategory reports whether c is one of the fixed discussion categories.
func IsValidCategory(c string) bool {
	for _, cat := range DiscussionCategories {
		if c == cat {
			return true
		}
	}
	return false
}

// MaxTitleLength is the maximum discussion title length.
const MaxTitleLength = 200

// Discussion is a forum thread. The counters and flags on it (repliesCount,
// lastActivity, isAnswered, hasInstructorReply) are denormalized from its
// replies and maintained by the consistency propagator.
type Discussion struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title    string             `bson:"title" json:"title"`
	Slug     string             `bson:"slug" json:"slug"`
	Content  string             `bson:"content" json:"content"`
	AuthorID primitive.ObjectID `bson:"author" json:"-"`
	CourseID primitive.ObjectID `bson:"course" json:"-"`
	Category string             `bson:"category" json:"category"`
	Tags     []string           `bson:"tags" json:"tags"`

	Views              int64 `bson:"views" json:"views"`
	IsAnswered         bool  `bson:"isAnswered" json:"isAnswered"`
	HasInstructorReply bool  `bson:"hasInstructorReply" json:"hasInstructorReply"`
	IsPinned           bool  `bson:"isPinned" json:"isPinned"`
	IsLocked           bool  `bson:"isLocked" json:"isLocked"`

	LastActivity time.Time `bson:"lastActivity" json:"lastActivity"`
	RepliesCount int64     `bson:"repliesCount" json:"repliesCount"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`

	// Populated projections, resolved by the repository on reads.
	Author *UserSummary   `bson:"-" json:"author,omitempty"`
	Course *CourseSummary `bson:"-" json:"course,omitempty"`
}

// Reply is a post attached to a discussion, optionally nested one level under
// another reply via ParentReplyID. The data model allows arbitrary depth, but
// the read path only materializes top-level replies and their direct children.
type Reply struct {
	ID            primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Content       string              `bson:"content" json:"content"`
	AuthorID      primitive.ObjectID  `bson:"author" json:"-"`
	DiscussionID  primitive.ObjectID  `bson:"discussion" json:"discussion"`
	ParentReplyID *primitive.ObjectID `bson:"parentReply" json:"parentReply"`

	IsInstructorReply bool `bson:"isInstructorReply" json:"isInstructorReply"`
	IsAcceptedAnswer  bool `bson:"isAcceptedAnswer" json:"isAcceptedAnswer"`

	Upvotes   []primitive.ObjectID `bson:"upvotes" json:"upvotes"`
	Downvotes []primitive.ObjectID `bson:"downvotes" json:"downvotes"`

	IsEdited bool       `bson:"isEdited" json:"isEdited"`
	EditedAt *time.Time `bson:"editedAt,omitempty" json:"editedAt,omitempty"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`

	// Populated / computed fields, resolved on reads. UserVote holds the
	// viewing user's standing vote when the request is authenticated.
	Author        *UserSummary `bson:"-" json:"author,omitempty"`
	Children      []*Reply     `bson:"-" json:"replies,omitempty"`
	UpvoteCount   int          `bson:"-" json:"upvoteCount"`
	DownvoteCount int          `bson:"-" json:"downvoteCount"`
	UserVote      string       `bson:"-" json:"userVote,omitempty"`
}

// Vote kinds accepted on a reply. VoteRemove clears any standing vote.
const (
	VoteUp     = "upvote"
	VoteDown   = "downvote"
	VoteRemove = "remove"
)

// ComputeVoteCounts fills the derived vote counters from the vote sets.
func (r *Reply) ComputeVoteCounts() {
	r.UpvoteCount = len(r.Upvotes)
	r.DownvoteCount = len(r.Downvotes)
}

// HasVote reports which vote set, if any, contains the given user.
// Returns VoteUp, VoteDown or "".
func (r *Reply) HasVote(userID primitive.ObjectID) string {
	for _, id := range r.Upvotes {
		if id == userID {
			return VoteUp
		}
	}
	for _, id := range r.Downvotes {
		if id == userID {
			return VoteDown
		}
	}
	return ""
}

// ===============================
// FORUM AGGREGATES
// ===============================

// CategoryCount is one bucket of the per-category discussion aggregation.
// The wire shape (_id/count) follows the store's aggregation grouping output.
type CategoryCount struct {
	ID    string `bson:"_id" json:"_id"`
	Count int64  `bson:"count" json:"count"`
}

// TagCount is one bucket of the tag-frequency aggregation.
type TagCount struct {
	ID    string `bson:"_id" json:"_id"`
	Count int64  `bson:"count" json:"count"`
}

// DiscussionStats is the forum-wide statistics payload.
type DiscussionStats struct {
	Total       int64           `json:"total"`
	Answered    int64           `json:"answered"`
	Unanswered  int64           `json:"unanswered"`
	ByCategory  []CategoryCount `json:"byCategory"`
	PopularTags []TagCount      `json:"popularTags"`
}

// ===============================
// QUIZ MODELS
// ===============================

// Quiz difficulty levels accepted from the generative provider.
var QuizDifficulties = []string{"Easy", "Medium", "Hard"}

// DefaultDifficulty is assigned when the provider returns an unknown level.
const DefaultDifficulty = "Medium"

// DefaultTaxonomyLevel is assigned when the provider omits the Bloom level.
const DefaultTaxonomyLevel = "Understand"

// QuizQuestion is a single generated quiz question.
type QuizQuestion struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	Answer        string   `json:"answer"`
	Difficulty    string   `json:"difficulty"`
	TaxonomyLevel string   `json:"taxonomyLevel"`
}

// GeneratedQuiz is the validated result of one quiz generation request.
type GeneratedQuiz struct {
	Questions      []QuizQuestion `json:"questions"`
	Source         string         `json:"source"` // "course" or "lecture"
	Title          string         `json:"title"`
	TotalQuestions int            `json:"totalQuestions"`
}
