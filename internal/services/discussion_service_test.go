// file: internal/services/discussion_service_test.go
package services

import (
	"context"
	"testing"

	"coursehub/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type discussionFixture struct {
	service        DiscussionService
	discussionRepo *fakeDiscussionRepo
	replyRepo      *fakeReplyRepo
	courseRepo     *fakeCourseRepo
	courseID       primitive.ObjectID
}

func newDiscussionFixture(t *testing.T) *discussionFixture {
	t.Helper()

	discussionRepo := newFakeDiscussionRepo()
	replyRepo := newFakeReplyRepo()
	courseRepo := newFakeCourseRepo()

	courseID := primitive.NewObjectID()
	courseRepo.courses[courseID] = &models.Course{ID: courseID, CourseTitle: "Intro to Go"}

	service := NewDiscussionService(discussionRepo, replyRepo, courseRepo, noopCache{}, zap.NewNop(), nil)
	return &discussionFixture{
		service:        service,
		discussionRepo: discussionRepo,
		replyRepo:      replyRepo,
		courseRepo:     courseRepo,
		courseID:       courseID,
	}
}

func (f *discussionFixture) createRequest(title string) *CreateDiscussionRequest {
	return &CreateDiscussionRequest{
		UserID:   primitive.NewObjectID(),
		Title:    title,
		Content:  "some content",
		Course:   f.courseID.Hex(),
		Category: "Programming",
		Tags:     []string{"Go", " concurrency "},
	}
}

func TestCreateDiscussion(t *testing.T) {
	ctx := context.Background()
	f := newDiscussionFixture(t)

	discussion, err := f.service.CreateDiscussion(ctx, f.createRequest("Hello, World!"))
	require.NoError(t, err)

	assert.Equal(t, "hello-world", discussion.Slug)
	assert.Equal(t, "Programming", discussion.Category)
	assert.Equal(t, []string{"go", "concurrency"}, discussion.Tags)
	assert.False(t, discussion.LastActivity.IsZero())
}

func TestCreateDiscussionSlugCollision(t *testing.T) {
	ctx := context.Background()
	f := newDiscussionFixture(t)

	first, err := f.service.CreateDiscussion(ctx, f.createRequest("Hello, World!"))
	require.NoError(t, err)
	second, err := f.service.CreateDiscussion(ctx, f.createRequest("Hello, World!"))
	require.NoError(t, err)
	third, err := f.service.CreateDiscussion(ctx, f.createRequest("Hello... World?"))
	require.NoError(t, err)

	assert.Equal(t, "hello-world", first.Slug)
	assert.Equal(t, "hello-world-1", second.Slug)
	assert.Equal(t, "hello-world-2", third.Slug)
}

func TestCreateDiscussionValidation(t *testing.T) {
	ctx := context.Background()
	f := newDiscussionFixture(t)

	missingTitle := f.createRequest("")
	_, err := f.service.CreateDiscussion(ctx, missingTitle)
	assert.True(t, IsValidationError(err))

	badCategory := f.createRequest("Valid title")
	badCategory.Category = "Gardening"
	_, err = f.service.CreateDiscussion(ctx, badCategory)
	assert.True(t, IsValidationError(err))

	unknownCourse := f.createRequest("Valid title")
	unknownCourse.Course = primitive.NewObjectID().Hex()
	_, err = f.service.CreateDiscussion(ctx, unknownCourse)
	assert.True(t, IsNotFoundError(err))
}

func TestUpdateDiscussionAuthorization(t *testing.T) {
	ctx := context.Background()
	f := newDiscussionFixture(t)

	req := f.createRequest("Authorization test")
	discussion, err := f.service.CreateDiscussion(ctx, req)
	require.NoError(t, err)

	newTitle := "Edited title"
	update := &UpdateDiscussionRequest{
		DiscussionID: discussion.ID.Hex(),
		UserID:       primitive.NewObjectID(), // not the author
		Role:         models.RoleStudent,
		Title:        &newTitle,
	}
	_, err = f.service.UpdateDiscussion(ctx, update)
	assert.True(t, IsForbiddenError(err))

	// Instructors may edit anyone's discussion.
	update.Role = models.RoleInstructor
	updated, err := f.service.UpdateDiscussion(ctx, update)
	require.NoError(t, err)
	assert.Equal(t, "Edited title", updated.Title)
	// The slug stays as minted at creation.
	assert.Equal(t, discussion.Slug, updated.Slug)
}

func TestDeleteDiscussionCascades(t *testing.T) {
	ctx := context.Background()
	f := newDiscussionFixture(t)

	req := f.createRequest("To be deleted")
	discussion, err := f.service.CreateDiscussion(ctx, req)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		require.NoError(t, f.replyRepo.Create(ctx, &models.Reply{
			Content:      "reply",
			AuthorID:     primitive.NewObjectID(),
			DiscussionID: discussion.ID,
		}))
	}
	require.Equal(t, 3, f.replyRepo.count())

	err = f.service.DeleteDiscussion(ctx, &DeleteDiscussionRequest{
		DiscussionID: discussion.ID.Hex(),
		UserID:       req.UserID,
		Role:         models.RoleStudent,
	})
	require.NoError(t, err)

	assert.Equal(t, 0, f.replyRepo.count())
	_, err = f.discussionRepo.GetByID(ctx, discussion.ID)
	assert.Error(t, err)
}

func TestTogglePinRequiresInstructor(t *testing.T) {
	ctx := context.Background()
	f := newDiscussionFixture(t)

	discussion, err := f.service.CreateDiscussion(ctx, f.createRequest("Pin me"))
	require.NoError(t, err)

	req := &ModerateDiscussionRequest{DiscussionID: discussion.ID.Hex(), Role: models.RoleStudent}
	_, err = f.service.TogglePin(ctx, req)
	assert.True(t, IsForbiddenError(err))

	req.Role = models.RoleInstructor
	pinned, err := f.service.TogglePin(ctx, req)
	require.NoError(t, err)
	assert.True(t, pinned)

	pinned, err = f.service.TogglePin(ctx, req)
	require.NoError(t, err)
	assert.False(t, pinned)
}

func TestGetDiscussionCountsViews(t *testing.T) {
	ctx := context.Background()
	f := newDiscussionFixture(t)

	discussion, err := f.service.CreateDiscussion(ctx, f.createRequest("Viewed"))
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		_, err := f.service.GetDiscussion(ctx, discussion.ID.Hex())
		require.NoError(t, err)
	}

	stored, err := f.discussionRepo.GetByID(ctx, discussion.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), stored.Views)
}

func TestGetDiscussionBoundsMaterializedReplies(t *testing.T) {
	ctx := context.Background()
	f := newDiscussionFixture(t)

	config := DefaultDiscussionConfig()
	config.DetailReplyLimit = 2
	service := NewDiscussionService(f.discussionRepo, f.replyRepo, f.courseRepo, noopCache{}, zap.NewNop(), config)

	discussion, err := service.CreateDiscussion(ctx, f.createRequest("Busy thread"))
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		require.NoError(t, f.replyRepo.Create(ctx, &models.Reply{
			Content:      "reply",
			AuthorID:     primitive.NewObjectID(),
			DiscussionID: discussion.ID,
		}))
	}

	detail, err := service.GetDiscussion(ctx, discussion.ID.Hex())
	require.NoError(t, err)
	assert.Len(t, detail.Replies, 2)
}

func TestGetDiscussionNotFound(t *testing.T) {
	ctx := context.Background()
	f := newDiscussionFixture(t)

	_, err := f.service.GetDiscussion(ctx, primitive.NewObjectID().Hex())
	assert.True(t, IsNotFoundError(err))

	_, err = f.service.GetDiscussion(ctx, "not-an-id")
	assert.True(t, IsNotFoundError(err))
}

func TestGetPopularTags(t *testing.T) {
	ctx := context.Background()
	f := newDiscussionFixture(t)

	for _, title := range []string{"One", "Two", "Three"} {
		req := f.createRequest(title)
		req.Tags = []string{"go"}
		if title == "Three" {
			req.Tags = []string{"go", "testing"}
		}
		_, err := f.service.CreateDiscussion(ctx, req)
		require.NoError(t, err)
	}

	tags, err := f.service.GetPopularTags(ctx)
	require.NoError(t, err)
	require.Len(t, tags, 2)
	assert.Equal(t, "go", tags[0])
}

func TestNewPagination(t *testing.T) {
	p := NewPagination(2, 10, 25)
	assert.Equal(t, 2, p.Current)
	assert.Equal(t, 3, p.Pages)
	assert.Equal(t, int64(25), p.Total)
	assert.Equal(t, 10, p.Limit)

	empty := NewPagination(1, 10, 0)
	assert.Equal(t, 0, empty.Pages)
}
