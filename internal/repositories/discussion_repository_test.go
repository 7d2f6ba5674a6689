// file: internal/repositories/discussion_repository_test.go
package repositories

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestBuildDiscussionFilter(t *testing.T) {
	t.Run("empty filter matches everything", func(t *testing.T) {
		assert.Empty(t, buildDiscussionFilter(DiscussionFilter{}))
	})

	t.Run("search spans title content and tags", func(t *testing.T) {
		filter := buildDiscussionFilter(DiscussionFilter{Search: "goroutine"})
		or, ok := filter["$or"].(bson.A)
		require.True(t, ok)
		assert.Len(t, or, 3)
	})

	t.Run("search is escaped", func(t *testing.T) {
		filter := buildDiscussionFilter(DiscussionFilter{Search: "c++ (basics)"})
		or := filter["$or"].(bson.A)
		clause := or[0].(bson.M)
		pattern := clause["title"].(primitive.Regex)
		assert.Equal(t, `c\+\+ \(basics\)`, pattern.Pattern)
		assert.Equal(t, "i", pattern.Options)
	})

	t.Run("combined filters", func(t *testing.T) {
		courseID := primitive.NewObjectID()
		filter := buildDiscussionFilter(DiscussionFilter{
			Category:   "Programming",
			CourseID:   &courseID,
			Tags:       []string{"go", "testing"},
			Unanswered: true,
		})
		assert.Equal(t, "Programming", filter["category"])
		assert.Equal(t, courseID, filter["course"])
		assert.Equal(t, bson.M{"$in": []string{"go", "testing"}}, filter["tags"])
		assert.Equal(t, false, filter["isAnswered"])
	})
}

func TestDiscussionSort(t *testing.T) {
	tests := []struct {
		mode string
		want bson.D
	}{
		{"recent", bson.D{{Key: "isPinned", Value: -1}, {Key: "lastActivity", Value: -1}}},
		{"replies", bson.D{{Key: "repliesCount", Value: -1}}},
		{"views", bson.D{{Key: "views", Value: -1}}},
		{"oldest", bson.D{{Key: "createdAt", Value: 1}}},
		// Unknown modes fall back to recent.
		{"", bson.D{{Key: "isPinned", Value: -1}, {Key: "lastActivity", Value: -1}}},
		{"bogus", bson.D{{Key: "isPinned", Value: -1}, {Key: "lastActivity", Value: -1}}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, discussionSort(tt.mode), "mode %q", tt.mode)
	}
}

func TestNormalizePage(t *testing.T) {
	page, limit := normalizePage(0, 0, 10, 100)
	assert.Equal(t, 1, page)
	assert.Equal(t, 10, limit)

	page, limit = normalizePage(3, 500, 10, 100)
	assert.Equal(t, 3, page)
	assert.Equal(t, 100, limit)

	page, limit = normalizePage(-2, 25, 10, 100)
	assert.Equal(t, 1, page)
	assert.Equal(t, 25, limit)
}
