// file: internal/database/indexes.go
package database

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection names used across the repositories.
const (
	CollDiscussions = "discussions"
	CollReplies     = "replies"
	CollCourses     = "courses"
	CollLectures    = "lectures"
	CollUsers       = "users"
)

// EnsureIndexes creates the indexes the forum queries depend on. CreateMany is
// idempotent, so this is safe to run on every startup.
func (m *Manager) EnsureIndexes(ctx context.Context) error {
	discussionIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "slug", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		// recent sort: pinned first, then last activity
		{Keys: bson.D{{Key: "isPinned", Value: -1}, {Key: "lastActivity", Value: -1}}},
		{Keys: bson.D{{Key: "course", Value: 1}}},
		{Keys: bson.D{{Key: "category", Value: 1}}},
		{Keys: bson.D{{Key: "tags", Value: 1}}},
	}
	if _, err := m.Collection(CollDiscussions).Indexes().CreateMany(ctx, discussionIndexes); err != nil {
		return err
	}

	replyIndexes := []mongo.IndexModel{
		// top-level listing: accepted answer first, then creation order
		{Keys: bson.D{{Key: "discussion", Value: 1}, {Key: "parentReply", Value: 1}, {Key: "createdAt", Value: 1}}},
		{Keys: bson.D{{Key: "parentReply", Value: 1}}},
	}
	if _, err := m.Collection(CollReplies).Indexes().CreateMany(ctx, replyIndexes); err != nil {
		return err
	}

	return nil
}
