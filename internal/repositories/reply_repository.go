// file: internal/repositories/reply_repository.go
package repositories

import (
	"context"
	"time"

	"coursehub/internal/database"
	"coursehub/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

type replyRepository struct {
	*BaseRepository
}

// NewReplyRepository creates a mongo-backed reply repository
func NewReplyRepository(db *database.Manager, logger *zap.Logger) ReplyRepository {
	return &replyRepository{BaseRepository: NewBaseRepository(db, logger)}
}

func (r *replyRepository) collection() *mongo.Collection {
	return r.Collection(database.CollReplies)
}

// ListTopLevel returns the direct replies of a discussion, accepted answer
// first, then oldest first.
func (r *replyRepository) ListTopLevel(ctx context.Context, discussionID primitive.ObjectID, page, limit int) (replies []*models.Reply, total int64, err error) {
	defer r.observe("replies.list_top_level", time.Now(), &err)

	page, limit = normalizePage(page, limit, 20, 100)
	filter := bson.M{"discussion": discussionID, "parentReply": nil}

	opts := options.Find().
		SetSort(bson.D{{Key: "isAcceptedAnswer", Value: -1}, {Key: "createdAt", Value: 1}}).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))

	cursor, err := r.collection().Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	if err = cursor.All(ctx, &replies); err != nil {
		return nil, 0, err
	}

	total, err = r.collection().CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	if err = r.Populate(ctx, replies...); err != nil {
		return nil, 0, err
	}
	return replies, total, nil
}

// ListChildren batch-fetches the direct children of the given parents,
// oldest first, keyed by parent id.
func (r *replyRepository) ListChildren(ctx context.Context, parentIDs []primitive.ObjectID) (children map[primitive.ObjectID][]*models.Reply, err error) {
	defer r.observe("replies.list_children", time.Now(), &err)

	children = make(map[primitive.ObjectID][]*models.Reply, len(parentIDs))
	if len(parentIDs) == 0 {
		return children, nil
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	cursor, err := r.collection().Find(ctx, bson.M{"parentReply": bson.M{"$in": parentIDs}}, opts)
	if err != nil {
		return nil, err
	}
	var replies []*models.Reply
	if err = cursor.All(ctx, &replies); err != nil {
		return nil, err
	}

	if err = r.Populate(ctx, replies...); err != nil {
		return nil, err
	}
	for _, reply := range replies {
		children[*reply.ParentReplyID] = append(children[*reply.ParentReplyID], reply)
	}
	return children, nil
}

func (r *replyRepository) GetByID(ctx context.Context, id primitive.ObjectID) (reply *models.Reply, err error) {
	defer r.observe("replies.get", time.Now(), &err)

	reply = &models.Reply{}
	if err = r.collection().FindOne(ctx, bson.M{"_id": id}).Decode(reply); err != nil {
		return nil, err
	}
	return reply, nil
}

// FindInDiscussion fetches a reply only if it belongs to the given
// discussion.
func (r *replyRepository) FindInDiscussion(ctx context.Context, id, discussionID primitive.ObjectID) (reply *models.Reply, err error) {
	defer r.observe("replies.find_in_discussion", time.Now(), &err)

	reply = &models.Reply{}
	filter := bson.M{"_id": id, "discussion": discussionID}
	if err = r.collection().FindOne(ctx, filter).Decode(reply); err != nil {
		return nil, err
	}
	return reply, nil
}

func (r *replyRepository) Create(ctx context.Context, reply *models.Reply) (err error) {
	defer r.observe("replies.create", time.Now(), &err)

	now := time.Now()
	reply.CreatedAt = now
	reply.UpdatedAt = now
	if reply.Upvotes == nil {
		reply.Upvotes = []primitive.ObjectID{}
	}
	if reply.Downvotes == nil {
		reply.Downvotes = []primitive.ObjectID{}
	}

	result, err := r.collection().InsertOne(ctx, reply)
	if err != nil {
		return err
	}
	reply.ID = result.InsertedID.(primitive.ObjectID)
	return nil
}

func (r *replyRepository) UpdateContent(ctx context.Context, id primitive.ObjectID, content string, editedAt time.Time) (reply *models.Reply, err error) {
	defer r.observe("replies.update_content", time.Now(), &err)

	update := bson.M{"$set": bson.M{
		"content":   content,
		"isEdited":  true,
		"editedAt":  editedAt,
		"updatedAt": time.Now(),
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	reply = &models.Reply{}
	if err = r.collection().FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(reply); err != nil {
		return nil, err
	}
	if err = r.Populate(ctx, reply); err != nil {
		return nil, err
	}
	return reply, nil
}

func (r *replyRepository) Delete(ctx context.Context, id primitive.ObjectID) (err error) {
	defer r.observe("replies.delete", time.Now(), &err)

	result, err := r.collection().DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (r *replyRepository) DeleteByParent(ctx context.Context, parentID primitive.ObjectID) (deleted int64, err error) {
	defer r.observe("replies.delete_by_parent", time.Now(), &err)

	result, err := r.collection().DeleteMany(ctx, bson.M{"parentReply": parentID})
	if err != nil {
		return 0, err
	}
	return result.DeletedCount, nil
}

func (r *replyRepository) DeleteByDiscussion(ctx context.Context, discussionID primitive.ObjectID) (deleted int64, err error) {
	defer r.observe("replies.delete_by_discussion", time.Now(), &err)

	result, err := r.collection().DeleteMany(ctx, bson.M{"discussion": discussionID})
	if err != nil {
		return 0, err
	}
	return result.DeletedCount, nil
}

// Vote clears the user from both vote sets, then records the new vote when
// voteType names one. Casting the vote a user already holds therefore acts
// as a toggle-off only when the caller maps it to "remove"; a switched vote
// lands in the opposite set in the same update.
func (r *replyRepository) Vote(ctx context.Context, id primitive.ObjectID, userID primitive.ObjectID, voteType string) (reply *models.Reply, err error) {
	defer r.observe("replies.vote", time.Now(), &err)

	_, err = r.collection().UpdateByID(ctx, id, bson.M{
		"$pull": bson.M{"upvotes": userID, "downvotes": userID},
	})
	if err != nil {
		return nil, err
	}

	switch voteType {
	case models.VoteUp:
		_, err = r.collection().UpdateByID(ctx, id, bson.M{"$addToSet": bson.M{"upvotes": userID}})
	case models.VoteDown:
		_, err = r.collection().UpdateByID(ctx, id, bson.M{"$addToSet": bson.M{"downvotes": userID}})
	}
	if err != nil {
		return nil, err
	}

	return r.GetByID(ctx, id)
}

// ClearAccepted removes accepted-answer status from every reply in the
// discussion, so at most one holder remains after the caller marks the new
// one.
func (r *replyRepository) ClearAccepted(ctx context.Context, discussionID primitive.ObjectID) (err error) {
	defer r.observe("replies.clear_accepted", time.Now(), &err)

	_, err = r.collection().UpdateMany(ctx,
		bson.M{"discussion": discussionID, "isAcceptedAnswer": true},
		bson.M{"$set": bson.M{"isAcceptedAnswer": false}},
	)
	return err
}

func (r *replyRepository) SetAccepted(ctx context.Context, id primitive.ObjectID, accepted bool) (err error) {
	defer r.observe("replies.set_accepted", time.Now(), &err)

	result, err := r.collection().UpdateByID(ctx, id, bson.M{"$set": bson.M{"isAcceptedAnswer": accepted}})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (r *replyRepository) HasAccepted(ctx context.Context, discussionID primitive.ObjectID) (has bool, err error) {
	defer r.observe("replies.has_accepted", time.Now(), &err)

	n, err := r.collection().CountDocuments(ctx,
		bson.M{"discussion": discussionID, "isAcceptedAnswer": true},
		options.Count().SetLimit(1),
	)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Populate resolves author projections and derives the vote counts for the
// given replies.
func (r *replyRepository) Populate(ctx context.Context, replies ...*models.Reply) error {
	if len(replies) == 0 {
		return nil
	}

	authorIDs := make([]primitive.ObjectID, 0, len(replies))
	for _, reply := range replies {
		authorIDs = append(authorIDs, reply.AuthorID)
	}

	authors, err := loadUserSummaries(ctx, r.Collection(database.CollUsers), authorIDs)
	if err != nil {
		return err
	}
	for _, reply := range replies {
		reply.Author = authors[reply.AuthorID]
		reply.ComputeVoteCounts()
	}
	return nil
}
