// file: internal/repositories/discussion_repository.go
package repositories

import (
	"context"
	"regexp"
	"time"

	"coursehub/internal/database"
	"coursehub/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

type discussionRepository struct {
	*BaseRepository
}

// NewDiscussionRepository creates a mongo-backed discussion repository
func NewDiscussionRepository(db *database.Manager, logger *zap.Logger) DiscussionRepository {
	return &discussionRepository{BaseRepository: NewBaseRepository(db, logger)}
}

func (r *discussionRepository) collection() *mongo.Collection {
	return r.Collection(database.CollDiscussions)
}

// buildDiscussionFilter translates a DiscussionFilter into a store query.
// Search is a case-insensitive substring match across title, content and tags.
func buildDiscussionFilter(f DiscussionFilter) bson.M {
	filter := bson.M{}

	if f.Search != "" {
		pattern := primitive.Regex{Pattern: regexp.QuoteMeta(f.Search), Options: "i"}
		filter["$or"] = bson.A{
			bson.M{"title": pattern},
			bson.M{"content": pattern},
			bson.M{"tags": pattern},
		}
	}
	if f.Category != "" {
		filter["category"] = f.Category
	}
	if f.CourseID != nil {
		filter["course"] = *f.CourseID
	}
	if len(f.Tags) > 0 {
		filter["tags"] = bson.M{"$in": f.Tags}
	}
	if f.Unanswered {
		filter["isAnswered"] = false
	}
	return filter
}

// discussionSort maps a sort mode onto a store sort spec. "recent" places
// pinned discussions first, then orders by most recent activity.
func discussionSort(mode string) bson.D {
	switch mode {
	case "replies":
		return bson.D{{Key: "repliesCount", Value: -1}}
	case "views":
		return bson.D{{Key: "views", Value: -1}}
	case "oldest":
		return bson.D{{Key: "createdAt", Value: 1}}
	default: // recent
		return bson.D{{Key: "isPinned", Value: -1}, {Key: "lastActivity", Value: -1}}
	}
}

func (r *discussionRepository) List(ctx context.Context, f DiscussionFilter) (discussions []*models.Discussion, total int64, err error) {
	defer r.observe("discussions.list", time.Now(), &err)

	page, limit := normalizePage(f.Page, f.Limit, 10, 100)
	filter := buildDiscussionFilter(f)

	opts := options.Find().
		SetSort(discussionSort(f.Sort)).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))

	cursor, err := r.collection().Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	if err = cursor.All(ctx, &discussions); err != nil {
		return nil, 0, err
	}

	total, err = r.collection().CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	if err = r.Populate(ctx, discussions...); err != nil {
		return nil, 0, err
	}
	return discussions, total, nil
}

func (r *discussionRepository) GetByID(ctx context.Context, id primitive.ObjectID) (discussion *models.Discussion, err error) {
	defer r.observe("discussions.get", time.Now(), &err)

	discussion = &models.Discussion{}
	if err = r.collection().FindOne(ctx, bson.M{"_id": id}).Decode(discussion); err != nil {
		return nil, err
	}
	if err = r.Populate(ctx, discussion); err != nil {
		return nil, err
	}
	return discussion, nil
}

func (r *discussionRepository) IncrementViews(ctx context.Context, id primitive.ObjectID) (err error) {
	defer r.observe("discussions.increment_views", time.Now(), &err)

	_, err = r.collection().UpdateByID(ctx, id, bson.M{"$inc": bson.M{"views": 1}})
	return err
}

func (r *discussionRepository) Create(ctx context.Context, discussion *models.Discussion) (err error) {
	defer r.observe("discussions.create", time.Now(), &err)

	now := time.Now()
	discussion.CreatedAt = now
	discussion.UpdatedAt = now
	discussion.LastActivity = now
	if discussion.Tags == nil {
		discussion.Tags = []string{}
	}

	result, err := r.collection().InsertOne(ctx, discussion)
	if err != nil {
		return err
	}
	discussion.ID = result.InsertedID.(primitive.ObjectID)
	return nil
}

func (r *discussionRepository) Update(ctx context.Context, id primitive.ObjectID, patch DiscussionPatch, lastActivity time.Time) (discussion *models.Discussion, err error) {
	defer r.observe("discussions.update", time.Now(), &err)

	set := bson.M{
		"lastActivity": lastActivity,
		"updatedAt":    time.Now(),
	}
	if patch.Title != nil {
		set["title"] = *patch.Title
	}
	if patch.Content != nil {
		set["content"] = *patch.Content
	}
	if patch.Category != nil {
		set["category"] = *patch.Category
	}
	if patch.Tags != nil {
		set["tags"] = patch.Tags
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	discussion = &models.Discussion{}
	err = r.collection().FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(discussion)
	if err != nil {
		return nil, err
	}
	if err = r.Populate(ctx, discussion); err != nil {
		return nil, err
	}
	return discussion, nil
}

func (r *discussionRepository) Delete(ctx context.Context, id primitive.ObjectID) (err error) {
	defer r.observe("discussions.delete", time.Now(), &err)

	result, err := r.collection().DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (r *discussionRepository) SetPinned(ctx context.Context, id primitive.ObjectID, pinned bool) error {
	return r.setFlag(ctx, id, "isPinned", pinned)
}

func (r *discussionRepository) SetLocked(ctx context.Context, id primitive.ObjectID, locked bool) error {
	return r.setFlag(ctx, id, "isLocked", locked)
}

func (r *discussionRepository) setFlag(ctx context.Context, id primitive.ObjectID, field string, value bool) (err error) {
	defer r.observe("discussions.set_"+field, time.Now(), &err)

	result, err := r.collection().UpdateByID(ctx, id, bson.M{
		"$set": bson.M{field: value, "updatedAt": time.Now()},
	})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (r *discussionRepository) SlugExists(ctx context.Context, slug string) (exists bool, err error) {
	defer r.observe("discussions.slug_exists", time.Now(), &err)

	n, err := r.collection().CountDocuments(ctx, bson.M{"slug": slug}, options.Count().SetLimit(1))
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *discussionRepository) Stats(ctx context.Context) (stats *models.DiscussionStats, err error) {
	defer r.observe("discussions.stats", time.Now(), &err)

	total, err := r.collection().CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	answered, err := r.collection().CountDocuments(ctx, bson.M{"isAnswered": true})
	if err != nil {
		return nil, err
	}

	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{"_id": "$category", "count": bson.M{"$sum": 1}}}},
	}
	cursor, err := r.collection().Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	var byCategory []models.CategoryCount
	if err = cursor.All(ctx, &byCategory); err != nil {
		return nil, err
	}

	popularTags, err := r.TopTags(ctx, 10)
	if err != nil {
		return nil, err
	}

	return &models.DiscussionStats{
		Total:       total,
		Answered:    answered,
		Unanswered:  total - answered,
		ByCategory:  byCategory,
		PopularTags: popularTags,
	}, nil
}

func (r *discussionRepository) TopTags(ctx context.Context, limit int) (tags []models.TagCount, err error) {
	defer r.observe("discussions.top_tags", time.Now(), &err)

	pipeline := mongo.Pipeline{
		{{Key: "$unwind", Value: "$tags"}},
		{{Key: "$group", Value: bson.M{"_id": "$tags", "count": bson.M{"$sum": 1}}}},
		{{Key: "$sort", Value: bson.M{"count": -1}}},
		{{Key: "$limit", Value: limit}},
	}
	cursor, err := r.collection().Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	if err = cursor.All(ctx, &tags); err != nil {
		return nil, err
	}
	return tags, nil
}

// ===============================
// PROPAGATOR PRIMITIVES
// ===============================

func (r *discussionRepository) IncrementReplies(ctx context.Context, id primitive.ObjectID, delta int64, touchActivity *time.Time) (err error) {
	defer r.observe("discussions.increment_replies", time.Now(), &err)

	update := bson.M{"$inc": bson.M{"repliesCount": delta}}
	if touchActivity != nil {
		update["$set"] = bson.M{"lastActivity": *touchActivity}
	}
	_, err = r.collection().UpdateByID(ctx, id, update)
	return err
}

func (r *discussionRepository) MarkInstructorReply(ctx context.Context, id primitive.ObjectID) (err error) {
	defer r.observe("discussions.mark_instructor_reply", time.Now(), &err)

	_, err = r.collection().UpdateByID(ctx, id, bson.M{"$set": bson.M{"hasInstructorReply": true}})
	return err
}

func (r *discussionRepository) SetAnswered(ctx context.Context, id primitive.ObjectID, answered bool) (err error) {
	defer r.observe("discussions.set_answered", time.Now(), &err)

	_, err = r.collection().UpdateByID(ctx, id, bson.M{"$set": bson.M{"isAnswered": answered}})
	return err
}

// ===============================
// POPULATION
// ===============================

// Populate resolves the author and course projections for the given
// discussions with two batched lookups.
func (r *discussionRepository) Populate(ctx context.Context, discussions ...*models.Discussion) error {
	if len(discussions) == 0 {
		return nil
	}

	authorIDs := make([]primitive.ObjectID, 0, len(discussions))
	courseIDs := make([]primitive.ObjectID, 0, len(discussions))
	for _, d := range discussions {
		authorIDs = append(authorIDs, d.AuthorID)
		courseIDs = append(courseIDs, d.CourseID)
	}

	authors, err := loadUserSummaries(ctx, r.Collection(database.CollUsers), authorIDs)
	if err != nil {
		return err
	}
	courses, err := loadCourseSummaries(ctx, r.Collection(database.CollCourses), courseIDs)
	if err != nil {
		return err
	}

	for _, d := range discussions {
		d.Author = authors[d.AuthorID]
		d.Course = courses[d.CourseID]
	}
	return nil
}

// loadUserSummaries batch-fetches the author projection for the given ids.
func loadUserSummaries(ctx context.Context, coll *mongo.Collection, ids []primitive.ObjectID) (map[primitive.ObjectID]*models.UserSummary, error) {
	summaries := make(map[primitive.ObjectID]*models.UserSummary, len(ids))
	if len(ids) == 0 {
		return summaries, nil
	}

	projection := bson.M{"name": 1, "photoUrl": 1, "role": 1}
	cursor, err := coll.Find(ctx, bson.M{"_id": bson.M{"$in": ids}}, options.Find().SetProjection(projection))
	if err != nil {
		return nil, err
	}
	var users []*models.UserSummary
	if err := cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	for _, u := range users {
		summaries[u.ID] = u
	}
	return summaries, nil
}

func loadCourseSummaries(ctx context.Context, coll *mongo.Collection, ids []primitive.ObjectID) (map[primitive.ObjectID]*models.CourseSummary, error) {
	summaries := make(map[primitive.ObjectID]*models.CourseSummary, len(ids))
	if len(ids) == 0 {
		return summaries, nil
	}

	projection := bson.M{"courseTitle": 1}
	cursor, err := coll.Find(ctx, bson.M{"_id": bson.M{"$in": ids}}, options.Find().SetProjection(projection))
	if err != nil {
		return nil, err
	}
	var courses []*models.CourseSummary
	if err := cursor.All(ctx, &courses); err != nil {
		return nil, err
	}
	for _, c := range courses {
		summaries[c.ID] = c
	}
	return summaries, nil
}
