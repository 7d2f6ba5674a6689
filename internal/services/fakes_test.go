// file: internal/services/fakes_test.go
package services

import (
	"context"
	"sort"
	"sync"
	"time"

	"coursehub/internal/models"
	"coursehub/internal/repositories"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// ===============================
// IN-MEMORY REPOSITORY FAKES
// ===============================

type fakeDiscussionRepo struct {
	mu   sync.Mutex
	docs map[primitive.ObjectID]*models.Discussion
}

func newFakeDiscussionRepo() *fakeDiscussionRepo {
	return &fakeDiscussionRepo{docs: make(map[primitive.ObjectID]*models.Discussion)}
}

var _ repositories.DiscussionRepository = (*fakeDiscussionRepo)(nil)

func (f *fakeDiscussionRepo) List(ctx context.Context, filter repositories.DiscussionFilter) ([]*models.Discussion, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var all []*models.Discussion
	for _, d := range f.docs {
		if filter.Category != "" && d.Category != filter.Category {
			continue
		}
		if filter.Unanswered && d.IsAnswered {
			continue
		}
		copied := *d
		all = append(all, &copied)
	}

	switch filter.Sort {
	case "oldest":
		sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.Before(all[j].CreatedAt) })
	default: // recent: pinned first, then last activity descending
		sort.Slice(all, func(i, j int) bool {
			if all[i].IsPinned != all[j].IsPinned {
				return all[i].IsPinned
			}
			return all[i].LastActivity.After(all[j].LastActivity)
		})
	}
	return all, int64(len(all)), nil
}

func (f *fakeDiscussionRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Discussion, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	d, ok := f.docs[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	copied := *d
	return &copied, nil
}

func (f *fakeDiscussionRepo) IncrementViews(ctx context.Context, id primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if d, ok := f.docs[id]; ok {
		d.Views++
	}
	return nil
}

func (f *fakeDiscussionRepo) Create(ctx context.Context, d *models.Discussion) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	now := time.Now()
	d.ID = primitive.NewObjectID()
	d.CreatedAt = now
	d.UpdatedAt = now
	d.LastActivity = now
	copied := *d
	f.docs[d.ID] = &copied
	return nil
}

func (f *fakeDiscussionRepo) Update(ctx context.Context, id primitive.ObjectID, patch repositories.DiscussionPatch, lastActivity time.Time) (*models.Discussion, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	d, ok := f.docs[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	if patch.Title != nil {
		d.Title = *patch.Title
	}
	if patch.Content != nil {
		d.Content = *patch.Content
	}
	if patch.Category != nil {
		d.Category = *patch.Category
	}
	if patch.Tags != nil {
		d.Tags = patch.Tags
	}
	d.LastActivity = lastActivity
	d.UpdatedAt = time.Now()
	copied := *d
	return &copied, nil
}

func (f *fakeDiscussionRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.docs[id]; !ok {
		return mongo.ErrNoDocuments
	}
	delete(f.docs, id)
	return nil
}

func (f *fakeDiscussionRepo) SetPinned(ctx context.Context, id primitive.ObjectID, pinned bool) error {
	return f.setFlag(id, func(d *models.Discussion) { d.IsPinned = pinned })
}

func (f *fakeDiscussionRepo) SetLocked(ctx context.Context, id primitive.ObjectID, locked bool) error {
	return f.setFlag(id, func(d *models.Discussion) { d.IsLocked = locked })
}

func (f *fakeDiscussionRepo) setFlag(id primitive.ObjectID, apply func(*models.Discussion)) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	d, ok := f.docs[id]
	if !ok {
		return mongo.ErrNoDocuments
	}
	apply(d)
	return nil
}

func (f *fakeDiscussionRepo) SlugExists(ctx context.Context, slug string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, d := range f.docs {
		if d.Slug == slug {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeDiscussionRepo) Stats(ctx context.Context) (*models.DiscussionStats, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	stats := &models.DiscussionStats{}
	byCategory := make(map[string]int64)
	for _, d := range f.docs {
		stats.Total++
		if d.IsAnswered {
			stats.Answered++
		}
		byCategory[d.Category]++
	}
	stats.Unanswered = stats.Total - stats.Answered
	for cat, n := range byCategory {
		stats.ByCategory = append(stats.ByCategory, models.CategoryCount{ID: cat, Count: n})
	}
	return stats, nil
}

func (f *fakeDiscussionRepo) TopTags(ctx context.Context, limit int) ([]models.TagCount, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	counts := make(map[string]int64)
	for _, d := range f.docs {
		for _, tag := range d.Tags {
			counts[tag]++
		}
	}
	tags := make([]models.TagCount, 0, len(counts))
	for tag, n := range counts {
		tags = append(tags, models.TagCount{ID: tag, Count: n})
	}
	sort.Slice(tags, func(i, j int) bool { return tags[i].Count > tags[j].Count })
	if len(tags) > limit {
		tags = tags[:limit]
	}
	return tags, nil
}

func (f *fakeDiscussionRepo) IncrementReplies(ctx context.Context, id primitive.ObjectID, delta int64, touchActivity *time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if d, ok := f.docs[id]; ok {
		d.RepliesCount += delta
		if touchActivity != nil {
			d.LastActivity = *touchActivity
		}
	}
	return nil
}

func (f *fakeDiscussionRepo) MarkInstructorReply(ctx context.Context, id primitive.ObjectID) error {
	return f.setFlag(id, func(d *models.Discussion) { d.HasInstructorReply = true })
}

func (f *fakeDiscussionRepo) SetAnswered(ctx context.Context, id primitive.ObjectID, answered bool) error {
	return f.setFlag(id, func(d *models.Discussion) { d.IsAnswered = answered })
}

func (f *fakeDiscussionRepo) Populate(ctx context.Context, discussions ...*models.Discussion) error {
	return nil
}

// ===============================

type fakeReplyRepo struct {
	mu   sync.Mutex
	docs map[primitive.ObjectID]*models.Reply
	seq  int
}

func newFakeReplyRepo() *fakeReplyRepo {
	return &fakeReplyRepo{docs: make(map[primitive.ObjectID]*models.Reply)}
}

var _ repositories.ReplyRepository = (*fakeReplyRepo)(nil)

func (f *fakeReplyRepo) ListTopLevel(ctx context.Context, discussionID primitive.ObjectID, page, limit int) ([]*models.Reply, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var replies []*models.Reply
	for _, r := range f.docs {
		if r.DiscussionID == discussionID && r.ParentReplyID == nil {
			copied := *r
			replies = append(replies, &copied)
		}
	}
	sort.Slice(replies, func(i, j int) bool {
		if replies[i].IsAcceptedAnswer != replies[j].IsAcceptedAnswer {
			return replies[i].IsAcceptedAnswer
		}
		return replies[i].CreatedAt.Before(replies[j].CreatedAt)
	})

	total := int64(len(replies))
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	start := (page - 1) * limit
	if start >= len(replies) {
		return nil, total, nil
	}
	if end := start + limit; end < len(replies) {
		replies = replies[start:end]
	} else {
		replies = replies[start:]
	}
	return replies, total, nil
}

func (f *fakeReplyRepo) ListChildren(ctx context.Context, parentIDs []primitive.ObjectID) (map[primitive.ObjectID][]*models.Reply, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	parents := make(map[primitive.ObjectID]bool, len(parentIDs))
	for _, id := range parentIDs {
		parents[id] = true
	}
	children := make(map[primitive.ObjectID][]*models.Reply)
	for _, r := range f.docs {
		if r.ParentReplyID != nil && parents[*r.ParentReplyID] {
			copied := *r
			children[*r.ParentReplyID] = append(children[*r.ParentReplyID], &copied)
		}
	}
	for id := range children {
		group := children[id]
		sort.Slice(group, func(i, j int) bool { return group[i].CreatedAt.Before(group[j].CreatedAt) })
	}
	return children, nil
}

func (f *fakeReplyRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Reply, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.docs[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	copied := *r
	return &copied, nil
}

func (f *fakeReplyRepo) FindInDiscussion(ctx context.Context, id, discussionID primitive.ObjectID) (*models.Reply, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.docs[id]
	if !ok || r.DiscussionID != discussionID {
		return nil, mongo.ErrNoDocuments
	}
	copied := *r
	return &copied, nil
}

func (f *fakeReplyRepo) Create(ctx context.Context, r *models.Reply) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	r.ID = primitive.NewObjectID()
	// Spread creation times so ordering is deterministic.
	r.CreatedAt = time.Now().Add(time.Duration(f.seq) * time.Millisecond)
	r.UpdatedAt = r.CreatedAt
	if r.Upvotes == nil {
		r.Upvotes = []primitive.ObjectID{}
	}
	if r.Downvotes == nil {
		r.Downvotes = []primitive.ObjectID{}
	}
	copied := *r
	f.docs[r.ID] = &copied
	return nil
}

func (f *fakeReplyRepo) UpdateContent(ctx context.Context, id primitive.ObjectID, content string, editedAt time.Time) (*models.Reply, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.docs[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	r.Content = content
	r.IsEdited = true
	r.EditedAt = &editedAt
	copied := *r
	return &copied, nil
}

func (f *fakeReplyRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.docs[id]; !ok {
		return mongo.ErrNoDocuments
	}
	delete(f.docs, id)
	return nil
}

func (f *fakeReplyRepo) DeleteByParent(ctx context.Context, parentID primitive.ObjectID) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var deleted int64
	for id, r := range f.docs {
		if r.ParentReplyID != nil && *r.ParentReplyID == parentID {
			delete(f.docs, id)
			deleted++
		}
	}
	return deleted, nil
}

func (f *fakeReplyRepo) DeleteByDiscussion(ctx context.Context, discussionID primitive.ObjectID) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var deleted int64
	for id, r := range f.docs {
		if r.DiscussionID == discussionID {
			delete(f.docs, id)
			deleted++
		}
	}
	return deleted, nil
}

func (f *fakeReplyRepo) Vote(ctx context.Context, id primitive.ObjectID, userID primitive.ObjectID, voteType string) (*models.Reply, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.docs[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	r.Upvotes = removeID(r.Upvotes, userID)
	r.Downvotes = removeID(r.Downvotes, userID)
	switch voteType {
	case models.VoteUp:
		r.Upvotes = append(r.Upvotes, userID)
	case models.VoteDown:
		r.Downvotes = append(r.Downvotes, userID)
	}
	copied := *r
	return &copied, nil
}

func removeID(ids []primitive.ObjectID, id primitive.ObjectID) []primitive.ObjectID {
	out := ids[:0]
	for _, existing := range ids {
		if existing != id {
			out = append(out, existing)
		}
	}
	return out
}

func (f *fakeReplyRepo) ClearAccepted(ctx context.Context, discussionID primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.docs {
		if r.DiscussionID == discussionID {
			r.IsAcceptedAnswer = false
		}
	}
	return nil
}

func (f *fakeReplyRepo) SetAccepted(ctx context.Context, id primitive.ObjectID, accepted bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.docs[id]
	if !ok {
		return mongo.ErrNoDocuments
	}
	r.IsAcceptedAnswer = accepted
	return nil
}

func (f *fakeReplyRepo) HasAccepted(ctx context.Context, discussionID primitive.ObjectID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.docs {
		if r.DiscussionID == discussionID && r.IsAcceptedAnswer {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeReplyRepo) Populate(ctx context.Context, replies ...*models.Reply) error {
	for _, r := range replies {
		r.ComputeVoteCounts()
	}
	return nil
}

// acceptedCount reports how many replies of a discussion hold the accepted
// flag; used to assert the single-holder invariant.
func (f *fakeReplyRepo) acceptedCount(discussionID primitive.ObjectID) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, r := range f.docs {
		if r.DiscussionID == discussionID && r.IsAcceptedAnswer {
			n++
		}
	}
	return n
}

func (f *fakeReplyRepo) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.docs)
}

// ===============================

type fakeCourseRepo struct {
	courses  map[primitive.ObjectID]*models.Course
	lectures map[primitive.ObjectID]*models.Lecture
}

func newFakeCourseRepo() *fakeCourseRepo {
	return &fakeCourseRepo{
		courses:  make(map[primitive.ObjectID]*models.Course),
		lectures: make(map[primitive.ObjectID]*models.Lecture),
	}
}

var _ repositories.CourseRepository = (*fakeCourseRepo)(nil)

func (f *fakeCourseRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Course, error) {
	c, ok := f.courses[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	return c, nil
}

func (f *fakeCourseRepo) Exists(ctx context.Context, id primitive.ObjectID) (bool, error) {
	_, ok := f.courses[id]
	return ok, nil
}

func (f *fakeCourseRepo) GetLectureByID(ctx context.Context, id primitive.ObjectID) (*models.Lecture, error) {
	l, ok := f.lectures[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	return l, nil
}

func (f *fakeCourseRepo) GetLectureTitles(ctx context.Context, ids []primitive.ObjectID) ([]string, error) {
	var titles []string
	for _, id := range ids {
		if l, ok := f.lectures[id]; ok {
			titles = append(titles, l.LectureTitle)
		}
	}
	return titles, nil
}

// ===============================

type fakeUserRepo struct {
	users map[primitive.ObjectID]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[primitive.ObjectID]*models.User)}
}

var _ repositories.UserRepository = (*fakeUserRepo)(nil)

// add registers a user with the given role and returns its id.
func (f *fakeUserRepo) add(role string) primitive.ObjectID {
	id := primitive.NewObjectID()
	f.users[id] = &models.User{ID: id, Name: "user " + id.Hex()[:6], Role: role}
	return id
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	copied := *u
	return &copied, nil
}

func (f *fakeUserRepo) GetSummaries(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]*models.UserSummary, error) {
	summaries := make(map[primitive.ObjectID]*models.UserSummary, len(ids))
	for _, id := range ids {
		if u, ok := f.users[id]; ok {
			summaries[id] = &models.UserSummary{ID: u.ID, Name: u.Name, PhotoURL: u.PhotoURL, Role: u.Role}
		}
	}
	return summaries, nil
}

// ===============================

// noopCache satisfies cache.Cache without storing anything, so service tests
// always hit the repository path.
type noopCache struct{}

func (noopCache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	return false, nil
}
func (noopCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	return nil
}
func (noopCache) Delete(ctx context.Context, key string) error            { return nil }
func (noopCache) DeletePattern(ctx context.Context, pattern string) error { return nil }
func (noopCache) Health(ctx context.Context) error                       { return nil }
func (noopCache) Close() error                                           { return nil }
