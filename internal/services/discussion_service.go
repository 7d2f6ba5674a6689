// file: internal/services/discussion_service.go
package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"coursehub/internal/cache"
	"coursehub/internal/models"
	"coursehub/internal/repositories"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const statsCacheKey = "discussions:stats"

// discussionService implements DiscussionService over the forum repositories
type discussionService struct {
	discussionRepo repositories.DiscussionRepository
	replyRepo      repositories.ReplyRepository
	courseRepo     repositories.CourseRepository
	cache          cache.Cache
	logger         *zap.Logger
	config         *DiscussionServiceConfig
}

// DiscussionServiceConfig holds discussion service configuration.
//
// DetailReplyLimit bounds how many top-level replies the detail view
// materializes in one response; threads that outgrow it page the remainder
// through the replies listing endpoint.
type DiscussionServiceConfig struct {
	DefaultPageSize  int           `json:"default_page_size"`
	MaxPageSize      int           `json:"max_page_size"`
	DetailReplyLimit int           `json:"detail_reply_limit"`
	MaxSlugAttempts  int           `json:"max_slug_attempts"`
	PopularTagLimit  int           `json:"popular_tag_limit"`
	StatsCacheTime   time.Duration `json:"stats_cache_time"`
}

// NewDiscussionService creates a new discussion service
func NewDiscussionService(
	discussionRepo repositories.DiscussionRepository,
	replyRepo repositories.ReplyRepository,
	courseRepo repositories.CourseRepository,
	cache cache.Cache,
	logger *zap.Logger,
	config *DiscussionServiceConfig,
) DiscussionService {
	if config == nil {
		config = DefaultDiscussionConfig()
	}
	return &discussionService{
		discussionRepo: discussionRepo,
		replyRepo:      replyRepo,
		courseRepo:     courseRepo,
		cache:          cache,
		logger:         logger,
		config:         config,
	}
}

// DefaultDiscussionConfig returns default discussion service configuration
func DefaultDiscussionConfig() *DiscussionServiceConfig {
	return &DiscussionServiceConfig{
		DefaultPageSize:  10,
		MaxPageSize:      100,
		DetailReplyLimit: 100,
		MaxSlugAttempts:  1000,
		PopularTagLimit:  50,
		StatsCacheTime:   5 * time.Minute,
	}
}

// ===============================
// LISTING & RETRIEVAL
// ===============================

func (s *discussionService) ListDiscussions(ctx context.Context, req *ListDiscussionsRequest) (*DiscussionListResult, error) {
	filter := repositories.DiscussionFilter{
		Search:     strings.TrimSpace(req.Search),
		Category:   normalizeSelector(req.Category),
		Tags:       normalizeTags(req.Tags),
		Unanswered: req.Unanswered,
		Sort:       req.Sort,
		Page:       req.Page,
		Limit:      req.Limit,
	}

	if course := normalizeSelector(req.Course); course != "" {
		courseID, err := primitive.ObjectIDFromHex(course)
		if err != nil {
			return nil, NewValidationError("invalid course id", err)
		}
		filter.CourseID = &courseID
	}

	discussions, total, err := s.discussionRepo.List(ctx, filter)
	if err != nil {
		return nil, NewInternalError("failed to list discussions", err)
	}

	page, limit := appliedPage(req.Page, req.Limit, s.config.DefaultPageSize, s.config.MaxPageSize)
	return &DiscussionListResult{
		Discussions: discussions,
		Pagination:  NewPagination(page, limit, total),
	}, nil
}

// GetDiscussion returns the discussion with its threaded replies. Every call
// counts one view, repeat views included.
func (s *discussionService) GetDiscussion(ctx context.Context, id string) (*DiscussionDetailResult, error) {
	discussionID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, NewNotFoundError("discussion not found")
	}

	if err := s.discussionRepo.IncrementViews(ctx, discussionID); err != nil {
		return nil, NewInternalError("failed to record view", err)
	}

	discussion, err := s.discussionRepo.GetByID(ctx, discussionID)
	if err != nil {
		if repositories.IsNotFound(err) {
			return nil, NewNotFoundError("discussion not found")
		}
		return nil, NewInternalError("failed to get discussion", err)
	}

	replies, err := s.threadedReplies(ctx, discussionID, 1, s.config.DetailReplyLimit)
	if err != nil {
		return nil, err
	}

	return &DiscussionDetailResult{Discussion: discussion, Replies: replies}, nil
}

// threadedReplies loads a page of top-level replies with one level of
// children attached.
func (s *discussionService) threadedReplies(ctx context.Context, discussionID primitive.ObjectID, page, limit int) ([]*models.Reply, error) {
	replies, _, err := s.replyRepo.ListTopLevel(ctx, discussionID, page, limit)
	if err != nil {
		return nil, NewInternalError("failed to list replies", err)
	}

	parentIDs := make([]primitive.ObjectID, 0, len(replies))
	for _, reply := range replies {
		parentIDs = append(parentIDs, reply.ID)
	}
	children, err := s.replyRepo.ListChildren(ctx, parentIDs)
	if err != nil {
		return nil, NewInternalError("failed to list nested replies", err)
	}
	for _, reply := range replies {
		reply.Children = children[reply.ID]
	}
	return replies, nil
}

// ===============================
// MUTATIONS
// ===============================

func (s *discussionService) CreateDiscussion(ctx context.Context, req *CreateDiscussionRequest) (*models.Discussion, error) {
	if err := validate.Struct(req); err != nil {
		return nil, NewValidationError("invalid create discussion request", err)
	}
	if !models.IsValidCategory(req.Category) {
		return nil, NewValidationError(fmt.Sprintf("unknown category %q", req.Category), nil)
	}

	courseID, err := primitive.ObjectIDFromHex(req.Course)
	if err != nil {
		return nil, NewValidationError("invalid course id", err)
	}
	exists, err := s.courseRepo.Exists(ctx, courseID)
	if err != nil {
		return nil, NewInternalError("failed to check course", err)
	}
	if !exists {
		return nil, NewNotFoundError("course not found")
	}

	slug, err := s.uniqueSlug(ctx, req.Title)
	if err != nil {
		return nil, err
	}

	discussion := &models.Discussion{
		Title:    strings.TrimSpace(req.Title),
		Slug:     slug,
		Content:  req.Content,
		AuthorID: req.UserID,
		CourseID: courseID,
		Category: req.Category,
		Tags:     normalizeTags(req.Tags),
	}

	if err := s.discussionRepo.Create(ctx, discussion); err != nil {
		// A concurrent submission with the same title can take the slug
		// between the probe and the insert; the unique index catches it,
		// so re-probe once.
		if repositories.IsDuplicateKey(err) {
			if discussion.Slug, err = s.uniqueSlug(ctx, req.Title); err != nil {
				return nil, err
			}
			err = s.discussionRepo.Create(ctx, discussion)
		}
		if err != nil {
			return nil, NewInternalError("failed to create discussion", err)
		}
	}

	s.invalidateStats(ctx)

	if err := s.discussionRepo.Populate(ctx, discussion); err != nil {
		return nil, NewInternalError("failed to populate discussion", err)
	}
	return discussion, nil
}

// uniqueSlug probes sequentially for an unused slug, suffixing -1, -2, …
// on collision.
func (s *discussionService) uniqueSlug(ctx context.Context, title string) (string, error) {
	base := slugify(title)
	candidate := base
	for attempt := 1; attempt <= s.config.MaxSlugAttempts; attempt++ {
		exists, err := s.discussionRepo.SlugExists(ctx, candidate)
		if err != nil {
			return "", NewInternalError("failed to check slug", err)
		}
		if !exists {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, attempt)
	}
	return "", NewConflictError("could not derive a unique slug")
}

func (s *discussionService) UpdateDiscussion(ctx context.Context, req *UpdateDiscussionRequest) (*models.Discussion, error) {
	if err := validate.Struct(req); err != nil {
		return nil, NewValidationError("invalid update discussion request", err)
	}
	discussionID, err := primitive.ObjectIDFromHex(req.DiscussionID)
	if err != nil {
		return nil, NewValidationError("invalid discussion id", err)
	}

	discussion, err := s.getForWrite(ctx, discussionID)
	if err != nil {
		return nil, err
	}
	if err := authorizeOwner(discussion.AuthorID, req.UserID, req.Role); err != nil {
		return nil, err
	}

	patch := repositories.DiscussionPatch{}
	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" || len(title) > models.MaxTitleLength {
			return nil, NewValidationError("invalid title", nil)
		}
		// The slug stays as minted at creation so permalinks survive edits.
		patch.Title = &title
	}
	if req.Content != nil {
		if *req.Content == "" {
			return nil, NewValidationError("content cannot be empty", nil)
		}
		patch.Content = req.Content
	}
	if req.Category != nil {
		if !models.IsValidCategory(*req.Category) {
			return nil, NewValidationError(fmt.Sprintf("unknown category %q", *req.Category), nil)
		}
		patch.Category = req.Category
	}
	if req.Tags != nil {
		patch.Tags = normalizeTags(req.Tags)
	}

	updated, err := s.discussionRepo.Update(ctx, discussionID, patch, time.Now())
	if err != nil {
		if repositories.IsNotFound(err) {
			return nil, NewNotFoundError("discussion not found")
		}
		return nil, NewInternalError("failed to update discussion", err)
	}

	s.invalidateStats(ctx)
	return updated, nil
}

// DeleteDiscussion removes the discussion and every reply under it, replies
// first so no orphans survive a failure in between.
func (s *discussionService) DeleteDiscussion(ctx context.Context, req *DeleteDiscussionRequest) error {
	if err := validate.Struct(req); err != nil {
		return NewValidationError("invalid delete discussion request", err)
	}
	discussionID, err := primitive.ObjectIDFromHex(req.DiscussionID)
	if err != nil {
		return NewValidationError("invalid discussion id", err)
	}

	discussion, err := s.getForWrite(ctx, discussionID)
	if err != nil {
		return err
	}
	if err := authorizeOwner(discussion.AuthorID, req.UserID, req.Role); err != nil {
		return err
	}

	if _, err := s.replyRepo.DeleteByDiscussion(ctx, discussionID); err != nil {
		return NewInternalError("failed to delete replies", err)
	}
	if err := s.discussionRepo.Delete(ctx, discussionID); err != nil {
		if repositories.IsNotFound(err) {
			return NewNotFoundError("discussion not found")
		}
		return NewInternalError("failed to delete discussion", err)
	}

	s.invalidateStats(ctx)
	return nil
}

// ===============================
// MODERATION
// ===============================

func (s *discussionService) TogglePin(ctx context.Context, req *ModerateDiscussionRequest) (bool, error) {
	return s.toggleFlag(ctx, req, "pin")
}

func (s *discussionService) ToggleLock(ctx context.Context, req *ModerateDiscussionRequest) (bool, error) {
	return s.toggleFlag(ctx, req, "lock")
}

func (s *discussionService) toggleFlag(ctx context.Context, req *ModerateDiscussionRequest, flag string) (bool, error) {
	if err := validate.Struct(req); err != nil {
		return false, NewValidationError("invalid moderation request", err)
	}
	if req.Role != models.RoleInstructor {
		return false, NewForbiddenError("only instructors can moderate discussions")
	}
	discussionID, err := primitive.ObjectIDFromHex(req.DiscussionID)
	if err != nil {
		return false, NewValidationError("invalid discussion id", err)
	}

	discussion, err := s.getForWrite(ctx, discussionID)
	if err != nil {
		return false, err
	}

	var next bool
	switch flag {
	case "pin":
		next = !discussion.IsPinned
		err = s.discussionRepo.SetPinned(ctx, discussionID, next)
	case "lock":
		next = !discussion.IsLocked
		err = s.discussionRepo.SetLocked(ctx, discussionID, next)
	}
	if err != nil {
		if repositories.IsNotFound(err) {
			return false, NewNotFoundError("discussion not found")
		}
		return false, NewInternalError("failed to update discussion", err)
	}
	return next, nil
}

// ===============================
// AGGREGATES
// ===============================

func (s *discussionService) GetStats(ctx context.Context) (*models.DiscussionStats, error) {
	var stats models.DiscussionStats
	if found, err := s.cache.Get(ctx, statsCacheKey, &stats); err == nil && found {
		return &stats, nil
	}

	fresh, err := s.discussionRepo.Stats(ctx)
	if err != nil {
		return nil, NewInternalError("failed to compute discussion stats", err)
	}

	if err := s.cache.Set(ctx, statsCacheKey, fresh, s.config.StatsCacheTime); err != nil {
		s.logger.Warn("Failed to cache discussion stats", zap.Error(err))
	}
	return fresh, nil
}

func (s *discussionService) GetCategories(ctx context.Context) []string {
	return models.DiscussionCategories
}

func (s *discussionService) GetPopularTags(ctx context.Context) ([]string, error) {
	counts, err := s.discussionRepo.TopTags(ctx, s.config.PopularTagLimit)
	if err != nil {
		return nil, NewInternalError("failed to aggregate tags", err)
	}
	tags := make([]string, 0, len(counts))
	for _, c := range counts {
		tags = append(tags, c.ID)
	}
	return tags, nil
}

// ===============================
// HELPERS
// ===============================

func (s *discussionService) getForWrite(ctx context.Context, id primitive.ObjectID) (*models.Discussion, error) {
	discussion, err := s.discussionRepo.GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFound(err) {
			return nil, NewNotFoundError("discussion not found")
		}
		return nil, NewInternalError("failed to get discussion", err)
	}
	return discussion, nil
}

func (s *discussionService) invalidateStats(ctx context.Context) {
	if err := s.cache.Delete(ctx, statsCacheKey); err != nil {
		s.logger.Warn("Failed to invalidate stats cache", zap.Error(err))
	}
}

// authorizeOwner permits the resource author or any instructor.
func authorizeOwner(ownerID, userID primitive.ObjectID, role string) error {
	if ownerID == userID || role == models.RoleInstructor {
		return nil
	}
	return NewForbiddenError("not allowed to modify this resource")
}

// normalizeSelector clears the "All" sentinel the client sends for an
// unfiltered dropdown.
func normalizeSelector(value string) string {
	value = strings.TrimSpace(value)
	if strings.EqualFold(value, "All") {
		return ""
	}
	return value
}

// normalizeTags lowercases, trims and dedupes tags, dropping empties.
func normalizeTags(tags []string) []string {
	if tags == nil {
		return nil
	}
	seen := make(map[string]struct{}, len(tags))
	normalized := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.ToLower(strings.TrimSpace(tag))
		if tag == "" {
			continue
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		normalized = append(normalized, tag)
	}
	return normalized
}

// appliedPage mirrors the repository's pagination clamping so the returned
// page descriptor reflects what was actually queried.
func appliedPage(page, limit, defaultLimit, maxLimit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	return page, limit
}
