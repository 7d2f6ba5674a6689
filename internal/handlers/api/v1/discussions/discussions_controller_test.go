// file: internal/handlers/api/v1/discussions/discussions_controller_test.go
package discussions

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"coursehub/internal/middleware"
	"coursehub/internal/models"
	"coursehub/internal/response"
	"coursehub/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// mockDiscussionService lets each test stub just the calls it needs.
type mockDiscussionService struct {
	listFn   func(ctx context.Context, req *services.ListDiscussionsRequest) (*services.DiscussionListResult, error)
	getFn    func(ctx context.Context, id string) (*services.DiscussionDetailResult, error)
	createFn func(ctx context.Context, req *services.CreateDiscussionRequest) (*models.Discussion, error)
	pinFn    func(ctx context.Context, req *services.ModerateDiscussionRequest) (bool, error)
}

func (m *mockDiscussionService) ListDiscussions(ctx context.Context, req *services.ListDiscussionsRequest) (*services.DiscussionListResult, error) {
	return m.listFn(ctx, req)
}
func (m *mockDiscussionService) GetDiscussion(ctx context.Context, id string) (*services.DiscussionDetailResult, error) {
	return m.getFn(ctx, id)
}
func (m *mockDiscussionService) CreateDiscussion(ctx context.Context, req *services.CreateDiscussionRequest) (*models.Discussion, error) {
	return m.createFn(ctx, req)
}
func (m *mockDiscussionService) UpdateDiscussion(ctx context.Context, req *services.UpdateDiscussionRequest) (*models.Discussion, error) {
	return nil, nil
}
func (m *mockDiscussionService) DeleteDiscussion(ctx context.Context, req *services.DeleteDiscussionRequest) error {
	return nil
}
func (m *mockDiscussionService) TogglePin(ctx context.Context, req *services.ModerateDiscussionRequest) (bool, error) {
	return m.pinFn(ctx, req)
}
func (m *mockDiscussionService) ToggleLock(ctx context.Context, req *services.ModerateDiscussionRequest) (bool, error) {
	return false, nil
}
func (m *mockDiscussionService) GetStats(ctx context.Context) (*models.DiscussionStats, error) {
	return &models.DiscussionStats{}, nil
}
func (m *mockDiscussionService) GetCategories(ctx context.Context) []string {
	return models.DiscussionCategories
}
func (m *mockDiscussionService) GetPopularTags(ctx context.Context) ([]string, error) {
	return []string{"go"}, nil
}

func newTestRouter(service services.DiscussionService) http.Handler {
	logger := zap.NewNop()
	ctrl := NewDiscussionController(service, logger, response.NewWriter(logger))

	r := chi.NewRouter()
	r.Get("/discussions", ctrl.ListDiscussions)
	r.Get("/discussions/{id}", ctrl.GetDiscussion)
	r.Post("/discussions", ctrl.CreateDiscussion)
	r.Patch("/discussions/{id}/pin", ctrl.TogglePin)
	r.Get("/categories", ctrl.GetCategories)
	return r
}

func TestListDiscussionsParsesQuery(t *testing.T) {
	var captured *services.ListDiscussionsRequest
	service := &mockDiscussionService{
		listFn: func(ctx context.Context, req *services.ListDiscussionsRequest) (*services.DiscussionListResult, error) {
			captured = req
			return &services.DiscussionListResult{
				Discussions: []*models.Discussion{},
				Pagination:  services.NewPagination(2, 5, 0),
			}, nil
		},
	}

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/discussions?search=chan&category=Programming&tags=go,concurrency&sort=views&unanswered=true&page=2&limit=5", nil)
	newTestRouter(service).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, captured)
	assert.Equal(t, "chan", captured.Search)
	assert.Equal(t, "Programming", captured.Category)
	assert.Equal(t, []string{"go", "concurrency"}, captured.Tags)
	assert.Equal(t, "views", captured.Sort)
	assert.True(t, captured.Unanswered)
	assert.Equal(t, 2, captured.Page)
	assert.Equal(t, 5, captured.Limit)

	var body struct {
		Discussions []json.RawMessage `json:"discussions"`
		Pagination  struct {
			Current int   `json:"current"`
			Pages   int   `json:"pages"`
			Total   int64 `json:"total"`
			Limit   int   `json:"limit"`
		} `json:"pagination"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 2, body.Pagination.Current)
	assert.Equal(t, 5, body.Pagination.Limit)
}

func TestGetDiscussionNotFound(t *testing.T) {
	service := &mockDiscussionService{
		getFn: func(ctx context.Context, id string) (*services.DiscussionDetailResult, error) {
			return nil, services.NewNotFoundError("discussion not found")
		},
	}

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/discussions/"+primitive.NewObjectID().Hex(), nil)
	newTestRouter(service).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"discussion not found"}`, rec.Body.String())
}

func TestCreateDiscussionRequiresAuth(t *testing.T) {
	service := &mockDiscussionService{
		createFn: func(ctx context.Context, req *services.CreateDiscussionRequest) (*models.Discussion, error) {
			t.Fatal("service must not be called without auth")
			return nil, nil
		},
	}

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/discussions", strings.NewReader(`{"title":"x"}`))
	newTestRouter(service).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCreateDiscussionSuccess(t *testing.T) {
	userID := primitive.NewObjectID()
	service := &mockDiscussionService{
		createFn: func(ctx context.Context, req *services.CreateDiscussionRequest) (*models.Discussion, error) {
			assert.Equal(t, userID, req.UserID)
			return &models.Discussion{
				ID:    primitive.NewObjectID(),
				Title: req.Title,
				Slug:  "how-do-channels-work",
			}, nil
		},
	}

	body := `{"title":"How do channels work?","content":"...","course":"abc","category":"Programming"}`
	req := httptest.NewRequest(http.MethodPost, "/discussions", strings.NewReader(body))
	req = req.WithContext(middleware.WithAuthContext(req.Context(), &middleware.AuthContext{
		UserID: userID,
		Role:   models.RoleStudent,
	}))
	rec := httptest.NewRecorder()
	newTestRouter(service).ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	var created models.Discussion
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, "how-do-channels-work", created.Slug)
}

func TestTogglePinMessage(t *testing.T) {
	service := &mockDiscussionService{
		pinFn: func(ctx context.Context, req *services.ModerateDiscussionRequest) (bool, error) {
			return true, nil
		},
	}

	req := httptest.NewRequest(http.MethodPatch, "/discussions/"+primitive.NewObjectID().Hex()+"/pin", nil)
	req = req.WithContext(middleware.WithAuthContext(req.Context(), &middleware.AuthContext{
		UserID: primitive.NewObjectID(),
		Role:   models.RoleInstructor,
	}))
	rec := httptest.NewRecorder()
	newTestRouter(service).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"Discussion pinned"}`, rec.Body.String())
}

func TestGetCategories(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/categories", nil)
	newTestRouter(&mockDiscussionService{}).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `["Programming","Web Design","Career","General"]`, rec.Body.String())
}
