// file: internal/repositories/user_repository.go
package repositories

import (
	"context"
	"time"

	"coursehub/internal/database"
	"coursehub/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type userRepository struct {
	*BaseRepository
}

// NewUserRepository creates a read-only repository over user records
func NewUserRepository(db *database.Manager, logger *zap.Logger) UserRepository {
	return &userRepository{BaseRepository: NewBaseRepository(db, logger)}
}

func (r *userRepository) GetByID(ctx context.Context, id primitive.ObjectID) (user *models.User, err error) {
	defer r.observe("users.get", time.Now(), &err)

	user = &models.User{}
	err = r.Collection(database.CollUsers).FindOne(ctx, bson.M{"_id": id}).Decode(user)
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (r *userRepository) GetSummaries(ctx context.Context, ids []primitive.ObjectID) (summaries map[primitive.ObjectID]*models.UserSummary, err error) {
	defer r.observe("users.summaries", time.Now(), &err)

	return loadUserSummaries(ctx, r.Collection(database.CollUsers), ids)
}
