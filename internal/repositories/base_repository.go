// file: internal/repositories/base_repository.go
package repositories

import (
	"errors"
	"time"

	"coursehub/internal/database"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// BaseRepository provides the shared database handle and operation logging
// used by all repositories.
type BaseRepository struct {
	db     *database.Manager
	logger *zap.Logger
}

// NewBaseRepository creates a new base repository
func NewBaseRepository(db *database.Manager, logger *zap.Logger) *BaseRepository {
	return &BaseRepository{db: db, logger: logger}
}

// Collection returns a handle to the named collection.
func (r *BaseRepository) Collection(name string) *mongo.Collection {
	return r.db.Collection(name)
}

// observe logs slow and failed operations. Deferred with the operation start
// time and a pointer to the named error result:
//
//	defer r.observe("discussions.list", time.Now(), &err)
func (r *BaseRepository) observe(op string, start time.Time, errp *error) {
	duration := time.Since(start)
	if duration > r.db.SlowOpThreshold() {
		r.logger.Warn("Slow database operation",
			zap.String("op", op),
			zap.Duration("duration", duration),
		)
	}
	if err := *errp; err != nil && !IsNotFound(err) {
		r.logger.Error("Database operation failed",
			zap.String("op", op),
			zap.Error(err),
		)
	}
}

// IsNotFound reports whether err means no matching document.
func IsNotFound(err error) bool {
	return errors.Is(err, mongo.ErrNoDocuments)
}

// IsDuplicateKey reports whether err is a unique-index violation.
func IsDuplicateKey(err error) bool {
	return mongo.IsDuplicateKeyError(err)
}

// normalizePage clamps pagination inputs to sane bounds.
func normalizePage(page, limit, defaultLimit, maxLimit int) (int, int) {
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
