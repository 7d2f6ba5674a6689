// file: internal/services/propagator.go
package services

import (
	"context"
	"time"

	"coursehub/internal/repositories"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Propagator keeps the denormalized discussion counters and flags in step
// with reply writes. It runs synchronously after the reply write as a
// separate update: a crash in between leaves the counters stale until the
// next write, which is the accepted trade for skipping multi-document
// transactions.
type Propagator struct {
	discussionRepo repositories.DiscussionRepository
	logger         *zap.Logger
}

// NewPropagator creates a new consistency propagator
func NewPropagator(discussionRepo repositories.DiscussionRepository, logger *zap.Logger) *Propagator {
	return &Propagator{discussionRepo: discussionRepo, logger: logger}
}

// ReplyCreated bumps the parent's reply count and activity timestamp. An
// instructor author additionally sets hasInstructorReply; the flag is sticky
// and never cleared by later deletions.
//
// Failures are logged, not returned: the reply is already persisted and the
// counters catch up on the next successful propagation.
func (p *Propagator) ReplyCreated(ctx context.Context, discussionID primitive.ObjectID, byInstructor bool) {
	now := time.Now()
	if err := p.discussionRepo.IncrementReplies(ctx, discussionID, 1, &now); err != nil {
		p.logger.Error("Failed to propagate reply creation",
			zap.String("discussion_id", discussionID.Hex()),
			zap.Error(err),
		)
		return
	}
	if byInstructor {
		if err := p.discussionRepo.MarkInstructorReply(ctx, discussionID); err != nil {
			p.logger.Error("Failed to flag instructor reply",
				zap.String("discussion_id", discussionID.Hex()),
				zap.Error(err),
			)
		}
	}
}

// RepliesDeleted decrements the parent's reply count by the number of
// documents removed, cascaded children included. It does not touch
// lastActivity.
func (p *Propagator) RepliesDeleted(ctx context.Context, discussionID primitive.ObjectID, count int64) {
	if count <= 0 {
		return
	}
	if err := p.discussionRepo.IncrementReplies(ctx, discussionID, -count, nil); err != nil {
		p.logger.Error("Failed to propagate reply deletion",
			zap.String("discussion_id", discussionID.Hex()),
			zap.Int64("count", count),
			zap.Error(err),
		)
	}
}
