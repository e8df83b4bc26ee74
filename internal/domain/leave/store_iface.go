package leave

import (
	"context"
	"time"
)

type StoreAPI interface {
	Create(ctx context.Context, userID, leaveType string, start, end time.Time, reason string) (Request, error)
	Get(ctx context.Context, requestID string) (Request, error)
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]Request, error)
	ListAll(ctx context.Context, limit, offset int) ([]Request, error)
	Decide(ctx context.Context, requestID, status, decidedBy string) (Request, error)
}
