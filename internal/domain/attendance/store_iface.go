package attendance

import "context"

type StoreAPI interface {
	Insert(ctx context.Context, userID, eventType string, latitude, longitude float64) (Event, error)
	LatestCheckin(ctx context.Context, userID string) (Event, error)
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]Event, error)
	ListAll(ctx context.Context, limit, offset int) ([]Event, error)
	CountByUser(ctx context.Context, userID string) (int, error)
}
