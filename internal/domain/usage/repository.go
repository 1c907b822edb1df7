package usage

import (
	"context"
	"time"
)

// Repository is the server-side store for canonical rows, keyed by aircraft
// serial. Implemented by the stub server's SQLite store; the production
// backend is an external system and never touches this interface.
type Repository interface {
	ListBySerial(ctx context.Context, serial string) ([]Row, error)
	Create(ctx context.Context, serial string, d Draft) (Row, error)
	Get(ctx context.Context, id int64) (Row, error)
	// Update persists the patch only if the stored updated_at still equals
	// lastSeen; otherwise it returns ErrStaleWrite.
	Update(ctx context.Context, id int64, p Patch, lastSeen time.Time) (Row, error)
}
