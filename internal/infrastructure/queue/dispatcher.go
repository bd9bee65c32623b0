package queue

import (
	"context"
	"hash/fnv"
	"time"

	"github.com/rs/zerolog"

	"github.com/bookhaven/library-api/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
)

type lastLogin struct {
	userID   string
	tenantID string
	at       time.Time
}

// LastLoginDispatcher persists authentication timestamps off the request path.
// Records are routed to a fixed set of workers by consistent hashing on the
// user id, so writes for the same user are applied in order.
type LastLoginDispatcher struct {
	workers []chan lastLogin
	users   ports.UserRepository
	log     zerolog.Logger
}

// NewLastLoginDispatcher creates a dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewLastLoginDispatcher(numWorkers int, users ports.UserRepository, log zerolog.Logger) *LastLoginDispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &LastLoginDispatcher{
		workers: make([]chan lastLogin, numWorkers),
		users:   users,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan lastLogin, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *LastLoginDispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// Record enqueues a timestamp write for the worker owning the user id. When
// the worker's buffer is full the record is dropped; last-login tracking is
// best effort and must never block a request.
func (d *LastLoginDispatcher) Record(userID, tenantID string, at time.Time) {
	select {
	case d.workers[d.shardIndex(userID)] <- lastLogin{userID: userID, tenantID: tenantID, at: at}:
	default:
		d.log.Warn().Str("user_id", userID).Msg("last-login buffer full, dropping record")
	}
}

// shardIndex maps a user id deterministically to a worker index.
func (d *LastLoginDispatcher) shardIndex(userID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(userID))
	return int(h.Sum32()) % len(d.workers)
}

func (d *LastLoginDispatcher) runWorker(ctx context.Context, id int, ch <-chan lastLogin) {
	for {
		select {
		case <-ctx.Done():
			return
		case rec, ok := <-ch:
			if !ok {
				return
			}
			if err := d.users.TouchLastLogin(ctx, rec.userID, rec.tenantID, rec.at); err != nil {
				d.log.Error().Err(err).
					Str("user_id", rec.userID).
					Int("worker_id", id).
					Msg("last-login write failed")
			}
		}
	}
}
