package queue

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/bookhaven/library-api/internal/core/domain"
)

type recordingUserRepo struct {
	calls chan struct {
		userID   string
		tenantID string
		at       time.Time
	}
}

func (r *recordingUserRepo) FindByID(context.Context, string, string) (*domain.User, error) {
	return nil, domain.ErrUserNotFound
}
func (r *recordingUserRepo) FindByUsername(context.Context, string, string) (*domain.User, error) {
	return nil, domain.ErrUserNotFound
}
func (r *recordingUserRepo) ListByTenant(context.Context, string) ([]*domain.User, error) {
	return nil, nil
}
func (r *recordingUserRepo) Create(_ context.Context, u *domain.User) (*domain.User, error) {
	return u, nil
}
func (r *recordingUserRepo) Update(_ context.Context, u *domain.User) (*domain.User, error) {
	return u, nil
}
func (r *recordingUserRepo) Delete(context.Context, string, string) error { return nil }
func (r *recordingUserRepo) UpdatePasswordHash(context.Context, string, string, string) error {
	return nil
}

func (r *recordingUserRepo) TouchLastLogin(_ context.Context, userID, tenantID string, at time.Time) error {
	r.calls <- struct {
		userID   string
		tenantID string
		at       time.Time
	}{userID, tenantID, at}
	return nil
}

func TestLastLoginDispatcher_WritesRecord(t *testing.T) {
	repo := &recordingUserRepo{calls: make(chan struct {
		userID   string
		tenantID string
		at       time.Time
	}, 10)}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	d := NewLastLoginDispatcher(2, repo, zerolog.Nop())
	d.Start(ctx)

	at := time.Now().UTC()
	d.Record("u1", "t1", at)

	select {
	case call := <-repo.calls:
		if call.userID != "u1" || call.tenantID != "t1" {
			t.Errorf("unexpected call: %+v", call)
		}
		if !call.at.Equal(at) {
			t.Errorf("timestamp: want %v, got %v", at, call.at)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for last-login write")
	}
}

func TestLastLoginDispatcher_SameUserSameWorker(t *testing.T) {
	d := NewLastLoginDispatcher(8, &recordingUserRepo{calls: make(chan struct {
		userID   string
		tenantID string
		at       time.Time
	}, 1)}, zerolog.Nop())

	first := d.shardIndex("user_abc")
	for i := 0; i < 10; i++ {
		if got := d.shardIndex("user_abc"); got != first {
			t.Fatalf("shard index not deterministic: %d vs %d", got, first)
		}
	}
}
