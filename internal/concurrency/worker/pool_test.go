package worker

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketdash/internal/domain/model"
)

type fakeStorage struct {
	mu      sync.Mutex
	batches [][]model.Opportunity
}

func (f *fakeStorage) SaveOpportunities(ctx context.Context, opps []model.Opportunity) error {
	f.mu.Lock()
	f.batches = append(f.batches, opps)
	f.mu.Unlock()
	return nil
}

func (f *fakeStorage) GetRecentOpportunities(ctx context.Context, kind model.OpportunityKind, limit int) ([]model.Opportunity, error) {
	return nil, nil
}

func (f *fakeStorage) Ping(ctx context.Context) error { return nil }

func (f *fakeStorage) Close() error { return nil }

func (f *fakeStorage) saved() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.batches)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestPool(t *testing.T) {
	t.Run("SavesBatches", func(t *testing.T) {
		st := &fakeStorage{}
		in := make(chan []model.Opportunity)
		wait := NewPool(2, st, testLogger()).Start(context.Background(), in)

		for i := 0; i < 5; i++ {
			in <- []model.Opportunity{{Kind: model.OpportunityUnknown}}
		}
		close(in)
		wait()

		assert.Equal(t, 5, st.saved())
	})

	t.Run("StopsOnContextCancelAlone", func(t *testing.T) {
		// The channel is never closed; cancellation must release the workers.
		st := &fakeStorage{}
		ctx, cancel := context.WithCancel(context.Background())
		in := make(chan []model.Opportunity)
		wait := NewPool(2, st, testLogger()).Start(ctx, in)

		cancel()

		done := make(chan struct{})
		go func() {
			wait()
			close(done)
		}()
		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatal("workers did not stop on context cancel")
		}
	})

	t.Run("AtLeastOneWorker", func(t *testing.T) {
		st := &fakeStorage{}
		in := make(chan []model.Opportunity)
		wait := NewPool(0, st, testLogger()).Start(context.Background(), in)

		in <- []model.Opportunity{{Kind: model.OpportunityUnknown}}
		close(in)
		wait()

		require.Equal(t, 1, st.saved())
	})
}
