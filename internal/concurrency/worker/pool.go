package worker

import (
	"context"
	"log/slog"
	"sync"

	"marketdash/internal/domain/model"
	"marketdash/internal/domain/port"
)

// Pool пишет батчи арбитражных сигналов в хранилище, чтобы медленная запись
// в Postgres не блокировала обработку фреймов.
type Pool struct {
	workers int
	storage port.StoragePort
	logger  *slog.Logger
}

func NewPool(workers int, storage port.StoragePort, logger *slog.Logger) *Pool {
	if workers <= 0 {
		workers = 1
	}
	return &Pool{
		workers: workers,
		storage: storage,
		logger:  logger,
	}
}

// Start запускает воркеры и возвращает функцию ожидания их завершения.
// Воркеры останавливаются, когда канал in закрыт или контекст отменён.
func (p *Pool) Start(ctx context.Context, in <-chan []model.Opportunity) func() {
	var wg sync.WaitGroup

	wg.Add(p.workers)
	for i := 0; i < p.workers; i++ {
		go func(id int) {
			defer wg.Done()
			p.workerLoop(ctx, id, in)
		}(i)
	}

	return wg.Wait
}

func (p *Pool) workerLoop(ctx context.Context, id int, in <-chan []model.Opportunity) {
	for {
		select {
		case <-ctx.Done():
			return
		case batch, ok := <-in:
			if !ok {
				return
			}
			if err := p.storage.SaveOpportunities(ctx, batch); err != nil {
				p.logger.Error("worker: failed to save opportunity batch", "worker", id, "count", len(batch), "err", err)
				continue
			}
			p.logger.Debug("worker: opportunity batch saved", "worker", id, "count", len(batch))
		}
	}
}
