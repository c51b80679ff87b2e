package port

import (
	"context"

	"marketdash/internal/domain/model"
)

// StreamPort определяет интерфейс источника фреймов (живой стрим или генератор).
type StreamPort interface {
	Connect(ctx context.Context) error
	ReadFrames(ctx context.Context) (<-chan model.StreamFrame, <-chan error)
	Close() error
	Name() string
}
