package port

import "context"

// AnalyzerStatus mirrors the remote analyzer API's per-analyzer state.
type AnalyzerStatus struct {
	Status          string `json:"status"`
	IsPaused        bool   `json:"is_paused"`
	AnalyzerRunning bool   `json:"analyzer_running"`
	StreamersCount  int    `json:"streamers_count"`
}

// AnalyzerPort is the remote pause/resume/status API the dashboard proxies.
type AnalyzerPort interface {
	Status(ctx context.Context) (map[string]AnalyzerStatus, error)
	Pause(ctx context.Context) (map[string]AnalyzerStatus, error)
	Resume(ctx context.Context) (map[string]AnalyzerStatus, error)
}
