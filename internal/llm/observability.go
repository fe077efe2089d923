package llm

import (
	"io"
	"log/slog"
)

// CallEvent records one LLM invocation.
type CallEvent struct {
	Task      TaskType
	Model     string
	LatencyMs int64
	Attempts  int
	Success   bool
	ErrorCode string
}

// Observer receives LLM call events.
type Observer interface {
	OnCallComplete(event CallEvent)
}

type logObserver struct {
	logger *slog.Logger
}

// NewLogObserver writes one llm_call line per call to w.
func NewLogObserver(w io.Writer) Observer {
	if w == nil {
		return NoopObserver{}
	}
	return &logObserver{logger: slog.New(slog.NewTextHandler(w, nil))}
}

func (o *logObserver) OnCallComplete(e CallEvent) {
	attrs := []any{
		"task", e.Task,
		"model", e.Model,
		"latency_ms", e.LatencyMs,
		"attempts", e.Attempts,
	}
	if !e.Success {
		o.logger.Warn("llm_call", append(attrs, "error_code", e.ErrorCode)...)
		return
	}
	o.logger.Info("llm_call", attrs...)
}

type NoopObserver struct{}

func (NoopObserver) OnCallComplete(CallEvent) {}
