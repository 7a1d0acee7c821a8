package service

import (
	"context"
	"io"
	"log/slog"
	"sort"
	"time"
)

// UseCaseEvent describes one finished service call. ProjectID is empty for
// calls that are not tied to a stored project yet, such as a failed import.
type UseCaseEvent struct {
	Name      string
	ProjectID string
	StartedAt time.Time
	Duration  time.Duration
	Success   bool
	Err       error
	Fields    map[string]any
}

// UseCaseObserver receives use-case execution events.
type UseCaseObserver interface {
	ObserveUseCase(ctx context.Context, event UseCaseEvent)
}

// NoopUseCaseObserver ignores all events.
type NoopUseCaseObserver struct{}

func (NoopUseCaseObserver) ObserveUseCase(context.Context, UseCaseEvent) {}

// fanOut delivers each event to every observer in order.
type fanOut []UseCaseObserver

func (f fanOut) ObserveUseCase(ctx context.Context, event UseCaseEvent) {
	for _, obs := range f {
		obs.ObserveUseCase(ctx, event)
	}
}

// combineObservers drops nil entries and returns a single observer.
func combineObservers(observers []UseCaseObserver) UseCaseObserver {
	var live fanOut
	for _, obs := range observers {
		if obs != nil {
			live = append(live, obs)
		}
	}
	switch len(live) {
	case 0:
		return NoopUseCaseObserver{}
	case 1:
		return live[0]
	}
	return live
}

// useCaseRun times one service call and reports it on finish.
type useCaseRun struct {
	observer  UseCaseObserver
	name      string
	projectID string
	startedAt time.Time
	fields    map[string]any
}

func startUseCase(observer UseCaseObserver, name, projectID string, fields map[string]any) *useCaseRun {
	if fields == nil {
		fields = map[string]any{}
	}
	return &useCaseRun{
		observer:  observer,
		name:      name,
		projectID: projectID,
		startedAt: time.Now().UTC(),
		fields:    fields,
	}
}

func (r *useCaseRun) set(key string, value any) { r.fields[key] = value }

func (r *useCaseRun) finish(ctx context.Context, err error) {
	r.observer.ObserveUseCase(ctx, UseCaseEvent{
		Name:      r.name,
		ProjectID: r.projectID,
		StartedAt: r.startedAt,
		Duration:  time.Since(r.startedAt),
		Success:   err == nil,
		Err:       err,
		Fields:    r.fields,
	})
}

type logUseCaseObserver struct {
	logger *slog.Logger
}

// NewLogUseCaseObserver writes one logfmt line per service call to w.
// Failed calls are logged at error level.
func NewLogUseCaseObserver(w io.Writer) UseCaseObserver {
	if w == nil {
		return NoopUseCaseObserver{}
	}
	return &logUseCaseObserver{
		logger: slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo})),
	}
}

func (o *logUseCaseObserver) ObserveUseCase(ctx context.Context, event UseCaseEvent) {
	attrs := make([]slog.Attr, 0, 5+len(event.Fields))
	attrs = append(attrs, slog.String("use_case", event.Name))
	if event.ProjectID != "" {
		attrs = append(attrs, slog.String("project_id", event.ProjectID))
	}
	attrs = append(attrs,
		slog.Int64("duration_ms", event.Duration.Milliseconds()),
		slog.Bool("success", event.Success),
	)

	keys := make([]string, 0, len(event.Fields))
	for k := range event.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		attrs = append(attrs, slog.Any(k, event.Fields[k]))
	}

	level := slog.LevelInfo
	if event.Err != nil {
		level = slog.LevelError
		attrs = append(attrs, slog.String("error", event.Err.Error()))
	}
	o.logger.LogAttrs(ctx, level, "use case", attrs...)
}
