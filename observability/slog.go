package observability

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"
)

// SlogObserver writes events to a slog.Logger with the event type as the
// message. Search events are condensed to route, outcome and effort;
// other events log their Data keys in sorted order.
type SlogObserver struct {
	logger *slog.Logger
}

// NewSlogObserver creates a SlogObserver. A nil logger means slog.Default().
func NewSlogObserver(logger *slog.Logger) *SlogObserver {
	if logger == nil {
		logger = slog.Default()
	}
	return &SlogObserver{logger: logger}
}

func (o *SlogObserver) OnEvent(ctx context.Context, event Event) {
	level := event.Level.SlogLevel()
	if !o.logger.Enabled(ctx, level) {
		return
	}

	var attrs []slog.Attr
	if event.Type == EventSearchComplete {
		attrs = searchAttrs(event.Data)
	} else {
		attrs = dataAttrs(event.Data)
	}
	attrs = append(attrs, slog.String("source", event.Source))

	o.logger.LogAttrs(ctx, level, string(event.Type), attrs...)
}

// searchAttrs renders a search as route=(1,1)->(5,5), outcome (found or
// the failure reason), steps and cost when found, expanded=n/budget and
// duration.
func searchAttrs(data map[string]any) []slog.Attr {
	start, _ := data["start"].(string)
	goal, _ := data["goal"].(string)
	attrs := []slog.Attr{slog.String("route", start+"->"+goal)}

	if found, _ := data["found"].(bool); found {
		cost, _ := data["cost"].(float64)
		attrs = append(attrs,
			slog.String("outcome", "found"),
			slog.Int("steps", intValue(data["path_length"])),
			slog.String("cost", fmt.Sprintf("%.5f", cost)))
	} else {
		reason, _ := data["reason"].(string)
		attrs = append(attrs, slog.String("outcome", reason))
	}

	attrs = append(attrs, slog.String("expanded",
		fmt.Sprintf("%d/%d", intValue(data["expanded"]), intValue(data["budget"]))))
	if d, ok := data["duration"].(time.Duration); ok {
		attrs = append(attrs, slog.Duration("duration", d))
	}
	return attrs
}

func dataAttrs(data map[string]any) []slog.Attr {
	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	attrs := make([]slog.Attr, 0, len(keys)+1)
	for _, k := range keys {
		attrs = append(attrs, slog.Any(k, data[k]))
	}
	return attrs
}

func intValue(v any) int {
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	}
	return 0
}
