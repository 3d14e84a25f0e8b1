package agent

import (
	"context"
	"time"

	"github.com/wricardo/tilenav/world/nav"
)

// DefaultSpeed is the agent speed in world units per second.
const DefaultSpeed = 1.5

// Step describes one waypoint reached by a mover.
type Step struct {
	Index    int           `json:"index"`
	From     nav.Position  `json:"from"`
	To       nav.Position  `json:"to"`
	Duration time.Duration `json:"duration"`
}

// Mover consumes an ordered list of waypoints starting from a position.
// It returns the last position reached, which is from when nothing moved.
type Mover interface {
	Follow(ctx context.Context, from nav.Position, waypoints []nav.Position) (nav.Position, error)
}

// GridMover walks waypoints cell center to cell center at a fixed speed.
// By default it moves instantly and only reports the travel time each step
// would take; WithRealtime makes it wait that long.
type GridMover struct {
	translator Translator
	speed      float64
	realtime   bool
	onStep     func(Step)
}

// MoverOption configures a GridMover.
type MoverOption func(*GridMover)

// WithSpeed sets the speed in world units per second. Non-positive values
// keep DefaultSpeed.
func WithSpeed(speed float64) MoverOption {
	return func(m *GridMover) {
		if speed > 0 {
			m.speed = speed
		}
	}
}

// WithRealtime makes Follow sleep for each step's travel time.
func WithRealtime(enabled bool) MoverOption {
	return func(m *GridMover) { m.realtime = enabled }
}

// WithStepHandler is called after every waypoint is reached.
func WithStepHandler(fn func(Step)) MoverOption {
	return func(m *GridMover) { m.onStep = fn }
}

// NewGridMover creates a mover using translator for cell geometry.
func NewGridMover(translator Translator, opts ...MoverOption) *GridMover {
	m := &GridMover{
		translator: translator,
		speed:      DefaultSpeed,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Follow moves through waypoints in order. Cancellation is checked
// between steps and stops the agent on the last cell it reached.
func (m *GridMover) Follow(ctx context.Context, from nav.Position, waypoints []nav.Position) (nav.Position, error) {
	current := from
	for i, next := range waypoints {
		if err := ctx.Err(); err != nil {
			return current, err
		}

		distance := Distance(m.translator.CellCenter(current), m.translator.CellCenter(next))
		duration := time.Duration(distance / m.speed * float64(time.Second))

		if m.realtime && duration > 0 {
			timer := time.NewTimer(duration)
			select {
			case <-ctx.Done():
				timer.Stop()
				return current, ctx.Err()
			case <-timer.C:
			}
		}

		step := Step{Index: i, From: current, To: next, Duration: duration}
		current = next
		if m.onStep != nil {
			m.onStep(step)
		}
	}
	return current, nil
}
