package agent

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/wricardo/tilenav/world/nav"
)

func openGrid(width, height int) *nav.Grid {
	grid := nav.NewGrid()
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			grid.Set(nav.Position{X: x, Y: y}, nav.Cell{Walkable: true, MovementCost: 1})
		}
	}
	return grid
}

// recordingMover remembers the waypoints it was given.
type recordingMover struct {
	calls     int
	waypoints []nav.Position
	err       error
}

func (m *recordingMover) Follow(ctx context.Context, from nav.Position, waypoints []nav.Position) (nav.Position, error) {
	m.calls++
	m.waypoints = waypoints
	if m.err != nil {
		return from, m.err
	}
	if len(waypoints) == 0 {
		return from, nil
	}
	return waypoints[len(waypoints)-1], nil
}

func TestGridMoverFollow(t *testing.T) {
	var steps []Step
	mover := NewGridMover(NewTileTranslator(1, Point{}),
		WithSpeed(2),
		WithStepHandler(func(s Step) { steps = append(steps, s) }))

	path := []nav.Position{{X: 1, Y: 0}, {X: 2, Y: 1}}
	reached, err := mover.Follow(context.Background(), nav.Position{}, path)
	if err != nil {
		t.Fatalf("Follow failed: %v", err)
	}
	if reached != (nav.Position{X: 2, Y: 1}) {
		t.Errorf("expected to reach (2,1), got %s", reached)
	}
	if len(steps) != 2 {
		t.Fatalf("expected 2 steps, got %d", len(steps))
	}
	if steps[0].From != (nav.Position{}) || steps[0].To != path[0] {
		t.Errorf("unexpected first step %+v", steps[0])
	}
	if steps[0].Duration != 500*time.Millisecond {
		t.Errorf("expected 500ms cardinal step at speed 2, got %v", steps[0].Duration)
	}
	if steps[1].Duration <= steps[0].Duration {
		t.Errorf("expected diagonal step to take longer, got %v", steps[1].Duration)
	}
}

func TestGridMoverCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	mover := NewGridMover(NewTileTranslator(1, Point{}))
	reached, err := mover.Follow(ctx, nav.Position{}, []nav.Position{{X: 1, Y: 0}})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if reached != (nav.Position{}) {
		t.Errorf("expected agent to stay put, got %s", reached)
	}
}

func TestGridMoverRealtimeCancellation(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	// One cell per 10 seconds, so the first step can never finish
	mover := NewGridMover(NewTileTranslator(1, Point{}), WithSpeed(0.1), WithRealtime(true))
	start := time.Now()
	reached, err := mover.Follow(ctx, nav.Position{}, []nav.Position{{X: 1, Y: 0}})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected deadline exceeded, got %v", err)
	}
	if reached != (nav.Position{}) {
		t.Errorf("expected agent to stay put, got %s", reached)
	}
	if time.Since(start) > 2*time.Second {
		t.Error("realtime mover ignored cancellation")
	}
}

func TestNavigatorNavigateTo(t *testing.T) {
	translator := NewTileTranslator(1, Point{})
	finder := nav.NewPathFinder(openGrid(3, 3))
	mover := &recordingMover{}
	navigator := NewNavigator(translator, finder, mover, nil)

	outcome, err := navigator.NavigateTo(context.Background(), nav.Position{}, nav.Position{X: 2, Y: 2})
	if err != nil {
		t.Fatalf("NavigateTo failed: %v", err)
	}
	if !outcome.Result.Found || !outcome.Moved {
		t.Fatalf("expected found and moved, got %+v", outcome)
	}
	if outcome.Reached != (nav.Position{X: 2, Y: 2}) {
		t.Errorf("expected to reach goal, got %s", outcome.Reached)
	}
	if !reflect.DeepEqual(mover.waypoints, outcome.Result.Path) {
		t.Errorf("mover got %v, path was %v", mover.waypoints, outcome.Result.Path)
	}
}

func TestNavigatorFailedSearchDoesNotMove(t *testing.T) {
	mover := &recordingMover{}
	navigator := NewNavigator(NewTileTranslator(1, Point{}), nav.NewPathFinder(openGrid(2, 2)), mover, nil)

	outcome, err := navigator.NavigateTo(context.Background(), nav.Position{}, nav.Position{X: 5, Y: 5})
	if err != nil {
		t.Fatalf("failed search must not be an error, got %v", err)
	}
	if outcome.Result.Reason != nav.ReasonGoalNotFound {
		t.Errorf("expected goal not found, got %q", outcome.Result.Reason)
	}
	if mover.calls != 0 {
		t.Error("mover must not run when no path was found")
	}
	if outcome.Moved || outcome.Reached != (nav.Position{}) {
		t.Errorf("expected agent to stay put, got %+v", outcome)
	}
}

func TestNavigatorMoverError(t *testing.T) {
	mover := &recordingMover{err: context.Canceled}
	navigator := NewNavigator(NewTileTranslator(1, Point{}), nav.NewPathFinder(openGrid(3, 1)), mover, nil)

	_, err := navigator.NavigateTo(context.Background(), nav.Position{}, nav.Position{X: 2, Y: 0})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected wrapped mover error, got %v", err)
	}
}

func TestNavigatorNavigateToPoint(t *testing.T) {
	mover := &recordingMover{}
	navigator := NewNavigator(NewTileTranslator(2, Point{}), nav.NewPathFinder(openGrid(4, 4)), mover, nil)

	outcome, err := navigator.NavigateToPoint(context.Background(), nav.Position{}, Point{X: 7.9, Y: 0.1})
	if err != nil {
		t.Fatalf("NavigateToPoint failed: %v", err)
	}
	if outcome.Goal != (nav.Position{X: 3, Y: 0}) {
		t.Errorf("expected goal (3,0), got %s", outcome.Goal)
	}
	if outcome.Reached != outcome.Goal {
		t.Errorf("expected to reach goal, got %s", outcome.Reached)
	}
}
