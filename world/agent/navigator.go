package agent

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/wricardo/tilenav/world/nav"
)

// Finder is the search capability a Navigator needs. *nav.PathFinder
// satisfies it.
type Finder interface {
	Search(start, goal nav.Position, overrides ...nav.Option) nav.Result
}

// Outcome is the result of one navigation request.
type Outcome struct {
	Goal    nav.Position `json:"goal"`
	Result  nav.Result   `json:"result"`
	Reached nav.Position `json:"reached"`
	Moved   bool         `json:"moved"`
}

// Navigator asks the finder for a path and hands it to the mover.
type Navigator struct {
	translator Translator
	finder     Finder
	mover      Mover
	logger     *slog.Logger
}

// NewNavigator wires the ports together. A nil logger uses slog.Default.
func NewNavigator(translator Translator, finder Finder, mover Mover, logger *slog.Logger) *Navigator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Navigator{
		translator: translator,
		finder:     finder,
		mover:      mover,
		logger:     logger,
	}
}

// NavigateToPoint resolves target to a cell and navigates there.
func (n *Navigator) NavigateToPoint(ctx context.Context, from nav.Position, target Point, opts ...nav.Option) (Outcome, error) {
	return n.NavigateTo(ctx, from, n.translator.WorldToCell(target), opts...)
}

// NavigateTo searches from the agent's cell to goal and, when a path is
// found, follows it. A failed search leaves the agent where it was and is
// reported through Outcome.Result, not as an error.
func (n *Navigator) NavigateTo(ctx context.Context, from, goal nav.Position, opts ...nav.Option) (Outcome, error) {
	outcome := Outcome{Goal: goal, Reached: from}

	result := n.finder.Search(from, goal, opts...)
	outcome.Result = result
	if !result.Found {
		n.logger.Debug("navigation search failed",
			"from", from.String(),
			"goal", goal.String(),
			"reason", string(result.Reason))
		return outcome, nil
	}

	reached, err := n.mover.Follow(ctx, from, result.Path)
	outcome.Reached = reached
	outcome.Moved = reached != from
	if err != nil {
		return outcome, fmt.Errorf("agent stopped at %s: %w", reached, err)
	}

	n.logger.Debug("navigation complete",
		"from", from.String(),
		"goal", goal.String(),
		"steps", len(result.Path))
	return outcome, nil
}
