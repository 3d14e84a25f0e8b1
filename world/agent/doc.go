// Package agent connects path search to something that moves.
//
// A Translator converts between continuous world coordinates and grid
// cells, a Mover consumes the waypoints of a found path, and a Navigator
// wires the two around a path finder. None of these types search; they
// only hand positions to nav.PathFinder and act on its result.
//
// Usage:
//
//	translator := agent.NewTileTranslator(1.0, agent.Point{})
//	mover := agent.NewGridMover(translator, agent.WithStepHandler(onStep))
//	navigator := agent.NewNavigator(translator, finder, mover, logger)
//
//	outcome, err := navigator.NavigateToPoint(ctx, current, agent.Point{X: 4.2, Y: 7.9})
package agent
