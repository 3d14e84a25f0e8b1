// Package service holds the navigation business operations shared by the
// REST API, the MCP tools and the CLI.
//
// NavService owns the rules around a session: which map it was built
// from, where its agent stands, how walkability toggles apply and what
// each path query recorded. Storage and map loading are injected through
// the SessionManager and MapManager interfaces, implemented by the
// world/session and world/config packages.
//
// Errors that callers should be able to classify wrap ErrNotFound or
// ErrInvalidInput; check them with errors.Is. A search that finds no path
// is not an error: it is returned as a PathQuery with Found false and a
// Reason.
package service
