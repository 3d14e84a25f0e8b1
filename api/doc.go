// Package api provides the HTTP REST API for tilenav.
//
// Endpoints:
//
// Sessions:
//   - POST /api/sessions - Create a session ({"map_id": "..."}, optional)
//   - GET /api/sessions - List sessions (sort=created|accessed, order, limit)
//   - GET /api/sessions/{id} - Get a session
//   - DELETE /api/sessions/{id} - Delete a session
//
// Grid:
//   - GET /api/sessions/{id}/grid - Rendered grid with the agent as 'A'
//   - GET /api/sessions/{id}/cells/{x}/{y} - Describe one cell
//   - POST /api/sessions/{id}/cells/toggle - Flip walkability ({"x":1,"y":2})
//
// Search:
//   - POST /api/sessions/{id}/path - Search without moving the agent
//   - POST /api/sessions/{id}/navigate - Search from the agent and move it
//   - GET /api/sessions/{id}/history - Paginated path queries
//
// Maps:
//   - GET /api/maps - List map configurations
//   - GET /api/maps/{name} - Get one map configuration
//   - POST /api/maps - Save a map ({"map_id": "...", "config": {...}})
//
// Other:
//   - GET /api/health - Liveness check
//   - GET /ws?session={id} - Websocket event stream for a session
//   - GET /metrics - Prometheus metrics, when a gatherer is configured
//
// Errors are returned as {"error": "message"}. Not-found service errors
// map to 404, invalid input to 400 and everything else to 500. A search
// that finds no path is not an error: it returns 200 with found=false and
// a reason.
package api
