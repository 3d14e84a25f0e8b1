// Package mcp exposes the navigation service as Model Context Protocol tools.
//
// The Client is a thin proxy: every tool call becomes a REST request to a
// running tilenav server, and the JSON response is formatted as text for
// the agent. It holds no navigation state of its own.
//
// MCP Tools:
//   - create_session, list_sessions, get_session: session management
//   - grid_state: rendered grid with a column ruler and legend
//   - describe_cell, toggle_cell: inspect or flip one cell
//   - find_path: search without moving the agent
//   - navigate: search from the agent and move it
//   - path_history: paginated past searches
//   - list_maps: available map configurations
//
// Usage:
//
//	client := mcp.NewClient("http://localhost:8080")
//	server.ServeStdio(client.GetMCPServer())
package mcp
