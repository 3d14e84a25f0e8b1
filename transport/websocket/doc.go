// Package websocket pushes session events to browser and tool clients.
//
// The package uses a hub-and-spoke model: a single Hub goroutine owns the
// client registry and every broadcast, and each connection gets a read
// pump and a write pump. Clients subscribe to one session with the
// ?session= query parameter and only receive that session's messages.
//
// Message Protocol:
//
// Outgoing messages are JSON objects:
//
//	{"session_id": "ab12", "event": "path_found", "data": {...}, "timestamp": "..."}
//
// Events are grid_update (a rendered grid view), path_found and
// path_failed (a recorded path query, including its expansion trace when
// one was requested) and agent_moved (a navigation result). Incoming
// messages are read only to keep the connection alive.
//
// Usage:
//
//	hub := websocket.NewHub(logger)
//	go hub.Run(ctx)
//
//	router.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
//		hub.ServeWS(w, r, r.URL.Query().Get("session"))
//	})
//	hub.BroadcastEvent(sessionID, websocket.EventPathFound, query)
package websocket
