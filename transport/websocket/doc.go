// Package websocket provides live mission updates over WebSocket.
//
// The package uses a hub-and-spoke model where a central Hub owns all
// connections. Register, unregister and broadcast requests are channel
// messages handled by the Run goroutine, so transports may call
// BroadcastToSession from any goroutine.
//
// Message Protocol:
//
// Outgoing messages are JSON documents, one per frame:
//
//	{"session_id": "a1b2", "event": "snapshot", "mission_state": {...}}
//	{"session_id": "a1b2", "event": "state_update", "mission_state": {...}}
//
// A client receives a snapshot on connect, then a state_update after each
// mutation of its session. Incoming frames are read only to keep the
// connection alive.
//
// Usage:
//
//	hub := websocket.NewHub()
//	go hub.Run()
//	defer hub.Stop()
//
//	server := api.NewServer(missionService, hub)
//	// clients connect to /ws?session=a1b2
package websocket
