// Package websocket pushes live Minesweeper board updates to browsers.
//
// A central Hub keeps the clients of each session. Clients connect with
// ?session=<id> and receive a state_update message carrying the masked
// engine.BoardView after every reveal, flag, chord, batch or reset on that
// session. Custom events can be pushed with BroadcastEvent.
//
// Message format:
//
//	{"session_id":"ab12","event":"state_update","view":{...}}
//
// Usage:
//
//	hub := websocket.NewHub()
//	go hub.Run()
//	defer hub.Stop()
//
//	http.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
//		hub.ServeWS(w, r, r.URL.Query().Get("session"))
//	})
//
// Concurrency:
//
// Register, unregister and broadcast requests are serialized through the Run
// loop. Broadcasts to a slow client whose buffer is full drop that client.
package websocket
