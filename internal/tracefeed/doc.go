// Package tracefeed forwards engine lifecycle events to a socket.io server,
// for live inspection of a running graph.
//
// Every event is encoded as a flat JSON-friendly map and emitted as a
// "node_event" message. Emission is fire-and-forget: the engine never waits
// for the server.
package tracefeed
