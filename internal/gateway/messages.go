package gateway

import "encoding/json"

// Event names on the push channel. Server to one client on connect or in
// reply to a request:
const (
	EventCandidatesList = "candidates:list"
	EventStatsData      = "stats:data"
	EventCandidateData  = "candidate:data"
	EventSearchResults  = "candidates:searchResults"
	EventError          = "error"
)

// Server to all clients on mutation. The entity event is always followed by
// the full list and full stats, so clients never merge partial updates.
const (
	EventCandidateCreated = "candidate:created"
	EventCandidateUpdated = "candidate:updated"
	EventCandidateDeleted = "candidate:deleted"
	EventCandidatesUpdate = "candidates:updated"
	EventStatsUpdate      = "stats:updated"
)

// Client to server request events, each answered to the requester only.
const (
	RequestGetAll   = "candidates:getAll"
	RequestGetStats = "stats:get"
	RequestGetByID  = "candidate:get"
	RequestSearch   = "candidates:search"
)

// Frame is the wire envelope for outbound messages.
type Frame struct {
	Event string `json:"event"`
	Data  any    `json:"data,omitempty"`
}

// requestFrame defers payload decoding until the event name is known.
// RequestGetByID carries a bare number, RequestSearch a bare string.
type requestFrame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}
