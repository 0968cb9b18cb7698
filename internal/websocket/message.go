package websocket

import "encoding/json"

// Message defines the structure for websocket messages.
type Message struct {
	Action  string      `json:"action"`
	Payload interface{} `json:"payload"`
}

// NewAnalysisMessage wraps a classified sample for the live results feed.
func NewAnalysisMessage(payload interface{}) []byte {
	return marshal(Message{Action: "analysis.result", Payload: payload})
}

// NewSystemStatsMessage wraps a host stats snapshot for broadcast.
func NewSystemStatsMessage(payload interface{}) []byte {
	return marshal(Message{Action: "system.stats", Payload: payload})
}

// NewErrorMessage wraps an error string for a single client.
func NewErrorMessage(msg string) []byte {
	return marshal(Message{Action: "error", Payload: msg})
}

func marshal(m Message) []byte {
	b, err := json.Marshal(m)
	if err != nil {
		return []byte(`{"action":"error","payload":"failed to encode message"}`)
	}
	return b
}
