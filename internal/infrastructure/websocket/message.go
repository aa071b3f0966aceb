package websocket

import (
	"encoding/json"
	"time"
)

// Frame types exchanged with the browser.
const (
	MessageTypePing  = "ping"
	MessageTypePong  = "pong"
	MessageTypeToast = "toast"
	MessageTypeError = "error"
)

type WSMessage struct {
	Type      string      `json:"type"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp string      `json:"timestamp"`
}

func encode(msgType string, data interface{}) ([]byte, error) {
	return json.Marshal(WSMessage{
		Type:      msgType,
		Data:      data,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

// reply answers a frame read from the client. Only pings are understood.
func reply(raw []byte) ([]byte, bool) {
	var msg WSMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		out, _ := encode(MessageTypeError, "malformed frame")
		return out, true
	}
	switch msg.Type {
	case MessageTypePing:
		out, _ := encode(MessageTypePong, nil)
		return out, true
	default:
		return nil, false
	}
}
