package ws

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/gorilla/websocket"
	"github.com/playmatatu/spinball/internal/game"
	"github.com/vmihailenco/msgpack/v5"
)

// Format is the wire encoding a client asked for.
type Format string

const (
	FormatJSON    Format = "json"
	FormatMsgpack Format = "msgpack"
)

// ParseFormat resolves the ?format= query value. Empty means JSON.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "json":
		return FormatJSON, nil
	case "msgpack":
		return FormatMsgpack, nil
	}
	return "", fmt.Errorf("unsupported format %q", s)
}

// MessageType is the websocket frame type used for the format.
func (f Format) MessageType() int {
	if f == FormatMsgpack {
		return websocket.BinaryMessage
	}
	return websocket.TextMessage
}

// Encode serialises an event in the format.
func (f Format) Encode(ev game.MatchEvent) ([]byte, error) {
	if f == FormatMsgpack {
		return msgpack.Marshal(ev)
	}
	return json.Marshal(ev)
}

// ClientMessage is an intent sent by a controlling client. Only the fields
// relevant to Type are read.
type ClientMessage struct {
	Type    string   `json:"type" msgpack:"type"`
	Running *bool    `json:"running,omitempty" msgpack:"running,omitempty"`
	Value   *float64 `json:"value,omitempty" msgpack:"value,omitempty"`
	Field   string   `json:"field,omitempty" msgpack:"field,omitempty"`
	Text    string   `json:"text,omitempty" msgpack:"text,omitempty"`
	Body    *int     `json:"body,omitempty" msgpack:"body,omitempty"`
	Name    string   `json:"name,omitempty" msgpack:"name,omitempty"`
}

// decodeClientMessage reads an intent from a text (JSON) or binary
// (msgpack) frame.
func decodeClientMessage(messageType int, data []byte) (ClientMessage, error) {
	var msg ClientMessage
	var err error
	if messageType == websocket.BinaryMessage {
		err = msgpack.Unmarshal(data, &msg)
	} else {
		err = json.Unmarshal(data, &msg)
	}
	return msg, err
}
