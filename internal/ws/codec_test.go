package ws

import (
	"testing"

	"github.com/gorilla/websocket"
	"github.com/vmihailenco/msgpack/v5"
)

func TestParseFormat(t *testing.T) {
	cases := map[string]Format{"": FormatJSON, "json": FormatJSON, " MsgPack ": FormatMsgpack}
	for in, want := range cases {
		got, err := ParseFormat(in)
		if err != nil || got != want {
			t.Errorf("ParseFormat(%q) = (%v, %v), want %v", in, got, err, want)
		}
	}
	if _, err := ParseFormat("xml"); err == nil {
		t.Error("xml accepted")
	}
}

func TestDecodeClientMessage(t *testing.T) {
	msg, err := decodeClientMessage(websocket.TextMessage, []byte(`{"type":"set_rotation_speed","value":1.25}`))
	if err != nil || msg.Type != "set_rotation_speed" || msg.Value == nil || *msg.Value != 1.25 {
		t.Errorf("json decode = %+v, %v", msg, err)
	}

	running := true
	data, _ := msgpack.Marshal(ClientMessage{Type: "set_running", Running: &running})
	msg, err = decodeClientMessage(websocket.BinaryMessage, data)
	if err != nil || msg.Running == nil || !*msg.Running {
		t.Errorf("msgpack decode = %+v, %v", msg, err)
	}

	if _, err := decodeClientMessage(websocket.TextMessage, []byte("nope")); err == nil {
		t.Error("garbage decoded")
	}
}
