package protocol

import (
	"testing"

	"github.com/vmihailenco/msgpack/v5"
)

func TestNewCodec(t *testing.T) {
	for _, name := range []string{"", "json", "msgpack"} {
		c, err := NewCodec(name)
		if err != nil {
			t.Fatalf("NewCodec(%q): %v", name, err)
		}
		if name == "msgpack" && !c.Binary() {
			t.Fatalf("msgpack codec should be binary")
		}
	}
	if _, err := NewCodec("xml"); err == nil {
		t.Fatalf("expected error for unknown codec")
	}
}

func TestJSONMoveObjectKeys(t *testing.T) {
	c := JSONCodec{}
	env, err := c.DecodeEnvelope([]byte(`{"t":"move","p":{"keys":{"w":true,"d":true,"a":false},"angle":1.5}}`))
	if err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	if env.T != MsgMove {
		t.Fatalf("type = %q", env.T)
	}
	m, err := DecodePayload[Move](c, env)
	if err != nil {
		t.Fatalf("decode move: %v", err)
	}
	if !m.Keys.W || !m.Keys.D || m.Keys.A || m.Keys.S || m.Angle != 1.5 {
		t.Fatalf("move = %+v", m)
	}
}

func TestJSONMoveArrayKeys(t *testing.T) {
	c := JSONCodec{}
	env, err := c.DecodeEnvelope([]byte(`{"t":"move","p":{"keys":["s","A","x"],"angle":-2}}`))
	if err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	m, err := DecodePayload[Move](c, env)
	if err != nil {
		t.Fatalf("decode move: %v", err)
	}
	if !m.Keys.S || !m.Keys.A || m.Keys.W || m.Keys.D || m.Angle != -2 {
		t.Fatalf("move = %+v", m)
	}
}

func TestJSONBadKeys(t *testing.T) {
	c := JSONCodec{}
	env, _ := c.DecodeEnvelope([]byte(`{"t":"move","p":{"keys":7,"angle":0}}`))
	if _, err := DecodePayload[Move](c, env); err == nil {
		t.Fatalf("expected error for numeric keys")
	}
}

func TestJSONShootWithoutPayload(t *testing.T) {
	c := JSONCodec{}
	env, err := c.DecodeEnvelope([]byte(`{"t":"shoot"}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if env.T != MsgShoot || len(env.P) != 0 {
		t.Fatalf("env = %+v", env)
	}
	if _, err := DecodePayload[Move](c, env); err == nil {
		t.Fatalf("expected empty payload error")
	}
}

func TestJSONRejectsGarbage(t *testing.T) {
	c := JSONCodec{}
	for _, in := range []string{"", "{", `{"p":{}}`, `[1,2]`} {
		if _, err := c.DecodeEnvelope([]byte(in)); err == nil {
			t.Fatalf("DecodeEnvelope(%q) should fail", in)
		}
	}
}

func TestEncodeRejectsEmpty(t *testing.T) {
	for _, c := range []Codec{JSONCodec{}, MsgpackCodec{}} {
		if _, err := c.Encode("", Init{}); err == nil {
			t.Fatalf("%s: expected error for empty type", c.Name())
		}
		if _, err := c.Encode(MsgInit, nil); err == nil {
			t.Fatalf("%s: expected error for nil payload", c.Name())
		}
	}
}

func sampleState() State {
	return State{
		Players: map[string]PlayerState{
			"a": {ID: "a", Name: "Player12", X: 101.5, Y: 200, Angle: 0.75, Health: 75, Kills: 2},
			"b": {ID: "b", Name: "Player9981", X: 1590, Y: 10, Angle: -3.1, Health: 100},
		},
		Bullets: []BulletState{
			{X: 105, Y: 100, Angle: 0, Owner: "a"},
			{X: 400.25, Y: 399, Angle: 1.2, Owner: "gone"},
		},
	}
}

func assertSameState(t *testing.T, got, want State) {
	t.Helper()
	if len(got.Players) != len(want.Players) || len(got.Bullets) != len(want.Bullets) {
		t.Fatalf("state = %+v, want %+v", got, want)
	}
	for id, p := range want.Players {
		if got.Players[id] != p {
			t.Fatalf("player %s = %+v, want %+v", id, got.Players[id], p)
		}
	}
	for i := range want.Bullets {
		if got.Bullets[i] != want.Bullets[i] {
			t.Fatalf("bullet %d = %+v, want %+v", i, got.Bullets[i], want.Bullets[i])
		}
	}
}

// A client mirror decoding the broadcast must see exactly what was sent.
func TestStateMirrorsThroughEveryCodec(t *testing.T) {
	want := sampleState()
	for _, c := range []Codec{JSONCodec{}, MsgpackCodec{}} {
		b, err := c.Encode(MsgState, want)
		if err != nil {
			t.Fatalf("%s encode: %v", c.Name(), err)
		}
		env, err := c.DecodeEnvelope(b)
		if err != nil {
			t.Fatalf("%s envelope: %v", c.Name(), err)
		}
		if env.T != MsgState {
			t.Fatalf("%s type = %q", c.Name(), env.T)
		}
		got, err := DecodePayload[State](c, env)
		if err != nil {
			t.Fatalf("%s payload: %v", c.Name(), err)
		}
		assertSameState(t, got, want)
	}
}

func TestMsgpackMoveFromClientMap(t *testing.T) {
	// shape a browser msgpack client would send
	raw, err := msgpack.Marshal(map[string]interface{}{
		"t": "move",
		"p": map[string]interface{}{
			"keys":  []string{"w", "d"},
			"angle": 0.5,
		},
	})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	c := MsgpackCodec{}
	env, err := c.DecodeEnvelope(raw)
	if err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	m, err := DecodePayload[Move](c, env)
	if err != nil {
		t.Fatalf("decode move: %v", err)
	}
	if !m.Keys.W || !m.Keys.D || m.Keys.A || m.Keys.S || m.Angle != 0.5 {
		t.Fatalf("move = %+v", m)
	}
}

func TestMsgpackKeysObjectForm(t *testing.T) {
	c := MsgpackCodec{}
	b, err := c.Encode(MsgMove, Move{Keys: KeySet{A: true}, Angle: 3})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	env, err := c.DecodeEnvelope(b)
	if err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	m, err := DecodePayload[Move](c, env)
	if err != nil {
		t.Fatalf("decode move: %v", err)
	}
	if m.Keys != (KeySet{A: true}) || m.Angle != 3 {
		t.Fatalf("move = %+v", m)
	}
}
