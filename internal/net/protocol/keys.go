package protocol

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/vmihailenco/msgpack/v5"
)

// KeySet is the set of held movement keys. On the wire it is either an object
// of booleans ({"w":true,"d":true}) or an array of key names (["w","d"]).
// Unknown keys are ignored.
type KeySet struct {
	W, A, S, D bool
}

func (k *KeySet) set(name string, held bool) {
	switch strings.ToLower(name) {
	case "w":
		k.W = held
	case "a":
		k.A = held
	case "s":
		k.S = held
	case "d":
		k.D = held
	}
}

func (k KeySet) asMap() map[string]bool {
	return map[string]bool{"w": k.W, "a": k.A, "s": k.S, "d": k.D}
}

func (k KeySet) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.asMap())
}

func (k *KeySet) UnmarshalJSON(b []byte) error {
	*k = KeySet{}
	var m map[string]bool
	if err := json.Unmarshal(b, &m); err == nil {
		for name, held := range m {
			k.set(name, held)
		}
		return nil
	}
	var list []string
	if err := json.Unmarshal(b, &list); err != nil {
		return fmt.Errorf("keys: want object or array: %w", err)
	}
	for _, name := range list {
		k.set(name, true)
	}
	return nil
}

func (k KeySet) EncodeMsgpack(enc *msgpack.Encoder) error {
	return enc.Encode(k.asMap())
}

func (k *KeySet) DecodeMsgpack(dec *msgpack.Decoder) error {
	*k = KeySet{}
	v, err := dec.DecodeInterface()
	if err != nil {
		return err
	}
	switch vv := v.(type) {
	case nil:
	case map[string]interface{}:
		for name, held := range vv {
			b, _ := held.(bool)
			k.set(name, b)
		}
	case []interface{}:
		for _, name := range vv {
			if s, ok := name.(string); ok {
				k.set(s, true)
			}
		}
	default:
		return fmt.Errorf("keys: unexpected msgpack type %T", v)
	}
	return nil
}
