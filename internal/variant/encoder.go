// Package variant converts native binary records into JSON-friendly
// structured values by consulting a per-account ABI descriptor: named,
// typed fields grouped into actions and tables.
package variant

import (
	"encoding/hex"
	"encoding/json"
)

// Field is one named, typed member of an action or table descriptor.
type Field struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// Action describes one account action's argument layout.
type Action struct {
	Name   string  `json:"name"`
	Fields []Field `json:"fields"`
}

// Table describes one account table row's layout.
type Table struct {
	Name   string  `json:"name"`
	Fields []Field `json:"fields"`
}

// Descriptor is a decoded binary-interface descriptor for one account,
// equivalent to an EOSIO `abi_def`: actions plus table row layouts.
type Descriptor struct {
	Version string   `json:"version"`
	Actions []Action `json:"actions"`
	Tables  []Table  `json:"tables"`
}

// ActionByName returns the action descriptor named name, or nil.
func (d *Descriptor) ActionByName(name string) *Action {
	if d == nil {
		return nil
	}
	for i := range d.Actions {
		if d.Actions[i].Name == name {
			return &d.Actions[i]
		}
	}
	return nil
}

// DecodeDescriptor parses a JSON-encoded abi_def document (the form stored
// in an `accounts` document's `abi` field) into a Descriptor.
func DecodeDescriptor(raw json.RawMessage) (*Descriptor, error) {
	var d Descriptor
	if err := json.Unmarshal(raw, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

// Resolve looks up the descriptor for an account name. In production the
// pipeline supplies a closure over internal/abicache.Cache.Lookup;
// swappable in tests.
type Resolve func(account string) (*Descriptor, bool)

// Record is the minimal shape the encoder needs from a native binary
// record: an account name (to resolve the descriptor), an action name (to
// pick the field layout) and the raw, not-yet-decoded payload bytes per
// field, keyed by field name when known.
type Record struct {
	Account string
	Action  string
	Raw     map[string][]byte
}

// Encode converts a Record into a JSON-friendly map using resolve to fetch
// the acting account's descriptor. Fields whose ABI can't be resolved, or
// whose type isn't recognized, are left as their opaque byte form (as
// "0x"-prefixed hex text, since JSON has no byte type) — this is not an
// error.
func Encode(rec Record, resolve Resolve) map[string]any {
	out := make(map[string]any, len(rec.Raw))

	desc, ok := resolve(rec.Account)
	var action *Action
	if ok {
		action = desc.ActionByName(rec.Action)
	}

	fieldType := func(name string) (string, bool) {
		if action == nil {
			return "", false
		}
		for _, f := range action.Fields {
			if f.Name == name {
				return f.Type, true
			}
		}
		return "", false
	}

	for name, raw := range rec.Raw {
		typ, known := fieldType(name)
		if !known {
			out[name] = rawToOpaque(raw)
			continue
		}
		decoded, err := decodeField(typ, raw)
		if err != nil {
			out[name] = rawToOpaque(raw)
			continue
		}
		out[name] = decoded
	}
	return out
}

// decodeField interprets raw bytes according to typ. Only the handful of
// scalar types the indexer actually needs to render human-readably are
// handled; anything else falls back to the opaque form, since failure to
// resolve a field's type is not an error.
func decodeField(typ string, raw []byte) (any, error) {
	switch typ {
	case "string":
		return string(raw), nil
	case "name", "account_name", "asset":
		return string(raw), nil
	case "abi_def":
		var v any
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, err
		}
		return v, nil
	default:
		return nil, errUnsupportedType
	}
}

func rawToOpaque(raw []byte) string {
	return "0x" + hex.EncodeToString(raw)
}
