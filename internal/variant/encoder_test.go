package variant

import "testing"

func descriptor() *Descriptor {
	return &Descriptor{
		Actions: []Action{
			{Name: "transfer", Fields: []Field{
				{Name: "memo", Type: "string"},
				{Name: "quantity", Type: "asset"},
			}},
		},
	}
}

func TestEncodeDecodesKnownFieldTypes(t *testing.T) {
	rec := Record{
		Account: "eosio.token",
		Action:  "transfer",
		Raw: map[string][]byte{
			"memo": []byte("hello"),
		},
	}
	out := Encode(rec, func(account string) (*Descriptor, bool) {
		return descriptor(), true
	})
	if out["memo"] != "hello" {
		t.Fatalf("expected decoded string, got %#v", out["memo"])
	}
}

func TestEncodeLeavesUnresolvedFieldOpaque(t *testing.T) {
	rec := Record{
		Account: "unknownacct",
		Action:  "whatever",
		Raw: map[string][]byte{
			"blob": {0xde, 0xad, 0xbe, 0xef},
		},
	}
	out := Encode(rec, func(account string) (*Descriptor, bool) {
		return nil, false
	})
	got, ok := out["blob"].(string)
	if !ok || got != "0xdeadbeef" {
		t.Fatalf("expected opaque hex form, got %#v", out["blob"])
	}
}

func TestEncodeUnresolvedAbiIsNotAnError(t *testing.T) {
	rec := Record{Account: "a", Action: "b", Raw: map[string][]byte{"x": []byte{1, 2}}}
	// resolve always fails; Encode must not panic and must still return a map.
	out := Encode(rec, func(string) (*Descriptor, bool) { return nil, false })
	if out == nil {
		t.Fatal("expected non-nil map even when ABI is unresolved")
	}
}

func TestDecodeDescriptorParsesActions(t *testing.T) {
	raw := []byte(`{"version":"eosio::abi/1.1","actions":[{"name":"setabi","fields":[{"name":"abi","type":"bytes"}]}]}`)
	desc, err := DecodeDescriptor(raw)
	if err != nil {
		t.Fatal(err)
	}
	if desc.ActionByName("setabi") == nil {
		t.Fatal("expected setabi action")
	}
}
