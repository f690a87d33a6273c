package blacklist

import "testing"

type fakeChain struct {
	blacklistRows []TableRow
	hashRows      []TableRow
}

func (f *fakeChain) ReadTable(code, scope, table string, limit int) ([]TableRow, error) {
	switch table {
	case "theblacklist":
		return f.blacklistRows, nil
	case "producerhash":
		return f.hashRows, nil
	}
	return nil, nil
}

type fakeLocal struct{ accounts []string }

func (f fakeLocal) ActorBlacklist() []string { return f.accounts }

func TestCheckHashMatchingHashesYieldOK(t *testing.T) {
	local := []string{"a", "b"}
	chain := &fakeChain{
		blacklistRows: []TableRow{{Type: "actor-blacklist", Accounts: []string{"a", "b"}}},
	}
	chain.hashRows = []TableRow{{Producer: "me", Hash: Fingerprint(local)}}

	r := New(chain, fakeLocal{local}, "theblacklist", "me")
	got, err := r.CheckHash()
	if err != nil {
		t.Fatal(err)
	}
	if got.Message != "OK" {
		t.Fatalf("expected OK, got %q (local=%s onchain=%s submitted=%s)", got.Message, got.LocalHash, got.OnchainHash, got.SubmittedHash)
	}
}

func TestCheckHashOnchainMismatch(t *testing.T) {
	chain := &fakeChain{
		blacklistRows: []TableRow{{Type: "actor-blacklist", Accounts: []string{"a", "b", "c"}}},
	}
	r := New(chain, fakeLocal{[]string{"a", "b"}}, "theblacklist", "")
	got, err := r.CheckHash()
	if err != nil {
		t.Fatal(err)
	}
	if got.Message != "local and ecaf hash MISMATCH!" {
		t.Fatalf("got %q", got.Message)
	}
}

func TestCheckHashSubmittedMismatch(t *testing.T) {
	chain := &fakeChain{
		blacklistRows: []TableRow{{Type: "actor-blacklist", Accounts: []string{"a", "b"}}},
	}
	r := New(chain, fakeLocal{[]string{"a", "b"}}, "theblacklist", "me")
	got, err := r.CheckHash()
	if err != nil {
		t.Fatal(err)
	}
	if got.SubmittedHash != "" {
		t.Fatalf("expected empty submitted hash, got %q", got.SubmittedHash)
	}
	if got.Message != "local and submitted hash MISMATCH!" {
		t.Fatalf("got %q", got.Message)
	}
}

func TestNonBlacklistRowsAreIgnored(t *testing.T) {
	chain := &fakeChain{
		blacklistRows: []TableRow{
			{Type: "something-else", Accounts: []string{"z"}},
			{Type: "actor-blacklist", Accounts: []string{"a"}},
		},
	}
	r := New(chain, fakeLocal{[]string{"a"}}, "theblacklist", "")
	got, err := r.CheckHash()
	if err != nil {
		t.Fatal(err)
	}
	if got.OnchainHash != Fingerprint([]string{"a"}) {
		t.Fatalf("expected only actor-blacklist rows to be counted")
	}
}
