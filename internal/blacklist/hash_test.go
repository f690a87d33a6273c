package blacklist

import (
	"crypto/sha256"
	"encoding/hex"
	"math/rand"
	"testing"
)

func TestCanonicalSerializationIsSortedAndNewlineTerminated(t *testing.T) {
	got := CanonicalSerialize([]string{"carol", "alice", "bob"})
	want := "actor-blacklist=alice\nactor-blacklist=bob\nactor-blacklist=carol\n"
	if string(got) != want {
		t.Fatalf("got %q want %q", got, want)
	}
}

func TestFingerprintMatchesSHA256HexOfCanonicalBytes(t *testing.T) {
	accounts := []string{"bob", "alice", "carol"}
	sum := sha256.Sum256(CanonicalSerialize(accounts))
	want := hex.EncodeToString(sum[:])
	if got := Fingerprint(accounts); got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}

func TestFingerprintInvariantUnderPermutation(t *testing.T) {
	base := []string{"z", "a", "m", "b", "c", "x", "q"}
	want := Fingerprint(base)
	for i := 0; i < 20; i++ {
		shuffled := append([]string(nil), base...)
		rand.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })
		if got := Fingerprint(shuffled); got != want {
			t.Fatalf("permutation %v changed the fingerprint: got %q want %q", shuffled, got, want)
		}
	}
}

func TestCanonicalSerializeLiteralVector(t *testing.T) {
	got := CanonicalSerialize([]string{"bob", "alice", "carol"})
	want := "actor-blacklist=alice\nactor-blacklist=bob\nactor-blacklist=carol\n"
	if string(got) != want {
		t.Fatalf("got %q want %q", got, want)
	}
}
