package blacklist

import (
	"log/slog"
	"strings"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcutil/base58"
)

// Keypair holds the parsed key material for the `KEY` signature-provider
// scheme.
type Keypair struct {
	PublicKey string
	Private   *btcec.PrivateKey
}

// ParseSignatureProvider parses a `PUBKEY=SCHEME:PAYLOAD` option value.
// Required separators `=` and `:`; their absence raises a config error.
// Scheme KEY stores a keypair; KEOSD is rejected with a warning;
// unrecognized schemes are ignored with a warning. A scheme-level parse
// failure never aborts startup — callers should log and continue with a
// nil Keypair.
func ParseSignatureProvider(value string, log *slog.Logger) (*Keypair, error) {
	if log == nil {
		log = slog.Default()
	}
	eq := strings.Index(value, "=")
	if eq < 0 {
		return nil, errMissingEquals
	}
	pubkey := value[:eq]
	rest := value[eq+1:]

	colon := strings.Index(rest, ":")
	if colon < 0 {
		return nil, errMissingColon
	}
	scheme := rest[:colon]
	payload := rest[colon+1:]

	switch scheme {
	case "KEY":
		priv, err := parsePrivateKey(payload)
		if err != nil {
			log.Warn("blacklist: invalid KEY signature-provider payload", "error", err)
			return nil, nil
		}
		return &Keypair{PublicKey: pubkey, Private: priv}, nil
	case "KEOSD":
		log.Warn("blacklist: KEOSD signature-provider scheme is not supported")
		return nil, nil
	default:
		log.Warn("blacklist: unrecognized signature-provider scheme", "scheme", scheme)
		return nil, nil
	}
}

// keyPayloadLen is the raw private-key byte length once base58check's
// version byte and 4-byte checksum are stripped.
const keyPayloadLen = 32

// parsePrivateKey decodes a base58check-encoded EOSIO private key payload
// (the part of a KEY:PAYLOAD signature-provider value after the scheme)
// into a secp256k1 keypair.
func parsePrivateKey(payload string) (*btcec.PrivateKey, error) {
	decoded := base58.Decode(payload)
	if len(decoded) < keyPayloadLen+5 { // 1 version byte + key + 4 checksum bytes
		return nil, errShortKeyPayload
	}
	raw := decoded[1 : 1+keyPayloadLen]
	priv, _ := btcec.PrivKeyFromBytes(raw)
	return priv, nil
}
