// Package config loads the typed configuration for the indexer and
// blacklist plugins. The host node's own flag/CLI parsing stays with the
// host; this package only turns a TOML document into the Config struct the
// rest of the plugin consumes.
package config

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// Config holds the initialization options for both plugins.
type Config struct {
	Indexer   IndexerConfig   `toml:"indexer"`
	Blacklist BlacklistConfig `toml:"blacklist"`
}

// IndexerConfig mirrors the elasticsearch plugin's init-time options.
type IndexerConfig struct {
	Hosts         []string `toml:"hosts"`
	IndexName     string   `toml:"index_name"`
	MaxQueueSize  int      `toml:"max_queue_size"`
	AbiCacheSize  int      `toml:"abi_cache_size"`
	StartBlockNum uint32   `toml:"start_block_num"`
	DropExisting  bool     `toml:"drop_existing"`
	MappingPath   string   `toml:"mapping_path"`
}

// BlacklistConfig mirrors the blacklist plugin's options.
type BlacklistConfig struct {
	SignatureProvider string   `toml:"signature_provider"` // PUBKEY=SCHEME:PAYLOAD
	Contract          string   `toml:"contract"`
	Permission        string   `toml:"permission"`
	ProducerName      string   `toml:"producer_name"`
	ActorBlacklist    []string `toml:"actor_blacklist"`
}

// Defaults returns the documented defaults for options the host node leaves
// unset.
func Defaults() Config {
	return Config{
		Blacklist: BlacklistConfig{
			Contract:   "theblacklist",
			Permission: "blacklist",
		},
	}
}

// Load parses a TOML document into Config, starting from Defaults().
func Load(data []byte) (Config, error) {
	cfg := Defaults()
	if _, err := toml.Decode(string(data), &cfg); err != nil {
		return Config{}, fmt.Errorf("config: decode: %w", err)
	}
	return cfg, nil
}
