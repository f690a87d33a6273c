package config

import "testing"

func TestLoadAppliesDefaultsThenOverrides(t *testing.T) {
	data := []byte(`
[indexer]
hosts = ["http://localhost:9200"]
index_name = "chain"
max_queue_size = 500
abi_cache_size = 1024

[blacklist]
signature_provider = "EOS1234=KEY:5Jtest"
producer_name = "producer1"
`)
	cfg, err := Load(data)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Indexer.IndexName != "chain" {
		t.Errorf("expected index_name chain, got %q", cfg.Indexer.IndexName)
	}
	if cfg.Indexer.MaxQueueSize != 500 {
		t.Errorf("expected max_queue_size 500, got %d", cfg.Indexer.MaxQueueSize)
	}
	// contract/permission come from Defaults() and aren't overridden above.
	if cfg.Blacklist.Contract != "theblacklist" {
		t.Errorf("expected default contract theblacklist, got %q", cfg.Blacklist.Contract)
	}
	if cfg.Blacklist.Permission != "blacklist" {
		t.Errorf("expected default permission blacklist, got %q", cfg.Blacklist.Permission)
	}
	if cfg.Blacklist.ProducerName != "producer1" {
		t.Errorf("expected producer_name producer1, got %q", cfg.Blacklist.ProducerName)
	}
}

func TestLoadRejectsMalformedTOML(t *testing.T) {
	if _, err := Load([]byte("not = [valid toml")); err == nil {
		t.Fatal("expected an error for malformed TOML")
	}
}

func TestDefaultsLeavesIndexerZeroValued(t *testing.T) {
	d := Defaults()
	if d.Indexer.IndexName != "" || d.Indexer.MaxQueueSize != 0 {
		t.Fatalf("expected zero-valued IndexerConfig in Defaults, got %+v", d.Indexer)
	}
}
