// Package esindex hosts two node plugins: an asynchronous, backpressured
// Elasticsearch-style chain-data indexer (internal/pipeline,
// internal/docstore, internal/abicache, internal/variant, internal/queue)
// and a blacklist hash reconciler (internal/blacklist). Both are libraries
// meant to be wired into a host blockchain node; this module does not ship
// the host's CLI surface, controller, or HTTP server — those live in the
// host binary and are represented here only as the interfaces each plugin
// consumes.
package esindex
