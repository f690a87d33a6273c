package blacklist

import (
	"encoding/json"
	"io"
	"log/slog"
	"net"
	"net/http"

	"github.com/julienschmidt/httprouter"
)

// RegisterRoutes wires the single POST /v1/blacklist/check_hash endpoint
// onto router.
func RegisterRoutes(router *httprouter.Router, rec *Reconciler, log *slog.Logger) {
	if log == nil {
		log = slog.Default()
	}
	router.POST("/v1/blacklist/check_hash", checkHashHandler(rec, log))
}

func checkHashHandler(rec *Reconciler, log *slog.Logger) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		defer r.Body.Close()
		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		// Empty body is accepted and rewritten to {}.
		if len(body) == 0 {
			body = []byte("{}")
		}

		result, err := rec.CheckHash()
		if err != nil {
			log.Error("blacklist: check_hash failed", "error", err)
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(result)
	}
}

// WarnIfNotLoopback logs a warning at startup if addr is not bound to
// loopback.
func WarnIfNotLoopback(addr string, log *slog.Logger) {
	if log == nil {
		log = slog.Default()
	}
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		host = addr
	}
	ip := net.ParseIP(host)
	if ip != nil && ip.IsLoopback() {
		return
	}
	if host == "localhost" {
		return
	}
	log.Warn("blacklist: HTTP transport is not bound to loopback", "addr", addr)
}
