package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/nodeplugins/esindex/internal/queue"
)

func TestNewRegistersAllCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.QueueDepth.WithLabelValues("accepted_block").Set(3)
	m.DrainDuration.Observe(0.01)
	m.StoreErrors.WithLabelValues("response-code").Inc()
	m.DroppedByGate.Inc()

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather: %v", err)
	}
	if len(families) != 4 {
		t.Fatalf("expected 4 registered metric families, got %d", len(families))
	}
}

func TestStreamNameCoversEveryStream(t *testing.T) {
	cases := []struct {
		stream queue.Stream
		want   string
	}{
		{queue.StreamTransactionTrace, "transaction_trace"},
		{queue.StreamAcceptedTransaction, "accepted_transaction"},
		{queue.StreamAcceptedBlock, "accepted_block"},
		{queue.StreamIrreversibleBlock, "irreversible_block"},
	}
	for _, c := range cases {
		if got := StreamName(c.stream); got != c.want {
			t.Errorf("StreamName(%v) = %q, want %q", c.stream, got, c.want)
		}
	}
	if got := StreamName(queue.Stream(99)); got != "unknown" {
		t.Errorf("StreamName(99) = %q, want unknown", got)
	}
}
