// Package pipeline implements the orchestrator and block/transaction
// processors: it subscribes to the upstream controller, feeds four bounded
// queues, and runs the single consumer loop that decorates and indexes
// every drained event.
package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/nodeplugins/esindex/internal/abicache"
	"github.com/nodeplugins/esindex/internal/config"
	"github.com/nodeplugins/esindex/internal/docstore"
	"github.com/nodeplugins/esindex/internal/metrics"
	"github.com/nodeplugins/esindex/internal/model"
	"github.com/nodeplugins/esindex/internal/queue"
	"github.com/nodeplugins/esindex/internal/variant"
)

// State is one of the orchestrator's lifecycle stages.
type State int

const (
	StateUninitialized State = iota
	StateInitialized
	StateStarted
	StateDraining
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateInitialized:
		return "initialized"
	case StateStarted:
		return "started"
	case StateDraining:
		return "draining"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

const slowDrainThreshold = 500 * time.Millisecond

// Orchestrator wires the controller, the bounded queues, the ABI cache, and
// the document store client into the single consumer loop.
type Orchestrator struct {
	cfg     config.IndexerConfig
	store   *docstore.Client
	queues  *queue.Queues
	cache   *abicache.Cache
	metrics *metrics.Metrics
	log     *slog.Logger

	subs        []Subscription
	stopForward chan struct{}

	state         atomic.Int32
	startBlockHit atomic.Bool

	wg sync.WaitGroup
}

// New builds an Orchestrator in state Uninitialized.
func New(cfg config.IndexerConfig, store *docstore.Client, m *metrics.Metrics, log *slog.Logger) *Orchestrator {
	if log == nil {
		log = slog.Default()
	}
	o := &Orchestrator{cfg: cfg, store: store, metrics: m, log: log}
	o.cache = abicache.New(cfg.AbiCacheSize, o.resolveABI)
	return o
}

func (o *Orchestrator) State() State { return State(o.state.Load()) }

func (o *Orchestrator) setState(s State) { o.state.Store(int32(s)) }

// Init configures the queue, optionally drops the existing index, creates
// it with mapping, seeds the system account if the accounts kind is empty,
// and transitions to Initialized. It does not subscribe to the controller
// or start the consumer thread yet — that happens in Start.
func (o *Orchestrator) Init(ctx context.Context, mapping json.RawMessage) error {
	if o.State() != StateUninitialized {
		return errAlreadyInitialized
	}
	o.queues = queue.New(o.cfg.MaxQueueSize, o.log)

	if o.cfg.DropExisting {
		if err := o.store.DeleteIndex(ctx); err != nil {
			return err
		}
	}
	if err := o.store.CreateIndex(ctx, mapping); err != nil {
		return err
	}
	if err := o.seedSystemAccount(ctx); err != nil {
		return err
	}

	o.setState(StateInitialized)
	return nil
}

func (o *Orchestrator) seedSystemAccount(ctx context.Context) error {
	count, err := o.store.Count(ctx, model.KindAccounts, nil)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	_, err = o.store.Index(ctx, model.KindAccounts, map[string]any{
		"name": "eosio",
	}, "eosio")
	return err
}

// Start registers the four subscriptions on ctrl and launches the consumer
// thread.
func (o *Orchestrator) Start(ctrl Controller) error {
	if o.State() != StateInitialized {
		return errNotInitialized
	}

	traceCh := make(chan *model.TransactionTraceEvent, 1)
	txCh := make(chan *model.TransactionMetadataEvent, 1)
	blockCh := make(chan *model.BlockStateEvent, 1)
	irreversibleCh := make(chan *model.IrreversibleBlockEvent, 1)

	o.subs = []Subscription{
		ctrl.SubscribeAppliedTransactionTrace(traceCh),
		ctrl.SubscribeAcceptedTransaction(txCh),
		ctrl.SubscribeAcceptedBlock(blockCh),
		ctrl.SubscribeIrreversibleBlock(irreversibleCh),
	}
	o.stopForward = make(chan struct{})

	o.wg.Add(1)
	go o.forward(traceCh, txCh, blockCh, irreversibleCh)

	o.wg.Add(1)
	go o.consume()

	o.setState(StateStarted)
	return nil
}

// forward moves subscription channel deliveries onto the bounded queues.
// This is the producer side: it only blocks on the queue lock and the
// adaptive sleep inside Enqueue, never on I/O.
func (o *Orchestrator) forward(
	traceCh chan *model.TransactionTraceEvent,
	txCh chan *model.TransactionMetadataEvent,
	blockCh chan *model.BlockStateEvent,
	irreversibleCh chan *model.IrreversibleBlockEvent,
) {
	defer o.wg.Done()
	for {
		select {
		case <-o.stopForward:
			return
		case ev, ok := <-traceCh:
			if !ok {
				traceCh = nil
				continue
			}
			o.queues.Enqueue(queue.StreamTransactionTrace, ev)
		case ev, ok := <-txCh:
			if !ok {
				txCh = nil
				continue
			}
			o.queues.Enqueue(queue.StreamAcceptedTransaction, ev)
		case ev, ok := <-blockCh:
			if !ok {
				blockCh = nil
				continue
			}
			if ev.BlockNum >= o.cfg.StartBlockNum {
				o.startBlockHit.Store(true)
			}
			o.queues.Enqueue(queue.StreamAcceptedBlock, ev)
		case ev, ok := <-irreversibleCh:
			if !ok {
				irreversibleCh = nil
				continue
			}
			o.queues.Enqueue(queue.StreamIrreversibleBlock, ev)
		}
		if traceCh == nil && txCh == nil && blockCh == nil && irreversibleCh == nil {
			return
		}
	}
}

// consume is the single consumer thread: it drains all four queues under
// one lock, releases it, then processes each stream in the fixed priority
// order (traces, accepted transactions, accepted blocks, irreversible
// blocks).
func (o *Orchestrator) consume() {
	defer o.wg.Done()
	ctx := context.Background()
	for {
		batches, shutdown := o.queues.Drain()
		if shutdown {
			return
		}
		o.processBatch(ctx, batches)
	}
}

func (o *Orchestrator) processBatch(ctx context.Context, batches [4][]any) {
	o.processStream(ctx, "transaction_trace", batches[queue.StreamTransactionTrace], o.processTrace)
	o.processStream(ctx, "accepted_transaction", batches[queue.StreamAcceptedTransaction], o.processAcceptedTransaction)
	o.processStream(ctx, "accepted_block", batches[queue.StreamAcceptedBlock], o.processAcceptedBlock)
	o.processStream(ctx, "irreversible_block", batches[queue.StreamIrreversibleBlock], o.processIrreversibleBlock)
}

func (o *Orchestrator) processStream(ctx context.Context, name string, items []any, fn func(context.Context, any) error) {
	if len(items) == 0 {
		return
	}
	start := time.Now()
	for _, item := range items {
		if !o.gateOpen(item) {
			if o.metrics != nil {
				o.metrics.DroppedByGate.Inc()
			}
			continue
		}
		if err := fn(ctx, item); err != nil {
			o.log.Error("pipeline: processing error", "stream", name, "error", err)
			var derr *docstore.Error
			if o.metrics != nil && errors.As(err, &derr) {
				o.metrics.StoreErrors.WithLabelValues(string(derr.Kind)).Inc()
			}
		}
	}
	elapsed := time.Since(start)
	if o.metrics != nil {
		o.metrics.DrainDuration.Observe(elapsed.Seconds())
	}
	if elapsed > slowDrainThreshold {
		o.log.Info("pipeline: slow drain",
			"stream", name, "count", len(items), "total", elapsed, "per_item", elapsed/time.Duration(len(items)))
	}
}

// gateOpen implements the start-block gate: until the first accepted block
// with number >= start_block_num is observed, processing functions return
// immediately. Once tripped, it never reverts. Only accepted-block events
// carry a block number to gate on directly; other streams gate on whether
// the flag has tripped at all, since by the time any transaction/trace/
// irreversible event arrives the corresponding block has already passed
// through the accepted-block gate check.
func (o *Orchestrator) gateOpen(item any) bool {
	if ev, ok := item.(*model.BlockStateEvent); ok {
		return ev.BlockNum >= o.cfg.StartBlockNum || o.startBlockHit.Load()
	}
	return o.startBlockHit.Load()
}

// resolveABI is the abicache.Resolver backing o.cache: it queries the
// store's accounts kind for a document whose name matches account.
func (o *Orchestrator) resolveABI(account string) (*variant.Descriptor, bool, error) {
	ctx := context.Background()
	query, _ := json.Marshal(map[string]any{
		"query": map[string]any{"term": map[string]any{"name": account}},
	})
	raw, err := o.store.Search(ctx, model.KindAccounts, query)
	if err != nil {
		return nil, false, err
	}
	var resp struct {
		Hits struct {
			Total int `json:"total"`
			Hits  []struct {
				Source struct {
					ABI json.RawMessage `json:"abi"`
				} `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, false, nil
	}
	if len(resp.Hits.Hits) != 1 {
		return nil, false, nil
	}
	desc, err := variant.DecodeDescriptor(resp.Hits.Hits[0].Source.ABI)
	if err != nil {
		return nil, false, nil
	}
	return desc, true, nil
}

// Shutdown performs a cooperative shutdown: set done, notify, join, release
// subscriptions. If Shutdown runs before Start, the join is skipped (there
// is nothing to join).
func (o *Orchestrator) Shutdown() {
	prev := o.State()
	o.setState(StateDraining)
	if prev == StateStarted {
		close(o.stopForward)
		o.queues.Shutdown()
		o.wg.Wait()
	}
	for _, sub := range o.subs {
		sub.Unsubscribe()
	}
	o.setState(StateStopped)
}
