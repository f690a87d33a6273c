package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nodeplugins/esindex/internal/model"
	"github.com/nodeplugins/esindex/internal/variant"
)

// encodeAny runs the variant encoder over an opaque native payload using
// the orchestrator's ABI cache as resolver. Payloads in this plugin arrive
// already as JSON-capable values (maps/slices/primitives) from the
// controller boundary, so most of the work here is resolving per-account
// fields that still carry raw bytes; see internal/variant for the field
// decode rules.
func (o *Orchestrator) encodeAny(account string, v any) any {
	raw, ok := v.(map[string]any)
	if !ok {
		return v
	}
	fields := make(map[string][]byte, len(raw))
	for k, val := range raw {
		if b, ok := val.([]byte); ok {
			fields[k] = b
		}
	}
	if len(fields) == 0 {
		return raw
	}
	action, _ := raw["action"].(string)
	encoded := variant.Encode(variant.Record{Account: account, Action: action, Raw: fields}, func(acct string) (*variant.Descriptor, bool) {
		desc, found, err := o.cache.Lookup(acct)
		if err != nil || !found {
			return nil, false
		}
		return desc, true
	})
	out := make(map[string]any, len(raw))
	for k, val := range raw {
		out[k] = val
	}
	for k, v := range encoded {
		out[k] = v
	}
	return out
}

// processAcceptedBlock builds a block_states document and a blocks document
// for a newly accepted block and indexes both.
func (o *Orchestrator) processAcceptedBlock(ctx context.Context, item any) error {
	ev, ok := item.(*model.BlockStateEvent)
	if !ok {
		return fmt.Errorf("pipeline: unexpected accepted-block item %T", item)
	}
	now := time.Now()

	blockStates := map[string]any{
		"block_num":          ev.BlockNum,
		"block_id":           fmt.Sprintf("%x", ev.BlockID),
		"validated":          ev.Validated,
		"in_current_chain":   ev.InCurrentChain,
		"block_header_state": o.encodeAny("eosio", ev.BlockHeaderState),
	}
	doc1 := model.Document{Kind: model.KindBlockStates, Body: blockStates}
	doc1.Stamp(now)
	if _, err := o.store.Index(ctx, doc1.Kind, doc1.Body, ""); err != nil {
		return err
	}

	blocks := map[string]any{
		"block_num":    ev.BlockNum,
		"block_id":     fmt.Sprintf("%x", ev.BlockID),
		"irreversible": false,
		"block":        o.encodeAny("eosio", ev.Block),
	}
	doc2 := model.Document{Kind: model.KindBlocks, Body: blocks}
	doc2.Stamp(now)
	_, err := o.store.Index(ctx, doc2.Kind, doc2.Body, "")
	return err
}

// processIrreversibleBlock locates previously indexed blocks documents by
// block_id and sets irreversible = true, and indexes the finalized
// block_states update. The store protocol has no partial-update verb, so
// "set irreversible = true" is done as search-then-reindex rather than an
// update-by-query body rewrite.
func (o *Orchestrator) processIrreversibleBlock(ctx context.Context, item any) error {
	ev, ok := item.(*model.IrreversibleBlockEvent)
	if !ok {
		return fmt.Errorf("pipeline: unexpected irreversible-block item %T", item)
	}
	blockID := fmt.Sprintf("%x", ev.BlockID)

	query, _ := json.Marshal(map[string]any{
		"query": map[string]any{"term": map[string]any{"block_id": blockID}},
	})
	raw, err := o.store.Search(ctx, model.KindBlocks, query)
	if err != nil {
		return err
	}
	var resp struct {
		Hits struct {
			Hits []struct {
				ID     string         `json:"_id"`
				Source map[string]any `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.Unmarshal(raw, &resp); err == nil {
		for _, hit := range resp.Hits.Hits {
			body := hit.Source
			if body == nil {
				body = map[string]any{}
			}
			body["irreversible"] = true
			if _, err := o.store.Index(ctx, model.KindBlocks, body, hit.ID); err != nil {
				return err
			}
		}
	}

	now := time.Now()
	finalState := map[string]any{
		"block_num":          ev.BlockNum,
		"block_id":           blockID,
		"validated":          ev.Validated,
		"in_current_chain":   ev.InCurrentChain,
		"block_header_state": o.encodeAny("eosio", ev.BlockHeaderState),
		"irreversible":       true,
	}
	doc := model.Document{Kind: model.KindBlockStates, Body: finalState}
	doc.Stamp(now)
	_, err = o.store.Index(ctx, doc.Kind, doc.Body, "")
	return err
}

// processAcceptedTransaction builds and indexes a transactions document at
// acceptance time, before application.
func (o *Orchestrator) processAcceptedTransaction(ctx context.Context, item any) error {
	ev, ok := item.(*model.TransactionMetadataEvent)
	if !ok {
		return fmt.Errorf("pipeline: unexpected accepted-transaction item %T", item)
	}
	now := time.Now()
	doc := model.Document{
		Kind: model.KindTransactions,
		Body: map[string]any{
			"trx_id":      fmt.Sprintf("%x", ev.TransactionID),
			"transaction": o.encodeAny("eosio", ev.Transaction),
		},
	}
	doc.Stamp(now)
	_, err := o.store.Index(ctx, doc.Kind, doc.Body, "")
	return err
}

// processTrace builds transaction_traces and actions documents for an
// applied transaction trace, and captures setabi actions by upserting the
// corresponding accounts document.
func (o *Orchestrator) processTrace(ctx context.Context, item any) error {
	ev, ok := item.(*model.TransactionTraceEvent)
	if !ok {
		return fmt.Errorf("pipeline: unexpected transaction-trace item %T", item)
	}
	now := time.Now()

	trxID := fmt.Sprintf("%x", ev.TransactionID)
	traceDoc := model.Document{
		Kind: model.KindTransactionTrace,
		Body: map[string]any{
			"trx_id":   trxID,
			"success":  ev.Success,
			"receipts": ev.Receipts,
		},
	}
	traceDoc.Stamp(now)
	if _, err := o.store.Index(ctx, traceDoc.Kind, traceDoc.Body, ""); err != nil {
		return err
	}

	for _, at := range ev.ActionTraces {
		account, _ := at.Account.(string)
		actionDoc := model.Document{
			Kind: model.KindActions,
			Body: map[string]any{
				"trx_id":  trxID,
				"account": account,
				"name":    at.Name,
				"data":    o.encodeAny(account, at.Data),
			},
		}
		actionDoc.Stamp(now)
		if _, err := o.store.Index(ctx, actionDoc.Kind, actionDoc.Body, ""); err != nil {
			return err
		}

		if at.Name != "setabi" {
			continue
		}
		if err := o.captureSetabi(ctx, account, at.Data); err != nil {
			return err
		}
	}
	return nil
}

// captureSetabi upserts the accounts document for account, keyed by the
// account name, with its newly set ABI, so later ABI cache misses for the
// account resolve to it. An account already held in the ABI cache keeps its
// cached descriptor until it is evicted.
func (o *Orchestrator) captureSetabi(ctx context.Context, account string, data any) error {
	fields, ok := data.(map[string]any)
	if !ok {
		return nil
	}
	abi, ok := fields["abi"]
	if !ok {
		return nil
	}
	_, err := o.store.Index(ctx, model.KindAccounts, map[string]any{
		"name": account,
		"abi":  abi,
	}, account)
	return err
}
