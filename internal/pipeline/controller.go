package pipeline

import "github.com/nodeplugins/esindex/internal/model"

// Controller is the upstream blockchain node's signal emitter. The node
// itself is an external collaborator — only this interface crosses the
// boundary. A real host node implements it; tests use a fake.
type Controller interface {
	SubscribeAcceptedTransaction(ch chan<- *model.TransactionMetadataEvent) Subscription
	SubscribeAppliedTransactionTrace(ch chan<- *model.TransactionTraceEvent) Subscription
	SubscribeAcceptedBlock(ch chan<- *model.BlockStateEvent) Subscription
	SubscribeIrreversibleBlock(ch chan<- *model.IrreversibleBlockEvent) Subscription
}
