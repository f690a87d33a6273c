package blacklist

// blacklistTableLimit is the hard-coded row limit for on-chain table reads;
// no pagination is implemented here.
const blacklistTableLimit = 100

// TableRow is one row of an on-chain table read, shaped generically enough
// to cover both the `theblacklist` and `producerhash` tables.
type TableRow struct {
	Type     string   `json:"type"`
	Accounts []string `json:"accounts"`
	Producer string   `json:"producer"`
	Hash     string   `json:"hash"`
}

// ChainReader is the on-chain table read surface. A real host node
// implements it against its read-only API.
type ChainReader interface {
	// ReadTable returns up to limit rows of (code, scope, table).
	ReadTable(code, scope, table string, limit int) ([]TableRow, error)
}

// LocalBlacklistSource supplies the locally configured actor-blacklist
// account names.
type LocalBlacklistSource interface {
	ActorBlacklist() []string
}

// CheckResult is the response body of POST /v1/blacklist/check_hash.
type CheckResult struct {
	LocalHash     string `json:"local_hash"`
	OnchainHash   string `json:"onchain_hash"`
	SubmittedHash string `json:"submitted_hash"`
	Message       string `json:"msg"`
}

// Reconciler implements the check_hash reconciliation operation.
type Reconciler struct {
	chain        ChainReader
	local        LocalBlacklistSource
	contract     string
	producerName string
}

// New builds a Reconciler. contract is the configured blacklist contract
// account (default "theblacklist"); producerName is the `producer-name`
// option, consumed if set.
func New(chain ChainReader, local LocalBlacklistSource, contract, producerName string) *Reconciler {
	return &Reconciler{chain: chain, local: local, contract: contract, producerName: producerName}
}

// CheckHash runs the local/on-chain/submitted hash comparison end to end.
func (r *Reconciler) CheckHash() (CheckResult, error) {
	localAccounts := r.local.ActorBlacklist()

	onchainAccounts, err := r.readOnchainBlacklist()
	if err != nil {
		return CheckResult{}, err
	}

	submittedHash, err := r.readSubmittedHash()
	if err != nil {
		return CheckResult{}, err
	}

	localHash := Fingerprint(localAccounts)
	onchainHash := Fingerprint(onchainAccounts)

	msg := "OK"
	switch {
	case localHash != onchainHash:
		msg = "local and ecaf hash MISMATCH!"
	case localHash != submittedHash:
		// Covers both a genuinely different submitted hash and an
		// empty one: "" never equals a real SHA-256 hex digest, so it
		// reads as a mismatch too.
		msg = "local and submitted hash MISMATCH!"
	}

	return CheckResult{
		LocalHash:     localHash,
		OnchainHash:   onchainHash,
		SubmittedHash: submittedHash,
		Message:       msg,
	}, nil
}

// readOnchainBlacklist reads the (theblacklist, theblacklist, theblacklist)
// table, keeps rows with type == "actor-blacklist", and flattens their
// accounts arrays.
func (r *Reconciler) readOnchainBlacklist() ([]string, error) {
	rows, err := r.chain.ReadTable(r.contract, r.contract, "theblacklist", blacklistTableLimit)
	if err != nil {
		return nil, err
	}
	var accounts []string
	for _, row := range rows {
		if row.Type != "actor-blacklist" {
			continue
		}
		accounts = append(accounts, row.Accounts...)
	}
	return accounts, nil
}

// readSubmittedHash reads the (theblacklist, theblacklist, producerhash)
// table and returns the hash submitted by the configured producer, or ""
// if none matches.
func (r *Reconciler) readSubmittedHash() (string, error) {
	rows, err := r.chain.ReadTable(r.contract, r.contract, "producerhash", blacklistTableLimit)
	if err != nil {
		return "", err
	}
	for _, row := range rows {
		if row.Producer == r.producerName {
			return row.Hash, nil
		}
	}
	return "", nil
}
