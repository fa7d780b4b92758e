// Package session tracks the pending continuation per user: the next
// free-text reply an in-progress flow is waiting for. At most one
// continuation is outstanding per user; a fresh prompt replaces it.
package session

import "context"

type Kind string

const (
	// KindDepositEvidence awaits "TXID AMOUNT" for an open deposit.
	KindDepositEvidence Kind = "deposit_evidence"
	// KindUploadLine awaits a "Brand,Value,Price,Code" line from the admin.
	KindUploadLine Kind = "upload_line"
	// KindUserLookup awaits a numeric user id from the admin.
	KindUserLookup Kind = "user_lookup"
	// KindBINQuery awaits a 6-digit BIN from the user.
	KindBINQuery Kind = "bin_query"
)

type Continuation struct {
	Kind      Kind   `json:"kind"`
	DepositID uint   `json:"deposit_id,omitempty"`
	Coin      string `json:"coin,omitempty"`
}

type Store interface {
	// Put replaces any prior continuation for the user.
	Put(ctx context.Context, userID int64, c Continuation) error
	// Pop returns the user's continuation, clearing it, and reports
	// whether one was pending.
	Pop(ctx context.Context, userID int64) (Continuation, bool, error)
	Clear(ctx context.Context, userID int64) error
}
