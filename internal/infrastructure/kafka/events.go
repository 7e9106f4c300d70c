package publisher

import "time"

const (
	LedgerTopic     = "ledger-events"
	WithdrawalTopic = "withdrawal-events"
)

type LedgerEvent struct {
	EntryID       string    `json:"entry_id"`
	MemberID      string    `json:"member_id"`
	Kind          string    `json:"kind"`
	Amount        string    `json:"amount"`
	ExternalTxRef string    `json:"external_tx_ref,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

type WithdrawalEvent struct {
	RequestID     string `json:"request_id"`
	MemberID      string `json:"member_id"`
	Status        string `json:"status"`
	Net           string `json:"net"`
	ExternalTxRef string `json:"external_tx_ref,omitempty"`
}

type EventPublisher interface {
	PublishLedgerEvent(event LedgerEvent) error
	PublishWithdrawalEvent(event WithdrawalEvent) error
}
