package domain

import "errors"

var (
	ErrInvalidAmount          = errors.New("invalid amount")
	ErrUnknownMember          = errors.New("unknown member")
	ErrMemberInactive         = errors.New("member is not active")
	ErrMemberAlreadyExists    = errors.New("member already exists")
	ErrDuplicateTransaction   = errors.New("duplicate external transaction")
	ErrInsufficientFunds      = errors.New("insufficient funds")
	ErrRequestNotPending      = errors.New("withdrawal request is not pending")
	ErrInvalidStateTransition = errors.New("invalid withdrawal state transition")
	ErrMissingExternalRef     = errors.New("missing external transaction reference")
	ErrCyclicSponsorChain     = errors.New("cyclic sponsor chain")
	ErrInvalidWalletAddress   = errors.New("invalid wallet address format")
	ErrPaymentRejected        = errors.New("payment rejected")
	ErrPaymentTimeout         = errors.New("payment timed out")
	ErrRequestNotFound        = errors.New("withdrawal request not found")
	ErrEntryNotFound          = errors.New("ledger entry not found")
)
