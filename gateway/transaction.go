package gateway

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionStatus is the gateway's lifecycle state for a transaction. The
// gateway owns this enumeration; the checkout app only classifies against it.
type TransactionStatus string

const (
	StatusAuthorizationExpired   TransactionStatus = "AUTHORIZATION_EXPIRED"
	StatusAuthorized             TransactionStatus = "AUTHORIZED"
	StatusAuthorizing            TransactionStatus = "AUTHORIZING"
	StatusFailed                 TransactionStatus = "FAILED"
	StatusGatewayRejected        TransactionStatus = "GATEWAY_REJECTED"
	StatusProcessorDeclined      TransactionStatus = "PROCESSOR_DECLINED"
	StatusSettled                TransactionStatus = "SETTLED"
	StatusSettlementConfirmed    TransactionStatus = "SETTLEMENT_CONFIRMED"
	StatusSettlementDeclined     TransactionStatus = "SETTLEMENT_DECLINED"
	StatusSettlementPending      TransactionStatus = "SETTLEMENT_PENDING"
	StatusSettling               TransactionStatus = "SETTLING"
	StatusSubmittedForSettlement TransactionStatus = "SUBMITTED_FOR_SETTLEMENT"
	StatusVoided                 TransactionStatus = "VOIDED"
)

// DefaultSuccessStatuses returns the statuses a transaction may carry and
// still count as successful for display. Membership in this set is the sole
// arbiter of the success flag on the transaction view.
func DefaultSuccessStatuses() []TransactionStatus {
	return []TransactionStatus{
		StatusAuthorized,
		StatusAuthorizing,
		StatusSettled,
		StatusSettlementConfirmed,
		StatusSettlementPending,
		StatusSettling,
		StatusSubmittedForSettlement,
	}
}

// CreditCard is the gateway's summary of the card used for a transaction.
// Only masked data ever crosses this boundary.
type CreditCard struct {
	CardType       string `json:"cardType"`
	Last4          string `json:"last4"`
	MaskedNumber   string `json:"maskedNumber"`
	ExpirationDate string `json:"expirationDate"`
}

type Customer struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
}

// Transaction is the gateway's record of a sale. The gateway is the system of
// record; the checkout app holds a read-only copy for one request cycle.
type Transaction struct {
	ID         string            `json:"id"`
	Type       string            `json:"type"`
	Status     TransactionStatus `json:"status"`
	Amount     decimal.Decimal   `json:"amount"`
	Currency   string            `json:"currency"`
	CreditCard CreditCard        `json:"creditCard"`
	Customer   Customer          `json:"customer"`
	CreatedAt  time.Time         `json:"createdAt"`
}
