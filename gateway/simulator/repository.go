package simulator

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	"github.com/alovak/checkout-playground/gateway"
	"github.com/jackc/pgconn"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

var ErrConflict = fmt.Errorf("conflict")

// Repository stores the sandbox's transactions. It runs in-memory by default
// and against Postgres when constructed with NewPGRepository.
type Repository struct {
	mu           sync.RWMutex
	transactions map[string]*gateway.Transaction

	db *sql.DB
}

func NewRepository() *Repository {
	return &Repository{
		transactions: make(map[string]*gateway.Transaction),
	}
}

// NewPGRepository constructs a db-backed repository.
func NewPGRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) CreateTransaction(ctx context.Context, transaction *gateway.Transaction) error {
	if r.db == nil {
		r.mu.Lock()
		defer r.mu.Unlock()
		if _, ok := r.transactions[transaction.ID]; ok {
			return fmt.Errorf("transaction id exists: %w", ErrConflict)
		}
		copied := *transaction
		r.transactions[transaction.ID] = &copied
		return nil
	}

	_, err := r.db.ExecContext(ctx, `
        INSERT INTO sandbox.transactions(
            tx_id, tx_type, status, amount, currency,
            card_type, card_last4, card_masked, card_expiration,
            customer_first_name, customer_last_name, customer_email, created_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
    `, transaction.ID, transaction.Type, string(transaction.Status), transaction.Amount.String(), transaction.Currency,
		transaction.CreditCard.CardType, transaction.CreditCard.Last4, transaction.CreditCard.MaskedNumber, transaction.CreditCard.ExpirationDate,
		transaction.Customer.FirstName, transaction.Customer.LastName, transaction.Customer.Email, transaction.CreatedAt)
	if isUniqueViolation(err) {
		return ErrConflict
	}
	return err
}

func (r *Repository) GetTransaction(ctx context.Context, id string) (*gateway.Transaction, error) {
	if r.db == nil {
		r.mu.RLock()
		defer r.mu.RUnlock()
		transaction, ok := r.transactions[id]
		if !ok {
			return nil, gateway.ErrNotFound
		}
		copied := *transaction
		return &copied, nil
	}

	row := r.db.QueryRowContext(ctx, `
        SELECT tx_id, tx_type, status, amount, currency,
               card_type, card_last4, card_masked, card_expiration,
               customer_first_name, customer_last_name, customer_email, created_at
          FROM sandbox.transactions WHERE tx_id=$1
    `, id)

	var t gateway.Transaction
	var status, amount string
	err := row.Scan(&t.ID, &t.Type, &status, &amount, &t.Currency,
		&t.CreditCard.CardType, &t.CreditCard.Last4, &t.CreditCard.MaskedNumber, &t.CreditCard.ExpirationDate,
		&t.Customer.FirstName, &t.Customer.LastName, &t.Customer.Email, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, gateway.ErrNotFound
		}
		return nil, err
	}

	t.Status = gateway.TransactionStatus(status)
	t.Amount, err = decimal.NewFromString(amount)
	if err != nil {
		return nil, fmt.Errorf("stored amount %q: %w", amount, err)
	}

	return &t, nil
}

func (r *Repository) UpdateTransactionStatus(ctx context.Context, id string, status gateway.TransactionStatus) error {
	if r.db == nil {
		r.mu.Lock()
		defer r.mu.Unlock()
		transaction, ok := r.transactions[id]
		if !ok {
			return gateway.ErrNotFound
		}
		transaction.Status = status
		return nil
	}

	res, err := r.db.ExecContext(ctx, `UPDATE sandbox.transactions SET status=$2 WHERE tx_id=$1`, id, string(status))
	if err != nil {
		return err
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return gateway.ErrNotFound
	}
	return nil
}

// Ping returns store readiness.
func (r *Repository) Ping(ctx context.Context) error {
	if r.db == nil {
		return nil
	}
	return r.db.PingContext(ctx)
}

func isUniqueViolation(err error) bool {
	var pe *pq.Error
	if errors.As(err, &pe) && pe.Code == "23505" {
		return true
	}
	var pgerr *pgconn.PgError
	if errors.As(err, &pgerr) && pgerr.Code == "23505" {
		return true
	}
	return false
}
