package simulator_test

import (
	"context"
	"database/sql"
	"os"
	"testing"
	"time"

	"github.com/alovak/checkout-playground/gateway"
	"github.com/alovak/checkout-playground/gateway/simulator"
	"github.com/google/uuid"
	_ "github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func testTransaction() *gateway.Transaction {
	return &gateway.Transaction{
		ID:       uuid.New().String(),
		Type:     "sale",
		Status:   gateway.StatusSubmittedForSettlement,
		Amount:   decimal.RequireFromString("10.00"),
		Currency: "USD",
		CreditCard: gateway.CreditCard{
			CardType:       "Visa",
			Last4:          "1111",
			MaskedNumber:   "411111******1111",
			ExpirationDate: "12/2028",
		},
		Customer: gateway.Customer{
			FirstName: "Jen",
			LastName:  "Smith",
			Email:     "jen@example.com",
		},
		CreatedAt: time.Now().UTC(),
	}
}

func TestRepository(t *testing.T) {
	repo := simulator.NewRepository()
	ctx := context.Background()

	transaction := testTransaction()
	require.NoError(t, repo.CreateTransaction(ctx, transaction))

	t.Run("duplicate id conflicts", func(t *testing.T) {
		err := repo.CreateTransaction(ctx, transaction)
		require.ErrorIs(t, err, simulator.ErrConflict)
	})

	t.Run("get returns a copy", func(t *testing.T) {
		got, err := repo.GetTransaction(ctx, transaction.ID)
		require.NoError(t, err)
		require.Equal(t, transaction.ID, got.ID)

		got.Status = gateway.StatusVoided
		again, err := repo.GetTransaction(ctx, transaction.ID)
		require.NoError(t, err)
		require.Equal(t, gateway.StatusSubmittedForSettlement, again.Status)
	})

	t.Run("update status", func(t *testing.T) {
		require.NoError(t, repo.UpdateTransactionStatus(ctx, transaction.ID, gateway.StatusSettled))

		got, err := repo.GetTransaction(ctx, transaction.ID)
		require.NoError(t, err)
		require.Equal(t, gateway.StatusSettled, got.Status)
	})

	t.Run("unknown id", func(t *testing.T) {
		_, err := repo.GetTransaction(ctx, "missing")
		require.ErrorIs(t, err, gateway.ErrNotFound)

		err = repo.UpdateTransactionStatus(ctx, "missing", gateway.StatusSettled)
		require.ErrorIs(t, err, gateway.ErrNotFound)
	})
}

// TestPGRepository runs the same flow against Postgres. Skips unless
// GATEWAY_DB_DSN is provided.
func TestPGRepository(t *testing.T) {
	dsn := os.Getenv("GATEWAY_DB_DSN")
	if dsn == "" {
		t.Skip("GATEWAY_DB_DSN not set; skipping DB integration test")
	}

	db, err := sql.Open("postgres", dsn)
	require.NoError(t, err)
	defer db.Close()
	require.NoError(t, db.Ping())

	repo := simulator.NewPGRepository(db)
	ctx := context.Background()

	transaction := testTransaction()
	require.NoError(t, repo.CreateTransaction(ctx, transaction))

	err = repo.CreateTransaction(ctx, transaction)
	require.ErrorIs(t, err, simulator.ErrConflict)

	got, err := repo.GetTransaction(ctx, transaction.ID)
	require.NoError(t, err)
	require.True(t, got.Amount.Equal(transaction.Amount))
	require.Equal(t, transaction.CreditCard, got.CreditCard)

	require.NoError(t, repo.UpdateTransactionStatus(ctx, transaction.ID, gateway.StatusSettled))
	got, err = repo.GetTransaction(ctx, transaction.ID)
	require.NoError(t, err)
	require.Equal(t, gateway.StatusSettled, got.Status)
}
