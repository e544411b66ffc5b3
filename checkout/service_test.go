package checkout_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/alovak/checkout-playground/checkout"
	"github.com/alovak/checkout-playground/gateway"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

type fakeGateway struct {
	generateClientTokenFn func(ctx context.Context) (string, error)
	submitSaleFn          func(ctx context.Context, req gateway.SaleRequest) (*gateway.Result, error)
	findTransactionFn     func(ctx context.Context, id string) (*gateway.Transaction, error)
}

func (f *fakeGateway) GenerateClientToken(ctx context.Context) (string, error) {
	return f.generateClientTokenFn(ctx)
}

func (f *fakeGateway) SubmitSale(ctx context.Context, req gateway.SaleRequest) (*gateway.Result, error) {
	return f.submitSaleFn(ctx, req)
}

func (f *fakeGateway) FindTransaction(ctx context.Context, id string) (*gateway.Transaction, error) {
	return f.findTransactionFn(ctx, id)
}

func newTestService(gw checkout.Gateway) *checkout.Service {
	return checkout.NewService(gw, gateway.DefaultSuccessStatuses())
}

func TestProcessCheckoutInvalidAmount(t *testing.T) {
	gw := &fakeGateway{
		submitSaleFn: func(ctx context.Context, req gateway.SaleRequest) (*gateway.Result, error) {
			t.Fatal("gateway must not be called for an invalid amount")
			return nil, nil
		},
	}

	result, err := newTestService(gw).ProcessCheckout(context.Background(), "abc", "fake-valid-nonce")
	require.NoError(t, err)
	require.Empty(t, result.TransactionID)
	require.Equal(t, "Error: 81503: Amount is an invalid format.", result.ErrorDetails)
}

func TestProcessCheckoutSuccess(t *testing.T) {
	gw := &fakeGateway{
		submitSaleFn: func(ctx context.Context, req gateway.SaleRequest) (*gateway.Result, error) {
			require.True(t, req.Options.SubmitForSettlement)
			require.True(t, req.Amount.Equal(decimal.RequireFromString("10.00")))
			require.Equal(t, "fake-valid-nonce", req.PaymentMethodNonce)

			return &gateway.Result{
				Transaction: &gateway.Transaction{ID: "txn123", Status: gateway.StatusSubmittedForSettlement},
			}, nil
		},
	}

	result, err := newTestService(gw).ProcessCheckout(context.Background(), "10.00", "fake-valid-nonce")
	require.NoError(t, err)
	require.Equal(t, "txn123", result.TransactionID)
	require.Empty(t, result.ErrorDetails)
}

func TestProcessCheckoutProcessorDecline(t *testing.T) {
	// A decline that still produced a transaction routes to the transaction
	// view; the errors travelling with it are not surfaced.
	gw := &fakeGateway{
		submitSaleFn: func(ctx context.Context, req gateway.SaleRequest) (*gateway.Result, error) {
			return &gateway.Result{
				Transaction: &gateway.Transaction{ID: "txn456", Status: gateway.StatusProcessorDeclined},
				Errors: &gateway.ValidationErrors{
					Errors: []gateway.ValidationError{{Code: "2000", Message: "Do Not Honor"}},
				},
			}, nil
		},
	}

	result, err := newTestService(gw).ProcessCheckout(context.Background(), "2000.00", "fake-valid-nonce")
	require.NoError(t, err)
	require.Equal(t, "txn456", result.TransactionID)
	require.Empty(t, result.ErrorDetails)
}

func TestProcessCheckoutValidationFailure(t *testing.T) {
	gw := &fakeGateway{
		submitSaleFn: func(ctx context.Context, req gateway.SaleRequest) (*gateway.Result, error) {
			return &gateway.Result{
				Errors: &gateway.ValidationErrors{
					Errors: []gateway.ValidationError{
						{Code: "81503", Message: "Amount is an invalid format."},
						{Code: "91565", Message: "Unknown or expired payment_method_nonce."},
					},
				},
			}, nil
		},
	}

	result, err := newTestService(gw).ProcessCheckout(context.Background(), "10.00", "bogus")
	require.NoError(t, err)
	require.Empty(t, result.TransactionID)
	require.Equal(t,
		"Error: 81503: Amount is an invalid format.\nError: 91565: Unknown or expired payment_method_nonce.\n",
		result.ErrorDetails)
}

func TestProcessCheckoutTransportFailurePropagates(t *testing.T) {
	gw := &fakeGateway{
		submitSaleFn: func(ctx context.Context, req gateway.SaleRequest) (*gateway.Result, error) {
			return nil, fmt.Errorf("connection refused")
		},
	}

	_, err := newTestService(gw).ProcessCheckout(context.Background(), "10.00", "fake-valid-nonce")
	require.Error(t, err)
	require.Contains(t, err.Error(), "connection refused")
}

func TestLookupTransaction(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		gw := &fakeGateway{
			findTransactionFn: func(ctx context.Context, id string) (*gateway.Transaction, error) {
				require.Equal(t, "txn123", id)
				return &gateway.Transaction{ID: id, Status: gateway.StatusSettled}, nil
			},
		}

		transaction, isSuccess, err := newTestService(gw).LookupTransaction(context.Background(), "txn123")
		require.NoError(t, err)
		require.True(t, isSuccess)
		require.Equal(t, "txn123", transaction.ID)
	})

	t.Run("declined transaction is not successful", func(t *testing.T) {
		gw := &fakeGateway{
			findTransactionFn: func(ctx context.Context, id string) (*gateway.Transaction, error) {
				return &gateway.Transaction{ID: id, Status: gateway.StatusProcessorDeclined}, nil
			},
		}

		_, isSuccess, err := newTestService(gw).LookupTransaction(context.Background(), "txn456")
		require.NoError(t, err)
		require.False(t, isSuccess)
	})

	t.Run("not found", func(t *testing.T) {
		gw := &fakeGateway{
			findTransactionFn: func(ctx context.Context, id string) (*gateway.Transaction, error) {
				return nil, gateway.ErrNotFound
			},
		}

		_, _, err := newTestService(gw).LookupTransaction(context.Background(), "missing")
		require.ErrorIs(t, err, gateway.ErrNotFound)
	})
}

func TestIsSuccessfulCoversWholeEnumeration(t *testing.T) {
	successful := map[gateway.TransactionStatus]bool{
		gateway.StatusAuthorized:             true,
		gateway.StatusAuthorizing:            true,
		gateway.StatusSettled:                true,
		gateway.StatusSettlementConfirmed:    true,
		gateway.StatusSettlementPending:      true,
		gateway.StatusSettling:               true,
		gateway.StatusSubmittedForSettlement: true,

		gateway.StatusAuthorizationExpired: false,
		gateway.StatusFailed:               false,
		gateway.StatusGatewayRejected:      false,
		gateway.StatusProcessorDeclined:    false,
		gateway.StatusSettlementDeclined:   false,
		gateway.StatusVoided:               false,
	}

	service := newTestService(&fakeGateway{})
	for status, want := range successful {
		require.Equal(t, want, service.IsSuccessful(status), "status=%s", status)
	}

	// The success set is exactly the default configuration, nothing more.
	require.Len(t, gateway.DefaultSuccessStatuses(), 7)
}
