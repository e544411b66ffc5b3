package simulator

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/alovak/checkout-playground/gateway"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// API is the HTTP surface of the sandbox gateway.
type API struct {
	simulator *Service
	validate  *validator.Validate
}

func NewAPI(simulator *Service) *API {
	return &API{
		simulator: simulator,
		validate:  validator.New(),
	}
}

func (a *API) AppendRoutes(r chi.Router) {
	r.Post("/client_token", a.generateClientToken)
	r.Route("/transactions", func(r chi.Router) {
		r.Post("/", a.createSale)
		r.Get("/{transactionID}", a.getTransaction)
	})
}

type salePayload struct {
	Amount             string `json:"amount" validate:"required"`
	PaymentMethodNonce string `json:"payment_method_nonce" validate:"required"`
	Options            struct {
		SubmitForSettlement bool `json:"submit_for_settlement"`
	} `json:"options"`
}

func (a *API) generateClientToken(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusCreated, map[string]string{
		"clientToken": a.simulator.GenerateClientToken(),
	})
}

func (a *API) createSale(w http.ResponseWriter, r *http.Request) {
	var payload salePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := a.validate.Struct(payload); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, &gateway.Result{
			Errors: requiredFieldErrors(err),
		})
		return
	}

	amount, err := decimal.NewFromString(payload.Amount)
	if err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, rejected("81503", "Amount is an invalid format."))
		return
	}

	req := gateway.SaleRequest{
		Amount:             amount,
		PaymentMethodNonce: payload.PaymentMethodNonce,
	}
	req.Options.SubmitForSettlement = payload.Options.SubmitForSettlement

	result, err := a.simulator.Sale(r.Context(), req)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	code := http.StatusCreated
	if !result.Success() {
		code = http.StatusUnprocessableEntity
	}
	writeJSON(w, code, result)
}

func (a *API) getTransaction(w http.ResponseWriter, r *http.Request) {
	transactionID := chi.URLParam(r, "transactionID")

	transaction, err := a.simulator.FindTransaction(r.Context(), transactionID)
	if err != nil {
		if errors.Is(err, gateway.ErrNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
		} else {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
		return
	}

	writeJSON(w, http.StatusOK, transaction)
}

// requiredFieldErrors maps struct validation failures onto the gateway's
// numeric validation codes.
func requiredFieldErrors(err error) *gateway.ValidationErrors {
	out := &gateway.ValidationErrors{Children: map[string]*gateway.ValidationErrors{}}
	node := &gateway.ValidationErrors{}
	out.Children["transaction"] = node

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		node.Errors = append(node.Errors, gateway.ValidationError{Code: "91560", Message: "Transaction payload is invalid."})
		return out
	}

	for _, fe := range fieldErrs {
		switch fe.Field() {
		case "Amount":
			node.Errors = append(node.Errors, gateway.ValidationError{Code: "81502", Message: "Amount is required."})
		case "PaymentMethodNonce":
			node.Errors = append(node.Errors, gateway.ValidationError{Code: "91565", Message: "Unknown or expired payment_method_nonce."})
		default:
			node.Errors = append(node.Errors, gateway.ValidationError{Code: "91560", Message: "Transaction payload is invalid."})
		}
	}

	return out
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}
