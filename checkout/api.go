package checkout

import (
	"embed"
	"errors"
	"html/template"
	"net/http"

	"github.com/alovak/checkout-playground/gateway"
	"github.com/go-chi/chi/v5"
	"golang.org/x/exp/slog"
)

//go:embed templates/*.html
var templateFS embed.FS

// API is the HTML boundary of the checkout app.
type API struct {
	service   *Service
	flash     *Flash
	logger    *slog.Logger
	templates *template.Template
}

func NewAPI(service *Service, flash *Flash, logger *slog.Logger) *API {
	return &API{
		service:   service,
		flash:     flash,
		logger:    logger,
		templates: template.Must(template.ParseFS(templateFS, "templates/*.html")),
	}
}

func (a *API) AppendRoutes(r chi.Router) {
	r.Get("/", a.root)
	r.Route("/checkouts", func(r chi.Router) {
		r.Get("/", a.newCheckout)
		r.Post("/", a.createCheckout)
		r.Get("/{transactionID}", a.showTransaction)
	})
}

func (a *API) root(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/checkouts", http.StatusFound)
}

func (a *API) newCheckout(w http.ResponseWriter, r *http.Request) {
	token, err := a.service.ClientToken(r.Context())
	if err != nil {
		a.logger.Error("generating client token", "err", err)
		http.Error(w, "payment gateway unavailable", http.StatusBadGateway)
		return
	}

	errorDetails, _ := a.flash.Take(w, r)

	a.render(w, "new.html", map[string]any{
		"ClientToken":  token,
		"ErrorDetails": errorDetails,
	})
}

func (a *API) createCheckout(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	amount := r.PostFormValue("amount")
	nonce := r.PostFormValue("payment_method_nonce")

	result, err := a.service.ProcessCheckout(r.Context(), amount, nonce)
	if err != nil {
		// The submission itself failed; the outcome at the gateway is
		// unknown, so this must not turn into a silent redirect.
		a.logger.Error("submitting checkout", "err", err)
		http.Error(w, "payment gateway unavailable", http.StatusBadGateway)
		return
	}

	if result.TransactionID != "" {
		http.Redirect(w, r, "/checkouts/"+result.TransactionID, http.StatusSeeOther)
		return
	}

	a.flash.Set(w, result.ErrorDetails)
	http.Redirect(w, r, "/checkouts", http.StatusSeeOther)
}

func (a *API) showTransaction(w http.ResponseWriter, r *http.Request) {
	transactionID := chi.URLParam(r, "transactionID")

	transaction, isSuccess, err := a.service.LookupTransaction(r.Context(), transactionID)
	if err != nil {
		// A failed lookup is harmless to hide: log it and send the user back
		// to the form without leaking gateway internals.
		if errors.Is(err, gateway.ErrNotFound) {
			a.logger.Info("transaction not found", slog.String("transaction_id", transactionID))
		} else {
			a.logger.Error("finding transaction", "err", err)
		}
		http.Redirect(w, r, "/checkouts", http.StatusFound)
		return
	}

	a.render(w, "show.html", map[string]any{
		"Transaction": transaction,
		"CreditCard":  transaction.CreditCard,
		"Customer":    transaction.Customer,
		"IsSuccess":   isSuccess,
	})
}

func (a *API) render(w http.ResponseWriter, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := a.templates.ExecuteTemplate(w, name, data); err != nil {
		a.logger.Error("rendering template", "err", err, slog.String("template", name))
	}
}
