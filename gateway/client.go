package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Client talks to the payment gateway's REST API. It holds only the base URL
// and an http.Client, so a single instance is safe to share across requests.
type Client struct {
	base string
	http *http.Client
}

// NewClient returns a gateway client for the given base URL. A nil hc gets a
// default client with a 10s timeout; deadlines beyond that belong to the
// caller's context.
func NewClient(base string, hc *http.Client) *Client {
	if hc == nil {
		hc = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{base: strings.TrimRight(base, "/"), http: hc}
}

// GenerateClientToken obtains a client token for the payment form widget.
func (c *Client) GenerateClientToken(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+"/client_token", nil)
	if err != nil {
		return "", fmt.Errorf("building request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("client_token: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		return "", unexpectedStatus("client_token", resp)
	}

	var payload struct {
		ClientToken string `json:"clientToken"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("decode client_token: %w", err)
	}

	return payload.ClientToken, nil
}

// SubmitSale submits a sale for authorization and settlement. Both accepted
// and rejected sales come back as a Result; an error means the submission
// itself failed in transit and the outcome is unknown.
func (c *Client) SubmitSale(ctx context.Context, saleReq SaleRequest) (*Result, error) {
	b, err := json.Marshal(saleReq)
	if err != nil {
		return nil, fmt.Errorf("encode sale: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+"/transactions", bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sale: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusUnprocessableEntity {
		return nil, unexpectedStatus("sale", resp)
	}

	result := &Result{}
	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return nil, fmt.Errorf("decode sale result: %w", err)
	}

	return result, nil
}

// FindTransaction fetches a transaction by id. Unknown ids return ErrNotFound.
func (c *Client) FindTransaction(ctx context.Context, id string) (*Transaction, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+"/transactions/"+id, nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("find transaction: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return nil, unexpectedStatus("find transaction", resp)
	}

	transaction := &Transaction{}
	if err := json.NewDecoder(resp.Body).Decode(transaction); err != nil {
		return nil, fmt.Errorf("decode transaction: %w", err)
	}

	return transaction, nil
}

// Ping checks gateway liveness. Used by readiness probes, not by checkout.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+"/-/live", nil)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return unexpectedStatus("ping", resp)
	}

	return nil
}

func unexpectedStatus(op string, resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	return fmt.Errorf("%s status=%d body=%s", op, resp.StatusCode, strings.TrimSpace(string(body)))
}
