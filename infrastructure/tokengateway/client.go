// Package tokengateway implements domain/interfaces.TokenGateway against an
// HTTP token-ledger service, the re-expression of the deposit token
// contract spec section 4.1 describes.
package tokengateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/luckystake/pool-engine/domain/entities"
)

// Client is an HTTP client for the token ledger service.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new token gateway client.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type transferRequest struct {
	From   string          `json:"from"`
	To     string          `json:"to"`
	Amount decimal.Decimal `json:"amount"`
}

type transferFromRequest struct {
	Spender string          `json:"spender"`
	From    string          `json:"from"`
	To      string          `json:"to"`
	Amount  decimal.Decimal `json:"amount"`
}

type approveAndTransferFromRequest struct {
	Owner     string          `json:"owner"`
	Spender   string          `json:"spender"`
	Recipient string          `json:"recipient"`
	Amount    decimal.Decimal `json:"amount"`
}

type balanceResponse struct {
	Balance decimal.Decimal `json:"balance"`
}

// Transfer moves amount base units from "from" to "to".
func (c *Client) Transfer(ctx context.Context, from, to string, amount decimal.Decimal) error {
	_, err := c.doRequest(ctx, http.MethodPost, "/transfer", transferRequest{From: from, To: to, Amount: amount})
	if err != nil {
		return fmt.Errorf("%w: %v", entities.ErrTokenTransferFailed, err)
	}
	return nil
}

// TransferFrom moves amount base units from "from" to "to" using an
// allowance previously granted to "spender".
func (c *Client) TransferFrom(ctx context.Context, spender, from, to string, amount decimal.Decimal) error {
	_, err := c.doRequest(ctx, http.MethodPost, "/transfer-from", transferFromRequest{
		Spender: spender, From: from, To: to, Amount: amount,
	})
	if err != nil {
		return fmt.Errorf("%w: %v", entities.ErrTokenTransferFailed, err)
	}
	return nil
}

// ApproveAndTransferFrom grants spender an allowance for amount and has
// spender immediately consume it, so no allowance is ever left dangling.
func (c *Client) ApproveAndTransferFrom(ctx context.Context, owner, spender, recipient string, amount decimal.Decimal) error {
	_, err := c.doRequest(ctx, http.MethodPost, "/approve-and-transfer-from", approveAndTransferFromRequest{
		Owner: owner, Spender: spender, Recipient: recipient, Amount: amount,
	})
	if err != nil {
		return fmt.Errorf("%w: %v", entities.ErrTokenTransferFailed, err)
	}
	return nil
}

// BalanceOf returns the current token balance held by address.
func (c *Client) BalanceOf(ctx context.Context, address string) (decimal.Decimal, error) {
	data, err := c.doRequest(ctx, http.MethodGet, "/balance/"+address, nil)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %v", entities.ErrTokenTransferFailed, err)
	}

	var resp balanceResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return decimal.Zero, fmt.Errorf("failed to unmarshal balance response: %w", err)
	}
	return resp.Balance, nil
}

func (c *Client) doRequest(ctx context.Context, method, path string, body interface{}) ([]byte, error) {
	url := c.baseURL + path

	var reqBody io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal body: %w", err)
		}
		reqBody = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("token gateway error %d: %s", resp.StatusCode, string(data))
	}

	return data, nil
}
