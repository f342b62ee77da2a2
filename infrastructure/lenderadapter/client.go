// Package lenderadapter implements domain/interfaces.LenderPool against an
// HTTP lending pool service, carrying the original BlendRequest{request_type,
// address, amount} shape across the wire (SPEC_FULL.md section 6).
package lenderadapter

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
	"github.com/luckystake/pool-engine/domain/interfaces"
)

// Client is an HTTP client for an external lending pool.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new lender adapter client.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// blendRequest carries the original lending pool integration's
// BlendRequest{request_type, address, amount} shape across the wire
// (SPEC_FULL.md section 6).
type blendRequest struct {
	RequestType int             `json:"request_type"`
	Address     string          `json:"address"`
	Amount      decimal.Decimal `json:"amount"`
}

// Supply asks the lender to accept amount as collateral on the pool's
// behalf.
func (c *Client) Supply(ctx context.Context, req interfaces.SupplyRequest) error {
	_, err := c.doRequest(ctx, "/supply", blendRequest{
		RequestType: req.RequestType,
		Address:     req.Address,
		Amount:      req.Amount,
	})
	if err != nil {
		return fmt.Errorf("%w: %v", entities.ErrLenderRejected, err)
	}
	return nil
}

// Withdraw asks the lender to return amount.
func (c *Client) Withdraw(ctx context.Context, req interfaces.WithdrawRequest) error {
	_, err := c.doRequest(ctx, "/withdraw", blendRequest{
		RequestType: req.RequestType,
		Address:     req.Address,
		Amount:      req.Amount,
	})
	if err != nil {
		return fmt.Errorf("%w: %v", entities.ErrLenderRejected, err)
	}
	return nil
}

func (c *Client) doRequest(ctx context.Context, path string, body interface{}) ([]byte, error) {
	url := c.baseURL + path

	jsonData, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonData))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

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
		return nil, fmt.Errorf("lender pool error %d: %s", resp.StatusCode, string(data))
	}

	return data, nil
}
