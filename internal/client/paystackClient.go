package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"artmarket-storefront/internal/config"
)

type PaystackClient interface {
	// VerifyTransaction looks up a transaction the buyer completed in the Paystack popup.
	VerifyTransaction(ctx context.Context, reference string) (*PaystackTransaction, error)
}

type PaystackTransaction struct {
	Reference     string
	Status        string
	AmountKobo    int64
	Currency      string
	PaidAt        string
	CustomerEmail string
}

type paystackClientImpl struct {
	httpClient *http.Client
	baseApiURL string
	secretKey  string
}

func NewPaystackClient(cfg *config.Paystack) PaystackClient {
	return &paystackClientImpl{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		baseApiURL: strings.TrimRight(cfg.BaseApiURL, "/"),
		secretKey:  cfg.SecretKey,
	}
}

func (c *paystackClientImpl) VerifyTransaction(ctx context.Context, reference string) (*PaystackTransaction, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseApiURL+"/transaction/verify/"+url.PathEscape(reference), nil)
	if err != nil {
		return nil, fmt.Errorf("http new request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("paystack verify request failed: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, newAPIError(resp.StatusCode, body)
	}

	var result struct {
		Status  bool   `json:"status"`
		Message string `json:"message"`
		Data    struct {
			Reference string `json:"reference"`
			Status    string `json:"status"`
			Amount    int64  `json:"amount"`
			Currency  string `json:"currency"`
			PaidAt    string `json:"paid_at"`
			Customer  struct {
				Email string `json:"email"`
			} `json:"customer"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("decode paystack response: %w", err)
	}
	if !result.Status {
		return nil, newAPIError(http.StatusBadGateway, body)
	}

	return &PaystackTransaction{
		Reference:     result.Data.Reference,
		Status:        result.Data.Status,
		AmountKobo:    result.Data.Amount,
		Currency:      result.Data.Currency,
		PaidAt:        result.Data.PaidAt,
		CustomerEmail: result.Data.Customer.Email,
	}, nil
}
