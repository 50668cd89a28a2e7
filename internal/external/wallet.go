package external

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// WalletClient talks to the wallet service that holds guardians' non-cash
// credit balances. Cancellation credit and voucher reservations go through
// here; the core never holds balances itself.
type WalletClient struct {
	baseURL    string
	httpClient *http.Client
}

type WalletConfig struct {
	BaseURL string
	Timeout time.Duration
}

type WalletCreditRequest struct {
	GuardianID int64  `json:"guardian_id"`
	Amount     int64  `json:"amount"`
	Currency   string `json:"currency"`
	Reference  string `json:"reference"`
	Reason     string `json:"reason"`
}

type WalletCreditResponse struct {
	TransactionID string `json:"transaction_id"`
	Balance       int64  `json:"balance"`
}

type WalletReserveRequest struct {
	GuardianID int64  `json:"guardian_id"`
	Amount     int64  `json:"amount"`
	Currency   string `json:"currency"`
	Reference  string `json:"reference"`
}

type WalletReleaseRequest struct {
	GuardianID int64  `json:"guardian_id"`
	Reference  string `json:"reference"`
}

func NewWalletClient(cfg WalletConfig) *WalletClient {
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}

	return &WalletClient{
		baseURL: cfg.BaseURL,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// Credit adds cancellation credit to a guardian's wallet.
func (wc *WalletClient) Credit(req WalletCreditRequest) (*WalletCreditResponse, error) {
	jsonBody, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	resp, err := wc.httpClient.Post(wc.baseURL+"/api/v1/wallet/credit", "application/json", bytes.NewBuffer(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("failed to credit wallet: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var result WalletCreditResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return &result, nil
}

// Release returns a reservation's funds to the guardian's wallet, used when
// the booking it was held for falls through.
func (wc *WalletClient) Release(req WalletReleaseRequest) error {
	jsonBody, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	resp, err := wc.httpClient.Post(wc.baseURL+"/api/v1/wallet/release", "application/json", bytes.NewBuffer(jsonBody))
	if err != nil {
		return fmt.Errorf("failed to release wallet funds: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	return nil
}

// Reserve debits a guardian's wallet for the voucher portion of a booking.
func (wc *WalletClient) Reserve(req WalletReserveRequest) error {
	jsonBody, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	resp, err := wc.httpClient.Post(wc.baseURL+"/api/v1/wallet/reserve", "application/json", bytes.NewBuffer(jsonBody))
	if err != nil {
		return fmt.Errorf("failed to reserve wallet funds: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	return nil
}
