package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/AlexZinkM/walletkeeper/internal/ledger"
)

const (
	coingeckoAPI = "https://api.coingecko.com/api/v3"
	solanaCoinID = "solana"
)

// CoinGeckoClient client for CoinGecko API
type CoinGeckoClient struct {
	baseURL string
	client  *http.Client
}

var _ ledger.PriceSource = (*CoinGeckoClient)(nil)

// NewCoinGeckoClient creates a new CoinGecko client. An empty baseURL
// means the public API.
func NewCoinGeckoClient(baseURL string) *CoinGeckoClient {
	if baseURL == "" {
		baseURL = coingeckoAPI
	}
	return &CoinGeckoClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// priceResponse is keyed by coin id, then by currency.
type priceResponse map[string]map[string]float64

// Rate gets the SOL price in currency (e.g. "usd", "rub").
func (c *CoinGeckoClient) Rate(ctx context.Context, currency string) (string, error) {
	currency = strings.ToLower(strings.TrimSpace(currency))
	if currency == "" {
		return "", errors.New("currency cannot be empty")
	}

	q := url.Values{}
	q.Set("ids", solanaCoinID)
	q.Set("vs_currencies", currency)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/simple/price?"+q.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("failed to build rate request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to get rate: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("failed to get rate: status %d", resp.StatusCode)
	}

	var priceResp priceResponse
	if err := json.NewDecoder(resp.Body).Decode(&priceResp); err != nil {
		return "", fmt.Errorf("failed to decode rate: %w", err)
	}

	rate, ok := priceResp[solanaCoinID][currency]
	if !ok {
		return "", fmt.Errorf("no %s rate in response", currency)
	}
	return strconv.FormatFloat(rate, 'f', 2, 64), nil
}
