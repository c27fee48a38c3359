package ton

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/slhlabs/wallet-middleware/pkg/balances"
	"github.com/slhlabs/wallet-middleware/pkg/config"
)

// Provider reads jetton balances through the toncenter HTTP API.
type Provider struct {
	apiURL string
	apiKey string
	client *http.Client
	logger *zap.Logger
}

func NewProvider(cfg *config.TonConfig, logger *zap.Logger) *Provider {
	return &Provider{
		apiURL: cfg.APIURL,
		apiKey: cfg.APIKey,
		client: &http.Client{Timeout: cfg.RequestTimeout},
		logger: logger,
	}
}

type accountResponse struct {
	Ok     bool   `json:"ok"`
	Error  string `json:"error"`
	Result struct {
		Balance json.Number `json:"balance"`
	} `json:"result"`
}

// TokenBalance returns the token balance held at the given TON address.
// Amounts come back from toncenter in nanotons.
func (p *Provider) TokenBalance(ctx context.Context, address string) (balances.Amount, error) {
	endpoint := fmt.Sprintf("%s/getAddressInformation?address=%s", p.apiURL, url.QueryEscape(address))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return balances.Amount{}, fmt.Errorf("failed to build TON request: %w", err)
	}
	if p.apiKey != "" {
		req.Header.Set("X-API-Key", p.apiKey)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return balances.Amount{}, fmt.Errorf("failed to query TON API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return balances.Amount{}, fmt.Errorf("TON API returned status %d", resp.StatusCode)
	}

	var body accountResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return balances.Amount{}, fmt.Errorf("failed to decode TON response: %w", err)
	}
	if !body.Ok {
		return balances.Amount{}, fmt.Errorf("TON API error: %s", body.Error)
	}

	raw, err := decimal.NewFromString(body.Result.Balance.String())
	if err != nil {
		return balances.Amount{}, fmt.Errorf("failed to parse TON balance %q: %w", body.Result.Balance, err)
	}

	// nanotons to whole tokens
	return balances.Amount{
		Raw:   body.Result.Balance.String(),
		Value: raw.Shift(-9),
	}, nil
}
