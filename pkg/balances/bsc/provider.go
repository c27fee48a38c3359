package bsc

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/slhlabs/wallet-middleware/pkg/balances"
	"github.com/slhlabs/wallet-middleware/pkg/config"
)

const balanceOfABI = `[{"constant":true,"inputs":[{"name":"_owner","type":"address"}],"name":"balanceOf","outputs":[{"name":"balance","type":"uint256"}],"type":"function"}]`

// Provider reads native BNB and BEP-20 token balances from a BSC node.
type Provider struct {
	client   *ethclient.Client
	abi      abi.ABI
	contract common.Address
	decimals int32
	logger   *zap.Logger
}

// NewProvider connects to the configured BSC RPC endpoint.
func NewProvider(cfg *config.ChainConfig, tokenCfg *config.TokenConfig, logger *zap.Logger) (*Provider, error) {
	client, err := ethclient.Dial(cfg.RPCURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to BSC RPC: %w", err)
	}

	parsed, err := abi.JSON(strings.NewReader(balanceOfABI))
	if err != nil {
		return nil, fmt.Errorf("failed to parse token ABI: %w", err)
	}

	logger.Info("Connected to BSC",
		zap.String("rpc_url", cfg.RPCURL),
		zap.String("token_contract", cfg.TokenContract))

	return &Provider{
		client:   client,
		abi:      parsed,
		contract: common.HexToAddress(cfg.TokenContract),
		decimals: int32(tokenCfg.Decimals),
		logger:   logger,
	}, nil
}

// Close closes the underlying RPC connection.
func (p *Provider) Close() {
	if p.client != nil {
		p.client.Close()
	}
}

// NativeBalance returns the BNB balance of the address, raw in wei plus the
// whole-coin value.
func (p *Provider) NativeBalance(ctx context.Context, address string) (balances.Amount, error) {
	if !common.IsHexAddress(address) {
		return balances.Amount{}, fmt.Errorf("invalid BSC address: %s", address)
	}

	wei, err := p.client.BalanceAt(ctx, common.HexToAddress(address), nil)
	if err != nil {
		return balances.Amount{}, fmt.Errorf("failed to get native balance: %w", err)
	}

	return p.fromBaseUnits(wei), nil
}

// TokenBalance returns the token balance of the address, raw in base units
// plus the whole-token value.
func (p *Provider) TokenBalance(ctx context.Context, address string) (balances.Amount, error) {
	if !common.IsHexAddress(address) {
		return balances.Amount{}, fmt.Errorf("invalid BSC address: %s", address)
	}

	data, err := p.abi.Pack("balanceOf", common.HexToAddress(address))
	if err != nil {
		return balances.Amount{}, fmt.Errorf("failed to pack balanceOf call: %w", err)
	}

	out, err := p.client.CallContract(ctx, ethereum.CallMsg{
		To:   &p.contract,
		Data: data,
	}, nil)
	if err != nil {
		return balances.Amount{}, fmt.Errorf("failed to call balanceOf: %w", err)
	}

	results, err := p.abi.Unpack("balanceOf", out)
	if err != nil {
		return balances.Amount{}, fmt.Errorf("failed to unpack balanceOf result: %w", err)
	}
	raw, ok := results[0].(*big.Int)
	if !ok {
		return balances.Amount{}, fmt.Errorf("unexpected balanceOf result type %T", results[0])
	}

	return p.fromBaseUnits(raw), nil
}

func (p *Provider) fromBaseUnits(raw *big.Int) balances.Amount {
	return balances.Amount{
		Raw:   raw.String(),
		Value: decimal.NewFromBigInt(raw, 0).Shift(-p.decimals),
	}
}
