package chain

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"

	"swapextract/internal/model"
)

// Client wraps go-ethereum RPC and serves logs through eth_getLogs.
type Client struct {
	rpcClient *rpc.Client
	ethClient *ethclient.Client
}

// NewClient creates a new chain client from the RPC URL.
func NewClient(ctx context.Context, rpcURL string) (*Client, error) {
	rpcClient, err := rpc.DialContext(ctx, rpcURL)
	if err != nil {
		return nil, err
	}

	return &Client{
		rpcClient: rpcClient,
		ethClient: ethclient.NewClient(rpcClient),
	}, nil
}

// Close closes the underlying RPC client.
func (c *Client) Close() {
	if c.rpcClient != nil {
		c.rpcClient.Close()
	}
}

// FilterLogs returns logs in the given range for the address and topic0 filter.
func (c *Client) FilterLogs(ctx context.Context, query model.LogQuery) ([]types.Log, error) {
	return c.ethClient.FilterLogs(ctx, filterQuery(query))
}

// FetchLogs issues a single eth_getLogs request and converts the result.
// ToBlock is exclusive, matching the HyperSync source.
func (c *Client) FetchLogs(ctx context.Context, query model.LogQuery) ([]model.RawLog, []model.DecodeError, error) {
	if query.ToBlock != 0 && query.ToBlock <= query.FromBlock {
		return []model.RawLog{}, nil, nil
	}

	logs, err := c.FilterLogs(ctx, query)
	if err != nil {
		return nil, nil, fmt.Errorf("eth_getLogs: %w", err)
	}

	out := make([]model.RawLog, 0, len(logs))
	for _, log := range logs {
		out = append(out, buildRawLog(log))
	}
	return out, nil, nil
}

// filterQuery converts the exclusive ToBlock to eth_getLogs' inclusive
// toBlock. A zero ToBlock queries up to the latest block.
func filterQuery(query model.LogQuery) ethereum.FilterQuery {
	filter := ethereum.FilterQuery{
		FromBlock: new(big.Int).SetUint64(query.FromBlock),
		Addresses: []common.Address{query.Address},
		Topics:    [][]common.Hash{{query.Topic0}},
	}
	if query.ToBlock > 0 {
		filter.ToBlock = new(big.Int).SetUint64(query.ToBlock - 1)
	}
	return filter
}
