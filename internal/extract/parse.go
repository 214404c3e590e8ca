package extract

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"

	"swapextract/internal/model"
)

// ParseAddress converts a hex string into common.Address.
func ParseAddress(input string) (common.Address, error) {
	input = strings.TrimSpace(input)
	if !common.IsHexAddress(input) {
		return common.Address{}, fmt.Errorf("invalid address: %s", input)
	}
	return common.HexToAddress(input), nil
}

// ParseTopic0 converts a 32-byte hex string into common.Hash.
func ParseTopic0(input string) (common.Hash, error) {
	input = strings.TrimSpace(input)
	data, err := hexutil.Decode(input)
	if err != nil {
		return common.Hash{}, fmt.Errorf("invalid topic0: %s", input)
	}
	if len(data) != common.HashLength {
		return common.Hash{}, fmt.Errorf("invalid topic0 length: %s", input)
	}
	return common.BytesToHash(data), nil
}

// BuildQuery validates the query inputs and assembles a LogQuery.
func BuildQuery(address, topic0 string, fromBlock, toBlock uint64) (model.LogQuery, error) {
	addr, err := ParseAddress(address)
	if err != nil {
		return model.LogQuery{}, err
	}
	topic, err := ParseTopic0(topic0)
	if err != nil {
		return model.LogQuery{}, err
	}
	if toBlock != 0 && toBlock < fromBlock {
		return model.LogQuery{}, fmt.Errorf("to block must be >= from block")
	}
	return model.LogQuery{
		Address:   addr,
		Topic0:    topic,
		FromBlock: fromBlock,
		ToBlock:   toBlock,
	}, nil
}
