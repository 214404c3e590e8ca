package decode

import (
	"encoding/hex"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"

	"swapextract/internal/model"
)

// Config configures SwapDecoder behavior.
type Config struct {
	// StrictTopic0 rejects logs whose topic0 is not the Swap event ID.
	StrictTopic0 bool
}

// SwapDecoder decodes Uniswap V2 pair Swap logs.
type SwapDecoder struct {
	event  abi.Event
	topic0 string
	strict bool
}

// NewSwapDecoder builds a Swap decoder.
func NewSwapDecoder(cfg Config) (*SwapDecoder, error) {
	pairABI, err := V2PairABI()
	if err != nil {
		return nil, fmt.Errorf("parse pair abi: %w", err)
	}
	event, ok := pairABI.Events["Swap"]
	if !ok {
		return nil, fmt.Errorf("pair abi has no Swap event")
	}

	return &SwapDecoder{
		event:  event,
		topic0: strings.ToLower(event.ID.Hex()),
		strict: cfg.StrictTopic0,
	}, nil
}

// Topic0 returns the Swap event ID as 0x-prefixed hex.
func (d *SwapDecoder) Topic0() string {
	return d.topic0
}

// Decode converts a RawLog into a SwapEvent.
func (d *SwapDecoder) Decode(log model.RawLog) (model.SwapEvent, error) {
	topics := NormalizeTopics(log.Topics)

	if d.strict {
		if len(topics) == 0 {
			return model.SwapEvent{}, fmt.Errorf("missing topic0")
		}
		if strings.ToLower(topics[0]) != d.topic0 {
			return model.SwapEvent{}, fmt.Errorf("unexpected topic0: %s", topics[0])
		}
	}

	var sender, to *string
	if len(topics) > 1 {
		sender = TopicToAddress(topics[1])
	}
	if len(topics) > 2 {
		to = TopicToAddress(topics[2])
	}

	amounts, err := d.decodeAmounts(log.Data)
	if err != nil {
		return model.SwapEvent{}, err
	}

	return model.SwapEvent{
		BlockNumber: log.BlockNumber,
		TxHash:      log.TxHash,
		Address:     log.Address,
		Sender:      sender,
		To:          to,
		Amount0In:   amounts[0].String(),
		Amount1In:   amounts[1].String(),
		Amount0Out:  amounts[2].String(),
		Amount1Out:  amounts[3].String(),
		RawTopics:   topics,
		RawData:     strip0x(log.Data),
		LogIndex:    log.LogIndex,
	}, nil
}

// decodeAmounts unpacks (amount0In, amount1In, amount0Out, amount1Out). An
// empty payload decodes to four zeros.
func (d *SwapDecoder) decodeAmounts(dataHex string) ([4]*big.Int, error) {
	var amounts [4]*big.Int
	for i := range amounts {
		amounts[i] = new(big.Int)
	}

	clean := strip0x(dataHex)
	if clean == "" {
		return amounts, nil
	}

	data, err := hex.DecodeString(clean)
	if err != nil {
		return amounts, fmt.Errorf("invalid data: %w", err)
	}

	values, err := d.event.Inputs.NonIndexed().Unpack(data)
	if err != nil {
		return amounts, fmt.Errorf("unpack %s: %w", d.event.Name, err)
	}
	if len(values) != len(amounts) {
		return amounts, fmt.Errorf("unexpected swap values: %d", len(values))
	}

	for i, value := range values {
		amount, err := asBigInt(value)
		if err != nil {
			return amounts, err
		}
		amounts[i] = amount
	}
	return amounts, nil
}

func asBigInt(value interface{}) (*big.Int, error) {
	switch v := value.(type) {
	case *big.Int:
		return new(big.Int).Set(v), nil
	case big.Int:
		return new(big.Int).Set(&v), nil
	case uint64:
		return new(big.Int).SetUint64(v), nil
	default:
		return nil, fmt.Errorf("unsupported int type %T", value)
	}
}
