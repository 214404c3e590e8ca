package chain

import (
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"

	"swapextract/internal/model"
)

func buildRawLog(log types.Log) model.RawLog {
	topics := make([]string, 0, len(log.Topics))
	for _, topic := range log.Topics {
		topics = append(topics, topic.Hex())
	}

	address := log.Address.Hex()
	txHash := log.TxHash.Hex()
	blockNumber := log.BlockNumber
	logIndex := uint64(log.Index)

	return model.RawLog{
		Address:     &address,
		BlockNumber: &blockNumber,
		TxHash:      &txHash,
		LogIndex:    &logIndex,
		Topics:      model.TopicsFromList(topics),
		Data:        hexutil.Encode(log.Data),
	}
}
