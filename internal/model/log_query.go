package model

import "github.com/ethereum/go-ethereum/common"

// LogQuery selects the logs of one event emitted by one contract.
type LogQuery struct {
	Address   common.Address
	Topic0    common.Hash
	FromBlock uint64
	ToBlock   uint64
}
