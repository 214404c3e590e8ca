package model

// DecodeError records a decode failure for a single log.
type DecodeError struct {
	BlockNumber *uint64 `json:"block_number"`
	TxHash      *string `json:"tx_hash"`
	Address     *string `json:"address"`
	Topic0      string  `json:"topic0"`
	Error       string  `json:"error"`
}

// NewDecodeError builds a DecodeError from the failing log.
func NewDecodeError(log RawLog, err error) DecodeError {
	return DecodeError{
		BlockNumber: log.BlockNumber,
		TxHash:      log.TxHash,
		Address:     log.Address,
		Topic0:      log.Topic0(),
		Error:       err.Error(),
	}
}
