package model

// SwapEvent is a decoded Uniswap V2 pair Swap log.
type SwapEvent struct {
	BlockNumber *uint64 `json:"block_number"`
	TxHash      *string `json:"tx_hash"`
	Address     *string `json:"address"`
	Sender      *string `json:"sender"`
	To          *string `json:"to"`
	Amount0In   string  `json:"amount0In"`
	Amount1In   string  `json:"amount1In"`
	Amount0Out  string  `json:"amount0Out"`
	Amount1Out  string  `json:"amount1Out"`
	// RawTopics and RawData keep the source fields for debugging.
	RawTopics []string `json:"raw_topics"`
	RawData   string   `json:"raw_data"`

	LogIndex *uint64 `json:"-"`
}
