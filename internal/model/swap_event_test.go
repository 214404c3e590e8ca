package model

import (
	"encoding/json"
	"testing"
)

func TestSwapEventJSONFields(t *testing.T) {
	block := uint64(10)
	index := uint64(4)
	payload := SwapEvent{
		BlockNumber: &block,
		Amount0In:   "12345678901234567890",
		Amount1In:   "0",
		Amount0Out:  "0",
		Amount1Out:  "42",
		RawTopics:   []string{"0xaa"},
		RawData:     "",
		LogIndex:    &index,
	}

	data, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	for _, key := range []string{"amount0In", "amount1In", "amount0Out", "amount1Out", "raw_data"} {
		if _, ok := decoded[key].(string); !ok {
			t.Fatalf("%s should be string", key)
		}
	}
	for _, key := range []string{"tx_hash", "address", "sender", "to"} {
		value, ok := decoded[key]
		if !ok || value != nil {
			t.Fatalf("%s should be null, got %v", key, value)
		}
	}
	if _, ok := decoded["log_index"]; ok {
		t.Fatalf("log_index should not be serialized")
	}
	if decoded["block_number"] != float64(10) {
		t.Fatalf("block_number mismatch: %v", decoded["block_number"])
	}
}
