package model

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestRawLogAlternativeFieldNames(t *testing.T) {
	input := `{
		"address": "0x3e47d7b7867babb558b163f92fbe352161accb49",
		"blockNumber": "0x10",
		"transactionHash": "0xdef456",
		"logIndex": 3,
		"topics": ["0xaa", "0xbb"],
		"data": "0x01"
	}`

	var log RawLog
	if err := json.Unmarshal([]byte(input), &log); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	if log.BlockNumber == nil || *log.BlockNumber != 16 {
		t.Fatalf("block number mismatch: %v", log.BlockNumber)
	}
	if log.TxHash == nil || *log.TxHash != "0xdef456" {
		t.Fatalf("tx hash mismatch: %v", log.TxHash)
	}
	if log.LogIndex == nil || *log.LogIndex != 3 {
		t.Fatalf("log index mismatch: %v", log.LogIndex)
	}
	if log.Topics.Kind != TopicsList || !reflect.DeepEqual(log.Topics.List, []string{"0xaa", "0xbb"}) {
		t.Fatalf("topics mismatch: %+v", log.Topics)
	}
	if log.Data != "0x01" {
		t.Fatalf("data mismatch: %s", log.Data)
	}
}

func TestRawLogPrefersFirstNonEmptyTxHash(t *testing.T) {
	input := `{"transaction_hash": "", "transactionHash": "0xabc", "block_number": 12}`

	var log RawLog
	if err := json.Unmarshal([]byte(input), &log); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if log.TxHash == nil || *log.TxHash != "0xabc" {
		t.Fatalf("tx hash mismatch: %v", log.TxHash)
	}
	if log.BlockNumber == nil || *log.BlockNumber != 12 {
		t.Fatalf("block number mismatch: %v", log.BlockNumber)
	}
}

func TestRawLogTopicColumns(t *testing.T) {
	input := `{"topic0": "0x01", "topic1": "0x02", "topic2": null, "topic3": "0x04"}`

	var log RawLog
	if err := json.Unmarshal([]byte(input), &log); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if !reflect.DeepEqual(log.Topics.List, []string{"0x01", "0x02"}) {
		t.Fatalf("topics mismatch: %+v", log.Topics)
	}
	if log.Topic0() != "0x01" {
		t.Fatalf("topic0 mismatch: %s", log.Topic0())
	}
}

func TestRawLogMissingFields(t *testing.T) {
	var log RawLog
	if err := json.Unmarshal([]byte(`{}`), &log); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if log.Address != nil || log.BlockNumber != nil || log.TxHash != nil {
		t.Fatalf("expected nil optional fields: %+v", log)
	}
	if log.Topics.Kind != TopicsAbsent {
		t.Fatalf("expected absent topics, got %s", log.Topics.Kind)
	}
}

func TestRawLogInvalidBlockNumber(t *testing.T) {
	var log RawLog
	if err := json.Unmarshal([]byte(`{"block_number": "abc"}`), &log); err == nil {
		t.Fatalf("expected error for invalid block number")
	}
}

func TestRawLogJSONRoundTrip(t *testing.T) {
	block := uint64(36000000)
	index := uint64(12)
	tx := "0xdef456"
	addr := "0x1111111111111111111111111111111111111111"

	cases := []RawTopics{
		TopicsFromList([]string{"0xaaa", "0xbbb"}),
		TopicsFromText(`["0xaaa"]`),
		{},
		{Kind: TopicsOther, Other: json.RawMessage(`42`)},
	}

	for _, topics := range cases {
		original := RawLog{
			Address:     &addr,
			BlockNumber: &block,
			TxHash:      &tx,
			LogIndex:    &index,
			Topics:      topics,
			Data:        "0xdeadbeef",
		}

		b, err := json.Marshal(original)
		if err != nil {
			t.Fatalf("marshal failed: %v", err)
		}

		var decoded RawLog
		if err := json.Unmarshal(b, &decoded); err != nil {
			t.Fatalf("unmarshal failed: %v", err)
		}

		if !reflect.DeepEqual(original, decoded) {
			t.Fatalf("round-trip mismatch (%s): %+v != %+v", topics.Kind, original, decoded)
		}
	}
}
