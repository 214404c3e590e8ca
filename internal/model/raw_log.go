package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// RawLog is a log as returned by a log source, before decoding.
type RawLog struct {
	Address     *string   `json:"address"`
	BlockNumber *uint64   `json:"block_number"`
	TxHash      *string   `json:"transaction_hash"`
	LogIndex    *uint64   `json:"log_index"`
	Topics      RawTopics `json:"topics"`
	Data        string    `json:"data"`
}

var (
	txHashKeys      = []string{"transaction_hash", "transactionHash", "tx_hash"}
	blockNumberKeys = []string{"block_number", "blockNumber"}
	logIndexKeys    = []string{"log_index", "logIndex"}
	topicColumns    = []string{"topic0", "topic1", "topic2", "topic3"}
)

// UnmarshalJSON maps the field names used by different sources onto RawLog.
// When "topics" is missing, the flat topic0..topic3 columns are collected.
func (l *RawLog) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}

	var out RawLog
	out.Address = lookupString(fields, "address")
	out.TxHash = lookupString(fields, txHashKeys...)
	if value := lookupString(fields, "data"); value != nil {
		out.Data = *value
	}

	var err error
	if out.BlockNumber, err = lookupUint(fields, blockNumberKeys...); err != nil {
		return err
	}
	if out.LogIndex, err = lookupUint(fields, logIndexKeys...); err != nil {
		return err
	}

	if raw, ok := lookup(fields, "topics"); ok {
		if err := out.Topics.UnmarshalJSON(raw); err != nil {
			return fmt.Errorf("topics: %w", err)
		}
	} else {
		out.Topics = collectTopicColumns(fields)
	}

	*l = out
	return nil
}

// Topic0 returns the first topic when the topics arrived as a list.
func (l RawLog) Topic0() string {
	if l.Topics.Kind == TopicsList && len(l.Topics.List) > 0 {
		return l.Topics.List[0]
	}
	return ""
}

func lookup(fields map[string]json.RawMessage, keys ...string) (json.RawMessage, bool) {
	for _, key := range keys {
		raw, ok := fields[key]
		if !ok {
			continue
		}
		trimmed := bytes.TrimSpace(raw)
		if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
			continue
		}
		return trimmed, true
	}
	return nil, false
}

// lookupString returns the first non-empty value among keys.
func lookupString(fields map[string]json.RawMessage, keys ...string) *string {
	for _, key := range keys {
		raw, ok := lookup(fields, key)
		if !ok {
			continue
		}
		value := scalarText(raw)
		if value == "" {
			continue
		}
		return &value
	}
	return nil
}

func lookupUint(fields map[string]json.RawMessage, keys ...string) (*uint64, error) {
	for _, key := range keys {
		raw, ok := lookup(fields, key)
		if !ok {
			continue
		}
		value, err := parseUint(scalarText(raw))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", key, err)
		}
		return &value, nil
	}
	return nil, nil
}

func parseUint(input string) (uint64, error) {
	input = strings.TrimSpace(input)
	if strings.HasPrefix(input, "0x") || strings.HasPrefix(input, "0X") {
		return strconv.ParseUint(input[2:], 16, 64)
	}
	return strconv.ParseUint(input, 10, 64)
}

func collectTopicColumns(fields map[string]json.RawMessage) RawTopics {
	topics := make([]string, 0, len(topicColumns))
	for _, column := range topicColumns {
		value := lookupString(fields, column)
		if value == nil {
			break
		}
		topics = append(topics, *value)
	}
	if len(topics) == 0 {
		return RawTopics{}
	}
	return TopicsFromList(topics)
}
