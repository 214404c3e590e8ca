package storage

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"swapextract/internal/model"
)

func TestJSONFileEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "swap_events.json")
	require.NoError(t, NewJSONFile(path).WriteEvents(nil))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))
}

func TestJSONFileOverwritesAndIndents(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "swap_events.json")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(strings.Repeat("x", 4096)), 0o644))

	block := uint64(7)
	events := []model.SwapEvent{{
		BlockNumber: &block,
		Amount0In:   "1",
		Amount1In:   "2",
		Amount0Out:  "3",
		Amount1Out:  "4",
		RawTopics:   []string{"0xaa"},
		RawData:     "ff",
	}}
	require.NoError(t, NewJSONFile(path).WriteEvents(events))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "[\n  {\n    \"block_number\": 7,"), string(data))
	assert.NotContains(t, string(data), "xxx")

	var decoded []map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Len(t, decoded, 1)
	assert.Equal(t, "4", decoded[0]["amount1Out"])
	assert.Nil(t, decoded[0]["sender"])
}

func TestJSONFileCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a", "b", "out.json")
	require.NoError(t, NewJSONFile(path).WriteEvents([]model.SwapEvent{}))
	_, err := os.Stat(path)
	require.NoError(t, err)
}

func TestJsonlRawLogRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "raw", "logs.jsonl")
	sink := NewJsonlStorage(path)

	block := uint64(12)
	tx := "0xabc"
	logs := []model.RawLog{
		{BlockNumber: &block, TxHash: &tx, Topics: model.TopicsFromList([]string{"0x01", "0x02"}), Data: "0x"},
		{Topics: model.TopicsFromText("0x" + strings.Repeat("a", 64)), Data: "0xzz"},
	}
	require.NoError(t, sink.PutLogBatch(logs[:1]))
	require.NoError(t, sink.PutLogBatch(logs[1:]))
	require.NoError(t, sink.PutLogBatch(nil))

	got, failures, err := ReadRawLogs(path)
	require.NoError(t, err)
	assert.Empty(t, failures)
	assert.Equal(t, logs, got)
}

func TestReadRawLogsBadLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs.jsonl")
	content := strings.Join([]string{
		`{"block_number": 1, "topics": ["0x01"]}`,
		``,
		`not json`,
		`{"blockNumber": "0x2", "transactionHash": "0xbb"}`,
	}, "\n")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	logs, failures, err := ReadRawLogs(path)
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.Equal(t, uint64(2), *logs[1].BlockNumber)
	assert.Equal(t, "0xbb", *logs[1].TxHash)

	require.Len(t, failures, 1)
	assert.Contains(t, failures[0].Error, "line 3")
}

func TestReadRawLogsMissingFile(t *testing.T) {
	_, _, err := ReadRawLogs(filepath.Join(t.TempDir(), "missing.jsonl"))
	require.Error(t, err)
}

func TestPutDecodeErrors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "errors.jsonl")
	sink := NewJsonlStorage(path)

	tx := "0xabc"
	require.NoError(t, sink.PutDecodeErrors([]model.DecodeError{
		{TxHash: &tx, Topic0: "0x01", Error: "boom"},
		{Error: "bad"},
	}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)

	var first model.DecodeError
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &first))
	assert.Equal(t, "boom", first.Error)
	assert.Equal(t, "0xabc", *first.TxHash)
}
