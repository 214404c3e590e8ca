package storage

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"swapextract/internal/model"
)

// JsonlStorage appends records to a JSONL file.
type JsonlStorage struct {
	path string
	mu   sync.Mutex
}

func NewJsonlStorage(path string) *JsonlStorage {
	return &JsonlStorage{path: path}
}

// PutLogBatch appends a batch of raw logs as JSON lines.
func (s *JsonlStorage) PutLogBatch(logs []model.RawLog) error {
	values := make([]interface{}, 0, len(logs))
	for _, log := range logs {
		values = append(values, log)
	}
	return s.appendLines(values)
}

// PutDecodeErrors appends decode failures as JSON lines.
func (s *JsonlStorage) PutDecodeErrors(errs []model.DecodeError) error {
	values := make([]interface{}, 0, len(errs))
	for _, e := range errs {
		values = append(values, e)
	}
	return s.appendLines(values)
}

func (s *JsonlStorage) appendLines(values []interface{}) error {
	if len(values) == 0 {
		return nil
	}
	if err := ensureDir(s.path); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	file, err := os.OpenFile(s.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open output file: %w", err)
	}
	defer file.Close()

	writer := bufio.NewWriter(file)
	for _, value := range values {
		line, err := json.Marshal(value)
		if err != nil {
			return fmt.Errorf("marshal record: %w", err)
		}
		if _, err := writer.Write(line); err != nil {
			return fmt.Errorf("write record: %w", err)
		}
		if err := writer.WriteByte('\n'); err != nil {
			return fmt.Errorf("write newline: %w", err)
		}
	}

	if err := writer.Flush(); err != nil {
		return fmt.Errorf("flush output: %w", err)
	}

	return nil
}

// ReadRawLogs parses a raw log JSONL file. Lines that fail to parse are
// returned as decode errors rather than aborting the read.
func ReadRawLogs(path string) ([]model.RawLog, []model.DecodeError, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open input: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 10*1024*1024)

	logs := make([]model.RawLog, 0)
	var failures []model.DecodeError
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		var log model.RawLog
		if err := json.Unmarshal(line, &log); err != nil {
			failures = append(failures, model.DecodeError{Error: fmt.Sprintf("line %d: %v", lineNo, err)})
			continue
		}
		logs = append(logs, log)
	}

	if err := scanner.Err(); err != nil {
		return nil, nil, fmt.Errorf("scan input: %w", err)
	}
	return logs, failures, nil
}
