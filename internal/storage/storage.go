package storage

import "swapextract/internal/model"

// Storage defines a sink for raw log records.
type Storage interface {
	PutLogBatch(logs []model.RawLog) error
}

// EventWriter persists the decoded event set.
type EventWriter interface {
	WriteEvents(events []model.SwapEvent) error
}
