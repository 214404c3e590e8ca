package postgres

import (
	"context"
	"fmt"
	"math"
	"math/big"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"swapextract/internal/model"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS swap_events (
	id           BIGSERIAL PRIMARY KEY,
	block_number BIGINT,
	tx_hash      TEXT,
	log_index    BIGINT,
	address      TEXT,
	sender       TEXT,
	recipient    TEXT,
	amount0_in   NUMERIC(78, 0) NOT NULL,
	amount1_in   NUMERIC(78, 0) NOT NULL,
	amount0_out  NUMERIC(78, 0) NOT NULL,
	amount1_out  NUMERIC(78, 0) NOT NULL,
	raw_topics   TEXT[] NOT NULL,
	raw_data     TEXT NOT NULL,
	created_at   TIMESTAMPTZ NOT NULL DEFAULT now(),
	UNIQUE (tx_hash, log_index)
)`

// Store provides Postgres persistence for decoded swap events.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(ctx context.Context, dsn string) (*Store, error) {
	if dsn == "" {
		return nil, fmt.Errorf("pg dsn is required")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, err
	}
	return &Store{pool: pool}, nil
}

func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// EnsureSchema creates the swap_events table if it does not exist.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

// InsertSwapEvents inserts decoded events, ignoring rows already stored for
// the same (tx_hash, log_index). Rows without a log index are always inserted.
func (s *Store) InsertSwapEvents(ctx context.Context, events []model.SwapEvent) (int64, error) {
	if len(events) == 0 {
		return 0, nil
	}

	batch := &pgx.Batch{}
	for _, event := range events {
		amounts, err := numericAmounts(event)
		if err != nil {
			return 0, err
		}
		blockNumber, err := optionalInt64(event.BlockNumber)
		if err != nil {
			return 0, fmt.Errorf("block_number: %w", err)
		}
		logIndex, err := optionalInt64(event.LogIndex)
		if err != nil {
			return 0, fmt.Errorf("log_index: %w", err)
		}
		batch.Queue(`
			INSERT INTO swap_events (
				block_number, tx_hash, log_index, address, sender, recipient,
				amount0_in, amount1_in, amount0_out, amount1_out, raw_topics, raw_data
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
			ON CONFLICT (tx_hash, log_index) DO NOTHING
		`,
			blockNumber,
			event.TxHash,
			logIndex,
			event.Address,
			event.Sender,
			event.To,
			amounts[0],
			amounts[1],
			amounts[2],
			amounts[3],
			event.RawTopics,
			event.RawData,
		)
	}

	br := s.pool.SendBatch(ctx, batch)
	defer br.Close()

	var inserted int64
	for range events {
		tag, err := br.Exec()
		if err != nil {
			return inserted, fmt.Errorf("insert swap event: %w", err)
		}
		inserted += tag.RowsAffected()
	}
	return inserted, nil
}

// optionalInt64 converts to BIGINT, rejecting values it cannot hold.
func optionalInt64(value *uint64) (*int64, error) {
	if value == nil {
		return nil, nil
	}
	if *value > math.MaxInt64 {
		return nil, fmt.Errorf("value %d exceeds BIGINT", *value)
	}
	v := int64(*value)
	return &v, nil
}

func numericAmounts(event model.SwapEvent) ([4]pgtype.Numeric, error) {
	var out [4]pgtype.Numeric
	for i, text := range []string{event.Amount0In, event.Amount1In, event.Amount0Out, event.Amount1Out} {
		value, ok := new(big.Int).SetString(text, 10)
		if !ok {
			return out, fmt.Errorf("invalid amount %q", text)
		}
		out[i] = pgtype.Numeric{Int: value, Valid: true}
	}
	return out, nil
}
