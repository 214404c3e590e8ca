package postgres

import (
	"context"
	"math"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"swapextract/internal/model"
)

// setupStore connects to the database named by SWAPEXTRACT_TEST_PG_DSN.
func setupStore(t *testing.T) *Store {
	t.Helper()
	dsn := os.Getenv("SWAPEXTRACT_TEST_PG_DSN")
	if dsn == "" {
		t.Skip("SWAPEXTRACT_TEST_PG_DSN not set")
	}

	ctx := context.Background()
	store, err := NewStore(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(store.Close)

	require.NoError(t, store.EnsureSchema(ctx))
	_, err = store.pool.Exec(ctx, "TRUNCATE swap_events")
	require.NoError(t, err)
	return store
}

func TestNewStoreRequiresDSN(t *testing.T) {
	_, err := NewStore(context.Background(), "")
	require.Error(t, err)
}

func TestInsertSwapEvents(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	block := uint64(100)
	index := uint64(2)
	tx := "0xabc"
	sender := "0x2222222222222222222222222222222222222222"
	events := []model.SwapEvent{
		{
			BlockNumber: &block,
			TxHash:      &tx,
			LogIndex:    &index,
			Sender:      &sender,
			Amount0In:   "115792089237316195423570985008687907853269984665640564039457584007913129639935",
			Amount1In:   "0",
			Amount0Out:  "0",
			Amount1Out:  "7",
			RawTopics:   []string{"0x01"},
			RawData:     "",
		},
	}

	inserted, err := store.InsertSwapEvents(ctx, events)
	require.NoError(t, err)
	assert.Equal(t, int64(1), inserted)

	inserted, err = store.InsertSwapEvents(ctx, events)
	require.NoError(t, err)
	assert.Equal(t, int64(0), inserted, "duplicate (tx_hash, log_index) should be ignored")

	var amount string
	err = store.pool.QueryRow(ctx, "SELECT amount0_in::text FROM swap_events WHERE tx_hash = $1", tx).Scan(&amount)
	require.NoError(t, err)
	assert.Equal(t, events[0].Amount0In, amount)
}

func TestInsertSwapEventsEmpty(t *testing.T) {
	store := &Store{}
	inserted, err := store.InsertSwapEvents(context.Background(), nil)
	require.NoError(t, err)
	assert.Zero(t, inserted)
}

func TestOptionalInt64(t *testing.T) {
	got, err := optionalInt64(nil)
	require.NoError(t, err)
	assert.Nil(t, got)

	maxInt := uint64(math.MaxInt64)
	got, err = optionalInt64(&maxInt)
	require.NoError(t, err)
	assert.Equal(t, int64(math.MaxInt64), *got)

	tooLarge := maxInt + 1
	_, err = optionalInt64(&tooLarge)
	require.Error(t, err)
}

func TestInsertSwapEventsRejectsOverflow(t *testing.T) {
	block := uint64(math.MaxUint64)
	store := &Store{}
	_, err := store.InsertSwapEvents(context.Background(), []model.SwapEvent{{
		BlockNumber: &block,
		Amount0In:   "0",
		Amount1In:   "0",
		Amount0Out:  "0",
		Amount1Out:  "0",
	}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "block_number")
}
