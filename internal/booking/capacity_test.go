package booking

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanAccommodateTx(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	ledger := NewLedger(NewInventory())

	cases := []struct {
		name      string
		total     uint32
		live      int64
		requested int
		want      bool
	}{
		{"room to spare", 10, 3, 2, true},
		{"exact fit", 10, 8, 2, true},
		{"one over", 10, 9, 2, false},
		{"full house", 10, 10, 1, false},
		{"zero request always fits", 10, 10, 0, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			mock.ExpectBegin()
			expectLiveCount(mock, 7, tc.live)
			mock.ExpectRollback()
			tx, err := db.Begin()
			require.NoError(t, err)
			defer tx.Rollback()

			ok, err := ledger.CanAccommodateTx(context.Background(), tx, 7, tc.total, tc.requested)
			require.NoError(t, err)
			assert.Equal(t, tc.want, ok)
		})
	}
}

func TestRemainingCapacityTx(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	ledger := NewLedger(NewInventory())

	mock.ExpectBegin()
	expectLiveCount(mock, 7, 4)
	mock.ExpectRollback()
	tx, err := db.Begin()
	require.NoError(t, err)
	defer tx.Rollback()

	remaining, err := ledger.RemainingCapacityTx(context.Background(), tx, 7, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(6), remaining)
}
