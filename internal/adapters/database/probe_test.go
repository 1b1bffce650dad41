package database

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProbe(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectPing()

	require.NoError(t, Probe(context.Background(), db))
	assert.NoError(t, mock.ExpectationsWereMet())
	assert.Zero(t, db.Stats().InUse, "probe connection must be released")
}

func TestProbeFailure(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectPing().WillReturnError(errors.New("password authentication failed"))

	err = Probe(context.Background(), db)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "password authentication failed")
	assert.Zero(t, db.Stats().InUse)
}

func TestBaseOperations(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)

	base := NewBase(db, SQLite)
	ctx := context.Background()

	mock.ExpectPing()
	require.NoError(t, base.Connect(ctx))

	mock.ExpectExec("DELETE FROM orders").WillReturnResult(sqlmock.NewResult(0, 3))
	res, err := base.Execute(ctx, "DELETE FROM orders")
	require.NoError(t, err)
	n, err := res.RowsAffected()
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	mock.ExpectQuery("SELECT 1").WillReturnRows(sqlmock.NewRows([]string{"one"}).AddRow(1))
	rows, err := base.Query(ctx, "SELECT 1")
	require.NoError(t, err)
	require.True(t, rows.Next())
	var one int
	require.NoError(t, rows.Scan(&one))
	assert.Equal(t, 1, one)
	require.NoError(t, rows.Close())

	assert.Equal(t, SQLite, base.GetDialect())
	assert.Same(t, db, base.DB())

	mock.ExpectClose()
	require.NoError(t, base.Disconnect(ctx))
	assert.NoError(t, mock.ExpectationsWereMet())
	assert.Nil(t, base.DB())
}

func TestBaseNotConnected(t *testing.T) {
	base := &Base{}
	ctx := context.Background()

	assert.ErrorIs(t, base.Connect(ctx), ErrNotConnected)
	assert.ErrorIs(t, base.Ping(ctx), ErrNotConnected)

	_, err := base.Query(ctx, "SELECT 1")
	assert.ErrorIs(t, err, ErrNotConnected)

	_, err = base.Execute(ctx, "SELECT 1")
	assert.ErrorIs(t, err, ErrNotConnected)

	assert.NoError(t, base.Disconnect(ctx))
}
