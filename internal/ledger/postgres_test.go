package ledger

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostgres_PutIfAbsent(t *testing.T) {
	db, m, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	l := NewPostgres(db)
	ctx := context.Background()
	q := regexp.QuoteMeta(`INSERT INTO reminder_ledger (key) VALUES ($1) ON CONFLICT (key) DO NOTHING`)

	m.ExpectExec(q).WithArgs("k1").WillReturnResult(sqlmock.NewResult(0, 1))
	m.ExpectExec(q).WithArgs("k1").WillReturnResult(sqlmock.NewResult(0, 0))
	m.ExpectExec(q).WithArgs("k2").WillReturnError(errors.New("connection reset"))

	created, err := l.PutIfAbsent(ctx, "k1")
	require.NoError(t, err)
	assert.True(t, created)

	created, err = l.PutIfAbsent(ctx, "k1")
	require.NoError(t, err)
	assert.False(t, created)

	_, err = l.PutIfAbsent(ctx, "k2")
	assert.EqualError(t, err, "connection reset")

	assert.NoError(t, m.ExpectationsWereMet())
}

func TestPostgres_Has(t *testing.T) {
	db, m, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	m.ExpectQuery(regexp.QuoteMeta(`SELECT EXISTS(SELECT 1 FROM reminder_ledger WHERE key = $1)`)).
		WithArgs("k1").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	ok, err := NewPostgres(db).Has(context.Background(), "k1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.NoError(t, m.ExpectationsWereMet())
}

func TestPostgres_Snapshot(t *testing.T) {
	db, m, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	m.ExpectQuery(regexp.QuoteMeta(`SELECT key FROM reminder_ledger ORDER BY key`)).
		WillReturnRows(sqlmock.NewRows([]string{"key"}).AddRow("a").AddRow("b"))

	keys, err := NewPostgres(db).Snapshot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, keys)
	assert.NoError(t, m.ExpectationsWereMet())
}
