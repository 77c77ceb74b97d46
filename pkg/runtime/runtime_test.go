package runtime

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/frescopa/demogen/pkg/model"
	"github.com/frescopa/demogen/pkg/registry"
	"github.com/frescopa/demogen/pkg/schema"
)

func TestNewQueryError_Classifies(t *testing.T) {
	tests := []struct {
		code string
		want error
	}{
		{"23505", ErrDuplicateKey},
		{"23503", ErrForeignKeyViolation},
	}
	for _, tt := range tests {
		err := NewQueryError("INSERT", &pgconn.PgError{Code: tt.code})
		assert.True(t, errors.Is(err, tt.want), tt.code)

		var pgErr *pgconn.PgError
		assert.True(t, errors.As(err, &pgErr))
	}

	plain := NewQueryError("SELECT 1", errors.New("boom"))
	assert.Nil(t, plain.Kind)
	assert.False(t, errors.Is(plain, ErrDuplicateKey))
	assert.Contains(t, plain.Error(), "SELECT 1")
}

func TestConnect_RequiresURL(t *testing.T) {
	_, err := ConnectWithURL(context.Background(), "")
	assert.ErrorIs(t, err, ErrNoConnection)
}

func segmentRows(t *testing.T, segs []model.SegmentRecord) schema.Rows {
	t.Helper()
	reg, err := model.NewRegistry()
	require.NoError(t, err)
	table, err := registry.For[model.SegmentRecord](reg)
	require.NoError(t, err)
	rows, err := schema.NewRows(table, segs)
	require.NoError(t, err)
	return rows
}

func TestSource_NativeValues(t *testing.T) {
	churn := time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC)
	rows := segmentRows(t, []model.SegmentRecord{
		{Customer: "C1", ChurnProp: 2, ChurnDate: churn, NPS: 9, VIP: -1},
	})

	src := Source(rows)
	require.True(t, src.Next())
	values, err := src.Values()
	require.NoError(t, err)
	assert.Equal(t, []any{"C1", int64(2), churn, int64(9), nil, int64(0), nil, int64(-1), nil}, values)
	assert.False(t, src.Next())
}

type fakeCopier struct {
	table   pgx.Identifier
	columns []string
	rows    [][]any
	err     error
}

func (f *fakeCopier) CopyFrom(_ context.Context, table pgx.Identifier, columns []string, src pgx.CopyFromSource) (int64, error) {
	f.table, f.columns = table, columns
	for src.Next() {
		v, err := src.Values()
		if err != nil {
			return 0, err
		}
		f.rows = append(f.rows, v)
	}
	return int64(len(f.rows)), f.err
}

func TestCopyRows(t *testing.T) {
	rows := segmentRows(t, []model.SegmentRecord{{Customer: "C1"}, {Customer: "C2"}})

	c := &fakeCopier{}
	n, err := CopyRows(context.Background(), c, rows)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
	assert.Equal(t, pgx.Identifier{"segments"}, c.table)
	assert.Equal(t, rows.Table.ColumnNames(), c.columns)

	c = &fakeCopier{err: &pgconn.PgError{Code: "23503"}}
	_, err = CopyRows(context.Background(), c, rows)
	var ce *CopyError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, "segments", ce.Table)
	assert.ErrorIs(t, err, ErrForeignKeyViolation)
}
