package runtime

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/frescopa/demogen/pkg/schema"
)

// Copier is the part of pgx.Tx and pgx.Conn used for bulk loads.
type Copier interface {
	CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error)
}

// CopyRows streams every row into its table with the COPY protocol.
func CopyRows(ctx context.Context, c Copier, rows schema.Rows) (int64, error) {
	n, err := c.CopyFrom(ctx,
		pgx.Identifier{rows.Table.Name},
		rows.Table.ColumnNames(),
		Source(rows),
	)
	if err != nil {
		return n, &CopyError{Table: rows.Table.Name, Err: NewQueryError("COPY "+rows.Table.Name, err)}
	}
	return n, nil
}

// Source adapts rows to pgx.CopyFromSource.
func Source(rows schema.Rows) pgx.CopyFromSource {
	cols := len(rows.Table.Columns)
	return pgx.CopyFromSlice(rows.Len(), func(i int) ([]any, error) {
		values := make([]any, cols)
		for col := 0; col < cols; col++ {
			values[col] = rows.Native(i, col)
		}
		return values, nil
	})
}
