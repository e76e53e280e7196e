package table

import (
	"context"
	"database/sql"
	"fmt"
)

// TabulizeError reports a failure while materializing a result set into a
// Table. Partially built tables never escape; the in-progress buffers are
// discarded.
type TabulizeError struct {
	Stage string // "execute", "scan", "decode" or "assemble"
	Cause error
}

func (e *TabulizeError) Error() string {
	return fmt.Sprintf("tabulize: %s: %v", e.Stage, e.Cause)
}

func (e *TabulizeError) Unwrap() error {
	return e.Cause
}

// Querier runs query text and returns the result rows. The gateway
// implementation prepends the normalizing view definitions and reports
// compile and execution failures as its own error type.
type Querier interface {
	Query(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
}

// ExecuteToTable runs the query through the gateway, materializes every
// result row, and builds a column-oriented Table with one unified kind per
// column. Gateway errors pass through unchanged; everything after row
// retrieval surfaces as *TabulizeError.
func ExecuteToTable(ctx context.Context, gw Querier, query string, args ...interface{}) (*Table, error) {
	rows, err := gw.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	names, err := rows.Columns()
	if err != nil {
		return nil, &TabulizeError{Stage: "execute", Cause: err}
	}

	// Full materialization: buffer every cell, column-wise, before any
	// type inference runs.
	buffers := make([][]cell, len(names))
	scanned := make([]interface{}, len(names))
	pointers := make([]interface{}, len(names))
	for i := range scanned {
		pointers[i] = &scanned[i]
	}

	height := 0
	for rows.Next() {
		if err := rows.Scan(pointers...); err != nil {
			return nil, &TabulizeError{Stage: "scan", Cause: err}
		}
		for i, v := range scanned {
			c, err := cellOf(v)
			if err != nil {
				return nil, &TabulizeError{Stage: "decode",
					Cause: fmt.Errorf("column %q row %d: %w", names[i], height, err)}
			}
			buffers[i] = append(buffers[i], c)
		}
		height++
	}
	if err := rows.Err(); err != nil {
		return nil, &TabulizeError{Stage: "scan", Cause: err}
	}

	columns := make([]Column, len(names))
	for i, name := range names {
		columns[i] = unifyColumn(name, buffers[i], height)
	}

	// Checked invariant: every column must cover every row.
	for i := range columns {
		if columns[i].Len() != height {
			return nil, &TabulizeError{Stage: "assemble",
				Cause: fmt.Errorf("column %q has %d rows, expected %d", names[i], columns[i].Len(), height)}
		}
	}

	return &Table{columns: columns, height: height}, nil
}

// unifyColumn infers a single kind for the column from the union of kinds
// observed, then widens or drops cells accordingly. Priority order is
// float > integer > text > blob; minority-typed cells become null rather
// than failing the column. An all-null column falls back to text.
func unifyColumn(name string, cells []cell, height int) Column {
	var hasInteger, hasFloat, hasText, hasBlob bool
	for i := range cells {
		switch cells[i].kind {
		case KindInteger:
			hasInteger = true
		case KindFloat:
			hasFloat = true
		case KindText:
			hasText = true
		case KindBlob:
			hasBlob = true
		}
	}

	col := Column{Name: name, valid: make([]bool, height)}

	switch {
	case hasFloat:
		col.Kind = KindFloat
		col.floats = make([]float64, height)
		for i := range cells {
			switch cells[i].kind {
			case KindFloat:
				col.floats[i] = cells[i].f
				col.valid[i] = true
			case KindInteger:
				// Integers widen to float when the column holds both.
				col.floats[i] = float64(cells[i].i)
				col.valid[i] = true
			}
		}
	case hasInteger:
		col.Kind = KindInteger
		col.ints = make([]int64, height)
		for i := range cells {
			if cells[i].kind == KindInteger {
				col.ints[i] = cells[i].i
				col.valid[i] = true
			}
		}
	case hasText:
		col.Kind = KindText
		col.texts = make([]string, height)
		for i := range cells {
			if cells[i].kind == KindText {
				col.texts[i] = cells[i].s
				col.valid[i] = true
			}
		}
	case hasBlob:
		col.Kind = KindBlob
		col.blobs = make([][]byte, height)
		for i := range cells {
			if cells[i].kind == KindBlob {
				col.blobs[i] = cells[i].b
				col.valid[i] = true
			}
		}
	default:
		// Entirely null column: deterministic text fallback.
		col.Kind = KindText
		col.texts = make([]string, height)
	}

	return col
}
