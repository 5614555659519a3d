package seekpager

import (
	"fmt"

	"github.com/samber/lo"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Page is one resolved page of a dataset.
type Page[Row any, D ~int32] struct {
	// Items in natural display order.
	Items []Row
	// Prev addresses the page immediately before Items. Nil on the first page.
	Prev *Cursor[D]
	// Next addresses the page immediately after Items. Nil on the last page.
	Next *Cursor[D]
}

// Fetch executes one paginated query and resolves the page around the cursor.
//
// The query is executed exactly once, overfetching a single probe row past
// limit to detect whether a further page exists. Fetch adds the seek
// predicate, the (sort column, identity column) ORDER BY and the limit; any
// pre-applied filters of db are kept. Cancellation and timeouts are the
// caller's: pass the query through db.WithContext.
//
// Raw is the persisted row shape, mapRow converts it into the paginated
// entity. Query failures propagate unchanged; there are no retries.
func Fetch[Raw any, Row any, D ~int32](
	db *gorm.DB,
	pager *Pager[Row, D],
	c Cursor[D],
	limit int,
	mapRow func(Raw) Row,
) (*Page[Row, D], error) {
	if pager == nil {
		return nil, fmt.Errorf("cannot fetch page: nil pager")
	}

	key, err := pager.key(c.Dimension)
	if err != nil {
		return nil, fmt.Errorf("cannot fetch page: %w", err)
	}

	limit = NormalizeLimit(limit)

	// A boundary with a nil sort value (decoded sentinel) cannot anchor a
	// strict comparison, and a backward cursor with no boundary has nothing to
	// walk back from. Both degrade to a fresh first-page fetch. c is a copy;
	// the caller's cursor stays untouched.
	if c.Boundary != nil && c.Boundary.Value == nil {
		c.Boundary = nil
	}
	if c.Boundary == nil {
		c.Previous = false
	}

	seekDescending := c.seekDescending()

	if c.Boundary != nil {
		db = db.Clauses(seekPredicate(key.column, pager.binding.IDColumn, seekDescending, c.Boundary))
	}

	db = db.Order(seekOrder(key.column, pager.binding.IDColumn, seekDescending))
	db = db.Limit(limit + 1)

	var raws []Raw
	if err = db.Find(&raws).Error; err != nil {
		return nil, fmt.Errorf("cannot fetch page: %w", err)
	}

	if len(raws) == 0 {
		return &Page[Row, D]{Items: []Row{}}, nil
	}

	rows := lo.Map(raws, func(raw Raw, _ int) Row { return mapRow(raw) })

	// The internal fetch direction was inverted for a previous-cursor; restore
	// natural display order before trimming and boundary derivation.
	if c.Previous {
		rows = lo.Reverse(rows)
	}

	overfetched := len(rows) > limit
	returned := lo.Ternary(overfetched, limit, len(rows))

	// Arriving via any cursor proves a page exists on the side the cursor came
	// from; only the cursor-less first request can have neither neighbor.
	arrived := c.Boundary != nil

	var hasPrev, hasNext bool
	if c.Previous {
		hasPrev = overfetched
		hasNext = arrived
	} else {
		hasPrev = arrived
		hasNext = overfetched
	}

	// Drop the probe row: it sits at the head when the fetch walked backward,
	// at the tail otherwise.
	if c.Previous {
		rows = rows[len(rows)-returned:]
	} else {
		rows = rows[:returned]
	}

	page := &Page[Row, D]{Items: rows}
	if hasPrev {
		page.Prev = boundaryCursor(pager, key, c, rows[0], true)
	}
	if hasNext {
		page.Next = boundaryCursor(pager, key, c, rows[len(rows)-1], false)
	}

	return page, nil
}

// boundaryCursor builds a continuation cursor anchored at an already-fetched
// row, carrying the row's own (sort value, identity) pair.
func boundaryCursor[Row any, D ~int32](
	pager *Pager[Row, D],
	key Key[Row],
	c Cursor[D],
	row Row,
	previous bool,
) *Cursor[D] {
	return &Cursor[D]{
		Dimension:  c.Dimension,
		Descending: c.Descending,
		Previous:   previous,
		Boundary: &Boundary{
			ID:    pager.binding.ID(row),
			Value: key.value(row),
		},
	}
}

// seekPredicate builds the strict lexicographic tuple comparison
//
//	(column, idColumn) < (value, id)   when seekDescending
//	(column, idColumn) > (value, id)   otherwise
//
// expanded to "(column OP ?) OR (column = ? AND idColumn OP ?)" so the
// tie-break keeps the order total when sort values repeat.
func seekPredicate(column, idColumn string, seekDescending bool, b *Boundary) clause.Expression {
	op := lo.Ternary(seekDescending, "<", ">")

	return clause.Or(
		clause.Expr{
			SQL:  fmt.Sprintf("%s %s ?", column, op),
			Vars: []any{b.Value},
		},
		clause.And(
			clause.Expr{
				SQL:  fmt.Sprintf("%s = ?", column),
				Vars: []any{b.Value},
			},
			clause.Expr{
				SQL:  fmt.Sprintf("%s %s ?", idColumn, op),
				Vars: []any{b.ID},
			},
		),
	)
}

// seekOrder builds the two-column ORDER BY matching the seek direction.
func seekOrder(column, idColumn string, seekDescending bool) string {
	direction := lo.Ternary(seekDescending, "DESC", "ASC")

	return fmt.Sprintf("%s %s, %s %s", column, direction, idColumn, direction)
}
