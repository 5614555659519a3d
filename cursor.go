package seekpager

// Cursor определяет позицию внутри отсортированного набора данных для
// запрашиваемой страницы. Cursor без Boundary означает начало набора данных.
//
// IMPORTANT:
// Cursor никогда не изменяется после создания. Fetch строит новые курсоры
// для соседних страниц, не трогая исходный.
//
// Параметр типа D — перечисление измерений сортировки конкретной сущности.
type Cursor[D ~int32] struct {
	// Dimension is the sort dimension the dataset is ordered by.
	Dimension D
	// Descending is the display order requested by the client.
	Descending bool
	// Previous marks a cursor that walks backward from its boundary.
	Previous bool
	// Boundary is the row the page starts after (or before, when Previous).
	// Nil means the first page.
	Boundary *Boundary
}

// Boundary is the (sort value, identity) pair of the row a cursor seeks past.
// The identity is unique and totally ordered, so the pair is a strict total
// order even when sort values repeat.
type Boundary struct {
	// ID is the value of the entity's identity (tie-break) column.
	ID int32
	// Value is the boundary row's sort value. A nil Value disables the seek
	// predicate (see the sentinel notes on the Key constructors).
	Value any
}

// IsFirst returns true if the cursor addresses the first page of the dataset.
func (c Cursor[D]) IsFirst() bool {
	return c.Boundary == nil
}

// seekDescending returns the internal fetch direction. Walking backward
// through a descending-sorted set requires fetching in ascending order and
// vice versa.
func (c Cursor[D]) seekDescending() bool {
	return c.Descending != c.Previous
}
