package seekpager

import (
	"fmt"

	"github.com/samber/lo"
)

// Params is intended for API payloads. For proper code generation, inline it:
//
//	type MyFilter struct {
//	    Paging Params `json:",inline"`
//	}
type Params struct {
	// Limit - maximum number of records to return in the response.
	Limit int `json:"limit"`
	// PageToken - encrypted cursor token obtained via Pager.Token.
	// If empty, the first page is returned.
	PageToken string `json:"pageToken"`
	// Sort - optional sort dimension alias (see Binding.Aliases).
	Sort string `json:"sort,omitempty"`
	// Descending - display order of the dataset.
	Descending bool `json:"descending,omitempty"`
}

// Binding describes how one entity type is paginated: its sort dimensions,
// their column codecs and the identity column used as tie-break.
type Binding[Row any, D ~int32] struct {
	// IDColumn is the unique, totally ordered identity column.
	IDColumn string
	// ID extracts the identity value from a fetched row. Used to build
	// continuation cursors without re-querying.
	ID func(Row) int32
	// Keys maps every supported sort dimension to its key.
	//
	// IMPORTANT:
	// Sort columns must be non-nullable; null ordering is not handled.
	Keys map[D]Key[Row]
	// Default is the dimension used when a request names none.
	Default D
	// Aliases maps request sort selectors to dimensions. Optional.
	Aliases map[string]D
	// Crypter seals and opens page tokens.
	Crypter Crypter
}

func (b Binding[Row, D]) validate() error {
	if b.Crypter == nil {
		return fmt.Errorf("nil crypter")
	}

	if b.ID == nil {
		return fmt.Errorf("nil identity accessor")
	}

	err := validateColumn(b.IDColumn)
	if err != nil {
		return fmt.Errorf("identity column: %w", err)
	}

	if len(b.Keys) == 0 {
		return fmt.Errorf("empty sort dimension set")
	}

	if _, ok := b.Keys[b.Default]; !ok {
		return fmt.Errorf("default dimension %d is not bound", int32(b.Default))
	}

	for dimension, key := range b.Keys {
		if key.value == nil {
			return fmt.Errorf("dimension %d: key built without a constructor", int32(dimension))
		}

		err = validateColumn(key.column)
		if err != nil {
			return fmt.Errorf("dimension %d: %w", int32(dimension), err)
		}
	}

	for alias, dimension := range b.Aliases {
		if _, ok := b.Keys[dimension]; !ok {
			return fmt.Errorf("alias '%s' targets unbound dimension %d", alias, int32(dimension))
		}
	}

	return nil
}

// Pager is the per-entity pagination façade built from a Binding.
type Pager[Row any, D ~int32] struct {
	binding Binding[Row, D]
}

// New validates the binding and builds a Pager over it.
func New[Row any, D ~int32](binding Binding[Row, D]) (*Pager[Row, D], error) {
	err := binding.validate()
	if err != nil {
		return nil, fmt.Errorf("invalid pagination binding: %w", err)
	}

	return &Pager[Row, D]{binding: binding}, nil
}

// First builds a boundary-less first-page cursor over the default dimension.
// Intended for internal callers that page without request parameters.
func (p *Pager[Row, D]) First(descending bool) Cursor[D] {
	return Cursor[D]{
		Dimension:  p.binding.Default,
		Descending: descending,
	}
}

// Resolve builds the cursor for an incoming request.
//
// Without a token it starts a fresh first page from the requested dimension
// (the default when the selector is absent or unknown) and direction. With a
// token it decodes it; an unreadable token of any kind falls back to a fresh
// first page over the default dimension rather than failing the request.
func (p *Pager[Row, D]) Resolve(params Params) Cursor[D] {
	if params.PageToken == "" {
		cursor := p.First(params.Descending)
		if params.Sort != "" {
			if dimension, err := p.ParseDimension(params.Sort); err == nil {
				cursor.Dimension = dimension
			}
		}

		return cursor
	}

	cursor, err := p.DecodeToken(params.PageToken)
	if err != nil {
		return p.First(params.Descending)
	}

	return cursor
}

// DecodeToken decodes an encrypted page token scoped to this entity's
// dimension set. Every failure wraps ErrInvalidToken.
func (p *Pager[Row, D]) DecodeToken(token string) (Cursor[D], error) {
	if token == "" {
		return Cursor[D]{}, fmt.Errorf("%w: empty token", ErrInvalidToken)
	}

	return decodeToken(p.binding.Crypter, p.binding.Keys, token)
}

// Token serializes a cursor into an opaque URL-safe token. Tokens are built
// lazily by response code and never persisted.
func (p *Pager[Row, D]) Token(c Cursor[D]) (string, error) {
	key, ok := p.binding.Keys[c.Dimension]
	if !ok {
		return "", fmt.Errorf("cannot build token: unknown sort dimension %d", int32(c.Dimension))
	}

	return encodeToken(p.binding.Crypter, key, c)
}

// ParseDimension resolves a request sort selector via Binding.Aliases.
// Returns an error naming the closest known alias when the selector is
// unknown.
func (p *Pager[Row, D]) ParseDimension(alias string) (D, error) {
	dimension, ok := p.binding.Aliases[alias]
	if !ok {
		return 0, fmt.Errorf("invalid sort alias. closest: '%s'", closestAlias(alias, lo.Keys(p.binding.Aliases)))
	}

	return dimension, nil
}

func (p *Pager[Row, D]) key(dimension D) (Key[Row], error) {
	key, ok := p.binding.Keys[dimension]
	if !ok {
		return Key[Row]{}, fmt.Errorf("unknown sort dimension %d", int32(dimension))
	}

	return key, nil
}
