package seekpager

import (
	"encoding/binary"
	"fmt"
	"math"
	"time"

	"github.com/samber/lo"
)

// keyKind tags the closed set of sort value types a Key can carry. Adding a
// type means adding one constructor and one case in each switch below.
type keyKind uint8

const (
	kindTime keyKind = iota + 1
	kindText
	kindInt32
	kindInt64
)

// Key binds one sort dimension of an entity to its column, its wire codec and
// a row accessor. Keys are built only by the TimeKey/TextKey/Int32Key/Int64Key
// constructors.
//
// Wire layout per kind (integers big-endian):
//
//	time  : 8 bytes, signed seconds since epoch, no value = -1
//	text  : remaining bytes, UTF-8, no value = empty string
//	int32 : 4 bytes, no value = math.MinInt32
//	int64 : 8 bytes, no value = math.MinInt64
type Key[Row any] struct {
	kind   keyKind
	column string
	value  func(Row) any
}

// TimeKey builds a sort key over a timestamp column. Sub-second precision is
// not carried by the token; boundary comparison happens at second resolution.
func TimeKey[Row any](column string, value func(Row) time.Time) Key[Row] {
	return Key[Row]{
		kind:   kindTime,
		column: column,
		value:  func(r Row) any { return value(r) },
	}
}

// TextKey builds a sort key over a text column.
//
// IMPORTANT:
// An empty string is the "no value" sentinel of the text codec. A boundary
// whose sort value is empty decodes to a nil Value and the seek predicate is
// skipped for it.
func TextKey[Row any](column string, value func(Row) string) Key[Row] {
	return Key[Row]{
		kind:   kindText,
		column: column,
		value:  func(r Row) any { return value(r) },
	}
}

// Int32Key builds a sort key over a 32-bit integer column. math.MinInt32 is
// the "no value" sentinel and is therefore indistinguishable from a stored
// minimum; bind this key only to domains that exclude that value.
func Int32Key[Row any](column string, value func(Row) int32) Key[Row] {
	return Key[Row]{
		kind:   kindInt32,
		column: column,
		value:  func(r Row) any { return value(r) },
	}
}

// Int64Key builds a sort key over a 64-bit integer column. math.MinInt64 is
// the "no value" sentinel, with the same caveat as Int32Key.
func Int64Key[Row any](column string, value func(Row) int64) Key[Row] {
	return Key[Row]{
		kind:   kindInt64,
		column: column,
		value:  func(r Row) any { return value(r) },
	}
}

// Column returns the column name the key sorts by.
func (k Key[Row]) Column() string {
	return k.column
}

// encode serializes a boundary sort value. A nil value encodes the kind's
// sentinel.
func (k Key[Row]) encode(v any) ([]byte, error) {
	switch k.kind {
	case kindTime:
		sec := int64(-1)
		if v != nil {
			t, ok := v.(time.Time)
			if !ok {
				return nil, fmt.Errorf("cannot encode sort value: want time.Time, got %T", v)
			}
			sec = t.Unix()
		}
		return binary.BigEndian.AppendUint64(nil, uint64(sec)), nil
	case kindText:
		s := ""
		if v != nil {
			str, ok := v.(string)
			if !ok {
				return nil, fmt.Errorf("cannot encode sort value: want string, got %T", v)
			}
			s = str
		}
		return []byte(s), nil
	case kindInt32:
		n := int32(math.MinInt32)
		if v != nil {
			i, ok := v.(int32)
			if !ok {
				return nil, fmt.Errorf("cannot encode sort value: want int32, got %T", v)
			}
			n = i
		}
		return binary.BigEndian.AppendUint32(nil, uint32(n)), nil
	case kindInt64:
		n := int64(math.MinInt64)
		if v != nil {
			i, ok := v.(int64)
			if !ok {
				return nil, fmt.Errorf("cannot encode sort value: want int64, got %T", v)
			}
			n = i
		}
		return binary.BigEndian.AppendUint64(nil, uint64(n)), nil
	default:
		panic(fmt.Errorf("cannot encode sort key of kind %d", k.kind))
	}
}

// decode deserializes a boundary sort value. The kind's sentinel decodes to
// nil.
func (k Key[Row]) decode(b []byte) (any, error) {
	switch k.kind {
	case kindTime:
		if len(b) != 8 {
			return nil, fmt.Errorf("timestamp payload must be 8 bytes, got %d", len(b))
		}
		sec := int64(binary.BigEndian.Uint64(b))
		if sec == -1 {
			return nil, nil
		}
		return time.Unix(sec, 0).UTC(), nil
	case kindText:
		if len(b) == 0 {
			return nil, nil
		}
		return string(b), nil
	case kindInt32:
		if len(b) != 4 {
			return nil, fmt.Errorf("int32 payload must be 4 bytes, got %d", len(b))
		}
		n := int32(binary.BigEndian.Uint32(b))
		if n == math.MinInt32 {
			return nil, nil
		}
		return n, nil
	case kindInt64:
		if len(b) != 8 {
			return nil, fmt.Errorf("int64 payload must be 8 bytes, got %d", len(b))
		}
		n := int64(binary.BigEndian.Uint64(b))
		if n == math.MinInt64 {
			return nil, nil
		}
		return n, nil
	default:
		panic(fmt.Errorf("cannot decode sort key of kind %d", k.kind))
	}
}

var _availableColumnNameSymbols = append([]rune("_.'`\""), lo.AlphanumericCharset...)

// validateColumn guards against SQL injection by restricting allowed
// characters in column names.
func validateColumn(column string) error {
	if column == "" {
		return fmt.Errorf("empty column name")
	}

	if !lo.Every(_availableColumnNameSymbols, []rune(column)) {
		return fmt.Errorf("column name contains forbidden symbols '%s'", column)
	}

	return nil
}
