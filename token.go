package seekpager

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// ErrInvalidToken covers every page-token decode failure: authentication or
// base64 errors from the Crypter, truncated buffers, unknown sort dimensions
// and malformed payloads. Callers match it with errors.Is and fall back to a
// first-page cursor; decoding never silently substitutes a default.
var ErrInvalidToken = errors.New("invalid page token")

// Token wire layout (before encryption, integers big-endian):
//
//	[0..4)  sort dimension ordinal : int32
//	[4]     descending             : byte (0|1)
//	[5]     previous               : byte (0|1)
//	[6..10) boundary identity      : int32 (-1 = none)
//	[10..)  boundary sort value    : Key codec output
const tokenHeaderLen = 10

const noBoundaryID = int32(-1)

// encodeToken serializes a cursor and seals it with the crypter.
func encodeToken[Row any, D ~int32](crypter Crypter, key Key[Row], c Cursor[D]) (string, error) {
	boundaryID := noBoundaryID

	var boundaryValue any
	if c.Boundary != nil {
		boundaryID = c.Boundary.ID
		boundaryValue = c.Boundary.Value
	}

	payload, err := key.encode(boundaryValue)
	if err != nil {
		return "", fmt.Errorf("cannot encode token: %w", err)
	}

	buf := make([]byte, tokenHeaderLen, tokenHeaderLen+len(payload))
	binary.BigEndian.PutUint32(buf[0:4], uint32(c.Dimension))
	buf[4] = flagByte(c.Descending)
	buf[5] = flagByte(c.Previous)
	binary.BigEndian.PutUint32(buf[6:10], uint32(boundaryID))
	buf = append(buf, payload...)

	token, err := crypter.Encrypt(buf)
	if err != nil {
		return "", fmt.Errorf("cannot encrypt token: %w", err)
	}

	return token, nil
}

// decodeToken opens a token and reconstructs the cursor it carries. The
// dimension ordinal must be present in keys; a -1 boundary identity means a
// boundary-less cursor.
func decodeToken[Row any, D ~int32](crypter Crypter, keys map[D]Key[Row], token string) (Cursor[D], error) {
	var zero Cursor[D]

	raw, err := crypter.Decrypt(token)
	if err != nil {
		return zero, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	if len(raw) < tokenHeaderLen {
		return zero, fmt.Errorf("%w: truncated header, got %d bytes", ErrInvalidToken, len(raw))
	}

	dimension := D(int32(binary.BigEndian.Uint32(raw[0:4])))
	key, ok := keys[dimension]
	if !ok {
		return zero, fmt.Errorf("%w: unknown sort dimension %d", ErrInvalidToken, int32(dimension))
	}

	descending, err := parseFlagByte(raw[4])
	if err != nil {
		return zero, fmt.Errorf("%w: descending %v", ErrInvalidToken, err)
	}

	previous, err := parseFlagByte(raw[5])
	if err != nil {
		return zero, fmt.Errorf("%w: previous %v", ErrInvalidToken, err)
	}

	boundaryID := int32(binary.BigEndian.Uint32(raw[6:10]))

	boundaryValue, err := key.decode(raw[tokenHeaderLen:])
	if err != nil {
		return zero, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	c := Cursor[D]{
		Dimension:  dimension,
		Descending: descending,
		Previous:   previous,
	}
	if boundaryID != noBoundaryID {
		c.Boundary = &Boundary{
			ID:    boundaryID,
			Value: boundaryValue,
		}
	}

	return c, nil
}

func flagByte(v bool) byte {
	if v {
		return 1
	}

	return 0
}

func parseFlagByte(b byte) (bool, error) {
	switch b {
	case 0:
		return false, nil
	case 1:
		return true, nil
	default:
		return false, fmt.Errorf("flag byte must be 0 or 1, got %d", b)
	}
}
