package seekpager

import (
	"encoding/binary"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Token_RoundTrip(t *testing.T) {
	pager := newTestPager(t)

	tests := []struct {
		name   string
		cursor Cursor[testDimension]
	}{
		{
			name:   "first page, default dimension",
			cursor: Cursor[testDimension]{Dimension: dimCreatedAt},
		},
		{
			name:   "first page, descending",
			cursor: Cursor[testDimension]{Dimension: dimName, Descending: true},
		},
		{
			name: "time boundary",
			cursor: Cursor[testDimension]{
				Dimension: dimCreatedAt,
				Boundary:  &Boundary{ID: 42, Value: time.Unix(1700000000, 0).UTC()},
			},
		},
		{
			name: "text boundary, previous",
			cursor: Cursor[testDimension]{
				Dimension: dimName,
				Previous:  true,
				Boundary:  &Boundary{ID: 7, Value: "borscht"},
			},
		},
		{
			name: "int32 boundary, descending",
			cursor: Cursor[testDimension]{
				Dimension:  dimScore,
				Descending: true,
				Boundary:   &Boundary{ID: 1, Value: int32(-100)},
			},
		},
		{
			name: "int64 boundary, descending previous",
			cursor: Cursor[testDimension]{
				Dimension:  dimViews,
				Descending: true,
				Previous:   true,
				Boundary:   &Boundary{ID: 2147483647, Value: int64(1) << 60},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := pager.Token(tt.cursor)
			require.NoError(t, err)
			require.NotEmpty(t, token)

			decoded, err := pager.DecodeToken(token)
			require.NoError(t, err)
			require.Equal(t, tt.cursor, decoded)
		})
	}
}

func Test_Token_OpaqueAndUnique(t *testing.T) {
	pager := newTestPager(t)
	cursor := Cursor[testDimension]{
		Dimension: dimName,
		Boundary:  &Boundary{ID: 5, Value: "q"},
	}

	first, err := pager.Token(cursor)
	require.NoError(t, err)
	second, err := pager.Token(cursor)
	require.NoError(t, err)

	// Random nonces: equal cursors produce different token strings.
	assert.NotEqual(t, first, second)
	assert.NotContains(t, first, "q")
}

func Test_Token_TamperRejected(t *testing.T) {
	pager := newTestPager(t)

	token, err := pager.Token(Cursor[testDimension]{
		Dimension: dimName,
		Boundary:  &Boundary{ID: 10, Value: "middle"},
	})
	require.NoError(t, err)

	sealed, err := _encoder.DecodeString(token)
	require.NoError(t, err)

	for i := range sealed {
		mutated := make([]byte, len(sealed))
		copy(mutated, sealed)
		mutated[i] ^= 0x01

		_, err = pager.DecodeToken(_encoder.EncodeToString(mutated))
		require.ErrorIsf(t, err, ErrInvalidToken, "flipped byte %d must not decode", i)
	}
}

func Test_Token_DecodeFailures(t *testing.T) {
	pager := newTestPager(t)
	crypter := newTestCrypter(t)

	// sealUnchecked builds a syntactically valid token around arbitrary
	// plaintext so header validation paths are reachable.
	sealUnchecked := func(plaintext []byte) string {
		token, err := crypter.Encrypt(plaintext)
		require.NoError(t, err)
		return token
	}

	validHeader := func(dimension int32, descending, previous byte) []byte {
		buf := make([]byte, tokenHeaderLen)
		binary.BigEndian.PutUint32(buf[0:4], uint32(dimension))
		buf[4] = descending
		buf[5] = previous
		boundaryID := noBoundaryID
		binary.BigEndian.PutUint32(buf[6:10], uint32(boundaryID))
		return buf
	}

	tests := []struct {
		name  string
		token string
	}{
		{"empty token", ""},
		{"not base64", "@@@not-a-token@@@"},
		{"garbage base64", _encoder.EncodeToString([]byte("too-short"))},
		{"truncated header", sealUnchecked([]byte{0, 0, 0, 1, 0})},
		{"unknown dimension", sealUnchecked(append(validHeader(99, 0, 0), make([]byte, 8)...))},
		{"bad descending flag", sealUnchecked(func() []byte {
			b := validHeader(int32(dimCreatedAt), 2, 0)
			return append(b, make([]byte, 8)...)
		}())},
		{"bad previous flag", sealUnchecked(func() []byte {
			b := validHeader(int32(dimCreatedAt), 0, 7)
			return append(b, make([]byte, 8)...)
		}())},
		{"truncated payload", sealUnchecked(append(validHeader(int32(dimCreatedAt), 0, 0), 1, 2, 3))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := pager.DecodeToken(tt.token)
			require.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func Test_Token_NoBoundaryIdentityMeansFirstPage(t *testing.T) {
	pager := newTestPager(t)
	crypter := newTestCrypter(t)

	// Header with boundary identity -1 but a concrete payload value: the
	// identity decides, the cursor comes back boundary-less.
	buf := make([]byte, tokenHeaderLen)
	binary.BigEndian.PutUint32(buf[0:4], uint32(int32(dimName)))
	boundaryID := noBoundaryID
	binary.BigEndian.PutUint32(buf[6:10], uint32(boundaryID))
	buf = append(buf, []byte("orphan")...)

	token, err := crypter.Encrypt(buf)
	require.NoError(t, err)

	cursor, err := pager.DecodeToken(token)
	require.NoError(t, err)
	require.True(t, cursor.IsFirst())
	require.Equal(t, dimName, cursor.Dimension)
}
