package seekpager

import (
	"bytes"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newGORMMySQLMock() (string, *gorm.DB, sqlmock.Sqlmock, error) {
	mockDB, mock, err := sqlmock.New()
	if err != nil {
		return "", nil, nil, err
	}

	dialector := mysql.New(mysql.Config{
		Conn:                      mockDB,
		SkipInitializeWithVersion: true,
	})

	db, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		return "", nil, nil, err
	}

	return "mysql", db.Debug(), mock, nil
}

func newGORMPostgresMock() (string, *gorm.DB, sqlmock.Sqlmock, error) {
	mockDB, mock, err := sqlmock.New()
	if err != nil {
		return "", nil, nil, err
	}

	dialector := postgres.New(postgres.Config{
		Conn: mockDB,
	})

	db, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		return "", nil, nil, err
	}

	return "postgres", db.Debug(), mock, nil
}

// Shared test entity covering every key kind.

type testDimension int32

const (
	dimCreatedAt testDimension = iota + 1
	dimName
	dimScore
	dimViews
)

type testRow struct {
	ID        int32
	Name      string
	Score     int32
	Views     int64
	CreatedAt time.Time
}

func newTestCrypter(t *testing.T) *AESCrypter {
	t.Helper()

	crypter, err := NewAESCrypter(bytes.Repeat([]byte{0x42}, KeySize))
	if err != nil {
		t.Fatalf("new crypter: %v", err)
	}

	return crypter
}

func newTestPager(t *testing.T) *Pager[testRow, testDimension] {
	t.Helper()

	pager, err := New(Binding[testRow, testDimension]{
		IDColumn: "id",
		ID:       func(r testRow) int32 { return r.ID },
		Default:  dimCreatedAt,
		Keys: map[testDimension]Key[testRow]{
			dimCreatedAt: TimeKey("created_at", func(r testRow) time.Time { return r.CreatedAt }),
			dimName:      TextKey("name", func(r testRow) string { return r.Name }),
			dimScore:     Int32Key("score", func(r testRow) int32 { return r.Score }),
			dimViews:     Int64Key("views", func(r testRow) int64 { return r.Views }),
		},
		Aliases: map[string]testDimension{
			"created_at": dimCreatedAt,
			"name":       dimName,
			"score":      dimScore,
			"views":      dimViews,
		},
		Crypter: newTestCrypter(t),
	})
	if err != nil {
		t.Fatalf("new pager: %v", err)
	}

	return pager
}
