package catalog

import (
	"context"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockStore(t *testing.T) (*GormStore, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	return NewGormStore(db), mock
}

func TestFindBySKU(t *testing.T) {
	t.Run("Found", func(t *testing.T) {
		store, mock := newMockStore(t)

		rows := sqlmock.NewRows([]string{"id", "sku", "name", "price_bronze"}).
			AddRow(7, "PI9129L", "RUGER SECURITY-9", 399.99)
		mock.ExpectQuery("SELECT \\* FROM `products` WHERE sku = \\?").
			WithArgs("PI9129L", 1).
			WillReturnRows(rows)

		p, err := store.FindBySKU(context.Background(), SKU("PI9129L"))
		require.NoError(t, err)
		require.NotNil(t, p)
		assert.Equal(t, SKU("PI9129L"), p.SKU)
		assert.Equal(t, uint(7), p.ID)
	})

	t.Run("Not Found", func(t *testing.T) {
		store, mock := newMockStore(t)

		mock.ExpectQuery("SELECT \\* FROM `products` WHERE sku = \\?").
			WithArgs("MISSING", 1).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		p, err := store.FindBySKU(context.Background(), SKU("MISSING"))
		require.NoError(t, err)
		assert.Nil(t, p)
	})
}

func TestLoadIndex(t *testing.T) {
	store, mock := newMockStore(t)

	rows := sqlmock.NewRows([]string{"id", "sku", "is_active"}).
		AddRow(1, "GLOCK-G19-5", true).
		AddRow(2, "", true). // rows without a SKU never make it into the index
		AddRow(3, "MAG-PMAG30", false)
	mock.ExpectQuery("SELECT \\* FROM `products`").WillReturnRows(rows)

	index, err := store.LoadIndex(context.Background())
	require.NoError(t, err)
	assert.Len(t, index, 2)
	assert.Contains(t, index, SKU("GLOCK-G19-5"))
	// Inactive products stay in the index so a returning SKU reactivates
	// instead of colliding on insert.
	assert.Contains(t, index, SKU("MAG-PMAG30"))
}

func TestUpdate(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `products` SET").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := store.Update(context.Background(), 42, FieldDiff{"price_gold": 94.99})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdate_EmptyDiff(t *testing.T) {
	store, mock := newMockStore(t)

	// No SQL at all for an empty diff.
	err := store.Update(context.Background(), 42, FieldDiff{})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeactivateAbsent(t *testing.T) {
	store, mock := newMockStore(t)

	rows := sqlmock.NewRows([]string{"id", "sku"}).
		AddRow(1, "KEEP-1").
		AddRow(2, "GONE-1").
		AddRow(3, "GONE-2")
	mock.ExpectQuery("SELECT `id`,`sku` FROM `products` WHERE is_active = \\?").
		WillReturnRows(rows)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `products` SET").
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	seen := map[SKU]struct{}{"KEEP-1": {}}
	deactivated, err := store.DeactivateAbsent(context.Background(), seen)
	require.NoError(t, err)
	assert.Equal(t, []SKU{"GONE-1", "GONE-2"}, deactivated)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeactivateAbsent_NothingMissing(t *testing.T) {
	store, mock := newMockStore(t)

	rows := sqlmock.NewRows([]string{"id", "sku"}).AddRow(1, "KEEP-1")
	mock.ExpectQuery("SELECT `id`,`sku` FROM `products` WHERE is_active = \\?").
		WillReturnRows(rows)

	deactivated, err := store.DeactivateAbsent(context.Background(), map[SKU]struct{}{"KEEP-1": {}})
	require.NoError(t, err)
	assert.Empty(t, deactivated)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStoreErrorClassification(t *testing.T) {
	tests := []struct {
		name      string
		msg       string
		transient bool
	}{
		{"Timeout", "dial tcp: i/o timeout", true},
		{"Connection refused", "connect: connection refused", true},
		{"Duplicate key", "Error 1062: Duplicate entry 'X' for key 'sku'", false},
		{"Syntax error", "Error 1064: You have an error in your SQL syntax", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrapped := wrapStoreErr("insert", errFromMsg(tt.msg))
			require.Error(t, wrapped)
			assert.Equal(t, tt.transient, IsTransient(wrapped))
		})
	}
}

type stringErr string

func (e stringErr) Error() string { return string(e) }

func errFromMsg(msg string) error { return stringErr(msg) }
