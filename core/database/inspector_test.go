package database

import (
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	return db, mock
}

func TestMissingColumns(t *testing.T) {
	db, mock := newMockDB(t)

	rows := sqlmock.NewRows([]string{"Field", "Type", "Null", "Key", "Default", "Extra"}).
		AddRow("id", "bigint", "NO", "PRI", nil, "auto_increment").
		AddRow("sku", "varchar(100)", "NO", "UNI", nil, "").
		AddRow("name", "varchar(255)", "NO", "", nil, "")

	mock.ExpectQuery("SHOW COLUMNS FROM `products`").WillReturnRows(rows)

	missing, err := MissingColumns(db, "products", []string{"id", "sku", "name", "price_bronze"})
	require.NoError(t, err)
	assert.Equal(t, []string{"price_bronze"}, missing)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMissingColumns_AllPresent(t *testing.T) {
	db, mock := newMockDB(t)

	rows := sqlmock.NewRows([]string{"Field", "Type", "Null", "Key", "Default", "Extra"}).
		AddRow("id", "bigint", "NO", "PRI", nil, "auto_increment").
		AddRow("SKU", "varchar(100)", "NO", "UNI", nil, "")

	mock.ExpectQuery("SHOW COLUMNS FROM `products`").WillReturnRows(rows)

	// Column name comparison is case-insensitive, as MySQL is.
	missing, err := MissingColumns(db, "products", []string{"Id", "sku"})
	require.NoError(t, err)
	assert.Empty(t, missing)
}
