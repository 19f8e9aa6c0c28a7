package db

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// TestDialector はドライバー名に応じたダイアレクタが選択されることを検証します。
func TestDialector(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		cfg      Config
		wantName string
		wantErr  string
	}{
		{name: "sqlite", cfg: Config{Driver: DriverSQLite, SQLitePath: "x.db"}, wantName: "sqlite"},
		{name: "sqlite default path", cfg: Config{Driver: DriverSQLite}, wantName: "sqlite"},
		{name: "postgres", cfg: Config{Driver: DriverPostgres, DSN: "host=localhost user=app dbname=stocks"}, wantName: "postgres"},
		{name: "postgres without DSN", cfg: Config{Driver: DriverPostgres}, wantErr: "requires a DSN"},
		{name: "unknown driver", cfg: Config{Driver: "mysql"}, wantErr: "unsupported database driver"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			d, err := Dialector(tt.cfg)
			if tt.wantErr != "" {
				assert.ErrorContains(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, d.Name())
		})
	}
}

// TestConfig_Enabled はドライバー未設定時にカタログが無効になることを検証します。
func TestConfig_Enabled(t *testing.T) {
	t.Parallel()

	assert.False(t, Config{}.Enabled())
	assert.True(t, Config{Driver: DriverSQLite}.Enabled())
}

// TestConnectWithRetry_SuccessOnFirstTry は初回接続成功時にリトライせずDBを返すことを検証します。
func TestConnectWithRetry_SuccessOnFirstTry(t *testing.T) {
	t.Parallel()

	mockDB := &gorm.DB{}
	attempts := 0
	opener := func(gorm.Dialector) (*gorm.DB, error) {
		attempts++
		return mockDB, nil
	}

	db, err := ConnectWithRetry(sqlite.Open(":memory:"), 5*time.Second, opener)

	require.NoError(t, err)
	assert.Same(t, mockDB, db)
	assert.Equal(t, 1, attempts)
}

// TestConnectWithRetry_RetriesOnFailure は接続失敗時にリトライして最終的に成功することを検証します。
func TestConnectWithRetry_RetriesOnFailure(t *testing.T) {
	// リトライ間隔の待機が入るため並列実行しない

	mockDB := &gorm.DB{}
	attempts := 0
	opener := func(gorm.Dialector) (*gorm.DB, error) {
		attempts++
		if attempts < 2 {
			return nil, errors.New("connection refused")
		}
		return mockDB, nil
	}

	db, err := ConnectWithRetry(sqlite.Open(":memory:"), 10*time.Second, opener)

	require.NoError(t, err)
	assert.Same(t, mockDB, db)
	assert.Equal(t, 2, attempts)
}

// TestConnectWithRetry_TimeoutAfterRetries はタイムアウト後にエラーが返されることを検証します。
func TestConnectWithRetry_TimeoutAfterRetries(t *testing.T) {
	t.Parallel()

	attempts := 0
	opener := func(gorm.Dialector) (*gorm.DB, error) {
		attempts++
		return nil, errors.New("connection refused")
	}

	// 期限0なので初回失敗で即座に返る
	_, err := ConnectWithRetry(sqlite.Open(":memory:"), 0, opener)

	require.Error(t, err)
	assert.ErrorContains(t, err, "connection refused")
	assert.Equal(t, 1, attempts)
}

type catalogRow struct {
	ID   uint
	Code string
}

// TestOpenDB_SQLite はSQLiteファイルに接続しモデルがマイグレーションされることを検証します。
func TestOpenDB_SQLite(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "catalog.db")
	db, err := OpenDB(Config{Driver: DriverSQLite, SQLitePath: path}, &catalogRow{})
	require.NoError(t, err)

	assert.True(t, db.Migrator().HasTable(&catalogRow{}))
	require.NoError(t, db.Create(&catalogRow{Code: "TCS.NS"}).Error)
}
