package adapters

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"stock_dashboard/internal/feature/symbollist/domain/entity"
)

// setupTestDB はテスト用のインメモリSQLiteデータベースを準備します。
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed to initialize test database")

	// :memory: は接続ごとに別DBになるため1接続に固定する
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&entity.Symbol{}), "failed to migrate table")
	return db
}

// seedSymbol はテスト用の銘柄データをデータベースに作成します。
func seedSymbol(t *testing.T, db *gorm.DB, code, name string, isActive bool, sortKey int) *entity.Symbol {
	t.Helper()

	s := &entity.Symbol{Code: code, Name: name, Exchange: "NSE", IsActive: true, SortKey: sortKey}
	require.NoError(t, db.Create(s).Error, "failed to seed symbol")

	// default:true のためfalseはINSERT後に更新する
	if !isActive {
		require.NoError(t, db.Model(s).Update("is_active", false).Error)
	}
	return s
}

// TestSymbolGorm_ListActive はListActiveメソッドの各種シナリオをテーブル駆動テストで検証します。
func TestSymbolGorm_ListActive(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		setupFunc     func(t *testing.T, db *gorm.DB)
		expectedCodes []string
	}{
		{
			name: "success: returns active symbols sorted by sort_key",
			setupFunc: func(t *testing.T, db *gorm.DB) {
				seedSymbol(t, db, "INFY.NS", "Infosys", true, 2)
				seedSymbol(t, db, "TCS.NS", "Tata Consultancy Services", true, 1)
				seedSymbol(t, db, "RELIANCE.NS", "Reliance Industries", true, 3)
			},
			expectedCodes: []string{"TCS.NS", "INFY.NS", "RELIANCE.NS"},
		},
		{
			name: "success: excludes inactive symbols",
			setupFunc: func(t *testing.T, db *gorm.DB) {
				seedSymbol(t, db, "TCS.NS", "Tata Consultancy Services", true, 1)
				seedSymbol(t, db, "INFY.NS", "Infosys", false, 2)
			},
			expectedCodes: []string{"TCS.NS"},
		},
		{
			name:          "success: empty catalog",
			setupFunc:     func(t *testing.T, db *gorm.DB) {},
			expectedCodes: []string{},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			db := setupTestDB(t)
			repo := NewSymbolRepository(db)
			tt.setupFunc(t, db)

			symbols, err := repo.ListActive(context.Background())
			require.NoError(t, err)
			require.Len(t, symbols, len(tt.expectedCodes))
			for i, code := range tt.expectedCodes {
				assert.Equal(t, code, symbols[i].Code)
			}

			codes, err := repo.ListActiveCodes(context.Background())
			require.NoError(t, err)
			if len(tt.expectedCodes) == 0 {
				assert.Empty(t, codes)
			} else {
				assert.Equal(t, tt.expectedCodes, codes)
			}
		})
	}
}

// TestSymbolGorm_UpsertCodes は新規登録と既存銘柄の再有効化・並び替えを検証します。
func TestSymbolGorm_UpsertCodes(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	repo := NewSymbolRepository(db)
	ctx := context.Background()

	// 既存の無効な銘柄（名前は保持されるべき）
	seedSymbol(t, db, "INFY.NS", "Infosys", false, 9)

	require.NoError(t, repo.UpsertCodes(ctx, []string{"TCS.NS", " INFY.NS ", ""}))

	codes, err := repo.ListActiveCodes(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"TCS.NS", "INFY.NS"}, codes)

	symbols, err := repo.ListActive(ctx)
	require.NoError(t, err)
	require.Len(t, symbols, 2)
	assert.Equal(t, "TCS.NS", symbols[0].Name, "new entries are named after their code")
	assert.Equal(t, "Infosys", symbols[1].Name)
	assert.Equal(t, 2, symbols[1].SortKey)

	// 2回目の実行で重複しない
	require.NoError(t, repo.UpsertCodes(ctx, []string{"TCS.NS"}))
	var count int64
	require.NoError(t, db.Model(&entity.Symbol{}).Count(&count).Error)
	assert.Equal(t, int64(2), count)
}

// TestSymbolGorm_UpsertCodes_Empty は空の入力でDBに触れないことを検証します。
func TestSymbolGorm_UpsertCodes_Empty(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	repo := NewSymbolRepository(db)

	require.NoError(t, repo.UpsertCodes(context.Background(), nil))
	require.NoError(t, repo.UpsertCodes(context.Background(), []string{"  "}))

	var count int64
	require.NoError(t, db.Model(&entity.Symbol{}).Count(&count).Error)
	assert.Zero(t, count)
}
