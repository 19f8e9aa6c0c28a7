// Package handler はpricesフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"stock_dashboard/internal/api"
	"stock_dashboard/internal/feature/prices/domain"
	"stock_dashboard/internal/feature/prices/domain/entity"
)

const (
	msgRunning          = "Stock API is running!"
	msgNotFound         = "Company not found"
	msgCompareNotFound  = "One of the symbols is invalid"
	msgCompareNoClose   = "Close column missing in one of the CSV files"
	msgCompareMissingQS = "symbol1 and symbol2 are required"
	msgInternal         = "internal server error"
)

// PricesUsecase は株価テーブル参照のユースケースインターフェースです。
// Goの慣例に従い、インターフェースは利用者（handler）側で定義します。
type PricesUsecase interface {
	ListCompanies(ctx context.Context) ([]string, error)
	GetRecent(ctx context.Context, symbol string, n int) ([]entity.Row, error)
	GetSummary(ctx context.Context, symbol string) (entity.Summary, error)
	Compare(ctx context.Context, symbol1, symbol2 string) (entity.Comparison, error)
}

// Options はハンドラーの動作設定です。
type Options struct {
	// LegacyErrorStatus が true の場合、ドメインエラーも200で返します（旧クライアント互換）。
	LegacyErrorStatus bool
}

// PricesHandler は株価テーブルに関するHTTPリクエストを処理します。
type PricesHandler struct {
	uc   PricesUsecase
	opts Options
}

// NewPricesHandler は新しい PricesHandler を作成します。
func NewPricesHandler(uc PricesUsecase, opts Options) *PricesHandler {
	return &PricesHandler{uc: uc, opts: opts}
}

// Home は稼働確認用のメッセージを返します。
//
// GET /
func (h *PricesHandler) Home(c *gin.Context) {
	c.JSON(http.StatusOK, api.MessageResponse{Message: msgRunning})
}

// Companies はCSVが保存されている銘柄の一覧を返します。
//
// GET /companies
func (h *PricesHandler) Companies(c *gin.Context) {
	companies, err := h.uc.ListCompanies(c.Request.Context())
	if err != nil {
		slog.Error("failed to list companies", "error", err)
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: msgInternal})
		return
	}
	if companies == nil {
		companies = []string{}
	}
	c.JSON(http.StatusOK, api.CompaniesResponse{Companies: companies})
}

// Data は銘柄の直近データを行オブジェクトの配列で返します。
//
// エンドポイント例:
// GET /data/:symbol?n=30
func (h *PricesHandler) Data(c *gin.Context) {
	symbol := c.Param("symbol")
	// 変換できない場合は0となり、usecase側でデフォルト値に置き換えられる
	n, _ := strconv.Atoi(c.DefaultQuery("n", "30"))

	rows, err := h.uc.GetRecent(c.Request.Context(), symbol, n)
	if err != nil {
		h.fail(c, err, msgNotFound, "")
		return
	}
	if rows == nil {
		rows = []entity.Row{}
	}
	c.JSON(http.StatusOK, rows)
}

// Summary は52週高値・安値と終値平均を返します。
//
// GET /summary/:symbol
func (h *PricesHandler) Summary(c *gin.Context) {
	symbol := c.Param("symbol")

	s, err := h.uc.GetSummary(c.Request.Context(), symbol)
	if err != nil {
		// スキーマ不一致の場合は実際の列名を含むメッセージを返す
		h.fail(c, err, msgNotFound, "")
		return
	}
	c.JSON(http.StatusOK, api.SummaryResponse{
		Symbol:     s.Symbol,
		WeekHigh52: s.High,
		WeekLow52:  s.Low,
		AvgClose:   s.AvgClose,
	})
}

// Compare は2銘柄の終値平均を、指定された銘柄文字列をキーとして返します。
//
// GET /compare?symbol1=TCS&symbol2=INFY
func (h *PricesHandler) Compare(c *gin.Context) {
	s1, s2 := c.Query("symbol1"), c.Query("symbol2")
	if s1 == "" || s2 == "" {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: msgCompareMissingQS})
		return
	}

	cmp, err := h.uc.Compare(c.Request.Context(), s1, s2)
	if err != nil {
		h.fail(c, err, msgCompareNotFound, msgCompareNoClose)
		return
	}
	c.JSON(http.StatusOK, cmp)
}

// fail はドメインエラーをステータスコードとエラーペイロードに変換します。
// schemaMsg が空の場合はエラー自身のメッセージ（実際の列名を含む）を使用します。
func (h *PricesHandler) fail(c *gin.Context, err error, notFoundMsg, schemaMsg string) {
	status, msg := http.StatusInternalServerError, msgInternal

	var (
		sm *domain.SchemaMismatchError
		nd *domain.NoNumericDataError
	)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		status, msg = http.StatusNotFound, notFoundMsg
	case errors.As(err, &sm):
		// ラップされていても列名の一覧だけを返す
		status, msg = http.StatusUnprocessableEntity, sm.Error()
		if schemaMsg != "" {
			msg = schemaMsg
		}
	case errors.Is(err, domain.ErrSchemaMismatch):
		status, msg = http.StatusUnprocessableEntity, domain.ErrSchemaMismatch.Error()
		if schemaMsg != "" {
			msg = schemaMsg
		}
	case errors.As(err, &nd):
		status, msg = http.StatusUnprocessableEntity, nd.Error()
	case errors.Is(err, domain.ErrNoNumericData):
		status, msg = http.StatusUnprocessableEntity, domain.ErrNoNumericData.Error()
	default:
		slog.Error("request failed", "path", c.FullPath(), "error", err)
	}

	if h.opts.LegacyErrorStatus {
		status = http.StatusOK
	}
	c.JSON(status, api.ErrorResponse{Error: msg})
}
