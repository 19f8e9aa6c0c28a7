// Package csvstore はprice tableをデータディレクトリ上のCSVファイルとして永続化します。
// 1銘柄につき1ファイル（{symbol}.csv）を持ち、ヘッダー行の列名は書き込み時に正規化しません。
package csvstore

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"stock_dashboard/internal/feature/prices/domain"
	"stock_dashboard/internal/feature/prices/domain/entity"
	"stock_dashboard/internal/feature/prices/usecase"
)

const fileExt = ".csv"

// priceTableCSV はPriceTableRepositoryのCSVファイル実装です。
type priceTableCSV struct {
	dir string
}

var _ usecase.PriceTableRepository = (*priceTableCSV)(nil)

// NewPriceTableCSV は指定ディレクトリを読み書きするリポジトリを生成します。
func NewPriceTableCSV(dir string) *priceTableCSV {
	return &priceTableCSV{dir: dir}
}

func (r *priceTableCSV) path(symbol string) string {
	return filepath.Join(r.dir, symbol+fileExt)
}

// List はデータディレクトリ内の *.csv ファイルのステム（銘柄コード）を昇順で返します。
// ディレクトリが存在しない場合は空のリストを返します。
func (r *priceTableCSV) List(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(r.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("read data dir: %w", err)
	}

	out := make([]string, 0, len(entries))
	for _, e := range entries {
		name := e.Name()
		// 一時ファイルや隠しファイルは除外
		if !e.Type().IsRegular() || strings.HasPrefix(name, ".") || !strings.HasSuffix(name, fileExt) {
			continue
		}
		out = append(out, strings.TrimSuffix(name, fileExt))
	}
	sort.Strings(out)
	return out, nil
}

// Load は銘柄のCSVを読み込みます。ファイルがない場合は domain.ErrNotFound を返します。
func (r *priceTableCSV) Load(ctx context.Context, symbol string) (entity.PriceTable, error) {
	if err := ctx.Err(); err != nil {
		return entity.PriceTable{}, err
	}
	if !domain.ValidSymbol(symbol) {
		slog.Warn("rejected invalid symbol", "symbol", symbol)
		return entity.PriceTable{}, domain.ErrNotFound
	}

	f, err := os.Open(r.path(symbol))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return entity.PriceTable{}, domain.ErrNotFound
		}
		return entity.PriceTable{}, fmt.Errorf("open %s: %w", symbol, err)
	}
	defer func() {
		if err := f.Close(); err != nil {
			slog.Warn("failed to close csv file", "symbol", symbol, "error", err)
		}
	}()

	t, err := decode(f)
	if err != nil {
		return entity.PriceTable{}, fmt.Errorf("parse %s: %w", symbol, err)
	}
	t.Symbol = symbol
	return t, nil
}

// Version はファイルの更新時刻とサイズから作るテーブルの指紋を返します。
// キャッシュ層はこの値が変わったエントリを破棄します。
func (r *priceTableCSV) Version(ctx context.Context, symbol string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if !domain.ValidSymbol(symbol) {
		return "", domain.ErrNotFound
	}
	fi, err := os.Stat(r.path(symbol))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", domain.ErrNotFound
		}
		return "", fmt.Errorf("stat %s: %w", symbol, err)
	}
	return fmt.Sprintf("%d-%d", fi.ModTime().UnixNano(), fi.Size()), nil
}

// Save はテーブル全体を {symbol}.csv に上書き保存します。
// 同一ディレクトリの一時ファイルに書き出してからリネームするため、
// 読み取り側が書き込み途中のファイルを見ることはありません。
func (r *priceTableCSV) Save(ctx context.Context, t entity.PriceTable) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !domain.ValidSymbol(t.Symbol) {
		return fmt.Errorf("invalid symbol %q", t.Symbol)
	}
	if err := os.MkdirAll(r.dir, 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	tmp, err := os.CreateTemp(r.dir, "."+t.Symbol+"-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() {
		// rename 済みなら何もしない
		_ = os.Remove(tmpName)
	}()

	if err := encode(tmp, t); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write %s: %w", t.Symbol, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, r.path(t.Symbol)); err != nil {
		return fmt.Errorf("replace %s: %w", t.Symbol, err)
	}
	return nil
}

func decode(rd io.Reader) (entity.PriceTable, error) {
	cr := csv.NewReader(rd)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	// 引用符で囲まれていないセル内の " をそのまま値として扱う
	cr.LazyQuotes = true

	header, err := cr.Read()
	if err == io.EOF {
		return entity.PriceTable{Columns: []string{}, Records: [][]string{}}, nil
	}
	if err != nil {
		return entity.PriceTable{}, err
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	records := [][]string{}
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return entity.PriceTable{}, err
		}
		records = append(records, rec)
	}
	return entity.PriceTable{Columns: header, Records: records}, nil
}

func encode(w io.Writer, t entity.PriceTable) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Columns); err != nil {
		return err
	}
	if err := cw.WriteAll(t.Records); err != nil {
		return err
	}
	return cw.Error()
}
