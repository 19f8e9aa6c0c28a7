// Package router wires HTTP handlers into the gin engine.
package router

import (
	"slices"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	priceshandler "stock_dashboard/internal/feature/prices/transport/handler"
	symbollisthandler "stock_dashboard/internal/feature/symbollist/transport/handler"
	platformhandler "stock_dashboard/internal/platform/http/handler"
)

// Options configures the router.
type Options struct {
	DataDir     string
	CORSOrigins []string
}

// NewRouter builds the engine. symbols may be nil when no catalog database is configured,
// in which case /symbols is not registered.
func NewRouter(prices *priceshandler.PricesHandler, symbols *symbollisthandler.SymbolHandler, opts Options) *gin.Engine {
	r := gin.Default()
	r.Use(cors.New(corsConfig(opts.CORSOrigins)))

	// 導通確認用
	health := platformhandler.Health(opts.DataDir)
	r.GET("/healthz", health)
	r.HEAD("/healthz", health)
	r.OPTIONS("/healthz", health)

	r.GET("/", prices.Home)
	r.GET("/companies", prices.Companies)
	r.GET("/data/:symbol", prices.Data)
	r.GET("/summary/:symbol", prices.Summary)
	r.GET("/compare", prices.Compare)

	if symbols != nil {
		r.GET("/symbols", symbols.List)
	}

	return r
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.DefaultConfig()
	cfg.AllowHeaders = []string{"*"}
	if len(origins) == 0 || slices.Contains(origins, "*") {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = origins
	return cfg
}
