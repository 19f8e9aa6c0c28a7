// Package handler はプラットフォームレベルのエンドポイント用HTTPハンドラーを提供します。
package handler

import (
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
)

// Health はサービスヘルスチェック用の /healthz エンドポイントを返します。
// データディレクトリが読めない場合は503を返します。キャッシュは常に無効化します。
func Health(dataDir string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Cache-Control", "no-store")

		switch c.Request.Method {
		case http.MethodHead:
			c.Status(http.StatusOK)
			return
		case http.MethodOptions:
			c.Status(http.StatusNoContent)
			return
		}

		if info, err := os.Stat(dataDir); err != nil || !info.IsDir() {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "data_dir": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
