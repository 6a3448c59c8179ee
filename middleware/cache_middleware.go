package middleware

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/Nitteswaran/Routely/cache"
	"github.com/Nitteswaran/Routely/utils"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type cachedResponse struct {
	Status      int    `json:"status"`
	ContentType string `json:"content_type"`
	Body        []byte `json:"body"`
}

type bodyCaptureWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w *bodyCaptureWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *bodyCaptureWriter) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

// CacheResponse caches successful GET responses in redis. Used on the AQI
// and achievement catalog endpoints; never on the leaderboard, which is
// always recomputed from current balances.
func CacheResponse(duration time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodGet {
			c.Next()
			return
		}

		userID := uint(0)
		if user, ok := CurrentUser(c); ok {
			userID = user.ID
		}
		cacheKey := fmt.Sprintf("resp:%d:%s?%s", userID, c.Request.URL.Path, c.Request.URL.RawQuery)

		var cached cachedResponse
		if err := cache.Get(cacheKey, &cached); err == nil {
			c.Header("X-Cache", "HIT")
			c.Data(cached.Status, cached.ContentType, cached.Body)
			c.Abort()
			return
		}
		c.Header("X-Cache", "MISS")

		bcw := &bodyCaptureWriter{body: &bytes.Buffer{}, ResponseWriter: c.Writer}
		c.Writer = bcw

		c.Next()

		if c.Writer.Status() == http.StatusOK {
			entry := cachedResponse{
				Status:      c.Writer.Status(),
				ContentType: c.Writer.Header().Get("Content-Type"),
				Body:        bcw.body.Bytes(),
			}
			if err := cache.Set(cacheKey, entry, duration); err != nil && err != cache.ErrDisabled {
				utils.Logger.Warn("cache_set_failed",
					zap.Error(err),
					zap.String("key", cacheKey),
				)
			}
		}
	}
}

// InvalidateUserCache drops cached responses for one user.
func InvalidateUserCache(userID uint) error {
	return cache.DeletePattern(fmt.Sprintf("resp:%d:*", userID))
}
