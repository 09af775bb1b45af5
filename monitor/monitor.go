package monitor

import (
	"crypto/subtle"
	"io"
	"net/http"
	"os"
	"strconv"

	"projector-crm-sync/config"

	"github.com/gin-gonic/gin"
)

const (
	defaultTailBytes = 64 * 1024
	maxTailBytes     = 1 << 20
)

// RegisterLogsRoute serves the tail of the sync log file to holders of
// MONITOR_TOKEN. The route is disabled when no token is configured.
func RegisterLogsRoute(router *gin.Engine) {
	router.GET("/logs", func(c *gin.Context) {
		token := os.Getenv("MONITOR_TOKEN")
		if token == "" || subtle.ConstantTimeCompare([]byte(c.Query("token")), []byte(token)) != 1 {
			c.String(http.StatusUnauthorized, "Unauthorized")
			return
		}

		data, err := readTail(config.LogFilePath(), tailBytes(c.Query("bytes")))
		if err != nil {
			c.String(http.StatusInternalServerError, "Cannot read log file")
			return
		}
		c.Data(http.StatusOK, "text/plain; charset=utf-8", data)
	})
}

// tailBytes parses the bytes query, clamped to maxTailBytes.
func tailBytes(raw string) int64 {
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || v <= 0 {
		return defaultTailBytes
	}
	if v > maxTailBytes {
		return maxTailBytes
	}
	return v
}

func readTail(path string, n int64) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, err
	}
	offset := info.Size() - n
	if offset < 0 {
		offset = 0
	}
	if _, err := f.Seek(offset, io.SeekStart); err != nil {
		return nil, err
	}
	return io.ReadAll(f)
}
