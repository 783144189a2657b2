package middleware

import (
	"bytes"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"blog-api/cmd/api/trace"
	"blog-api/cmd/internal/logger"
)

const maxBodyLog = 1024

// RequestTrace assigns every request an id (reusing an inbound X-Request-Id),
// exposes it on the response and logs one line when the request completes.
func RequestTrace() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		id := c.GetHeader(trace.HeaderRequestID)
		if id == "" {
			id = trace.GenerateID()
		}
		c.Request = c.Request.WithContext(trace.WithRequestID(c.Request.Context(), id))
		c.Header(trace.HeaderRequestID, id)

		method, path := c.Request.Method, c.Request.URL.Path
		query := c.Request.URL.Query()
		body := snapshotBody(c.Request)

		c.Next()

		status := c.Writer.Status()
		fields := logger.Fields{
			"method":       method,
			"path":         path,
			"query_params": map[string][]string(query),
			"status":       status,
			"duration":     time.Since(start).String(),
			"request_id":   id,
		}
		if body != "" {
			fields["body"] = body
		}
		if status >= http.StatusInternalServerError {
			logger.ErrorWithFields("completed request", fields)
		} else {
			logger.InfoWithFields("completed request", fields)
		}
	}
}

// snapshotBody 는 쓰기 요청의 본문 앞부분을 읽고, 핸들러가 다시 읽을 수 있게 Body 를 되돌려 놓는다.
func snapshotBody(r *http.Request) string {
	if r.Body == nil || r.ContentLength == 0 {
		return ""
	}
	switch r.Method {
	case http.MethodPost, http.MethodPut, http.MethodPatch:
	default:
		return ""
	}
	raw, err := io.ReadAll(r.Body)
	if err != nil {
		return ""
	}
	r.Body = io.NopCloser(bytes.NewReader(raw))
	if len(raw) > maxBodyLog {
		raw = raw[:maxBodyLog]
	}
	return string(raw)
}
