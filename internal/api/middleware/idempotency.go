package middleware

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	pkgredis "github.com/lodymel/heartpass/pkg/redis"
	"github.com/lodymel/heartpass/pkg/response"
)

const (
	IdempotencyKeyHeader      = "Idempotency-Key"
	IdempotencyReplayedHeader = "X-Idempotency-Replayed"

	idempotencyKeyMaxLen = 128
	// 进行中标记的存活时间，覆盖单个请求的最长处理时间
	idempotencyLockTTL = 30 * time.Second
)

// IdempotencyStore 幂等响应缓存（Redis 实现）
type IdempotencyStore interface {
	GetIdempotent(ctx context.Context, key string) ([]byte, error)
	SetIdempotent(ctx context.Context, key string, payload []byte, ttl time.Duration) error
	ReserveIdempotent(ctx context.Context, key string, ttl time.Duration) (bool, error)
	ReleaseIdempotent(ctx context.Context, key string) error
}

type cachedResponse struct {
	StatusCode  int    `json:"status_code"`
	ContentType string `json:"content_type"`
	Body        []byte `json:"body"`
}

type bodyRecorder struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w *bodyRecorder) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *bodyRecorder) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

// Idempotency 可选的 Idempotency-Key 支持
// 同一用户、同一路径、同一 Key、同一请求体的重复写请求直接回放首次响应；5xx 不缓存以便重试
// 首次请求处理期间到达的重复请求返回 409
// 需挂在 JWTAuth 之后；store 为 nil 或 Redis 出错时降级放行
func Idempotency(store IdempotencyStore, ttl time.Duration, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.GetHeader(IdempotencyKeyHeader)
		if store == nil || key == "" || !isMutating(c.Request.Method) {
			c.Next()
			return
		}
		if len(key) > idempotencyKeyMaxLen {
			response.BadRequest(c, 10001, "Idempotency-Key is too long")
			c.Abort()
			return
		}

		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				response.Error(c, http.StatusRequestEntityTooLarge, 10005, "request body too large")
			} else {
				response.BadRequest(c, 10001, "failed to read request body")
			}
			c.Abort()
			return
		}
		c.Request.Body = io.NopCloser(bytes.NewReader(body))

		sum := sha256.Sum256(body)
		cacheKey := c.GetString(ContextUserID) + ":" + c.Request.Method + ":" + c.Request.URL.Path + ":" + key + ":" + hex.EncodeToString(sum[:])

		// 1. 命中缓存：回放
		data, err := store.GetIdempotent(c.Request.Context(), cacheKey)
		switch {
		case err == nil:
			var cached cachedResponse
			if jsonErr := json.Unmarshal(data, &cached); jsonErr == nil {
				c.Header(IdempotencyReplayedHeader, "true")
				c.Data(cached.StatusCode, cached.ContentType, cached.Body)
				c.Abort()
				return
			}
		case !errors.Is(err, pkgredis.ErrCacheMiss):
			logger.Warn("读取幂等缓存失败，降级放行", zap.Error(err))
		}

		// 2. 抢占进行中标记，首次请求未完成时拒绝重复请求
		reserved, err := store.ReserveIdempotent(c.Request.Context(), cacheKey, idempotencyLockTTL)
		switch {
		case err != nil:
			logger.Warn("抢占幂等标记失败，降级放行", zap.Error(err))
		case !reserved:
			response.Conflict(c, 10006, "a request with this Idempotency-Key is still in progress")
			c.Abort()
			return
		default:
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
				defer cancel()
				if err := store.ReleaseIdempotent(ctx, cacheKey); err != nil {
					logger.Warn("释放幂等标记失败", zap.Error(err))
				}
			}()
		}

		// 3. 执行并记录响应
		recorder := &bodyRecorder{ResponseWriter: c.Writer, body: &bytes.Buffer{}}
		c.Writer = recorder

		c.Next()

		status := recorder.Status()
		if status >= http.StatusInternalServerError {
			return
		}
		payload, err := json.Marshal(cachedResponse{
			StatusCode:  status,
			ContentType: recorder.Header().Get("Content-Type"),
			Body:        recorder.body.Bytes(),
		})
		if err != nil {
			return
		}
		// 请求 context 可能已超时，缓存写入使用独立截止时间
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := store.SetIdempotent(ctx, cacheKey, payload, ttl); err != nil {
			logger.Warn("写入幂等缓存失败", zap.Error(err))
		}
	}
}

func isMutating(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	default:
		return false
	}
}
