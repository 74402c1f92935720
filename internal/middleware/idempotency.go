package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-redis/redis/v8"

	"github.com/eshop/backoffice/internal/services"
)

const (
	IdempotencyHeader = "Idempotency-Key"
	ReplayedHeader    = "Idempotent-Replayed"

	pendingMarker = `{"pending":true}`
)

type cachedResponse struct {
	Pending     bool   `json:"pending,omitempty"`
	Status      int    `json:"status"`
	ContentType string `json:"contentType,omitempty"`
	Body        []byte `json:"body"`
}

func idempotencyKey(r *http.Request, key string) string {
	return fmt.Sprintf("idempotency:%s:%s:%s", r.Method, r.URL.Path, key)
}

// Idempotency replays the first response to a request carrying an
// Idempotency-Key header. A repeat that arrives while the first is still
// running gets 409. Server errors are not cached so the client can retry.
// Without a Redis client requests pass straight through.
func Idempotency(client *redis.Client, ttl time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if client == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := r.Header.Get(IdempotencyHeader)
			if key == "" {
				next.ServeHTTP(w, r)
				return
			}

			ctx := r.Context()
			redisKey := idempotencyKey(r, key)
			acquired, err := client.SetNX(ctx, redisKey, pendingMarker, ttl).Result()
			if err != nil {
				log.Printf("[IDEMPOTENCY] Redis unavailable, processing without key %s: %v", key, err)
				next.ServeHTTP(w, r)
				return
			}

			if !acquired {
				replay(w, r, client, redisKey)
				return
			}

			// The pending marker is dropped unless a response gets stored, so a
			// panicking or failing handler leaves the key free for a retry.
			stored := false
			defer func() {
				if stored {
					return
				}
				if err := client.Del(context.WithoutCancel(ctx), redisKey).Err(); err != nil {
					log.Printf("[IDEMPOTENCY] Failed to release key %s: %v", key, err)
				}
			}()

			var body bytes.Buffer
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			ww.Tee(&body)
			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			if status >= http.StatusInternalServerError {
				return
			}

			data, err := json.Marshal(cachedResponse{
				Status:      status,
				ContentType: ww.Header().Get("Content-Type"),
				Body:        body.Bytes(),
			})
			if err != nil {
				log.Printf("[IDEMPOTENCY] Failed to encode response for key %s: %v", key, err)
				return
			}
			if err := client.Set(ctx, redisKey, data, ttl).Err(); err != nil {
				log.Printf("[IDEMPOTENCY] Failed to store response for key %s: %v", key, err)
				return
			}
			stored = true
		})
	}
}

func replay(w http.ResponseWriter, r *http.Request, client *redis.Client, redisKey string) {
	data, err := client.Get(r.Context(), redisKey).Bytes()
	if errors.Is(err, redis.Nil) {
		services.SendErrorResponse(w, "Idempotency key expired, retry the request", http.StatusConflict, nil)
		return
	}
	if err != nil {
		log.Printf("[IDEMPOTENCY] Failed to read cached response: %v", err)
		services.SendErrorResponse(w, "An Internal Error Occurred", http.StatusInternalServerError, nil)
		return
	}

	var cached cachedResponse
	if err := json.Unmarshal(data, &cached); err != nil {
		log.Printf("[IDEMPOTENCY] Corrupt cached response: %v", err)
		services.SendErrorResponse(w, "An Internal Error Occurred", http.StatusInternalServerError, nil)
		return
	}
	if cached.Pending {
		services.SendErrorResponse(w, "A request with this Idempotency-Key is already in progress", http.StatusConflict, nil)
		return
	}

	if cached.ContentType != "" {
		w.Header().Set("Content-Type", cached.ContentType)
	}
	w.Header().Set(ReplayedHeader, "true")
	w.WriteHeader(cached.Status)
	w.Write(cached.Body)
}
