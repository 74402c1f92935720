package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-redis/redismock/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testTTL = time.Hour

func depositHandler(calls *int, status int) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*calls++
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write([]byte(`{"balance":10.00}`))
	})
}

func depositRequest(key string) *http.Request {
	r := httptest.NewRequest(http.MethodPost, "/api/v1/wallets/w1/deposit", nil)
	if key != "" {
		r.Header.Set(IdempotencyHeader, key)
	}
	return r
}

func TestIdempotency_FirstRequestIsCached(t *testing.T) {
	client, mock := redismock.NewClientMock()
	calls := 0
	handler := Idempotency(client, testTTL)(depositHandler(&calls, http.StatusOK))

	key := "idempotency:POST:/api/v1/wallets/w1/deposit:k1"
	cached, err := json.Marshal(cachedResponse{
		Status:      http.StatusOK,
		ContentType: "application/json",
		Body:        []byte(`{"balance":10.00}`),
	})
	require.NoError(t, err)

	mock.ExpectSetNX(key, pendingMarker, testTTL).SetVal(true)
	mock.ExpectSet(key, cached, testTTL).SetVal("OK")

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, depositRequest("k1"))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"balance":10.00}`, w.Body.String())
	assert.Equal(t, 1, calls)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIdempotency_ReplaysStoredResponse(t *testing.T) {
	client, mock := redismock.NewClientMock()
	calls := 0
	handler := Idempotency(client, testTTL)(depositHandler(&calls, http.StatusOK))

	key := "idempotency:POST:/api/v1/wallets/w1/deposit:k1"
	cached, _ := json.Marshal(cachedResponse{
		Status:      http.StatusCreated,
		ContentType: "application/json",
		Body:        []byte(`{"balance":5.00}`),
	})
	mock.ExpectSetNX(key, pendingMarker, testTTL).SetVal(false)
	mock.ExpectGet(key).SetVal(string(cached))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, depositRequest("k1"))

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.JSONEq(t, `{"balance":5.00}`, w.Body.String())
	assert.Equal(t, "true", w.Header().Get(ReplayedHeader))
	assert.Equal(t, 0, calls, "handler not run again")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIdempotency_InFlightDuplicateConflicts(t *testing.T) {
	client, mock := redismock.NewClientMock()
	calls := 0
	handler := Idempotency(client, testTTL)(depositHandler(&calls, http.StatusOK))

	key := "idempotency:POST:/api/v1/wallets/w1/deposit:k1"
	mock.ExpectSetNX(key, pendingMarker, testTTL).SetVal(false)
	mock.ExpectGet(key).SetVal(pendingMarker)

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, depositRequest("k1"))

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, 0, calls)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIdempotency_ServerErrorReleasesKey(t *testing.T) {
	client, mock := redismock.NewClientMock()
	calls := 0
	handler := Idempotency(client, testTTL)(depositHandler(&calls, http.StatusInternalServerError))

	key := "idempotency:POST:/api/v1/wallets/w1/deposit:k2"
	mock.ExpectSetNX(key, pendingMarker, testTTL).SetVal(true)
	mock.ExpectDel(key).SetVal(1)

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, depositRequest("k2"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIdempotency_PanicReleasesKey(t *testing.T) {
	client, mock := redismock.NewClientMock()
	panicking := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("handler blew up")
	})
	handler := middleware.Recoverer(Idempotency(client, testTTL)(panicking))

	key := "idempotency:POST:/api/v1/wallets/w1/deposit:k3"
	mock.ExpectSetNX(key, pendingMarker, testTTL).SetVal(true)
	mock.ExpectDel(key).SetVal(1)

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, depositRequest("k3"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet(), "retry must not see a pending key")
}

func TestIdempotency_StoreFailureReleasesKey(t *testing.T) {
	client, mock := redismock.NewClientMock()
	calls := 0
	handler := Idempotency(client, testTTL)(depositHandler(&calls, http.StatusOK))

	key := "idempotency:POST:/api/v1/wallets/w1/deposit:k4"
	cached, err := json.Marshal(cachedResponse{
		Status:      http.StatusOK,
		ContentType: "application/json",
		Body:        []byte(`{"balance":10.00}`),
	})
	require.NoError(t, err)

	mock.ExpectSetNX(key, pendingMarker, testTTL).SetVal(true)
	mock.ExpectSet(key, cached, testTTL).SetErr(errors.New("redis gone"))
	mock.ExpectDel(key).SetVal(1)

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, depositRequest("k4"))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIdempotency_PassThrough(t *testing.T) {
	t.Run("no header", func(t *testing.T) {
		client, mock := redismock.NewClientMock()
		calls := 0
		handler := Idempotency(client, testTTL)(depositHandler(&calls, http.StatusOK))

		handler.ServeHTTP(httptest.NewRecorder(), depositRequest(""))
		handler.ServeHTTP(httptest.NewRecorder(), depositRequest(""))
		assert.Equal(t, 2, calls)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("no redis", func(t *testing.T) {
		calls := 0
		handler := Idempotency(nil, testTTL)(depositHandler(&calls, http.StatusOK))
		handler.ServeHTTP(httptest.NewRecorder(), depositRequest("k1"))
		handler.ServeHTTP(httptest.NewRecorder(), depositRequest("k1"))
		assert.Equal(t, 2, calls)
	})

	t.Run("redis error", func(t *testing.T) {
		client, mock := redismock.NewClientMock()
		calls := 0
		handler := Idempotency(client, testTTL)(depositHandler(&calls, http.StatusOK))

		mock.ExpectSetNX("idempotency:POST:/api/v1/wallets/w1/deposit:k3", pendingMarker, testTTL).
			SetErr(errors.New("connection refused"))

		w := httptest.NewRecorder()
		handler.ServeHTTP(w, depositRequest("k3"))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, 1, calls)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
