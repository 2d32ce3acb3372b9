package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grocerly/storefront-api/pkg/access"
	"github.com/grocerly/storefront-api/pkg/enums"
	pkgerrors "github.com/grocerly/storefront-api/pkg/errors"
	"github.com/grocerly/storefront-api/pkg/logger"
)

type memoryStore struct {
	mu   sync.Mutex
	data map[string]string
}

func newMemoryStore() *memoryStore {
	return &memoryStore{data: make(map[string]string)}
}

func (m *memoryStore) Get(_ context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if v, ok := m.data[key]; ok {
		return v, nil
	}
	return "", redis.Nil
}

func (m *memoryStore) Set(_ context.Context, key string, value any, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value.(string)
	return nil
}

func (m *memoryStore) SetNX(_ context.Context, key string, value any, _ time.Duration) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.data[key]; ok {
		return false, nil
	}
	m.data[key] = value.(string)
	return true, nil
}

func (m *memoryStore) Del(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.data, k)
	}
	return nil
}

func (m *memoryStore) IdempotencyKey(scope, id string) string {
	return "idem:" + scope + ":" + id
}

func placeRequest(actor access.Actor, body, key string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/order/add", strings.NewReader(body))
	if key != "" {
		req.Header.Set(IdempotencyHeader, key)
	}
	return req.WithContext(WithActor(req.Context(), actor))
}

func newCustomer() access.Actor {
	return access.Actor{UserID: uuid.New(), Role: enums.RoleCustomer}
}

type countingHandler struct {
	calls  int
	status int
	body   string
}

func (h *countingHandler) ServeHTTP(w http.ResponseWriter, _ *http.Request) {
	h.calls++
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(h.status)
	_, _ = w.Write([]byte(h.body))
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var payload struct {
		Code string `json:"code"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	return payload.Code
}

func TestIdempotencyWithoutKeyAlwaysRuns(t *testing.T) {
	store := newMemoryStore()
	h := &countingHandler{status: http.StatusCreated}
	mw := Idempotency(store, logger.Nop())(h)
	actor := newCustomer()

	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		mw.ServeHTTP(rec, placeRequest(actor, `{"a":1}`, ""))
		assert.Equal(t, http.StatusCreated, rec.Code)
	}
	assert.Equal(t, 2, h.calls)
	assert.Empty(t, store.data)
}

func TestIdempotencyNilStorePassesThrough(t *testing.T) {
	h := &countingHandler{status: http.StatusCreated}
	mw := Idempotency(nil, logger.Nop())(h)

	rec := httptest.NewRecorder()
	mw.ServeHTTP(rec, placeRequest(newCustomer(), `{}`, "k"))
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, 1, h.calls)
}

func TestIdempotencyReplaysRecordedResponse(t *testing.T) {
	store := newMemoryStore()
	h := &countingHandler{status: http.StatusCreated, body: `{"orderNumber":7}`}
	mw := Idempotency(store, logger.Nop())(h)
	actor := newCustomer()

	first := httptest.NewRecorder()
	mw.ServeHTTP(first, placeRequest(actor, `{"a":1}`, "abc"))
	require.Equal(t, http.StatusCreated, first.Code)
	assert.Empty(t, first.Header().Get("Idempotent-Replay"))

	again := httptest.NewRecorder()
	mw.ServeHTTP(again, placeRequest(actor, `{"a":1}`, "abc"))
	assert.Equal(t, http.StatusCreated, again.Code)
	assert.Equal(t, "application/json", again.Header().Get("Content-Type"))
	assert.Equal(t, "true", again.Header().Get("Idempotent-Replay"))
	assert.JSONEq(t, `{"orderNumber":7}`, again.Body.String())
	assert.Equal(t, 1, h.calls)
}

func TestIdempotencyKeysAreScopedPerUser(t *testing.T) {
	store := newMemoryStore()
	h := &countingHandler{status: http.StatusCreated}
	mw := Idempotency(store, logger.Nop())(h)

	mw.ServeHTTP(httptest.NewRecorder(), placeRequest(newCustomer(), `{}`, "same"))
	mw.ServeHTTP(httptest.NewRecorder(), placeRequest(newCustomer(), `{}`, "same"))
	assert.Equal(t, 2, h.calls)
}

func TestIdempotencyReleasesClaimOnServerError(t *testing.T) {
	store := newMemoryStore()
	h := &countingHandler{status: http.StatusInternalServerError}
	mw := Idempotency(store, logger.Nop())(h)
	actor := newCustomer()

	mw.ServeHTTP(httptest.NewRecorder(), placeRequest(actor, `{}`, "retry"))
	assert.Empty(t, store.data)

	h.status = http.StatusCreated
	rec := httptest.NewRecorder()
	mw.ServeHTTP(rec, placeRequest(actor, `{}`, "retry"))
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, 2, h.calls)
}

func TestIdempotencyRecordsClientErrors(t *testing.T) {
	store := newMemoryStore()
	h := &countingHandler{status: http.StatusBadRequest, body: `{"code":"INVALID_ADDRESS"}`}
	mw := Idempotency(store, logger.Nop())(h)
	actor := newCustomer()

	mw.ServeHTTP(httptest.NewRecorder(), placeRequest(actor, `{}`, "bad"))
	rec := httptest.NewRecorder()
	mw.ServeHTTP(rec, placeRequest(actor, `{}`, "bad"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, 1, h.calls)
}

func TestIdempotencyRejectsDifferentBody(t *testing.T) {
	store := newMemoryStore()
	h := &countingHandler{status: http.StatusCreated}
	mw := Idempotency(store, logger.Nop())(h)
	actor := newCustomer()

	mw.ServeHTTP(httptest.NewRecorder(), placeRequest(actor, `{"foo":"bar"}`, "xyz"))

	rec := httptest.NewRecorder()
	mw.ServeHTTP(rec, placeRequest(actor, `{"foo":"diff"}`, "xyz"))
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, string(pkgerrors.CodeIdempotency), errorCode(t, rec))
	assert.Equal(t, 1, h.calls)
}

func TestIdempotencyRejectsRetryWhileFirstIsRunning(t *testing.T) {
	store := newMemoryStore()
	actor := newCustomer()
	release := make(chan struct{})
	started := make(chan struct{})

	var calls int
	slow := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		close(started)
		<-release
		w.WriteHeader(http.StatusCreated)
	})
	mw := Idempotency(store, logger.Nop())(slow)

	done := make(chan struct{})
	go func() {
		defer close(done)
		mw.ServeHTTP(httptest.NewRecorder(), placeRequest(actor, `{}`, "busy"))
	}()
	<-started

	rec := httptest.NewRecorder()
	mw.ServeHTTP(rec, placeRequest(actor, `{}`, "busy"))
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, string(pkgerrors.CodeIdempotency), errorCode(t, rec))

	close(release)
	<-done
	assert.Equal(t, 1, calls)
}

func TestIdempotencyReleasesClaimWhenHandlerPanics(t *testing.T) {
	store := newMemoryStore()
	actor := newCustomer()

	calls := 0
	flaky := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		if calls == 1 {
			panic("order insert blew up")
		}
		w.WriteHeader(http.StatusCreated)
	})
	mw := Recoverer(logger.Nop())(Idempotency(store, logger.Nop())(flaky))

	first := httptest.NewRecorder()
	mw.ServeHTTP(first, placeRequest(actor, `{"a":1}`, "boom"))
	require.Equal(t, http.StatusInternalServerError, first.Code)
	assert.Empty(t, store.data)

	retry := httptest.NewRecorder()
	mw.ServeHTTP(retry, placeRequest(actor, `{"a":1}`, "boom"))
	assert.Equal(t, http.StatusCreated, retry.Code)
	assert.Equal(t, 2, calls)
}
