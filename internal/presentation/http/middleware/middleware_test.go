package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/sangkips/hotel-ledger-api/internal/domain/entity"
	infraRepo "github.com/sangkips/hotel-ledger-api/internal/infrastructure/repository"
	"github.com/sangkips/hotel-ledger-api/pkg/utils"
)

type memoryIdempotencyRepo struct {
	mu   sync.Mutex
	keys map[string]*entity.IdempotencyKey
}

func newMemoryIdempotencyRepo() *memoryIdempotencyRepo {
	return &memoryIdempotencyRepo{keys: map[string]*entity.IdempotencyKey{}}
}

func (r *memoryIdempotencyRepo) GetByKey(_ context.Context, key string, userID uuid.UUID) (*entity.IdempotencyKey, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	k, ok := r.keys[key+userID.String()]
	if !ok {
		return nil, nil
	}
	return k, nil
}

func (r *memoryIdempotencyRepo) Create(_ context.Context, k *entity.IdempotencyKey) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.keys[k.Key+k.UserID.String()] = k
	return nil
}

func (r *memoryIdempotencyRepo) DeleteExpired(context.Context) (int64, error) {
	return 0, nil
}

func withIdentity(userID, tenantID uuid.UUID) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(UserIDKey, userID)
		c.Set(TenantIDKey, tenantID)
		c.Next()
	}
}

func post(r http.Handler, path, key, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if key != "" {
		req.Header.Set(IdempotencyKeyHeader, key)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestIdempotency(t *testing.T) {
	gin.SetMode(gin.TestMode)
	repo := newMemoryIdempotencyRepo()

	calls := 0
	r := gin.New()
	r.Use(withIdentity(uuid.New(), uuid.New()))
	r.POST("/pos/walk-in-sale", Idempotency(IdempotencyConfig{Repo: repo, TTL: time.Hour}), func(c *gin.Context) {
		calls++
		c.JSON(http.StatusCreated, gin.H{"sale": calls})
	})

	first := post(r, "/pos/walk-in-sale", "sale-1", `{"amount":"10"}`)
	require.Equal(t, http.StatusCreated, first.Code)
	assert.Equal(t, 1, calls)

	replay := post(r, "/pos/walk-in-sale", "sale-1", `{"amount":"10"}`)
	assert.Equal(t, http.StatusCreated, replay.Code)
	assert.Equal(t, "true", replay.Header().Get("X-Idempotency-Replayed"))
	assert.JSONEq(t, first.Body.String(), replay.Body.String())
	assert.Equal(t, 1, calls)

	mismatch := post(r, "/pos/walk-in-sale", "sale-1", `{"amount":"11"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, mismatch.Code)
	assert.Equal(t, 1, calls)

	post(r, "/pos/walk-in-sale", "", `{"amount":"10"}`)
	post(r, "/pos/walk-in-sale", "", `{"amount":"10"}`)
	assert.Equal(t, 3, calls)
}

func TestIdempotencySkipsServerErrors(t *testing.T) {
	gin.SetMode(gin.TestMode)
	repo := newMemoryIdempotencyRepo()

	calls := 0
	r := gin.New()
	r.Use(withIdentity(uuid.New(), uuid.New()))
	r.POST("/folios/payments/to-folio", Idempotency(IdempotencyConfig{Repo: repo}), func(c *gin.Context) {
		calls++
		c.JSON(http.StatusInternalServerError, gin.H{"success": false})
	})

	post(r, "/folios/payments/to-folio", "pay-1", `{}`)
	post(r, "/folios/payments/to-folio", "pay-1", `{}`)

	assert.Equal(t, 2, calls)
	assert.Empty(t, repo.keys)
}

func TestTenantRateLimiter(t *testing.T) {
	gin.SetMode(gin.TestMode)
	limiter := NewTenantRateLimiter(RateLimiterConfig{RequestsPerSecond: 0.001, BurstSize: 2, EntryTTL: time.Minute})

	busy, quiet := uuid.New(), uuid.New()
	tenant := busy
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(TenantIDKey, tenant)
		c.Next()
	})
	r.Use(limiter.Middleware())
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	get := func() int {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, get())
	assert.Equal(t, http.StatusOK, get())
	assert.Equal(t, http.StatusTooManyRequests, get())

	tenant = quiet
	assert.Equal(t, http.StatusOK, get())
}

func TestRateLimiterConfigFrom(t *testing.T) {
	cfg := RateLimiterConfigFrom(120, 60)
	assert.Equal(t, 2.0, cfg.RequestsPerSecond)
	assert.Equal(t, 120, cfg.BurstSize)

	cfg = RateLimiterConfigFrom(0, 0)
	assert.Equal(t, 100, cfg.BurstSize)
}

func TestAuthMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	jwtManager := utils.NewJWTManager("middleware-secret", time.Hour)
	userID, tenantID := uuid.New(), uuid.New()

	r := gin.New()
	r.Use(AuthMiddleware(jwtManager))
	r.GET("/me", func(c *gin.Context) {
		scoped, _ := infraRepo.GetTenantID(c.Request.Context())
		c.JSON(http.StatusOK, gin.H{
			"user":   GetUserID(c),
			"tenant": GetTenantID(c),
			"scoped": scoped,
		})
	})
	r.POST("/admin", RequireRole("admin"), func(c *gin.Context) { c.Status(http.StatusNoContent) })

	call := func(method, path, header string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, path, nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		return rec
	}

	assert.Equal(t, http.StatusUnauthorized, call(http.MethodGet, "/me", "").Code)
	assert.Equal(t, http.StatusUnauthorized, call(http.MethodGet, "/me", "Token abc").Code)
	assert.Equal(t, http.StatusUnauthorized, call(http.MethodGet, "/me", "Bearer not-a-jwt").Code)

	cashierToken, err := jwtManager.GenerateAccessToken(userID, tenantID, "front@hotel.pe", []string{"cashier"})
	require.NoError(t, err)

	rec := call(http.MethodGet, "/me", "Bearer "+cashierToken)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"user":"`+userID.String()+`"`)
	assert.Contains(t, rec.Body.String(), `"scoped":"`+tenantID.String()+`"`)

	assert.Equal(t, http.StatusForbidden, call(http.MethodPost, "/admin", "Bearer "+cashierToken).Code)

	adminToken, err := jwtManager.GenerateAccessToken(userID, tenantID, "owner@hotel.pe", []string{"admin"})
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, call(http.MethodPost, "/admin", "Bearer "+adminToken).Code)
}

type stubTenantRepo struct {
	tenant *entity.Tenant
}

func (s *stubTenantRepo) Create(context.Context, *entity.Tenant) error { return nil }

func (s *stubTenantRepo) GetByID(context.Context, uuid.UUID) (*entity.Tenant, error) {
	return s.tenant, nil
}

func (s *stubTenantRepo) GetBySlug(context.Context, string) (*entity.Tenant, error) {
	return s.tenant, nil
}

func (s *stubTenantRepo) Update(context.Context, *entity.Tenant) error { return nil }

func (s *stubTenantRepo) SlugExists(context.Context, string) (bool, error) { return false, nil }

func TestTenantMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	repo := &stubTenantRepo{}
	tenantID := uuid.New()

	r := gin.New()
	r.Use(withIdentity(uuid.New(), tenantID), TenantMiddleware(repo))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	repo.tenant = &entity.Tenant{ID: tenantID}
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	anonymous := gin.New()
	anonymous.Use(TenantMiddleware(repo))
	anonymous.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })
	rec = httptest.NewRecorder()
	anonymous.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLoggerMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	core, logs := observer.New(zapcore.InfoLevel)

	r := gin.New()
	r.Use(LoggerMiddleware(zap.New(core)))
	r.GET("/folios/:id", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/boom", func(c *gin.Context) { c.Status(http.StatusInternalServerError) })

	req := httptest.NewRequest(http.MethodGet, "/folios/abc?expand=charges", nil)
	req.Header.Set("X-Request-ID", "req-42")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, "req-42", rec.Header().Get("X-Request-ID"))

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/boom", nil))

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, zapcore.InfoLevel, entries[0].Level)
	assert.Equal(t, "req-42", entries[0].ContextMap()["request_id"])
	assert.Equal(t, "/folios/abc?expand=charges", entries[0].ContextMap()["path"])
	assert.Equal(t, zapcore.ErrorLevel, entries[1].Level)
}
