package api

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http/httptest"
	"smart_condominium/internal/config"
	"smart_condominium/internal/domain"
	"smart_condominium/internal/face"
	"smart_condominium/internal/ocr"
	"smart_condominium/internal/report"
	"smart_condominium/internal/security"
	"smart_condominium/internal/storage"
	"smart_condominium/internal/testutil"
	"smart_condominium/internal/utils"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// fakeEncoder maps image contents to fixed encodings. Unknown images have no face.
type fakeEncoder map[string]face.Encoding

func (f fakeEncoder) Encode(_ context.Context, image []byte) (face.Encoding, error) {
	if enc, ok := f[string(image)]; ok {
		return enc, nil
	}
	return nil, face.ErrNoFace
}

// fakeDetector maps image contents to detected text. Unknown images have no text.
type fakeDetector map[string]string

func (f fakeDetector) DetectText(_ context.Context, image []byte) (string, error) {
	if text, ok := f[string(image)]; ok {
		return text, nil
	}
	return "", ocr.ErrNoText
}

// fakeRenderer returns a fixed PDF and remembers the HTML it was given
type fakeRenderer struct {
	html string
}

func (f *fakeRenderer) RenderPDF(_ context.Context, html string) ([]byte, error) {
	f.html = html
	return []byte("%PDF-1.4 fake"), nil
}

type testEnv struct {
	t      *testing.T
	db     *gorm.DB
	cfg    *config.Config
	store  *storage.MemoryStorage
	router *gin.Engine
}

type envOptions struct {
	encoder  face.Encoder
	detector ocr.TextDetector
	renderer report.Renderer
	redis    bool // Back the list caches with an in-process Redis
}

// testMaxImageBytes keeps the upload limit small enough to cross in tests
const testMaxImageBytes = 4096

func newTestEnv(t *testing.T, opts envOptions) *testEnv {
	t.Helper()
	gdb := testutil.NewDB(t)
	cfg := &config.Config{
		JWTSecret:       "test-secret",
		AccessTokenTTL:  time.Minute,
		RefreshTokenTTL: time.Hour,
		MaxImageBytes:   testMaxImageBytes,
	}
	var rdb *redis.Client
	if opts.redis {
		rdb = redis.NewClient(&redis.Options{Addr: miniredis.RunT(t).Addr()})
		t.Cleanup(func() { _ = rdb.Close() })
	}
	store := storage.NewMemoryStorage()
	router := gin.New()
	SetupRoutes(router, Deps{
		DB:       gdb,
		Redis:    rdb,
		Config:   cfg,
		Security: security.NewService(gdb, opts.encoder, opts.detector, store, 0),
		Storage:  store,
		Renderer: opts.renderer,
	})
	return &testEnv{t: t, db: gdb, cfg: cfg, store: store, router: router}
}

func (e *testEnv) token(user *domain.User) string {
	e.t.Helper()
	tok, err := utils.GenerateJWT(user.ID, utils.AccessToken, e.cfg.JWTSecret, time.Minute)
	require.NoError(e.t, err)
	return tok
}

// do sends a JSON request as user (nil for anonymous)
func (e *testEnv) do(method, path string, user *domain.User, body any) *httptest.ResponseRecorder {
	e.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if s, ok := body.(string); ok {
			buf.WriteString(s)
		} else {
			require.NoError(e.t, json.NewEncoder(&buf).Encode(body))
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if user != nil {
		req.Header.Set("Authorization", "Bearer "+e.token(user))
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

// listResponse mirrors the paginated list envelope
type listResponse[T any] struct {
	Items      []T   `json:"items"`
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

func b64(s string) string {
	return base64.StdEncoding.EncodeToString([]byte(s))
}
