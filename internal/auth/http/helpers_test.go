package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/snazzyfellas/auth/internal/auth/domain"
	authhttp "github.com/snazzyfellas/auth/internal/auth/http"
	"github.com/snazzyfellas/auth/internal/auth/metrics"
	"github.com/snazzyfellas/auth/internal/auth/service"
	"github.com/snazzyfellas/auth/internal/auth/store"
	"github.com/snazzyfellas/auth/internal/auth/store/drivers/sqlite"
	"github.com/snazzyfellas/auth/pkg/cryptox"
	"github.com/snazzyfellas/auth/pkg/httpx"
	"github.com/snazzyfellas/auth/pkg/jwtx"
	"github.com/snazzyfellas/auth/pkg/slogx"
	"github.com/stretchr/testify/require"
)

const (
	testIssuer     = "https://auth.snazzyfellas.com"
	testClientID   = "client-42"
	testRedirect   = "https://app.example/cb"
	testAdminToken = "admin-token-for-tests"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef")

var testHasher = cryptox.NewHasherWithParams(cryptox.Params{
	Memory:      64,
	Iterations:  1,
	Parallelism: 1,
	SaltLength:  16,
	KeyLength:   32,
}, []byte("test-pepper"))

// generousLimits keeps rate limiting out of the way of functional tests.
var generousLimits = httpx.RateLimits{
	Strict:   httpx.RateLimitConfig{RequestsPerWindow: 10000, Window: time.Minute, Burst: 10000},
	Moderate: httpx.RateLimitConfig{RequestsPerWindow: 10000, Window: time.Minute, Burst: 10000},
	Lenient:  httpx.RateLimitConfig{RequestsPerWindow: 10000, Window: time.Minute, Burst: 10000},
	Public:   httpx.RateLimitConfig{RequestsPerWindow: 10000, Window: time.Minute, Burst: 10000},
}

type testServer struct {
	router   *authhttp.Router
	store    store.Store
	registry *prometheus.Registry
	alice    domain.User
}

type serverConfig struct {
	admin  bool
	limits httpx.RateLimits
}

type serverOption func(*serverConfig)

func withAdmin(c *serverConfig) { c.admin = true }

func withLimits(l httpx.RateLimits) serverOption {
	return func(c *serverConfig) { c.limits = l }
}

func newSQLiteStore(t *testing.T) *sqlite.Store {
	t.Helper()

	s, err := sqlite.NewStore(sqlite.DSN(filepath.Join(t.TempDir(), "auth.db")))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	require.NoError(t, s.ApplyMigrations())
	return s
}

// newTestServer wires the router against a fresh sqlite store holding alice
// (password correct-horse) and client-42 redirecting to https://app.example/cb.
func newTestServer(t *testing.T, opts ...serverOption) *testServer {
	t.Helper()
	return newTestServerWithStore(t, newSQLiteStore(t), opts...)
}

func newTestServerWithStore(t *testing.T, st store.Store, opts ...serverOption) *testServer {
	t.Helper()
	ctx := context.Background()

	signer, err := jwtx.NewSignerHS256(testSecret)
	require.NoError(t, err)

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	cfg := serverConfig{limits: generousLimits}
	for _, opt := range opts {
		opt(&cfg)
	}

	r := authhttp.NewRouter("test", st, cfg.limits, slogx.Discard())
	r.AuthorizeService = &service.AuthorizeService{Store: st, Hasher: testHasher, Metrics: m}
	r.TokenService = &service.TokenService{Store: st, Signer: signer, Issuer: testIssuer, Metrics: m}
	r.SessionService = &service.SessionService{Store: st, Metrics: m}
	r.Signer = signer
	r.Gatherer = reg
	if cfg.admin {
		r.AdminService = &service.AdminService{Store: st, Hasher: testHasher}
		r.AdminToken = testAdminToken
	}
	r.ApplyRoutes()

	admin := &service.AdminService{Store: st, Hasher: testHasher}
	alice, err := admin.CreateUser(ctx, "alice", "correct-horse")
	require.NoError(t, err)

	require.NoError(t, st.Applications().CreateApplication(ctx, domain.Application{
		ID:           testClientID,
		Name:         "Example App",
		SecretHash:   "$argon2id$unused",
		RedirectURIs: []string{testRedirect},
		CreatedAt:    time.Now().UTC(),
	}))

	return &testServer{router: r, store: st, registry: reg, alice: alice}
}

func (s *testServer) do(t *testing.T, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	req.RemoteAddr = "192.0.2.10:4321"
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) get(t *testing.T, target string, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	return s.do(t, req)
}

func (s *testServer) postForm(t *testing.T, target string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return s.do(t, req)
}

func (s *testServer) postJSON(t *testing.T, target, bearer string, body any) *httptest.ResponseRecorder {
	t.Helper()
	b, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, target, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	return s.do(t, req)
}

func loginForm(password, redirect string) url.Values {
	return url.Values{
		"username":     {"alice"},
		"password":     {password},
		"client_id":    {testClientID},
		"redirect_uri": {redirect},
	}
}

// login performs a successful POST /login and returns the code.
func (s *testServer) login(t *testing.T) string {
	t.Helper()

	rec := s.postForm(t, "/login", loginForm("correct-horse", testRedirect))
	require.Equal(t, http.StatusSeeOther, rec.Code)

	loc, err := url.Parse(rec.Header().Get("Location"))
	require.NoError(t, err)
	code := loc.Query().Get("code")
	require.NotEmpty(t, code)
	return code
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(body, &v), string(body))
	return v
}
