package service_test

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/snazzyfellas/auth/internal/auth/cache"
	"github.com/snazzyfellas/auth/internal/auth/domain"
	"github.com/snazzyfellas/auth/internal/auth/metrics"
	"github.com/snazzyfellas/auth/internal/auth/service"
	"github.com/snazzyfellas/auth/internal/auth/store"
	"github.com/snazzyfellas/auth/internal/auth/store/drivers/sqlite"
	"github.com/snazzyfellas/auth/pkg/cryptox"
	"github.com/snazzyfellas/auth/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

const (
	testIssuer   = "https://auth.snazzyfellas.com"
	testClientID = "client-42"
	testRedirect = "https://app.example/cb"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef")

// cheap parameters keep Argon2id fast in tests
var testHasher = cryptox.NewHasherWithParams(cryptox.Params{
	Memory:      64,
	Iterations:  1,
	Parallelism: 1,
	SaltLength:  16,
	KeyLength:   32,
}, []byte("test-pepper"))

// fakeClock is a settable time source.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newClock() *fakeClock { return &fakeClock{now: time.Now().UTC()} }

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Stored returns the current time truncated the way the store keeps it.
func (c *fakeClock) Stored() time.Time {
	return c.Now().Truncate(time.Millisecond)
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type fixture struct {
	store    store.Store
	clock    *fakeClock
	metrics  *metrics.Metrics
	alice    domain.User
	authz    *service.AuthorizeService
	tokens   *service.TokenService
	sessions *service.SessionService
	admin    *service.AdminService
}

func newStore(t *testing.T) *sqlite.Store {
	t.Helper()

	s, err := sqlite.NewStore(sqlite.DSN(filepath.Join(t.TempDir(), "auth.db")))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	require.NoError(t, s.ApplyMigrations())
	return s
}

// newFixture registers alice / correct-horse and client-42 with the single
// redirect uri https://app.example/cb.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	return newFixtureWithStore(t, newStore(t))
}

func newFixtureWithStore(t *testing.T, st store.Store) *fixture {
	t.Helper()
	ctx := context.Background()

	signer, err := jwtx.NewSignerHS256(testSecret)
	require.NoError(t, err)

	clk := newClock()
	m := metrics.New(prometheus.NewRegistry())

	f := &fixture{
		store:   st,
		clock:   clk,
		metrics: m,
		authz: &service.AuthorizeService{
			Store: st, Hasher: testHasher, CodeTTL: 5 * time.Minute,
			StoreTimeout: time.Second, Metrics: m, Now: clk.Now,
		},
		tokens: &service.TokenService{
			Store: st, Signer: signer, Issuer: testIssuer, SessionTTL: 720 * time.Hour,
			StoreTimeout: time.Second, Metrics: m, Now: clk.Now,
		},
		sessions: &service.SessionService{
			Store: st, StoreTimeout: time.Second, Metrics: m, Now: clk.Now,
		},
		admin: &service.AdminService{
			Store: st, Hasher: testHasher, StoreTimeout: time.Second, Now: clk.Now,
		},
	}

	alice, err := f.admin.CreateUser(ctx, "alice", "correct-horse")
	require.NoError(t, err)
	f.alice = alice

	require.NoError(t, st.Applications().CreateApplication(ctx, domain.Application{
		ID:           testClientID,
		Name:         "Example App",
		SecretHash:   "$argon2id$unused",
		RedirectURIs: []string{testRedirect},
		CreatedAt:    clk.Now(),
	}))

	return f
}

func (f *fixture) login(t *testing.T) string {
	t.Helper()

	res, err := f.authz.Authenticate(context.Background(), service.AuthenticateRequest{
		Username: "alice", Password: "correct-horse", ClientID: testClientID, RedirectURI: testRedirect,
	})
	require.NoError(t, err)
	return res.Code
}

// countGrants reports how many grants exist by sweeping with a far future
// clock inside a rolled back transaction.
func countGrants(t *testing.T, st store.Store) int64 {
	t.Helper()
	ctx := context.Background()

	tx, err := st.Tx(ctx)
	require.NoError(t, err)
	defer func() { _ = tx.Rollback() }()

	n, err := tx.Grants().DeleteExpiredGrants(ctx, time.Now().Add(24*365*time.Hour))
	require.NoError(t, err)
	return n
}

// memCache is an in-process cache.SessionCache.
type memCache struct {
	mu      sync.Mutex
	entries map[string]cache.Entry
	gets    int
	failGet error
}

func newMemCache() *memCache { return &memCache{entries: map[string]cache.Entry{}} }

func (c *memCache) Get(_ context.Context, key string) (cache.Entry, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	if c.failGet != nil {
		return cache.Entry{}, false, c.failGet
	}
	e, ok := c.entries[key]
	return e, ok, nil
}

func (c *memCache) Set(_ context.Context, key string, e cache.Entry, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = e
	return nil
}

func (c *memCache) Ping(context.Context) error { return nil }
func (c *memCache) Close() error               { return nil }

func (c *memCache) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
