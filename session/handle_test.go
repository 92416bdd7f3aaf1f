package session

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/MrEthical07/bankgate/role"
)

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

type failingBackend struct{}

func (failingBackend) Put(context.Context, string, string, []byte) error {
	return ErrRedisUnavailable
}

func (failingBackend) Delete(context.Context, string) error {
	return ErrRedisUnavailable
}

func (failingBackend) Get(context.Context, string) (string, []byte, bool, error) {
	return "", nil, false, ErrRedisUnavailable
}

func TestHandleSaveThenRead(t *testing.T) {
	ctx := context.Background()
	h := Bind(NewMemoryStore(), "sid-1", discardLogger)

	if err := h.Save(ctx, "tok123", role.NewSet(role.Customer)); err != nil {
		t.Fatalf("save: %v", err)
	}

	token, ok := h.CurrentToken(ctx)
	if !ok || token != "tok123" {
		t.Fatalf("CurrentToken = %q, %v", token, ok)
	}
	if roles := h.CurrentRoles(ctx); roles != role.NewSet(role.Customer) {
		t.Fatalf("CurrentRoles = %v", roles.Names())
	}
	if s := h.Current(ctx); !s.Authenticated() || s.Token != "tok123" {
		t.Fatalf("Current = %+v", s)
	}
}

func TestHandleClearIdempotent(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	h := Bind(store, "sid-1", discardLogger)

	if err := h.Save(ctx, "tok", role.NewSet(role.Admin)); err != nil {
		t.Fatalf("save: %v", err)
	}
	for i := 0; i < 2; i++ {
		if err := h.Clear(ctx); err != nil {
			t.Fatalf("clear %d: %v", i, err)
		}
		if _, ok := h.CurrentToken(ctx); ok {
			t.Fatalf("token present after clear %d", i)
		}
		if roles := h.CurrentRoles(ctx); !roles.Empty() {
			t.Fatalf("roles present after clear %d: %v", i, roles.Names())
		}
	}
	if store.Len() != 0 {
		t.Fatalf("store still holds %d sessions", store.Len())
	}
}

func TestHandleWithoutID(t *testing.T) {
	ctx := context.Background()
	h := Bind(NewMemoryStore(), "", nil)

	if _, ok := h.CurrentToken(ctx); ok {
		t.Fatal("handle without id must be unauthenticated")
	}
	if err := h.Save(ctx, "tok", 0); !errors.Is(err, ErrNoSessionID) {
		t.Fatalf("save err = %v", err)
	}
	if err := h.Clear(ctx); err != nil {
		t.Fatalf("clear err = %v", err)
	}
}

func TestHandleRejectsEmptyToken(t *testing.T) {
	h := Bind(NewMemoryStore(), "sid", discardLogger)
	if err := h.Save(context.Background(), "", role.NewSet(role.Admin)); !errors.Is(err, ErrEmptyToken) {
		t.Fatalf("save err = %v", err)
	}
}

func TestHandleMalformedRolesDegradeToEmpty(t *testing.T) {
	tests := []struct {
		name  string
		roles []byte
	}{
		{name: "truncated json", roles: []byte(`["CUSTOMER"`)},
		{name: "not an array", roles: []byte(`{"roles":["ADMIN"]}`)},
		{name: "garbage", roles: []byte{0xde, 0xad, 0xbe, 0xef}},
		{name: "empty", roles: []byte{}},
		{name: "unknown role", roles: []byte(`["ADMIN","ROOT"]`)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			store := NewMemoryStore()
			if err := store.Put(ctx, "sid", "tok", tt.roles); err != nil {
				t.Fatalf("put: %v", err)
			}
			h := Bind(store, "sid", discardLogger)

			if roles := h.CurrentRoles(ctx); !roles.Empty() {
				t.Fatalf("CurrentRoles = %v, want empty", roles.Names())
			}
			if _, ok := h.CurrentToken(ctx); !ok {
				t.Fatal("token must survive a corrupt roles slot")
			}
		})
	}
}

func TestHandleBackendFailureReadsAsUnauthenticated(t *testing.T) {
	ctx := context.Background()
	h := Bind(failingBackend{}, "sid", discardLogger)

	if _, ok := h.CurrentToken(ctx); ok {
		t.Fatal("backend failure must read as no token")
	}
	if roles := h.CurrentRoles(ctx); !roles.Empty() {
		t.Fatalf("backend failure must read as no roles, got %v", roles.Names())
	}
	if err := h.Save(ctx, "tok", 0); !errors.Is(err, ErrRedisUnavailable) {
		t.Fatalf("save err = %v", err)
	}
}

func TestHandleOverRedisStaleRolesWithoutToken(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis start: %v", err)
	}
	defer mr.Close()
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	ctx := context.Background()
	h := Bind(NewStore(rdb, "bg", 0), "sid-1", discardLogger)
	if err := h.Save(ctx, "tok", role.NewSet(role.Admin)); err != nil {
		t.Fatalf("save: %v", err)
	}

	mr.Del("bg:sid-1:token")

	if roles := h.CurrentRoles(ctx); !roles.Empty() {
		t.Fatalf("stale roles granted %v", roles.Names())
	}
}

func TestNewIDUnique(t *testing.T) {
	seen := make(map[string]struct{}, 100)
	for i := 0; i < 100; i++ {
		id := NewID()
		if id == "" {
			t.Fatal("empty id")
		}
		if _, dup := seen[id]; dup {
			t.Fatalf("duplicate id %s", id)
		}
		seen[id] = struct{}{}
	}
}

type countingBackend struct {
	Backend
	gets int
}

func (c *countingBackend) Get(ctx context.Context, id string) (string, []byte, bool, error) {
	c.gets++
	return c.Backend.Get(ctx, id)
}

func TestHandleCurrentIsOneRead(t *testing.T) {
	ctx := context.Background()
	backend := &countingBackend{Backend: NewMemoryStore()}
	h := Bind(backend, "sid-1", discardLogger)
	if err := h.Save(ctx, "tok", role.NewSet(role.Admin, role.Auditor)); err != nil {
		t.Fatalf("save: %v", err)
	}

	s := h.Current(ctx)
	if backend.gets != 1 {
		t.Fatalf("Current made %d reads, want 1", backend.gets)
	}
	if s.Token != "tok" || s.Roles != role.NewSet(role.Admin, role.Auditor) {
		t.Fatalf("Current = %+v", s)
	}
}

func TestSessionAsReader(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name      string
		s         Session
		wantToken bool
		wantRoles role.Set
	}{
		{name: "authenticated", s: Session{Token: "tok", Roles: role.NewSet(role.Customer)}, wantToken: true, wantRoles: role.NewSet(role.Customer)},
		{name: "roles without token", s: Session{Roles: role.NewSet(role.Admin)}, wantToken: false, wantRoles: 0},
		{name: "empty", s: Session{}, wantToken: false, wantRoles: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, ok := tt.s.CurrentToken(ctx); ok != tt.wantToken {
				t.Fatalf("CurrentToken ok = %v, want %v", ok, tt.wantToken)
			}
			if got := tt.s.CurrentRoles(ctx); got != tt.wantRoles {
				t.Fatalf("CurrentRoles = %v, want %v", got.Names(), tt.wantRoles.Names())
			}
		})
	}
}
