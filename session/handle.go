package session

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/MrEthical07/bankgate/role"
)

// NewID returns a fresh random session identifier for the session cookie.
func NewID() string {
	return uuid.NewString()
}

// Handle is one browser's session bound to a [Backend]. It is the value handed to
// predicates and page handlers; nothing in this package keeps process-wide session state.
type Handle struct {
	backend Backend
	id      string
	logger  *slog.Logger
}

// Bind returns a handle for session id on backend. An empty id yields a handle that reads
// as unauthenticated and rejects writes.
func Bind(backend Backend, id string, logger *slog.Logger) *Handle {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handle{
		backend: backend,
		id:      id,
		logger:  logger,
	}
}

// ID returns the bound session identifier.
func (h *Handle) ID() string {
	return h.id
}

// Save persists token and roles together, replacing any prior session under this ID.
func (h *Handle) Save(ctx context.Context, token string, roles role.Set) error {
	if h.id == "" {
		return ErrNoSessionID
	}
	if token == "" {
		return ErrEmptyToken
	}

	data, err := EncodeRoles(roles)
	if err != nil {
		return err
	}
	return h.backend.Put(ctx, h.id, token, data)
}

// Clear removes token and roles together. Clearing twice is the same as clearing once.
func (h *Handle) Clear(ctx context.Context) error {
	if h.id == "" {
		return nil
	}
	return h.backend.Delete(ctx, h.id)
}

// CurrentToken returns the persisted token. Backend failures read as no token.
func (h *Handle) CurrentToken(ctx context.Context) (string, bool) {
	token, _, ok := h.read(ctx)
	return token, ok
}

// CurrentRoles returns the persisted roles, or the empty set when there is no token or the
// roles slot cannot be decoded.
func (h *Handle) CurrentRoles(ctx context.Context) role.Set {
	_, data, ok := h.read(ctx)
	if !ok {
		return 0
	}
	return h.decodeRoles(ctx, data)
}

// Current returns both slots from a single backend read, using the same degradation rules
// as CurrentToken and CurrentRoles.
func (h *Handle) Current(ctx context.Context) Session {
	token, data, ok := h.read(ctx)
	if !ok {
		return Session{}
	}
	return Session{Token: token, Roles: h.decodeRoles(ctx, data)}
}

func (h *Handle) decodeRoles(ctx context.Context, data []byte) role.Set {
	roles, err := DecodeRoles(data)
	if err != nil {
		h.logger.WarnContext(ctx, "session roles slot unreadable, treating as no roles",
			slog.String("session_id", h.id),
			slog.Any("error", err),
		)
		return 0
	}
	return roles
}

func (h *Handle) read(ctx context.Context) (string, []byte, bool) {
	if h.id == "" || h.backend == nil {
		return "", nil, false
	}

	token, data, found, err := h.backend.Get(ctx, h.id)
	if err != nil {
		h.logger.WarnContext(ctx, "session read failed, treating as unauthenticated",
			slog.String("session_id", h.id),
			slog.Any("error", err),
		)
		return "", nil, false
	}
	if !found || token == "" {
		return "", nil, false
	}
	return token, data, true
}
