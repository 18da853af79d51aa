package session

import (
	"context"
	"database/sql"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

// CredentialRecord is the single-row persistence model for a stored session.
// Scope separates stores sharing one database file.
type CredentialRecord struct {
	bun.BaseModel `bun:"table:credentials,alias:cred"`
	Scope         string     `bun:"scope,pk"`
	Token         string     `bun:"token,notnull"`
	UserID        string     `bun:"user_id"`
	Role          UserRole   `bun:"user_role"`
	EmailVerified bool       `bun:"is_email_verified"`
	IssuedAt      *time.Time `bun:"issued_at,nullzero"`
	ExpiresAt     *time.Time `bun:"expires_at,nullzero"`
	UpdatedAt     *time.Time `bun:"updated_at,nullzero"`
}

const credentialsSchema = `CREATE TABLE IF NOT EXISTS credentials (
	scope TEXT PRIMARY KEY,
	token TEXT NOT NULL,
	user_id TEXT,
	user_role TEXT,
	is_email_verified BOOLEAN NOT NULL DEFAULT FALSE,
	issued_at TIMESTAMP NULL,
	expires_at TIMESTAMP NULL,
	updated_at TIMESTAMP NULL
);`

var _ CredentialStore = &BunCredentialStore{}

// BunCredentialStore persists the session to a local sqlite database so it
// survives process restarts. All failures are swallowed per the
// CredentialStore contract and logged at debug level.
type BunCredentialStore struct {
	db     *bun.DB
	scope  string
	logger Logger
	now    func() time.Time
}

// BunStoreOption customizes store construction.
type BunStoreOption func(*BunCredentialStore)

// WithBunStoreLogger overrides the logger used for swallowed failures.
func WithBunStoreLogger(logger Logger) BunStoreOption {
	return func(s *BunCredentialStore) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithBunStoreClock injects a custom clock (useful for tests).
func WithBunStoreClock(clock func() time.Time) BunStoreOption {
	return func(s *BunCredentialStore) {
		if clock != nil {
			s.now = clock
		}
	}
}

// NewBunCredentialStore wraps an existing bun.DB. The credentials table is
// created when missing.
func NewBunCredentialStore(db *bun.DB, scope string, opts ...BunStoreOption) (*BunCredentialStore, error) {
	if scope == "" {
		scope = "default"
	}

	s := &BunCredentialStore{
		db:     db,
		scope:  scope,
		logger: defLogger{},
		now:    time.Now,
	}

	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}

	if _, err := db.Exec(credentialsSchema); err != nil {
		return nil, err
	}

	return s, nil
}

// OpenBunCredentialStore opens (or creates) the sqlite database at dsn and
// returns a store scoped to scope.
func OpenBunCredentialStore(dsn, scope string, opts ...BunStoreOption) (*BunCredentialStore, error) {
	db, err := sql.Open(sqliteshim.ShimName, dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	return NewBunCredentialStore(bun.NewDB(db, sqlitedialect.New()), scope, opts...)
}

func (s *BunCredentialStore) Save(ctx context.Context, session *Session) {
	if session == nil {
		return
	}

	now := s.now()
	record := &CredentialRecord{
		Scope:         s.scope,
		Token:         session.Token,
		UserID:        session.UserID,
		Role:          session.Role,
		EmailVerified: session.EmailVerified,
		IssuedAt:      session.IssuedAt,
		ExpiresAt:     session.ExpiresAt,
		UpdatedAt:     &now,
	}

	_, err := s.db.NewInsert().
		Model(record).
		On("CONFLICT (scope) DO UPDATE").
		Set("token = EXCLUDED.token").
		Set("user_id = EXCLUDED.user_id").
		Set("user_role = EXCLUDED.user_role").
		Set("is_email_verified = EXCLUDED.is_email_verified").
		Set("issued_at = EXCLUDED.issued_at").
		Set("expires_at = EXCLUDED.expires_at").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	if err != nil {
		s.logger.Debug("credential store save failed: %v", err)
	}
}

func (s *BunCredentialStore) Load(ctx context.Context) *Session {
	record := &CredentialRecord{}

	err := s.db.NewSelect().
		Model(record).
		Where("scope = ?", s.scope).
		Limit(1).
		Scan(ctx)
	if err != nil {
		s.logger.Debug("credential store load failed: %v", err)
		return nil
	}

	if record.Token == "" {
		return nil
	}

	return &Session{
		Token:         record.Token,
		UserID:        record.UserID,
		Role:          record.Role,
		EmailVerified: record.EmailVerified,
		IssuedAt:      record.IssuedAt,
		ExpiresAt:     record.ExpiresAt,
	}
}

func (s *BunCredentialStore) Clear(ctx context.Context) {
	_, err := s.db.NewDelete().
		Model((*CredentialRecord)(nil)).
		Where("scope = ?", s.scope).
		Exec(ctx)
	if err != nil {
		s.logger.Debug("credential store clear failed: %v", err)
	}
}

// DB exposes the underlying handle so callers can close it on teardown.
func (s *BunCredentialStore) DB() *bun.DB {
	return s.db
}
