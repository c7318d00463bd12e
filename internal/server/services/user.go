// Package services contains server-side business logic. This file implements
// UserService, which handles registration, login, and resolving the user
// behind an access token.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/mail"
	"time"

	"github.com/dmitrijs2005/foundloss/internal/common"
	"github.com/dmitrijs2005/foundloss/internal/dbx"
	"github.com/dmitrijs2005/foundloss/internal/server/auth"
	"github.com/dmitrijs2005/foundloss/internal/server/config"
	"github.com/dmitrijs2005/foundloss/internal/server/models"
	"github.com/dmitrijs2005/foundloss/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

type passwordHasher interface {
	Hash(ctx context.Context, password string) (string, error)
	Verify(ctx context.Context, password, encodedHash string) bool
}

// dummyPasswordHash is a syntactically valid hash verified against when the
// email is unknown, so that path costs the same key derivation work as a
// real mismatch and the two failure modes share a latency shape.
const dummyPasswordHash = "$pbkdf2-sha256$29000$abcdefghijklmnopqrstuv$ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopq"

// UserService provides authentication-related operations:
// - Register: create an account and mint the first access token
// - Login: verify credentials and mint a token
// - GetByID: resolve the account behind a token subject
type UserService struct {
	db                    *sql.DB
	repomanager           repomanager.RepositoryManager
	hasher                passwordHasher
	jwtSecret             []byte
	tokenValidityDuration time.Duration
}

// NewUserService constructs a UserService using repositories and server config.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *UserService {
	return &UserService{
		db:                    db,
		repomanager:           m,
		hasher:                auth.NewPasswordHasher(),
		jwtSecret:             []byte(cfg.SecretKey),
		tokenValidityDuration: cfg.TokenValidityDuration,
	}
}

// Register creates a new account and returns it together with a fresh access
// token. A syntactically invalid email yields ErrorValidation, a duplicate
// one ErrorEmailTaken.
func (s *UserService) Register(ctx context.Context, email, fullName, phone, password string) (*models.User, string, error) {
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, "", fmt.Errorf("%w: invalid email address", common.ErrorValidation)
	}

	hash, err := s.hasher.Hash(ctx, password)
	if err != nil {
		return nil, "", common.ErrorInternal
	}

	user := &models.User{
		ID:           uuid.NewString(),
		Email:        email,
		FullName:     fullName,
		Phone:        phone,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}

	// The pre-check gives a clean error on the common path; the unique index
	// still backstops concurrent registrations with the same email.
	if err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Users(tx)
		if _, err := repo.GetByEmail(ctx, email); err == nil {
			return common.ErrorEmailTaken
		} else if !errors.Is(err, common.ErrorNotFound) {
			return common.ErrorInternal
		}
		_, err := repo.Create(ctx, user)
		return err
	}); err != nil {
		if errors.Is(err, common.ErrorEmailTaken) {
			return nil, "", common.ErrorEmailTaken
		}
		return nil, "", common.ErrorInternal
	}

	token, err := s.generateAccessToken(user.ID)
	if err != nil {
		return nil, "", common.ErrorInternal
	}

	return user, token, nil
}

// Login verifies the provided password against the stored hash and, on
// success, returns the account and a new access token. An unknown email and
// a wrong password are indistinguishable to the caller.
func (s *UserService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	repo := s.repomanager.Users(s.db)

	user, err := repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			s.hasher.Verify(ctx, password, dummyPasswordHash)
			return nil, "", common.ErrorInvalidCredentials
		}
		return nil, "", common.ErrorInternal
	}

	if !s.hasher.Verify(ctx, password, user.PasswordHash) {
		return nil, "", common.ErrorInvalidCredentials
	}

	token, err := s.generateAccessToken(user.ID)
	if err != nil {
		return nil, "", common.ErrorInternal
	}

	return user, token, nil
}

// GetByID returns the account for the given id.
func (s *UserService) GetByID(ctx context.Context, id string) (*models.User, error) {
	repo := s.repomanager.Users(s.db)

	user, err := repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, common.ErrorInternal
	}

	return user, nil
}

// GetUserIDFromToken validates an access token and returns its subject.
func (s *UserService) GetUserIDFromToken(token string) (string, error) {
	return auth.GetUserIDFromToken(token, s.jwtSecret)
}

func (s *UserService) generateAccessToken(userID string) (string, error) {
	return auth.GenerateToken(userID, s.jwtSecret, s.tokenValidityDuration)
}
