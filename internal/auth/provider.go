package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/Scurrlin/stocks-app/internal/database"
	"github.com/Scurrlin/stocks-app/internal/models"
)

const defaultSessionTTL = 7 * 24 * time.Hour

var (
	// ErrInvalidCredentials covers both unknown emails and wrong passwords
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrEmailTaken indicates an account with this email already exists
	ErrEmailTaken = errors.New("an account with this email already exists")

	// ErrWeakPassword indicates the password does not meet the minimum length
	ErrWeakPassword = errors.New("password must be at least 8 characters")
)

// Directory is the user-table surface the provider needs
type Directory interface {
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
	CreateUser(ctx context.Context, u *models.User) error
}

// Provider implements the three auth capabilities the application needs:
// create an account, verify credentials, and manage sessions. Everything
// else about authentication stays inside this package.
type Provider struct {
	directory Directory
	sessions  SessionStore
	ttl       time.Duration
}

// NewProvider creates a Provider over a user directory and session store
func NewProvider(directory Directory, sessions SessionStore, sessionTTL time.Duration) *Provider {
	if sessionTTL <= 0 {
		sessionTTL = defaultSessionTTL
	}
	return &Provider{
		directory: directory,
		sessions:  sessions,
		ttl:       sessionTTL,
	}
}

// SignUp registers a new user and opens a session for it
func (p *Provider) SignUp(ctx context.Context, email, password, name string) (*models.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	name = strings.TrimSpace(name)
	if email == "" || name == "" {
		return nil, "", database.ErrValidation
	}
	if len(password) < 8 {
		return nil, "", ErrWeakPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		ID:           uuid.NewString(),
		Email:        email,
		Name:         name,
		PasswordHash: string(hash),
	}
	if err := p.directory.CreateUser(ctx, user); err != nil {
		if errors.Is(err, database.ErrAlreadyExists) {
			return nil, "", ErrEmailTaken
		}
		return nil, "", fmt.Errorf("failed to create user: %w", err)
	}

	token, err := p.sessions.Create(ctx, Session{UserID: user.ID, Email: user.Email}, p.ttl)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create session: %w", err)
	}
	return user, token, nil
}

// SignIn verifies credentials and opens a session
func (p *Provider) SignIn(ctx context.Context, email, password string) (*models.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := p.directory.FindUserByEmail(ctx, email)
	if err != nil {
		return nil, "", fmt.Errorf("failed to look up user: %w", err)
	}
	if user == nil {
		return nil, "", ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := p.sessions.Create(ctx, Session{UserID: user.ID, Email: user.Email}, p.ttl)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create session: %w", err)
	}
	return user, token, nil
}

// SignOut ends the session for the given token
func (p *Provider) SignOut(ctx context.Context, token string) error {
	return p.sessions.Destroy(ctx, token)
}

// Resolve returns the session for a token, or nil when absent or expired
func (p *Provider) Resolve(ctx context.Context, token string) (*Session, error) {
	return p.sessions.Get(ctx, token)
}
