package service

import (
	"context" // Request scoped cancellation
	"errors"  // Error inspection
	"regexp"  // Username rules
	"strings" // Username normalization

	"inventory_sales/internal/domain"     // Domain models and errors
	"inventory_sales/internal/policy"     // Authorization rules
	"inventory_sales/internal/repository" // Persistence boundary

	"github.com/sirupsen/logrus" // Logging library
	"golang.org/x/crypto/bcrypt" // Password hashing
)

// usernamePattern allows letters, digits, dot, dash and underscore
var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_.-]{3,150}$`)

// UserInput describes a new identity
type UserInput struct {
	Username string
	Password string
	IsClient bool
	IsSeller bool
}

// Users manages identities and verifies credentials
type Users struct {
	repo repository.Repository // Store
}

// NewUsers creates the identity service
func NewUsers(repo repository.Repository) *Users {
	return &Users{repo: repo}
}

func (in UserInput) validate() error {
	if !usernamePattern.MatchString(in.Username) {
		return domain.Invalid("username", "must be 3-150 letters, digits, '.', '-' or '_'")
	}
	// bcrypt only looks at the first 72 bytes
	if len(in.Password) < 8 || len(in.Password) > 72 {
		return domain.Invalid("password", "must be 8-72 characters")
	}
	return nil
}

// Register stores a new identity without an authorization check. It backs
// both Create and the bootstrap command that creates the first seller.
func (u *Users) Register(ctx context.Context, in UserInput) (*domain.User, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	user := &domain.User{
		Username: strings.ToLower(in.Username), // Lower-case to keep usernames unique
		Password: string(hash),                 // Hashed password
		IsClient: in.IsClient,                  // Client capability
		IsSeller: in.IsSeller,                  // Seller capability
	}
	if err := u.repo.CreateUser(ctx, user); err != nil {
		return nil, err
	}
	logrus.WithFields(logrus.Fields{
		"user_id":   user.ID,       // New user ID
		"username":  user.Username, // Username
		"is_client": user.IsClient, // Client flag
		"is_seller": user.IsSeller, // Seller flag
	}).Info("User registered") // Log registration
	return user, nil
}

// Create registers an identity on behalf of a seller
func (u *Users) Create(ctx context.Context, requester *domain.User, in UserInput) (*domain.User, error) {
	if err := policy.Seller(requester); err != nil {
		return nil, err
	}
	return u.Register(ctx, in)
}

// Authenticate checks credentials. Unknown users and wrong passwords fail the same way.
func (u *Users) Authenticate(ctx context.Context, username, password string) (*domain.User, error) {
	user, err := u.repo.GetUserByUsername(ctx, strings.ToLower(username))
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.Unauthenticated("invalid credentials")
	}
	if err != nil {
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, domain.Unauthenticated("invalid credentials")
	}
	return user, nil
}

// Resolve loads the identity behind a verified token
func (u *Users) Resolve(ctx context.Context, id uint) (*domain.User, error) {
	user, err := u.repo.GetUser(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.Unauthenticated("user no longer exists")
	}
	return user, err
}

// List lists identities for a seller
func (u *Users) List(ctx context.Context, requester *domain.User, opts repository.ListOptions) ([]domain.User, int64, error) {
	if err := policy.Seller(requester); err != nil {
		return nil, 0, err
	}
	return u.repo.ListUsers(ctx, opts)
}

// Get returns one identity to a seller
func (u *Users) Get(ctx context.Context, requester *domain.User, id uint) (*domain.User, error) {
	if err := policy.Seller(requester); err != nil {
		return nil, err
	}
	return u.repo.GetUser(ctx, id)
}
