package entity

import (
	"time"
	"unicode/utf8"

	"github.com/minsuk-ha/go-shop-ddd/internal/domain/apperrors"
)

// Role is the authorization role assigned to a member.
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// MaxUsernameLength is counted in code points, not bytes, so Korean
// usernames get the same 10-character budget as ASCII ones.
const MaxUsernameLength = 10

// ParseRole maps a raw role string onto the closed Role set.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleUser:
		return RoleUser, nil
	case RoleAdmin:
		return RoleAdmin, nil
	default:
		return "", apperrors.InvalidArgument("unknown role: " + s)
	}
}

// Member is the aggregate root for the member domain.
// PasswordHash is a bcrypt hash; the plaintext never reaches this type.
type Member struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string
	Name         string
	Address      Address
	Role         Role
	Blocked      bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ValidateUsername enforces presence and the code-point length cap.
func ValidateUsername(username string) error {
	if username == "" {
		return apperrors.EmptyField("username")
	}
	if utf8.RuneCountInString(username) > MaxUsernameLength {
		return apperrors.InvalidUsernameLength()
	}
	return nil
}

// NewMember builds a member that satisfies the aggregate invariants.
// Uniqueness of email/username is a command-handler concern; the aggregate
// re-checks only what it can see on its own (username length).
func NewMember(username, email, passwordHash, name string, addr Address, role Role) (*Member, error) {
	if err := ValidateUsername(username); err != nil {
		return nil, err
	}
	if email == "" {
		return nil, apperrors.EmptyField("email")
	}
	if passwordHash == "" {
		return nil, apperrors.EmptyField("password")
	}
	return &Member{
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		Name:         name,
		Address:      addr,
		Role:         role,
	}, nil
}

// Update replaces the mutable profile fields, re-validating the username.
func (m *Member) Update(email, username, name string, addr Address) error {
	if err := ValidateUsername(username); err != nil {
		return err
	}
	if email == "" {
		return apperrors.EmptyField("email")
	}
	m.Email = email
	m.Username = username
	m.Name = name
	m.Address = addr
	return nil
}

// ChangePasswordHash swaps in a new credential hash. Verifying the old
// password against the stored hash happens in the command handler, where the
// hashing collaborator lives.
func (m *Member) ChangePasswordHash(newHash string) error {
	if newHash == "" {
		return apperrors.EmptyField("password")
	}
	m.PasswordHash = newHash
	return nil
}

func (m *Member) Block()   { m.Blocked = true }
func (m *Member) Unblock() { m.Blocked = false }
