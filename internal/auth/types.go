package auth

import (
	"errors"
	"regexp"
	"time"
)

// usernamePattern defines the valid format for usernames:
// alphanumeric, dots, hyphens, underscores, 1-64 characters.
var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9._-]{1,64}$`)

// maxUsernameLength is the maximum allowed username length.
const maxUsernameLength = 64

// IsValidUsername checks if a username meets format requirements.
func IsValidUsername(username string) bool {
	return len(username) <= maxUsernameLength && usernamePattern.MatchString(username)
}

// Credentials holds the salted password hash for an account.
//
// It is embedded by value in User. The hash is write-only: there is no
// accessor that exposes it, and the json tag keeps it out of every response.
type Credentials struct {
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}

// SetPassword replaces the stored hash with a fresh Argon2id hash of plain.
// The previous password can no longer be verified afterwards.
func (c *Credentials) SetPassword(plain string) error {
	hash, err := HashPassword(plain)
	if err != nil {
		return err
	}
	c.PasswordHash = hash
	return nil
}

// Check reports whether plain matches the stored hash.
// It returns false for any mismatch or malformed hash, never an error.
func (c *Credentials) Check(plain string) bool {
	ok, err := VerifyPassword(plain, c.PasswordHash)
	return err == nil && ok
}

// User represents a registered account. A user exclusively owns its devices;
// deleting a user cascades to the devices and their readings.
type User struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	IsAdmin   bool   `json:"isAdmin"`
	Credentials
}

// DisplayName returns the user's full name for presentation.
func (u *User) DisplayName() string {
	return u.FirstName + " " + u.LastName
}

// Sentinel errors for auth operations.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrDuplicateIdentity  = errors.New("username or email already exists")
	ErrTokenInvalid       = errors.New("invalid token")
	ErrTokenExpired       = errors.New("token has expired")
	ErrWrongTokenKind     = errors.New("wrong token kind")
)
