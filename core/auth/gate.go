// Package auth holds the single super-admin credential gate of the console.
package auth

import (
	"crypto/subtle"
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"github.com/pmezard/go-difflib/difflib"
	"golang.org/x/crypto/bcrypt"

	"github.com/varadc-2304/admin-command-station/core"
)

var (
	// errors
	ErrInvalidCredentials = errors.New("invalid credentials")

	// password policy
	pwdMinLen      = 8
	pwdMaxSim      = .7
	ErrPwdTooShort = fmt.Errorf("password must contain at least %d characters", pwdMinLen)
	ErrPwdTooSim   = errors.New("password cannot be similar to the username")
	ErrPwdNumeric  = errors.New("password cannot be entirely numeric")
)

// Gate checks the super-admin credentials.
type Gate struct {
	username string
	hash     []byte
}

// NewGate returns a Gate for `username`. The bcrypt `passwordHash` is used when set,
// otherwise the plain `password` is hashed.
func NewGate(username, password, passwordHash string) (*Gate, error) {
	username = core.CleanString(username, true /* lower */)
	if username == "" {
		return nil, errors.New("superadmin username is required")
	}

	hash := []byte(passwordHash)
	if len(hash) == 0 {
		if password == "" {
			return nil, errors.New("one of superadmin password or password hash is required")
		}
		var err error
		if hash, err = HashPassword(password); err != nil {
			return nil, errors.Wrap(err, "hashing superadmin password")
		}
	} else if _, err := bcrypt.Cost(hash); err != nil {
		return nil, errors.Wrap(err, "invalid superadmin password hash")
	}
	return &Gate{username: username, hash: hash}, nil
}

func (g *Gate) Username() string {
	return g.username
}

// Authenticate returns ErrInvalidCredentials unless `username` and `password` are the super-admin ones.
func (g *Gate) Authenticate(username, password string) error {
	username = core.CleanString(username, true /* lower */)
	pwdErr := bcrypt.CompareHashAndPassword(g.hash, []byte(password))
	if subtle.ConstantTimeCompare([]byte(username), []byte(g.username)) != 1 || pwdErr != nil {
		return ErrInvalidCredentials
	}
	return nil
}

// HashPassword bcrypts `pwd` with the default cost.
func HashPassword(pwd string) ([]byte, error) {
	return bcrypt.GenerateFromPassword([]byte(pwd), bcrypt.DefaultCost)
}

// CheckPasswordPolicy applies the password policy to `pwd`:
// - minLen: 8
// - not all numeric
// - not similar to the username
func CheckPasswordPolicy(pwd, username string) error {
	if len(pwd) < pwdMinLen {
		return ErrPwdTooShort
	}
	if strings.Trim(pwd, "0123456789") == "" {
		return ErrPwdNumeric
	}
	if username != "" {
		ratio := difflib.NewMatcher(strings.Split(strings.ToLower(pwd), ""), strings.Split(strings.ToLower(username), "")).QuickRatio()
		if ratio >= pwdMaxSim {
			return ErrPwdTooSim
		}
	}
	return nil
}
