package auth

import (
	"context"
	"crypto/subtle"
	"strings"

	"catalog-be/internal/logger"
	"catalog-be/internal/utils"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

func CheckPasswordHash(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// Authenticator logs in the single configured administrator.
type Authenticator struct {
	email        string
	passwordHash string
	issuer       *TokenIssuer
}

// NewAuthenticator accepts either a plain password or a bcrypt hash; plain
// passwords are hashed once here.
func NewAuthenticator(email, password string, issuer *TokenIssuer) (*Authenticator, error) {
	hash := password
	if _, err := bcrypt.Cost([]byte(password)); err != nil {
		hash, err = HashPassword(password)
		if err != nil {
			return nil, err
		}
	}

	return &Authenticator{
		email:        strings.ToLower(strings.TrimSpace(email)),
		passwordHash: hash,
		issuer:       issuer,
	}, nil
}

func (a *Authenticator) Login(ctx context.Context, email, password string) (Token, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "auth"),
		zap.String("method", "Login"),
	)

	email = strings.ToLower(strings.TrimSpace(email))
	emailOK := subtle.ConstantTimeCompare([]byte(email), []byte(a.email)) == 1
	passwordOK := CheckPasswordHash(password, a.passwordHash)
	if !emailOK || !passwordOK {
		log.Warn("login rejected")
		return Token{}, ErrInvalidCredentials
	}

	token, err := a.issuer.Issue(a.email, a.email, utils.RoleAdmin)
	if err != nil {
		log.Error("failed to issue token", zap.Error(err))
		return Token{}, err
	}

	log.Info("login succeeded")
	return token, nil
}
