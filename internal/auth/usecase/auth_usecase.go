package usecase

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"freshkeep-backend/internal/auth/dto"
	"freshkeep-backend/pkg/config"
)

var (
	ErrInvalidPassword = errors.New("invalid password")
	ErrInvalidToken    = errors.New("invalid or expired token")
)

// AuthUsecase guards the API with a single shared household credential.
type AuthUsecase interface {
	Login(req *dto.LoginRequest) (*dto.TokenResponse, error)
	ValidateToken(token string) error
}

// authUsecase implements AuthUsecase
type authUsecase struct {
	config *config.Config
}

// NewAuthUsecase creates a new instance of authUsecase
func NewAuthUsecase(cfg *config.Config) AuthUsecase {
	return &authUsecase{config: cfg}
}

func (u *authUsecase) Login(req *dto.LoginRequest) (*dto.TokenResponse, error) {
	if err := bcrypt.CompareHashAndPassword([]byte(u.config.HouseholdPasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidPassword
	}

	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   "household",
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(u.config.JWTExpiry)),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(u.config.JWTSecret))
	if err != nil {
		return nil, err
	}

	return &dto.TokenResponse{
		AccessToken: token,
		ExpiresIn:   int64(u.config.JWTExpiry.Seconds()),
	}, nil
}

func (u *authUsecase) ValidateToken(tokenString string) error {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(u.config.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return ErrInvalidToken
	}
	return nil
}
