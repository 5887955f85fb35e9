package auth

import (
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"

	"github.com/AchrafRT/sales-crm/internal/application/dto"
	"github.com/AchrafRT/sales-crm/internal/domain"
	"github.com/AchrafRT/sales-crm/internal/domain/entity"
	"github.com/AchrafRT/sales-crm/pkg/jwt"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// userFinder lo implementa *engine.Reader.
type userFinder interface {
	UserByUsername(ctx context.Context, username string) (*entity.User, error)
}

// AuthUseCase login contra el almacén de usuarios.
type AuthUseCase struct {
	users  userFinder
	jwtCfg JWTConfig
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(users userFinder, jwtCfg JWTConfig) *AuthUseCase {
	return &AuthUseCase{users: users, jwtCfg: jwtCfg}
}

// Login verifica username/password, genera JWT y retorna token + usuario.
// Credenciales incorrectas o usuario inexistente → domain.ErrUnauthorized;
// usuario deshabilitado → domain.ErrForbidden.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := uc.users.UserByUsername(ctx, in.Username)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrUnauthorized
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PassHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrUnauthorized
	}
	if !user.Active {
		return nil, domain.ErrForbidden
	}
	token, err := jwt.Generate(uc.jwtCfg.Secret, user.ID, user.Role, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		Token: token,
		User:  ToUserResponse(user),
	}, nil
}

// ToUserResponse proyecta el usuario sin el hash.
func ToUserResponse(u *entity.User) dto.UserResponse {
	return dto.UserResponse{
		ID:              u.ID,
		Username:        u.Username,
		Role:            u.Role,
		Active:          u.Active,
		NeedsFirstLogin: u.NeedsFirstLogin,
	}
}
