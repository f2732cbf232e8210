package auth

import (
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/Metalica-api/internal/application/dto"
	"github.com/jhoicas/Metalica-api/internal/domain"
	"github.com/jhoicas/Metalica-api/pkg/jwt"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// Credentials usuario habilitado para operar el libro. PasswordHash es un hash bcrypt.
type Credentials struct {
	Username     string
	PasswordHash string
	Role         string
}

// AuthUseCase login contra las credenciales configuradas.
type AuthUseCase struct {
	users  map[string]Credentials
	jwtCfg JWTConfig
}

// NewAuthUseCase construye el caso de uso de auth. Se ignoran credenciales sin usuario o sin hash.
func NewAuthUseCase(jwtCfg JWTConfig, creds ...Credentials) *AuthUseCase {
	users := make(map[string]Credentials, len(creds))
	for _, c := range creds {
		if c.Username == "" || c.PasswordHash == "" {
			continue
		}
		users[c.Username] = c
	}
	return &AuthUseCase{users: users, jwtCfg: jwtCfg}
}

// Login verifica usuario/password y genera el JWT.
func (uc *AuthUseCase) Login(in dto.LoginRequest) (*dto.LoginResponse, error) {
	user, ok := uc.users[in.Username]
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrUnauthorized
	}
	if user.Role == "" {
		return nil, domain.ErrForbidden
	}
	token, exp, err := jwt.Generate(uc.jwtCfg.Secret, user.Username, user.Role, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		Token:     token,
		ExpiresAt: exp,
		Username:  user.Username,
		Role:      user.Role,
	}, nil
}
