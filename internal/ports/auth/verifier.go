package auth

import "context"

// Claims representa la identidad extraída del token.
// UserID es el caller que ven los servicios de dominio.
type Claims struct {
	UserID string
	Issuer string
}

// AuthVerifier verifica un token y devuelve claims o error.
type AuthVerifier interface {
	Verify(ctx context.Context, token string) (Claims, error)
}
