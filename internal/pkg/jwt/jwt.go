package jwt

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hris-timesheet-go/internal/domain/user"
	"github.com/go-chi/jwtauth/v5"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

// Service verifies access tokens issued by the identity service and mints
// short-lived tokens for in-process callers.
type Service interface {
	JWTAuth() *jwtauth.JWTAuth
	GenerateAccessToken(companyID string, employeeID *string, role user.Role) (token string, expiresAt int64, err error)
}

type JWTService struct {
	tokenAuth           *jwtauth.JWTAuth
	accessTokenLifetime time.Duration
}

func (j *JWTService) JWTAuth() *jwtauth.JWTAuth {
	return j.tokenAuth
}

func NewJWTService(secretKey string, accessTokenLifetime time.Duration) Service {
	return &JWTService{
		tokenAuth:           jwtauth.New("HS256", []byte(secretKey), nil, jwt.WithAcceptableSkew(30*time.Second)),
		accessTokenLifetime: accessTokenLifetime,
	}
}

func (j *JWTService) GenerateAccessToken(companyID string, employeeID *string, role user.Role) (token string, expiresAt int64, err error) {
	expiresAt = time.Now().Add(j.accessTokenLifetime).Unix()

	claims := map[string]interface{}{
		"company_id": companyID,
		"role":       string(role),
		"type":       "access",
		"exp":        expiresAt,
	}
	if employeeID != nil {
		claims["employee_id"] = *employeeID
	}

	_, tokenString, err := j.tokenAuth.Encode(claims)
	return tokenString, expiresAt, err
}

// WithCompany returns a context carrying an in-process token scoped to
// companyID, as if the request had passed the HTTP verifier.
func WithCompany(ctx context.Context, companyID string, role user.Role) (context.Context, error) {
	tok := jwt.New()
	for k, v := range map[string]interface{}{
		"company_id": companyID,
		"role":       string(role),
		"type":       "access",
	} {
		if err := tok.Set(k, v); err != nil {
			return nil, fmt.Errorf("failed to set %s claim: %w", k, err)
		}
	}
	return jwtauth.NewContext(ctx, tok, nil), nil
}

// CompanyID reads the company_id claim from the request context.
func CompanyID(ctx context.Context) (string, error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to extract claims from context: %w", err)
	}

	companyID, ok := claims["company_id"].(string)
	if !ok || companyID == "" {
		return "", user.ErrCompanyIDRequired
	}
	return companyID, nil
}

// Role reads the role claim from the request context.
func Role(ctx context.Context) (user.Role, error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to extract claims from context: %w", err)
	}

	role, ok := claims["role"].(string)
	if !ok || !user.Role(role).IsValid() {
		return "", user.ErrInsufficientPermissions
	}
	return user.Role(role), nil
}
