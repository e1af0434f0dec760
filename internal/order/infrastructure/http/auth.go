package http

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/dmehra2102/restaurant-pos/internal/access"
)

const issuer = "restaurant-pos"

type Claims struct {
	UserID     string `json:"userId"`
	Role       string `json:"role"`
	Restaurant string `json:"restaurantName"`
	jwt.RegisteredClaims
}

type callerKey struct{}

// Authenticator turns a bearer token into the request's access.Caller.
type Authenticator struct {
	secret []byte
}

func NewAuthenticator(secret string) *Authenticator {
	return &Authenticator{secret: []byte(secret)}
}

func (a *Authenticator) Validate(token string) (access.Caller, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return a.secret, nil
	}, jwt.WithIssuer(issuer), jwt.WithExpirationRequired())
	if err != nil {
		return access.Caller{}, err
	}
	if !parsed.Valid {
		return access.Caller{}, jwt.ErrSignatureInvalid
	}

	role, err := access.ParseRole(claims.Role)
	if err != nil {
		return access.Caller{}, err
	}
	if claims.UserID == "" || claims.Restaurant == "" {
		return access.Caller{}, errors.New("token lacks user or restaurant")
	}
	return access.Caller{UserID: claims.UserID, Role: role, Tenant: claims.Restaurant}, nil
}

func (a *Authenticator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			writeJSON(w, http.StatusUnauthorized, errorBody{Message: "missing bearer token"})
			return
		}
		caller, err := a.Validate(token)
		if err != nil {
			writeJSON(w, http.StatusUnauthorized, errorBody{Message: "invalid token"})
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), callerKey{}, caller)))
	})
}

func callerFrom(ctx context.Context) access.Caller {
	c, _ := ctx.Value(callerKey{}).(access.Caller)
	return c
}

// tenantScope keys idempotency tokens per tenant and user.
func tenantScope(r *http.Request) string {
	c := callerFrom(r.Context())
	return c.Tenant + ":" + c.UserID
}
