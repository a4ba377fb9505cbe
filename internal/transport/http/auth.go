package http

import (
	"context"
	"errors"
	"net/http"
	"strings"

	jwt "github.com/golang-jwt/jwt/v5"
)

type userCtxKey struct{}

var errNoToken = errors.New("missing bearer token")

// TokenVerifier checks HS256 bearer tokens issued by the auth service. The
// token subject is the user id.
type TokenVerifier struct {
	secret []byte
}

func NewTokenVerifier(secret []byte) *TokenVerifier {
	return &TokenVerifier{secret: secret}
}

// Verify returns the user id carried by a valid token.
func (v *TokenVerifier) Verify(token string) (string, error) {
	if len(v.secret) == 0 {
		return "", errors.New("token verification is not configured")
	}
	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return v.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return "", err
	}
	if !parsed.Valid || claims.Subject == "" {
		return "", errors.New("invalid token")
	}
	return claims.Subject, nil
}

// authenticate resolves the caller. WebSocket clients may pass the token as
// a query parameter because browsers cannot set headers on upgrade requests.
func (v *TokenVerifier) authenticate(r *http.Request, allowQuery bool) (string, error) {
	token := ""
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		token = strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	} else if allowQuery {
		token = r.URL.Query().Get("token")
	}
	if token == "" {
		return "", errNoToken
	}
	return v.Verify(token)
}

func (a *API) requireUser(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := a.verifier.authenticate(r, false)
		if err != nil {
			writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "unauthorized"})
			return
		}
		next(w, r.WithContext(context.WithValue(r.Context(), userCtxKey{}, userID)))
	}
}

// UserIDFromContext returns the authenticated user id set by requireUser.
func UserIDFromContext(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(userCtxKey{}).(string)
	return userID, ok && userID != ""
}
