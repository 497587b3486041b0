package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/iho/creditbook/internal/domain"
)

// ContextKey is the type for context keys
type ContextKey string

const (
	// OperatorContextKey is the context key for the authenticated operator
	OperatorContextKey ContextKey = "operator"
)

// TokenVerifier turns a bearer token into an operator.
type TokenVerifier interface {
	Verify(token string) (*domain.Operator, error)
}

// AuthMiddleware creates an authentication middleware
func AuthMiddleware(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				writeError(w, http.StatusUnauthorized, "missing authorization header")
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
				writeError(w, http.StatusUnauthorized, "invalid authorization header format")
				return
			}

			op, err := verifier.Verify(parts[1])
			if err != nil {
				writeError(w, http.StatusUnauthorized, "invalid or expired token")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithOperator(r.Context(), op)))
		})
	}
}

// StaticOperator attaches op to every request. It replaces AuthMiddleware when
// authentication is switched off for local development.
func StaticOperator(op *domain.Operator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(WithOperator(r.Context(), op)))
		})
	}
}

// WithOperator returns a copy of ctx carrying op.
func WithOperator(ctx context.Context, op *domain.Operator) context.Context {
	return context.WithValue(ctx, OperatorContextKey, op)
}

// OperatorFromContext extracts the authenticated operator. A nil result is
// passed on to the use cases, which reject it as Unauthorized.
func OperatorFromContext(ctx context.Context) *domain.Operator {
	op, _ := ctx.Value(OperatorContextKey).(*domain.Operator)
	return op
}
