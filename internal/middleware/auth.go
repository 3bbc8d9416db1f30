package middleware

import (
	"context"
	"errors"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/splitbill/internal/auth"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

// BillIDKey is the context key for the bill ID an edit token was checked against.
const BillIDKey contextKey = "bill_id"

// BillScoped is implemented by request messages that address a single bill.
type BillScoped interface {
	GetBillID() string
}

// GetBillID extracts the authorized bill ID from the context.
// Returns empty string if not found.
func GetBillID(ctx context.Context) string {
	billID, _ := ctx.Value(BillIDKey).(string)
	return billID
}

// RequireBillToken returns an interceptor that requires a Bearer edit token
// issued for the bill named in the request. Requests that do not address a
// bill pass through untouched.
func RequireBillToken(jwtManager *auth.JWTManager) connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			scoped, ok := req.Any().(BillScoped)
			if !ok {
				return next(ctx, req)
			}

			authHeader := req.Header().Get("Authorization")
			if authHeader == "" {
				return nil, connect.NewError(connect.CodeUnauthenticated, auth.ErrMissingToken)
			}

			tokenString, found := strings.CutPrefix(authHeader, "Bearer ")
			if !found || tokenString == "" {
				return nil, connect.NewError(connect.CodeUnauthenticated, auth.ErrInvalidToken)
			}

			billID := scoped.GetBillID()
			if _, err := jwtManager.Authorize(tokenString, billID); err != nil {
				if errors.Is(err, auth.ErrWrongBill) {
					return nil, connect.NewError(connect.CodePermissionDenied, err)
				}
				return nil, connect.NewError(connect.CodeUnauthenticated, err)
			}

			ctx = context.WithValue(ctx, BillIDKey, billID)
			return next(ctx, req)
		}
	}
}
