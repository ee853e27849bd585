package handler

import (
	"context"

	"github.com/flightroutes/flightroutes/internal/api/middleware"
	"github.com/flightroutes/flightroutes/internal/auth"
)

// GetOperator retrieves the authenticated operator claims from the context.
// This is a convenience wrapper around middleware.GetOperator.
func GetOperator(ctx context.Context) *auth.JWTClaims {
	return middleware.GetOperator(ctx)
}
