package usecase

import (
	"context"
	"errors"
	"strings"

	"hospital-frontdesk/internal/delivery/http/middleware"
	"hospital-frontdesk/internal/domain/entity"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrUnauthenticated = errors.New("user not found in context")
	ErrForbidden       = errors.New("you don't have access to this resource")
	ErrUserNotFound    = errors.New("user not found")
)

// callerFromContext returns the authenticated user set by AuthMiddleware
func callerFromContext(ctx context.Context) (string, entity.Role, error) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return "", "", ErrUnauthenticated
	}
	role, ok := middleware.GetRoleFromContext(ctx)
	if !ok {
		return "", "", ErrUnauthenticated
	}
	return userID, role, nil
}

// isDuplicateKeyError checks if the error is a PostgreSQL unique violation
// on a constraint whose name contains constraintName
func isDuplicateKeyError(err error, constraintName string) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// PostgreSQL error code 23505 = unique_violation
		if pgErr.Code == "23505" && strings.Contains(strings.ToLower(pgErr.ConstraintName), strings.ToLower(constraintName)) {
			return true
		}
	}
	return false
}

func optionalString(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
