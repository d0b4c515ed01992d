package utils

import (
	"context"

	"github.com/google/uuid"
)

type contextKey string

const (
	UserIDKey contextKey = "user_id"
	RoleKey   contextKey = "role"
	LocaleKey contextKey = "locale"
)

func GetUserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	userIDVal := ctx.Value(UserIDKey)
	if userIDVal == nil {
		return uuid.Nil, false
	}

	userIDStr, ok := userIDVal.(string)
	if !ok {
		return uuid.Nil, false
	}

	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return uuid.Nil, false
	}

	return userID, true
}

func GetRoleFromContext(ctx context.Context) (string, bool) {
	roleVal := ctx.Value(RoleKey)
	if roleVal == nil {
		return "", false
	}

	role, ok := roleVal.(string)
	return role, ok
}

// GetLocaleFromContext returns the renter's locale, defaulting to "en".
// The locale only feeds Stripe redirect URLs.
func GetLocaleFromContext(ctx context.Context) string {
	localeVal := ctx.Value(LocaleKey)
	if localeVal == nil {
		return "en"
	}

	locale, ok := localeVal.(string)
	if !ok || locale == "" {
		return "en"
	}
	return locale
}

func SetUserContext(ctx context.Context, userID uuid.UUID, role, locale string) context.Context {
	ctx = context.WithValue(ctx, UserIDKey, userID.String())
	ctx = context.WithValue(ctx, RoleKey, role)
	ctx = context.WithValue(ctx, LocaleKey, locale)
	return ctx
}
