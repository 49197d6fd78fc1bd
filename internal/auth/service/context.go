package service

import (
	"context"

	"orgboard/pkg/model"
)

type contextKey string

const (
	identityKey contextKey = "identity"
	sidKey      contextKey = "sid"
)

func WithIdentity(ctx context.Context, identity model.Identity) context.Context {
	return context.WithValue(ctx, identityKey, identity)
}

func IdentityFrom(ctx context.Context) (model.Identity, bool) {
	identity, ok := ctx.Value(identityKey).(model.Identity)
	return identity, ok
}

func WithSID(ctx context.Context, sid string) context.Context {
	return context.WithValue(ctx, sidKey, sid)
}

func SIDFrom(ctx context.Context) (string, bool) {
	sid, ok := ctx.Value(sidKey).(string)
	return sid, ok
}
