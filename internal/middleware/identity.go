package middleware

import "context"

const holderKey key = "identity_holder"

type identityHolder struct {
	userID string
}

func withIdentityHolder(ctx context.Context, h *identityHolder) context.Context {
	return context.WithValue(ctx, holderKey, h)
}

func reportIdentity(ctx context.Context, userID string) {
	if h, ok := ctx.Value(holderKey).(*identityHolder); ok {
		h.userID = userID
	}
}
