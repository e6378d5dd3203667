package httpx

import (
	"context"

	"github.com/aussiebroadwan/reelhub/pkg/jwtx"
)

type ctxKey string

const (
	CtxKeyOperatorID ctxKey = "operator_id"
	CtxKeyScopes     ctxKey = "scopes"
	CtxKeyClaims     ctxKey = "claims"
)

func contextWithAuth(ctx context.Context, c jwtx.Claims) context.Context {
	ctx = context.WithValue(ctx, CtxKeyOperatorID, c.Subject)
	ctx = context.WithValue(ctx, CtxKeyScopes, c.Scopes)
	ctx = context.WithValue(ctx, CtxKeyClaims, c)
	return ctx
}

// OperatorID returns the authenticated operator (token subject), or "".
func OperatorID(ctx context.Context) string {
	id, _ := ctx.Value(CtxKeyOperatorID).(string)
	return id
}

func scopesFromCtx(ctx context.Context) []string {
	if v, ok := ctx.Value(CtxKeyScopes).([]string); ok {
		return v
	}
	return nil
}
