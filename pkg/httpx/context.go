package httpx

import (
	"context"

	"github.com/assetshield/adminauth/pkg/jwtx"
)

type ctxKey string

const (
	CtxKeyAdminID ctxKey = "admin_id"
	CtxKeyClaims  ctxKey = "claims"
)

// AdminIDFromContext returns the authenticated admin's ID, or "".
func AdminIDFromContext(ctx context.Context) string {
	v, _ := ctx.Value(CtxKeyAdminID).(string)
	return v
}

// ClaimsFromContext returns the verified session claims.
func ClaimsFromContext(ctx context.Context) (jwtx.Claims, bool) {
	c, ok := ctx.Value(CtxKeyClaims).(jwtx.Claims)
	return c, ok
}

func contextWithAuth(ctx context.Context, c jwtx.Claims) context.Context {
	ctx = context.WithValue(ctx, CtxKeyAdminID, c.Subject)
	ctx = context.WithValue(ctx, CtxKeyClaims, c)
	return ctx
}
