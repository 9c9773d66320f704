package bastion

import "context"

type contextKey int

const (
	ctxKeyTenantID contextKey = iota
	ctxKeyClientAddr
)

// WithTenant returns a context carrying the tenant the request belongs
// to. The tenant participates in decision-cache keys so decisions never
// leak across tenants.
func WithTenant(ctx context.Context, tenantID string) context.Context {
	return context.WithValue(ctx, ctxKeyTenantID, tenantID)
}

// TenantFromContext returns the tenant set by WithTenant, or "".
func TenantFromContext(ctx context.Context) string {
	v, ok := ctx.Value(ctxKeyTenantID).(string)
	if !ok {
		return ""
	}
	return v
}

// WithClientAddr returns a context carrying the remote address of the
// caller, for audit plugins.
func WithClientAddr(ctx context.Context, addr string) context.Context {
	return context.WithValue(ctx, ctxKeyClientAddr, addr)
}

// ClientAddrFromContext returns the address set by WithClientAddr, or "".
func ClientAddrFromContext(ctx context.Context) string {
	v, ok := ctx.Value(ctxKeyClientAddr).(string)
	if !ok {
		return ""
	}
	return v
}
