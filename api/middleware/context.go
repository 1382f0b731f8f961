package middleware

import "context"

type contextKey string

const (
	ctxVendorID     contextKey = "vendor_id"
	ctxVendorMobile contextKey = "vendor_mobile"
)

func VendorIDFromContext(ctx context.Context) int64 {
	if ctx == nil {
		return 0
	}
	if v, ok := ctx.Value(ctxVendorID).(int64); ok {
		return v
	}
	return 0
}

func VendorMobileFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxVendorMobile).(string); ok {
		return v
	}
	return ""
}

// WithVendor injects the signed-in vendor identity for downstream handlers.
func WithVendor(ctx context.Context, vendorID int64, mobile string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = context.WithValue(ctx, ctxVendorID, vendorID)
	return context.WithValue(ctx, ctxVendorMobile, mobile)
}
