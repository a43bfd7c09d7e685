package middleware

import (
	"context"
	"net/http"
	"strconv"

	"github.com/reservado/Reservado-BookingService/internal/api/handlers"
)

const merchantIDHeader = "X-Merchant-ID"

type merchantIDKey struct{}

// Logger is the logging interface consumed by the middleware.
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// MerchantAuth extracts the merchant identity from the X-Merchant-ID header,
// populated by the API gateway in front of this service. Requests without it
// are rejected before reaching the handlers.
func MerchantAuth(log Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := r.Header.Get(merchantIDHeader)
			if raw == "" {
				log.Warn("%s %s - missing %s header", r.Method, r.URL.Path, merchantIDHeader)
				handlers.RespondError(w, http.StatusUnauthorized, "identificação do comerciante ausente")
				return
			}
			merchantID, err := strconv.ParseInt(raw, 10, 64)
			if err != nil || merchantID <= 0 {
				log.Warn("%s %s - invalid %s header: %q", r.Method, r.URL.Path, merchantIDHeader, raw)
				handlers.RespondError(w, http.StatusUnauthorized, "identificação do comerciante inválida")
				return
			}

			ctx := context.WithValue(r.Context(), merchantIDKey{}, merchantID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// MerchantID returns the authenticated merchant id, or 0 when the request
// did not pass through MerchantAuth.
func MerchantID(ctx context.Context) int64 {
	id, _ := ctx.Value(merchantIDKey{}).(int64)
	return id
}
