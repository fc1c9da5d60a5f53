package middleware

import (
	"cowork/shared"
	"cowork/shared/constant"
	"cowork/transport/http/response"
	"crypto/subtle"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
)

const cacheKeyRateLimit = "limiter"

// RateLimit counts requests per client in fixed windows aligned to the epoch, so a
// client that keeps calling still gets a fresh budget when the window rolls over.
// Callers presenting the service API key are not counted. A failing cache lets
// traffic through.
func (a *appMiddleware) RateLimit() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			limits := a.config.App.RateLimiter
			if !limits.Enable || limits.WindowSeconds <= 0 || a.isServiceCall(r) {
				next.ServeHTTP(w, r)

				return
			}

			window, expiresIn := currentWindow(time.Now(), limits.WindowSeconds)
			key := shared.BuildCacheKey(cacheKeyRateLimit, a.getClientIP(r), strconv.FormatInt(window, 10))

			count, err := a.cache.Incr(r.Context(), key, expiresIn)
			if err != nil {
				log.Warn().Err(err).Msg("rate limiter cache unavailable")
				next.ServeHTTP(w, r)

				return
			}

			w.Header().Set(constant.RequestHeaderRateLimit, strconv.Itoa(limits.MaxRequests))
			w.Header().Set(constant.RequestHeaderRateLimitWindow, strconv.Itoa(limits.WindowSeconds))

			if count > int64(limits.MaxRequests) {
				w.Header().Set(constant.RequestHeaderRateLimitRemaining, "0")
				w.Header().Set(constant.RequestHeaderRetryAfter, strconv.Itoa(expiresIn))
				response.WithRequestLimitExceeded(w)

				return
			}

			w.Header().Set(constant.RequestHeaderRateLimitRemaining, strconv.FormatInt(int64(limits.MaxRequests)-count, 10))

			next.ServeHTTP(w, r)
		})
	}
}

// currentWindow returns the window index for now and the seconds left in it.
func currentWindow(now time.Time, windowSeconds int) (int64, int) {
	size := int64(windowSeconds)
	elapsed := now.Unix() % size

	return now.Unix() / size, int(size - elapsed)
}

func (a *appMiddleware) isServiceCall(r *http.Request) bool {
	key := a.config.App.APIKey
	if key == constant.Empty {
		return false
	}

	return subtle.ConstantTimeCompare([]byte(r.Header.Get(constant.RequestHeaderAPIKey)), []byte(key)) == 1
}

func (a *appMiddleware) getUA(r *http.Request) string {
	if ua := r.UserAgent(); ua != constant.Empty {
		return ua
	}

	return "unknown"
}

// getClientIP relies on chi's RealIP having already rewritten RemoteAddr from proxy headers.
func (a *appMiddleware) getClientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}

	return host
}
