package middleware

import (
	"context"
	"crypto/subtle"
	"net"
	"net/http"
	"slices"
	"strings"

	"github.com/akolanti/mindsync/internal/adapter/utils"
	"github.com/akolanti/mindsync/internal/config"
	"github.com/akolanti/mindsync/internal/handlers"
	"github.com/akolanti/mindsync/pkg/logger_i"
)

const (
	traceHeader    = "X-Trace-Id"
	maxTraceLength = 128
)

// probes and scrapers call these without a token
var publicPaths = []string{"/health"}

func injectTrace(re requestResponseStruct) requestResponseStruct {
	if re.req == nil {
		re.badRequest = failureStruct{
			isBadRequest: true,
			httpCode:     http.StatusBadRequest,
			errorMessage: "request is empty",
		}
		return re
	}

	trace := strings.TrimSpace(re.req.Header.Get(traceHeader))
	if trace == "" || len(trace) > maxTraceLength {
		trace = utils.GetNewUUID()
	}
	re.logger = re.logger.With("traceId", trace, "path", re.req.URL.Path)

	re.req.Header.Set(traceHeader, trace)
	re.writer.Header().Set(traceHeader, trace)
	re.req = re.req.WithContext(context.WithValue(re.req.Context(), config.TRACE_ID_KEY, trace))
	return re
}

func authenticate(re requestResponseStruct) requestResponseStruct {
	if slices.Contains(publicPaths, re.req.URL.Path) {
		return re
	}
	if !IsValidBearerToken(re.req.Header.Get("Authorization"), re.logger) {
		re.badRequest = failureStruct{
			isBadRequest: true,
			httpCode:     http.StatusUnauthorized,
			errorMessage: "Unauthorized",
		}
	}
	return re
}

// IsValidBearerToken checks the Authorization header against AUTH_TOKEN.
// With no token configured every request is refused unless the bypass flag is set.
func IsValidBearerToken(authHeader string, log *logger_i.Logger) bool {
	if config.NoAuthBypass {
		log.Warn("auth bypass enabled")
		return true
	}
	if config.AuthToken == "" {
		log.Error("AUTH_TOKEN is not configured")
		return false
	}

	token, ok := bearerToken(authHeader)
	if !ok {
		log.Warn("Missing or malformed authorization header")
		return false
	}
	if subtle.ConstantTimeCompare([]byte(token), []byte(config.AuthToken)) != 1 {
		log.Warn("Invalid bearer token")
		return false
	}
	return true
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func rateLimiter(re requestResponseStruct) requestResponseStruct {
	ip := clientIP(re.req)
	if !limiterInstance.GetLimiter(ip).Allow() {
		re.logger.Warn("Too many requests", "ip", ip)
		re.badRequest = failureStruct{
			isBadRequest: true,
			httpCode:     http.StatusTooManyRequests,
			errorMessage: "Terlalu banyak request, coba lagi sebentar ya",
		}
	}
	return re
}

// clientIP takes the first X-Forwarded-For hop when the service sits behind a proxy
func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

func handleBadRequest(re requestResponseStruct) {
	re.logger.Warn("Request rejected", "httpCode", re.badRequest.httpCode, "reason", re.badRequest.errorMessage)
	handlers.WriteErrorResponse(re.writer, re.badRequest.httpCode, re.badRequest.errorMessage, "")
}
