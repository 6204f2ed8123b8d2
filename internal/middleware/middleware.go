package middleware

import (
	"net/http"
	"strconv"

	"github.com/akolanti/mindsync/internal/handlers"
	"github.com/akolanti/mindsync/internal/metrics"
	"github.com/akolanti/mindsync/pkg/logger_i"
	"github.com/go-chi/chi/v5"
)

type requestResponseStruct struct {
	writer     http.ResponseWriter
	req        *http.Request
	badRequest failureStruct
	logger     *logger_i.Logger
}

type failureStruct struct {
	isBadRequest bool
	httpCode     int
	errorMessage string
}

var GetHandler = Wrap(handlers.GetHandler)

var ProcessDocumentHandler = Wrap(handlers.ProcessDocumentHandler)
var DocumentStatusHandler = Wrap(handlers.DocumentStatusHandler)
var UploadDocumentHandler = Wrap(handlers.UploadDocumentHandler)
var GetJobHandler = Wrap(handlers.GetJobHandler)

type step func(requestResponseStruct) requestResponseStruct

// chain runs in order, the first rejection stops it
var chain = []step{injectTrace, authenticate, rateLimiter}

var logMW = logger_i.NewLogger("middleware")

// Wrap puts a handler behind the chain and counts every response by route and status
func Wrap(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rec := &metrics.HttpStatusRecorder{ResponseWriter: w, Status: http.StatusOK}
		defer func() {
			metrics.HttpRequestsTotal.WithLabelValues(routeLabel(r), strconv.Itoa(rec.Status)).Inc()
		}()

		re, ok := runChain(requestResponseStruct{req: r, writer: rec, logger: logMW})
		if !ok {
			return
		}
		next(rec, re.req)
	}
}

func runChain(re requestResponseStruct) (requestResponseStruct, bool) {
	for _, s := range chain {
		re = s(re)
		if re.badRequest.isBadRequest {
			handleBadRequest(re)
			return re, false
		}
	}
	re.logger.Debug("Request accepted")
	return re, true
}

// routeLabel keeps path ids out of the metric labels
func routeLabel(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := rctx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return r.URL.Path
}
