package http

import (
	"crypto/rand"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/context"
	"github.com/gorilla/mux"
)

// AccessLoggingHandler logs general access notes about a request, plus
// sets up an ID in the context for other methods to use for logging.
func AccessLoggingHandler(prefix, idHeader string, handler http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t := time.Now()

		uuid, err := newUUID()
		if err != nil {
			log.Printf("%s Could not generate request UUID", prefix)
			uuid = "x"
		}

		context.Set(r, ContextRequestIDKey, uuid)
		context.Set(r, ContextLogPrefixKey, fmt.Sprintf("%s [req %s]", prefix, uuid))
		if idHeader != "" {
			w.Header().Set(idHeader, uuid)
		}

		l := &responseLogger{w: w}
		handler.ServeHTTP(l, r)

		log.Printf("%s [req %s] [access] %s %s %d %d %v", prefix, uuid,
			r.Method, r.URL.RequestURI(), l.Status(), l.Size(), time.Since(t))
	})
}

// AccessLoggingRouter wraps all Handle calls in an AccessLoggingHandler.
type AccessLoggingRouter struct {
	prefix   string
	idHeader string
	router   *mux.Router
}

// Handle wraps the handler in an AccessLoggingHandler for the router.
func (l *AccessLoggingRouter) Handle(pattern string, handler http.Handler) {
	l.router.Handle(pattern, AccessLoggingHandler(l.prefix, l.idHeader, handler))
}

// NewAccessLoggingRouter wraps the router.
func NewAccessLoggingRouter(prefix, idHeader string, router *mux.Router) *AccessLoggingRouter {
	return &AccessLoggingRouter{prefix: prefix, idHeader: idHeader, router: router}
}

// responseLogger wraps an http.ResponseWriter to capture status and size.
type responseLogger struct {
	w      http.ResponseWriter
	status int
	size   int
}

func (l *responseLogger) Header() http.Header {
	return l.w.Header()
}

func (l *responseLogger) Write(b []byte) (int, error) {
	if l.status == 0 {
		l.status = http.StatusOK
	}
	size, err := l.w.Write(b)
	l.size += size
	return size, err
}

func (l *responseLogger) WriteHeader(s int) {
	l.w.WriteHeader(s)
	l.status = s
}

func (l *responseLogger) Status() int {
	if l.status == 0 {
		return http.StatusOK
	}
	return l.status
}

func (l *responseLogger) Size() int {
	return l.size
}

// newUUID generates a random UUID according to RFC 4122
func newUUID() (string, error) {
	uuid := make([]byte, 16)
	n, err := io.ReadFull(rand.Reader, uuid)
	if n != len(uuid) || err != nil {
		return "", err
	}

	uuid[8] = uuid[8]&^0xc0 | 0x80
	uuid[6] = uuid[6]&^0xf0 | 0x40

	return fmt.Sprintf("%x-%x-%x-%x-%x", uuid[0:4], uuid[4:6], uuid[6:8],
		uuid[8:10], uuid[10:]), nil
}
