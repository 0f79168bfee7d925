package middleware

import (
	"net/http"
	"strconv"
	"strings"
)

// Headers the storefront frontend sends alongside requests. X-User-ID and
// X-User-Role come from the identity gateway, X-Correlation-ID from the
// request logger.
var (
	defaultAllowedMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	defaultAllowedHeaders = []string{"Accept", "Authorization", "Content-Type", "X-Correlation-ID", "X-User-ID", "X-User-Role"}
)

// CORSConfig holds configuration for the CORS middleware.
type CORSConfig struct {
	// AllowedOrigins lists the origins the storefront frontend is served
	// from. A "*" entry allows every origin.
	AllowedOrigins []string

	// AllowedMethods defaults to GET, POST, PUT, PATCH, DELETE, OPTIONS.
	AllowedMethods []string

	// AllowedHeaders defaults to the headers the frontend actually sends.
	AllowedHeaders []string

	// ExposedHeaders lists response headers the browser may read.
	ExposedHeaders []string

	// MaxAge is the preflight cache lifetime in seconds. Defaults to 3600.
	MaxAge int

	// AllowCredentials enables cookies and auth headers in cross-origin calls.
	AllowCredentials bool

	// Environment relaxes origin checks: in "development" every origin is
	// accepted regardless of AllowedOrigins.
	Environment string
}

// DefaultCORSConfig returns the development configuration: any origin, the
// standard method and header lists, and a one hour preflight cache.
func DefaultCORSConfig() CORSConfig {
	return CORSConfig{
		AllowedOrigins: []string{"*"},
		AllowedMethods: defaultAllowedMethods,
		AllowedHeaders: defaultAllowedHeaders,
		ExposedHeaders: []string{"X-Correlation-ID"},
		MaxAge:         3600,
		Environment:    "development",
	}
}

// cors holds the header values precomputed once at middleware construction.
type cors struct {
	allowWildcard bool
	originSet     map[string]struct{}
	methods       string
	headers       string
	exposed       string
	maxAge        string
	credentials   bool
}

// CORS answers preflight requests and stamps CORS headers on every response
// based on cfg.
func CORS(cfg CORSConfig) func(http.Handler) http.Handler {
	if len(cfg.AllowedMethods) == 0 {
		cfg.AllowedMethods = defaultAllowedMethods
	}
	if len(cfg.AllowedHeaders) == 0 {
		cfg.AllowedHeaders = defaultAllowedHeaders
	}
	if cfg.MaxAge == 0 {
		cfg.MaxAge = 3600
	}

	c := cors{
		allowWildcard: cfg.Environment == "development",
		originSet:     make(map[string]struct{}, len(cfg.AllowedOrigins)),
		methods:       strings.Join(cfg.AllowedMethods, ", "),
		headers:       strings.Join(cfg.AllowedHeaders, ", "),
		exposed:       strings.Join(cfg.ExposedHeaders, ", "),
		maxAge:        strconv.Itoa(cfg.MaxAge),
		credentials:   cfg.AllowCredentials,
	}
	for _, o := range cfg.AllowedOrigins {
		if o == "*" {
			c.allowWildcard = true
		}
		c.originSet[o] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			c.stampHeaders(w, r.Header.Get("Origin"))

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func (c cors) stampHeaders(w http.ResponseWriter, origin string) {
	switch {
	case c.allowWildcard:
		w.Header().Set("Access-Control-Allow-Origin", "*")
	case origin != "":
		if _, ok := c.originSet[origin]; ok {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Vary", "Origin")
		}
	}

	w.Header().Set("Access-Control-Allow-Methods", c.methods)
	w.Header().Set("Access-Control-Allow-Headers", c.headers)
	if c.exposed != "" {
		w.Header().Set("Access-Control-Expose-Headers", c.exposed)
	}
	w.Header().Set("Access-Control-Max-Age", c.maxAge)

	if c.credentials {
		w.Header().Set("Access-Control-Allow-Credentials", "true")
	}
}
