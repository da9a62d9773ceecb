package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"
	"github.com/rs/zerolog/log"

	"github.com/you/storefront/internal/shop"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

// Deps are the services the routes are served from.
type Deps struct {
	Orders       *shop.Orders
	Catalog      *shop.Catalog
	Associations *shop.Associations
	Users        *shop.Users
	DB           Pinger

	BodyLimit    int64         // bytes, 0 means unlimited
	QueryTimeout time.Duration // 0 means none
	Logger       zerolog.Logger
}

// NewHandler registers every route and wraps the router in the request
// logging, body limit and timeout middleware.
func NewHandler(d Deps) http.Handler {
	a := &api{Deps: d}
	r := mux.NewRouter()

	r.HandleFunc("/healthz", a.health).Methods(http.MethodGet)

	s := r.PathPrefix("/api").Subrouter()
	s.HandleFunc("/orders", a.createOrder).Methods(http.MethodPost)
	s.HandleFunc("/orders", a.listOrders).Methods(http.MethodGet)
	s.HandleFunc("/orders/{id:[0-9]+}", a.getOrder).Methods(http.MethodGet)

	s.HandleFunc("/products", a.listProducts).Methods(http.MethodGet)
	s.HandleFunc("/products", a.createProduct).Methods(http.MethodPost)
	s.HandleFunc("/products/{id:[0-9]+}", a.getProduct).Methods(http.MethodGet)
	s.HandleFunc("/products/{id:[0-9]+}", a.updateProduct).Methods(http.MethodPut)
	s.HandleFunc("/products/{id:[0-9]+}", a.deleteProduct).Methods(http.MethodDelete)
	s.HandleFunc("/products/{id:[0-9]+}/suggestions", a.suggestions).Methods(http.MethodGet)
	s.HandleFunc("/categories", a.categories).Methods(http.MethodGet)
	s.HandleFunc("/associations", a.associations).Methods(http.MethodGet)

	s.HandleFunc("/users", a.listUsers).Methods(http.MethodGet)
	s.HandleFunc("/users", a.createUser).Methods(http.MethodPost)
	s.HandleFunc("/users/{id:[0-9]+}", a.getUser).Methods(http.MethodGet)
	s.HandleFunc("/users/{id:[0-9]+}", a.updateUser).Methods(http.MethodPut)
	s.HandleFunc("/users/{id:[0-9]+}", a.deleteUser).Methods(http.MethodDelete)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeMessage(w, http.StatusNotFound, "route not found")
	})

	var h http.Handler = r
	h = limits(d.BodyLimit, d.QueryTimeout)(h)
	h = hlog.AccessHandler(accessLog)(h)
	h = requestID(h)
	h = hlog.NewHandler(d.Logger)(h)
	return h
}

// Start serves h on addr in the background and returns the server for
// shutdown.
func Start(addr string, h http.Handler) *http.Server {
	srv := &http.Server{
		Addr:         addr,
		Handler:      h,
		ReadTimeout:  30 * time.Second, // bodies may be up to the body limit
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		log.Info().Str("addr", addr).Msg("http server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server failed")
		}
	}()
	return srv
}

func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)
		l := zerolog.Ctx(r.Context()).With().Str("request_id", id).Logger()
		next.ServeHTTP(w, r.WithContext(l.WithContext(r.Context())))
	})
}

func accessLog(r *http.Request, status, size int, took time.Duration) {
	level := zerolog.InfoLevel
	if status >= http.StatusInternalServerError {
		level = zerolog.WarnLevel
	}
	hlog.FromRequest(r).WithLevel(level).
		Str("method", r.Method).
		Str("path", r.URL.Path).
		Int("status", status).
		Int("size", size).
		Dur("took", took).
		Msg("request")
}

func limits(bodyLimit int64, timeout time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if bodyLimit > 0 && r.Body != nil {
				r.Body = http.MaxBytesReader(w, r.Body, bodyLimit)
			}
			if timeout > 0 {
				ctx, cancel := context.WithTimeout(r.Context(), timeout)
				defer cancel()
				r = r.WithContext(ctx)
			}
			next.ServeHTTP(w, r)
		})
	}
}
