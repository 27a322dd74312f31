package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"golang.org/x/time/rate"

	"Timber/internal/app"
	"Timber/internal/auth"
	"Timber/internal/calc"
	"Timber/internal/calc/batch"
	"Timber/internal/calc/beam"
	"Timber/internal/calc/building"
	"Timber/internal/calc/column"
	"Timber/internal/calc/importer"
	"Timber/internal/calc/joist"
	"Timber/internal/calc/report"
	"Timber/internal/config"
	"Timber/internal/designs"
	"Timber/internal/repo"
)

var wg sync.WaitGroup

func CORS(mux *mux.Router) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		mux.ServeHTTP(w, r)
	})
}

// HandleList registers the sizing tools and, when a database is available,
// the account and saved design routes.
func HandleList(mux *mux.Router, cfg config.Config, env *calc.Env, db *sql.DB) {
	limiter := auth.NewIPRateLimiter(rate.Limit(cfg.RateLimitRPS), cfg.RateLimitBurst)

	api := mux.PathPrefix("/api").Subrouter()
	api.Use(limiter.LimitMiddleware)

	api.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	}).Methods("GET")

	joistH := &joist.Handler{Env: env}
	beamH := &beam.Handler{Env: env}
	columnH := &column.Handler{Env: env}
	buildingH := &building.Handler{Env: env}
	batchH := &batch.Handler{Env: env}
	importH := &importer.Handler{Env: env}
	reportH := &report.Handler{Env: env}

	api.HandleFunc("/tools/joist/calc", joistH.Calc).Methods("POST")
	api.HandleFunc("/tools/beam/calc", beamH.Calc).Methods("POST")
	api.HandleFunc("/tools/column/calc", columnH.Calc).Methods("POST")
	api.HandleFunc("/tools/building/calc", buildingH.Calc).Methods("POST")
	api.HandleFunc("/tools/batch/calc", batchH.Calc).Methods("POST")
	api.HandleFunc("/tools/import/members", importH.Members).Methods("POST")
	api.HandleFunc("/tools/report/pdf", reportH.Generate).Methods("POST")

	if db == nil {
		log.Println("warning: DATABASE_URL not set, account and design routes disabled")
		return
	}

	userRepo := repo.NewPostgresUserDB(db)
	authEnv := &auth.Authenv{JWTkey: []byte(cfg.TokenKey), Repo: userRepo, Insecure: cfg.TLSCert == ""}
	designsH := &designs.Handler{Repo: userRepo, Env: env}

	api.HandleFunc("/login", authEnv.AuthHandler).Methods("POST")
	api.HandleFunc("/register", authEnv.RegisterHandler).Methods("POST")

	secureApi := api.PathPrefix("/user").Subrouter()
	secureApi.Use(authEnv.AuthMiddleware)

	secureApi.HandleFunc("/designs", designsH.List).Methods("GET")
	secureApi.HandleFunc("/designs", designsH.Save).Methods("POST")
	secureApi.HandleFunc("/designs/{id:[0-9]+}", designsH.Get).Methods("GET")
	secureApi.HandleFunc("/designs/{id:[0-9]+}", designsH.Delete).Methods("DELETE")
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	var db *sql.DB
	var store app.TableStore
	if cfg.DatabaseURL != "" {
		if cfg.TokenKey == "" {
			log.Fatal("TOKEN_KEY environment variable is not set")
		}
		db, err = auth.InitDB(cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("database: %v", err)
		}
		defer db.Close()
		if err := repo.Migrate(ctx, db); err != nil {
			log.Fatalf("database: %v", err)
		}
		store = repo.NewPostgresUserDB(db)
	}

	tables, scope, err := app.Tables(ctx, cfg, store)
	if err != nil {
		log.Fatalf("tables: %v", err)
	}
	env := app.Env(tables, scope, cfg, app.Cache(ctx, cfg))

	router := mux.NewRouter()
	HandleList(router, cfg, env, db)

	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           CORS(router),
		ReadHeaderTimeout: 10 * time.Second,
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		log.Printf("Starting server on %s", cfg.Addr)
		var err error
		if cfg.TLSCert != "" {
			err = server.ListenAndServeTLS(cfg.TLSCert, cfg.TLSKey)
		} else {
			err = server.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("Server error: %v", err)
			cancel()
		}
	}()

	<-ctx.Done()
	log.Println("Shutdown signal received, closing active connections")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("shutdown: %v", err)
	}
	if closer, ok := env.Cache.(interface{ Close() error }); ok {
		closer.Close()
	}
	log.Println("Server stopped")

	wg.Wait()
}
