package app

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"adopet-api/internal/auth"
	"adopet-api/internal/db"
	"adopet-api/internal/observability"
	"adopet-api/internal/pet"
)

const defaultJWTSecret = "adopet-secret-key-2024"

type Options struct {
	LoadDotEnv    bool
	RunMigrations bool
}

type Runtime struct {
	Handler http.Handler
	Close   func() error
}

// Build wires the whole application. The default STORE_DRIVER is "memory":
// the demo data lives in process and resets on restart. STORE_DRIVER=postgres
// switches both stores to the database behind DATABASE_URL.
func Build(options Options) (*Runtime, error) {
	if options.LoadDotEnv {
		_ = godotenv.Load()
	}

	logger := observability.NewLogger()

	jwtSecret := envOrDefault("JWT_SECRET", defaultJWTSecret)
	if jwtSecret == defaultJWTSecret {
		logger.Warn("jwt_secret_default", map[string]any{"hint": "set JWT_SECRET in production"})
	}

	if err := observability.InitSentry(os.Getenv("SENTRY_DSN"), envOrDefault("APP_ENV", "development")); err != nil {
		logger.Error("init_sentry_failed", map[string]any{"error": err.Error()})
	}

	var (
		database  *sql.DB
		userStore auth.UserStore
		petStore  pet.PetStore
	)

	switch driver := envOrDefault("STORE_DRIVER", "memory"); driver {
	case "memory":
		userStore = auth.NewMemoryUserStore(auth.SeedUsers())
		petStore = pet.NewMemoryPetStore(pet.SeedPets())
		logger.Info("store_memory_seeded", map[string]any{
			"users": len(auth.SeedUsers()),
			"pets":  len(pet.SeedPets()),
		})
	case "postgres":
		databaseURL, err := mustEnv("DATABASE_URL")
		if err != nil {
			return nil, err
		}

		database, err = sql.Open("pgx", databaseURL)
		if err != nil {
			return nil, fmt.Errorf("open database: %w", err)
		}

		database.SetMaxOpenConns(envIntOrDefault("DB_MAX_OPEN_CONNS", 10))
		database.SetMaxIdleConns(envIntOrDefault("DB_MAX_IDLE_CONNS", 5))
		database.SetConnMaxLifetime(envMinutesOrDefault("DB_CONN_MAX_LIFETIME_MINUTES", 30))
		database.SetConnMaxIdleTime(envMinutesOrDefault("DB_CONN_MAX_IDLE_TIME_MINUTES", 10))

		if err := database.Ping(); err != nil {
			_ = database.Close()
			return nil, fmt.Errorf("ping database: %w", err)
		}

		if options.RunMigrations {
			if err := db.RunMigrations(database); err != nil {
				_ = database.Close()
				return nil, fmt.Errorf("run migrations: %w", err)
			}
		}

		userStore = auth.NewSQLUserStore(database)
		petStore = pet.NewSQLPetStore(database)
	default:
		return nil, fmt.Errorf("unknown STORE_DRIVER: %s", driver)
	}

	lockout := auth.NewLockout(userStore)
	authService := auth.NewService(userStore, lockout, jwtSecret)
	authHandler := auth.NewHandler(authService)
	petHandler := pet.NewHandler(petStore)

	loginLimiter := auth.NewLoginRateLimiter(
		envIntOrDefault("LOGIN_RATE_LIMIT_MAX", 10),
		envSecondsOrDefault("LOGIN_RATE_LIMIT_WINDOW_SECONDS", 60),
	)

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/auth/register", authHandler.Register)
	mux.Handle("POST /api/auth/login", loginLimiter.Middleware(http.HandlerFunc(authHandler.Login)))
	mux.HandleFunc("POST /api/auth/reset-password", authHandler.ResetPassword)
	mux.HandleFunc("GET /api/pets", petHandler.ListPets)
	mux.HandleFunc("GET /api/pets/search", petHandler.SearchPets)
	mux.HandleFunc("GET /api/pets/{id}", petHandler.GetPet)
	mux.Handle("POST /api/pets/adopt", auth.Middleware(jwtSecret, http.HandlerFunc(petHandler.AdoptPet)))
	mux.Handle("GET /api/pets/home", auth.Middleware(jwtSecret, http.HandlerFunc(petHandler.Home)))
	mux.HandleFunc("GET /health", healthHandler(database))

	handler := observability.RecoverMiddleware(logger, observability.RequestLoggingMiddleware(logger, mux))

	return &Runtime{
		Handler: handler,
		Close: func() error {
			observability.FlushSentry()
			if database != nil {
				return database.Close()
			}
			return nil
		},
	}, nil
}

func healthHandler(database *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := http.StatusOK
		body := map[string]any{"status": "ok", "time": time.Now().UTC().Format(time.RFC3339)}

		if database != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := database.PingContext(ctx); err != nil {
				status = http.StatusServiceUnavailable
				body = map[string]any{"status": "degraded", "time": time.Now().UTC().Format(time.RFC3339)}
			}
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(body)
	}
}

func mustEnv(name string) (string, error) {
	value := strings.TrimSpace(os.Getenv(name))
	if value == "" {
		return "", fmt.Errorf("missing required env: %s", name)
	}
	return value, nil
}

func envOrDefault(name, fallback string) string {
	value := strings.TrimSpace(os.Getenv(name))
	if value == "" {
		return fallback
	}
	return value
}

func envIntOrDefault(name string, fallback int) int {
	value := strings.TrimSpace(os.Getenv(name))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil || parsed <= 0 {
		return fallback
	}
	return parsed
}

func envMinutesOrDefault(name string, fallback int) time.Duration {
	return time.Duration(envIntOrDefault(name, fallback)) * time.Minute
}

func envSecondsOrDefault(name string, fallback int) time.Duration {
	return time.Duration(envIntOrDefault(name, fallback)) * time.Second
}

func EnvBoolOrDefault(name string, fallback bool) bool {
	value := strings.TrimSpace(strings.ToLower(os.Getenv(name)))
	if value == "" {
		return fallback
	}

	switch value {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return fallback
	}
}
