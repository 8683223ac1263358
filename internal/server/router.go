package server

import (
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/yusufkecer/fittracker-backend/internal/config"
	"github.com/yusufkecer/fittracker-backend/internal/handler"
	"github.com/yusufkecer/fittracker-backend/internal/middleware"
	"github.com/yusufkecer/fittracker-backend/internal/nutrition"
	"github.com/yusufkecer/fittracker-backend/internal/repository"
	"go.uber.org/zap"
)

// Server is the HTTP API. It owns the handlers so background work can be
// drained on shutdown.
type Server struct {
	handler http.Handler
	auth    *handler.AuthHandler
}

func New(cfg *config.Config, database *sql.DB, mailer handler.Mailer, logger *zap.Logger) (*Server, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, fmt.Errorf("failed to load timezone: %w", err)
	}

	accountRepo := repository.NewAccountRepository(database)
	profileRepo := repository.NewProfileRepository(database)
	workoutRepo := repository.NewWorkoutRepository(database)
	mealRepo := repository.NewMealRepository(database)
	resetCodeRepo := repository.NewResetCodeRepository(database)
	catalog := nutrition.DefaultCatalog()

	authHandler := handler.NewAuthHandler(cfg.JWTSecret, cfg.TokenTTL, accountRepo, resetCodeRepo, mailer, logger)
	profileHandler := handler.NewProfileHandler(profileRepo, accountRepo, workoutRepo, mealRepo, loc, logger)
	workoutHandler := handler.NewWorkoutHandler(workoutRepo, loc, logger)
	mealHandler := handler.NewMealHandler(mealRepo, catalog, loc, logger)
	foodHandler := handler.NewFoodHandler(catalog)
	calculatorHandler := handler.NewCalculatorHandler()

	loginRL := middleware.NewRateLimiter(5, 15*time.Minute)
	forgotPasswordRL := middleware.NewRateLimiter(3, 60*time.Minute)
	resetPasswordRL := middleware.NewRateLimiter(5, 15*time.Minute)

	r := mux.NewRouter()

	// Runs inside the request logger and recoverer added below, outermost
	// first: CORS, security headers, body size limit.
	r.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))
	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.MaxBodyBytes(cfg.MaxBodyBytes))

	r.HandleFunc("/api/v1/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods(http.MethodGet, http.MethodOptions)

	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(middleware.APIKeyMiddleware(cfg.APIKey))

	api.Handle("/auth/register", http.HandlerFunc(authHandler.Register)).Methods(http.MethodPost, http.MethodOptions)
	api.Handle("/auth/login", loginRL.Middleware(http.HandlerFunc(authHandler.Login))).Methods(http.MethodPost, http.MethodOptions)
	api.Handle("/auth/forgot-password", forgotPasswordRL.Middleware(http.HandlerFunc(authHandler.ForgotPassword))).Methods(http.MethodPost, http.MethodOptions)
	api.Handle("/auth/reset-password", resetPasswordRL.Middleware(http.HandlerFunc(authHandler.ResetPassword))).Methods(http.MethodPost, http.MethodOptions)

	protected := api.NewRoute().Subrouter()
	protected.Use(middleware.AuthMiddleware(cfg.JWTSecret))

	protected.HandleFunc("/me/profile", profileHandler.Get).Methods(http.MethodGet, http.MethodOptions)
	protected.HandleFunc("/me/profile", profileHandler.Update).Methods(http.MethodPatch, http.MethodOptions)
	protected.HandleFunc("/me/profile/picture", profileHandler.UpdatePicture).Methods(http.MethodPut, http.MethodOptions)
	protected.HandleFunc("/me/profile/color", profileHandler.UpdateColor).Methods(http.MethodPut, http.MethodOptions)
	protected.HandleFunc("/me/stats", profileHandler.Stats).Methods(http.MethodGet, http.MethodOptions)
	protected.HandleFunc("/me/targets", profileHandler.Targets).Methods(http.MethodGet, http.MethodOptions)

	protected.HandleFunc("/workouts/categories", workoutHandler.Categories).Methods(http.MethodGet, http.MethodOptions)
	protected.HandleFunc("/workouts", workoutHandler.Create).Methods(http.MethodPost, http.MethodOptions)
	protected.HandleFunc("/workouts", workoutHandler.List).Methods(http.MethodGet, http.MethodOptions)
	protected.HandleFunc("/workouts/{id}", workoutHandler.Get).Methods(http.MethodGet, http.MethodOptions)
	protected.HandleFunc("/workouts/{id}", workoutHandler.Delete).Methods(http.MethodDelete, http.MethodOptions)

	protected.HandleFunc("/foods", foodHandler.Search).Methods(http.MethodGet, http.MethodOptions)
	protected.HandleFunc("/meal-types", mealHandler.Types).Methods(http.MethodGet, http.MethodOptions)
	protected.HandleFunc("/meals/summary", mealHandler.Summary).Methods(http.MethodGet, http.MethodOptions)
	protected.HandleFunc("/meals", mealHandler.Create).Methods(http.MethodPost, http.MethodOptions)
	protected.HandleFunc("/meals", mealHandler.List).Methods(http.MethodGet, http.MethodOptions)
	protected.HandleFunc("/meals/{id}", mealHandler.Delete).Methods(http.MethodDelete, http.MethodOptions)

	protected.HandleFunc("/calculator", calculatorHandler.Calculate).Methods(http.MethodPost, http.MethodOptions)
	protected.HandleFunc("/calculator/options", calculatorHandler.Options).Methods(http.MethodGet, http.MethodOptions)

	var h http.Handler = r
	h = middleware.Recoverer(logger)(h)
	h = middleware.RequestLogger(logger)(h)

	return &Server{handler: h, auth: authHandler}, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

// Drain waits for queued password reset mail to finish.
func (s *Server) Drain() {
	s.auth.Wait()
}
