package api

import (
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/vikasavnish/flowguide/internal/handlers"
	"github.com/vikasavnish/flowguide/internal/middleware"
	"github.com/vikasavnish/flowguide/internal/netsim"
	"github.com/vikasavnish/flowguide/internal/services"
	"github.com/vikasavnish/flowguide/internal/store"
	"github.com/vikasavnish/flowguide/internal/tasks"
	"github.com/vikasavnish/flowguide/internal/websocket"
)

// Dependencies are the long-lived components the router hands to handlers.
type Dependencies struct {
	Store    *store.Store
	Network  *netsim.Network
	Services *services.Services
	Auth     services.AuthService
	Hub      *websocket.Hub
	Tasks    *tasks.Manager
	Calls    handlers.CallPlacer
	Rates    handlers.RateFetcher
	Logger   *zap.Logger
}

// SetupRouter configures all routes and returns the router
func SetupRouter(deps Dependencies) *mux.Router {
	logger := deps.Logger
	if logger == nil {
		logger = zap.L()
	}

	router := mux.NewRouter()
	router.Use(middleware.LoggingMiddleware(logger))

	router.HandleFunc("/api/health", HealthHandler).Methods("GET")
	if deps.Hub != nil {
		router.HandleFunc("/ws", deps.Hub.HandleWebSocket).Methods("GET")
	}
	if deps.Calls != nil {
		handlers.NewCallHandler(deps.Calls).RegisterRoutes(router)
	}

	svc := deps.Services
	authHandler := handlers.NewAuthHandler(deps.Auth)

	// Public endpoints
	router.HandleFunc("/api/login", authHandler.Login).Methods("POST")

	apiRouter := router.PathPrefix("/api").Subrouter()
	authRouter := apiRouter.PathPrefix("").Subrouter()
	authRouter.Use(middleware.AuthMiddleware(deps.Auth))

	authHandler.RegisterRoutes(authRouter)
	handlers.NewProfileHandler(svc.Profiles).RegisterRoutes(authRouter)
	handlers.NewTransactionHandler(svc.Transactions, svc.Ownership).RegisterRoutes(authRouter)
	handlers.NewBillHandler(svc.Bills, svc.Ownership).RegisterRoutes(authRouter)
	handlers.NewGoalHandler(svc.Goals, svc.Ownership).RegisterRoutes(authRouter)
	handlers.NewFamilyMemberHandler(svc.Family, svc.Ownership).RegisterRoutes(authRouter)
	handlers.NewInvestmentHandler(svc.Investments, svc.Ownership).RegisterRoutes(authRouter)
	handlers.NewAlertHandler(svc.Alerts, svc.Ownership).RegisterRoutes(authRouter)
	handlers.NewHistoryHandler(svc.History, svc.Planner).RegisterRoutes(authRouter)
	handlers.NewReportHandler(svc.Reports, svc.Planner, svc.Ownership).RegisterRoutes(authRouter)
	handlers.NewAdminHandler(deps.Store, deps.Network).RegisterRoutes(authRouter)

	if deps.Rates != nil {
		handlers.NewCurrencyHandler(deps.Rates).RegisterRoutes(authRouter)
	}
	if deps.Tasks != nil {
		handlers.NewTaskHandler(deps.Tasks).RegisterRoutes(authRouter)
	}

	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":"Not found"}`))
	})

	return router
}

// TokenUser resolves the websocket user from a ?token= query parameter.
// Missing or invalid tokens connect anonymously.
func TokenUser(auth services.AuthService) func(*http.Request) string {
	return func(r *http.Request) string {
		token := strings.TrimSpace(r.URL.Query().Get("token"))
		if token == "" {
			return ""
		}
		claims, err := auth.ParseToken(token)
		if err != nil {
			return ""
		}
		return claims.UserID
	}
}
