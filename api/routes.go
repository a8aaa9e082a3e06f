package api

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/openhire/jobboard/internal/config"
	"github.com/openhire/jobboard/internal/db"
	"github.com/openhire/jobboard/internal/repository/sqlite"
	"github.com/openhire/jobboard/internal/upload"
	"github.com/openhire/jobboard/internal/validate"
)

func SetupRoutes(cfg *config.Config, version, buildTime string, db *db.DB, store *upload.Store, validator *validate.Validator) *mux.Router {
	r := mux.NewRouter()

	// Middleware chain
	r.Use(LoggingMiddleware)
	r.Use(CORSMiddleware)
	r.Use(RecoveryMiddleware)

	SetDebug(!cfg.Production)

	// Repository
	repo := sqlite.New(db)

	// Create handlers
	systemHandler := &SystemHandler{}
	authHandler := NewAuthHandler(repo, validator, cfg.JWTSecret, cfg.TokenDuration)
	jobsHandler := NewJobsHandler(repo, validator)
	appsHandler := NewApplicationsHandler(repo, repo, store, cfg.MaxUploadBytes)
	usersHandler := NewUsersHandler(repo)

	// Open endpoints
	r.HandleFunc("/version", systemHandler.VersionHandler(version, buildTime)).Methods("GET")
	r.HandleFunc("/health", systemHandler.HealthHandler).Methods("GET")

	apiRouter := r.PathPrefix("/api").Subrouter()
	apiRouter.HandleFunc("/auth/register", authHandler.Register).Methods("POST")
	apiRouter.HandleFunc("/auth/login", authHandler.Login).Methods("POST")
	apiRouter.HandleFunc("/jobs", jobsHandler.List).Methods("GET")
	apiRouter.HandleFunc("/jobs/{id:[0-9]+}", jobsHandler.Get).Methods("GET")

	// Authenticated routes
	authed := apiRouter.NewRoute().Subrouter()
	authed.Use(AuthMiddleware(cfg.JWTSecret))
	authed.HandleFunc("/jobs/{id:[0-9]+}/apply", appsHandler.Apply).Methods("POST")
	authed.HandleFunc("/jobs/user/applications", appsHandler.ListMine).Methods("GET")

	// Admin routes
	admin := apiRouter.NewRoute().Subrouter()
	admin.Use(AuthMiddleware(cfg.JWTSecret), RequireAdmin)
	admin.HandleFunc("/jobs", jobsHandler.Create).Methods("POST")
	admin.HandleFunc("/jobs/admin/all", jobsHandler.AdminAll).Methods("GET")
	admin.HandleFunc("/jobs/admin/all-applications", appsHandler.ListAll).Methods("GET")
	admin.HandleFunc("/jobs/{id:[0-9]+}", jobsHandler.Update).Methods("PUT")
	admin.HandleFunc("/jobs/{id:[0-9]+}", jobsHandler.Archive).Methods("DELETE")
	admin.HandleFunc("/jobs/{id:[0-9]+}/applications", appsHandler.ListForJob).Methods("GET")
	admin.HandleFunc("/jobs/applications/{appId:[0-9]+}", appsHandler.UpdateStatus).Methods("PUT")
	admin.HandleFunc("/users", usersHandler.List).Methods("GET")
	admin.HandleFunc("/users/{id:[0-9]+}/promote", usersHandler.Promote).Methods("PUT")

	// Uploaded CVs are served statically
	r.PathPrefix("/uploads/").Handler(http.StripPrefix("/uploads/", http.FileServer(http.Dir(store.Dir()))))

	return r
}
