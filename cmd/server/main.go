package main

import (
	"log"
	"net/http"
	"os"

	"parkhouse/internal/api"
	"parkhouse/internal/auth"
	"parkhouse/internal/config"
	"parkhouse/internal/db"
	"parkhouse/internal/repository"
	"parkhouse/internal/service"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
)

func main() {
	godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	conn, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to DB: %v", err)
	}
	defer conn.Close()

	if err := db.EnsureSchema(conn); err != nil {
		log.Fatalf("Failed to apply schema: %v", err)
	}
	if err := db.SeedAdmin(conn, cfg.AdminUsername, cfg.AdminPassword); err != nil {
		log.Fatalf("Failed to seed admin user: %v", err)
	}

	lotRepo := repository.NewLotRepository(conn)
	spotRepo := repository.NewSpotRepository(conn)
	reservationRepo := repository.NewReservationRepository(conn)
	userRepo := repository.NewUserRepository(conn)

	lotSvc := service.NewLotService(lotRepo, spotRepo, reservationRepo)
	bookingSvc := service.NewBookingService(reservationRepo, userRepo, service.NewNotifyService())
	adminSvc := service.NewAdminService(spotRepo, reservationRepo, userRepo)
	authSvc := service.NewAuthService(userRepo, cfg.JWTSecret)
	jobSvc := service.NewJobService(reservationRepo, cfg.OverstayAfter)

	authHandler := api.NewAuthHandler(authSvc)
	publicHandler := api.NewPublicHandler(lotSvc)
	reservationHandler := api.NewReservationHandler(bookingSvc)
	lotAdminHandler := api.NewLotAdminHandler(lotSvc, adminSvc)

	mw := auth.NewMiddleware(cfg.JWTSecret)

	r := mux.NewRouter()

	// Public endpoints
	r.HandleFunc("/api/register", authHandler.Register).Methods("POST")
	r.HandleFunc("/api/login", authHandler.Login).Methods("POST")
	r.HandleFunc("/api/lots", publicHandler.ListLots).Methods("GET")
	r.HandleFunc("/api/lots/{id:[0-9]+}", publicHandler.LotDetails).Methods("GET")
	r.HandleFunc("/api/spots", publicHandler.ListSpots).Methods("GET")
	r.HandleFunc("/api/spots/{id:[0-9]+}", publicHandler.SpotDetails).Methods("GET")

	// User endpoints (authenticated)
	user := r.PathPrefix("/api").Subrouter()
	user.Use(mw.Authenticate)
	user.HandleFunc("/lots/{id:[0-9]+}/reservations", reservationHandler.Book).Methods("POST")
	user.HandleFunc("/reservations/{id:[0-9]+}/release", reservationHandler.Release).Methods("POST")
	user.HandleFunc("/reservations/active", reservationHandler.Active).Methods("GET")
	user.HandleFunc("/reservations", reservationHandler.History).Methods("GET")

	// Admin endpoints (protected)
	admin := r.PathPrefix("/admin").Subrouter()
	admin.Use(mw.Authenticate, mw.AdminOnly)
	admin.HandleFunc("/lots", lotAdminHandler.CreateLot).Methods("POST")
	admin.HandleFunc("/lots/{id:[0-9]+}", lotAdminHandler.UpdateLot).Methods("PUT")
	admin.HandleFunc("/lots/{id:[0-9]+}", lotAdminHandler.DeleteLot).Methods("DELETE")
	admin.HandleFunc("/lots/{id:[0-9]+}/spots", lotAdminHandler.LotSpots).Methods("GET")
	admin.HandleFunc("/dashboard", lotAdminHandler.Dashboard).Methods("GET")
	admin.HandleFunc("/spots/search", lotAdminHandler.SearchSpots).Methods("GET")
	admin.HandleFunc("/users", lotAdminHandler.ListUsers).Methods("GET")

	c := cron.New()
	if _, err := c.AddFunc(cfg.SweepSchedule, func() {
		if err := jobSvc.ReportOverstays(); err != nil {
			log.Printf("Overstay sweep failed: %v", err)
		}
	}); err != nil {
		log.Fatalf("Failed to schedule overstay sweep: %v", err)
	}
	c.Start()
	defer c.Stop()

	cors := handlers.CORS(
		handlers.AllowedOrigins(cfg.AllowedOrigins),
		handlers.AllowedMethods([]string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
		handlers.AllowedHeaders([]string{"Authorization", "Content-Type"}),
	)

	log.Printf("Server running on port %s", cfg.Port)
	log.Fatal(http.ListenAndServe(":"+cfg.Port, handlers.LoggingHandler(os.Stdout, cors(r))))
}
