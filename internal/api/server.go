package api

import (
	"fmt"
	"log"
	"net/http"

	"hopskip/internal/cache"
	"hopskip/internal/config"
	"hopskip/internal/database"
	"hopskip/internal/external"
	"hopskip/internal/handlers"
	"hopskip/internal/messaging"
	"hopskip/internal/middleware"
	"hopskip/internal/policy"
	"hopskip/internal/repository"
	"hopskip/internal/search"
	"hopskip/internal/service"

	"github.com/gin-gonic/gin"
)

type Server struct {
	router   *gin.Engine
	config   *config.Config
	db       *database.DB
	nats     *messaging.NATSClient
	valkey   *cache.ValkeyClient
	es       *search.ElasticsearchClient
	services *service.Services
	repos    *repository.Repositories
}

func NewServer(cfg *config.Config) *Server {
	gin.SetMode(cfg.GinMode)

	db, err := database.Connect(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := db.RunMigrations(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	natsClient, err := messaging.NewNATSClient(cfg.NATS)
	if err != nil {
		log.Fatalf("Failed to connect to NATS: %v", err)
	}

	esClient, err := search.NewElasticsearchClient(cfg.Elasticsearch)
	if err != nil {
		log.Fatalf("Failed to connect to Elasticsearch: %v", err)
	}

	// The auth cache is optional: without it Basic Auth falls through to the
	// database on every request.
	valkeyClient, err := cache.NewValkeyClient(cfg.Valkey)
	if err != nil {
		log.Printf("Valkey unavailable, auth cache disabled: %v", err)
		valkeyClient = nil
	}

	paymentClient := external.NewPaymentClient(cfg.Payment)
	walletClient := external.NewWalletClient(cfg.Wallet)

	repos := repository.NewRepositories(db, esClient)

	policyEngine := policy.NewEngine(cfg.Policy)
	services := service.NewServices(repos, natsClient, paymentClient, walletClient, policyEngine, cfg.Currency)

	router := gin.New()
	router.Use(middleware.Recovery())
	router.Use(middleware.CORS())
	router.Use(middleware.Logger())
	router.Use(middleware.Metrics())

	server := &Server{
		router:   router,
		config:   cfg,
		db:       db,
		nats:     natsClient,
		valkey:   valkeyClient,
		es:       esClient,
		services: services,
		repos:    repos,
	}

	server.setupRoutes()

	return server
}

func (s *Server) setupRoutes() {
	h := handlers.NewHandlers(s.services)

	api := s.router.Group("/api")
	api.Use(middleware.BasicAuth(s.repos.Users, s.valkey))
	{
		activities := api.Group("/activities")
		{
			activities.GET("", h.SearchActivities)
			activities.GET("/:id", h.GetActivity)
		}

		bookings := api.Group("/bookings")
		{
			bookings.GET("", h.ListBookings)
			bookings.GET("/:id", h.GetBooking)
			bookings.GET("/:id/cancellation", h.PreviewCancellation)
			bookings.PATCH("/initiatePayment", h.InitiatePayment)
			bookings.PATCH("/cancel", h.CancelBooking)
			bookings.PATCH("/reschedule", h.RescheduleBooking)
			bookings.PATCH("/amend", h.AmendBooking)
		}

		wizards := api.Group("/wizards")
		{
			wizards.POST("", h.StartWizard)
			wizards.GET("/:id", h.GetWizard)
			wizards.PATCH("/field", h.SetWizardField)
			wizards.PATCH("/next", h.WizardNext)
			wizards.PATCH("/previous", h.WizardPrevious)
			wizards.PATCH("/jump", h.WizardJump)
			wizards.POST("/submit", h.SubmitWizard)
		}
	}

	// Gateway webhook is authenticated by its token scheme, not Basic Auth.
	s.router.POST("/api/payments/notifications", h.PaymentNotification)

	s.router.GET("/health", s.healthCheck)
	s.router.GET("/metrics", middleware.MetricsHandler())
}

func (s *Server) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "hopskip-api",
		"version": "1.0.0",
	})
}

func (s *Server) Run() error {
	addr := fmt.Sprintf(":%s", s.config.Port)
	return s.router.Run(addr)
}

// GetRouter exposes the router for tests.
func (s *Server) GetRouter() *gin.Engine {
	return s.router
}

func (s *Server) Cleanup() error {
	if s.nats != nil {
		if err := s.nats.Close(); err != nil {
			log.Printf("Error closing NATS connection: %v", err)
		}
	}

	if s.valkey != nil {
		if err := s.valkey.Close(); err != nil {
			log.Printf("Error closing Valkey connection: %v", err)
		}
	}

	if s.db != nil {
		if err := s.db.Close(); err != nil {
			log.Printf("Error closing database connection: %v", err)
			return err
		}
	}

	return nil
}
