package server

import (
	"strings"

	"dream-journal/auth"
	"dream-journal/confs"
	"dream-journal/db"
	"dream-journal/handlers"
	httpHandler "dream-journal/handlers/http"
	"dream-journal/repositories"
	"dream-journal/usecases"
	"dream-journal/ws"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type Server struct {
	app *gin.Engine
	db  db.Database
	cfg *confs.Config
}

func NewServer(database db.Database, cfg *confs.Config) *Server {
	s := &Server{
		app: gin.Default(),
		db:  database,
		cfg: cfg,
	}
	s.setup()
	return s
}

func (s *Server) Start() {
	if err := s.app.Run("0.0.0.0:" + s.cfg.Port); err != nil {
		panic(err)
	}
}

// Engine exposes the configured router; handler tests drive it directly.
func (s *Server) Engine() *gin.Engine {
	return s.app
}

func (s *Server) setup() {
	// Setup CORS middleware
	config := cors.DefaultConfig()
	if s.cfg.AllowedOrigins != "" {
		config.AllowOrigins = strings.Split(s.cfg.AllowedOrigins, ",")
	} else {
		config.AllowAllOrigins = true
	}
	config.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	config.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	config.AllowCredentials = !config.AllowAllOrigins
	s.app.Use(cors.New(config))

	// Setup healthcheck route
	s.app.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status": "OK",
		})
	})

	// Initialize repositories
	userRepo := repositories.NewUserPgRepository(s.db)
	dreamRepo := repositories.NewDreamPgRepository(s.db)
	interpretationRepo := repositories.NewInterpretationPgRepository(s.db)

	// Token service and websocket manager
	tokens := auth.NewTokenService(s.cfg.JWTSecret, s.cfg.JWTExpire)
	manager := ws.NewManager()

	// Initialize use cases
	authUseCase := usecases.NewAuthUseCase(userRepo, tokens)
	dreamUseCase := usecases.NewDreamUseCase(dreamRepo, manager)
	interpretationUseCase := usecases.NewInterpretationUseCase(interpretationRepo)

	// Initialize handlers
	authHandler := httpHandler.NewAuthHandler(authUseCase)
	dreamHandler := httpHandler.NewDreamHandler(dreamUseCase)
	interpretationHandler := httpHandler.NewInterpretationHandler(interpretationUseCase)
	wsHandler := handlers.NewWSHandler(manager, tokens, userRepo)

	authMW := httpHandler.NewAuthMiddleware(tokens, userRepo)

	// Setup API routes
	api := s.app.Group("/api/v1")
	{
		// Auth routes
		authGroup := api.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
			authGroup.GET("/me", authMW.Protect(), authHandler.Me)
			authGroup.GET("/logout", authMW.Protect(), authHandler.Logout)
		}

		// Dream routes
		dreams := api.Group("/dreams", authMW.Protect())
		{
			dreams.GET("", dreamHandler.ListDreams)
			dreams.POST("", dreamHandler.CreateDream)
			dreams.GET("/stats", dreamHandler.GetStats)
			dreams.GET("/:id", dreamHandler.GetDream)
			dreams.PUT("/:id", dreamHandler.UpdateDream)
			dreams.DELETE("/:id", dreamHandler.DeleteDream)
		}

		api.GET("/ws/clients", authMW.Protect(), authMW.Authorize("admin"), wsHandler.HandleListClients)

		// Interpretation routes
		interpretations := api.Group("/interpretations")
		{
			interpretations.GET("/random", interpretationHandler.GetRandom)
			interpretations.GET("", authMW.Protect(), authMW.Authorize("admin"), interpretationHandler.ListInterpretations)
			interpretations.POST("", authMW.Protect(), authMW.Authorize("admin"), interpretationHandler.CreateInterpretation)
		}
	}

	s.app.GET("/ws", wsHandler.HandleEventsWS)
}
