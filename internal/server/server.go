package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Casglez3/login-register-backend/internal/config"
	"github.com/Casglez3/login-register-backend/internal/crypto"
	"github.com/Casglez3/login-register-backend/internal/handler"
	"github.com/Casglez3/login-register-backend/internal/middleware"
	"github.com/Casglez3/login-register-backend/internal/repository"
	"github.com/Casglez3/login-register-backend/internal/service"
	"github.com/Casglez3/login-register-backend/internal/token"
)

type Server struct {
	router *gin.Engine
	log    *zap.Logger
}

// NewServer composes the router: repositories, services, handlers and the
// authorization gate are wired here, at startup, not through package state.
func NewServer(userRepo repository.UserRepository, cfg *config.Config, log *zap.Logger) *Server {
	router := gin.Default()
	router.Use(corsMiddleware(cfg.Server.AllowedOrigin))

	s := &Server{
		router: router,
		log:    log,
	}

	s.setupRoutes(userRepo, cfg)

	return s
}

func (s *Server) setupRoutes(userRepo repository.UserRepository, cfg *config.Config) {
	hasher := crypto.NewBcryptHasher()
	tokens := token.NewManager([]byte(cfg.Token.Secret))

	authService := service.NewAuthService(userRepo, hasher, tokens, s.log)
	userService := service.NewUserService(userRepo, hasher, s.log)

	authHandler := handler.NewAuthHandler(authService, s.log)
	userHandler := handler.NewUserHandler(userService, s.log)

	// Probe route to check that the server is up
	s.router.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "Server running!")
	})

	// Authentication routes
	authGroup := s.router.Group("/api/auth")
	authGroup.POST("/register", authHandler.Register)
	authGroup.POST("/login", authHandler.Login)

	// Authenticated routes
	userGroup := s.router.Group("/api/users")
	userGroup.Use(middleware.AuthRequired(tokens, s.log))
	{
		userGroup.GET("/user/:userName", userHandler.GetByUsername)
		userGroup.GET("/:id", userHandler.GetByID)
		userGroup.PUT("/:id", userHandler.Update)
		userGroup.DELETE("/:id", userHandler.Delete)
	}
}

// corsMiddleware allows the configured frontend origin with the four API
// methods and the Content-Type/Authorization headers.
func corsMiddleware(origin string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// Handler exposes the composed router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) Run(addr string) {
	s.log.Info("Server starting", zap.String("addr", addr))
	if err := s.router.Run(addr); err != nil {
		s.log.Fatal("Server failed to start", zap.Error(err))
	}
}
