// Package api exposes the editorial services over HTTP.
package api

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"newsroom/internal/service"
)

type Server struct {
	router *gin.Engine
	port   int
	server *http.Server
}

func NewServer(
	port int,
	registry *service.Registry,
	content *service.Content,
	review *service.Review,
	identity service.IdentityProvider,
	logger *slog.Logger,
) *Server {
	router := gin.Default()

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	handler := NewHandler(registry, content, review, identity, logger)

	api := router.Group("/api")
	{
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "healthy"})
		})

		auth := api.Group("/auth")
		{
			auth.POST("/register", handler.Register)
			auth.POST("/login", handler.Login)
		}

		articles := api.Group("/articles")
		{
			articles.GET("", handler.ListArticles)
			articles.GET("/top", handler.ListTopArticles)
			articles.GET("/:id", handler.GetArticle)
			articles.POST("", handler.requireActor, handler.PublishArticle)
			articles.PUT("/:id", handler.requireActor, handler.EditArticle)
			articles.DELETE("/:id", handler.requireActor, handler.DeleteArticle)
			articles.POST("/:id/like", handler.requireActor, handler.LikeArticle)
		}

		accounts := api.Group("/accounts", handler.requireActor)
		{
			accounts.GET("/pending", handler.ListPendingAccounts)
			accounts.POST("/:id/approve", handler.ApproveAccount)
		}

		reviews := api.Group("/review", handler.requireActor)
		{
			reviews.POST("/analyze", handler.AnalyzeText)
			reviews.POST("/summarize", handler.SummarizeText)
			reviews.POST("/verify", handler.VerifyClaim)
		}
	}

	return &Server{
		router: router,
		port:   port,
	}
}

func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", s.port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s.server.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}
