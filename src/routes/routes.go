package routes

import (
	"github.com/gin-gonic/gin"

	"insights-api/src/domain"
	"insights-api/src/interface/handler"
	"insights-api/src/middleware"
	"insights-api/src/service"
)

// Handlers bundles every HTTP handler the router wires up
type Handlers struct {
	Article    *handler.ArticleHandler
	Auth       *handler.AuthHandler
	Newsletter *handler.NewsletterHandler
	Upload     *handler.UploadHandler
}

// SetupRoutes sets up all API routes
func SetupRoutes(r *gin.Engine, h Handlers, jwtService service.JWTService, userRepo domain.UserRepository) {
	api := r.Group("/api")

	authRequired := middleware.AuthMiddleware(jwtService, userRepo)
	staffOnly := middleware.RequireRole(domain.RoleEditor, domain.RoleAdmin)

	// auth: account and session management
	auth := api.Group("/auth")
	{
		auth.POST("/register", h.Auth.Register)
		auth.POST("/login", h.Auth.Login)
		auth.POST("/refresh", h.Auth.RefreshToken)
		auth.POST("/password-reset", h.Auth.RequestPasswordReset)
		auth.POST("/password-reset/confirm", h.Auth.ResetPassword)

		auth.GET("/profile", authRequired, h.Auth.GetProfile)
		auth.PUT("/profile", authRequired, h.Auth.UpdateProfile)
	}

	// articles: reads are public, writes require editorial roles
	articles := api.Group("/articles")
	{
		articles.GET("", h.Article.ListArticles)
		articles.GET("/:id", h.Article.GetArticle)

		articles.POST("", authRequired, staffOnly, h.Article.CreateArticle)
		articles.PUT("/:id", authRequired, staffOnly, h.Article.UpdateArticle)
		articles.DELETE("/:id", authRequired, staffOnly, h.Article.DeleteArticle)
		articles.PATCH("/:id/archive", authRequired, staffOnly, h.Article.ArchiveArticle)
	}

	// newsletter: subscribe/unsubscribe are public, the rest is editorial
	newsletter := api.Group("/newsletter")
	{
		newsletter.POST("/subscribe", h.Newsletter.Subscribe)
		newsletter.POST("/unsubscribe", h.Newsletter.Unsubscribe)

		templates := newsletter.Group("/templates", authRequired, staffOnly)
		{
			templates.POST("", h.Newsletter.CreateTemplate)
			templates.GET("", h.Newsletter.ListTemplates)
			templates.GET("/:id", h.Newsletter.GetTemplate)
			templates.PUT("/:id", h.Newsletter.UpdateTemplate)
			templates.DELETE("/:id", h.Newsletter.DeleteTemplate)
		}

		newsletter.POST("/send", authRequired, staffOnly, h.Newsletter.SendNewsletter)
	}

	// media uploads for article images
	api.POST("/uploads", authRequired, staffOnly, h.Upload.UploadImage)
}
