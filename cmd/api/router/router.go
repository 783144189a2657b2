package router

import (
	"context"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"blog-api/cmd/api/handlers"
	"blog-api/cmd/api/middleware"
	"blog-api/cmd/api/services"
	_ "blog-api/docs"
)

// Deps are the collaborators the routes are wired to.
type Deps struct {
	Blogs *services.BlogService
	// Ping checks store reachability for /ready.
	Ping func(ctx context.Context) error
}

func New(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestTrace(), middleware.Recovery())
	r.NoRoute(handlers.NotFoundHandler())

	// Health check
	r.GET("/", handlers.RootHandler())
	r.GET("/health", handlers.HealthHandler())
	if d.Ping != nil {
		r.GET("/ready", handlers.ReadyHandler(d.Ping))
	}

	// Swagger
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	r.GET("/blogs", handlers.ListBlogsHandler(d.Blogs))
	r.POST("/blogs", handlers.CreateBlogHandler(d.Blogs))

	blog := r.Group("/blog")
	{
		blog.GET("/id/:id", handlers.GetBlogHandler(d.Blogs))
		blog.PUT("/id/:id", handlers.UpdateBlogHandler(d.Blogs))
		blog.DELETE("/id/:id", handlers.DeleteBlogHandler(d.Blogs))
		blog.GET("/author", handlers.FindBlogsByAuthorHandler(d.Blogs))
	}

	return r
}
