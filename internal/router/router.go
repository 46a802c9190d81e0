package router

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	_ "github.com/archfolio/archfolio/docs"
	"github.com/archfolio/archfolio/internal/config"
	"github.com/archfolio/archfolio/internal/middleware"
	"github.com/archfolio/archfolio/internal/modules/handler"
	"github.com/archfolio/archfolio/internal/modules/serializer"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

type RouterDeps struct {
	Config         *config.Config
	Log            *zap.Logger
	AuthHandler    *handler.AuthHandler
	ProjectHandler *handler.ProjectHandler
	ImageHandler   *handler.ImageHandler
}

func NewRouter(d RouterDeps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	if d.Config.Telemetry.Enabled && d.Config.Telemetry.OtlpEndpoint != "" {
		r.Use(middleware.OtelTracing(d.Config.App.Name))
		r.Use(middleware.TraceID())
	}

	r.Use(middleware.ZapLogger(d.Log))

	corsCfg := cors.DefaultConfig()
	if len(d.Config.CORS.AllowOrigins) == 1 && d.Config.CORS.AllowOrigins[0] == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = d.Config.CORS.AllowOrigins
	}
	corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, "Authorization")
	r.Use(cors.New(corsCfg))

	// health
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, serializer.Response{Msg: "ok"}) })

	// swagger
	r.GET("/swagger", func(c *gin.Context) {
		c.Redirect(http.StatusMovedPermanently, "/swagger/index.html")
	})
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := r.Group("/api/v1")
	{
		v1.POST("/auth/login", d.AuthHandler.Login)

		// public read surface
		v1.GET("/projects", d.ProjectHandler.ListProjects)
		v1.GET("/projects/:id", d.ProjectHandler.GetProject)
		v1.GET("/projects/:id/images", d.ImageHandler.ListProjectImages)

		admin := v1.Group("")
		admin.Use(middleware.AdminAuth(d.Config))
		{
			admin.POST("/projects", d.ProjectHandler.CreateProject)
			admin.PUT("/projects/:id", d.ProjectHandler.UpdateProject)
			admin.DELETE("/projects/:id", d.ProjectHandler.DeleteProject)

			admin.POST("/projects/:id/images", d.ImageHandler.AddImages)
			admin.PUT("/projects/:id/images/main", d.ImageHandler.ReplaceMainImage)
			admin.DELETE("/images", d.ImageHandler.DeleteImages)
			admin.GET("/images/download_url", d.ImageHandler.GetDownloadURL)
		}
	}
	return r
}
