package main

import (
	"fmt"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"

	"bookshelf-api/internal/admin"
	"bookshelf-api/internal/exposure"
	"bookshelf-api/internal/shared/middleware"
	"bookshelf-api/pkg/container"
)

// SetupRouter builds the full HTTP surface: the derived JSON:API
// routes under the configured prefix, the swagger document and UI, the
// admin frontend, and the service endpoints.
func SetupRouter(c *container.Container, shutdownCh chan struct{}) (*gin.Engine, error) {
	router := gin.New()
	router.HandleMethodNotAllowed = true

	router.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
		middleware.CORS(),
	)

	prefix := c.Config.App.APIPrefix

	router.GET("/", func(ctx *gin.Context) {
		ctx.Redirect(http.StatusFound, prefix)
	})

	api := router.Group(prefix)
	api.Use(middleware.APIKey(c.Config.App.APIKey))

	if err := c.Registry.Mount(api); err != nil {
		return nil, fmt.Errorf("failed to mount resources: %w", err)
	}

	swaggerDoc := c.Registry.SwaggerDoc(exposure.SwaggerInfo{
		Title:       c.Config.Swagger.Title,
		Description: c.Config.Swagger.Description,
		Version:     c.Config.App.Version,
		Host:        fmt.Sprintf("%s:%s", c.Config.App.Host, c.Config.App.Port),
		BasePath:    prefix,
	})
	api.GET("/swagger.json", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, swaggerDoc)
	})
	api.GET("", swaggerUIHandler(prefix, c.Config.Swagger.Title))

	api.GET("/health", healthHandler(c))

	router.POST("/sd", shutdownHandler(shutdownCh))

	frontend, err := admin.NewFrontend(c.Registry)
	if err != nil {
		return nil, err
	}
	frontend.Mount(router.Group("/admin"))

	return router, nil
}

func healthHandler(c *container.Container) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		status := http.StatusOK
		checks := gin.H{"database": "ok"}

		if err := c.DB.Ping(ctx.Request.Context()); err != nil {
			status = http.StatusServiceUnavailable
			checks["database"] = err.Error()
		}

		if c.Cache != nil {
			checks["cache"] = "ok"
			if err := c.Cache.Ping(ctx.Request.Context()); err != nil {
				checks["cache"] = err.Error()
			}
		}

		ctx.JSON(status, gin.H{"status": http.StatusText(status), "checks": checks})
	}
}

// shutdownHandler closes the channel once; repeated calls still get a
// response while the server drains.
func shutdownHandler(shutdownCh chan struct{}) gin.HandlerFunc {
	var once sync.Once
	return func(ctx *gin.Context) {
		once.Do(func() { close(shutdownCh) })
		ctx.JSON(http.StatusOK, gin.H{"meta": gin.H{"result": "shutting down"}})
	}
}

func swaggerUIHandler(prefix, title string) gin.HandlerFunc {
	page := fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
  <title>%s</title>
  <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css">
</head>
<body>
  <div id="swagger-ui"></div>
  <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
  <script>
    window.onload = function() {
      SwaggerUIBundle({
        url: "%s/swagger.json",
        dom_id: "#swagger-ui",
        deepLinking: true
      });
    };
  </script>
</body>
</html>`, title, prefix)

	return func(ctx *gin.Context) {
		ctx.Data(http.StatusOK, "text/html; charset=utf-8", []byte(page))
	}
}
