package main

import (
	"log"

	"axiapac.com/timesheets/core"
	"axiapac.com/timesheets/web/handlers"
	"axiapac.com/timesheets/web/middlewares"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	godotenv.Load()

	cfg, err := LoadConfig()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	dm, err := core.New(cfg.Dsn, cfg.MaxConnections)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer dm.Close()

	h := &handlers.Handler{
		Dm:       dm,
		Sessions: handlers.NewSessionState(),
		Secret:   cfg.Secret(),
	}

	r := gin.Default()
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})

	public := r.Group("/api")
	protected := r.Group("/api")
	protected.Use(middlewares.Authentication(h.Secret))

	handlers.RegisterAuth(public, protected, h)
	handlers.RegisterEmployees(protected, h)
	handlers.RegisterTimesheets(protected, h)

	r.Run(cfg.Listen)
}
