package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/sudo-init-do/cuttr/internal/admin"
	"github.com/sudo-init-do/cuttr/internal/alerts"
	"github.com/sudo-init-do/cuttr/internal/auth"
	"github.com/sudo-init-do/cuttr/internal/candidate"
	"github.com/sudo-init-do/cuttr/internal/config"
	"github.com/sudo-init-do/cuttr/internal/connection"
	"github.com/sudo-init-do/cuttr/internal/db"
	"github.com/sudo-init-do/cuttr/internal/match"
	"github.com/sudo-init-do/cuttr/internal/messaging"
	mware "github.com/sudo-init-do/cuttr/internal/middleware"
	"github.com/sudo-init-do/cuttr/internal/plant"
	"github.com/sudo-init-do/cuttr/internal/report"
	"github.com/sudo-init-do/cuttr/internal/swipe"
	"github.com/sudo-init-do/cuttr/internal/trade"
	"github.com/sudo-init-do/cuttr/internal/user"
)

func main() {
	cfg := config.Load()
	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET must be set")
	}

	// Init subsystems
	db.Init(cfg)

	// Stores
	plantStore := plant.NewPGStore(db.Conn)
	userStore := user.NewPGStore(db.Conn)
	connStore := connection.NewPGStore(db.Conn)

	users := user.NewService(userStore)
	alerts.Init(cfg, users)
	defer alerts.Close()

	// Services
	hub := messaging.NewHub()
	notifier := alerts.NewNotifier()
	plants := plant.NewService(plantStore)
	ledger := swipe.NewLedger(swipe.NewPGStore(db.Conn))
	connections := connection.NewService(connStore)
	engine := match.NewEngine(ledger, plants, connections, match.NewPGStore(db.Conn), notifier, hub)
	selector := candidate.NewSelector(userStore, plantStore, ledger, candidate.NewPGStore(db.Conn), cfg.DefaultSearchRadiusKm)
	trades := trade.NewService(trade.NewPGStore(db.Conn), connections, plants, notifier, hub)
	messages := messaging.NewService(messaging.NewPGStore(db.Conn), connections, notifier, hub)
	reports := report.NewService(report.NewPGStore(db.Conn), users)

	var plantPhotos, profilePictures plant.PhotoUploader
	if cfg.CloudinaryURL != "" {
		pp, err := plant.NewCloudinaryUploader(cfg.CloudinaryURL, "cuttr/plants")
		if err != nil {
			log.Printf("photo uploads disabled: %v", err)
		} else {
			plantPhotos = pp
			if pics, err := plant.NewCloudinaryUploader(cfg.CloudinaryURL, "cuttr/profile_pictures"); err == nil {
				profilePictures = pics
			}
		}
	}

	// Handlers
	authH := auth.NewHandler(db.Conn, cfg.JWTSecret, cfg.AdminBootstrapSecret)
	plantH := plant.NewHandler(plants, plantPhotos)
	userH := user.NewHandler(users, profilePictures)
	swipeH := swipe.NewHandler(ledger, users)
	matchH := match.NewHandler(engine, ledger)
	candidateH := candidate.NewHandler(selector, cfg.LikableMaxCount)
	connH := connection.NewHandler(connections)
	tradeH := trade.NewHandler(trades)
	msgH := messaging.NewHandler(messages, hub)
	reportH := report.NewHandler(reports)
	adminH := admin.NewHandler(db.Conn)

	e := echo.New()
	e.HideBanner = true

	// Basic middleware
	e.Use(middleware.Recover())
	e.Use(middleware.Logger())
	e.Use(middleware.CORS())

	// Health and root routes
	e.GET("/", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"status": "ok", "service": "cuttr"})
	})
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
	})
	e.GET("/ready", func(c echo.Context) error {
		if db.Conn == nil {
			return c.JSON(http.StatusServiceUnavailable, echo.Map{"status": "not_ready", "error": "db not initialized"})
		}
		if err := db.Conn.Ping(c.Request().Context()); err != nil {
			return c.JSON(http.StatusServiceUnavailable, echo.Map{"status": "not_ready", "error": "db unreachable"})
		}
		return c.JSON(http.StatusOK, echo.Map{"status": "ready"})
	})

	// Auth routes with per-IP rate limiting to protect signup/login from abuse
	authGroup := e.Group("/auth")
	authGroup.Use(middleware.RateLimiter(middleware.NewRateLimiterMemoryStore(20)))
	authGroup.POST("/signup", authH.Signup)
	authGroup.POST("/login", authH.Login)
	authGroup.POST("/bootstrap-admin", authH.BootstrapAdmin)

	e.GET("/push/vapid-public-key", alerts.VAPIDPublicKey)

	// Protected routes
	api := e.Group("")
	api.Use(mware.JWTMiddleware(cfg.JWTSecret))

	api.GET("/users/me", userH.Me)
	api.PATCH("/users/me", userH.UpdateProfile)
	api.DELETE("/users/me", userH.DeleteAccount)
	api.PUT("/users/me/profile-picture", userH.UploadProfilePicture)
	api.PUT("/users/me/location", userH.UpdateLocation)
	api.PUT("/users/me/push-token", userH.UpdatePushToken)
	api.POST("/users/me/push-subscription", alerts.SubscribePush)
	api.GET("/users/:id/profile", userH.PublicProfile)
	api.GET("/users/:id/plants", plantH.ListByUser)
	api.GET("/userpreferences", userH.GetPreferences)
	api.POST("/userpreferences", userH.SavePreferences)

	api.POST("/plants", plantH.Create)
	api.GET("/plants/me", plantH.ListMine)
	api.GET("/plants/likable", candidateH.Likable)
	api.POST("/plants/photo", plantH.UploadPhoto)
	api.POST("/plants/mark-as-traded/:plantId", plantH.MarkTraded)
	api.PUT("/plants/me/:plantId", plantH.Update)
	api.DELETE("/plants/me/:plantId", plantH.Delete)
	api.GET("/plants/liked-by-me/from/:userId", swipeH.LikedByMeFrom)
	api.GET("/plants/liked-by/:userId/from-me", swipeH.LikedFromMeBy)
	api.GET("/plants/:id", plantH.Get)

	api.POST("/swipes/me", matchH.SubmitSwipes)
	api.GET("/matches/me", connH.MyMatches)
	api.GET("/matches/:matchId", connH.GetMatch)

	api.GET("/connections/me", connH.ListMine)
	api.GET("/connections/:id", connH.Get)
	api.GET("/connections/:id/matches", connH.Matches)
	api.GET("/connections/:id/proposals", tradeH.List)
	api.POST("/connections/:id/proposals", tradeH.Create)
	api.PUT("/connections/:id/proposals/:pid/status", tradeH.UpdateStatus)
	api.POST("/connections/:id/proposals/:pid/confirm", tradeH.Confirm)
	api.GET("/connections/:id/messages", msgH.List)
	api.POST("/connections/:id/messages", msgH.Send)
	api.GET("/connections/:id/messages/unread", msgH.Unread)
	api.POST("/connections/:id/messages/:mid/read", msgH.MarkRead)
	api.GET("/connections/:id/ws", msgH.WS)

	api.POST("/reports", reportH.Create)

	api.GET("/notifications", alerts.ListNotifications)
	api.POST("/notifications/:id/read", alerts.MarkNotificationRead)

	// Admin routes
	adminGroup := e.Group("/admin")
	adminGroup.Use(mware.JWTMiddleware(cfg.JWTSecret))
	adminGroup.Use(mware.AdminGuard)

	adminGroup.GET("/stats", adminH.Stats)
	adminGroup.GET("/users", adminH.ListUsers)
	adminGroup.POST("/users/:id/suspend", adminH.SuspendUser)
	adminGroup.POST("/users/:id/activate", adminH.ActivateUser)
	adminGroup.GET("/reports", reportH.AdminList)
	adminGroup.POST("/reports/:id/resolve", reportH.AdminResolve)

	// Start server
	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		log.Printf("forced shutdown: %v", err)
	}
	db.Conn.Close()
}
