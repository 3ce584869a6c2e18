package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	_ "github.com/go-sql-driver/mysql"

	"libris-backend/internal/audit"
	"libris-backend/internal/catalog"
	"libris-backend/internal/circulation"
	"libris-backend/internal/notify"
	"libris-backend/internal/partners"
	"libris-backend/internal/platform/auth"
	"libris-backend/internal/platform/db"
	"libris-backend/internal/reports"
)

func main() {
	// 設定読み込み
	cfg, err := db.LoadConfig("config/config.yaml")
	if err != nil {
		panic(err)
	}

	// 動作モード取得
	mode := cfg.Mode
	log.Printf("[INFO] mode:%s\n", mode)

	if cfg.Mode != "dev" && cfg.Mode != "release" {
		fmt.Println("Usage: go run main.go [dev|release]")
		return
	}

	conn, err := db.Connect(cfg.DB)
	if err != nil {
		panic(err)
	}
	defer conn.Close()

	log.Printf("[INFO] connected to DB: %s", cfg.DB.DBName)

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())
	_ = r.SetTrustedProxies(nil)

	if mode == "dev" {
		// CORS（開発中のみ必要）
		r.Use(cors.New(cors.Config{
			AllowOrigins:     []string{"http://localhost:3000"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
			ExposeHeaders:    []string{"Content-Length", "Location"},
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowCredentials: true,
		}))
	}

	// ヘルス
	r.GET("/healthz", func(c *gin.Context) { c.String(http.StatusOK, "ok") })

	secret := []byte(cfg.JWTSecret)
	notifier := notify.NewNotifier(conn)
	auditLog := audit.NewLogger(conn)

	// /api/v1 （login/register のみ認証なし）
	api := r.Group("/api/v1")
	auth.RegisterRoutes(api, auth.NewService(conn, secret))

	authed := api.Group("", auth.RequireAuth(secret))
	catalog.RegisterRoutes(authed, catalog.NewService(conn, notifier))
	circulation.RegisterRoutes(authed, circulation.NewService(conn, notifier, auditLog))
	notify.RegisterRoutes(authed, notify.NewService(conn))
	audit.RegisterRoutes(authed, auditLog)

	// 司書・管理者のみ
	staff := authed.Group("", auth.RequireStaff())
	partners.RegisterRoutes(staff, partners.NewService(conn))
	reports.RegisterRoutes(staff, conn)

	srv := &http.Server{
		Addr:    cfg.Listen,
		Handler: r,
	}

	go func() {
		log.Printf("[INFO] listening on %s", cfg.Listen)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal(err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	<-quit
	log.Println("[INFO] shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal(err)
	}
}
