// Package main, chatsync backend uygulamasının giriş noktasıdır.
//
// Bu dosyanın görevi — Dependency Injection "wire-up":
//  1. Config'i yükle
//  2. Database'i başlat (embedded migration'lar ile)
//  3. Repository'leri oluştur
//  4. Sync engine'i kur (queue + notifier + producer + hydrator + poller)
//  5. Service'leri oluştur
//  6. Handler'ları oluştur
//  7. HTTP router'ı kur, route'ları bağla
//  8. CORS + panic recovery yapılandır
//  9. HTTP Server'ı başlat
//  10. Graceful shutdown
//
// Global değişken YOK — her şey bu fonksiyonda oluşturulup birbirine bağlanıyor.
package main

import (
	"context"
	"io/fs"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/cors"

	"github.com/edulink/chatsync/config"
	"github.com/edulink/chatsync/database"
	"github.com/edulink/chatsync/middleware"
)

func main() {
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	log.Println("[main] chatsync server starting...")

	// ─── 1. Config ───
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("[main] failed to load config: %v", err)
	}
	log.Printf("[main] config loaded (port=%d)", cfg.Server.Port)

	// ─── 2. Database ───
	//
	// Migration'lar binary'ye gömülü (embed.FS) — deploy tek dosyadır,
	// yanında migrations/ dizini taşımak gerekmez.
	migrationsFS, err := fs.Sub(database.EmbeddedMigrations, "migrations")
	if err != nil {
		log.Fatalf("[main] failed to resolve embedded migrations: %v", err)
	}

	db, err := database.New(cfg.Database.Path, migrationsFS)
	if err != nil {
		log.Fatalf("[main] failed to initialize database: %v", err)
	}
	defer db.Close()

	// ─── 3. Repository Layer ───
	repos := initRepositories(db.Conn)

	// ─── 4. Sync Engine ───
	engine, err := initSyncEngine(cfg, repos)
	if err != nil {
		log.Fatalf("[main] failed to initialize sync engine: %v", err)
	}
	defer engine.Queue.Close()
	defer engine.Hydrator.Close()

	// ─── 5. Service Layer ───
	svcs, limiters := initServices(db, repos, engine, cfg)
	defer limiters.Poll.Close()

	// ─── 6. Handler Layer ───
	h := initHandlers(svcs, limiters, engine, db)

	// ─── 7. Router ───
	mux := http.NewServeMux()
	initRoutes(mux, h, svcs.Auth, repos.User)

	// ─── 8. CORS + Recovery ───
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000", "http://localhost:5173"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	handler := middleware.Recover(corsHandler.Handler(mux))

	// ─── 9. HTTP Server ───
	//
	// WriteTimeout, blocking poll'ün clamp üst sınırından uzun olmalı —
	// 30 saniyelik bir poll'ün cevabı write edilmeden bağlantı kesilmesin.
	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.Poll.MaxTimeout + 10*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// ─── 10. Graceful Shutdown ───
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("[main] server listening on %s", cfg.Server.Addr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("[main] server error: %v", err)
		}
	}()

	<-done
	log.Println("[main] shutting down...")

	// Shutdown timeout'u poll clamp'inden uzun tutulur: açık blocking
	// poll'ler en geç MaxTimeout'ta kendi kendine biter, Shutdown onların
	// cevaplarını yazmalarına izin verir.
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Poll.MaxTimeout+5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("[main] forced shutdown: %v", err)
	}

	log.Println("[main] server stopped gracefully")
}
