package main

import (
	"log"
	"net/http"

	"github.com/joho/godotenv"

	"github.com/yusukebe/url-shortener/internal/app"
	"github.com/yusukebe/url-shortener/internal/router"
	"github.com/yusukebe/url-shortener/pkg/http/server"
)

func main() {
	// .env удобен при локальной разработке; его отсутствие - не ошибка
	_ = godotenv.Load()

	shortener, err := app.New(useFlags)
	if err != nil {
		log.Fatalf("Failed to initialize app due to: %s\n", err)
	}
	defer shortener.Close()

	srv := &http.Server{
		Addr:    shortener.Config.ServerAddress,
		Handler: router.New(shortener),
	}
	if err := server.Start(srv, server.WithShutdownTimeout(shortener.Config.ServerShutdownTimeout)); err != nil {
		log.Fatalf("Failed to run server due to: %s\n", err)
	}
}
