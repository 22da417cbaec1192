package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gorilla/mux"

	"rentmarket/cmd/app"
	"rentmarket/internal/config"
	handlers "rentmarket/internal/handler"
	"rentmarket/internal/middleware"
)

func main() {
	// setting up config
	cfg := config.LoadConfig()

	if cfg.JWTSecretKey == "" {
		log.Fatal("JWT_SECRET_KEY не установлен в .env файле")
	}

	db, queryCache, services := app.App(cfg)
	defer db.CloseDB()
	defer queryCache.Close()

	handler := handlers.NewHandlers(services, cfg)

	router := mux.NewRouter()

	// setting up routes
	router.HandleFunc("/health", handler.HealthHandler).Methods(http.MethodGet)

	router.HandleFunc("/api/auth/register", handler.Register).Methods(http.MethodPost)
	router.HandleFunc("/api/auth/login", handler.Login).Methods(http.MethodPost)
	router.HandleFunc("/api/auth/refresh-token", handler.RefreshToken).Methods(http.MethodPost)
	router.HandleFunc("/api/auth/logout", handler.Logout).Methods(http.MethodPost)

	// каталог объявлений открыт гостям
	router.HandleFunc("/api/commodities", handler.GetCommodities).Methods(http.MethodGet)
	router.HandleFunc("/api/commodities/{id}", handler.GetCommodity).Methods(http.MethodGet)

	// все, что меняет данные или завязано на владельца, требует токен
	protected := router.NewRoute().Subrouter()
	protected.Use(mux.MiddlewareFunc(middleware.AuthMiddleware(cfg)))

	protected.HandleFunc("/api/commodities", handler.CreateCommodity).Methods(http.MethodPost)
	protected.HandleFunc("/api/commodities/{id}", handler.UpdateCommodity).Methods(http.MethodPut)
	protected.HandleFunc("/api/commodities/{id}", handler.DeleteCommodity).Methods(http.MethodDelete)
	protected.HandleFunc("/api/my/commodities", handler.GetMyCommodities).Methods(http.MethodGet)

	protected.HandleFunc("/api/me", handler.GetCurrentUser).Methods(http.MethodGet)
	protected.HandleFunc("/api/me", handler.UpdateProfile).Methods(http.MethodPut)

	handlerChain := middleware.Chain(
		router,
		middleware.TimeoutMiddleware(cfg.RequestTimeout),
		middleware.LoggingMiddleware,
		middleware.CORSMiddleware,
	)

	// Starting the server
	addr := fmt.Sprintf(":%d", cfg.ServerPort)
	log.Printf("Сервер запущен на %s", addr)
	log.Printf("База данных: %s", cfg.DB.DbNAME)

	if err := http.ListenAndServe(addr, handlerChain); err != nil {
		log.Fatalf("Ошибка запуска сервера: %v", err)
	}
}
