package app

import (
	"log"

	"rentmarket/internal/cache"
	"rentmarket/internal/config"
	"rentmarket/internal/database"
	"rentmarket/internal/repository"
	"rentmarket/internal/service"
	"rentmarket/internal/storage"
)

func App(cfg *config.Config) (*database.DB, *cache.Cache, *service.Service) {
	// connection DB
	db, err := database.ConnectDB(cfg)
	if err != nil {
		log.Fatalf("Не удалось подключиться к БД: %v", err)
	}

	// connection MinIO
	minioClient, err := storage.NewMinIOClient(cfg)
	if err != nil {
		log.Fatalf("Не удалось инициализировать MinIO: %v", err)
	}

	// connection Redis (не фатально: без кэша читаем из БД напрямую)
	queryCache := cache.NewCache(cfg)

	// enabling dependencies
	repo := repository.NewRepository(db.DB)

	services := service.NewService(repo, cfg, minioClient, queryCache)

	return db, queryCache, services
}
