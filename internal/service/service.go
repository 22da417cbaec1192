package service

import (
	"rentmarket/internal/cache"
	"rentmarket/internal/config"
	"rentmarket/internal/repository"
	"rentmarket/internal/storage"
)

type Service struct {
	Commodity CommodityService
	Auth      AuthService
	User      UserService
}

func NewService(rep *repository.Repository, cfg *config.Config, storage storage.Storage, cache *cache.Cache) *Service {
	return &Service{
		Commodity: NewCommodityService(rep.Commodity, storage, cache, cfg),
		Auth:      NewAuthService(rep.User, cfg),
		User:      NewUserService(rep.User, cfg),
	}
}
