package handlers

import (
	"github.com/go-playground/validator/v10"

	"rentmarket/internal/config"
	"rentmarket/internal/service"
)

type Handlers struct {
	CommodityService service.CommodityService
	AuthService      service.AuthService
	UserService      service.UserService
	Cfg              *config.Config
	Validate         *validator.Validate
}

func NewHandlers(services *service.Service, config *config.Config) *Handlers {
	return &Handlers{
		CommodityService: services.Commodity,
		AuthService:      services.Auth,
		UserService:      services.User,
		Cfg:              config,
		Validate:         validator.New(),
	}
}
