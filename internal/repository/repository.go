package repository

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"rentmarket/internal/models"
)

type CommodityRepository interface {
	Create(ctx context.Context, commodity *models.Commodity) error
	GetByID(ctx context.Context, commodityID string) (*models.Commodity, error)
	Update(ctx context.Context, commodity *models.Commodity) error
	Delete(ctx context.Context, commodityID string) error
	ListPage(ctx context.Context, ownerID, sort string, page, pageSize int) ([]models.Commodity, error)
	ListAllOrdered(ctx context.Context, ownerID, sort string) ([]models.Commodity, error)
}

type UserRepository interface {
	CreateUser(ctx context.Context, user *models.User, password string) error
	GetUserByID(ctx context.Context, userID string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	UpdateUser(ctx context.Context, user *models.User) error
	VerifyPassword(ctx context.Context, email, password string) (*models.User, error)
	UpdateRefreshToken(ctx context.Context, userID, refreshToken string, expiryTime time.Time) error
	GetUserByRefreshToken(ctx context.Context, refreshToken string) (*models.User, error)
}

type Repository struct {
	Commodity CommodityRepository
	User      UserRepository
}

func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{
		Commodity: NewCommodityRepository(db),
		User:      NewUserRepository(db),
	}
}
