package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"rentmarket/internal/cache"
	"rentmarket/internal/config"
	"rentmarket/internal/models"
	"rentmarket/internal/query"
	"rentmarket/internal/repository"
	"rentmarket/internal/storage"
)

// UploadFile - загружаемый файл изображения в том виде, в каком его
// отдает multipart-форма.
type UploadFile struct {
	Name   string
	Reader io.Reader
	Size   int64
}

// CreateCommodityRequest - единственная валидируемая форма создания
// объявления; проверяется на границе системы.
type CreateCommodityRequest struct {
	Title                string    `json:"title" validate:"required"`
	Type                 string    `json:"type" validate:"required,oneof=Halaman Ruko/Kios Gedung/Mall Stan/Booth Kantin Gudang 'Tanah Kosong'"`
	Address              string    `json:"address" validate:"required"`
	Location             string    `json:"location" validate:"required"`
	Description          string    `json:"description"`
	Price                int64     `json:"price" validate:"gte=0"`
	RentalDuration       string    `json:"rentalDuration" validate:"required,oneof=Harian Mingguan Bulanan Tahunan"`
	TransactionType      string    `json:"transactionType" validate:"required,oneof=Sewa 'Bagi Hasil'"`
	Area                 float64   `json:"area" validate:"gte=0"`
	VideoURL             string    `json:"videoUrl" validate:"omitempty,url"`
	Facilities           []string  `json:"facilities" validate:"min=1"`
	AllowedBusinessTypes []string  `json:"allowedBusinessTypes"`
	Security             []string  `json:"security"`
	RentalRequirements   []string  `json:"rentalRequirements" validate:"min=1"`
	Flexibility          []string  `json:"flexibility"`
	SpecialConditions    []string  `json:"specialConditions"`
	OwnerName            string    `json:"ownerName" validate:"required"`
	PhoneNumber          string    `json:"phoneNumber" validate:"required,min=10"`
	Email                string    `json:"email" validate:"omitempty,email"`
	Availability         time.Time `json:"availability" validate:"required"`
}

// UpdateCommodityRequest - форма частичного обновления: nil-поле
// оставляет хранимое значение нетронутым (merge, а не replace).
type UpdateCommodityRequest struct {
	Title                *string    `json:"title"`
	Type                 *string    `json:"type" validate:"omitempty,oneof=Halaman Ruko/Kios Gedung/Mall Stan/Booth Kantin Gudang 'Tanah Kosong'"`
	Address              *string    `json:"address"`
	Location             *string    `json:"location"`
	Description          *string    `json:"description"`
	Price                *int64     `json:"price" validate:"omitempty,gte=0"`
	RentalDuration       *string    `json:"rentalDuration" validate:"omitempty,oneof=Harian Mingguan Bulanan Tahunan"`
	TransactionType      *string    `json:"transactionType" validate:"omitempty,oneof=Sewa 'Bagi Hasil'"`
	Area                 *float64   `json:"area" validate:"omitempty,gte=0"`
	VideoURL             *string    `json:"videoUrl" validate:"omitempty,url"`
	Facilities           *[]string  `json:"facilities"`
	AllowedBusinessTypes *[]string  `json:"allowedBusinessTypes"`
	Security             *[]string  `json:"security"`
	RentalRequirements   *[]string  `json:"rentalRequirements"`
	Flexibility          *[]string  `json:"flexibility"`
	SpecialConditions    *[]string  `json:"specialConditions"`
	OwnerName            *string    `json:"ownerName"`
	PhoneNumber          *string    `json:"phoneNumber" validate:"omitempty,min=10"`
	Email                *string    `json:"email" validate:"omitempty,email"`
	Availability         *time.Time `json:"availability"`
	Images               *[]string  `json:"images"`
}

// CommodityPage - страница выборки вместе с метаданными пагинации.
type CommodityPage struct {
	Items      []models.Commodity `json:"items"`
	Page       int                `json:"page"`
	PageSize   int                `json:"pageSize"`
	TotalPages int                `json:"totalPages"`
}

type CommodityService interface {
	CreateCommodity(ctx context.Context, ownerID string, req CreateCommodityRequest, files []UploadFile) (string, error)
	UpdateCommodity(ctx context.Context, commodityID, ownerID string, req UpdateCommodityRequest, files []UploadFile) (string, error)
	GetCommodityByID(ctx context.Context, commodityID string) (*models.Commodity, error)
	DeleteCommodity(ctx context.Context, commodityID, ownerID string) error
	ListCommodities(ctx context.Context, p query.Params) (*CommodityPage, error)
	ListOwnerCommodities(ctx context.Context, ownerID string, p query.Params) (*CommodityPage, error)
}

type commodityService struct {
	repo    repository.CommodityRepository
	storage storage.Storage
	cache   *cache.Cache
	cfg     *config.Config
	group   singleflight.Group
}

func NewCommodityService(repo repository.CommodityRepository, storage storage.Storage, cache *cache.Cache, cfg *config.Config) CommodityService {
	return &commodityService{
		repo:    repo,
		storage: storage,
		cache:   cache,
		cfg:     cfg,
	}
}

// uploadAll грузит файлы последовательно, сохраняя порядок. Первая же
// неудача прерывает операцию: в БД еще ничего не записано.
func (s *commodityService) uploadAll(ctx context.Context, ownerID string, files []UploadFile) ([]string, error) {
	urls := make([]string, 0, len(files))

	for _, f := range files {
		url, err := s.storage.UploadImage(ctx, ownerID, f.Name, f.Reader, f.Size)
		if err != nil {
			return nil, fmt.Errorf("загрузка файла %s: %w", f.Name, err)
		}
		urls = append(urls, url)
	}

	return urls, nil
}

func (s *commodityService) invalidateLists(ctx context.Context, ownerID string) {
	s.cache.InvalidateFamily(ctx, cache.FamilyAll)
	s.cache.InvalidateFamily(ctx, cache.OwnerFamily(ownerID))
}

func (s *commodityService) CreateCommodity(ctx context.Context, ownerID string, req CreateCommodityRequest, files []UploadFile) (string, error) {
	// сначала все загрузки, потом запись: при ошибке загрузки
	// неполная запись не появляется
	images, err := s.uploadAll(ctx, ownerID, files)
	if err != nil {
		return "", err
	}

	commodity := &models.Commodity{
		Title:                req.Title,
		Type:                 req.Type,
		Address:              req.Address,
		Location:             req.Location,
		Description:          req.Description,
		Price:                req.Price,
		RentalDuration:       req.RentalDuration,
		TransactionType:      req.TransactionType,
		Area:                 req.Area,
		Images:               images,
		VideoURL:             req.VideoURL,
		Facilities:           dedupe(req.Facilities),
		AllowedBusinessTypes: dedupe(req.AllowedBusinessTypes),
		Security:             dedupe(req.Security),
		RentalRequirements:   dedupe(req.RentalRequirements),
		Flexibility:          dedupe(req.Flexibility),
		SpecialConditions:    dedupe(req.SpecialConditions),
		OwnerID:              ownerID,
		OwnerName:            req.OwnerName,
		PhoneNumber:          req.PhoneNumber,
		Email:                req.Email,
		Availability:         req.Availability,
	}

	if err := s.repo.Create(ctx, commodity); err != nil {
		return "", err
	}

	s.invalidateLists(ctx, ownerID)

	return commodity.CommodityID, nil
}

func (s *commodityService) UpdateCommodity(ctx context.Context, commodityID, ownerID string, req UpdateCommodityRequest, files []UploadFile) (string, error) {
	existing, err := s.repo.GetByID(ctx, commodityID)
	if err != nil {
		return "", err
	}

	if existing.OwnerID != ownerID {
		return "", fmt.Errorf("объявление принадлежит другому пользователю: %w", models.ErrAuth)
	}

	// явный список картинок в запросе заменяет хранимый (так владелец
	// убирает ненужные), иначе берем хранимый
	images := []string(existing.Images)
	if req.Images != nil {
		images = stripBlobURLs(*req.Images)
	}

	// новые загрузки встают в начало списка
	uploaded, err := s.uploadAll(ctx, ownerID, files)
	if err != nil {
		return "", err
	}
	images = append(uploaded, images...)

	applyCommodityUpdate(existing, req)
	existing.Images = images
	existing.OwnerID = ownerID

	if err := s.repo.Update(ctx, existing); err != nil {
		return "", err
	}

	s.cache.Invalidate(ctx, cache.CommodityKey(commodityID))
	s.invalidateLists(ctx, ownerID)

	return commodityID, nil
}

func (s *commodityService) GetCommodityByID(ctx context.Context, commodityID string) (*models.Commodity, error) {
	key := cache.CommodityKey(commodityID)

	var cached models.Commodity
	if found, err := s.cache.GetJSON(ctx, key, &cached); err == nil && found {
		return &cached, nil
	}

	commodity, err := s.repo.GetByID(ctx, commodityID)
	if err != nil {
		return nil, err
	}

	_ = s.cache.SetJSON(ctx, key, commodity)

	return commodity, nil
}

func (s *commodityService) DeleteCommodity(ctx context.Context, commodityID, ownerID string) error {
	existing, err := s.repo.GetByID(ctx, commodityID)
	if err != nil {
		// удаление отсутствующей записи не отличимо от уже удаленной
		if errors.Is(err, models.ErrNotFound) {
			return nil
		}
		return err
	}

	if existing.OwnerID != ownerID {
		return fmt.Errorf("объявление принадлежит другому пользователю: %w", models.ErrAuth)
	}

	if err := s.repo.Delete(ctx, commodityID); err != nil {
		return err
	}

	s.cache.Invalidate(ctx, cache.CommodityKey(commodityID))
	s.invalidateLists(ctx, ownerID)

	return nil
}

func (s *commodityService) ListCommodities(ctx context.Context, p query.Params) (*CommodityPage, error) {
	return s.list(ctx, "", p)
}

func (s *commodityService) ListOwnerCommodities(ctx context.Context, ownerID string, p query.Params) (*CommodityPage, error) {
	return s.list(ctx, ownerID, p)
}

// list - кэширующая обертка над шлюзом: одинаковые конкурентные запросы
// схлопываются через singleflight, результат живет в Redis до инвалидации
// семейством или до TTL.
func (s *commodityService) list(ctx context.Context, ownerID string, p query.Params) (*CommodityPage, error) {
	p = p.Normalize(s.cfg.DefaultPageSize)

	family := cache.FamilyAll
	if ownerID != "" {
		family = cache.OwnerFamily(ownerID)
	}
	key := s.cache.ListKey(ctx, family, p.Query, p.Location, p.Sort, p.Page, p.PageSize)

	var cached CommodityPage
	if found, err := s.cache.GetJSON(ctx, key, &cached); err == nil && found {
		return &cached, nil
	}

	v, err, _ := s.group.Do(key, func() (any, error) {
		page, err := s.fetchPage(ctx, ownerID, p)
		if err != nil {
			return nil, err
		}

		_ = s.cache.SetJSON(ctx, key, page)
		return page, nil
	})
	if err != nil {
		return nil, err
	}

	return v.(*CommodityPage), nil
}

// fetchPage выбирает путь выборки. Серверный путь: БД сама отдает страницу
// в порядке last_modified. Клиентский путь (поиск по подстроке, фильтр по
// локации, сортировка по цене): забираем всю коллекцию, фильтруем и
// сортируем здесь, страницы считаем от отфильтрованного размера.
func (s *commodityService) fetchPage(ctx context.Context, ownerID string, p query.Params) (*CommodityPage, error) {
	if !p.NeedsClientFiltering() {
		items, err := s.repo.ListPage(ctx, ownerID, p.Sort, p.Page, p.PageSize)
		if err != nil {
			return nil, err
		}

		totalPages := 0
		if len(items) > 0 {
			totalPages = items[0].TotalPages
		}

		return &CommodityPage{
			Items:      items,
			Page:       p.Page,
			PageSize:   p.PageSize,
			TotalPages: totalPages,
		}, nil
	}

	all, err := s.repo.ListAllOrdered(ctx, ownerID, p.Sort)
	if err != nil {
		return nil, err
	}

	filtered := query.Apply(all, p)
	totalPages := query.TotalPages(len(filtered), p.PageSize)

	for i := range filtered {
		filtered[i].TotalPages = totalPages
	}

	return &CommodityPage{
		Items:      query.Window(filtered, p.Page, p.PageSize),
		Page:       p.Page,
		PageSize:   p.PageSize,
		TotalPages: totalPages,
	}, nil
}

func applyCommodityUpdate(c *models.Commodity, req UpdateCommodityRequest) {
	if req.Title != nil {
		c.Title = *req.Title
	}
	if req.Type != nil {
		c.Type = *req.Type
	}
	if req.Address != nil {
		c.Address = *req.Address
	}
	if req.Location != nil {
		c.Location = *req.Location
	}
	if req.Description != nil {
		c.Description = *req.Description
	}
	if req.Price != nil {
		c.Price = *req.Price
	}
	if req.RentalDuration != nil {
		c.RentalDuration = *req.RentalDuration
	}
	if req.TransactionType != nil {
		c.TransactionType = *req.TransactionType
	}
	if req.Area != nil {
		c.Area = *req.Area
	}
	if req.VideoURL != nil {
		c.VideoURL = *req.VideoURL
	}
	if req.Facilities != nil {
		c.Facilities = dedupe(*req.Facilities)
	}
	if req.AllowedBusinessTypes != nil {
		c.AllowedBusinessTypes = dedupe(*req.AllowedBusinessTypes)
	}
	if req.Security != nil {
		c.Security = dedupe(*req.Security)
	}
	if req.RentalRequirements != nil {
		c.RentalRequirements = dedupe(*req.RentalRequirements)
	}
	if req.Flexibility != nil {
		c.Flexibility = dedupe(*req.Flexibility)
	}
	if req.SpecialConditions != nil {
		c.SpecialConditions = dedupe(*req.SpecialConditions)
	}
	if req.OwnerName != nil {
		c.OwnerName = *req.OwnerName
	}
	if req.PhoneNumber != nil {
		c.PhoneNumber = *req.PhoneNumber
	}
	if req.Email != nil {
		c.Email = *req.Email
	}
	if req.Availability != nil {
		c.Availability = *req.Availability
	}
}

// dedupe убирает дубликаты, сохраняя порядок первого вхождения
// (описательные списки семантически множества).
func dedupe(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))

	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}

	return out
}

// stripBlobURLs выбрасывает временные blob-ссылки браузера: в БД попадают
// только постоянные URL хранилища.
func stripBlobURLs(urls []string) []string {
	out := make([]string, 0, len(urls))
	for _, u := range urls {
		if strings.HasPrefix(u, "blob:") {
			continue
		}
		out = append(out, u)
	}
	return out
}
