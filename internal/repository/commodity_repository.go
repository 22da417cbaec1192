package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"rentmarket/internal/models"
	"rentmarket/internal/query"
)

type CommodityRepositoryImpl struct {
	db *sqlx.DB
}

func NewCommodityRepository(db *sqlx.DB) *CommodityRepositoryImpl {
	return &CommodityRepositoryImpl{db: db}
}

func (r *CommodityRepositoryImpl) Create(ctx context.Context, commodity *models.Commodity) error {
	if commodity.CommodityID == "" {
		commodity.CommodityID = uuid.New().String()
	}

	// lastModified ставится сервером при каждой записи
	commodity.LastModified = time.Now()

	queryStr := `
		INSERT INTO commodities
		(commodity_id, title, type, address, location, description, price, rental_duration,
		 transaction_type, area, images, video_url, facilities, allowed_business_types,
		 security, rental_requirements, flexibility, special_conditions, owner_id, owner_name,
		 phone_number, email, availability, last_modified)
		VALUES
		(:commodity_id, :title, :type, :address, :location, :description, :price, :rental_duration,
		 :transaction_type, :area, :images, :video_url, :facilities, :allowed_business_types,
		 :security, :rental_requirements, :flexibility, :special_conditions, :owner_id, :owner_name,
		 :phone_number, :email, :availability, :last_modified)
	`

	_, err := r.db.NamedExecContext(ctx, queryStr, commodity)
	if err != nil {
		return fmt.Errorf("ошибка при создании объявления: %w", errors.Join(models.ErrWrite, err))
	}

	return nil
}

func (r *CommodityRepositoryImpl) GetByID(ctx context.Context, commodityID string) (*models.Commodity, error) {
	queryStr := `SELECT * FROM commodities WHERE commodity_id = $1`

	var commodity models.Commodity
	err := r.db.GetContext(ctx, &commodity, queryStr, commodityID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("объявление с ID %s: %w", commodityID, models.ErrNotFound)
		}
		return nil, fmt.Errorf("ошибка при получении объявления: %w", err)
	}

	return &commodity, nil
}

func (r *CommodityRepositoryImpl) Update(ctx context.Context, commodity *models.Commodity) error {
	commodity.LastModified = time.Now()

	queryStr := `
		UPDATE commodities SET
			title = :title,
			type = :type,
			address = :address,
			location = :location,
			description = :description,
			price = :price,
			rental_duration = :rental_duration,
			transaction_type = :transaction_type,
			area = :area,
			images = :images,
			video_url = :video_url,
			facilities = :facilities,
			allowed_business_types = :allowed_business_types,
			security = :security,
			rental_requirements = :rental_requirements,
			flexibility = :flexibility,
			special_conditions = :special_conditions,
			owner_name = :owner_name,
			phone_number = :phone_number,
			email = :email,
			availability = :availability,
			last_modified = :last_modified
		WHERE commodity_id = :commodity_id AND owner_id = :owner_id
	`

	result, err := r.db.NamedExecContext(ctx, queryStr, commodity)
	if err != nil {
		return fmt.Errorf("ошибка при обновлении объявления: %w", errors.Join(models.ErrWrite, err))
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("ошибка при проверке обновленных строк: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("объявление с ID %s: %w", commodity.CommodityID, models.ErrNotFound)
	}

	return nil
}

// Delete идемпотентен: удаление уже отсутствующего объявления не считается ошибкой.
func (r *CommodityRepositoryImpl) Delete(ctx context.Context, commodityID string) error {
	queryStr := `DELETE FROM commodities WHERE commodity_id = $1`

	_, err := r.db.ExecContext(ctx, queryStr, commodityID)
	if err != nil {
		return fmt.Errorf("ошибка при удалении объявления: %w", errors.Join(models.ErrWrite, err))
	}

	return nil
}

func (r *CommodityRepositoryImpl) count(ctx context.Context, ownerID string) (int, error) {
	var total int
	var err error

	if ownerID == "" {
		err = r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM commodities`)
	} else {
		err = r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM commodities WHERE owner_id = $1`, ownerID)
	}

	if err != nil {
		return 0, fmt.Errorf("ошибка при подсчёте объявлений: %w", err)
	}

	return total, nil
}

func orderClause(sort string) string {
	if sort == query.SortOldest {
		return "last_modified ASC, commodity_id ASC"
	}
	return "last_modified DESC, commodity_id DESC"
}

// pageCursor возвращает последнюю строку страницы page при размере pageSize:
// облегченный запрос на (page*pageSize) ключей, берем последний.
// ok=false означает, что записей меньше и запрошенная страница пуста.
func (r *CommodityRepositoryImpl) pageCursor(ctx context.Context, ownerID, sort string, page, pageSize int) (time.Time, string, bool, error) {
	var queryStr string
	var rows []struct {
		LastModified time.Time `db:"last_modified"`
		CommodityID  string    `db:"commodity_id"`
	}

	limit := page * pageSize

	var err error
	if ownerID == "" {
		queryStr = `SELECT last_modified, commodity_id FROM commodities ORDER BY ` + orderClause(sort) + ` LIMIT $1`
		err = r.db.SelectContext(ctx, &rows, queryStr, limit)
	} else {
		queryStr = `SELECT last_modified, commodity_id FROM commodities WHERE owner_id = $1 ORDER BY ` + orderClause(sort) + ` LIMIT $2`
		err = r.db.SelectContext(ctx, &rows, queryStr, ownerID, limit)
	}

	if err != nil {
		return time.Time{}, "", false, fmt.Errorf("ошибка при поиске курсора страницы: %w", err)
	}

	// предыдущие страницы заполнены не до конца - дальше записей нет
	if len(rows) < limit {
		return time.Time{}, "", false, nil
	}

	last := rows[len(rows)-1]
	return last.LastModified, last.CommodityID, true, nil
}

// ListPage - серверный путь выборки: порядок по last_modified, keyset-курсор
// вместо OFFSET. Страница 1 идет без курсора; для страницы N курсором служит
// последняя запись страницы N-1. Каждому элементу проставляется TotalPages
// от полного (нефильтрованного) количества.
func (r *CommodityRepositoryImpl) ListPage(ctx context.Context, ownerID, sort string, page, pageSize int) ([]models.Commodity, error) {
	if page < 1 {
		page = 1
	}

	total, err := r.count(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	totalPages := query.TotalPages(total, pageSize)

	var cursorTime time.Time
	var cursorID string
	hasCursor := false

	if page > 1 {
		var ok bool
		cursorTime, cursorID, ok, err = r.pageCursor(ctx, ownerID, sort, page-1, pageSize)
		if err != nil {
			return nil, err
		}
		if !ok {
			return []models.Commodity{}, nil
		}
		hasCursor = true
	}

	cmp := "<"
	if sort == query.SortOldest {
		cmp = ">"
	}

	var commodities []models.Commodity
	switch {
	case ownerID == "" && !hasCursor:
		queryStr := `SELECT * FROM commodities ORDER BY ` + orderClause(sort) + ` LIMIT $1`
		err = r.db.SelectContext(ctx, &commodities, queryStr, pageSize)
	case ownerID == "" && hasCursor:
		queryStr := `SELECT * FROM commodities WHERE (last_modified, commodity_id) ` + cmp + ` ($1, $2) ORDER BY ` + orderClause(sort) + ` LIMIT $3`
		err = r.db.SelectContext(ctx, &commodities, queryStr, cursorTime, cursorID, pageSize)
	case !hasCursor:
		queryStr := `SELECT * FROM commodities WHERE owner_id = $1 ORDER BY ` + orderClause(sort) + ` LIMIT $2`
		err = r.db.SelectContext(ctx, &commodities, queryStr, ownerID, pageSize)
	default:
		queryStr := `SELECT * FROM commodities WHERE owner_id = $1 AND (last_modified, commodity_id) ` + cmp + ` ($2, $3) ORDER BY ` + orderClause(sort) + ` LIMIT $4`
		err = r.db.SelectContext(ctx, &commodities, queryStr, ownerID, cursorTime, cursorID, pageSize)
	}

	if err != nil {
		return nil, fmt.Errorf("ошибка при получении объявлений: %w", err)
	}

	for i := range commodities {
		commodities[i].TotalPages = totalPages
	}

	return commodities, nil
}

// ListAllOrdered - путь для клиентской фильтрации: вся коллекция одним
// запросом в нужном порядке, нарезка на страницы остается за вызывающим.
func (r *CommodityRepositoryImpl) ListAllOrdered(ctx context.Context, ownerID, sort string) ([]models.Commodity, error) {
	var commodities []models.Commodity
	var err error

	if ownerID == "" {
		queryStr := `SELECT * FROM commodities ORDER BY ` + orderClause(sort)
		err = r.db.SelectContext(ctx, &commodities, queryStr)
	} else {
		queryStr := `SELECT * FROM commodities WHERE owner_id = $1 ORDER BY ` + orderClause(sort)
		err = r.db.SelectContext(ctx, &commodities, queryStr, ownerID)
	}

	if err != nil {
		return nil, fmt.Errorf("ошибка при получении объявлений: %w", err)
	}

	return commodities, nil
}
