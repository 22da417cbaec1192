package query

import (
	"sort"
	"strings"

	"rentmarket/internal/models"
)

// Режимы сортировки выборки. Newest/Oldest БД умеет отдавать сама,
// Cheap считается только на клиентской стороне шлюза.
const (
	SortNewest = "newest"
	SortOldest = "oldest"
	SortCheap  = "cheap"
)

// Params - параметры выборки объявлений (см. строку запроса /api/commodities).
type Params struct {
	Query    string
	Location string
	Sort     string
	Page     int
	PageSize int
}

// Normalize подставляет значения по умолчанию: страница 1-индексная,
// неизвестный режим сортировки трактуется как newest.
func (p Params) Normalize(defaultPageSize int) Params {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = defaultPageSize
	}
	switch p.Sort {
	case SortNewest, SortOldest, SortCheap:
	default:
		p.Sort = SortNewest
	}
	return p
}

// NeedsClientFiltering - true, когда БД не может отдать выборку сама:
// подстрочный поиск по title/location и сортировка по цене считаются здесь.
func (p Params) NeedsClientFiltering() bool {
	return p.Query != "" || p.Location != "" || p.Sort == SortCheap
}

// Filter оставляет объявления, у которых title содержит q И location
// содержит loc (без учета регистра). Пустой критерий пропускает всех.
func Filter(commodities []models.Commodity, q, loc string) []models.Commodity {
	q = strings.ToLower(q)
	loc = strings.ToLower(loc)

	filtered := make([]models.Commodity, 0, len(commodities))
	for _, c := range commodities {
		if q != "" && !strings.Contains(strings.ToLower(c.Title), q) {
			continue
		}
		if loc != "" && !strings.Contains(strings.ToLower(c.Location), loc) {
			continue
		}
		filtered = append(filtered, c)
	}

	return filtered
}

// SortCheapest сортирует по возрастанию цены. При равных ценах порядок
// определяется lastModified по убыванию, чтобы выборка была детерминированной.
func SortCheapest(commodities []models.Commodity) {
	sort.SliceStable(commodities, func(i, j int) bool {
		if commodities[i].Price != commodities[j].Price {
			return commodities[i].Price < commodities[j].Price
		}
		return commodities[i].LastModified.After(commodities[j].LastModified)
	})
}

// TotalPages = ceil(total/pageSize).
func TotalPages(total, pageSize int) int {
	if pageSize < 1 {
		return 0
	}
	return (total + pageSize - 1) / pageSize
}

// Window вырезает страницу page (1-индексная) размером pageSize.
// Выход за пределы списка дает пустую страницу.
func Window(commodities []models.Commodity, page, pageSize int) []models.Commodity {
	if page < 1 || pageSize < 1 {
		return nil
	}

	start := (page - 1) * pageSize
	if start >= len(commodities) {
		return nil
	}

	end := start + pageSize
	if end > len(commodities) {
		end = len(commodities)
	}

	return commodities[start:end]
}

// Apply - клиентская часть выборки: фильтр по подстрокам, затем сортировка
// по цене для sort=cheap. Порядок lastModified, пришедший из БД, для
// остальных режимов сохраняется. Нарезку на страницы делает вызывающая
// сторона (размер отфильтрованного списка заранее неизвестен).
func Apply(commodities []models.Commodity, p Params) []models.Commodity {
	filtered := Filter(commodities, p.Query, p.Location)

	if p.Sort == SortCheap {
		SortCheapest(filtered)
	}

	return filtered
}
