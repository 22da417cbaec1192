package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"rentmarket/internal/query"
	"rentmarket/internal/service"
)

var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/jpg":  true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

func listParams(r *http.Request) query.Params {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	pageSize, _ := strconv.Atoi(r.URL.Query().Get("pageSize"))

	return query.Params{
		Query:    r.URL.Query().Get("query"),
		Location: r.URL.Query().Get("location"),
		Sort:     r.URL.Query().Get("sort"),
		Page:     page,
		PageSize: pageSize,
	}
}

func (h *Handlers) GetCommodities(w http.ResponseWriter, r *http.Request) {
	page, err := h.CommodityService.ListCommodities(r.Context(), listParams(r))
	if err != nil {
		WriteError(w, err.Error(), statusFromError(err))
		return
	}

	WriteSuccess(w, page, http.StatusOK)
}

func (h *Handlers) GetMyCommodities(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := r.Context().Value("userID").(string)
	if !ok {
		WriteError(w, "Требуется аутентификация", http.StatusUnauthorized)
		return
	}

	page, err := h.CommodityService.ListOwnerCommodities(r.Context(), ownerID, listParams(r))
	if err != nil {
		WriteError(w, err.Error(), statusFromError(err))
		return
	}

	WriteSuccess(w, page, http.StatusOK)
}

func (h *Handlers) GetCommodity(w http.ResponseWriter, r *http.Request) {
	commodityID := mux.Vars(r)["id"]

	commodity, err := h.CommodityService.GetCommodityByID(r.Context(), commodityID)
	if err != nil {
		WriteError(w, err.Error(), statusFromError(err))
		return
	}

	WriteSuccess(w, commodity, http.StatusOK)
}

// multipartFiles достает файлы изображений из multipart-формы и проверяет
// их тип и количество. Сама форма уже разобрана вызывающим.
func (h *Handlers) multipartFiles(r *http.Request) ([]service.UploadFile, string) {
	if r.MultipartForm == nil {
		return nil, ""
	}

	headers := r.MultipartForm.File["images"]
	if len(headers) > h.Cfg.MaxImagesPerUpload {
		return nil, "Слишком много файлов: за один раз можно загрузить не более 3 изображений"
	}

	files := make([]service.UploadFile, 0, len(headers))
	for _, header := range headers {
		contentType := header.Header.Get("Content-Type")
		if !allowedImageTypes[contentType] {
			return nil, "Неподдерживаемый тип файла. Разрешены: JPEG, PNG, GIF, WebP"
		}

		f, err := header.Open()
		if err != nil {
			return nil, "Не удалось получить файл"
		}

		files = append(files, service.UploadFile{
			Name:   header.Filename,
			Reader: f,
			Size:   header.Size,
		})
	}

	return files, ""
}

// CreateCommodity принимает multipart-форму: JSON объявления в поле data,
// изображения в поле images (порядок полей формы сохраняется при загрузке).
func (h *Handlers) CreateCommodity(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := r.Context().Value("userID").(string)
	if !ok {
		WriteError(w, "Требуется аутентификация", http.StatusUnauthorized)
		return
	}

	if err := r.ParseMultipartForm(h.Cfg.MaxUploadSize); err != nil {
		WriteError(w, "Ошибка при обработке формы", http.StatusBadRequest)
		return
	}

	var req service.CreateCommodityRequest
	if err := json.Unmarshal([]byte(r.FormValue("data")), &req); err != nil {
		WriteError(w, "Неверный формат запроса", http.StatusBadRequest)
		return
	}

	if err := h.Validate.Struct(req); err != nil {
		WriteError(w, err.Error(), http.StatusBadRequest)
		return
	}

	files, errMsg := h.multipartFiles(r)
	if errMsg != "" {
		WriteError(w, errMsg, http.StatusBadRequest)
		return
	}

	commodityID, err := h.CommodityService.CreateCommodity(r.Context(), ownerID, req, files)
	if err != nil {
		WriteError(w, err.Error(), statusFromError(err))
		return
	}

	WriteSuccess(w, map[string]string{"id": commodityID}, http.StatusCreated)
}

func (h *Handlers) UpdateCommodity(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := r.Context().Value("userID").(string)
	if !ok {
		WriteError(w, "Требуется аутентификация", http.StatusUnauthorized)
		return
	}

	commodityID := mux.Vars(r)["id"]

	if err := r.ParseMultipartForm(h.Cfg.MaxUploadSize); err != nil {
		WriteError(w, "Ошибка при обработке формы", http.StatusBadRequest)
		return
	}

	var req service.UpdateCommodityRequest
	if err := json.Unmarshal([]byte(r.FormValue("data")), &req); err != nil {
		WriteError(w, "Неверный формат запроса", http.StatusBadRequest)
		return
	}

	if err := h.Validate.Struct(req); err != nil {
		WriteError(w, err.Error(), http.StatusBadRequest)
		return
	}

	files, errMsg := h.multipartFiles(r)
	if errMsg != "" {
		WriteError(w, errMsg, http.StatusBadRequest)
		return
	}

	id, err := h.CommodityService.UpdateCommodity(r.Context(), commodityID, ownerID, req, files)
	if err != nil {
		WriteError(w, err.Error(), statusFromError(err))
		return
	}

	WriteSuccess(w, map[string]string{"id": id}, http.StatusOK)
}

func (h *Handlers) DeleteCommodity(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := r.Context().Value("userID").(string)
	if !ok {
		WriteError(w, "Требуется аутентификация", http.StatusUnauthorized)
		return
	}

	commodityID := mux.Vars(r)["id"]

	if err := h.CommodityService.DeleteCommodity(r.Context(), commodityID, ownerID); err != nil {
		WriteError(w, err.Error(), statusFromError(err))
		return
	}

	WriteSuccess(w, MessageResponse{Message: "Объявление удалено"}, http.StatusOK)
}
