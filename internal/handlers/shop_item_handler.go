package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"time"

	"nekoyaBack/internal/models"
	"nekoyaBack/internal/services"
	"nekoyaBack/utils"
)

type ShopItemHandler struct {
	Service  *services.ShopProgressService
	Storage  utils.S3Storage
	S3Folder string
}

func (h *ShopItemHandler) GetItems(w http.ResponseWriter, r *http.Request) {
	playerID, ok := playerIDFromContext(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	items, err := h.Service.ListItems(r.Context(), playerID)
	if err != nil {
		http.Error(w, "Failed to fetch", http.StatusInternalServerError)
		return
	}
	json.NewEncoder(w).Encode(models.ShopItemListResponse{Items: items})
}

func (h *ShopItemHandler) AddListing(w http.ResponseWriter, r *http.Request) {
	playerID, ok := playerIDFromContext(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req models.AddListingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid body", http.StatusBadRequest)
		return
	}

	item, err := h.Service.AddListing(r.Context(), playerID, req.ItemID, req.ItemDefID, req.Stock)
	if err == models.ErrItemDefNotFound {
		http.Error(w, "Item definition not found", http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, "Failed to create", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(item)
}

func (h *ShopItemHandler) RecordSale(w http.ResponseWriter, r *http.Request) {
	playerID, ok := playerIDFromContext(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	itemID := getParam(r, "item_id")
	if itemID == "" {
		http.Error(w, "Missing item id", http.StatusBadRequest)
		return
	}

	var req models.RecordSaleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid body", http.StatusBadRequest)
		return
	}

	item, err := h.Service.RecordSale(r.Context(), playerID, itemID, req.Quantity)
	if err == models.ErrItemNotFound {
		http.Error(w, "Item not found", http.StatusNotFound)
		return
	}
	if err == models.ErrStockNotTracked {
		http.Error(w, "Stock not tracked for item", http.StatusBadRequest)
		return
	}
	if err != nil {
		http.Error(w, "Failed to record sale", http.StatusInternalServerError)
		return
	}
	json.NewEncoder(w).Encode(item)
}

// CreateItemDef registers a catalog item, uploading its icon to S3 when one is
// attached. Admin only.
func (h *ShopItemHandler) CreateItemDef(w http.ResponseWriter, r *http.Request) {
	err := r.ParseMultipartForm(10 << 20) // 10MB
	if err != nil {
		http.Error(w, "Invalid multipart form", http.StatusBadRequest)
		return
	}

	def := models.ItemDef{
		ID:   r.FormValue("id"),
		Name: r.FormValue("name"),
	}

	file, header, err := r.FormFile("icon")
	if err == nil {
		defer file.Close()

		data, readErr := io.ReadAll(file)
		if readErr != nil {
			http.Error(w, "Failed to read icon", http.StatusBadRequest)
			return
		}

		ext := filepath.Ext(header.Filename)
		iconName := fmt.Sprintf("item_icon_%d%s", time.Now().UnixNano(), ext)
		contentType := header.Header.Get("Content-Type")
		if contentType == "" {
			contentType = "image/png"
		}

		iconURL, uploadErr := h.Storage.UploadFile(data, iconName, h.S3Folder, contentType)
		if uploadErr != nil {
			http.Error(w, "Failed to upload icon", http.StatusInternalServerError)
			return
		}
		def.IconURL = iconURL
	}

	created, err := h.Service.CreateItemDef(r.Context(), def)
	if err != nil {
		http.Error(w, "Failed to create", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(created)
}
