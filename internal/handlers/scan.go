package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/shelfmap/shelfmapgo/internal/middleware"
	"github.com/shelfmap/shelfmapgo/internal/models"
	"github.com/shelfmap/shelfmapgo/internal/suggest"
	"gorm.io/datatypes"
)

// maxScanImageSize bounds uploaded shelf photos
const maxScanImageSize = 10 << 20 // 10MB

// analyzeScan accepts a shelf photo and returns AI item suggestions,
// ordered for review. Every analysis is recorded for the daily activity
// feed regardless of whether the user commits anything.
func (r *Router) analyzeScan(w http.ResponseWriter, req *http.Request) {
	if r.ai == nil {
		respondError(w, http.StatusServiceUnavailable, "Photo analysis is not configured")
		return
	}

	req.Body = http.MaxBytesReader(w, req.Body, maxScanImageSize)
	if err := req.ParseMultipartForm(maxScanImageSize); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid multipart payload")
		return
	}

	file, header, err := req.FormFile("image")
	if err != nil {
		respondError(w, http.StatusBadRequest, "image file is required")
		return
	}
	defer file.Close()

	imageData, err := io.ReadAll(file)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Failed to read image")
		return
	}

	suggestions, err := r.ai.AnalyzeImage(req.Context(), imageData, header.Header.Get("Content-Type"))
	if err != nil {
		respondError(w, http.StatusBadGateway, "Photo analysis failed")
		return
	}

	ordered := suggest.Order(suggestions)

	// Audit trail; a marshal failure here must not fail the analysis
	if raw, err := json.Marshal(ordered); err == nil {
		record := models.ScanRecord{
			UserID:      middleware.UserID(req),
			ItemCount:   len(ordered),
			Suggestions: datatypes.JSON(raw),
		}
		r.db.Create(&record)
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"suggestions": ordered,
	})
}

// CommitScanRequest carries the reviewed suggestions for one shelf
type CommitScanRequest struct {
	ShelfID     string               `json:"shelfId"`
	Suggestions []suggest.Suggestion `json:"suggestions"`
}

// commitScan creates the included suggestions as items. Creation is best
// effort: the response reports how many of the attempted items landed.
func (r *Router) commitScan(w http.ResponseWriter, req *http.Request) {
	var commitReq CommitScanRequest
	if err := json.NewDecoder(req.Body).Decode(&commitReq); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	shelf, err := r.ownedShelf(req, commitReq.ShelfID)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	result, err := r.committer.Commit(shelf.ID, commitReq.Suggestions)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	r.broadcast(shelf.WarehouseID, "items.scanned", result)
	respondJSON(w, http.StatusOK, result)
}

// scansToday reports the caller's scan activity since local midnight
func (r *Router) scansToday(w http.ResponseWriter, req *http.Request) {
	now := time.Now()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	var records []models.ScanRecord
	err := r.db.
		Where("user_id = ? AND created_at >= ?", middleware.UserID(req), midnight).
		Order("created_at DESC").
		Find(&records).Error
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to load scans")
		return
	}

	totalItems := 0
	for _, record := range records {
		totalItems += record.ItemCount
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"scans":      records,
		"scanCount":  len(records),
		"totalItems": totalItems,
	})
}
