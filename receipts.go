package main

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"budgetbe/models"
	"budgetbe/store"

	"github.com/disintegration/imaging"
	"github.com/gin-gonic/gin"
)

const maxReceiptSize = 5 * 1024 * 1024

// uploadReceiptHandler attaches a receipt file to one of the caller's
// expenses. Re-uploading replaces the previous attachment.
func (s *server) uploadReceiptHandler(c *gin.Context) {
	expense, ok := s.expenseFromParam(c)
	if !ok {
		return
	}
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"msg": "file missing"}})
		return
	}
	if file.Size > maxReceiptSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"msg": "file too large (max 5MB)"}})
		return
	}
	dir := filepath.Join(s.uploadBase, "receipts")
	if err := os.MkdirAll(dir, 0755); err != nil {
		s.log.Error().Err(err).Str("dir", dir).Msg("mkdir failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": gin.H{"msg": "save failed"}})
		return
	}
	name := fmt.Sprintf("%d_%s", expense.ID, filepath.Base(file.Filename))
	fullPath := filepath.Join(dir, name)
	if err := c.SaveUploadedFile(file, fullPath); err != nil {
		s.log.Error().Err(err).Str("path", fullPath).Msg("receipt save failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": gin.H{"msg": "save failed"}})
		return
	}
	contentType := file.Header.Get("Content-Type")
	thumbPath := s.makeThumbnail(fullPath, contentType)

	receipt, err := s.receipts.ByExpenseID(c.Request.Context(), expense.ID)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusInternalServerError, gin.H{"error": gin.H{"msg": "save failed"}})
			return
		}
		receipt = &models.Receipt{ExpenseID: expense.ID}
	}
	receipt.FileName = file.Filename
	receipt.StorePath = fullPath
	receipt.ThumbPath = thumbPath
	receipt.ContentType = contentType
	if err := s.receipts.Save(c.Request.Context(), receipt); err != nil {
		s.log.Error().Err(err).Uint("expense_id", expense.ID).Msg("receipt record save failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": gin.H{"msg": "save failed"}})
		return
	}
	c.JSON(http.StatusOK, receipt)
}

func (s *server) getReceiptHandler(c *gin.Context) {
	expense, ok := s.expenseFromParam(c)
	if !ok {
		return
	}
	receipt, err := s.receipts.ByExpenseID(c.Request.Context(), expense.ID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": gin.H{"msg": "receipt not found"}})
		return
	}
	c.JSON(http.StatusOK, receipt)
}

// expenseFromParam resolves the :id route parameter to an expense the caller
// may touch, writing the error response itself when that fails.
func (s *server) expenseFromParam(c *gin.Context) (*models.Expense, bool) {
	if _, ok := callerID(c); !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": gin.H{"msg": "user not found"}})
		return nil, false
	}
	id64, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": []fieldError{{Param: "id", Msg: "Id must be a number"}}})
		return nil, false
	}
	expense, err := s.expenses.ByID(c.Request.Context(), uint(id64))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": gin.H{"msg": "Expense not found"}})
			return nil, false
		}
		s.log.Error().Err(err).Uint64("id", id64).Msg("expense lookup failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": gin.H{"msg": "lookup failed"}})
		return nil, false
	}
	if !s.canModify(c, expense) {
		c.JSON(http.StatusForbidden, gin.H{"error": gin.H{"msg": "Not allowed"}})
		return nil, false
	}
	return expense, true
}

// makeThumbnail writes a bounded-size JPEG sidecar next to an uploaded image.
// Non-image uploads (or undecodable files) get no thumbnail.
func (s *server) makeThumbnail(fullPath, contentType string) string {
	if !strings.HasPrefix(contentType, "image/") {
		return ""
	}
	img, err := imaging.Open(fullPath)
	if err != nil {
		s.log.Warn().Err(err).Str("path", fullPath).Msg("thumbnail decode failed")
		return ""
	}
	thumb := imaging.Fit(img, 400, 400, imaging.Lanczos)
	thumbPath := strings.TrimSuffix(fullPath, filepath.Ext(fullPath)) + "_thumb.jpg"
	if err := imaging.Save(thumb, thumbPath); err != nil {
		s.log.Warn().Err(err).Str("path", thumbPath).Msg("thumbnail save failed")
		return ""
	}
	return thumbPath
}
