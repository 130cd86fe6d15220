package httpserver

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/Ayoublby/full-store/internal/domain"
	"github.com/Ayoublby/full-store/internal/imagestore"
	productrepo "github.com/Ayoublby/full-store/internal/repository/product"
)

type handlers struct {
	products productrepo.Repository
	images   *imagestore.Store
	logger   zerolog.Logger
}

func (h *handlers) listProducts(c *gin.Context) {
	products, err := h.products.ListAll(c.Request.Context())
	if err != nil {
		respondFromError(c, err, "could not load products")
		return
	}
	respondList(c, products, len(products))
}

func (h *handlers) getProduct(c *gin.Context) {
	p, err := h.products.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondFromError(c, err, "could not load product")
		return
	}
	respondData(c, http.StatusOK, p)
}

func (h *handlers) createProduct(c *gin.Context) {
	var fields domain.Product
	if err := c.ShouldBindJSON(&fields); err != nil {
		respondError(c, http.StatusBadRequest, "invalid product payload")
		return
	}
	if err := validateProduct(fields); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	created, err := h.products.Create(c.Request.Context(), fields)
	if err != nil {
		respondFromError(c, err, "could not add product")
		return
	}
	respondCreated(c, "product added", created)
}

func (h *handlers) updateProduct(c *gin.Context) {
	var patch domain.ProductPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		respondError(c, http.StatusBadRequest, "invalid product payload")
		return
	}

	updated, err := h.products.Update(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		respondFromError(c, err, "could not update product")
		return
	}
	respondMessage(c, "product updated", updated)
}

func (h *handlers) deleteProduct(c *gin.Context) {
	// The bulk endpoint shares this route because gin cannot register a
	// static sibling next to :id within one method tree.
	if c.Param("id") == "bulk-delete" {
		h.bulkDeleteProducts(c)
		return
	}

	if err := h.products.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondFromError(c, err, "could not delete product")
		return
	}
	respondMessage(c, "product deleted", nil)
}

type bulkUpdateRequest struct {
	IDs     []string            `json:"ids"`
	Updates domain.ProductPatch `json:"updates"`
}

func (h *handlers) bulkUpdateProducts(c *gin.Context) {
	var req bulkUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid bulk update payload")
		return
	}
	if len(req.IDs) == 0 {
		respondError(c, http.StatusBadRequest, "no products selected for update")
		return
	}

	count, err := h.products.BulkUpdate(c.Request.Context(), req.IDs, req.Updates)
	if err != nil {
		respondFromError(c, err, "could not apply bulk update")
		return
	}
	respondMessage(c, fmt.Sprintf("%d products updated", count), gin.H{"updatedCount": count})
}

type bulkDeleteRequest struct {
	IDs []string `json:"ids"`
}

func (h *handlers) bulkDeleteProducts(c *gin.Context) {
	var req bulkDeleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid bulk delete payload")
		return
	}
	if len(req.IDs) == 0 {
		respondError(c, http.StatusBadRequest, "no products selected for deletion")
		return
	}

	count, err := h.products.BulkDelete(c.Request.Context(), req.IDs)
	if err != nil {
		respondFromError(c, err, "could not apply bulk delete")
		return
	}
	respondMessage(c, fmt.Sprintf("%d products deleted", count), gin.H{"deletedCount": count})
}

func (h *handlers) stats(c *gin.Context) {
	stats, err := h.products.Stats(c.Request.Context())
	if err != nil {
		respondFromError(c, err, "could not load statistics")
		return
	}
	respondData(c, http.StatusOK, stats)
}

func validateProduct(p domain.Product) error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("%w: product name is required", domain.ErrValidation)
	}
	if p.Price < 0 {
		return fmt.Errorf("%w: price must not be negative", domain.ErrValidation)
	}
	if p.Category != "" {
		if _, ok := domain.Categories[p.Category]; !ok {
			return fmt.Errorf("%w: unknown category %q", domain.ErrValidation, p.Category)
		}
	}
	return nil
}
