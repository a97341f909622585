package handlers

import (
	"net/http"

	"github.com/blsh/salon-dashboard/internal/models"
	"github.com/gin-gonic/gin"
)

// CatalogHandler lists the reference tables used to fill form dropdowns
type CatalogHandler struct {
	store TableReader
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(store TableReader) *CatalogHandler {
	return &CatalogHandler{store: store}
}

func (h *CatalogHandler) list(c *gin.Context, name models.TableName, key string) {
	records := h.store.LoadOrEmpty(name).Records()
	c.JSON(http.StatusOK, gin.H{
		key:     records,
		"count": len(records),
	})
}

// GetServices handles GET /api/v1/catalog/services
func (h *CatalogHandler) GetServices(c *gin.Context) {
	h.list(c, models.TableServicesCatalog, "services")
}

// GetEmployees handles GET /api/v1/catalog/employees
func (h *CatalogHandler) GetEmployees(c *gin.Context) {
	h.list(c, models.TableEmployees, "employees")
}

// GetBranches handles GET /api/v1/catalog/branches
func (h *CatalogHandler) GetBranches(c *gin.Context) {
	h.list(c, models.TableBranches, "branches")
}
