package handlers

import (
	"net/http"

	"github.com/blsh/salon-dashboard/internal/models"
	"github.com/blsh/salon-dashboard/internal/services"
	"github.com/gin-gonic/gin"
)

// SalesHandler serves the home, service sales and product sales tabs
type SalesHandler struct {
	store    TableReader
	clock    *services.TimeNormalizer
	sales    *services.SalesService
	products *services.ProductService
}

// NewSalesHandler creates a new sales handler
func NewSalesHandler(store TableReader, clock *services.TimeNormalizer, sales *services.SalesService, products *services.ProductService) *SalesHandler {
	return &SalesHandler{
		store:    store,
		clock:    clock,
		sales:    sales,
		products: products,
	}
}

func (h *SalesHandler) serviceSales() *models.TimedTable {
	return h.clock.Normalize(h.store.LoadOrEmpty(models.TableServiceSales))
}

func (h *SalesHandler) productSales() *models.TimedTable {
	return h.clock.Normalize(h.store.LoadOrEmpty(models.TableProductSales))
}

func monthFilter(c *gin.Context) string {
	return c.DefaultQuery("month", services.AllMonths)
}

// GetSummary handles GET /api/v1/dashboard/summary
func (h *SalesHandler) GetSummary(c *gin.Context) {
	summary := h.sales.Summary(h.serviceSales())
	products := h.products.Summary(h.productSales())
	summary.ProductRevenue = products.TotalRevenue
	summary.ProductsSold = products.TotalSales
	summary.ProductsToday = products.SoldToday
	c.JSON(http.StatusOK, summary)
}

// GetCumulative handles GET /api/v1/services/cumulative
func (h *SalesHandler) GetCumulative(c *gin.Context) {
	c.JSON(http.StatusOK, h.sales.Cumulative(h.serviceSales()))
}

// GetIncentives handles GET /api/v1/services/incentives
func (h *SalesHandler) GetIncentives(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"incentives": h.sales.Incentives(h.serviceSales())})
}

// GetPerformance handles GET /api/v1/services/performance?month=
func (h *SalesHandler) GetPerformance(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"performance": h.sales.Performance(h.serviceSales(), monthFilter(c))})
}

// GetPeakHours handles GET /api/v1/services/peak-hours
func (h *SalesHandler) GetPeakHours(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"peak_hours": h.sales.PeakHours(h.serviceSales())})
}

// GetWeekdays handles GET /api/v1/services/weekdays
func (h *SalesHandler) GetWeekdays(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"weekdays": h.sales.Weekdays(h.serviceSales())})
}

// GetServiceCounts handles GET /api/v1/services/service-counts?month=
func (h *SalesHandler) GetServiceCounts(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"services": h.sales.ServiceCounts(h.serviceSales(), monthFilter(c))})
}

// GetTopClients handles GET /api/v1/services/top-clients
func (h *SalesHandler) GetTopClients(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"clients": h.sales.TopClients(h.serviceSales())})
}

// GetBottomClients handles GET /api/v1/services/bottom-clients
func (h *SalesHandler) GetBottomClients(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"clients": h.sales.BottomClients(h.serviceSales())})
}

// GetSpendVsVisits handles GET /api/v1/services/spend-vs-visits
func (h *SalesHandler) GetSpendVsVisits(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"clients": h.sales.SpendVsVisits(h.serviceSales())})
}

// GetLastVisits handles GET /api/v1/services/last-visits
func (h *SalesHandler) GetLastVisits(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"clients": h.sales.LastVisits(h.serviceSales())})
}

// GetEmployeeRankings handles GET /api/v1/services/employee-rankings
func (h *SalesHandler) GetEmployeeRankings(c *gin.Context) {
	tt := h.serviceSales()
	c.JSON(http.StatusOK, gin.H{
		"by_services": h.sales.EmployeeServiceRanking(tt),
		"by_revenue":  h.sales.EmployeeRevenueRanking(tt),
	})
}

// GetMonths handles GET /api/v1/services/months
func (h *SalesHandler) GetMonths(c *gin.Context) {
	months := append([]string{services.AllMonths}, h.sales.Months(h.serviceSales())...)
	c.JSON(http.StatusOK, gin.H{"months": months})
}

// GetProductSummary handles GET /api/v1/products/summary
func (h *SalesHandler) GetProductSummary(c *gin.Context) {
	c.JSON(http.StatusOK, h.products.Summary(h.productSales()))
}

// GetProductIncentives handles GET /api/v1/products/incentives
func (h *SalesHandler) GetProductIncentives(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"incentives": h.products.Incentives(h.productSales())})
}

// GetProductEmployeeSales handles GET /api/v1/products/employee-sales
func (h *SalesHandler) GetProductEmployeeSales(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"employees": h.products.EmployeeSales(h.productSales())})
}

// GetProductEmployeeRevenue handles GET /api/v1/products/employee-revenue
func (h *SalesHandler) GetProductEmployeeRevenue(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"employees": h.products.EmployeeRevenue(h.productSales())})
}

// GetTopProducts handles GET /api/v1/products/top-products
func (h *SalesHandler) GetTopProducts(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"products": h.products.TopProducts(h.productSales())})
}

// GetProductSalesByDay handles GET /api/v1/products/sales-by-day
func (h *SalesHandler) GetProductSalesByDay(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"days": h.products.SalesByDay(h.productSales())})
}
