package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/lodgeworks/inventory-ledger/internal/auth"
	"github.com/lodgeworks/inventory-ledger/internal/core/domain"
	"github.com/lodgeworks/inventory-ledger/internal/core/service"
	"github.com/lodgeworks/inventory-ledger/internal/port"
)

type HTTPHandler struct {
	ledger    *service.LedgerService
	inventory *service.InventoryService
	vendors   *service.VendorService
	reports   *service.ReportService
	auth      *service.AuthService
	tokens    *auth.TokenManager
	validate  *validator.Validate
	logger    *logrus.Logger
}

func NewHTTPHandler(
	ledger *service.LedgerService,
	inventory *service.InventoryService,
	vendors *service.VendorService,
	reports *service.ReportService,
	authService *service.AuthService,
	tokens *auth.TokenManager,
	logger *logrus.Logger,
) *HTTPHandler {
	return &HTTPHandler{
		ledger:    ledger,
		inventory: inventory,
		vendors:   vendors,
		reports:   reports,
		auth:      authService,
		tokens:    tokens,
		validate:  validator.New(),
		logger:    logger,
	}
}

func (h *HTTPHandler) RegisterRoutes(r *gin.Engine) {
	r.GET("/health", h.HealthCheck)
	r.POST("/auth/login", h.Login)

	api := r.Group("", h.Authenticate)
	api.GET("/inventory", h.ListItems)
	api.POST("/inventory", RequireRole(domain.RoleManager, domain.RoleAdmin), h.CreateItem)
	api.GET("/inventory/:id", h.GetItem)
	api.PUT("/inventory/:id", RequireRole(domain.RoleManager, domain.RoleAdmin), h.UpdateItem)
	api.DELETE("/inventory/:id", RequireRole(domain.RoleAdmin), h.DeleteItem)
	api.GET("/inventory/:id/stock-transactions", h.ListTransactions)
	api.POST("/inventory/:id/stock-transactions", RequireRole(domain.RoleManager, domain.RoleAdmin), h.RecordTransaction)
	api.GET("/vendors", h.ListVendors)
	api.POST("/vendors", RequireRole(domain.RoleManager, domain.RoleAdmin), h.CreateVendor)
	api.GET("/reports/low-stock", h.LowStockReport)
	api.GET("/reports/inventory-value", RequireRole(domain.RoleManager, domain.RoleAdmin), h.InventoryValuation)
}

func (h *HTTPHandler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func (h *HTTPHandler) Login(c *gin.Context) {
	var req loginRequest
	if !h.bind(c, &req) {
		return
	}
	token, user, err := h.auth.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user": gin.H{
			"id":          user.ID,
			"username":    user.Username,
			"displayName": user.DisplayName,
			"role":        user.Role,
		},
	})
}

type stockTransactionRequest struct {
	TransactionType string           `json:"transactionType" validate:"required"`
	Quantity        int              `json:"quantity" validate:"required"`
	TransactionDate time.Time        `json:"transactionDate" validate:"required"`
	VendorID        *int64           `json:"vendorId"`
	ReductionReason *string          `json:"reductionReason"`
	UnitCost        *decimal.Decimal `json:"unitCost"`
	Notes           string           `json:"notes"`
	CreatedByUserID *int64           `json:"createdByUserId"`
}

func (h *HTTPHandler) RecordTransaction(c *gin.Context) {
	id, ok := h.paramID(c)
	if !ok {
		return
	}
	var req stockTransactionRequest
	if !h.bind(c, &req) {
		return
	}

	domainReq := domain.TransactionRequest{
		InventoryID:     id,
		Type:            domain.TransactionType(req.TransactionType),
		Quantity:        req.Quantity,
		TransactionDate: req.TransactionDate,
		VendorID:        req.VendorID,
		UnitCost:        toNullDecimal(req.UnitCost),
		Notes:           req.Notes,
		CreatedByUserID: req.CreatedByUserID,
		RequestID:       c.GetHeader("X-Request-ID"),
	}
	if req.ReductionReason != nil {
		reason := domain.ReductionReason(*req.ReductionReason)
		domainReq.Reason = &reason
	}

	record, err := h.ledger.RecordTransaction(c.Request.Context(), domainReq)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toTransactionResponse(*record))
}

func (h *HTTPHandler) ListTransactions(c *gin.Context) {
	id, ok := h.paramID(c)
	if !ok {
		return
	}
	records, err := h.ledger.ListTransactions(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	out := make([]transactionResponse, 0, len(records))
	for _, rec := range records {
		out = append(out, toTransactionResponse(rec))
	}
	c.JSON(http.StatusOK, out)
}

type itemRequest struct {
	Name         string           `json:"name" validate:"required"`
	Description  string           `json:"description"`
	Category     string           `json:"category"`
	Location     string           `json:"location"`
	MinimumStock *int             `json:"minimumStock"`
	UnitCost     *decimal.Decimal `json:"unitCost"`
	Notes        string           `json:"notes"`
}

func (r itemRequest) toInput() service.ItemInput {
	return service.ItemInput{
		Name:         r.Name,
		Description:  r.Description,
		Category:     r.Category,
		Location:     r.Location,
		MinimumStock: r.MinimumStock,
		UnitCost:     toNullDecimal(r.UnitCost),
		Notes:        r.Notes,
	}
}

func (h *HTTPHandler) CreateItem(c *gin.Context) {
	var req itemRequest
	if !h.bind(c, &req) {
		return
	}
	item, err := h.inventory.CreateItem(c.Request.Context(), req.toInput())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toItemResponse(*item))
}

func (h *HTTPHandler) UpdateItem(c *gin.Context) {
	id, ok := h.paramID(c)
	if !ok {
		return
	}
	var req itemRequest
	if !h.bind(c, &req) {
		return
	}
	item, err := h.inventory.UpdateItem(c.Request.Context(), id, req.toInput())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toItemResponse(*item))
}

func (h *HTTPHandler) GetItem(c *gin.Context) {
	id, ok := h.paramID(c)
	if !ok {
		return
	}
	item, err := h.inventory.GetItem(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toItemResponse(*item))
}

func (h *HTTPHandler) ListItems(c *gin.Context) {
	items, err := h.inventory.ListItems(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	out := make([]itemResponse, 0, len(items))
	for _, item := range items {
		out = append(out, toItemResponse(item))
	}
	c.JSON(http.StatusOK, out)
}

func (h *HTTPHandler) DeleteItem(c *gin.Context) {
	id, ok := h.paramID(c)
	if !ok {
		return
	}
	cascade := c.Query("cascade") == "true"
	if err := h.inventory.DeleteItem(c.Request.Context(), id, cascade); err != nil {
		h.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type vendorRequest struct {
	Name   string `json:"name" validate:"required"`
	Active *bool  `json:"active"`
}

func (h *HTTPHandler) CreateVendor(c *gin.Context) {
	var req vendorRequest
	if !h.bind(c, &req) {
		return
	}
	active := true
	if req.Active != nil {
		active = *req.Active
	}
	vendor, err := h.vendors.CreateVendor(c.Request.Context(), req.Name, active)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toVendorResponse(*vendor))
}

func (h *HTTPHandler) ListVendors(c *gin.Context) {
	vendors, err := h.vendors.ListVendors(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	out := make([]vendorResponse, 0, len(vendors))
	for _, vendor := range vendors {
		out = append(out, toVendorResponse(vendor))
	}
	c.JSON(http.StatusOK, out)
}

func (h *HTTPHandler) LowStockReport(c *gin.Context) {
	rows, err := h.reports.LowStockReport(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

func (h *HTTPHandler) InventoryValuation(c *gin.Context) {
	report, err := h.reports.InventoryValuation(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// bind decodes the JSON body and runs struct validation, answering 400
// itself on failure.
func (h *HTTPHandler) bind(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return false
	}
	if err := h.validate.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return false
	}
	return true
}

func (h *HTTPHandler) paramID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return id, true
}

func (h *HTTPHandler) writeError(c *gin.Context, err error) {
	var validationErr *domain.ValidationError
	var stockErr *domain.InsufficientStockError

	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": validationErr.Error()})
	case domain.IsNotFound(err):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.As(err, &stockErr):
		c.JSON(http.StatusConflict, gin.H{
			"error":     stockErr.Error(),
			"available": stockErr.Available,
			"requested": stockErr.Requested,
		})
	case errors.Is(err, service.ErrDuplicateRequest):
		c.JSON(http.StatusConflict, gin.H{"error": "duplicate request"})
	case errors.Is(err, domain.ErrItemHasTransactions):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, port.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": "concurrent update, please retry"})
	case errors.Is(err, service.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
	default:
		h.logger.WithError(err).Error("internal error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

type itemResponse struct {
	ID                int64            `json:"id"`
	Name              string           `json:"name"`
	Description       string           `json:"description,omitempty"`
	Category          string           `json:"category,omitempty"`
	Location          string           `json:"location,omitempty"`
	Quantity          int              `json:"quantity"`
	MinimumStock      *int             `json:"minimumStock,omitempty"`
	UnitCost          *decimal.Decimal `json:"unitCost,omitempty"`
	LastRestockedDate *time.Time       `json:"lastRestockedDate,omitempty"`
	Notes             string           `json:"notes,omitempty"`
	CreatedAt         time.Time        `json:"createdAt"`
	UpdatedAt         time.Time        `json:"updatedAt"`
}

func toItemResponse(item domain.InventoryItem) itemResponse {
	return itemResponse{
		ID:                item.ID,
		Name:              item.Name,
		Description:       item.Description,
		Category:          item.Category,
		Location:          item.Location,
		Quantity:          item.Quantity,
		MinimumStock:      item.MinimumStock,
		UnitCost:          fromNullDecimal(item.UnitCost),
		LastRestockedDate: item.LastRestockedDate,
		Notes:             item.Notes,
		CreatedAt:         item.CreatedAt,
		UpdatedAt:         item.UpdatedAt,
	}
}

type transactionResponse struct {
	ID              int64            `json:"id"`
	InventoryID     int64            `json:"inventoryId"`
	ItemName        string           `json:"itemName"`
	TransactionType string           `json:"transactionType"`
	Quantity        int              `json:"quantity"`
	TransactionDate time.Time        `json:"transactionDate"`
	VendorID        *int64           `json:"vendorId,omitempty"`
	VendorName      string           `json:"vendorName,omitempty"`
	ReductionReason *string          `json:"reductionReason,omitempty"`
	UnitCost        *decimal.Decimal `json:"unitCost,omitempty"`
	Notes           string           `json:"notes,omitempty"`
	CreatedByUserID *int64           `json:"createdByUserId,omitempty"`
	RecordedBy      string           `json:"recordedBy,omitempty"`
	CreatedAt       time.Time        `json:"createdAt"`
}

func toTransactionResponse(rec domain.TransactionRecord) transactionResponse {
	resp := transactionResponse{
		ID:              rec.ID,
		InventoryID:     rec.InventoryID,
		ItemName:        rec.ItemName,
		TransactionType: string(rec.Type),
		Quantity:        rec.Quantity,
		TransactionDate: rec.TransactionDate,
		VendorID:        rec.VendorID,
		VendorName:      rec.VendorName,
		UnitCost:        fromNullDecimal(rec.UnitCost),
		Notes:           rec.Notes,
		CreatedByUserID: rec.CreatedByUserID,
		RecordedBy:      rec.RecordedBy,
		CreatedAt:       rec.CreatedAt,
	}
	if rec.Reason != nil {
		reason := string(*rec.Reason)
		resp.ReductionReason = &reason
	}
	return resp
}

type vendorResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"createdAt"`
}

func toVendorResponse(vendor domain.Vendor) vendorResponse {
	return vendorResponse{
		ID:        vendor.ID,
		Name:      vendor.Name,
		Active:    vendor.Active,
		CreatedAt: vendor.CreatedAt,
	}
}

func toNullDecimal(d *decimal.Decimal) decimal.NullDecimal {
	if d == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: *d, Valid: true}
}

func fromNullDecimal(d decimal.NullDecimal) *decimal.Decimal {
	if !d.Valid {
		return nil
	}
	v := d.Decimal
	return &v
}
