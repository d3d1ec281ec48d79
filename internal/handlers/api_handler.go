package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"pos_manager/internal/models"
	"pos_manager/internal/repository"
	"pos_manager/internal/services"
	"pos_manager/internal/settlement"
)

type APIHandler struct {
	orderService   services.OrderService
	tableService   services.TableService
	staffService   services.StaffService
	paymentService services.PaymentService
}

func NewAPIHandler(
	orderService services.OrderService,
	tableService services.TableService,
	staffService services.StaffService,
	paymentService services.PaymentService,
) *APIHandler {
	return &APIHandler{
		orderService:   orderService,
		tableService:   tableService,
		staffService:   staffService,
		paymentService: paymentService,
	}
}

func statusForError(err error) int {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, repository.ErrAlreadyPaid),
		errors.Is(err, repository.ErrNotPaid),
		errors.Is(err, repository.ErrTableOccupied),
		errors.Is(err, services.ErrInvalidTransition):
		return http.StatusConflict
	case errors.Is(err, services.ErrUnknownMethod):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrInvalidPIN):
		return http.StatusUnauthorized
	}
	return http.StatusInternalServerError
}

func abortWithError(c *gin.Context, err error) {
	c.JSON(statusForError(err), gin.H{"error": err.Error()})
}

// Order endpoints

func (h *APIHandler) CreateOrder(c *gin.Context) {
	var req struct {
		Items     []models.OrderItem `json:"items"`
		Subtotal  float64            `json:"subtotal"`
		Tax       float64            `json:"tax"`
		Discount  float64            `json:"discount"`
		TableID   string             `json:"table_id"`
		CreatedBy string             `json:"created_by"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}
	if len(req.Items) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Order must have at least one item"})
		return
	}
	for _, item := range req.Items {
		if item.Quantity < 1 || item.UnitPrice < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid item quantity or price"})
			return
		}
	}
	if req.Subtotal < 0 || req.Tax < 0 || req.Discount < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Totals must be non-negative"})
		return
	}

	order, err := h.orderService.CreateOrder(&models.Order{
		Items:     req.Items,
		Subtotal:  req.Subtotal,
		Tax:       req.Tax,
		Discount:  req.Discount,
		TableID:   req.TableID,
		CreatedBy: req.CreatedBy,
	})
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, order)
}

func (h *APIHandler) GetOrder(c *gin.Context) {
	order, err := h.orderService.GetOrder(c.Param("id"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *APIHandler) ListOrders(c *gin.Context) {
	var (
		orders []models.Order
		err    error
	)
	switch {
	case c.Query("status") == "pending":
		orders, err = h.orderService.ListPending()
	case c.Query("status") == "processing":
		orders, err = h.orderService.ListProcessing()
	case c.Query("unpaid") == "true":
		orders, err = h.orderService.ListUnpaid()
	case c.Query("table") != "":
		orders, err = h.orderService.ListByTable(c.Query("table"))
	case c.Query("today") == "true":
		orders, err = h.orderService.ListToday(time.Now())
	case c.Query("from") != "" && c.Query("to") != "":
		var from, to time.Time
		from, err = time.Parse(time.RFC3339, c.Query("from"))
		if err == nil {
			to, err = time.Parse(time.RFC3339, c.Query("to"))
		}
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date range"})
			return
		}
		orders, err = h.orderService.ListInRange(from, to)
	default:
		orders, err = h.orderService.ListOrders()
	}
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": orders, "count": len(orders)})
}

func (h *APIHandler) UpdateOrderStatus(c *gin.Context) {
	var req struct {
		Status models.OrderStatus `json:"status"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || !req.Status.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status"})
		return
	}
	if err := h.orderService.UpdateStatus(c.Param("id"), req.Status); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": c.Param("id"), "status": req.Status})
}

func (h *APIHandler) RefundOrder(c *gin.Context) {
	if err := h.orderService.RefundOrder(c.Param("id")); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": c.Param("id"), "payment_status": models.PaymentRefunded})
}

func (h *APIHandler) DeleteOrder(c *gin.Context) {
	if err := h.orderService.DeleteOrder(c.Param("id")); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": c.Param("id"), "status": "deleted"})
}

func (h *APIHandler) RevenueToday(c *gin.Context) {
	revenue, err := h.orderService.RevenueToday(time.Now())
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"revenue": revenue})
}

func (h *APIHandler) OrdersSummary(c *gin.Context) {
	average, err := h.orderService.AveragePaidOrderValue()
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"total_orders":             h.orderService.TotalCount(),
		"average_paid_order_value": average,
	})
}

func (h *APIHandler) StaffOrdersToday(c *gin.Context) {
	count, err := h.orderService.CountByStaffOnDay(c.Param("id"), time.Now())
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"staff_id": c.Param("id"), "orders": count})
}

// Table endpoints

func (h *APIHandler) CreateTable(c *gin.Context) {
	var req struct {
		Name string `json:"name"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Table name is required"})
		return
	}
	table, err := h.tableService.ProvisionTable(req.Name)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, table)
}

func (h *APIHandler) ListTables(c *gin.Context) {
	tables, err := h.tableService.ListTables()
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tables": tables})
}

func (h *APIHandler) AssignTable(c *gin.Context) {
	var req struct {
		OrderID string `json:"order_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.OrderID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "order_id is required"})
		return
	}
	if err := h.tableService.Assign(c.Param("id"), req.OrderID); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"table_id": c.Param("id"), "order_id": req.OrderID})
}

func (h *APIHandler) ReleaseTable(c *gin.Context) {
	if err := h.tableService.Release(c.Param("id")); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"table_id": c.Param("id"), "status": "released"})
}

// Staff endpoints

func (h *APIHandler) OnboardStaff(c *gin.Context) {
	var req struct {
		Name string           `json:"name"`
		Role models.StaffRole `json:"role"`
		PIN  string           `json:"pin"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Name == "" || !req.Role.Valid() || req.PIN == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name, role and pin are required"})
		return
	}
	staff, err := h.staffService.Onboard(req.Name, req.Role, req.PIN)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, staff)
}

func (h *APIHandler) ListStaff(c *gin.Context) {
	staff, err := h.staffService.ListStaff()
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"staff": staff})
}

func (h *APIHandler) VerifyStaffPIN(c *gin.Context) {
	var req struct {
		PIN string `json:"pin"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}
	if err := h.staffService.VerifyPIN(c.Param("id"), req.PIN); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"verified": true})
}

func (h *APIHandler) ToggleStaffStatus(c *gin.Context) {
	staff, err := h.staffService.ToggleStatus(c.Param("id"), time.Now())
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, staff)
}

func (h *APIHandler) SetStaffStatus(c *gin.Context) {
	var req struct {
		Status models.DutyStatus `json:"status"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || !req.Status.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status"})
		return
	}
	staff, err := h.staffService.SetStatus(c.Param("id"), req.Status, time.Now())
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, staff)
}

func (h *APIHandler) StaffWorkedMinutes(c *gin.Context) {
	minutes, err := h.staffService.WorkedMinutes(c.Param("id"), time.Now())
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"staff_id": c.Param("id"), "worked_minutes": minutes})
}

func (h *APIHandler) DeleteStaff(c *gin.Context) {
	if err := h.staffService.DeleteStaff(c.Param("id")); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": c.Param("id"), "status": "deleted"})
}

func (h *APIHandler) BulkUpdateStaffRole(c *gin.Context) {
	var req struct {
		IDs  []string         `json:"ids"`
		Role models.StaffRole `json:"role"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || len(req.IDs) == 0 || !req.Role.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ids and a valid role are required"})
		return
	}
	if err := h.staffService.BulkUpdateRole(req.IDs, req.Role); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated": len(req.IDs)})
}

func (h *APIHandler) BulkUpdateStaffStatus(c *gin.Context) {
	var req struct {
		IDs    []string          `json:"ids"`
		Status models.DutyStatus `json:"status"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || len(req.IDs) == 0 || !req.Status.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ids and a valid status are required"})
		return
	}
	if err := h.staffService.BulkUpdateStatus(req.IDs, req.Status, time.Now()); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated": len(req.IDs)})
}

func (h *APIHandler) BulkDeleteStaff(c *gin.Context) {
	var req struct {
		IDs []string `json:"ids"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || len(req.IDs) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ids are required"})
		return
	}
	if err := h.staffService.BulkDelete(req.IDs); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": len(req.IDs)})
}

// Checkout endpoints

func (h *APIHandler) BeginCheckout(c *gin.Context) {
	var req struct {
		OrderID  string               `json:"order_id"`
		Customer *models.CustomerInfo `json:"customer"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.OrderID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "order_id is required"})
		return
	}
	session, err := h.paymentService.Begin(req.OrderID, req.Customer)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, session)
}

func (h *APIHandler) GetCheckout(c *gin.Context) {
	session, err := h.paymentService.Get(c.Param("id"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

func (h *APIHandler) SelectCheckoutMethod(c *gin.Context) {
	var req struct {
		Method models.PaymentMethod `json:"method"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || !req.Method.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payment method"})
		return
	}
	session, err := h.paymentService.SelectMethod(c.Param("id"), req.Method)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

func (h *APIHandler) SettleCheckout(c *gin.Context) {
	var req settlement.Params
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}
	session, err := h.paymentService.Settle(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		abortWithError(c, err)
		return
	}
	// A failed or timed-out settlement returns the session to method
	// selection; surface it as retryable.
	if session.Result != nil && session.Result.Status != models.SettlementSucceeded {
		c.JSON(http.StatusUnprocessableEntity, session)
		return
	}
	c.JSON(http.StatusOK, session)
}

func (h *APIHandler) CaptureCheckoutCustomer(c *gin.Context) {
	var req models.CustomerInfo
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}
	session, err := h.paymentService.CaptureCustomer(c.Param("id"), req)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

func (h *APIHandler) SkipCheckoutCustomer(c *gin.Context) {
	session, err := h.paymentService.SkipCustomer(c.Param("id"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

func (h *APIHandler) CancelCheckout(c *gin.Context) {
	if err := h.paymentService.Cancel(c.Param("id")); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": c.Param("id"), "status": "cancelled"})
}
