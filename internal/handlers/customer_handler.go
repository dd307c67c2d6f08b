package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/autoshop-scheduler/internal/audit"
	"github.com/BruksfildServices01/autoshop-scheduler/internal/httperr"
	"github.com/BruksfildServices01/autoshop-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/autoshop-scheduler/internal/models"
	"github.com/BruksfildServices01/autoshop-scheduler/internal/validators"
)

type CustomerHandler struct {
	db    *gorm.DB
	audit *audit.Dispatcher
}

func NewCustomerHandler(db *gorm.DB, audit *audit.Dispatcher) *CustomerHandler {
	return &CustomerHandler{db: db, audit: audit}
}

type UpdateCustomerRequest struct {
	Name  *string `json:"name,omitempty" binding:"omitempty,max=100"`
	Notes *string `json:"notes,omitempty" binding:"omitempty,max=500"`
}

// ======================================================
// LIST CUSTOMERS
// ======================================================
func (h *CustomerHandler) List(c *gin.Context) {
	query := strings.ToLower(strings.TrimSpace(c.Query("query")))

	q := h.db.WithContext(c.Request.Context()).Preload("Vehicles")

	if query != "" {
		like := "%" + query + "%"
		q = q.Where(
			"LOWER(name) LIKE ? OR phone LIKE ?",
			like, "%"+validators.NormalizePhone(query)+"%",
		)
	}

	var customers []models.Customer
	if err := q.
		Order("created_at DESC").
		Find(&customers).Error; err != nil {

		httperr.Respond(c, httperr.ErrPersistence("list customers", err))
		return
	}

	httpresp.List(c, customers)
}

// ======================================================
// UPDATE (staff may overwrite the name)
// ======================================================
func (h *CustomerHandler) Update(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req UpdateCustomerRequest
	if !bindJSON(c, &req) {
		return
	}

	ctx := c.Request.Context()

	var customer models.Customer
	if err := h.db.WithContext(ctx).First(&customer, id).Error; err != nil {
		if httperr.KindOf(err) == httperr.KindNotFound {
			httperr.NotFound(c, "customer_not_found", "找不到此客戶")
			return
		}
		httperr.Respond(c, httperr.ErrPersistence("get customer", err))
		return
	}

	updates := map[string]any{}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			updates["name"] = nil
		} else {
			updates["name"] = name
		}
	}
	if req.Notes != nil {
		updates["notes"] = strings.TrimSpace(*req.Notes)
	}

	if len(updates) > 0 {
		if err := h.db.WithContext(ctx).Model(&customer).Updates(updates).Error; err != nil {
			httperr.Respond(c, httperr.ErrPersistence("update customer", err))
			return
		}
		if err := h.db.WithContext(ctx).First(&customer, id).Error; err != nil {
			httperr.Respond(c, httperr.ErrPersistence("reload customer", err))
			return
		}

		h.audit.Dispatch(ctx, audit.Event{
			UserID:   &userID,
			Action:   "customer_updated",
			Entity:   "customer",
			EntityID: &customer.ID,
			Metadata: updates,
		})
	}

	c.JSON(http.StatusOK, customer)
}

// ======================================================
// VEHICLES
// ======================================================
func (h *CustomerHandler) ListVehicles(c *gin.Context) {
	q := h.db.WithContext(c.Request.Context())

	if plate := validators.NormalizeLicensePlate(c.Query("plate")); plate != "" {
		q = q.Where("license_plate LIKE ?", "%"+plate+"%")
	}

	if customerStr := c.Query("customer_id"); customerStr != "" {
		customerID, err := strconv.ParseUint(customerStr, 10, 64)
		if err != nil {
			httperr.BadRequest(c, "invalid_customer_id", "客戶編號格式錯誤")
			return
		}
		q = q.Where("customer_id = ?", customerID)
	}

	var vehicles []models.Vehicle
	if err := q.Order("license_plate ASC").Find(&vehicles).Error; err != nil {
		httperr.Respond(c, httperr.ErrPersistence("list vehicles", err))
		return
	}

	httpresp.List(c, vehicles)
}
