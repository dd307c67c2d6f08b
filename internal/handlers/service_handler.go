package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/autoshop-scheduler/internal/audit"
	"github.com/BruksfildServices01/autoshop-scheduler/internal/httperr"
	"github.com/BruksfildServices01/autoshop-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/autoshop-scheduler/internal/models"
)

type ServiceHandler struct {
	db    *gorm.DB
	audit *audit.Dispatcher
}

func NewServiceHandler(db *gorm.DB, audit *audit.Dispatcher) *ServiceHandler {
	return &ServiceHandler{db: db, audit: audit}
}

// --------- Requests ---------

type CreateServiceRequest struct {
	Name           string  `json:"name" binding:"required,max=100"`
	Description    string  `json:"description" binding:"max=255"`
	DurationMin    int     `json:"duration_min" binding:"required,min=1"`
	Price          float64 `json:"price" binding:"min=0"`
	WarrantyMonths int     `json:"warranty_months" binding:"min=0,max=120"`
}

type UpdateServiceRequest struct {
	Name           *string  `json:"name,omitempty" binding:"omitempty,max=100"`
	Description    *string  `json:"description,omitempty" binding:"omitempty,max=255"`
	DurationMin    *int     `json:"duration_min,omitempty" binding:"omitempty,min=1"`
	Price          *float64 `json:"price,omitempty" binding:"omitempty,min=0"`
	WarrantyMonths *int     `json:"warranty_months,omitempty" binding:"omitempty,min=0,max=120"`
}

// --------- Handlers ---------

// ListActive is the public catalog.
func (h *ServiceHandler) ListActive(c *gin.Context) {
	var services []models.Service
	if err := h.db.WithContext(c.Request.Context()).
		Where("status = ?", models.ServiceActive).
		Order("id ASC").
		Find(&services).Error; err != nil {

		httperr.Respond(c, httperr.ErrPersistence("list services", err))
		return
	}

	httpresp.List(c, services)
}

// List is the staff view, including retired services.
func (h *ServiceHandler) List(c *gin.Context) {
	status := strings.ToUpper(strings.TrimSpace(c.Query("status")))
	query := strings.ToLower(strings.TrimSpace(c.Query("query")))

	q := h.db.WithContext(c.Request.Context())

	if status != "" {
		q = q.Where("status = ?", status)
	}

	if query != "" {
		like := "%" + query + "%"
		q = q.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", like, like)
	}

	var services []models.Service
	if err := q.Order("id ASC").Find(&services).Error; err != nil {
		httperr.Respond(c, httperr.ErrPersistence("list services", err))
		return
	}

	httpresp.List(c, services)
}

func (h *ServiceHandler) Create(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req CreateServiceRequest
	if !bindJSON(c, &req) {
		return
	}

	service := models.Service{
		Name:           strings.TrimSpace(req.Name),
		Description:    strings.TrimSpace(req.Description),
		DurationMin:    req.DurationMin,
		Price:          req.Price,
		WarrantyMonths: req.WarrantyMonths,
		Status:         models.ServiceActive,
	}

	if err := h.db.WithContext(c.Request.Context()).Create(&service).Error; err != nil {
		httperr.Respond(c, httperr.ErrPersistence("create service", err))
		return
	}

	h.audit.Dispatch(c.Request.Context(), audit.Event{
		UserID:   &userID,
		Action:   "service_created",
		Entity:   "service",
		EntityID: &service.ID,
		Metadata: map[string]any{"name": service.Name},
	})

	c.JSON(http.StatusCreated, service)
}

func (h *ServiceHandler) Update(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	service, ok := h.load(c)
	if !ok {
		return
	}

	var req UpdateServiceRequest
	if !bindJSON(c, &req) {
		return
	}

	if req.Name != nil {
		service.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		service.Description = strings.TrimSpace(*req.Description)
	}
	if req.DurationMin != nil {
		service.DurationMin = *req.DurationMin
	}
	if req.Price != nil {
		service.Price = *req.Price
	}
	if req.WarrantyMonths != nil {
		service.WarrantyMonths = *req.WarrantyMonths
	}

	if err := h.db.WithContext(c.Request.Context()).Save(service).Error; err != nil {
		httperr.Respond(c, httperr.ErrPersistence("update service", err))
		return
	}

	h.audit.Dispatch(c.Request.Context(), audit.Event{
		UserID:   &userID,
		Action:   "service_updated",
		Entity:   "service",
		EntityID: &service.ID,
		Metadata: req,
	})

	c.JSON(http.StatusOK, service)
}

// Retire hides the service from the catalog. Existing appointments keep it.
func (h *ServiceHandler) Retire(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	service, ok := h.load(c)
	if !ok {
		return
	}

	if service.Status != models.ServiceRetired {
		if err := h.db.WithContext(c.Request.Context()).
			Model(service).
			Update("status", models.ServiceRetired).Error; err != nil {

			httperr.Respond(c, httperr.ErrPersistence("retire service", err))
			return
		}
		service.Status = models.ServiceRetired

		h.audit.Dispatch(c.Request.Context(), audit.Event{
			UserID:   &userID,
			Action:   "service_retired",
			Entity:   "service",
			EntityID: &service.ID,
		})
	}

	c.JSON(http.StatusOK, service)
}

func (h *ServiceHandler) load(c *gin.Context) (*models.Service, bool) {
	id, ok := paramID(c, "id")
	if !ok {
		return nil, false
	}

	var service models.Service
	if err := h.db.WithContext(c.Request.Context()).First(&service, id).Error; err != nil {
		if httperr.KindOf(err) == httperr.KindNotFound {
			httperr.NotFound(c, "service_not_found", "找不到此服務項目")
			return nil, false
		}
		httperr.Respond(c, httperr.ErrPersistence("get service", err))
		return nil, false
	}
	return &service, true
}
