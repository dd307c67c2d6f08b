package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/autoshop-scheduler/internal/httperr"
	"github.com/BruksfildServices01/autoshop-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/autoshop-scheduler/internal/models"
)

const (
	auditDefaultLimit = 50
	auditMaxLimit     = 200
)

type AuditLogsHandler struct {
	db  *gorm.DB
	loc *time.Location
}

func NewAuditLogsHandler(db *gorm.DB, loc *time.Location) *AuditLogsHandler {
	return &AuditLogsHandler{db: db, loc: loc}
}

// AuditLogQuery filters the staff audit trail. from/to are shop-local days, both inclusive.
type AuditLogQuery struct {
	Action    string `form:"action"`
	Entity    string `form:"entity"`
	EntityID  *uint  `form:"entity_id"`
	UserID    *uint  `form:"user_id"`
	RequestID string `form:"request_id" binding:"max=64"`
	From      string `form:"from"`
	To        string `form:"to"`
	Page      int    `form:"page" binding:"omitempty,min=1"`
	Limit     int    `form:"limit" binding:"omitempty,min=1"`
}

func (q *AuditLogQuery) pagination() (page, limit int) {
	page, limit = q.Page, q.Limit
	if page == 0 {
		page = 1
	}
	if limit == 0 {
		limit = auditDefaultLimit
	}
	if limit > auditMaxLimit {
		limit = auditMaxLimit
	}
	return page, limit
}

func (q *AuditLogQuery) apply(db *gorm.DB, loc *time.Location) (*gorm.DB, error) {
	if q.Action != "" {
		db = db.Where("action = ?", q.Action)
	}
	if q.Entity != "" {
		db = db.Where("entity = ?", q.Entity)
	}
	if q.EntityID != nil {
		db = db.Where("entity_id = ?", *q.EntityID)
	}
	if q.UserID != nil {
		db = db.Where("user_id = ?", *q.UserID)
	}
	if q.RequestID != "" {
		db = db.Where("request_id = ?", q.RequestID)
	}

	if q.From != "" {
		from, err := parseDateIn(loc, q.From)
		if err != nil {
			return nil, err
		}
		db = db.Where("created_at >= ?", from.UTC())
	}
	if q.To != "" {
		to, err := parseDateIn(loc, q.To)
		if err != nil {
			return nil, err
		}
		db = db.Where("created_at < ?", to.AddDate(0, 0, 1).UTC())
	}
	return db, nil
}

func (h *AuditLogsHandler) List(c *gin.Context) {
	var query AuditLogQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		writeBindError(c, err)
		return
	}

	base := h.db.WithContext(c.Request.Context()).Model(&models.AuditLog{})
	filtered, err := query.apply(base, h.loc)
	if err != nil {
		httperr.BadRequest(c, "invalid_date", "日期格式需為 YYYY-MM-DD")
		return
	}

	var total int64
	if err := filtered.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		httperr.Respond(c, httperr.ErrPersistence("count audit logs", err))
		return
	}

	page, limit := query.pagination()

	var logs []models.AuditLog
	if err := filtered.Session(&gorm.Session{}).
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&logs).Error; err != nil {

		httperr.Respond(c, httperr.ErrPersistence("list audit logs", err))
		return
	}

	httpresp.Page(c, logs, total, page, limit)
}
