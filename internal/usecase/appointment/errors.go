package appointment

import (
	"github.com/BruksfildServices01/autoshop-scheduler/internal/domain/calendar"
	"github.com/BruksfildServices01/autoshop-scheduler/internal/httperr"
)

var (
	errInvalidSlot     = httperr.ErrValidation("invalid_slot", "預約時間必須是營業時段的開始時間")
	errBeyondHorizon   = httperr.ErrValidation("beyond_horizon", "超出可預約的日期範圍")
	errServiceInactive = httperr.ErrNotFound("service_not_found", "找不到此服務項目")
	errMissingCarModel = httperr.ErrValidation("missing_car_model", "請填寫車型")
	errInvalidStatus   = httperr.ErrValidation("invalid_status", "不支援的預約狀態")
	errStaffOnly       = httperr.ErrUnauthorized("staff_only", "僅限店家人員操作")
	errNotOwner        = httperr.ErrUnauthorized("not_your_appointment", "只能取消自己的預約")
)

// slotUnavailable maps a calendar reason to the error shown to the customer.
func slotUnavailable(reason string) error {
	switch reason {
	case calendar.ReasonPast:
		return httperr.ErrValidation("slot_in_past", "無法預約過去的時段")
	case calendar.ReasonHoliday:
		return httperr.ErrValidation("holiday", "該日為休假日，無法預約")
	case calendar.ReasonClosedDay:
		return httperr.ErrValidation("closed_day", "該日為公休日，無法預約")
	case calendar.ReasonTooSoon:
		return httperr.ErrValidation("too_soon", "預約需提前至少一段緩衝時間")
	default:
		return httperr.ErrValidation("slot_unavailable", "此時段無法預約")
	}
}
