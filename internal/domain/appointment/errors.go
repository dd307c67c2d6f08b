package appointment

import "github.com/BruksfildServices01/autoshop-scheduler/internal/httperr"

var (
	ErrSlotTaken   = httperr.ErrConflict("slot_taken", "此時段已被預約，請選擇其他時段")
	ErrSlotBlocked = httperr.ErrConflict("slot_blocked", "此時段暫停預約，請選擇其他時段")
)
