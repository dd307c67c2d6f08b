package dto

import (
	"time"

	"github.com/BruksfildServices01/autoshop-scheduler/internal/models"
)

type AppointmentListDTO struct {
	ID             uint       `json:"id"`
	Date           time.Time  `json:"date"`
	EndTime        time.Time  `json:"end_time"`
	Status         string     `json:"status"`
	CarModel       string     `json:"car_model"`
	LicensePlate   string     `json:"license_plate"`
	PhoneNumber    string     `json:"phone_number"`
	CustomerName   string     `json:"customer_name"`
	ServiceID      *uint      `json:"service_id,omitempty"`
	ServiceName    string     `json:"service_name,omitempty"`
	ActualDuration *int       `json:"actual_duration,omitempty"`
	WarrantyUntil  *time.Time `json:"warranty_until,omitempty"`
}

// NewAppointmentListDTO renders dates in loc. The end time uses the service
// duration when known and slotDuration otherwise.
func NewAppointmentListDTO(
	ap models.Appointment,
	loc *time.Location,
	slotDuration time.Duration,
) AppointmentListDTO {
	out := AppointmentListDTO{
		ID:             ap.ID,
		Date:           ap.Date.In(loc),
		Status:         ap.Status,
		CarModel:       ap.Snapshot.CarModel,
		LicensePlate:   ap.Snapshot.LicensePlate,
		PhoneNumber:    ap.Snapshot.PhoneNumber,
		CustomerName:   ap.Snapshot.CustomerName,
		ServiceID:      ap.ServiceID,
		ActualDuration: ap.ActualDuration,
	}

	duration := slotDuration
	if ap.Service != nil {
		out.ServiceName = ap.Service.Name
		if ap.Service.DurationMin > 0 {
			duration = time.Duration(ap.Service.DurationMin) * time.Minute
		}
	}
	out.EndTime = out.Date.Add(duration)

	if ap.WarrantyUntil != nil {
		w := ap.WarrantyUntil.In(loc)
		out.WarrantyUntil = &w
	}
	return out
}
