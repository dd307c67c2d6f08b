package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/BruksfildServices01/autoshop-scheduler/internal/domain/identity"
	"github.com/BruksfildServices01/autoshop-scheduler/internal/httperr"
	"github.com/BruksfildServices01/autoshop-scheduler/internal/models"
)

func errorsIsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// --------------------------------------------------
// Customer
// --------------------------------------------------

func (r *AppointmentGormRepository) FindCustomerByPhone(
	ctx context.Context,
	phone string,
) (*models.Customer, error) {

	var customers []models.Customer
	if err := r.db.WithContext(ctx).
		Where("phone = ?", phone).
		Limit(1).
		Find(&customers).Error; err != nil {
		return nil, httperr.ErrPersistence("find customer", err)
	}

	if len(customers) == 0 {
		return nil, nil
	}
	return &customers[0], nil
}

func (r *AppointmentGormRepository) CreateCustomer(
	ctx context.Context,
	c *models.Customer,
) (bool, error) {

	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "phone"}},
			DoNothing: true,
		}).
		Create(c)

	if res.Error != nil {
		return false, httperr.ErrPersistence("create customer", res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (r *AppointmentGormRepository) FillCustomerName(
	ctx context.Context,
	customerID uint,
	name string,
) error {

	// never overwrites a name that is already there
	err := r.db.WithContext(ctx).
		Model(&models.Customer{}).
		Where("id = ? AND (name IS NULL OR name = '')", customerID).
		Update("name", name).Error

	return httperr.ErrPersistence("fill customer name", err)
}

// --------------------------------------------------
// Vehicle
// --------------------------------------------------

func (r *AppointmentGormRepository) FindVehicleByPlate(
	ctx context.Context,
	plate string,
) (*models.Vehicle, error) {

	var vehicles []models.Vehicle
	if err := r.db.WithContext(ctx).
		Where("license_plate = ?", plate).
		Limit(1).
		Find(&vehicles).Error; err != nil {
		return nil, httperr.ErrPersistence("find vehicle", err)
	}

	if len(vehicles) == 0 {
		return nil, nil
	}
	return &vehicles[0], nil
}

func (r *AppointmentGormRepository) CreateVehicle(
	ctx context.Context,
	v *models.Vehicle,
) (bool, error) {

	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "license_plate"}},
			DoNothing: true,
		}).
		Create(v)

	if res.Error != nil {
		return false, httperr.ErrPersistence("create vehicle", res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (r *AppointmentGormRepository) SetVehicleModel(
	ctx context.Context,
	vehicleID uint,
	carModel string,
) error {

	err := r.db.WithContext(ctx).
		Model(&models.Vehicle{}).
		Where("id = ?", vehicleID).
		Update("car_model", carModel).Error

	return httperr.ErrPersistence("update vehicle model", err)
}

var _ identity.Store = (*AppointmentGormRepository)(nil)
