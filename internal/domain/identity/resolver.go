// Package identity binds a booking's phone number and license plate to
// persistent Customer and Vehicle records.
package identity

import (
	"context"
	"fmt"
	"strings"

	"github.com/BruksfildServices01/autoshop-scheduler/internal/models"
	"github.com/BruksfildServices01/autoshop-scheduler/internal/validators"
)

// Store is the persistence needed for find-or-create. Find methods return
// (nil, nil) when nothing matches. Create methods report created=false when a
// concurrent writer inserted the same key first.
type Store interface {
	FindCustomerByPhone(ctx context.Context, phone string) (*models.Customer, error)
	CreateCustomer(ctx context.Context, c *models.Customer) (bool, error)
	FillCustomerName(ctx context.Context, customerID uint, name string) error

	FindVehicleByPlate(ctx context.Context, plate string) (*models.Vehicle, error)
	CreateVehicle(ctx context.Context, v *models.Vehicle) (bool, error)
	SetVehicleModel(ctx context.Context, vehicleID uint, carModel string) error
}

type Input struct {
	Phone        string
	LicensePlate string
	CarModel     string
	CustomerName string
}

type Result struct {
	Customer *models.Customer
	Vehicle  *models.Vehicle

	// plate already belonged to another customer; the vehicle keeps its owner
	OwnerMismatch bool
}

func Resolve(ctx context.Context, store Store, in Input) (*Result, error) {
	phone := validators.NormalizePhone(in.Phone)
	plate := validators.NormalizeLicensePlate(in.LicensePlate)
	name := strings.TrimSpace(in.CustomerName)
	carModel := strings.TrimSpace(in.CarModel)

	customer, err := resolveCustomer(ctx, store, phone, name)
	if err != nil {
		return nil, err
	}

	vehicle, err := resolveVehicle(ctx, store, customer.ID, plate, carModel)
	if err != nil {
		return nil, err
	}

	return &Result{
		Customer:      customer,
		Vehicle:       vehicle,
		OwnerMismatch: vehicle.CustomerID != customer.ID,
	}, nil
}

func resolveCustomer(ctx context.Context, store Store, phone, name string) (*models.Customer, error) {
	customer, err := store.FindCustomerByPhone(ctx, phone)
	if err != nil {
		return nil, fmt.Errorf("find customer: %w", err)
	}

	if customer == nil {
		customer = &models.Customer{Phone: phone}
		if name != "" {
			customer.Name = &name
		}

		created, err := store.CreateCustomer(ctx, customer)
		if err != nil {
			return nil, fmt.Errorf("create customer: %w", err)
		}
		if created {
			return customer, nil
		}

		// lost the insert race; use the winner's row
		customer, err = store.FindCustomerByPhone(ctx, phone)
		if err != nil {
			return nil, fmt.Errorf("find customer: %w", err)
		}
		if customer == nil {
			return nil, fmt.Errorf("customer %s vanished after conflict", phone)
		}
	}

	// name is set once; only staff edits overwrite it
	if !customer.HasName() && name != "" {
		if err := store.FillCustomerName(ctx, customer.ID, name); err != nil {
			return nil, fmt.Errorf("fill customer name: %w", err)
		}
		customer.Name = &name
	}

	return customer, nil
}

func resolveVehicle(ctx context.Context, store Store, customerID uint, plate, carModel string) (*models.Vehicle, error) {
	vehicle, err := store.FindVehicleByPlate(ctx, plate)
	if err != nil {
		return nil, fmt.Errorf("find vehicle: %w", err)
	}

	if vehicle == nil {
		vehicle = &models.Vehicle{
			LicensePlate: plate,
			CarModel:     carModel,
			CustomerID:   customerID,
		}

		created, err := store.CreateVehicle(ctx, vehicle)
		if err != nil {
			return nil, fmt.Errorf("create vehicle: %w", err)
		}
		if created {
			return vehicle, nil
		}

		vehicle, err = store.FindVehicleByPlate(ctx, plate)
		if err != nil {
			return nil, fmt.Errorf("find vehicle: %w", err)
		}
		if vehicle == nil {
			return nil, fmt.Errorf("vehicle %s vanished after conflict", plate)
		}
	}

	if carModel != "" && vehicle.CarModel != carModel {
		if err := store.SetVehicleModel(ctx, vehicle.ID, carModel); err != nil {
			return nil, fmt.Errorf("update vehicle model: %w", err)
		}
		vehicle.CarModel = carModel
	}

	return vehicle, nil
}
