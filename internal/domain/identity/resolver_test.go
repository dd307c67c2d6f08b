package identity

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/autoshop-scheduler/internal/models"
)

// memStore keeps customers and vehicles in maps. raceOnCreate makes the next
// Create call behave as if another writer inserted the same key first.
type memStore struct {
	customers map[string]*models.Customer
	vehicles  map[string]*models.Vehicle
	nextID    uint

	raceOnCreate bool
}

func newMemStore() *memStore {
	return &memStore{
		customers: map[string]*models.Customer{},
		vehicles:  map[string]*models.Vehicle{},
	}
}

func (s *memStore) id() uint {
	s.nextID++
	return s.nextID
}

func (s *memStore) FindCustomerByPhone(_ context.Context, phone string) (*models.Customer, error) {
	c, ok := s.customers[phone]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (s *memStore) CreateCustomer(_ context.Context, c *models.Customer) (bool, error) {
	if s.raceOnCreate {
		s.raceOnCreate = false
		s.customers[c.Phone] = &models.Customer{ID: s.id(), Phone: c.Phone}
		return false, nil
	}
	c.ID = s.id()
	cp := *c
	s.customers[c.Phone] = &cp
	return true, nil
}

func (s *memStore) FillCustomerName(_ context.Context, id uint, name string) error {
	for _, c := range s.customers {
		if c.ID == id && !c.HasName() {
			c.Name = &name
		}
	}
	return nil
}

func (s *memStore) FindVehicleByPlate(_ context.Context, plate string) (*models.Vehicle, error) {
	v, ok := s.vehicles[plate]
	if !ok {
		return nil, nil
	}
	cp := *v
	return &cp, nil
}

func (s *memStore) CreateVehicle(_ context.Context, v *models.Vehicle) (bool, error) {
	v.ID = s.id()
	cp := *v
	s.vehicles[v.LicensePlate] = &cp
	return true, nil
}

func (s *memStore) SetVehicleModel(_ context.Context, id uint, carModel string) error {
	for _, v := range s.vehicles {
		if v.ID == id {
			v.CarModel = carModel
		}
	}
	return nil
}

func TestResolve_CreatesCustomerAndVehicle(t *testing.T) {
	store := newMemStore()

	res, err := Resolve(context.Background(), store, Input{
		Phone:        "0912-345-678",
		LicensePlate: "abc-1235",
		CarModel:     " Toyota Altis ",
		CustomerName: "王小明",
	})
	require.NoError(t, err)

	assert.Equal(t, "0912345678", res.Customer.Phone)
	require.NotNil(t, res.Customer.Name)
	assert.Equal(t, "王小明", *res.Customer.Name)
	assert.Equal(t, "ABC1235", res.Vehicle.LicensePlate)
	assert.Equal(t, "Toyota Altis", res.Vehicle.CarModel)
	assert.Equal(t, res.Customer.ID, res.Vehicle.CustomerID)
	assert.False(t, res.OwnerMismatch)
}

func TestResolve_KeepsExistingName(t *testing.T) {
	store := newMemStore()
	ctx := context.Background()

	_, err := Resolve(ctx, store, Input{Phone: "0912345678", LicensePlate: "ABC1235", CarModel: "Altis", CustomerName: "王小明"})
	require.NoError(t, err)

	res, err := Resolve(ctx, store, Input{Phone: "0912345678", LicensePlate: "ABC1235", CarModel: "Altis", CustomerName: "小王"})
	require.NoError(t, err)
	assert.Equal(t, "王小明", *res.Customer.Name)
	assert.Len(t, store.customers, 1)
	assert.Len(t, store.vehicles, 1)
}

func TestResolve_FillsMissingName(t *testing.T) {
	store := newMemStore()
	ctx := context.Background()

	res, err := Resolve(ctx, store, Input{Phone: "0912345678", LicensePlate: "ABC1235", CarModel: "Altis"})
	require.NoError(t, err)
	assert.False(t, res.Customer.HasName())

	res, err = Resolve(ctx, store, Input{Phone: "0912345678", LicensePlate: "ABC1235", CarModel: "Altis", CustomerName: "陳先生"})
	require.NoError(t, err)
	assert.Equal(t, "陳先生", *res.Customer.Name)
}

func TestResolve_UpdatesCarModel(t *testing.T) {
	store := newMemStore()
	ctx := context.Background()

	_, err := Resolve(ctx, store, Input{Phone: "0912345678", LicensePlate: "ABC1235", CarModel: "Altis"})
	require.NoError(t, err)

	res, err := Resolve(ctx, store, Input{Phone: "0912345678", LicensePlate: "ABC1235", CarModel: "Corolla Cross"})
	require.NoError(t, err)
	assert.Equal(t, "Corolla Cross", res.Vehicle.CarModel)
	assert.Equal(t, "Corolla Cross", store.vehicles["ABC1235"].CarModel)
}

func TestResolve_PlateOwnedByAnotherCustomer(t *testing.T) {
	store := newMemStore()
	ctx := context.Background()

	first, err := Resolve(ctx, store, Input{Phone: "0912345678", LicensePlate: "ABC1235", CarModel: "Altis"})
	require.NoError(t, err)

	res, err := Resolve(ctx, store, Input{Phone: "0987654321", LicensePlate: "ABC1235", CarModel: "Altis"})
	require.NoError(t, err)

	assert.True(t, res.OwnerMismatch)
	assert.Equal(t, first.Customer.ID, res.Vehicle.CustomerID)
	assert.NotEqual(t, first.Customer.ID, res.Customer.ID)
}

func TestResolve_LostCustomerInsertRace(t *testing.T) {
	store := newMemStore()
	store.raceOnCreate = true

	res, err := Resolve(context.Background(), store, Input{
		Phone:        "0912345678",
		LicensePlate: "ABC1235",
		CarModel:     "Altis",
		CustomerName: "林小姐",
	})
	require.NoError(t, err)

	assert.Len(t, store.customers, 1)
	assert.Equal(t, store.customers["0912345678"].ID, res.Customer.ID)
	// the winner had no name, so ours fills it
	assert.Equal(t, "林小姐", *res.Customer.Name)
}
