package service

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"reservation-service/api"
	"reservation-service/internal/models"
	"reservation-service/internal/token"
	"reservation-service/pkg/response"
)

// stub sql driver so the fake store can hand out real *sql.Tx values
// whose Commit/Rollback are no-ops.

type stubDriver struct{}

func (stubDriver) Open(string) (driver.Conn, error) { return stubConn{}, nil }

type stubConn struct{}

func (stubConn) Prepare(string) (driver.Stmt, error) { return nil, errors.New("not supported") }
func (stubConn) Close() error                        { return nil }
func (stubConn) Begin() (driver.Tx, error)           { return stubTx{}, nil }

type stubTx struct{}

func (stubTx) Commit() error   { return nil }
func (stubTx) Rollback() error { return nil }

var registerStub sync.Once

func stubDB(t *testing.T) *sql.DB {
	t.Helper()

	registerStub.Do(func() {
		sql.Register("stubtx", stubDriver{})
	})

	db, err := sql.Open("stubtx", "")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return db
}

// fakeStore is an in-memory Store implementation.
type fakeStore struct {
	db           *sql.DB
	users        map[string]*models.User
	floors       map[int]*models.Floor
	elements     map[string]*models.Element
	reservations map[string]*models.Reservation
}

func newFakeStore(t *testing.T) *fakeStore {
	return &fakeStore{
		db:           stubDB(t),
		users:        make(map[string]*models.User),
		floors:       make(map[int]*models.Floor),
		elements:     make(map[string]*models.Element),
		reservations: make(map[string]*models.Reservation),
	}
}

func (f *fakeStore) BeginTx(ctx context.Context) (*sql.Tx, error) {
	return f.db.BeginTx(ctx, nil)
}

func (f *fakeStore) CreateUser(_ context.Context, user *models.User) error {
	for _, u := range f.users {
		if u.Username == user.Username || u.Email == user.Email {
			return response.ErrAlreadyExists
		}
	}
	cp := *user
	f.users[user.UserID] = &cp
	return nil
}

func (f *fakeStore) GetUserByLogin(_ context.Context, login string) (*models.User, error) {
	for _, u := range f.users {
		if u.Username == login || u.Email == login {
			cp := *u
			return &cp, nil
		}
	}
	return nil, response.ErrNotFound
}

func (f *fakeStore) GetUserByID(_ context.Context, userID string) (*models.User, error) {
	u, ok := f.users[userID]
	if !ok {
		return nil, response.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeStore) UpdateLastLogin(_ context.Context, userID string, at time.Time) error {
	u, ok := f.users[userID]
	if !ok {
		return response.ErrNotFound
	}
	u.LastLogin = &at
	return nil
}

func (f *fakeStore) ListFloors(ctx context.Context) ([]*models.Floor, error) {
	numbers := make([]int, 0, len(f.floors))
	for n := range f.floors {
		numbers = append(numbers, n)
	}
	sort.Ints(numbers)

	result := make([]*models.Floor, 0, len(numbers))
	for _, n := range numbers {
		floor, err := f.GetFloor(ctx, n)
		if err != nil {
			return nil, err
		}
		result = append(result, floor)
	}
	return result, nil
}

func (f *fakeStore) GetFloor(ctx context.Context, floorNumber int) (*models.Floor, error) {
	floor, ok := f.floors[floorNumber]
	if !ok {
		return nil, response.ErrNotFound
	}
	cp := *floor
	elements, err := f.ListElementsByFloor(ctx, floorNumber)
	if err != nil {
		return nil, err
	}
	cp.Elements = elements
	return &cp, nil
}

func (f *fakeStore) UpsertFloor(_ context.Context, floorNumber int, name string) error {
	f.floors[floorNumber] = &models.Floor{FloorNumber: floorNumber, Name: name}
	return nil
}

func (f *fakeStore) ListElementsByFloor(_ context.Context, floorNumber int) ([]models.Element, error) {
	elements := make([]models.Element, 0)
	for _, el := range f.elements {
		if el.FloorNumber == floorNumber {
			elements = append(elements, *el)
		}
	}
	sort.Slice(elements, func(i, j int) bool { return elements[i].Name < elements[j].Name })
	return elements, nil
}

func (f *fakeStore) GetElement(_ context.Context, floorNumber int, elementID string) (*models.Element, error) {
	el, ok := f.elements[elementID]
	if !ok || el.FloorNumber != floorNumber {
		return nil, response.ErrNotFound
	}
	cp := *el
	return &cp, nil
}

func (f *fakeStore) CreateElement(_ context.Context, el *models.Element) error {
	cp := *el
	f.elements[el.ElementID] = &cp
	return nil
}

func (f *fakeStore) UpdateElement(_ context.Context, el *models.Element) error {
	existing, ok := f.elements[el.ElementID]
	if !ok || existing.FloorNumber != el.FloorNumber {
		return response.ErrNotFound
	}
	cp := *el
	cp.Status = existing.Status
	f.elements[el.ElementID] = &cp
	return nil
}

func (f *fakeStore) DeleteElement(_ context.Context, floorNumber int, elementID string) error {
	el, ok := f.elements[elementID]
	if !ok || el.FloorNumber != floorNumber {
		return response.ErrNotFound
	}
	delete(f.elements, elementID)
	return nil
}

func (f *fakeStore) UpdateElementStatusTx(_ context.Context, _ *sql.Tx, elementID string, status models.ElementStatus) error {
	el, ok := f.elements[elementID]
	if !ok {
		return response.ErrNotFound
	}
	el.Status = status
	return nil
}

func (f *fakeStore) CreateReservationTx(_ context.Context, _ *sql.Tx, res *models.Reservation) error {
	cp := *res
	f.reservations[res.ReservationID] = &cp
	return nil
}

func (f *fakeStore) CountOverlappingTx(_ context.Context, _ *sql.Tx, roomID, date, start, end string) (int, error) {
	n := 0
	for _, res := range f.reservations {
		if res.RoomID != roomID || res.Date != date || res.Status != models.ReservationConfirmed {
			continue
		}
		if res.StartTime < end && res.EndTime > start {
			n++
		}
	}
	return n, nil
}

func (f *fakeStore) GetReservation(_ context.Context, id string) (*models.Reservation, error) {
	res, ok := f.reservations[id]
	if !ok {
		return nil, response.ErrNotFound
	}
	cp := *res
	return &cp, nil
}

func (f *fakeStore) ListReservations(_ context.Context, roomID *string, floorNumber *int, date, status, userID *string) ([]*models.Reservation, error) {
	result := make([]*models.Reservation, 0)
	for _, res := range f.reservations {
		if roomID != nil && res.RoomID != *roomID {
			continue
		}
		if floorNumber != nil && res.FloorNumber != *floorNumber {
			continue
		}
		if date != nil && res.Date != *date {
			continue
		}
		if status != nil && string(res.Status) != *status {
			continue
		}
		if userID != nil && (res.UserID == nil || *res.UserID != *userID) {
			continue
		}
		cp := *res
		result = append(result, &cp)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Date != result[j].Date {
			return result[i].Date < result[j].Date
		}
		return result[i].StartTime < result[j].StartTime
	})
	return result, nil
}

func (f *fakeStore) ReservedRoomIDs(_ context.Context, floorNumber int, date string) (map[string]struct{}, error) {
	reserved := make(map[string]struct{})
	for _, res := range f.reservations {
		if res.FloorNumber == floorNumber && res.Date == date && res.Status == models.ReservationConfirmed {
			reserved[res.RoomID] = struct{}{}
		}
	}
	return reserved, nil
}

func (f *fakeStore) UpdateReservationStatus(_ context.Context, id string, status models.ReservationStatus) error {
	res, ok := f.reservations[id]
	if !ok {
		return response.ErrNotFound
	}
	res.Status = status
	return nil
}

func (f *fakeStore) DeleteReservationTx(_ context.Context, _ *sql.Tx, id string) error {
	if _, ok := f.reservations[id]; !ok {
		return response.ErrNotFound
	}
	delete(f.reservations, id)
	return nil
}

// fakeLocker grants every lock unless denied is set.
type fakeLocker struct {
	denied bool
	idem   map[string]string
}

func newFakeLocker() *fakeLocker {
	return &fakeLocker{idem: make(map[string]string)}
}

func (f *fakeLocker) Lock(context.Context, string, time.Duration) (bool, error) {
	return !f.denied, nil
}

func (f *fakeLocker) Unlock(context.Context, string) error { return nil }

func (f *fakeLocker) Remember(_ context.Context, key, reservationID string, _ time.Duration) error {
	if _, ok := f.idem[key]; !ok {
		f.idem[key] = reservationID
	}
	return nil
}

func (f *fakeLocker) Recall(_ context.Context, key string) (string, bool, error) {
	id, ok := f.idem[key]
	return id, ok, nil
}

const testDate = "2025-03-10"

func newTestService(t *testing.T) (*Service, *fakeStore, *fakeLocker) {
	t.Helper()

	store := newFakeStore(t)
	locker := newFakeLocker()
	tokens := token.NewManager("test-secret", time.Hour)

	s := NewService(store, locker, locker, tokens, bcrypt.MinCost)
	s.now = func() time.Time {
		return time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	}

	store.floors[1] = &models.Floor{FloorNumber: 1, Name: "Ground floor"}
	store.elements["room-1"] = &models.Element{
		ElementID:   "room-1",
		FloorNumber: 1,
		Name:        "Seminar Room A",
		Type:        models.ElementRoom,
		Status:      models.ElementAvailable,
	}
	store.elements["room-2"] = &models.Element{
		ElementID:   "room-2",
		FloorNumber: 1,
		Name:        "Seminar Room B",
		Type:        models.ElementRoom,
		Status:      models.ElementAvailable,
	}
	store.elements["corridor-1"] = &models.Element{
		ElementID:   "corridor-1",
		FloorNumber: 1,
		Name:        "Main Corridor",
		Type:        models.ElementCorridor,
		Status:      models.ElementAvailable,
	}

	return s, store, locker
}

func reservationRequest(start, end string) *api.ReservationRequest {
	return &api.ReservationRequest{
		RoomID:      "room-1",
		FloorNumber: 1,
		Name:        "Alice Johnson",
		Email:       "alice@example.edu",
		Date:        testDate,
		StartTime:   start,
		EndTime:     end,
		Purpose:     "study group",
	}
}

var student = Actor{UserID: "user-1", Role: "student"}

func TestCreateReservation(t *testing.T) {
	s, store, _ := newTestService(t)

	res, err := s.CreateReservation(context.Background(), student, reservationRequest("10:00", "11:00"), nil)
	require.NoError(t, err)

	assert.Equal(t, "confirmed", res.Status)
	assert.Equal(t, "room-1", res.RoomID)
	require.NotNil(t, res.UserID)
	assert.Equal(t, "user-1", *res.UserID)

	assert.Equal(t, models.ElementReserved, store.elements["room-1"].Status)
}

func TestCreateReservation_Validation(t *testing.T) {
	s, _, _ := newTestService(t)

	cases := []struct {
		name    string
		mutate  func(*api.ReservationRequest)
		wantErr error
	}{
		{"start equals end", func(r *api.ReservationRequest) { r.StartTime, r.EndTime = "10:00", "10:00" }, response.ErrValidation},
		{"start after end", func(r *api.ReservationRequest) { r.StartTime, r.EndTime = "11:00", "10:00" }, response.ErrValidation},
		{"unpadded hour", func(r *api.ReservationRequest) { r.StartTime = "9:00" }, response.ErrValidation},
		{"out of range", func(r *api.ReservationRequest) { r.EndTime = "24:00" }, response.ErrValidation},
		{"bad date", func(r *api.ReservationRequest) { r.Date = "10-03-2025" }, response.ErrValidation},
		{"missing purpose", func(r *api.ReservationRequest) { r.Purpose = "" }, response.ErrValidation},
		{"unknown room", func(r *api.ReservationRequest) { r.RoomID = "room-404" }, response.ErrNotFound},
		{"not a room", func(r *api.ReservationRequest) { r.RoomID = "corridor-1" }, response.ErrValidation},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := reservationRequest("10:00", "11:00")
			tc.mutate(req)

			_, err := s.CreateReservation(context.Background(), student, req, nil)
			require.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestCreateReservation_Overlap(t *testing.T) {
	s, _, _ := newTestService(t)

	_, err := s.CreateReservation(context.Background(), student, reservationRequest("09:00", "10:00"), nil)
	require.NoError(t, err)

	cases := []struct {
		name       string
		start, end string
		wantErr    error
	}{
		{"straddles end", "09:30", "10:30", response.ErrConflict},
		{"identical interval", "09:00", "10:00", response.ErrConflict},
		{"contained", "09:15", "09:45", response.ErrConflict},
		{"covers", "08:30", "10:30", response.ErrConflict},
		{"back to back after", "10:00", "11:00", nil},
		{"back to back before", "08:00", "09:00", nil},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := s.CreateReservation(context.Background(), student, reservationRequest(tc.start, tc.end), nil)
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestCreateReservation_SequentialIntervalsDisjoint(t *testing.T) {
	s, store, _ := newTestService(t)

	attempts := [][2]string{
		{"09:00", "10:00"},
		{"09:30", "10:30"},
		{"10:00", "11:00"},
		{"10:30", "11:30"},
		{"11:00", "12:00"},
	}

	for _, a := range attempts {
		_, _ = s.CreateReservation(context.Background(), student, reservationRequest(a[0], a[1]), nil)
	}

	accepted := make([]*models.Reservation, 0)
	for _, res := range store.reservations {
		accepted = append(accepted, res)
	}

	for i := 0; i < len(accepted); i++ {
		for j := i + 1; j < len(accepted); j++ {
			a, b := accepted[i], accepted[j]
			disjoint := a.EndTime <= b.StartTime || b.EndTime <= a.StartTime
			assert.True(t, disjoint, "accepted reservations [%s,%s) and [%s,%s) overlap",
				a.StartTime, a.EndTime, b.StartTime, b.EndTime)
		}
	}
}

func TestCreateReservation_OtherRoomAndDateUnaffected(t *testing.T) {
	s, _, _ := newTestService(t)

	_, err := s.CreateReservation(context.Background(), student, reservationRequest("09:00", "10:00"), nil)
	require.NoError(t, err)

	otherRoom := reservationRequest("09:00", "10:00")
	otherRoom.RoomID = "room-2"
	_, err = s.CreateReservation(context.Background(), student, otherRoom, nil)
	require.NoError(t, err)

	otherDate := reservationRequest("09:00", "10:00")
	otherDate.Date = "2025-03-11"
	_, err = s.CreateReservation(context.Background(), student, otherDate, nil)
	require.NoError(t, err)
}

func TestCreateReservation_CancelledDoesNotBlock(t *testing.T) {
	s, _, _ := newTestService(t)

	res, err := s.CreateReservation(context.Background(), student, reservationRequest("09:00", "10:00"), nil)
	require.NoError(t, err)

	_, err = s.UpdateReservationStatus(context.Background(), student, res.ID, "cancelled")
	require.NoError(t, err)

	_, err = s.CreateReservation(context.Background(), student, reservationRequest("09:00", "10:00"), nil)
	require.NoError(t, err)
}

func TestCreateReservation_Locked(t *testing.T) {
	s, _, locker := newTestService(t)
	locker.denied = true

	_, err := s.CreateReservation(context.Background(), student, reservationRequest("09:00", "10:00"), nil)
	require.ErrorIs(t, err, response.ErrLocked)
}

func TestCreateReservation_Idempotent(t *testing.T) {
	s, store, _ := newTestService(t)

	key := "req-42"

	first, err := s.CreateReservation(context.Background(), student, reservationRequest("09:00", "10:00"), &key)
	require.NoError(t, err)

	second, err := s.CreateReservation(context.Background(), student, reservationRequest("09:00", "10:00"), &key)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Len(t, store.reservations, 1)
}

func TestGetRoomsByFloor_DerivedStatus(t *testing.T) {
	s, _, _ := newTestService(t)
	ctx := context.Background()

	res, err := s.CreateReservation(ctx, student, reservationRequest("10:00", "11:00"), nil)
	require.NoError(t, err)

	rooms, err := s.GetRoomsByFloor(ctx, 1)
	require.NoError(t, err)
	require.Len(t, rooms, 2) // corridor excluded
	assert.Equal(t, "reserved", roomStatus(t, rooms, "room-1"))
	assert.Equal(t, "available", roomStatus(t, rooms, "room-2"))

	require.NoError(t, s.DeleteReservation(ctx, student, res.ID))

	rooms, err = s.GetRoomsByFloor(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "available", roomStatus(t, rooms, "room-1"))
}

func TestGetRoomsByFloor_FutureDateNotShown(t *testing.T) {
	s, store, _ := newTestService(t)
	ctx := context.Background()

	req := reservationRequest("10:00", "11:00")
	req.Date = "2025-03-11" // tomorrow relative to the fixed clock
	_, err := s.CreateReservation(ctx, student, req, nil)
	require.NoError(t, err)

	// Persisted element status flips regardless of date, the derived
	// today-view does not. Both behaviors are intentional.
	assert.Equal(t, models.ElementReserved, store.elements["room-1"].Status)

	rooms, err := s.GetRoomsByFloor(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "available", roomStatus(t, rooms, "room-1"))
}

func TestGetRoomsByFloor_IgnoresCancelled(t *testing.T) {
	s, _, _ := newTestService(t)
	ctx := context.Background()

	res, err := s.CreateReservation(ctx, student, reservationRequest("10:00", "11:00"), nil)
	require.NoError(t, err)

	_, err = s.UpdateReservationStatus(ctx, student, res.ID, "cancelled")
	require.NoError(t, err)

	rooms, err := s.GetRoomsByFloor(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "available", roomStatus(t, rooms, "room-1"))
}

func roomStatus(t *testing.T, rooms []api.ElementResponse, id string) string {
	t.Helper()
	for _, room := range rooms {
		if room.ID == id {
			return room.Status
		}
	}
	t.Fatalf("room %s not in response", id)
	return ""
}

func TestReservationOwnership(t *testing.T) {
	s, _, _ := newTestService(t)
	ctx := context.Background()

	res, err := s.CreateReservation(ctx, student, reservationRequest("10:00", "11:00"), nil)
	require.NoError(t, err)

	otherStudent := Actor{UserID: "user-2", Role: "student"}
	teacher := Actor{UserID: "user-3", Role: "teacher"}
	admin := Actor{UserID: "user-4", Role: "admin"}

	_, err = s.GetReservation(ctx, otherStudent, res.ID)
	require.ErrorIs(t, err, response.ErrForbidden)

	err = s.DeleteReservation(ctx, otherStudent, res.ID)
	require.ErrorIs(t, err, response.ErrForbidden)

	_, err = s.GetReservation(ctx, teacher, res.ID)
	require.NoError(t, err)

	_, err = s.GetReservation(ctx, admin, res.ID)
	require.NoError(t, err)

	err = s.DeleteReservation(ctx, student, res.ID)
	require.NoError(t, err)

	err = s.DeleteReservation(ctx, student, res.ID)
	require.ErrorIs(t, err, response.ErrNotFound)
}

func TestUpdateReservationStatus_Invalid(t *testing.T) {
	s, _, _ := newTestService(t)

	res, err := s.CreateReservation(context.Background(), student, reservationRequest("10:00", "11:00"), nil)
	require.NoError(t, err)

	_, err = s.UpdateReservationStatus(context.Background(), student, res.ID, "done")
	require.ErrorIs(t, err, response.ErrValidation)
}

func TestListMyReservations(t *testing.T) {
	s, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := s.CreateReservation(ctx, student, reservationRequest("09:00", "10:00"), nil)
	require.NoError(t, err)

	other := reservationRequest("10:00", "11:00")
	otherStudent := Actor{UserID: "user-2", Role: "student"}
	_, err = s.CreateReservation(ctx, otherStudent, other, nil)
	require.NoError(t, err)

	mine, err := s.ListMyReservations(ctx, student)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "09:00", mine[0].StartTime)

	all, err := s.ListReservations(ctx, &ReservationFilters{})
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestRegisterAndLogin(t *testing.T) {
	s, _, _ := newTestService(t)
	ctx := context.Background()

	reg := &api.RegisterRequest{
		Username:  "alice",
		Email:     "alice@example.edu",
		Password:  "s3cret-pw",
		FirstName: "Alice",
		LastName:  "Johnson",
	}

	auth, err := s.Register(ctx, reg)
	require.NoError(t, err)
	assert.Equal(t, "student", auth.User.Role)
	assert.NotEmpty(t, auth.Token)

	_, err = s.Register(ctx, reg)
	require.ErrorIs(t, err, response.ErrAlreadyExists)

	_, err = s.Login(ctx, &api.LoginRequest{Login: "alice", Password: "wrong"})
	require.ErrorIs(t, err, response.ErrInvalidCredentials)

	logged, err := s.Login(ctx, &api.LoginRequest{Login: "alice@example.edu", Password: "s3cret-pw"})
	require.NoError(t, err)
	assert.NotNil(t, logged.User.LastLogin)

	profile, err := s.Profile(ctx, logged.User.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", profile.Username)
}

func TestRegister_Validation(t *testing.T) {
	s, _, _ := newTestService(t)

	_, err := s.Register(context.Background(), &api.RegisterRequest{Username: "bob"})
	require.ErrorIs(t, err, response.ErrValidation)

	_, err = s.Register(context.Background(), &api.RegisterRequest{
		Username:  "bob",
		Email:     "bob@example.edu",
		Password:  "pw",
		FirstName: "Bob",
		LastName:  "Stone",
		Role:      "admin",
	})
	require.ErrorIs(t, err, response.ErrValidation, "admin must not be self-assignable")
}

func TestFloorAndElementCRUD(t *testing.T) {
	s, _, _ := newTestService(t)
	ctx := context.Background()

	floor, err := s.UpsertFloor(ctx, 2, &api.FloorRequest{Name: "Second floor"})
	require.NoError(t, err)
	assert.Equal(t, "Second floor", floor.Name)

	capacity := 12
	el, err := s.CreateElement(ctx, 2, &api.ElementRequest{
		Name:       "Lab 201",
		Type:       "room",
		Width:      4,
		Height:     3,
		Capacity:   &capacity,
		Equipments: []string{"projector", "whiteboard"},
	})
	require.NoError(t, err)
	assert.Equal(t, "available", el.Status)

	_, err = s.CreateElement(ctx, 2, &api.ElementRequest{Name: "Vent shaft", Type: "shaft"})
	require.ErrorIs(t, err, response.ErrValidation)

	_, err = s.CreateElement(ctx, 99, &api.ElementRequest{Name: "Lab", Type: "room"})
	require.ErrorIs(t, err, response.ErrNotFound)

	updated, err := s.UpdateElement(ctx, 2, el.ID, &api.ElementRequest{Name: "Lab 201b", Type: "room"})
	require.NoError(t, err)
	assert.Equal(t, "Lab 201b", updated.Name)

	require.NoError(t, s.DeleteElement(ctx, 2, el.ID))
	require.ErrorIs(t, s.DeleteElement(ctx, 2, el.ID), response.ErrNotFound)
}

func TestValidClockTime(t *testing.T) {
	valid := []string{"00:00", "09:30", "23:59"}
	invalid := []string{"24:00", "12:60", "9:00", "09:3", "09-30", "ab:cd", ""}

	for _, v := range valid {
		assert.True(t, validClockTime(v), v)
	}
	for _, v := range invalid {
		assert.False(t, validClockTime(v), v)
	}
}

func TestBcryptCostRespected(t *testing.T) {
	s, store, _ := newTestService(t)

	_, err := s.Register(context.Background(), &api.RegisterRequest{
		Username:  "carol",
		Email:     "carol@example.edu",
		Password:  "pw123456",
		FirstName: "Carol",
		LastName:  "Reed",
	})
	require.NoError(t, err)

	var stored *models.User
	for _, u := range store.users {
		stored = u
	}
	require.NotNil(t, stored)
	require.NotEqual(t, "pw123456", stored.PasswordHash)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("pw123456")))
}
