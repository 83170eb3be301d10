package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"reservation-service/api"
	"reservation-service/internal/lock"
	"reservation-service/internal/models"
	"reservation-service/internal/token"
	"reservation-service/pkg/response"
)

type Service struct {
	store      Store
	locker     lock.Locker
	idem       lock.IdempotencyStore
	tokens     *token.Manager
	bcryptCost int
	now        func() time.Time
}

func NewService(store Store, locker lock.Locker, idem lock.IdempotencyStore, tokens *token.Manager, bcryptCost int) *Service {
	return &Service{
		store:      store,
		locker:     locker,
		idem:       idem,
		tokens:     tokens,
		bcryptCost: bcryptCost,
		now:        time.Now,
	}
}

type Store interface {
	BeginTx(ctx context.Context) (*sql.Tx, error)

	// Users
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByLogin(ctx context.Context, login string) (*models.User, error)
	GetUserByID(ctx context.Context, userID string) (*models.User, error)
	UpdateLastLogin(ctx context.Context, userID string, at time.Time) error

	// Floors
	ListFloors(ctx context.Context) ([]*models.Floor, error)
	GetFloor(ctx context.Context, floorNumber int) (*models.Floor, error)
	UpsertFloor(ctx context.Context, floorNumber int, name string) error

	// Elements
	ListElementsByFloor(ctx context.Context, floorNumber int) ([]models.Element, error)
	GetElement(ctx context.Context, floorNumber int, elementID string) (*models.Element, error)
	CreateElement(ctx context.Context, el *models.Element) error
	UpdateElement(ctx context.Context, el *models.Element) error
	DeleteElement(ctx context.Context, floorNumber int, elementID string) error
	UpdateElementStatusTx(ctx context.Context, tx *sql.Tx, elementID string, status models.ElementStatus) error

	// Reservations
	CreateReservationTx(ctx context.Context, tx *sql.Tx, res *models.Reservation) error
	CountOverlappingTx(ctx context.Context, tx *sql.Tx, roomID, date, start, end string) (int, error)
	GetReservation(ctx context.Context, id string) (*models.Reservation, error)
	ListReservations(ctx context.Context, roomID *string, floorNumber *int, date, status, userID *string) ([]*models.Reservation, error)
	ReservedRoomIDs(ctx context.Context, floorNumber int, date string) (map[string]struct{}, error)
	UpdateReservationStatus(ctx context.Context, id string, status models.ReservationStatus) error
	DeleteReservationTx(ctx context.Context, tx *sql.Tx, id string) error
}

// Actor identifies the authenticated caller for ownership checks.
type Actor struct {
	UserID string
	Role   string
}

func (a Actor) canManageOthers() bool {
	return a.Role == string(models.RoleTeacher) || a.Role == string(models.RoleAdmin)
}

type ReservationFilters struct {
	RoomID      *string
	FloorNumber *int
	Date        *string
	Status      *string
}

// #### auth ####

func (s *Service) Register(ctx context.Context, req *api.RegisterRequest) (*api.AuthResponse, error) {
	const op = "service.Register"

	if req.Username == "" || req.Email == "" || req.Password == "" || req.FirstName == "" || req.LastName == "" {
		return nil, fmt.Errorf("%s: missing required fields: %w", op, response.ErrValidation)
	}

	role := models.Role(req.Role)
	if req.Role == "" {
		role = models.RoleStudent
	}
	if role != models.RoleStudent && role != models.RoleTeacher {
		return nil, fmt.Errorf("%s: invalid role: %w", op, response.ErrValidation)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	user := &models.User{
		UserID:       uuid.NewString(),
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: string(hash),
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Role:         role,
		Department:   req.Department,
		IsActive:     true,
	}

	if err := s.store.CreateUser(ctx, user); err != nil {
		if errors.Is(err, response.ErrAlreadyExists) {
			return nil, fmt.Errorf("%s: %w", op, response.ErrAlreadyExists)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	signed, err := s.tokens.Issue(user)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &api.AuthResponse{Token: signed, User: toUserResponse(user)}, nil
}

func (s *Service) Login(ctx context.Context, req *api.LoginRequest) (*api.AuthResponse, error) {
	const op = "service.Login"

	if req.Login == "" || req.Password == "" {
		return nil, fmt.Errorf("%s: missing credentials: %w", op, response.ErrValidation)
	}

	user, err := s.store.GetUserByLogin(ctx, req.Login)
	if err != nil {
		if errors.Is(err, response.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, response.ErrInvalidCredentials)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, fmt.Errorf("%s: %w", op, response.ErrInvalidCredentials)
	}

	if !user.IsActive {
		return nil, fmt.Errorf("%s: account disabled: %w", op, response.ErrForbidden)
	}

	loginAt := s.now()
	if err := s.store.UpdateLastLogin(ctx, user.UserID, loginAt); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	user.LastLogin = &loginAt

	signed, err := s.tokens.Issue(user)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &api.AuthResponse{Token: signed, User: toUserResponse(user)}, nil
}

func (s *Service) Profile(ctx context.Context, userID string) (*api.UserResponse, error) {
	const op = "service.Profile"

	user, err := s.store.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, response.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, response.ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	resp := toUserResponse(user)
	return &resp, nil
}

// #### floors ####

func (s *Service) ListFloors(ctx context.Context) ([]*api.FloorResponse, error) {
	const op = "service.ListFloors"

	floors, err := s.store.ListFloors(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	result := make([]*api.FloorResponse, 0, len(floors))
	for _, floor := range floors {
		result = append(result, toFloorResponse(floor))
	}

	return result, nil
}

func (s *Service) GetFloor(ctx context.Context, floorNumber int) (*api.FloorResponse, error) {
	const op = "service.GetFloor"

	floor, err := s.store.GetFloor(ctx, floorNumber)
	if err != nil {
		if errors.Is(err, response.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, response.ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return toFloorResponse(floor), nil
}

func (s *Service) UpsertFloor(ctx context.Context, floorNumber int, req *api.FloorRequest) (*api.FloorResponse, error) {
	const op = "service.UpsertFloor"

	if req.Name == "" {
		return nil, fmt.Errorf("%s: name is required: %w", op, response.ErrValidation)
	}

	if err := s.store.UpsertFloor(ctx, floorNumber, req.Name); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return s.GetFloor(ctx, floorNumber)
}

// GetRoomsByFloor returns the floor's room elements with a derived status:
// a room shows reserved iff a confirmed reservation exists for it dated
// today. The persisted element status is deliberately not consulted here.
func (s *Service) GetRoomsByFloor(ctx context.Context, floorNumber int) ([]api.ElementResponse, error) {
	const op = "service.GetRoomsByFloor"

	floor, err := s.store.GetFloor(ctx, floorNumber)
	if err != nil {
		if errors.Is(err, response.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, response.ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	today := s.now().Format("2006-01-02")
	reserved, err := s.store.ReservedRoomIDs(ctx, floorNumber, today)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	rooms := make([]api.ElementResponse, 0)
	for _, el := range floor.Elements {
		if el.Type != models.ElementRoom {
			continue
		}

		status := models.ElementAvailable
		if _, ok := reserved[el.ElementID]; ok {
			status = models.ElementReserved
		}
		el.Status = status

		rooms = append(rooms, toElementResponse(&el))
	}

	return rooms, nil
}

// #### elements ####

func validElementType(t models.ElementType) bool {
	return t == models.ElementRoom || t == models.ElementCorridor || t == models.ElementStairs
}

func (s *Service) CreateElement(ctx context.Context, floorNumber int, req *api.ElementRequest) (*api.ElementResponse, error) {
	const op = "service.CreateElement"

	if req.Name == "" {
		return nil, fmt.Errorf("%s: name is required: %w", op, response.ErrValidation)
	}
	if !validElementType(models.ElementType(req.Type)) {
		return nil, fmt.Errorf("%s: invalid element type: %w", op, response.ErrValidation)
	}

	if _, err := s.store.GetFloor(ctx, floorNumber); err != nil {
		if errors.Is(err, response.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, response.ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	el := &models.Element{
		ElementID:   uuid.NewString(),
		FloorNumber: floorNumber,
		Name:        req.Name,
		Type:        models.ElementType(req.Type),
		Status:      models.ElementAvailable,
		X:           req.X,
		Y:           req.Y,
		Width:       req.Width,
		Height:      req.Height,
		Capacity:    req.Capacity,
		Equipments:  req.Equipments,
		RoomType:    req.RoomType,
	}

	if err := s.store.CreateElement(ctx, el); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	resp := toElementResponse(el)
	return &resp, nil
}

func (s *Service) UpdateElement(ctx context.Context, floorNumber int, elementID string, req *api.ElementRequest) (*api.ElementResponse, error) {
	const op = "service.UpdateElement"

	if !validElementType(models.ElementType(req.Type)) {
		return nil, fmt.Errorf("%s: invalid element type: %w", op, response.ErrValidation)
	}

	el, err := s.store.GetElement(ctx, floorNumber, elementID)
	if err != nil {
		if errors.Is(err, response.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, response.ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	el.Name = req.Name
	el.Type = models.ElementType(req.Type)
	el.X = req.X
	el.Y = req.Y
	el.Width = req.Width
	el.Height = req.Height
	el.Capacity = req.Capacity
	el.Equipments = req.Equipments
	el.RoomType = req.RoomType

	if err := s.store.UpdateElement(ctx, el); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	resp := toElementResponse(el)
	return &resp, nil
}

func (s *Service) DeleteElement(ctx context.Context, floorNumber int, elementID string) error {
	const op = "service.DeleteElement"

	err := s.store.DeleteElement(ctx, floorNumber, elementID)
	if err != nil {
		if errors.Is(err, response.ErrNotFound) {
			return fmt.Errorf("%s: %w", op, response.ErrNotFound)
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// #### reservations ####

func (s *Service) CreateReservation(ctx context.Context, actor Actor, req *api.ReservationRequest, idempotencyKey *string) (*api.ReservationResponse, error) {
	const op = "service.CreateReservation"

	if err := validateReservationRequest(req); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	room, err := s.store.GetElement(ctx, req.FloorNumber, req.RoomID)
	if err != nil {
		if errors.Is(err, response.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, response.ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if room.Type != models.ElementRoom {
		return nil, fmt.Errorf("%s: element is not a room: %w", op, response.ErrValidation)
	}

	if idempotencyKey != nil {
		if id, ok, err := s.idem.Recall(ctx, *idempotencyKey); err == nil && ok {
			return s.getReservationResponse(ctx, id)
		}
	}

	lockKey := lock.RoomKey(req.RoomID, req.Date)

	locked, err := s.locker.Lock(ctx, lockKey, 10*time.Second)
	if err != nil {
		return nil, fmt.Errorf("%s: lock error: %w", op, err)
	}
	if !locked {
		return nil, fmt.Errorf("%s: %w", op, response.ErrLocked)
	}
	defer func() {
		_ = s.locker.Unlock(ctx, lockKey)
	}()

	tx, err := s.store.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: begin tx: %w", op, err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	overlapping, err := s.store.CountOverlappingTx(ctx, tx, req.RoomID, req.Date, req.StartTime, req.EndTime)
	if err != nil {
		_ = tx.Rollback()
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if overlapping > 0 {
		_ = tx.Rollback()
		return nil, fmt.Errorf("%s: %w", op, response.ErrConflict)
	}

	reservation := &models.Reservation{
		ReservationID: uuid.NewString(),
		RoomID:        req.RoomID,
		FloorNumber:   req.FloorNumber,
		UserID:        &actor.UserID,
		Name:          req.Name,
		Email:         req.Email,
		Date:          req.Date,
		StartTime:     req.StartTime,
		EndTime:       req.EndTime,
		Purpose:       req.Purpose,
		Status:        models.ReservationConfirmed,
		Notes:         req.Notes,
	}

	if err := s.store.CreateReservationTx(ctx, tx, reservation); err != nil {
		_ = tx.Rollback()
		return nil, fmt.Errorf("%s: create reservation: %w", op, err)
	}

	if err := s.store.UpdateElementStatusTx(ctx, tx, req.RoomID, models.ElementReserved); err != nil {
		_ = tx.Rollback()
		return nil, fmt.Errorf("%s: update room status: %w", op, err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("%s: commit: %w", op, err)
	}

	if idempotencyKey != nil {
		_ = s.idem.Remember(ctx, *idempotencyKey, reservation.ReservationID, 24*time.Hour)
	}

	return s.getReservationResponse(ctx, reservation.ReservationID)
}

func (s *Service) GetReservation(ctx context.Context, actor Actor, id string) (*api.ReservationResponse, error) {
	const op = "service.GetReservation"

	reservation, err := s.store.GetReservation(ctx, id)
	if err != nil {
		if errors.Is(err, response.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, response.ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if !s.canAccess(actor, reservation) {
		return nil, fmt.Errorf("%s: %w", op, response.ErrForbidden)
	}

	resp := toReservationResponse(reservation)
	return &resp, nil
}

func (s *Service) ListMyReservations(ctx context.Context, actor Actor) ([]*api.ReservationResponse, error) {
	const op = "service.ListMyReservations"

	reservations, err := s.store.ListReservations(ctx, nil, nil, nil, nil, &actor.UserID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return toReservationResponses(reservations), nil
}

func (s *Service) ListReservations(ctx context.Context, filters *ReservationFilters) ([]*api.ReservationResponse, error) {
	const op = "service.ListReservations"

	reservations, err := s.store.ListReservations(ctx, filters.RoomID, filters.FloorNumber, filters.Date, filters.Status, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return toReservationResponses(reservations), nil
}

func (s *Service) UpdateReservationStatus(ctx context.Context, actor Actor, id string, status string) (*api.ReservationResponse, error) {
	const op = "service.UpdateReservationStatus"

	newStatus := models.ReservationStatus(status)
	if newStatus != models.ReservationPending && newStatus != models.ReservationConfirmed && newStatus != models.ReservationCancelled {
		return nil, fmt.Errorf("%s: invalid status: %w", op, response.ErrValidation)
	}

	reservation, err := s.store.GetReservation(ctx, id)
	if err != nil {
		if errors.Is(err, response.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, response.ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if !s.canAccess(actor, reservation) {
		return nil, fmt.Errorf("%s: %w", op, response.ErrForbidden)
	}

	if err := s.store.UpdateReservationStatus(ctx, id, newStatus); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return s.getReservationResponse(ctx, id)
}

func (s *Service) DeleteReservation(ctx context.Context, actor Actor, id string) error {
	const op = "service.DeleteReservation"

	reservation, err := s.store.GetReservation(ctx, id)
	if err != nil {
		if errors.Is(err, response.ErrNotFound) {
			return fmt.Errorf("%s: %w", op, response.ErrNotFound)
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	if !s.canAccess(actor, reservation) {
		return fmt.Errorf("%s: %w", op, response.ErrForbidden)
	}

	tx, err := s.store.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("%s: begin tx: %w", op, err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := s.store.DeleteReservationTx(ctx, tx, id); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("%s: %w", op, err)
	}

	// Free the room
	if err := s.store.UpdateElementStatusTx(ctx, tx, reservation.RoomID, models.ElementAvailable); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%s: commit: %w", op, err)
	}

	return nil
}

func (s *Service) canAccess(actor Actor, reservation *models.Reservation) bool {
	if actor.canManageOthers() {
		return true
	}

	return reservation.UserID != nil && *reservation.UserID == actor.UserID
}

func (s *Service) getReservationResponse(ctx context.Context, id string) (*api.ReservationResponse, error) {
	reservation, err := s.store.GetReservation(ctx, id)
	if err != nil {
		return nil, err
	}

	resp := toReservationResponse(reservation)
	return &resp, nil
}

// #### validation ####

func validateReservationRequest(req *api.ReservationRequest) error {
	if req.RoomID == "" || req.Name == "" || req.Email == "" || req.Purpose == "" {
		return fmt.Errorf("missing required fields: %w", response.ErrValidation)
	}

	if _, err := time.Parse("2006-01-02", req.Date); err != nil {
		return fmt.Errorf("invalid date: %w", response.ErrValidation)
	}

	if !validClockTime(req.StartTime) || !validClockTime(req.EndTime) {
		return fmt.Errorf("invalid time format: %w", response.ErrValidation)
	}

	// zero-padded HH:MM strings order lexicographically
	if req.StartTime >= req.EndTime {
		return fmt.Errorf("start_time must be before end_time: %w", response.ErrValidation)
	}

	return nil
}

// validClockTime accepts zero-padded "HH:MM" between 00:00 and 23:59.
func validClockTime(s string) bool {
	if len(s) != 5 || s[2] != ':' {
		return false
	}

	for _, i := range []int{0, 1, 3, 4} {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}

	hour := int(s[0]-'0')*10 + int(s[1]-'0')
	minute := int(s[3]-'0')*10 + int(s[4]-'0')

	return hour <= 23 && minute <= 59
}

// #### mapping ####

func toUserResponse(user *models.User) api.UserResponse {
	var lastLogin *string
	if user.LastLogin != nil {
		formatted := user.LastLogin.Format(time.RFC3339)
		lastLogin = &formatted
	}

	return api.UserResponse{
		ID:         user.UserID,
		Username:   user.Username,
		Email:      user.Email,
		FirstName:  user.FirstName,
		LastName:   user.LastName,
		Role:       string(user.Role),
		Department: user.Department,
		IsActive:   user.IsActive,
		LastLogin:  lastLogin,
	}
}

func toFloorResponse(floor *models.Floor) *api.FloorResponse {
	elements := make([]api.ElementResponse, 0, len(floor.Elements))
	for i := range floor.Elements {
		elements = append(elements, toElementResponse(&floor.Elements[i]))
	}

	return &api.FloorResponse{
		FloorNumber: floor.FloorNumber,
		Name:        floor.Name,
		Elements:    elements,
	}
}

func toElementResponse(el *models.Element) api.ElementResponse {
	return api.ElementResponse{
		ID:          el.ElementID,
		FloorNumber: el.FloorNumber,
		Name:        el.Name,
		Type:        string(el.Type),
		Status:      string(el.Status),
		X:           el.X,
		Y:           el.Y,
		Width:       el.Width,
		Height:      el.Height,
		Capacity:    el.Capacity,
		Equipments:  el.Equipments,
		RoomType:    el.RoomType,
	}
}

func toReservationResponse(res *models.Reservation) api.ReservationResponse {
	return api.ReservationResponse{
		ID:          res.ReservationID,
		RoomID:      res.RoomID,
		FloorNumber: res.FloorNumber,
		UserID:      res.UserID,
		Name:        res.Name,
		Email:       res.Email,
		Date:        res.Date,
		StartTime:   res.StartTime,
		EndTime:     res.EndTime,
		Purpose:     res.Purpose,
		Status:      string(res.Status),
		Notes:       res.Notes,
	}
}

func toReservationResponses(reservations []*models.Reservation) []*api.ReservationResponse {
	result := make([]*api.ReservationResponse, 0, len(reservations))
	for _, res := range reservations {
		resp := toReservationResponse(res)
		result = append(result, &resp)
	}

	return result
}
