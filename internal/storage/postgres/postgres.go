package postgres

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"reservation-service/internal/models"
	"reservation-service/pkg/response"
)

//go:embed schema.sql
var schema string

type Storage struct {
	db *sql.DB
}

func New(storagePath string) (*Storage, error) {
	const op = "storage.postgres.New"

	db, err := sql.Open("postgres", storagePath)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Storage{db: db}, nil
}

// Init applies the schema. Safe to run on every start.
func (s *Storage) Init(ctx context.Context) error {
	const op = "storage.postgres.Init"

	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (s *Storage) Close() error {
	if s == nil || s.db == nil {
		return nil
	}

	return s.db.Close()
}

func (s *Storage) BeginTx(ctx context.Context) (*sql.Tx, error) {
	return s.db.BeginTx(ctx, nil)
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

// #### users ####

func (s *Storage) CreateUser(ctx context.Context, user *models.User) error {
	const op = "storage.postgres.CreateUser"

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (user_id, username, email, password_hash, first_name, last_name, role, department, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		user.UserID, user.Username, user.Email, user.PasswordHash,
		user.FirstName, user.LastName, user.Role, user.Department, user.IsActive,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%s: %w", op, response.ErrAlreadyExists)
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (s *Storage) GetUserByLogin(ctx context.Context, login string) (*models.User, error) {
	const op = "storage.postgres.GetUserByLogin"

	user, err := s.scanUser(s.db.QueryRowContext(ctx, `
		SELECT user_id, username, email, password_hash, first_name, last_name, role, department, is_active, last_login, created_at
		FROM users WHERE username = $1 OR email = $1`, login))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return user, nil
}

func (s *Storage) GetUserByID(ctx context.Context, userID string) (*models.User, error) {
	const op = "storage.postgres.GetUserByID"

	user, err := s.scanUser(s.db.QueryRowContext(ctx, `
		SELECT user_id, username, email, password_hash, first_name, last_name, role, department, is_active, last_login, created_at
		FROM users WHERE user_id = $1`, userID))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return user, nil
}

func (s *Storage) scanUser(row *sql.Row) (*models.User, error) {
	var user models.User

	err := row.Scan(
		&user.UserID, &user.Username, &user.Email, &user.PasswordHash,
		&user.FirstName, &user.LastName, &user.Role, &user.Department,
		&user.IsActive, &user.LastLogin, &user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, response.ErrNotFound
		}
		return nil, err
	}

	return &user, nil
}

func (s *Storage) UpdateLastLogin(ctx context.Context, userID string, at time.Time) error {
	const op = "storage.postgres.UpdateLastLogin"

	_, err := s.db.ExecContext(ctx, `UPDATE users SET last_login = $2 WHERE user_id = $1`, userID, at)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// #### floors ####

func (s *Storage) ListFloors(ctx context.Context) ([]*models.Floor, error) {
	const op = "storage.postgres.ListFloors"

	rows, err := s.db.QueryContext(ctx, `SELECT floor_number, name FROM floors ORDER BY floor_number`)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var floors []*models.Floor
	for rows.Next() {
		var floor models.Floor
		if err := rows.Scan(&floor.FloorNumber, &floor.Name); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		floors = append(floors, &floor)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	for _, floor := range floors {
		elements, err := s.ListElementsByFloor(ctx, floor.FloorNumber)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		floor.Elements = elements
	}

	return floors, nil
}

func (s *Storage) GetFloor(ctx context.Context, floorNumber int) (*models.Floor, error) {
	const op = "storage.postgres.GetFloor"

	var floor models.Floor
	err := s.db.QueryRowContext(ctx, `SELECT floor_number, name FROM floors WHERE floor_number = $1`, floorNumber).
		Scan(&floor.FloorNumber, &floor.Name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, response.ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	floor.Elements, err = s.ListElementsByFloor(ctx, floorNumber)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &floor, nil
}

func (s *Storage) UpsertFloor(ctx context.Context, floorNumber int, name string) error {
	const op = "storage.postgres.UpsertFloor"

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO floors (floor_number, name) VALUES ($1, $2)
		ON CONFLICT (floor_number) DO UPDATE SET name = EXCLUDED.name`,
		floorNumber, name,
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// #### elements ####

const elementColumns = `element_id, floor_number, name, type, status, x, y, width, height, capacity, equipments, room_type`

func (s *Storage) ListElementsByFloor(ctx context.Context, floorNumber int) ([]models.Element, error) {
	const op = "storage.postgres.ListElementsByFloor"

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+elementColumns+` FROM elements WHERE floor_number = $1 ORDER BY name`, floorNumber)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	elements := make([]models.Element, 0)
	for rows.Next() {
		var el models.Element
		err := rows.Scan(
			&el.ElementID, &el.FloorNumber, &el.Name, &el.Type, &el.Status,
			&el.X, &el.Y, &el.Width, &el.Height,
			&el.Capacity, pq.Array(&el.Equipments), &el.RoomType,
		)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		elements = append(elements, el)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return elements, nil
}

func (s *Storage) GetElement(ctx context.Context, floorNumber int, elementID string) (*models.Element, error) {
	const op = "storage.postgres.GetElement"

	var el models.Element
	err := s.db.QueryRowContext(ctx,
		`SELECT `+elementColumns+` FROM elements WHERE floor_number = $1 AND element_id = $2`,
		floorNumber, elementID,
	).Scan(
		&el.ElementID, &el.FloorNumber, &el.Name, &el.Type, &el.Status,
		&el.X, &el.Y, &el.Width, &el.Height,
		&el.Capacity, pq.Array(&el.Equipments), &el.RoomType,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, response.ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &el, nil
}

func (s *Storage) CreateElement(ctx context.Context, el *models.Element) error {
	const op = "storage.postgres.CreateElement"

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO elements (element_id, floor_number, name, type, status, x, y, width, height, capacity, equipments, room_type)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		el.ElementID, el.FloorNumber, el.Name, el.Type, el.Status,
		el.X, el.Y, el.Width, el.Height,
		el.Capacity, pq.Array(el.Equipments), el.RoomType,
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (s *Storage) UpdateElement(ctx context.Context, el *models.Element) error {
	const op = "storage.postgres.UpdateElement"

	res, err := s.db.ExecContext(ctx, `
		UPDATE elements
		SET name = $3, type = $4, x = $5, y = $6, width = $7, height = $8,
			capacity = $9, equipments = $10, room_type = $11
		WHERE floor_number = $1 AND element_id = $2`,
		el.FloorNumber, el.ElementID, el.Name, el.Type,
		el.X, el.Y, el.Width, el.Height,
		el.Capacity, pq.Array(el.Equipments), el.RoomType,
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", op, response.ErrNotFound)
	}

	return nil
}

func (s *Storage) DeleteElement(ctx context.Context, floorNumber int, elementID string) error {
	const op = "storage.postgres.DeleteElement"

	res, err := s.db.ExecContext(ctx,
		`DELETE FROM elements WHERE floor_number = $1 AND element_id = $2`, floorNumber, elementID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", op, response.ErrNotFound)
	}

	return nil
}

func (s *Storage) UpdateElementStatusTx(ctx context.Context, tx *sql.Tx, elementID string, status models.ElementStatus) error {
	const op = "storage.postgres.UpdateElementStatusTx"

	_, err := tx.ExecContext(ctx, `UPDATE elements SET status = $2 WHERE element_id = $1`, elementID, status)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// #### reservations ####

const reservationColumns = `reservation_id, room_id, floor_number, user_id, name, email, date, start_time, end_time, purpose, status, notes, created_at`

func (s *Storage) CreateReservationTx(ctx context.Context, tx *sql.Tx, res *models.Reservation) error {
	const op = "storage.postgres.CreateReservationTx"

	_, err := tx.ExecContext(ctx, `
		INSERT INTO reservations (reservation_id, room_id, floor_number, user_id, name, email, date, start_time, end_time, purpose, status, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		res.ReservationID, res.RoomID, res.FloorNumber, res.UserID,
		res.Name, res.Email, res.Date, res.StartTime, res.EndTime,
		res.Purpose, res.Status, res.Notes,
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// CountOverlappingTx counts confirmed reservations for the room and date whose
// half-open [start_time, end_time) interval intersects [start, end). HH:MM
// strings are zero-padded, so lexicographic comparison orders correctly.
func (s *Storage) CountOverlappingTx(ctx context.Context, tx *sql.Tx, roomID, date, start, end string) (int, error) {
	const op = "storage.postgres.CountOverlappingTx"

	var n int
	err := tx.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM reservations
		WHERE room_id = $1 AND date = $2 AND status = 'confirmed'
		  AND start_time < $4 AND end_time > $3`,
		roomID, date, start, end,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return n, nil
}

func (s *Storage) GetReservation(ctx context.Context, id string) (*models.Reservation, error) {
	const op = "storage.postgres.GetReservation"

	var res models.Reservation
	err := s.db.QueryRowContext(ctx,
		`SELECT `+reservationColumns+` FROM reservations WHERE reservation_id = $1`, id,
	).Scan(
		&res.ReservationID, &res.RoomID, &res.FloorNumber, &res.UserID,
		&res.Name, &res.Email, &res.Date, &res.StartTime, &res.EndTime,
		&res.Purpose, &res.Status, &res.Notes, &res.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, response.ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &res, nil
}

func (s *Storage) ListReservations(ctx context.Context, roomID *string, floorNumber *int, date, status, userID *string) ([]*models.Reservation, error) {
	const op = "storage.postgres.ListReservations"

	query := `SELECT ` + reservationColumns + ` FROM reservations WHERE 1=1`
	args := []any{}

	if roomID != nil {
		args = append(args, *roomID)
		query += fmt.Sprintf(" AND room_id = $%d", len(args))
	}
	if floorNumber != nil {
		args = append(args, *floorNumber)
		query += fmt.Sprintf(" AND floor_number = $%d", len(args))
	}
	if date != nil {
		args = append(args, *date)
		query += fmt.Sprintf(" AND date = $%d", len(args))
	}
	if status != nil {
		args = append(args, *status)
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}
	if userID != nil {
		args = append(args, *userID)
		query += fmt.Sprintf(" AND user_id = $%d", len(args))
	}

	query += " ORDER BY date, start_time"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	reservations := make([]*models.Reservation, 0)
	for rows.Next() {
		var res models.Reservation
		err := rows.Scan(
			&res.ReservationID, &res.RoomID, &res.FloorNumber, &res.UserID,
			&res.Name, &res.Email, &res.Date, &res.StartTime, &res.EndTime,
			&res.Purpose, &res.Status, &res.Notes, &res.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		reservations = append(reservations, &res)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return reservations, nil
}

// ReservedRoomIDs returns ids of rooms having a confirmed reservation on the
// given date. Backs the derived availability view.
func (s *Storage) ReservedRoomIDs(ctx context.Context, floorNumber int, date string) (map[string]struct{}, error) {
	const op = "storage.postgres.ReservedRoomIDs"

	rows, err := s.db.QueryContext(ctx, `
		SELECT DISTINCT room_id FROM reservations
		WHERE floor_number = $1 AND date = $2 AND status = 'confirmed'`,
		floorNumber, date,
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	reserved := make(map[string]struct{})
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		reserved[id] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return reserved, nil
}

func (s *Storage) UpdateReservationStatus(ctx context.Context, id string, status models.ReservationStatus) error {
	const op = "storage.postgres.UpdateReservationStatus"

	res, err := s.db.ExecContext(ctx,
		`UPDATE reservations SET status = $2 WHERE reservation_id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", op, response.ErrNotFound)
	}

	return nil
}

func (s *Storage) DeleteReservationTx(ctx context.Context, tx *sql.Tx, id string) error {
	const op = "storage.postgres.DeleteReservationTx"

	res, err := tx.ExecContext(ctx, `DELETE FROM reservations WHERE reservation_id = $1`, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", op, response.ErrNotFound)
	}

	return nil
}
