package models

import "time"

type Role string

const (
	RoleStudent Role = "student"
	RoleTeacher Role = "teacher"
	RoleAdmin   Role = "admin"
)

type User struct {
	UserID       string     `db:"user_id"`
	Username     string     `db:"username"`
	Email        string     `db:"email"`
	PasswordHash string     `db:"password_hash"`
	FirstName    string     `db:"first_name"`
	LastName     string     `db:"last_name"`
	Role         Role       `db:"role"`
	Department   *string    `db:"department"`
	IsActive     bool       `db:"is_active"`
	LastLogin    *time.Time `db:"last_login"`
	CreatedAt    time.Time  `db:"created_at"`
}

type ElementType string

const (
	ElementRoom     ElementType = "room"
	ElementCorridor ElementType = "corridor"
	ElementStairs   ElementType = "stairs"
)

type ElementStatus string

const (
	ElementAvailable ElementStatus = "available"
	ElementReserved  ElementStatus = "reserved"
)

type Floor struct {
	FloorNumber int    `db:"floor_number"`
	Name        string `db:"name"`
	Elements    []Element
}

type Element struct {
	ElementID   string        `db:"element_id"`
	FloorNumber int           `db:"floor_number"`
	Name        string        `db:"name"`
	Type        ElementType   `db:"type"`
	Status      ElementStatus `db:"status"`
	X           int           `db:"x"`
	Y           int           `db:"y"`
	Width       int           `db:"width"`
	Height      int           `db:"height"`
	Capacity    *int          `db:"capacity"`
	Equipments  []string      `db:"equipments"`
	RoomType    *string       `db:"room_type"`
}

type ReservationStatus string

const (
	ReservationPending   ReservationStatus = "pending"
	ReservationConfirmed ReservationStatus = "confirmed"
	ReservationCancelled ReservationStatus = "cancelled"
)

type Reservation struct {
	ReservationID string            `db:"reservation_id"`
	RoomID        string            `db:"room_id"`
	FloorNumber   int               `db:"floor_number"`
	UserID        *string           `db:"user_id"`
	Name          string            `db:"name"`
	Email         string            `db:"email"`
	Date          string            `db:"date"`       // YYYY-MM-DD
	StartTime     string            `db:"start_time"` // HH:MM
	EndTime       string            `db:"end_time"`   // HH:MM
	Purpose       string            `db:"purpose"`
	Status        ReservationStatus `db:"status"`
	Notes         *string           `db:"notes"`
	CreatedAt     time.Time         `db:"created_at"`
}
