package api

type RegisterRequest struct {
	Username   string  `json:"username"`
	Email      string  `json:"email"`
	Password   string  `json:"password"`
	FirstName  string  `json:"first_name"`
	LastName   string  `json:"last_name"`
	Role       string  `json:"role,omitempty"`
	Department *string `json:"department,omitempty"`
}

type LoginRequest struct {
	Login    string `json:"login"` // username or email
	Password string `json:"password"`
}

type UserResponse struct {
	ID         string  `json:"id"`
	Username   string  `json:"username"`
	Email      string  `json:"email"`
	FirstName  string  `json:"first_name"`
	LastName   string  `json:"last_name"`
	Role       string  `json:"role"`
	Department *string `json:"department,omitempty"`
	IsActive   bool    `json:"is_active"`
	LastLogin  *string `json:"last_login,omitempty"`
}

type AuthResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

type FloorRequest struct {
	Name string `json:"name"`
}

type FloorResponse struct {
	FloorNumber int               `json:"floor_number"`
	Name        string            `json:"name"`
	Elements    []ElementResponse `json:"elements"`
}

type ElementRequest struct {
	Name       string   `json:"name"`
	Type       string   `json:"type"`
	X          int      `json:"x"`
	Y          int      `json:"y"`
	Width      int      `json:"width"`
	Height     int      `json:"height"`
	Capacity   *int     `json:"capacity,omitempty"`
	Equipments []string `json:"equipments,omitempty"`
	RoomType   *string  `json:"room_type,omitempty"`
}

type ElementResponse struct {
	ID          string   `json:"id"`
	FloorNumber int      `json:"floor_number"`
	Name        string   `json:"name"`
	Type        string   `json:"type"`
	Status      string   `json:"status"`
	X           int      `json:"x"`
	Y           int      `json:"y"`
	Width       int      `json:"width"`
	Height      int      `json:"height"`
	Capacity    *int     `json:"capacity,omitempty"`
	Equipments  []string `json:"equipments,omitempty"`
	RoomType    *string  `json:"room_type,omitempty"`
}

type ReservationRequest struct {
	RoomID      string  `json:"room_id"`
	FloorNumber int     `json:"floor_number"`
	Name        string  `json:"name"`
	Email       string  `json:"email"`
	Date        string  `json:"date"`       // YYYY-MM-DD
	StartTime   string  `json:"start_time"` // HH:MM
	EndTime     string  `json:"end_time"`   // HH:MM
	Purpose     string  `json:"purpose"`
	Notes       *string `json:"notes,omitempty"`
}

type ReservationStatusRequest struct {
	Status string `json:"status"`
}

type ReservationResponse struct {
	ID          string  `json:"id"`
	RoomID      string  `json:"room_id"`
	FloorNumber int     `json:"floor_number"`
	UserID      *string `json:"user_id,omitempty"`
	Name        string  `json:"name"`
	Email       string  `json:"email"`
	Date        string  `json:"date"`
	StartTime   string  `json:"start_time"`
	EndTime     string  `json:"end_time"`
	Purpose     string  `json:"purpose"`
	Status      string  `json:"status"`
	Notes       *string `json:"notes,omitempty"`
}
