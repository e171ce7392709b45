package models

import "time"

type StaffShift struct {
	ID        int       `json:"id"`
	UserID    int       `json:"user_id"`
	UserName  string    `json:"user_name,omitempty"` // Denormalized for display
	ShiftDate time.Time `json:"shift_date"`
	ShiftCode string    `json:"shift_code"` // 'M' morning, 'A' afternoon, 'N' night
	Area      string    `json:"area"`       // import, export, ramp...
	Remark    string    `json:"remark,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CreateStaffShiftRequest represents the request body for rostering a shift
type CreateStaffShiftRequest struct {
	UserID    int    `json:"user_id"`
	ShiftDate string `json:"shift_date"` // YYYY-MM-DD
	ShiftCode string `json:"shift_code"`
	Area      string `json:"area"`
	Remark    string `json:"remark"`
}
