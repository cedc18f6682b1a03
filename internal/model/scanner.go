package model

import "time"

// Scanner is a device operator allowed to redeem codes. At least one of
// PhoneNumber or Email is always set; uniqueness is enforced on whichever is
// present. The PIN is stored as a bcrypt hash, never in plain text.
type Scanner struct {
	ID          string    `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	PhoneNumber *string   `db:"phone_number" json:"phoneNumber,omitempty"`
	Email       *string   `db:"email" json:"email,omitempty"`
	PinHash     string    `db:"pin_hash" json:"-"`
	IsActive    bool      `db:"is_active" json:"isActive"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time `db:"updated_at" json:"updatedAt"`
}

// ScannerWithCounts carries per-scanner totals for admin listings.
type ScannerWithCounts struct {
	Scanner
	InviteCount     int `db:"invite_count" json:"inviteCount"`
	AssignmentCount int `db:"assignment_count" json:"assignmentCount"`
}

// ScannerAssignment links a scanner to an event it may redeem codes for.
// The (ScannerID, EventID) pair is unique.
type ScannerAssignment struct {
	ScannerID  string    `db:"scanner_id" json:"scannerId"`
	EventID    string    `db:"event_id" json:"eventId"`
	AssignedAt time.Time `db:"assigned_at" json:"assignedAt"`
}

type CreateScannerParams struct {
	ID          string
	Name        string
	PhoneNumber *string
	Email       *string
	PinHash     string
}

type UpdateScannerParams struct {
	Name        *string
	PhoneNumber *string
	Email       *string
	PinHash     *string
	IsActive    *bool
}
