package model

import "time"

// Event is a check-in event. Its two pattern fields define the code-space
// accepted at redemption time; both must always hold compilable regular
// expressions. The slug is immutable after creation.
type Event struct {
	ID                   string     `db:"id" json:"id"`
	Slug                 string     `db:"slug" json:"slug"`
	Name                 string     `db:"name" json:"name"`
	Description          *string    `db:"description" json:"description,omitempty"`
	CodePrefix           string     `db:"code_prefix" json:"codePrefix"`
	AttendantCodePattern string     `db:"attendant_code_pattern" json:"attendantCodePattern"`
	DriverCodePattern    *string    `db:"driver_code_pattern" json:"driverCodePattern,omitempty"`
	IsActive             bool       `db:"is_active" json:"isActive"`
	StartDate            *time.Time `db:"start_date" json:"startDate,omitempty"`
	EndDate              *time.Time `db:"end_date" json:"endDate,omitempty"`
	CreatedAt            time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt            time.Time  `db:"updated_at" json:"updatedAt"`
}

// EventWithCount carries an event plus its redemption total for listings.
type EventWithCount struct {
	Event
	InviteCount int `db:"invite_count" json:"inviteCount"`
}

type CreateEventParams struct {
	ID                   string
	Slug                 string
	Name                 string
	Description          *string
	CodePrefix           string
	AttendantCodePattern string
	DriverCodePattern    *string
	StartDate            *time.Time
	EndDate              *time.Time
}

// UpdateEventParams holds optional field updates. Nil means "leave unchanged".
// The slug is deliberately absent: it cannot change after creation.
type UpdateEventParams struct {
	Name                 *string
	Description          *string
	CodePrefix           *string
	AttendantCodePattern *string
	DriverCodePattern    *string
	IsActive             *bool
	StartDate            *time.Time
	EndDate              *time.Time
}
