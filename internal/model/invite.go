package model

import "time"

// Invite is a redemption record: one row per accepted code per event.
// Rows are written exactly once and never updated. The (EventID, Code) pair
// is unique, so the same literal code can still be redeemed independently in
// a different event.
type Invite struct {
	ID        string    `db:"id" json:"id"`
	Code      string    `db:"code" json:"code"`
	EventID   string    `db:"event_id" json:"eventId"`
	ScannerID string    `db:"scanner_id" json:"scannerId"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

type CreateInviteParams struct {
	ID        string
	Code      string
	EventID   string
	ScannerID string
}

// RecentScan is the trimmed invite view used by event stats.
type RecentScan struct {
	Code      string    `db:"code" json:"code"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// HourlyScanCount buckets redemptions by hour for stats.
type HourlyScanCount struct {
	Hour  time.Time `db:"hour" json:"hour"`
	Count int       `db:"count" json:"count"`
}
