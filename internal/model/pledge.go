package model

import "time"

// Pledge is a monetary commitment by a user toward a project's goal.
// Pledges are immutable once created.
type Pledge struct {
	ID        string    `json:"id,omitempty"`
	ProjectID string    `json:"project_id,omitempty"`
	UserID    string    `json:"user_id,omitempty"`
	Amount    float64   `json:"amount"`
	CreatedAt time.Time `json:"created_at"`
}

// ChartPoint is one point of the cumulative funding chart.
type ChartPoint struct {
	Date  string    `json:"date"` // day label, e.g. "Jan 2"
	At    time.Time `json:"at"`
	Total float64   `json:"total"`
}
