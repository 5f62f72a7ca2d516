package model

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Project はクラウドファンディングのキャンペーンを表す
type Project struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	GoalAmount    float64   `json:"goal_amount"`
	CurrentAmount float64   `json:"current_amount"` // pledges の挿入に合わせてストア側で集計される
	EndDate       Date      `json:"end_date"`
	BackerCount   int       `json:"backer_count"`
	CreatedAt     time.Time `json:"created_at"`
	UserID        string    `json:"user_id"`
}

// ProjectSort は一覧の並び順
type ProjectSort string

const (
	SortNewest     ProjectSort = "newest"
	SortMostFunded ProjectSort = "most-funded"
	SortEndingSoon ProjectSort = "ending-soon"
)

// ParseProjectSort は不明な値を SortNewest に丸める
func ParseProjectSort(s string) ProjectSort {
	switch ProjectSort(strings.TrimSpace(s)) {
	case SortMostFunded:
		return SortMostFunded
	case SortEndingSoon:
		return SortEndingSoon
	default:
		return SortNewest
	}
}

// OrderColumn returns the column and direction the store orders by.
func (s ProjectSort) OrderColumn() (column string, ascending bool) {
	switch s {
	case SortMostFunded:
		return "current_amount", false
	case SortEndingSoon:
		return "end_date", true
	default:
		return "created_at", false
	}
}

const dateLayout = "2006-01-02"

// Date is a calendar date serialized as YYYY-MM-DD.
type Date struct {
	time.Time
}

// NewDate truncates t to midnight UTC of its calendar day.
func NewDate(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Time: time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

// ParseDate accepts "YYYY-MM-DD" or RFC 3339.
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(dateLayout, s); err == nil {
		return NewDate(t), nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return NewDate(t), nil
	}
	return Date{}, fmt.Errorf("invalid date %q", s)
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(dateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*d = Date{}
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	if s == "" {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
