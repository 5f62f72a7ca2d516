// Package funding derives the presentational figures of a campaign:
// percent funded, progress width, days left, remaining amount and the
// cumulative pledge chart. It also holds the pledge guard shared by every
// storage backend.
package funding

import (
	"errors"
	"math"
	"slices"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/akhadeatharv/Crowd-Funding-Project/internal/model"
)

// FundedMessage replaces the pledge form once a project reaches its goal.
const FundedMessage = "This project has been successfully funded!"

var (
	// ErrInvalidAmount is returned for zero, negative or non-finite pledge amounts.
	ErrInvalidAmount = errors.New("pledge amount must be greater than zero")
	// ErrAlreadyFunded is returned when pledging to a completed project.
	ErrAlreadyFunded = errors.New(FundedMessage)
)

// ExceedsRemainingError reports a pledge larger than what the goal still needs.
type ExceedsRemainingError struct {
	Remaining float64
}

func (e *ExceedsRemainingError) Error() string {
	return "The maximum pledge amount available is " + FormatUSD(e.Remaining)
}

var printer = message.NewPrinter(language.AmericanEnglish)

// FormatUSD formats an amount as dollars with two decimals.
func FormatUSD(amount float64) string {
	return printer.Sprintf("$%.2f", amount)
}

// PercentFunded returns current/goal*100 without clamping. A non-positive goal yields 0.
func PercentFunded(current, goal float64) float64 {
	if goal <= 0 {
		return 0
	}
	return current / goal * 100
}

// ProgressWidth clamps a percentage to the 0..100 range of a progress bar.
func ProgressWidth(percent float64) float64 {
	return math.Max(0, math.Min(100, percent))
}

// DaysLeft returns the number of whole days from now until end, never negative.
func DaysLeft(end, now time.Time) int {
	days := int(end.Sub(now).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}

// MaxAmount is the largest value a NUMERIC(14,2) money column holds.
const MaxAmount = 999_999_999_999.99

// Cents converts a dollar amount to whole cents, the precision of NUMERIC(14,2).
func Cents(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

// Completed reports whether the goal has been reached.
func Completed(current, goal float64) bool {
	return Cents(current) >= Cents(goal)
}

// Remaining returns goal-current floored at zero, rounded to the cent.
func Remaining(goal, current float64) float64 {
	return float64(max(0, Cents(goal)-Cents(current))) / 100
}

// ExceedsRemaining reports whether amount is more than the goal still needs.
// Amounts are compared in cents so that pledging exactly the remainder is accepted.
func ExceedsRemaining(amount, goal, current float64) bool {
	return Cents(amount) > Cents(goal)-Cents(current)
}

// Compute derives all metrics of a project at the given instant.
func Compute(p *model.Project, now time.Time) model.Metrics {
	percent := PercentFunded(p.CurrentAmount, p.GoalAmount)
	m := model.Metrics{
		PercentFunded:   percent,
		PercentLabel:    int(math.Round(percent)),
		ProgressWidth:   ProgressWidth(percent),
		DaysLeft:        DaysLeft(p.EndDate.Time, now),
		Completed:       Completed(p.CurrentAmount, p.GoalAmount),
		RemainingAmount: Remaining(p.GoalAmount, p.CurrentAmount),
	}
	if m.Completed {
		m.FundedMessage = FundedMessage
	}
	return m
}

// CheckPledge validates amount against a project snapshot.
func CheckPledge(p *model.Project, amount float64) error {
	if math.IsNaN(amount) || math.IsInf(amount, 0) || Cents(amount) <= 0 {
		return ErrInvalidAmount
	}
	if Completed(p.CurrentAmount, p.GoalAmount) {
		return ErrAlreadyFunded
	}
	if ExceedsRemaining(amount, p.GoalAmount, p.CurrentAmount) {
		return &ExceedsRemainingError{Remaining: Remaining(p.GoalAmount, p.CurrentAmount)}
	}
	return nil
}

// Chart reduces pledges into a running cumulative total, one point per pledge,
// ordered by creation time. Pledges made on the same day stay separate points.
func Chart(pledges []*model.Pledge) []model.ChartPoint {
	sorted := slices.Clone(pledges)
	slices.SortStableFunc(sorted, func(a, b *model.Pledge) int {
		return a.CreatedAt.Compare(b.CreatedAt)
	})

	points := make([]model.ChartPoint, 0, len(sorted))
	var total float64
	for _, p := range sorted {
		total += p.Amount
		day := p.CreatedAt.UTC()
		points = append(points, model.ChartPoint{
			Date:  day.Format("Jan 2"),
			At:    time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC),
			Total: total,
		})
	}
	return points
}

// Filter keeps projects whose title or description contains term, ignoring case.
// An empty term keeps everything. The input slice is not modified.
func Filter(projects []*model.Project, term string) []*model.Project {
	term = strings.ToLower(strings.TrimSpace(term))
	out := make([]*model.Project, 0, len(projects))
	for _, p := range projects {
		if term == "" ||
			strings.Contains(strings.ToLower(p.Title), term) ||
			strings.Contains(strings.ToLower(p.Description), term) {
			out = append(out, p)
		}
	}
	return out
}
