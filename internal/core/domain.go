package core

import (
	"errors"
	"strings"
	"time"
)

const (
	// Monthly is the only period currently used for limit evaluation.
	Monthly Period = "monthly"
)

// DefaultCategories is seeded for every newly registered user.
var DefaultCategories = []string{
	"Food", "Housing", "Transportation", "Entertainment",
	"Healthcare", "Personal", "Education", "Other",
}

type (
	Period string

	Date struct {
		time.Time
	}

	Money struct {
		Cents int64
	}

	User struct {
		ID        int64
		Email     string
		Name      string
		CreatedAt time.Time
	}

	Category struct {
		ID          int64
		UserID      int64
		Name        string
		Description string
	}

	// Expense is immutable once recorded.
	Expense struct {
		ID          int64
		UserID      int64
		CategoryID  int64
		Category    string
		Date        Date
		Amount      Money
		Description string
	}

	// Limit is a spending ceiling for a period. CategoryID of zero means
	// the limit applies across all of the user's categories.
	Limit struct {
		ID         int64
		UserID     int64
		CategoryID int64
		Category   string
		Amount     Money
		Period     Period
	}

	// LimitResult reports the outcome of limit evaluation for a recorded
	// expense. Limit and AlertID are only meaningful when Exceeded is true.
	LimitResult struct {
		Exceeded bool
		Limit    Money
		AlertID  int64
	}

	// Alert records that a specific expense pushed period spending past a
	// limit's ceiling. Created only by the recorder flow.
	Alert struct {
		ID         int64
		UserID     int64
		ExpenseID  int64
		Category   string
		Amount     Money
		LimitCents int64
		Date       time.Time
		IsRead     bool
	}
)

var (
	ErrInvalidDate     = errors.New("invalid date")
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrInvalidPeriod   = errors.New("invalid period")
	ErrEmptyName       = errors.New("empty name")
	ErrEmptyEmail      = errors.New("empty email")
	ErrInvalidCategory = errors.New("invalid category")
	ErrNotFound        = errors.New("not found")
)

// Limit returns the ceiling that was exceeded as Money.
func (a Alert) Limit() Money {
	return Money{Cents: a.LimitCents}
}

// Overall reports whether the limit applies across all categories.
func (l Limit) Overall() bool {
	return l.CategoryID == 0
}

func (p Period) Validate() error {
	switch p {
	case Monthly:
		return nil
	default:
		return ErrInvalidPeriod
	}
}

// NewDate creates a Date from year, month, day.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

// Day returns the day of the month.
func (d Date) Day() int {
	return d.Time.Day()
}

// Month returns the month as an int.
func (d Date) Month() int {
	return int(d.Time.Month())
}

// Year returns the year.
func (d Date) Year() int {
	return d.Time.Year()
}

func (m Money) Validate() error {
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (c Category) Validate() error {
	if len(strings.TrimSpace(c.Name)) == 0 {
		return ErrEmptyName
	}
	if len(c.Name) > 100 {
		return errors.New("category name too long (max 100 characters)")
	}
	if len(c.Description) > 200 {
		return errors.New("description too long (max 200 characters)")
	}
	return nil
}

func (e Expense) Validate() error {
	if err := e.Date.Validate(); err != nil {
		return err
	}
	if err := e.Amount.Validate(); err != nil {
		return err
	}
	if e.CategoryID <= 0 {
		return ErrInvalidCategory
	}
	if len(e.Description) > 200 {
		return errors.New("description too long (max 200 characters)")
	}
	return nil
}

func (l Limit) Validate() error {
	if err := l.Amount.Validate(); err != nil {
		return err
	}
	return l.Period.Validate()
}

func (u User) Validate() error {
	if len(strings.TrimSpace(u.Email)) == 0 {
		return ErrEmptyEmail
	}
	if !strings.Contains(u.Email, "@") {
		return errors.New("malformed email")
	}
	if len(strings.TrimSpace(u.Name)) == 0 {
		return ErrEmptyName
	}
	return nil
}
