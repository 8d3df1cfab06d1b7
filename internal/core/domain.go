package core

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	Income  TransactionType = "income"
	Expense TransactionType = "expense"
)

const (
	OneTime Frequency = "one-time"
	Weekly  Frequency = "weekly"
	Monthly Frequency = "monthly"
	Yearly  Frequency = "yearly"
)

type (
	TransactionType string

	Frequency string

	Transaction struct {
		ID        string
		UserEmail string
		Type      TransactionType
		Category  string
		Amount    decimal.Decimal
		Date      time.Time
		Note      string
		Frequency Frequency // income only; defaults to one-time
	}

	Budget struct {
		UserEmail string
		Category  string
		Limit     decimal.Decimal // monthly ceiling
	}

	Goal struct {
		ID        string
		UserEmail string
		Name      string
		Target    decimal.Decimal
		Current   decimal.Decimal
		Deadline  time.Time // optional, zero when unset
	}

	Profile struct {
		UserEmail   string
		Name        string
		MemberSince time.Time
		Currency    string
		Language    string
	}
)

var (
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrInvalidType      = errors.New("invalid transaction type")
	ErrInvalidCategory  = errors.New("invalid category")
	ErrInvalidFrequency = errors.New("invalid frequency")
	ErrInvalidDate      = errors.New("invalid date")
	ErrEmptyEmail       = errors.New("empty user email")
	ErrEmptyName        = errors.New("empty name")
	ErrNoteTooLong      = errors.New("note too long (max 200 characters)")
	ErrNegativeProgress = errors.New("progress cannot be negative")
)

// ExpenseCategories lists the valid categories for expense transactions
// and budgets. Order matters for display.
var ExpenseCategories = []string{
	"Food",
	"Transportation",
	"Entertainment",
	"Shopping",
	"Utilities",
	"Medical",
	"Education",
	"Miscellaneous",
}

// IncomeCategories lists the valid income sources.
var IncomeCategories = []string{
	"Salary",
	"Freelance",
	"Business",
	"Investment",
	"Other",
}

// DefaultBudget returns the budget seeded for users who have never set one.
func DefaultBudget(email string) []Budget {
	limits := map[string]int64{
		"Food":           5000,
		"Transportation": 3000,
		"Entertainment":  2000,
		"Shopping":       4000,
		"Utilities":      2500,
		"Medical":        1500,
		"Education":      2000,
		"Miscellaneous":  1000,
	}
	out := make([]Budget, 0, len(ExpenseCategories))
	for _, cat := range ExpenseCategories {
		out = append(out, Budget{
			UserEmail: email,
			Category:  cat,
			Limit:     decimal.NewFromInt(limits[cat]),
		})
	}
	return out
}

// DefaultGoals returns the goals seeded for users who have never created one.
func DefaultGoals(email string) []Goal {
	return []Goal{
		{
			UserEmail: email,
			Name:      "Emergency Fund",
			Target:    decimal.NewFromInt(50000),
			Current:   decimal.NewFromInt(15000),
			Deadline:  time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC),
		},
		{
			UserEmail: email,
			Name:      "Vacation",
			Target:    decimal.NewFromInt(25000),
			Current:   decimal.NewFromInt(8000),
			Deadline:  time.Date(2024, 8, 15, 0, 0, 0, 0, time.UTC),
		},
	}
}

func (t TransactionType) Valid() bool {
	return t == Income || t == Expense
}

func (f Frequency) Valid() bool {
	switch f {
	case OneTime, Weekly, Monthly, Yearly:
		return true
	default:
		return false
	}
}

// ValidCategory reports whether cat belongs to the enum for the given type.
func ValidCategory(t TransactionType, cat string) bool {
	cats := ExpenseCategories
	if t == Income {
		cats = IncomeCategories
	}
	for _, c := range cats {
		if c == cat {
			return true
		}
	}
	return false
}

// NormalizeEmail lowercases and trims an email the way login does, so every
// storage key is derived from the same canonical form.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (t Transaction) Validate() error {
	if strings.TrimSpace(t.UserEmail) == "" {
		return ErrEmptyEmail
	}
	if !t.Type.Valid() {
		return ErrInvalidType
	}
	if !ValidCategory(t.Type, t.Category) {
		return ErrInvalidCategory
	}
	if t.Amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}
	if t.Date.IsZero() {
		return ErrInvalidDate
	}
	if len(t.Note) > 200 {
		return ErrNoteTooLong
	}
	if t.Type == Income && !t.Frequency.Valid() {
		return ErrInvalidFrequency
	}
	return nil
}

func (b Budget) Validate() error {
	if strings.TrimSpace(b.UserEmail) == "" {
		return ErrEmptyEmail
	}
	if !ValidCategory(Expense, b.Category) {
		return ErrInvalidCategory
	}
	if b.Limit.IsNegative() {
		return ErrInvalidAmount
	}
	return nil
}

func (g Goal) Validate() error {
	if strings.TrimSpace(g.UserEmail) == "" {
		return ErrEmptyEmail
	}
	if strings.TrimSpace(g.Name) == "" {
		return ErrEmptyName
	}
	if len(g.Name) > 100 {
		return errors.New("goal name too long (max 100 characters)")
	}
	if g.Target.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}
	if g.Current.IsNegative() {
		return ErrNegativeProgress
	}
	return nil
}

// Progress returns current/target as a percentage clamped to [0, 100].
func (g Goal) Progress() float64 {
	if g.Target.LessThanOrEqual(decimal.Zero) {
		return 0
	}
	pct := g.Current.Div(g.Target).Mul(decimal.NewFromInt(100)).InexactFloat64()
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}

// NewProfile builds the default profile for a fresh user. The display name
// starts as the local part of the email.
func NewProfile(email string, memberSince time.Time) Profile {
	name := email
	if i := strings.IndexByte(email, '@'); i > 0 {
		name = email[:i]
	}
	return Profile{
		UserEmail:   email,
		Name:        name,
		MemberSince: memberSince,
		Currency:    "₹",
		Language:    "English",
	}
}
