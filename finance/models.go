package finance

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Transaction is a single income or expense entry.
type Transaction struct {
	ID          uuid.UUID       `json:"id"`
	Amount      decimal.Decimal `json:"amount"`
	Category    string          `json:"category"`
	Description string          `json:"description"`
	Date        time.Time       `json:"date"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// TransactionParams filters a transaction listing. The zero value
// lists everything.
type TransactionParams struct {
	// Month restricts results to a calendar month, formatted 2006-01.
	Month    string `json:"month,omitempty"`
	Category string `json:"category,omitempty"`
	Search   string `json:"search,omitempty"`
}

// TransactionInput carries the writable transaction fields.
type TransactionInput struct {
	Amount      decimal.Decimal `json:"amount"`
	Category    string          `json:"category"`
	Description string          `json:"description"`
	Date        time.Time       `json:"date"`
}

// TransactionUpdate pairs a transaction with its replacement fields.
type TransactionUpdate struct {
	ID    uuid.UUID        `json:"id"`
	Input TransactionInput `json:"input"`
}

// Budget is a monthly spending limit for one category.
type Budget struct {
	ID        uuid.UUID       `json:"id"`
	Category  string          `json:"category"`
	Limit     decimal.Decimal `json:"limit"`
	Spent     decimal.Decimal `json:"spent"`
	Month     string          `json:"month"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// BudgetInput carries the writable budget fields.
type BudgetInput struct {
	Category string          `json:"category"`
	Limit    decimal.Decimal `json:"limit"`
	Month    string          `json:"month"`
}

// Goal is a savings target with optional milestones.
type Goal struct {
	ID            uuid.UUID       `json:"id"`
	Name          string          `json:"name"`
	TargetAmount  decimal.Decimal `json:"target_amount"`
	CurrentAmount decimal.Decimal `json:"current_amount"`
	Deadline      time.Time       `json:"deadline"`
	Milestones    []Milestone     `json:"milestones,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// GoalInput carries the writable goal fields.
type GoalInput struct {
	Name         string          `json:"name"`
	TargetAmount decimal.Decimal `json:"target_amount"`
	Deadline     time.Time       `json:"deadline"`
}

// Milestone marks an intermediate amount on the way to a goal.
type Milestone struct {
	ID      uuid.UUID       `json:"id"`
	GoalID  uuid.UUID       `json:"goal_id"`
	Name    string          `json:"name"`
	Amount  decimal.Decimal `json:"amount"`
	Reached bool            `json:"reached"`
}

// MilestoneInput carries the writable milestone fields.
type MilestoneInput struct {
	Name   string          `json:"name"`
	Amount decimal.Decimal `json:"amount"`
}

// Contribution is money put toward a goal.
type Contribution struct {
	ID     uuid.UUID       `json:"id"`
	GoalID uuid.UUID       `json:"goal_id"`
	Amount decimal.Decimal `json:"amount"`
	Note   string          `json:"note,omitempty"`
	Date   time.Time       `json:"date"`
}

// ContributionInput carries the writable contribution fields.
type ContributionInput struct {
	Amount decimal.Decimal `json:"amount"`
	Note   string          `json:"note,omitempty"`
}

// Notification is a message surfaced to the user.
type Notification struct {
	ID        uuid.UUID `json:"id"`
	Type      string    `json:"type"`
	Message   string    `json:"message"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
}

// Achievement is a gamification badge, locked until UnlockedAt is set.
type Achievement struct {
	ID          uuid.UUID  `json:"id"`
	Code        string     `json:"code"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	UnlockedAt  *time.Time `json:"unlocked_at,omitempty"`
}

// Profile is the account identity.
type Profile struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Currency  string    `json:"currency"`
	CreatedAt time.Time `json:"created_at"`
}

// ProfileInput carries the writable profile fields.
type ProfileInput struct {
	Name     string `json:"name"`
	Currency string `json:"currency"`
}

// Settings are the user's application preferences.
type Settings struct {
	Theme                string `json:"theme"`
	Language             string `json:"language"`
	NotificationsEnabled bool   `json:"notifications_enabled"`
	MonthlyReportDay     int    `json:"monthly_report_day"`
}

// SettingsInput carries the writable settings fields.
type SettingsInput struct {
	Theme                string `json:"theme"`
	Language             string `json:"language"`
	NotificationsEnabled bool   `json:"notifications_enabled"`
	MonthlyReportDay     int    `json:"monthly_report_day"`
}

// DashboardSummary aggregates the numbers shown on the landing view.
type DashboardSummary struct {
	TotalBalance        decimal.Decimal `json:"total_balance"`
	MonthlyIncome       decimal.Decimal `json:"monthly_income"`
	MonthlyExpenses     decimal.Decimal `json:"monthly_expenses"`
	BudgetUtilization   decimal.Decimal `json:"budget_utilization"`
	RecentTransactions  []Transaction   `json:"recent_transactions,omitempty"`
	ActiveGoals         int             `json:"active_goals"`
	UnreadNotifications int             `json:"unread_notifications"`
}

// AnalyticsParams bounds an analytics report.
type AnalyticsParams struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
	// Granularity is day, week or month.
	Granularity string `json:"granularity,omitempty"`
}

// MonthlyFlow is one bucket of the income versus expenses series.
type MonthlyFlow struct {
	Month    string          `json:"month"`
	Income   decimal.Decimal `json:"income"`
	Expenses decimal.Decimal `json:"expenses"`
}

// AnalyticsReport is the spending breakdown over a period.
type AnalyticsReport struct {
	SpendingByCategory map[string]decimal.Decimal `json:"spending_by_category"`
	IncomeVsExpenses   []MonthlyFlow              `json:"income_vs_expenses"`
	SavingsRate        decimal.Decimal            `json:"savings_rate"`
}

// Credentials authenticate an existing account.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Registration creates a new account.
type Registration struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// Session is an authenticated API session.
type Session struct {
	Token     string    `json:"token"`
	UserID    uuid.UUID `json:"user_id"`
	ExpiresAt time.Time `json:"expires_at"`
}
