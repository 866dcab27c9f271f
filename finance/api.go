package finance

import (
	"context"

	"github.com/google/uuid"
)

// TransactionAPI covers transaction reads and writes.
type TransactionAPI interface {
	FetchTransactions(ctx context.Context, params TransactionParams) ([]Transaction, error)
	CreateTransaction(ctx context.Context, input TransactionInput) (Transaction, error)
	UpdateTransaction(ctx context.Context, id uuid.UUID, input TransactionInput) (Transaction, error)
	DeleteTransaction(ctx context.Context, id uuid.UUID) error
}

// BudgetAPI covers budget reads and writes.
type BudgetAPI interface {
	FetchBudgets(ctx context.Context) ([]Budget, error)
	FetchBudget(ctx context.Context, id uuid.UUID) (Budget, error)
	CreateBudget(ctx context.Context, input BudgetInput) (Budget, error)
	UpdateBudget(ctx context.Context, id uuid.UUID, input BudgetInput) (Budget, error)
	DeleteBudget(ctx context.Context, id uuid.UUID) error
}

// GoalAPI covers goals, milestones and contributions.
type GoalAPI interface {
	FetchGoals(ctx context.Context) ([]Goal, error)
	FetchGoal(ctx context.Context, id uuid.UUID) (Goal, error)
	CreateGoal(ctx context.Context, input GoalInput) (Goal, error)
	UpdateGoal(ctx context.Context, id uuid.UUID, input GoalInput) (Goal, error)
	DeleteGoal(ctx context.Context, id uuid.UUID) error
	AddMilestone(ctx context.Context, goalID uuid.UUID, input MilestoneInput) (Milestone, error)
	AddContribution(ctx context.Context, goalID uuid.UUID, input ContributionInput) (Contribution, error)
}

// NotificationAPI covers notifications.
type NotificationAPI interface {
	FetchNotifications(ctx context.Context) ([]Notification, error)
	MarkNotificationRead(ctx context.Context, id uuid.UUID) (Notification, error)
	MarkAllNotificationsRead(ctx context.Context) (int, error)
}

// AccountAPI covers the profile, settings and authentication.
type AccountAPI interface {
	FetchProfile(ctx context.Context) (Profile, error)
	UpdateProfile(ctx context.Context, input ProfileInput) (Profile, error)
	FetchSettings(ctx context.Context) (Settings, error)
	UpdateSettings(ctx context.Context, input SettingsInput) (Settings, error)
	Login(ctx context.Context, creds Credentials) (Session, error)
	Register(ctx context.Context, reg Registration) (Session, error)
	Logout(ctx context.Context) error
}

// InsightAPI covers the aggregated read-only views.
type InsightAPI interface {
	FetchDashboard(ctx context.Context) (DashboardSummary, error)
	FetchAchievements(ctx context.Context) ([]Achievement, error)
	FetchAnalytics(ctx context.Context, params AnalyticsParams) (AnalyticsReport, error)
}

// API is the backend boundary the kit synchronizes against. Transport
// is the implementer's concern.
type API interface {
	TransactionAPI
	BudgetAPI
	GoalAPI
	NotificationAPI
	AccountAPI
	InsightAPI
}
