package finance

import (
	"context"

	"github.com/google/uuid"
	"github.com/mybudget/go-datasync/client"
	"github.com/mybudget/go-datasync/query"
)

// Transactions subscribes to a filtered transaction listing.
func (c *Client) Transactions(params TransactionParams, opts *query.Options[[]Transaction]) (*client.Resource[[]Transaction], error) {
	return client.Subscribe(c.sync, TransactionsKey(params), func(ctx context.Context) ([]Transaction, error) {
		return c.api.FetchTransactions(ctx, params)
	}, opts)
}

// Dashboard subscribes to the landing-view summary.
func (c *Client) Dashboard(opts *query.Options[DashboardSummary]) (*client.Resource[DashboardSummary], error) {
	return client.Subscribe(c.sync, KeyDashboard, func(ctx context.Context) (DashboardSummary, error) {
		return c.api.FetchDashboard(ctx)
	}, opts)
}

// Budgets subscribes to the budget listing.
func (c *Client) Budgets(opts *query.Options[[]Budget]) (*client.Resource[[]Budget], error) {
	return client.Subscribe(c.sync, KeyBudgets, func(ctx context.Context) ([]Budget, error) {
		return c.api.FetchBudgets(ctx)
	}, opts)
}

// Budget subscribes to one budget.
func (c *Client) Budget(id uuid.UUID, opts *query.Options[Budget]) (*client.Resource[Budget], error) {
	return client.Subscribe(c.sync, BudgetKey(id), func(ctx context.Context) (Budget, error) {
		return c.api.FetchBudget(ctx, id)
	}, opts)
}

// Goals subscribes to the goal listing.
func (c *Client) Goals(opts *query.Options[[]Goal]) (*client.Resource[[]Goal], error) {
	return client.Subscribe(c.sync, KeyGoals, func(ctx context.Context) ([]Goal, error) {
		return c.api.FetchGoals(ctx)
	}, opts)
}

// Goal subscribes to one goal.
func (c *Client) Goal(id uuid.UUID, opts *query.Options[Goal]) (*client.Resource[Goal], error) {
	return client.Subscribe(c.sync, GoalKey(id), func(ctx context.Context) (Goal, error) {
		return c.api.FetchGoal(ctx, id)
	}, opts)
}

// Notifications subscribes to the notification listing.
func (c *Client) Notifications(opts *query.Options[[]Notification]) (*client.Resource[[]Notification], error) {
	return client.Subscribe(c.sync, KeyNotifications, func(ctx context.Context) ([]Notification, error) {
		return c.api.FetchNotifications(ctx)
	}, opts)
}

// Achievements subscribes to the achievement listing.
func (c *Client) Achievements(opts *query.Options[[]Achievement]) (*client.Resource[[]Achievement], error) {
	return client.Subscribe(c.sync, KeyAchievements, func(ctx context.Context) ([]Achievement, error) {
		return c.api.FetchAchievements(ctx)
	}, opts)
}

// Profile subscribes to the account profile.
func (c *Client) Profile(opts *query.Options[Profile]) (*client.Resource[Profile], error) {
	return client.Subscribe(c.sync, KeyProfile, func(ctx context.Context) (Profile, error) {
		return c.api.FetchProfile(ctx)
	}, opts)
}

// Settings subscribes to the user settings.
func (c *Client) Settings(opts *query.Options[Settings]) (*client.Resource[Settings], error) {
	return client.Subscribe(c.sync, KeySettings, func(ctx context.Context) (Settings, error) {
		return c.api.FetchSettings(ctx)
	}, opts)
}

// Analytics subscribes to a spending report for the given period.
func (c *Client) Analytics(params AnalyticsParams, opts *query.Options[AnalyticsReport]) (*client.Resource[AnalyticsReport], error) {
	return client.Subscribe(c.sync, AnalyticsKey(params), func(ctx context.Context) (AnalyticsReport, error) {
		return c.api.FetchAnalytics(ctx, params)
	}, opts)
}
