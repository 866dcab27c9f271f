package finance

import (
	"context"

	"github.com/google/uuid"
	"github.com/mybudget/go-datasync/client"
	"github.com/mybudget/go-datasync/mutation"
)

// Collection-wide eviction patterns. Writes to a collection invalidate
// every cached listing of it plus the dashboard aggregates derived
// from it.
const (
	transactionsAll  = KeyTransactions + mutation.PrefixWildcard
	budgetsAll       = KeyBudgets + mutation.PrefixWildcard
	goalsAll         = KeyGoals + mutation.PrefixWildcard
	notificationsAll = KeyNotifications + mutation.PrefixWildcard
)

// withInvalidations prepends the operation's canonical eviction keys
// to whatever the caller configured.
func withInvalidations[TData any](opts *mutation.Options[TData], keys ...string) *mutation.Options[TData] {
	merged := mutation.Options[TData]{}
	if opts != nil {
		merged = *opts
	}
	merged.InvalidateKeys = append(keys, merged.InvalidateKeys...)
	return &merged
}

// CreateTransaction builds a mutation that records a transaction and
// evicts every transaction listing plus the dashboard.
func (c *Client) CreateTransaction(opts *mutation.Options[Transaction]) (*mutation.Executor[Transaction, TransactionInput], error) {
	return client.Mutation(c.sync, func(ctx context.Context, input TransactionInput) (Transaction, error) {
		return c.api.CreateTransaction(ctx, input)
	}, withInvalidations(opts, transactionsAll, KeyDashboard))
}

// UpdateTransaction builds a mutation that rewrites a transaction and
// evicts every transaction listing plus the dashboard.
func (c *Client) UpdateTransaction(opts *mutation.Options[Transaction]) (*mutation.Executor[Transaction, TransactionUpdate], error) {
	return client.Mutation(c.sync, func(ctx context.Context, update TransactionUpdate) (Transaction, error) {
		return c.api.UpdateTransaction(ctx, update.ID, update.Input)
	}, withInvalidations(opts, transactionsAll, KeyDashboard))
}

// DeleteTransaction builds a mutation that removes a transaction and
// evicts every transaction listing plus the dashboard.
func (c *Client) DeleteTransaction(opts *mutation.Options[uuid.UUID]) (*mutation.Executor[uuid.UUID, uuid.UUID], error) {
	return client.Mutation(c.sync, func(ctx context.Context, id uuid.UUID) (uuid.UUID, error) {
		if err := c.api.DeleteTransaction(ctx, id); err != nil {
			return uuid.Nil, err
		}
		return id, nil
	}, withInvalidations(opts, transactionsAll, KeyDashboard))
}

// CreateBudget builds a mutation that adds a budget and evicts every
// budget listing plus the dashboard.
func (c *Client) CreateBudget(opts *mutation.Options[Budget]) (*mutation.Executor[Budget, BudgetInput], error) {
	return client.Mutation(c.sync, func(ctx context.Context, input BudgetInput) (Budget, error) {
		return c.api.CreateBudget(ctx, input)
	}, withInvalidations(opts, budgetsAll, KeyDashboard))
}

// UpdateBudget builds a mutation bound to one budget. It evicts the
// budget listings, the dashboard and that budget's own entry.
func (c *Client) UpdateBudget(id uuid.UUID, opts *mutation.Options[Budget]) (*mutation.Executor[Budget, BudgetInput], error) {
	return client.Mutation(c.sync, func(ctx context.Context, input BudgetInput) (Budget, error) {
		return c.api.UpdateBudget(ctx, id, input)
	}, withInvalidations(opts, budgetsAll, KeyDashboard, BudgetKey(id)))
}

// DeleteBudget builds a mutation bound to one budget. It evicts the
// budget listings, the dashboard and that budget's own entry.
func (c *Client) DeleteBudget(id uuid.UUID, opts *mutation.Options[uuid.UUID]) (*mutation.Executor[uuid.UUID, struct{}], error) {
	return client.Mutation(c.sync, func(ctx context.Context, _ struct{}) (uuid.UUID, error) {
		if err := c.api.DeleteBudget(ctx, id); err != nil {
			return uuid.Nil, err
		}
		return id, nil
	}, withInvalidations(opts, budgetsAll, KeyDashboard, BudgetKey(id)))
}

// CreateGoal builds a mutation that adds a goal and evicts every goal
// listing plus the dashboard.
func (c *Client) CreateGoal(opts *mutation.Options[Goal]) (*mutation.Executor[Goal, GoalInput], error) {
	return client.Mutation(c.sync, func(ctx context.Context, input GoalInput) (Goal, error) {
		return c.api.CreateGoal(ctx, input)
	}, withInvalidations(opts, goalsAll, KeyDashboard))
}

// UpdateGoal builds a mutation bound to one goal. It evicts the goal
// listings, the dashboard and that goal's own entry.
func (c *Client) UpdateGoal(id uuid.UUID, opts *mutation.Options[Goal]) (*mutation.Executor[Goal, GoalInput], error) {
	return client.Mutation(c.sync, func(ctx context.Context, input GoalInput) (Goal, error) {
		return c.api.UpdateGoal(ctx, id, input)
	}, withInvalidations(opts, goalsAll, KeyDashboard, GoalKey(id)))
}

// DeleteGoal builds a mutation bound to one goal. It evicts the goal
// listings, the dashboard and that goal's own entry.
func (c *Client) DeleteGoal(id uuid.UUID, opts *mutation.Options[uuid.UUID]) (*mutation.Executor[uuid.UUID, struct{}], error) {
	return client.Mutation(c.sync, func(ctx context.Context, _ struct{}) (uuid.UUID, error) {
		if err := c.api.DeleteGoal(ctx, id); err != nil {
			return uuid.Nil, err
		}
		return id, nil
	}, withInvalidations(opts, goalsAll, KeyDashboard, GoalKey(id)))
}

// AddMilestone builds a mutation bound to one goal. Milestones do not
// move money, so the dashboard stays cached.
func (c *Client) AddMilestone(goalID uuid.UUID, opts *mutation.Options[Milestone]) (*mutation.Executor[Milestone, MilestoneInput], error) {
	return client.Mutation(c.sync, func(ctx context.Context, input MilestoneInput) (Milestone, error) {
		return c.api.AddMilestone(ctx, goalID, input)
	}, withInvalidations(opts, goalsAll, GoalKey(goalID)))
}

// AddContribution builds a mutation bound to one goal. Contributions
// move money, so the dashboard is evicted as well.
func (c *Client) AddContribution(goalID uuid.UUID, opts *mutation.Options[Contribution]) (*mutation.Executor[Contribution, ContributionInput], error) {
	return client.Mutation(c.sync, func(ctx context.Context, input ContributionInput) (Contribution, error) {
		return c.api.AddContribution(ctx, goalID, input)
	}, withInvalidations(opts, goalsAll, KeyDashboard, GoalKey(goalID)))
}

// MarkNotificationRead builds a mutation that marks one notification
// read and evicts the notification listings.
func (c *Client) MarkNotificationRead(opts *mutation.Options[Notification]) (*mutation.Executor[Notification, uuid.UUID], error) {
	return client.Mutation(c.sync, func(ctx context.Context, id uuid.UUID) (Notification, error) {
		return c.api.MarkNotificationRead(ctx, id)
	}, withInvalidations(opts, notificationsAll))
}

// MarkAllNotificationsRead builds a mutation that marks every
// notification read and evicts the notification listings. Its result
// is the number of notifications affected.
func (c *Client) MarkAllNotificationsRead(opts *mutation.Options[int]) (*mutation.Executor[int, struct{}], error) {
	return client.Mutation(c.sync, func(ctx context.Context, _ struct{}) (int, error) {
		return c.api.MarkAllNotificationsRead(ctx)
	}, withInvalidations(opts, notificationsAll))
}

// UpdateProfile builds a mutation that rewrites the profile and evicts
// only its entry.
func (c *Client) UpdateProfile(opts *mutation.Options[Profile]) (*mutation.Executor[Profile, ProfileInput], error) {
	return client.Mutation(c.sync, func(ctx context.Context, input ProfileInput) (Profile, error) {
		return c.api.UpdateProfile(ctx, input)
	}, withInvalidations(opts, KeyProfile))
}

// UpdateSettings builds a mutation that rewrites the settings and
// evicts only their entry.
func (c *Client) UpdateSettings(opts *mutation.Options[Settings]) (*mutation.Executor[Settings, SettingsInput], error) {
	return client.Mutation(c.sync, func(ctx context.Context, input SettingsInput) (Settings, error) {
		return c.api.UpdateSettings(ctx, input)
	}, withInvalidations(opts, KeySettings))
}

// Login builds a mutation that opens a session. A fresh session starts
// with an empty cache anyway, so nothing is evicted.
func (c *Client) Login(opts *mutation.Options[Session]) (*mutation.Executor[Session, Credentials], error) {
	return client.Mutation(c.sync, func(ctx context.Context, creds Credentials) (Session, error) {
		return c.api.Login(ctx, creds)
	}, opts)
}

// Register builds a mutation that creates an account and opens a
// session. Nothing is evicted.
func (c *Client) Register(opts *mutation.Options[Session]) (*mutation.Executor[Session, Registration], error) {
	return client.Mutation(c.sync, func(ctx context.Context, reg Registration) (Session, error) {
		return c.api.Register(ctx, reg)
	}, opts)
}

// Logout builds a mutation that ends the session and clears the entire
// cache so no account data survives into the next session.
func (c *Client) Logout(opts *mutation.Options[struct{}]) (*mutation.Executor[struct{}, struct{}], error) {
	merged := mutation.Options[struct{}]{}
	if opts != nil {
		merged = *opts
	}
	merged.ClearCache = true

	return client.Mutation(c.sync, func(ctx context.Context, _ struct{}) (struct{}, error) {
		if err := c.api.Logout(ctx); err != nil {
			return struct{}{}, err
		}
		return struct{}{}, nil
	}, &merged)
}
