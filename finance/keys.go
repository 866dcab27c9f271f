package finance

import (
	"github.com/google/uuid"
	"github.com/mybudget/go-datasync/cache"
)

// Cache key domains. Collection mutations invalidate by prefix, so a
// parameterized listing key must start with its collection's domain.
const (
	KeyTransactions  = "transactions"
	KeyDashboard     = "dashboard"
	KeyBudgets       = "budgets"
	KeyBudget        = "budget"
	KeyGoals         = "goals"
	KeyGoal          = "goal"
	KeyNotifications = "notifications"
	KeyAchievements  = "achievements"
	KeyProfile       = "profile"
	KeySettings      = "settings"
	KeyAnalytics     = "analytics"
)

// TransactionsKey builds the cache key for a filtered transaction
// listing. Identical params always produce the identical key.
func TransactionsKey(params TransactionParams) string {
	if params == (TransactionParams{}) {
		return KeyTransactions
	}
	return cache.Key(KeyTransactions, params)
}

// BudgetKey builds the cache key for one budget.
func BudgetKey(id uuid.UUID) string {
	return cache.Key(KeyBudget, id)
}

// GoalKey builds the cache key for one goal.
func GoalKey(id uuid.UUID) string {
	return cache.Key(KeyGoal, id)
}

// AnalyticsKey builds the cache key for an analytics report.
func AnalyticsKey(params AnalyticsParams) string {
	if params == (AnalyticsParams{}) {
		return KeyAnalytics
	}
	return cache.Key(KeyAnalytics, params)
}
