package classify

import (
	"context"
	"log/slog"

	"travecoqs/pkg/contracts/domain"
)

// Classifier evaluates the decision table with a first-match policy.
// Classification is total: a record no rule matches is assigned the
// uncategorized category, never an error.
type Classifier struct {
	rules  []Rule
	logger *slog.Logger
}

// NewClassifier creates a classifier over the given table. With no rules it
// uses DefaultRules.
func NewClassifier(logger *slog.Logger, rules ...Rule) *Classifier {
	if logger == nil {
		logger = slog.Default()
	}
	if len(rules) == 0 {
		rules = DefaultRules
	}
	return &Classifier{rules: rules, logger: logger}
}

// Result carries the classified dataset plus the per-category audit counts
// and the uncategorized set for manual review.
type Result struct {
	Orders        []domain.Order
	Counts        map[domain.Category]int
	RuleCounts    map[string]int
	Uncategorized []domain.Order
}

// Classify assigns a category to every order. The input slice is not
// modified; a new dataset is returned.
func (c *Classifier) Classify(ctx context.Context, orders []domain.Order) Result {
	result := Result{
		Orders:     make([]domain.Order, 0, len(orders)),
		Counts:     make(map[domain.Category]int),
		RuleCounts: make(map[string]int),
	}

	for _, order := range orders {
		category, ruleName := c.categorize(order)
		order.Category = category
		result.Orders = append(result.Orders, order)
		result.Counts[category]++
		if ruleName != "" {
			result.RuleCounts[ruleName]++
		} else {
			result.Uncategorized = append(result.Uncategorized, order)
		}
	}

	c.logger.InfoContext(ctx, "classification complete",
		slog.Int("orders", len(orders)),
		slog.Int("uncategorized", len(result.Uncategorized)))
	for _, category := range domain.AllCategories {
		if n := result.Counts[category]; n > 0 {
			c.logger.DebugContext(ctx, "category count",
				slog.String("category", string(category)),
				slog.Int("count", n))
		}
	}

	return result
}

// categorize runs the first-match scan. It returns the winning rule's name,
// or "" for the uncategorized fallback.
func (c *Classifier) categorize(o domain.Order) (domain.Category, string) {
	for _, rule := range c.rules {
		if rule.Matches(o) {
			return rule.Category, rule.Name
		}
	}
	return domain.CategoryUncategorized, ""
}
