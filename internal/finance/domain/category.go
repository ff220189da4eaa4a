package domain

import "context"

// Category is keyed by (user, name) and created on first use. Color follows
// the app convention: red for expense categories, green for income ones.
type Category struct {
	ID     string
	UserID string
	Name   string
	Type   string // "income" or "expense"
	Color  string
}

// Account is the container transactions belong to. The bot only ever touches
// the user's default account, creating a "Cash" one on first write.
type Account struct {
	ID        string
	UserID    string
	Name      string
	Type      string
	IsDefault bool
}

type CategoryRepository interface {
	// GetOrCreate resolves the category id for (userID, name), inserting the
	// row when absent. Implementations must be idempotent under concurrent
	// first use of the same name.
	GetOrCreate(ctx context.Context, userID, name, categoryType, color string) (string, error)
}

type AccountRepository interface {
	// EnsureDefault resolves the user's default account id, creating it when
	// absent.
	EnsureDefault(ctx context.Context, userID string) (string, error)
}
