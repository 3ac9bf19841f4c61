package models

import "fmt"

// ExpenseCategory classifies an expense for display purposes.
type ExpenseCategory string

const (
	CategoryFood          ExpenseCategory = "food"
	CategoryTransport     ExpenseCategory = "transport"
	CategoryAccommodation ExpenseCategory = "accommodation"
	CategoryEntertainment ExpenseCategory = "entertainment"
	CategoryShopping      ExpenseCategory = "shopping"
	CategoryUtilities     ExpenseCategory = "utilities"
	CategoryOther         ExpenseCategory = "other"
)

// ParseExpenseCategory converts s into an ExpenseCategory.
// An empty string maps to CategoryOther.
func ParseExpenseCategory(s string) (ExpenseCategory, error) {
	switch c := ExpenseCategory(s); c {
	case "":
		return CategoryOther, nil
	case CategoryFood, CategoryTransport, CategoryAccommodation, CategoryEntertainment,
		CategoryShopping, CategoryUtilities, CategoryOther:
		return c, nil
	default:
		return "", fmt.Errorf("unknown expense category %q", s)
	}
}

// Expense represents a payment made by one group member on behalf of others.
type Expense struct {
	// ID is the unique identifier for the expense (UUID format).
	ID string

	// GroupID is the group this expense belongs to.
	GroupID string

	// Title is a short description (e.g., "Hotel Booking").
	Title string

	// Amount is the total paid. Always positive.
	Amount float64

	// PaidBy is the user ID of the member who paid.
	PaidBy string

	// SplitBetween is the ordered list of user IDs sharing the expense equally.
	// The payer may appear here too. Duplicates are charged one share each.
	SplitBetween []string

	// Category classifies the expense.
	Category ExpenseCategory

	// Date is the Unix timestamp when the expense happened.
	Date int64

	// Notes is optional free text.
	Notes string

	// CreatedAt is the Unix timestamp when the expense was recorded.
	CreatedAt int64
}
