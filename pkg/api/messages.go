// Package api defines the request and response messages of the SplitMate
// services. Messages travel as JSON (see package apiconnect) with camelCase
// field names, matching what the web frontend sends.
package api

// User is a person who can belong to groups.
type User struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email,omitempty"`
	Avatar    string `json:"avatar,omitempty"`
	CreatedAt int64  `json:"createdAt"`
}

// Group is an ordered list of members sharing expenses.
type Group struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Members     []*User `json:"members"`
	CreatedAt   int64   `json:"createdAt"`
	UpdatedAt   int64   `json:"updatedAt"`
}

// Expense is a payment by one member shared equally by splitBetween.
type Expense struct {
	ID           string   `json:"id"`
	GroupID      string   `json:"groupId"`
	Title        string   `json:"title"`
	Amount       float64  `json:"amount"`
	PaidBy       string   `json:"paidBy"`
	SplitBetween []string `json:"splitBetween"`
	Category     string   `json:"category"`
	Date         int64    `json:"date"`
	Notes        string   `json:"notes,omitempty"`
	CreatedAt    int64    `json:"createdAt"`
}

// Settlement is a recorded payment from one member to another.
type Settlement struct {
	ID         string  `json:"id"`
	GroupID    string  `json:"groupId"`
	FromUserID string  `json:"fromUserId"`
	ToUserID   string  `json:"toUserId"`
	Amount     float64 `json:"amount"`
	Note       string  `json:"note,omitempty"`
	CreatedAt  int64   `json:"createdAt"`
}

// Balance status values.
const (
	StatusSettled = "settled"
	StatusIsOwed  = "is_owed"
	StatusOwes    = "owes"
)

// MemberBalance is one member's position in a group.
// NetBalance is positive when the member is owed money.
type MemberBalance struct {
	UserID     string  `json:"userId"`
	Name       string  `json:"name"`
	NetBalance float64 `json:"netBalance"`
	Status     string  `json:"status"`
	TotalPaid  float64 `json:"totalPaid"`
	TotalShare float64 `json:"totalShare"`
	SettledOut float64 `json:"settledOut"`
	SettledIn  float64 `json:"settledIn"`
}

// SettlementSuggestion proposes a transfer from a debtor to a creditor.
type SettlementSuggestion struct {
	FromUserID string  `json:"fromUserId"`
	FromName   string  `json:"fromName"`
	ToUserID   string  `json:"toUserId"`
	ToName     string  `json:"toName"`
	Amount     float64 `json:"amount"`
}

// BalanceSummary aggregates a group's balances.
type BalanceSummary struct {
	TotalOwed      float64 `json:"totalOwed"`
	TotalToReceive float64 `json:"totalToReceive"`
	IsSettled      bool    `json:"isSettled"`
}

// --- UserService ---

type CreateUserRequest struct {
	Name   string `json:"name"`
	Email  string `json:"email,omitempty"`
	Avatar string `json:"avatar,omitempty"`
}

type CreateUserResponse struct {
	User *User `json:"user"`
}

type GetUserRequest struct {
	UserID string `json:"userId"`
}

type GetUserResponse struct {
	User *User `json:"user"`
}

type ListUsersRequest struct{}

type ListUsersResponse struct {
	Users []*User `json:"users"`
}

// --- GroupService ---

type CreateGroupRequest struct {
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	MemberIDs   []string `json:"memberIds"`
}

type CreateGroupResponse struct {
	Group *Group `json:"group"`
}

type GetGroupRequest struct {
	GroupID string `json:"groupId"`
}

type GetGroupResponse struct {
	Group *Group `json:"group"`
}

type ListGroupsRequest struct{}

type ListGroupsResponse struct {
	Groups []*Group `json:"groups"`
}

type UpdateGroupRequest struct {
	GroupID     string `json:"groupId"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

type UpdateGroupResponse struct {
	Group *Group `json:"group"`
}

type DeleteGroupRequest struct {
	GroupID string `json:"groupId"`
}

type DeleteGroupResponse struct{}

type AddMemberRequest struct {
	GroupID string `json:"groupId"`
	UserID  string `json:"userId"`
}

type AddMemberResponse struct {
	Group *Group `json:"group"`
}

type RemoveMemberRequest struct {
	GroupID string `json:"groupId"`
	UserID  string `json:"userId"`
}

type RemoveMemberResponse struct {
	Group *Group `json:"group"`
}

// --- ExpenseService ---

type CreateExpenseRequest struct {
	GroupID      string   `json:"groupId"`
	Title        string   `json:"title"`
	Amount       float64  `json:"amount"`
	PaidBy       string   `json:"paidBy"`
	SplitBetween []string `json:"splitBetween"`
	Category     string   `json:"category,omitempty"`
	Date         int64    `json:"date,omitempty"`
	Notes        string   `json:"notes,omitempty"`
}

type CreateExpenseResponse struct {
	Expense *Expense `json:"expense"`
	// Shares maps each sharer's user ID to the amount they are charged.
	Shares map[string]float64 `json:"shares"`
	// Replayed is set when the response comes from an earlier request with
	// the same Idempotency-Key.
	Replayed bool `json:"replayed,omitempty"`
}

type GetExpenseRequest struct {
	ExpenseID string `json:"expenseId"`
}

type GetExpenseResponse struct {
	Expense *Expense `json:"expense"`
}

type ListExpensesRequest struct {
	GroupID string `json:"groupId"`
}

type ListExpensesResponse struct {
	Expenses []*Expense `json:"expenses"`
}

type DeleteExpenseRequest struct {
	ExpenseID string `json:"expenseId"`
}

type DeleteExpenseResponse struct{}

// --- SettlementService ---

type CreateSettlementRequest struct {
	GroupID    string  `json:"groupId"`
	FromUserID string  `json:"fromUserId"`
	ToUserID   string  `json:"toUserId"`
	Amount     float64 `json:"amount"`
	Note       string  `json:"note,omitempty"`
}

type CreateSettlementResponse struct {
	Settlement *Settlement `json:"settlement"`
	Replayed   bool        `json:"replayed,omitempty"`
}

type ListSettlementsRequest struct {
	GroupID string `json:"groupId"`
}

type ListSettlementsResponse struct {
	Settlements []*Settlement `json:"settlements"`
}

type DeleteSettlementRequest struct {
	SettlementID string `json:"settlementId"`
}

type DeleteSettlementResponse struct{}

// --- BalanceService ---

type GetGroupBalancesRequest struct {
	GroupID string `json:"groupId"`
}

type GetGroupBalancesResponse struct {
	GroupID     string                  `json:"groupId"`
	Balances    []*MemberBalance        `json:"balances"`
	Suggestions []*SettlementSuggestion `json:"suggestions"`
	Summary     *BalanceSummary         `json:"summary"`
	// Residual is the largest balance left if every suggestion is paid as shown.
	Residual float64 `json:"residual"`
}

type GetGroupSummaryRequest struct {
	GroupID string `json:"groupId"`
}

type GetGroupSummaryResponse struct {
	Group             *Group           `json:"group"`
	TotalExpenses     float64          `json:"totalExpenses"`
	Balances          []*MemberBalance `json:"balances"`
	Summary           *BalanceSummary  `json:"summary"`
	RecentExpenses    []*Expense       `json:"recentExpenses"`
	RecentSettlements []*Settlement    `json:"recentSettlements"`
}
