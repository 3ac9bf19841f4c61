package service

import (
	"github.com/mmynk/splitmate/internal/calculator"
	"github.com/mmynk/splitmate/internal/models"
	"github.com/mmynk/splitmate/pkg/api"
)

func userToAPI(u *models.User) *api.User {
	return &api.User{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Avatar:    u.Avatar,
		CreatedAt: u.CreatedAt,
	}
}

func groupToAPI(g *models.Group) *api.Group {
	members := make([]*api.User, len(g.Members))
	for i := range g.Members {
		members[i] = userToAPI(&g.Members[i])
	}
	return &api.Group{
		ID:          g.ID,
		Name:        g.Name,
		Description: g.Description,
		Members:     members,
		CreatedAt:   g.CreatedAt,
		UpdatedAt:   g.UpdatedAt,
	}
}

func expenseToAPI(e *models.Expense) *api.Expense {
	return &api.Expense{
		ID:           e.ID,
		GroupID:      e.GroupID,
		Title:        e.Title,
		Amount:       e.Amount,
		PaidBy:       e.PaidBy,
		SplitBetween: e.SplitBetween,
		Category:     string(e.Category),
		Date:         e.Date,
		Notes:        e.Notes,
		CreatedAt:    e.CreatedAt,
	}
}

func expensesToAPI(expenses []*models.Expense) []*api.Expense {
	out := make([]*api.Expense, len(expenses))
	for i, e := range expenses {
		out[i] = expenseToAPI(e)
	}
	return out
}

func settlementToAPI(s *models.Settlement) *api.Settlement {
	return &api.Settlement{
		ID:         s.ID,
		GroupID:    s.GroupID,
		FromUserID: s.FromUserID,
		ToUserID:   s.ToUserID,
		Amount:     s.Amount,
		Note:       s.Note,
		CreatedAt:  s.CreatedAt,
	}
}

func settlementsToAPI(settlements []*models.Settlement) []*api.Settlement {
	out := make([]*api.Settlement, len(settlements))
	for i, s := range settlements {
		out[i] = settlementToAPI(s)
	}
	return out
}

// memberBalancesToAPI rounds every amount to cents for display.
func memberBalancesToAPI(balances []calculator.MemberBalance) []*api.MemberBalance {
	out := make([]*api.MemberBalance, len(balances))
	for i, b := range balances {
		out[i] = &api.MemberBalance{
			UserID:     b.Member.ID,
			Name:       b.Member.Name,
			NetBalance: calculator.RoundCents(b.NetBalance),
			Status:     calculator.StandingOf(b.NetBalance).String(),
			TotalPaid:  calculator.RoundCents(b.TotalPaid),
			TotalShare: calculator.RoundCents(b.TotalShare),
			SettledOut: calculator.RoundCents(b.SettledOut),
			SettledIn:  calculator.RoundCents(b.SettledIn),
		}
	}
	return out
}

func suggestionsToAPI(suggestions []calculator.Suggestion) []*api.SettlementSuggestion {
	out := make([]*api.SettlementSuggestion, len(suggestions))
	for i, s := range suggestions {
		out[i] = &api.SettlementSuggestion{
			FromUserID: s.From.ID,
			FromName:   s.From.Name,
			ToUserID:   s.To.ID,
			ToName:     s.To.Name,
			Amount:     s.Amount,
		}
	}
	return out
}

func summaryToAPI(s calculator.Summary) *api.BalanceSummary {
	return &api.BalanceSummary{
		TotalOwed:      calculator.RoundCents(s.TotalOwed),
		TotalToReceive: calculator.RoundCents(s.TotalToReceive),
		IsSettled:      s.IsSettled,
	}
}
