package storage

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/mmynk/splitmate/internal/models"
)

func mustDate(s string) int64 {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t.Unix()
}

// SeedIfEmpty runs SeedSampleData unless the store already holds users.
// seeded reports whether anything was written.
func SeedIfEmpty(ctx context.Context, store Store) (groups []*models.Group, seeded bool, err error) {
	users, err := store.ListUsers(ctx)
	if err != nil {
		return nil, false, fmt.Errorf("failed to check for existing data: %w", err)
	}
	if len(users) > 0 {
		return nil, false, nil
	}
	groups, err = SeedSampleData(ctx, store)
	if err != nil {
		return nil, false, err
	}
	return groups, true, nil
}

// SeedSampleData writes a small demo data set through store: four users, a
// trip group with three shared expenses and one settlement, and a two-person
// rent group. It returns the created groups in order.
func SeedSampleData(ctx context.Context, store Store) ([]*models.Group, error) {
	users := []*models.User{
		{Name: "John Doe", Email: "john@example.com", Avatar: "/avatars/john.jpg"},
		{Name: "Jane Smith", Email: "jane@example.com", Avatar: "/avatars/jane.jpg"},
		{Name: "Mike Johnson", Email: "mike@example.com", Avatar: "/avatars/mike.jpg"},
		{Name: "Sarah Wilson", Email: "sarah@example.com", Avatar: "/avatars/sarah.jpg"},
	}
	for _, u := range users {
		if err := store.CreateUser(ctx, u); err != nil {
			return nil, fmt.Errorf("failed to seed user %s: %w", u.Name, err)
		}
	}
	john, jane, mike := users[0], users[1], users[2]

	trip := &models.Group{
		Name:        "Trip to Manali",
		Description: "Weekend getaway with friends",
		Members:     []models.User{*john, *jane, *mike},
		CreatedAt:   mustDate("2024-01-15"),
	}
	rent := &models.Group{
		Name:        "Apartment Rent",
		Description: "Monthly rent and utilities",
		Members:     []models.User{*john, *jane},
		CreatedAt:   mustDate("2024-01-01"),
	}
	for _, g := range []*models.Group{trip, rent} {
		if err := store.CreateGroup(ctx, g); err != nil {
			return nil, fmt.Errorf("failed to seed group %s: %w", g.Name, err)
		}
	}

	everyone := []string{john.ID, jane.ID, mike.ID}
	expenses := []*models.Expense{
		{
			GroupID: trip.ID, Title: "Hotel Booking", Amount: 4500, PaidBy: john.ID, SplitBetween: everyone,
			Category: models.CategoryAccommodation, Date: mustDate("2024-01-18"), Notes: "3 nights at Mountain View Hotel",
		},
		{
			GroupID: trip.ID, Title: "Dinner at Restaurant", Amount: 1200, PaidBy: jane.ID, SplitBetween: everyone,
			Category: models.CategoryFood, Date: mustDate("2024-01-19"), Notes: "Local cuisine experience",
		},
		{
			GroupID: trip.ID, Title: "Taxi to Airport", Amount: 800, PaidBy: mike.ID, SplitBetween: everyone,
			Category: models.CategoryTransport, Date: mustDate("2024-01-20"), Notes: "Shared taxi ride",
		},
	}
	for _, e := range expenses {
		if err := store.CreateExpense(ctx, e); err != nil {
			return nil, fmt.Errorf("failed to seed expense %s: %w", e.Title, err)
		}
	}

	settlement := &models.Settlement{
		GroupID:    trip.ID,
		FromUserID: jane.ID,
		ToUserID:   john.ID,
		Amount:     1500,
		CreatedAt:  mustDate("2024-01-21"),
	}
	if err := store.CreateSettlement(ctx, settlement); err != nil {
		return nil, fmt.Errorf("failed to seed settlement: %w", err)
	}

	slog.Info("Sample data seeded",
		"users", len(users),
		"groups", 2,
		"expenses", len(expenses),
		"settlements", 1,
	)
	return []*models.Group{trip, rent}, nil
}
