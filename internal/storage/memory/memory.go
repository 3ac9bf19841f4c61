// Package memory provides an in-process implementation of storage.Store.
// Data lives only as long as the process; it backs tests and demo runs.
package memory

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/splitmate/internal/models"
	"github.com/mmynk/splitmate/internal/storage"
)

var _ storage.Store = (*Store)(nil)

type group struct {
	models.Group
	memberIDs []string
}

// Store keeps every record in maps guarded by a single RWMutex.
// Values are copied on the way in and out so callers never share state.
type Store struct {
	mu          sync.RWMutex
	users       map[string]models.User
	groups      map[string]*group
	expenses    map[string]models.Expense
	settlements map[string]models.Settlement
}

// New returns an empty store.
func New() *Store {
	return &Store{
		users:       make(map[string]models.User),
		groups:      make(map[string]*group),
		expenses:    make(map[string]models.Expense),
		settlements: make(map[string]models.Settlement),
	}
}

func (s *Store) Close() error { return nil }

func notFound(what, id string) error {
	return fmt.Errorf("%s %s: %w", what, id, storage.ErrNotFound)
}

func (s *Store) requireUsers(ids ...string) error {
	for _, id := range ids {
		if _, ok := s.users[id]; !ok {
			return notFound("user", id)
		}
	}
	return nil
}

func (s *Store) CreateUser(_ context.Context, user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	if user.CreatedAt == 0 {
		user.CreatedAt = time.Now().Unix()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[user.ID]; ok {
		return fmt.Errorf("failed to create user: duplicate id %s", user.ID)
	}
	s.users[user.ID] = *user
	return nil
}

func (s *Store) GetUser(_ context.Context, userID string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[userID]
	if !ok {
		return nil, notFound("user", userID)
	}
	return &u, nil
}

func (s *Store) ListUsers(_ context.Context) ([]*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	users := make([]*models.User, 0, len(s.users))
	for _, u := range s.users {
		u := u
		users = append(users, &u)
	}
	sort.Slice(users, func(i, j int) bool {
		if users[i].Name != users[j].Name {
			return users[i].Name < users[j].Name
		}
		return users[i].ID < users[j].ID
	})
	return users, nil
}

// snapshot resolves member IDs against the current users. Callers hold mu.
func (s *Store) snapshot(g *group) *models.Group {
	out := g.Group
	out.Members = make([]models.User, 0, len(g.memberIDs))
	for _, id := range g.memberIDs {
		out.Members = append(out.Members, s.users[id])
	}
	return &out
}

func (s *Store) CreateGroup(_ context.Context, g *models.Group) error {
	if g.ID == "" {
		g.ID = uuid.New().String()
	}
	if g.CreatedAt == 0 {
		g.CreatedAt = time.Now().Unix()
	}
	if g.UpdatedAt == 0 {
		g.UpdatedAt = g.CreatedAt
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.groups[g.ID]; ok {
		return fmt.Errorf("failed to create group: duplicate id %s", g.ID)
	}
	ids := g.MemberIDs()
	if err := s.requireUsers(ids...); err != nil {
		return fmt.Errorf("failed to insert group member: %w", err)
	}
	for i, id := range ids {
		if slices.Contains(ids[:i], id) {
			return fmt.Errorf("failed to insert group member %s: duplicate member", id)
		}
	}

	stored := &group{Group: *g, memberIDs: ids}
	stored.Members = nil
	s.groups[g.ID] = stored
	return nil
}

func (s *Store) GetGroup(_ context.Context, groupID string) (*models.Group, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	g, ok := s.groups[groupID]
	if !ok {
		return nil, notFound("group", groupID)
	}
	return s.snapshot(g), nil
}

func (s *Store) ListGroups(_ context.Context) ([]*models.Group, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	groups := make([]*models.Group, 0, len(s.groups))
	for _, g := range s.groups {
		groups = append(groups, s.snapshot(g))
	}
	sort.Slice(groups, func(i, j int) bool {
		if groups[i].CreatedAt != groups[j].CreatedAt {
			return groups[i].CreatedAt > groups[j].CreatedAt
		}
		return groups[i].Name < groups[j].Name
	})
	return groups, nil
}

func (s *Store) UpdateGroup(_ context.Context, g *models.Group) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.groups[g.ID]
	if !ok {
		return notFound("group", g.ID)
	}
	g.UpdatedAt = time.Now().Unix()
	stored.Name = g.Name
	stored.Description = g.Description
	stored.UpdatedAt = g.UpdatedAt
	return nil
}

func (s *Store) DeleteGroup(_ context.Context, groupID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.groups[groupID]; !ok {
		return notFound("group", groupID)
	}
	delete(s.groups, groupID)
	for id, e := range s.expenses {
		if e.GroupID == groupID {
			delete(s.expenses, id)
		}
	}
	for id, st := range s.settlements {
		if st.GroupID == groupID {
			delete(s.settlements, id)
		}
	}
	return nil
}

func (s *Store) AddGroupMember(_ context.Context, groupID, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.groups[groupID]
	if !ok {
		return notFound("group", groupID)
	}
	if err := s.requireUsers(userID); err != nil {
		return err
	}
	if slices.Contains(g.memberIDs, userID) {
		return nil
	}
	g.memberIDs = append(g.memberIDs, userID)
	g.UpdatedAt = time.Now().Unix()
	return nil
}

func (s *Store) RemoveGroupMember(_ context.Context, groupID, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.groups[groupID]
	if !ok {
		return notFound("group", groupID)
	}
	if s.referenced(groupID, userID) {
		return fmt.Errorf("member %s of group %s: %w", userID, groupID, storage.ErrMemberInUse)
	}
	i := slices.Index(g.memberIDs, userID)
	if i < 0 {
		return notFound("member", userID)
	}
	g.memberIDs = slices.Delete(g.memberIDs, i, i+1)
	g.UpdatedAt = time.Now().Unix()
	return nil
}
