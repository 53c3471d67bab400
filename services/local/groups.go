package local

import (
	"Playroom/models"
	"Playroom/services/lobby"
	"context"
	"fmt"
	"sort"

	"github.com/sirupsen/logrus"
)

func (s *Store) groupByCodeLocked(code string) *models.Group {
	for _, g := range s.groups {
		if g.Code == code {
			return g
		}
	}
	return nil
}

func (s *Store) mutateGroupLocked(g *models.Group, fn func(*models.Group) (bool, error)) (*models.Group, error) {
	next := g.Clone()
	changed, err := fn(next)
	if err != nil {
		return nil, err
	}
	if !changed {
		return g.Clone(), nil
	}
	s.groups[next.ID] = next
	if err := s.flushLocked(); err != nil {
		logrus.WithError(err).Warn("[LOCAL] could not persist cache")
	}
	return next.Clone(), nil
}

func (s *Store) CreateGroup(ctx context.Context, spec models.GroupSpec) (*models.Group, error) {
	if err := s.lock(); err != nil {
		return nil, err
	}
	defer s.mu.Unlock()

	var created *models.Group
	_, err := lobby.InsertWithUniqueCode(ctx, func(code string) error {
		if s.groupByCodeLocked(code) != nil {
			return lobby.ErrStaleWrite
		}
		g, err := lobby.NewGroup(spec, code, s.now())
		if err != nil {
			return err
		}
		s.groups[g.ID] = g
		created = g
		return nil
	})
	if err != nil {
		return nil, err
	}
	if err := s.flushLocked(); err != nil {
		logrus.WithError(err).Warn("[LOCAL] could not persist cache")
	}
	return created.Clone(), nil
}

func (s *Store) GetGroup(ctx context.Context, groupID string) (*models.Group, error) {
	if err := s.lock(); err != nil {
		return nil, err
	}
	defer s.mu.Unlock()
	g, ok := s.groups[groupID]
	if !ok {
		return nil, fmt.Errorf("%w: group %s", lobby.ErrNotFound, groupID)
	}
	return g.Clone(), nil
}

func (s *Store) GetGroupByCode(ctx context.Context, code string) (*models.Group, error) {
	if err := s.lock(); err != nil {
		return nil, err
	}
	defer s.mu.Unlock()
	g := s.groupByCodeLocked(code)
	if g == nil {
		return nil, fmt.Errorf("%w: group %s", lobby.ErrNotFound, code)
	}
	return g.Clone(), nil
}

// ListGroups returns the groups userID administers or belongs to, newest first
func (s *Store) ListGroups(ctx context.Context, userID string) ([]models.Group, error) {
	if err := s.lock(); err != nil {
		return nil, err
	}
	defer s.mu.Unlock()
	out := []models.Group{}
	for _, g := range s.groups {
		if g.IsMember(userID) {
			out = append(out, *g.Clone())
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *Store) JoinGroup(ctx context.Context, code, userID, userName string) (*models.Group, error) {
	if err := s.lock(); err != nil {
		return nil, err
	}
	defer s.mu.Unlock()
	g := s.groupByCodeLocked(code)
	if g == nil {
		return nil, fmt.Errorf("%w: group %s", lobby.ErrNotFound, code)
	}
	now := s.now()
	return s.mutateGroupLocked(g, func(next *models.Group) (bool, error) {
		return lobby.ApplyGroupJoin(next, userID, userName, now)
	})
}

func (s *Store) LeaveGroup(ctx context.Context, groupID, userID string) error {
	if err := s.lock(); err != nil {
		return err
	}
	defer s.mu.Unlock()
	g, ok := s.groups[groupID]
	if !ok {
		return fmt.Errorf("%w: group %s", lobby.ErrNotFound, groupID)
	}
	now := s.now()
	_, err := s.mutateGroupLocked(g, func(next *models.Group) (bool, error) {
		return lobby.ApplyGroupLeave(next, userID, now)
	})
	return err
}

func (s *Store) UpdateGroup(ctx context.Context, groupID, callerID string, upd models.GroupUpdate) (*models.Group, error) {
	if err := s.lock(); err != nil {
		return nil, err
	}
	defer s.mu.Unlock()
	g, ok := s.groups[groupID]
	if !ok {
		return nil, fmt.Errorf("%w: group %s", lobby.ErrNotFound, groupID)
	}
	now := s.now()
	return s.mutateGroupLocked(g, func(next *models.Group) (bool, error) {
		return true, lobby.ApplyGroupUpdate(next, callerID, upd, now)
	})
}

func (s *Store) DeleteGroup(ctx context.Context, groupID, callerID string) error {
	if err := s.lock(); err != nil {
		return err
	}
	defer s.mu.Unlock()
	g, ok := s.groups[groupID]
	if !ok {
		return fmt.Errorf("%w: group %s", lobby.ErrNotFound, groupID)
	}
	if err := lobby.CheckGroupAdmin(g, callerID); err != nil {
		return err
	}
	delete(s.groups, groupID)
	return s.flushLocked()
}
