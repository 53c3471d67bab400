package fallback

import (
	"Playroom/models"
	"Playroom/services/lobby"
	"Playroom/services/merge"
	"context"
	"errors"
)

func (s *Store) CreateGroup(ctx context.Context, spec models.GroupSpec) (*models.Group, error) {
	return run(s, "create_group",
		func() (*models.Group, error) { return s.remote.CreateGroup(ctx, spec) },
		func() (*models.Group, error) { return s.cache.CreateGroup(ctx, spec) },
		s.cacheGroup)
}

// reconcile merges a remote group with the cached copy, if any
func (s *Store) reconcile(ctx context.Context, remote *models.Group) *models.Group {
	cached, err := s.cache.GetGroup(ctx, remote.ID)
	if err != nil {
		s.cacheGroup(remote)
		return remote
	}
	merged := merge.Merge([]models.Group{*cached}, []models.Group{*remote})
	winner := merged[0]
	s.cacheGroup(&winner)
	return &winner
}

func (s *Store) GetGroup(ctx context.Context, groupID string) (*models.Group, error) {
	g, err := s.remote.GetGroup(ctx, groupID)
	if err == nil {
		s.markOnline()
		return s.reconcile(ctx, g), nil
	}
	if !errors.Is(err, lobby.ErrUnavailable) {
		return nil, err
	}
	s.markOffline("get_group", err)
	return s.cache.GetGroup(ctx, groupID)
}

func (s *Store) GetGroupByCode(ctx context.Context, code string) (*models.Group, error) {
	g, err := s.remote.GetGroupByCode(ctx, code)
	if err == nil {
		s.markOnline()
		return s.reconcile(ctx, g), nil
	}
	if !errors.Is(err, lobby.ErrUnavailable) {
		return nil, err
	}
	s.markOffline("get_group_by_code", err)
	return s.cache.GetGroupByCode(ctx, code)
}

// ListGroups merges the remote listing with the cached groups of userID
func (s *Store) ListGroups(ctx context.Context, userID string) ([]models.Group, error) {
	cached, err := s.cache.ListGroups(ctx, userID)
	if err != nil {
		return nil, err
	}
	remote, err := s.remote.ListGroups(ctx, userID)
	if err != nil {
		if !errors.Is(err, lobby.ErrUnavailable) {
			return nil, err
		}
		s.markOffline("list_groups", err)
		return cached, nil
	}
	s.markOnline()
	merged := merge.Merge(cached, remote)
	for i := range merged {
		s.cacheGroup(&merged[i])
	}
	return merged, nil
}

func (s *Store) JoinGroup(ctx context.Context, code, userID, userName string) (*models.Group, error) {
	return run(s, "join_group",
		func() (*models.Group, error) { return s.remote.JoinGroup(ctx, code, userID, userName) },
		func() (*models.Group, error) { return s.cache.JoinGroup(ctx, code, userID, userName) },
		s.cacheGroup)
}

func (s *Store) LeaveGroup(ctx context.Context, groupID, userID string) error {
	_, err := run(s, "leave_group",
		func() (struct{}, error) { return struct{}{}, s.remote.LeaveGroup(ctx, groupID, userID) },
		func() (struct{}, error) { return struct{}{}, s.cache.LeaveGroup(ctx, groupID, userID) },
		func(struct{}) { _ = s.cache.RemoveGroup(groupID) })
	return err
}

func (s *Store) UpdateGroup(ctx context.Context, groupID, callerID string, upd models.GroupUpdate) (*models.Group, error) {
	return run(s, "update_group",
		func() (*models.Group, error) { return s.remote.UpdateGroup(ctx, groupID, callerID, upd) },
		func() (*models.Group, error) { return s.cache.UpdateGroup(ctx, groupID, callerID, upd) },
		s.cacheGroup)
}

func (s *Store) DeleteGroup(ctx context.Context, groupID, callerID string) error {
	_, err := run(s, "delete_group",
		func() (struct{}, error) { return struct{}{}, s.remote.DeleteGroup(ctx, groupID, callerID) },
		func() (struct{}, error) { return struct{}{}, s.cache.DeleteGroup(ctx, groupID, callerID) },
		func(struct{}) { _ = s.cache.RemoveGroup(groupID) })
	return err
}
