package storage

import (
	"Playroom/models"
	"Playroom/models/postgres"
	"Playroom/services/lobby"
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func (s *Store) CreateGroup(ctx context.Context, spec models.GroupSpec) (*models.Group, error) {
	var created *models.Group
	_, err := lobby.InsertWithUniqueCode(ctx, func(code string) error {
		g, err := lobby.NewGroup(spec, code, s.now())
		if err != nil {
			return err
		}
		err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			return tx.Create(postgres.NewPlayerGroup(g)).Error
		})
		if err != nil {
			return dbError(err, "group "+code)
		}
		created = g
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *Store) GetGroup(ctx context.Context, groupID string) (*models.Group, error) {
	var row postgres.PlayerGroup
	err := s.db.WithContext(ctx).Preload("Members", membersInOrder).Where("id = ?", groupID).First(&row).Error
	if err != nil {
		return nil, dbError(err, "group "+groupID)
	}
	return row.ToModel(), nil
}

func (s *Store) GetGroupByCode(ctx context.Context, code string) (*models.Group, error) {
	var row postgres.PlayerGroup
	err := s.db.WithContext(ctx).Preload("Members", membersInOrder).Where("code = ?", code).First(&row).Error
	if err != nil {
		return nil, dbError(err, "group "+code)
	}
	return row.ToModel(), nil
}

func (s *Store) ListGroups(ctx context.Context, userID string) ([]models.Group, error) {
	var rows []postgres.PlayerGroup
	err := s.db.WithContext(ctx).Preload("Members", membersInOrder).
		Where("admin_id = ? OR id IN (SELECT group_id FROM player_group_members WHERE user_id = ?)", userID, userID).
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, dbError(err, "groups of "+userID)
	}
	out := make([]models.Group, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToModel()
	}
	return out, nil
}

// mutateGroup locks the group, applies fn and, when fn reports a change, writes it back
func (s *Store) mutateGroup(ctx context.Context, what, where string, arg any, fn func(*models.Group) (bool, error)) (*models.Group, error) {
	var result *models.Group
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row postgres.PlayerGroup
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where(where, arg).First(&row).Error
		if err != nil {
			return dbError(err, what)
		}
		if err := tx.Where("group_id = ?", row.ID).Order("joined_at ASC").Find(&row.Members).Error; err != nil {
			return dbError(err, what)
		}
		g := row.ToModel()
		changed, err := fn(g)
		if err != nil {
			return err
		}
		result = g
		if !changed {
			return nil
		}
		next := postgres.NewPlayerGroup(g)
		members := next.Members
		next.Members = nil
		if err := tx.Omit(clause.Associations).Save(next).Error; err != nil {
			return dbError(err, what)
		}
		if err := tx.Where("group_id = ?", g.ID).Delete(&postgres.PlayerGroupMember{}).Error; err != nil {
			return dbError(err, what)
		}
		if len(members) > 0 {
			if err := tx.Create(&members).Error; err != nil {
				return dbError(err, what)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *Store) JoinGroup(ctx context.Context, code, userID, userName string) (*models.Group, error) {
	now := s.now()
	return s.mutateGroup(ctx, "group "+code, "code = ?", code, func(g *models.Group) (bool, error) {
		return lobby.ApplyGroupJoin(g, userID, userName, now)
	})
}

func (s *Store) LeaveGroup(ctx context.Context, groupID, userID string) error {
	now := s.now()
	_, err := s.mutateGroup(ctx, "group "+groupID, "id = ?", groupID, func(g *models.Group) (bool, error) {
		return lobby.ApplyGroupLeave(g, userID, now)
	})
	return err
}

func (s *Store) UpdateGroup(ctx context.Context, groupID, callerID string, upd models.GroupUpdate) (*models.Group, error) {
	now := s.now()
	return s.mutateGroup(ctx, "group "+groupID, "id = ?", groupID, func(g *models.Group) (bool, error) {
		return true, lobby.ApplyGroupUpdate(g, callerID, upd, now)
	})
}

func (s *Store) DeleteGroup(ctx context.Context, groupID, callerID string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row postgres.PlayerGroup
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("id = ?", groupID).First(&row).Error
		if err != nil {
			return dbError(err, "group "+groupID)
		}
		if err := lobby.CheckGroupAdmin(row.ToModel(), callerID); err != nil {
			return err
		}
		return dbError(tx.Delete(&postgres.PlayerGroup{}, "id = ?", groupID).Error, "group "+groupID)
	})
}
