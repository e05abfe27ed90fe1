package gormstore

import (
	"context"

	"github.com/DhavalSuthar-24/profiles/internal/models"
	"github.com/DhavalSuthar-24/profiles/internal/store"
	"gorm.io/gorm/clause"
)

func (s *Store) CreateUser(ctx context.Context, u *models.User) error {
	err := s.db.WithContext(ctx).Omit(clause.Associations).Create(u).Error
	return translate("gormstore.CreateUser", err)
}

func (s *Store) UserByID(ctx context.Context, id uint) (*models.User, error) {
	const op = "gormstore.UserByID"

	var u models.User
	if err := s.db.WithContext(ctx).First(&u, id).Error; err != nil {
		return nil, translate(op, err)
	}
	if err := s.loadLinks(ctx, &u); err != nil {
		return nil, translate(op, err)
	}
	return &u, nil
}

func (s *Store) EmailTaken(ctx context.Context, email string, exceptID uint) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.User{}).
		Where("email = ? AND id <> ?", email, exceptID).
		Count(&count).Error
	if err != nil {
		return false, translate("gormstore.EmailTaken", err)
	}
	return count > 0, nil
}

func (s *Store) ListUsers(ctx context.Context, page, pageSize int) ([]models.User, int64, error) {
	const op = "gormstore.ListUsers"

	var users []models.User
	var total int64

	if err := s.db.WithContext(ctx).Model(&models.User{}).Count(&total).Error; err != nil {
		return nil, 0, translate(op, err)
	}

	offset := (page - 1) * pageSize
	if err := s.db.WithContext(ctx).Order("id ASC").Offset(offset).Limit(pageSize).Find(&users).Error; err != nil {
		return nil, 0, translate(op, err)
	}
	for i := range users {
		if err := s.loadLinks(ctx, &users[i]); err != nil {
			return nil, 0, translate(op, err)
		}
	}
	return users, total, nil
}

// DeleteUser removes the user row. Link rows follow through ON DELETE
// CASCADE; catalog rows are never touched.
func (s *Store) DeleteUser(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&models.User{}, id)
	if res.Error != nil {
		return translate("gormstore.DeleteUser", res.Error)
	}
	if res.RowsAffected == 0 {
		return translate("gormstore.DeleteUser", store.ErrNotFound)
	}
	return nil
}

func (s *Store) loadLinks(ctx context.Context, u *models.User) error {
	interests, err := s.InterestsForUser(ctx, u.ID)
	if err != nil {
		return err
	}
	skills, err := s.SkillsForUser(ctx, u.ID)
	if err != nil {
		return err
	}
	u.Interests = interests
	u.Skills = skills
	return nil
}
