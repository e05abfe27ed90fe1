package gormstore

import (
	"context"

	"github.com/DhavalSuthar-24/profiles/internal/models"
	"github.com/DhavalSuthar-24/profiles/internal/relation"
	"gorm.io/gorm/clause"
)

func (s *Store) LinkInterest(ctx context.Context, userID, interestID uint) error {
	link := relation.InterestsUser{UserID: userID, InterestID: interestID}
	err := s.db.WithContext(ctx).Omit(clause.Associations).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "interest_id"}},
		DoNothing: true,
	}).Create(&link).Error
	return translate("gormstore.LinkInterest", err)
}

func (s *Store) InterestLinked(ctx context.Context, userID, interestID uint) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&relation.InterestsUser{}).
		Where("user_id = ? AND interest_id = ?", userID, interestID).
		Count(&count).Error
	if err != nil {
		return false, translate("gormstore.InterestLinked", err)
	}
	return count > 0, nil
}

// InterestsForUser returns the user's interests in the order they were
// linked.
func (s *Store) InterestsForUser(ctx context.Context, userID uint) ([]models.Interest, error) {
	interests := []models.Interest{}
	err := s.db.WithContext(ctx).Model(&models.Interest{}).
		Select("interests.*").
		Joins("JOIN interests_users ON interests_users.interest_id = interests.id").
		Where("interests_users.user_id = ?", userID).
		Order("interests_users.id ASC").
		Find(&interests).Error
	if err != nil {
		return nil, translate("gormstore.InterestsForUser", err)
	}
	return interests, nil
}

func (s *Store) LinkSkill(ctx context.Context, userID, skillID uint) error {
	link := relation.SkillsUser{UserID: userID, SkillID: skillID}
	err := s.db.WithContext(ctx).Omit(clause.Associations).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "skill_id"}},
		DoNothing: true,
	}).Create(&link).Error
	return translate("gormstore.LinkSkill", err)
}

func (s *Store) SkillLinked(ctx context.Context, userID, skillID uint) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&relation.SkillsUser{}).
		Where("user_id = ? AND skill_id = ?", userID, skillID).
		Count(&count).Error
	if err != nil {
		return false, translate("gormstore.SkillLinked", err)
	}
	return count > 0, nil
}

func (s *Store) SkillsForUser(ctx context.Context, userID uint) ([]models.Skill, error) {
	skills := []models.Skill{}
	err := s.db.WithContext(ctx).Model(&models.Skill{}).
		Select("skills.*").
		Joins("JOIN skills_users ON skills_users.skill_id = skills.id").
		Where("skills_users.user_id = ?", userID).
		Order("skills_users.id ASC").
		Find(&skills).Error
	if err != nil {
		return nil, translate("gormstore.SkillsForUser", err)
	}
	return skills, nil
}

func (s *Store) UnlinkAllForUser(ctx context.Context, userID uint) error {
	const op = "gormstore.UnlinkAllForUser"

	db := s.db.WithContext(ctx)
	if err := db.Where("user_id = ?", userID).Delete(&relation.InterestsUser{}).Error; err != nil {
		return translate(op, err)
	}
	if err := db.Where("user_id = ?", userID).Delete(&relation.SkillsUser{}).Error; err != nil {
		return translate(op, err)
	}
	return nil
}
