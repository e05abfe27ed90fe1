package gormstore

import (
	"context"

	"github.com/DhavalSuthar-24/profiles/internal/models"
)

func (s *Store) InterestByName(ctx context.Context, name string) (*models.Interest, error) {
	var interest models.Interest
	if err := s.db.WithContext(ctx).Where("name = ?", name).First(&interest).Error; err != nil {
		return nil, translate("gormstore.InterestByName", err)
	}
	return &interest, nil
}

func (s *Store) UpsertInterest(ctx context.Context, name string) (*models.Interest, error) {
	interest := models.Interest{Name: name}
	if err := upsertByName(ctx, s.db, &interest, name); err != nil {
		return nil, translate("gormstore.UpsertInterest", err)
	}
	return &interest, nil
}

func (s *Store) UpsertInterests(ctx context.Context, names []string) ([]models.Interest, error) {
	interests, err := upsertNames(ctx, s.db, names, func(name string) models.Interest {
		return models.Interest{Name: name}
	})
	if err != nil {
		return nil, translate("gormstore.UpsertInterests", err)
	}
	return interests, nil
}

func (s *Store) ListInterests(ctx context.Context) ([]models.Interest, error) {
	var interests []models.Interest
	if err := s.db.WithContext(ctx).Order("name ASC").Find(&interests).Error; err != nil {
		return nil, translate("gormstore.ListInterests", err)
	}
	return interests, nil
}

func (s *Store) SkillByName(ctx context.Context, name string) (*models.Skill, error) {
	var skill models.Skill
	if err := s.db.WithContext(ctx).Where("name = ?", name).First(&skill).Error; err != nil {
		return nil, translate("gormstore.SkillByName", err)
	}
	return &skill, nil
}

func (s *Store) UpsertSkill(ctx context.Context, name string) (*models.Skill, error) {
	skill := models.Skill{Name: name}
	if err := upsertByName(ctx, s.db, &skill, name); err != nil {
		return nil, translate("gormstore.UpsertSkill", err)
	}
	return &skill, nil
}

func (s *Store) UpsertSkills(ctx context.Context, names []string) ([]models.Skill, error) {
	skills, err := upsertNames(ctx, s.db, names, func(name string) models.Skill {
		return models.Skill{Name: name}
	})
	if err != nil {
		return nil, translate("gormstore.UpsertSkills", err)
	}
	return skills, nil
}

func (s *Store) ListSkills(ctx context.Context) ([]models.Skill, error) {
	var skills []models.Skill
	if err := s.db.WithContext(ctx).Order("name ASC").Find(&skills).Error; err != nil {
		return nil, translate("gormstore.ListSkills", err)
	}
	return skills, nil
}
