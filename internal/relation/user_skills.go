// internal/relation/user_skills.go
package relation

import (
	"time"

	"github.com/DhavalSuthar-24/profiles/internal/models"
)

// SkillsUser links one user to one skill. The pair is unique, and the row
// goes away with its user.
type SkillsUser struct {
	ID        uint         `json:"id" gorm:"primaryKey"`
	UserID    uint         `json:"user_id" gorm:"not null;uniqueIndex:idx_skills_users_pair,priority:1"`
	SkillID   uint         `json:"skill_id" gorm:"not null;uniqueIndex:idx_skills_users_pair,priority:2;index"`
	CreatedAt time.Time    `json:"created_at"`
	User      models.User  `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Skill     models.Skill `json:"-" gorm:"foreignKey:SkillID;constraint:OnDelete:RESTRICT"`
}

func (SkillsUser) TableName() string {
	return "skills_users"
}
