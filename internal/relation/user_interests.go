package relation

import (
	"time"

	"github.com/DhavalSuthar-24/profiles/internal/models"
)

// InterestsUser links one user to one interest, unique per pair.
type InterestsUser struct {
	ID         uint            `json:"id" gorm:"primaryKey"`
	UserID     uint            `json:"user_id" gorm:"not null;uniqueIndex:idx_interests_users_pair,priority:1"`
	InterestID uint            `json:"interest_id" gorm:"not null;uniqueIndex:idx_interests_users_pair,priority:2;index"`
	CreatedAt  time.Time       `json:"created_at"`
	User       models.User     `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Interest   models.Interest `json:"-" gorm:"foreignKey:InterestID;constraint:OnDelete:RESTRICT"`
}

func (InterestsUser) TableName() string {
	return "interests_users"
}
