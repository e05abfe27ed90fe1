package models

import (
	"context"
	"strings"

	"github.com/DhavalSuthar-24/profiles/pkg/validator"
	playground "github.com/go-playground/validator/v10"
)

const (
	GenderMale   = "male"
	GenderFemale = "female"

	MaxEmailLength = 255
)

// Genders lists the accepted gender values.
var Genders = []string{GenderMale, GenderFemale}

// User is a person profile. Interests and Skills are loaded from the link
// tables and are never written through the User row itself.
type User struct {
	Base
	Name        string     `json:"name" gorm:"not null"`
	Surname     string     `json:"surname"`
	Patronymic  string     `json:"patronymic" gorm:"not null"`
	Fullname    string     `json:"fullname"`
	Email       string     `json:"email" gorm:"size:255;not null;uniqueIndex:idx_users_email"`
	Age         *int       `json:"age" gorm:"not null;check:chk_users_age,age >= 0 AND age < 90"`
	Nationality string     `json:"nationality" gorm:"not null"`
	Country     string     `json:"country" gorm:"not null"`
	Gender      string     `json:"gender" gorm:"not null;check:chk_users_gender,gender IN ('male', 'female')"`
	Interests   []Interest `json:"interests" gorm:"-"`
	Skills      []Skill    `json:"skills" gorm:"-"`
}

// EmailChecker answers uniqueness questions about user emails.
type EmailChecker interface {
	// EmailTaken reports whether another user than exceptID owns email.
	EmailTaken(ctx context.Context, email string, exceptID uint) (bool, error)
}

// NormalizeEmail is the canonical form emails are stored and compared in.
func NormalizeEmail(email string) string {
	return strings.ToLower(email)
}

// DeriveFullname joins the non-empty name parts with single spaces.
func DeriveFullname(surname, name, patronymic string) string {
	parts := make([]string, 0, 3)
	for _, p := range []string{surname, name, patronymic} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " ")
}

func (u *User) HasInterest(name string) bool {
	for _, i := range u.Interests {
		if i.Name == name {
			return true
		}
	}
	return false
}

// AttachInterest adds i unless an interest with the same name is already
// attached. It reports whether the set changed.
func (u *User) AttachInterest(i Interest) bool {
	if u.HasInterest(i.Name) {
		return false
	}
	u.Interests = append(u.Interests, i)
	return true
}

func (u *User) HasSkill(name string) bool {
	for _, s := range u.Skills {
		if s.Name == name {
			return true
		}
	}
	return false
}

// AttachSkill adds s unless a skill with the same name is already attached.
func (u *User) AttachSkill(s Skill) bool {
	if u.HasSkill(s.Name) {
		return false
	}
	u.Skills = append(u.Skills, s)
	return true
}

// Rules lists every validation rule of a user, in report order.
func (u *User) Rules(v *playground.Validate, emails EmailChecker) []validator.Rule {
	present := func(field, value string) validator.Rule {
		return validator.Rule{Field: field, Check: validator.Tag(v, value, "present")}
	}
	return []validator.Rule{
		present("name", u.Name),
		present("patronymic", u.Patronymic),
		present("email", u.Email),
		{Field: "email", Check: validator.Tag(v, u.Email, "max=255")},
		{Field: "email", Check: validator.Tag(v, u.Email, "mailbox")},
		{Field: "email", Check: u.uniqueEmail(emails)},
		{Field: "age", Check: validator.Tag(v, u.Age, "required")},
		{Field: "age", Check: validator.Tag(v, u.Age, "omitnil,gte=0")},
		{Field: "age", Check: validator.Tag(v, u.Age, "omitnil,lt=90")},
		present("nationality", u.Nationality),
		present("country", u.Country),
		present("gender", u.Gender),
		{Field: "gender", Check: validator.Tag(v, u.Gender, "oneof="+strings.Join(Genders, " "))},
	}
}

func (u *User) uniqueEmail(emails EmailChecker) validator.Check {
	return func(ctx context.Context) (string, error) {
		if u.Email == "" || emails == nil {
			return "", nil
		}
		taken, err := emails.EmailTaken(ctx, u.Email, u.ID)
		if err != nil {
			return "", err
		}
		if taken {
			return validator.MsgTaken, nil
		}
		return "", nil
	}
}

// Validate normalizes the email and then runs every rule of the user and of
// its not yet persisted interests and skills. The email is rewritten even
// when validation fails.
func (u *User) Validate(ctx context.Context, v *playground.Validate, emails EmailChecker) (validator.Errors, error) {
	u.Email = NormalizeEmail(u.Email)

	errs, err := validator.Run(ctx, u.Rules(v, emails)...)
	if err != nil {
		return nil, err
	}
	for _, i := range u.Interests {
		if !i.Persisted() && !i.Valid(v) {
			errs.Add("interests", validator.MsgInvalid)
		}
	}
	for _, s := range u.Skills {
		if !s.Persisted() && !s.Valid(v) {
			errs.Add("skills", validator.MsgInvalid)
		}
	}
	return errs, nil
}
