package models

import (
	"gorm.io/datatypes"
)

// User is an account identified by its email address.
type User struct {
	BaseModel

	Email    string     `gorm:"uniqueIndex;not null" json:"email"`
	Password string     `gorm:"not null" json:"-"`
	Status   UserStatus `gorm:"type:varchar(16);not null" json:"status"`

	Profile *UserProfile `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"profile,omitempty"`
}

// UserProfile holds the personal attributes collected at signup. It is owned by
// exactly one User and created in the same transaction.
type UserProfile struct {
	BaseModel

	UserID     string         `gorm:"type:uuid;uniqueIndex;not null" json:"-"`
	Username   string         `gorm:"not null" json:"username"`
	Gender     Gender         `gorm:"type:varchar(8)" json:"gender"`
	Birthdate  datatypes.Date `json:"birthdate"`
	Sido       string         `json:"sido"`
	Sigungu    string         `json:"sigungu"`
	Mbti       Mbti           `gorm:"type:varchar(4)" json:"mbti"`
	PreferMbti string         `gorm:"type:varchar(4)" json:"prefer_mbti"`
	Location   Location       `gorm:"embedded;embeddedPrefix:location_" json:"location"`

	Company *UserCompany `gorm:"foreignKey:UserProfileID;constraint:OnDelete:CASCADE" json:"company,omitempty"`
}

// Location is a WGS84 coordinate.
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// UserCompany is the employer as the user entered it. CompanyID links the canonical
// directory entry when one matched; Name and Domain always keep the submitted values.
type UserCompany struct {
	BaseModel

	UserProfileID string  `gorm:"type:uuid;uniqueIndex;not null" json:"-"`
	Name          *string `json:"name"`
	Domain        string  `gorm:"index" json:"domain"`

	CompanyID *string  `gorm:"type:uuid;index" json:"company_id,omitempty"`
	Company   *Company `gorm:"constraint:OnDelete:SET NULL" json:"company,omitempty"`
}

// IsCanonical reports whether the employer resolved to a directory entry.
func (c *UserCompany) IsCanonical() bool {
	return c != nil && c.CompanyID != nil && *c.CompanyID != ""
}
