package models

// Company is a directory entry keyed by its email domain.
type Company struct {
	BaseModel

	Name   string `gorm:"not null;index" json:"name"`
	Domain string `gorm:"uniqueIndex;not null" json:"domain"`
}
