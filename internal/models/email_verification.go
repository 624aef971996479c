package models

// EmailVerification is one issued challenge for an (email, device) pair. Rows start
// unverified and are flipped to verified at most once.
type EmailVerification struct {
	BaseModel

	Email              string `gorm:"not null;index:idx_email_verifications_lookup,priority:1" json:"email"`
	DeviceID           string `gorm:"not null;index:idx_email_verifications_lookup,priority:2" json:"device_id"`
	VerificationNumber string `gorm:"not null" json:"-"`
	Verified           bool   `gorm:"not null;index:idx_email_verifications_lookup,priority:3" json:"verified"`
}
