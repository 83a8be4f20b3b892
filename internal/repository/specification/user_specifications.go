package specification

import (
	"gorm.io/gorm"
)

type ByEmail struct {
	Email string
}

func (s ByEmail) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("email = ?", s.Email)
}

type ByUsername struct {
	Username string
}

func (s ByUsername) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("username = ?", s.Username)
}

// ByEmailOrUsername matches either identity column, used by registration
// duplicate checks.
type ByEmailOrUsername struct {
	Email    string
	Username string
}

func (s ByEmailOrUsername) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("email = ? OR username = ?", s.Email, s.Username)
}

// SearchUsers does an ILIKE match over the user identity columns for the
// admin list endpoint.
type SearchUsers struct {
	Term string
}

func (s SearchUsers) Apply(db *gorm.DB) *gorm.DB {
	pattern := "%" + s.Term + "%"
	return db.Where(
		"username ILIKE ? OR email ILIKE ? OR first_name ILIKE ? OR last_name ILIKE ?",
		pattern, pattern, pattern, pattern,
	)
}
