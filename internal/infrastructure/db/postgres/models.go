package postgres

import "time"

// roleModel maps the roles table. Role names are seeded at startup and never
// user-supplied.
type roleModel struct {
	ID   uint   `gorm:"primaryKey"`
	Name string `gorm:"uniqueIndex;not null"`
}

func (roleModel) TableName() string { return "roles" }

// userModel maps the users table. Role memberships live in the user_roles
// join table.
type userModel struct {
	ID           string      `gorm:"primaryKey;type:uuid"`
	Email        string      `gorm:"uniqueIndex;not null"`
	PasswordHash string      `gorm:"not null"`
	Roles        []roleModel `gorm:"many2many:user_roles"`
	CreatedAt    time.Time   `gorm:"not null"`
	UpdatedAt    time.Time   `gorm:"not null"`
}

func (userModel) TableName() string { return "users" }

// obituaryModel maps the obituaries table. CreatorID references users.id with
// an enforced constraint; dates are stored as calendar dates. UpdatedAt is
// owned by the service layer, not GORM's auto-update hook.
type obituaryModel struct {
	ID          int64     `gorm:"primaryKey"`
	FullName    string    `gorm:"not null;index"`
	DateOfBirth time.Time `gorm:"type:date;not null"`
	DateOfDeath time.Time `gorm:"type:date;not null"`
	Biography   string    `gorm:"type:text;not null"`
	PhotoURL    string
	CreatorID   string     `gorm:"type:uuid;not null;index"`
	Creator     *userModel `gorm:"foreignKey:CreatorID;constraint:OnDelete:RESTRICT"`
	CreatedAt   time.Time  `gorm:"not null;index"`
	UpdatedAt   *time.Time `gorm:"autoUpdateTime:false"`
}

func (obituaryModel) TableName() string { return "obituaries" }
