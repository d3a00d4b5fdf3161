package models

import "time"

// Membership tiers a profile can carry.
const (
	StatusSimple = "simple"
	StatusGold   = "gold"
	StatusSilver = "silver"
	StatusBronze = "bronze"
)

// UserProfile is the account a shopper signs in with. It owns products,
// ratings, reviews, and at most one cart.
type UserProfile struct {
	ID          uint      `gorm:"primaryKey"                           json:"id"`
	Username    string    `gorm:"size:150;uniqueIndex;not null"        json:"username"`
	Email       string    `gorm:"size:255;uniqueIndex;not null"        json:"email"`
	Password    string    `gorm:"size:255;not null"                    json:"-"`
	FirstName   string    `gorm:"size:150"                             json:"first_name"`
	LastName    string    `gorm:"size:150"                             json:"last_name"`
	Age         *int      `gorm:"check:chk_users_age,age >= 0 AND age <= 130" json:"age"`
	PhoneNumber string    `gorm:"size:32"                              json:"phone_number"`
	Status      string    `gorm:"size:16;not null;default:simple"      json:"status"`
	Role        string    `gorm:"size:16;not null;default:user"        json:"role"`
	IsActive    bool      `gorm:"not null;default:true"                json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (UserProfile) TableName() string { return "users" }

// FullName joins first and last name, falling back to the username.
func (u UserProfile) FullName() string {
	switch {
	case u.FirstName != "" && u.LastName != "":
		return u.FirstName + " " + u.LastName
	case u.FirstName != "":
		return u.FirstName
	case u.LastName != "":
		return u.LastName
	}
	return u.Username
}
