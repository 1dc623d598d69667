package model

import "time"

// User represents a registered traveller. Column order of the users table is
// id, username, email, password, first_name, last_name, phone, city, country,
// additional_info, photo_path, created_at, updated_at.
type User struct {
	ID             uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	Username       string    `json:"username" gorm:"uniqueIndex;not null"`
	Email          string    `json:"email" gorm:"uniqueIndex;not null"`
	PasswordHash   string    `json:"-" gorm:"column:password;not null"` // Never expose in JSON
	FirstName      string    `json:"first_name" gorm:"not null"`
	LastName       string    `json:"last_name" gorm:"not null"`
	Phone          *string   `json:"phone"`
	City           *string   `json:"city"`
	Country        *string   `json:"country"`
	AdditionalInfo *string   `json:"additional_info"`
	PhotoPath      *string   `json:"photo_path"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// TableName pins the table name used by the storage layer.
func (User) TableName() string {
	return "users"
}

// UserSummary is returned after registration.
type UserSummary struct {
	ID        uint   `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// LoginProfile is returned after a successful login.
type LoginProfile struct {
	ID        uint    `json:"id"`
	Username  string  `json:"username"`
	Email     string  `json:"email"`
	FirstName string  `json:"first_name"`
	LastName  string  `json:"last_name"`
	Phone     *string `json:"phone"`
	City      *string `json:"city"`
	Country   *string `json:"country"`
	PhotoPath *string `json:"photo_path"`
}

// Profile holds every public field of a user.
type Profile struct {
	ID             uint      `json:"id"`
	Username       string    `json:"username"`
	Email          string    `json:"email"`
	FirstName      string    `json:"first_name"`
	LastName       string    `json:"last_name"`
	Phone          *string   `json:"phone"`
	City           *string   `json:"city"`
	Country        *string   `json:"country"`
	AdditionalInfo *string   `json:"additional_info"`
	PhotoPath      *string   `json:"photo_path"`
	CreatedAt      time.Time `json:"created_at"`
}

func (u *User) Summary() UserSummary {
	return UserSummary{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
	}
}

func (u *User) LoginProfile() LoginProfile {
	return LoginProfile{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Phone:     u.Phone,
		City:      u.City,
		Country:   u.Country,
		PhotoPath: u.PhotoPath,
	}
}

func (u *User) Profile() Profile {
	return Profile{
		ID:             u.ID,
		Username:       u.Username,
		Email:          u.Email,
		FirstName:      u.FirstName,
		LastName:       u.LastName,
		Phone:          u.Phone,
		City:           u.City,
		Country:        u.Country,
		AdditionalInfo: u.AdditionalInfo,
		PhotoPath:      u.PhotoPath,
		CreatedAt:      u.CreatedAt,
	}
}
