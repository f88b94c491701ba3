package models

import "time"

// User is the account row shared by humans and bots.
type User struct {
	ID        int       `db:"id" json:"id"`
	Email     string    `db:"email" json:"email"`
	Name      string    `db:"name" json:"name"`
	Slug      string    `db:"slug" json:"slug"`
	Avatar    *string   `db:"avatar" json:"avatar"`
	Bio       *string   `db:"bio" json:"bio,omitempty"`
	IsBot     bool      `db:"is_bot" json:"is_bot"`
	IsActive  bool      `db:"is_active" json:"is_active"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// UserRef is the compact sender shape embedded in message events.
type UserRef struct {
	ID     int     `db:"id" json:"id"`
	Name   string  `db:"name" json:"name"`
	Slug   string  `db:"slug" json:"slug"`
	Avatar *string `db:"avatar" json:"avatar"`
}

// Ref returns the compact event representation of the user.
func (u User) Ref() UserRef {
	return UserRef{ID: u.ID, Name: u.Name, Slug: u.Slug, Avatar: u.Avatar}
}
