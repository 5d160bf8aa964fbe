package models

import (
	"strings"
	"time"
)

// User is a registered account. PasswordHash holds the stored credential form
// produced by the hasher and is never sent to clients.
type User struct {
	ID           int64
	Name         string
	PasswordHash string
	Categories   []string
	Points       int
	LastLoginAt  *time.Time
	CreatedAt    time.Time
	UpdatedAt    *time.Time
}

// JoinCategories encodes categories into the single text column they are
// stored in.
func JoinCategories(categories []string) string {
	return strings.Join(categories, ",")
}

// SplitCategories is the inverse of JoinCategories. Blank entries are dropped.
func SplitCategories(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Clone returns a deep copy of u.
func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	c := *u
	if u.Categories != nil {
		c.Categories = append([]string(nil), u.Categories...)
	}
	if u.LastLoginAt != nil {
		t := *u.LastLoginAt
		c.LastLoginAt = &t
	}
	if u.UpdatedAt != nil {
		t := *u.UpdatedAt
		c.UpdatedAt = &t
	}
	return &c
}
