package models

import (
	"time"

	"github.com/uptrace/bun"
)

// User is the profile row for an external identity (the identity provider's subject).
type User struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID                     string     `bun:"id,pk" json:"id"`
	UserID                 string     `bun:"user_id,notnull" json:"userId"`
	Email                  string     `bun:"email,notnull" json:"email"`
	Name                   string     `bun:"name,notnull" json:"name"`
	DisplayName            *string    `bun:"display_name" json:"displayName,omitempty"`
	IsPro                  bool       `bun:"is_pro,notnull" json:"isPro"`
	ProSince               *time.Time `bun:"pro_since" json:"proSince,omitempty"`
	LemonSqueezyCustomerID *string    `bun:"lemon_squeezy_customer_id" json:"lemonSqueezyCustomerId,omitempty"`
	LemonSqueezyOrderID    *string    `bun:"lemon_squeezy_order_id" json:"lemonSqueezyOrderId,omitempty"`
	CreatedAt              time.Time  `bun:"created_at,notnull" json:"createdAt"`
}

func (u *User) Stamp(id string, at time.Time) { stamp(&u.ID, &u.CreatedAt, id, at) }

func (u *User) Key() string { return u.ID }
