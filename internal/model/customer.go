package model

import "time"

// Customer represents a row in the `customers` table. Gold members may
// receive preferential treatment in future pricing policies; today the
// flag is stored and returned as-is.
//
// Fields:
//  ID        – primary key identifier.
//  Name      – customer name (3–50 characters).
//  Phone     – contact phone (5–50 digits).
//  IsGold    – gold membership flag, defaults to false.
//  CreatedAt – creation timestamp.
//  UpdatedAt – last update timestamp.
type Customer struct {
	ID        uint64    `json:"id"`        // customers.id
	Name      string    `json:"name"`      // customers.name
	Phone     string    `json:"phone"`     // customers.phone
	IsGold    bool      `json:"isGold"`    // customers.is_gold
	CreatedAt time.Time `json:"-"`         // customers.created_at
	UpdatedAt time.Time `json:"-"`         // customers.updated_at
}
