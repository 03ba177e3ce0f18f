package user

import "time"

type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// User is a staff account. Shoppers live in the customer package.
type User struct {
	ID        uint
	Email     string
	Role      Role
	CreatedAt time.Time
	UpdatedAt time.Time
}
