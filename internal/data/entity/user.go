package entity

type UserRole string

const (
	RoleCustomer UserRole = "customer"
	RoleAdmin    UserRole = "admin"
)

// User rows are owned by the external identity service; this app only
// reads them (renter lookups, admin checks, reminder emails).
type User struct {
	Base
	Email    string   `db:"email"`
	Name     string   `db:"name"`
	LastName string   `db:"last_name"`
	Role     UserRole `db:"role"`
	TimeZone *string  `db:"time_zone"`
	Locale   string   `db:"locale"`
}
