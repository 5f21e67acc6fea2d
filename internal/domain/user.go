package domain

// User is an account that can operate the POS. RoleName is resolved through
// the roles table and may be empty when the role was deleted.
type User struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string
	RoleID       int64
	RoleName     string
}

type Role struct {
	ID   int64
	Name string
}

// UserUpdate is a partial update; nil fields are left unchanged.
type UserUpdate struct {
	Username     *string
	Email        *string
	PasswordHash *string
	RoleID       *int64
}
