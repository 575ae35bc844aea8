package domain

// AdminUser is an authenticated account. Admin capability is granted by a row
// in admin_roles, not by the account itself.
type AdminUser struct {
	ID           string
	Email        string
	PasswordHash string
}
