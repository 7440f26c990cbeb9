package models

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// User is a platform account, independent of the per-event guest identity
// space. The first registered user is auto-promoted to admin.
type User struct {
	ID           string `bson:"_id" json:"id"`
	Email        string `bson:"email" json:"email"`
	PasswordHash string `bson:"password_hash" json:"-"`
	Role         string `bson:"role" json:"role"`
}
