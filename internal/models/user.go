package models

type UserRole string

const (
	RoleAdmin        UserRole = "admin"
	RoleGestionnaire UserRole = "gestionnaire"
	RoleLecteur      UserRole = "lecteur"
)

type User struct {
	Base
	Username     string   `gorm:"uniqueIndex;size:50;not null" json:"username"`
	PasswordHash string   `gorm:"column:password;not null" json:"-"`
	Email        string   `gorm:"size:100" json:"email"`
	Role         UserRole `gorm:"type:varchar(20);not null" json:"role"`
}

type UserPatch struct {
	Username     *string
	Email        *string
	PasswordHash *string
}

func (p UserPatch) Apply(u *User) {
	if p.Username != nil {
		u.Username = *p.Username
	}
	if p.Email != nil {
		u.Email = *p.Email
	}
	if p.PasswordHash != nil {
		u.PasswordHash = *p.PasswordHash
	}
}
