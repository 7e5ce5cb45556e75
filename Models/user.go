package Models

import (
	"gorm.io/gorm"
)

const (
	RoleOfficeboy  = "Officeboy"
	RoleSupervisor = "Supervisor"
)

type User struct {
	gorm.Model
	Name     string `json:"name" gorm:"uniqueIndex"`
	Password string `json:"-"`
	Role     string `json:"role"`
}

// PermissionForRole maps a role name onto the permission levels the route
// middleware checks against. Unknown roles get no permission.
func PermissionForRole(role string) int {
	switch role {
	case RoleOfficeboy:
		return 1
	case RoleSupervisor:
		return 2
	}
	return 0
}
