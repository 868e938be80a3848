package entity

// Role is a staff role. It only selects the default permission template.
type Role string

const (
	RoleAdmin        Role = "admin"
	RoleReceptionist Role = "receptionist"
	RoleDoctor       Role = "doctor"
)

func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleReceptionist, RoleDoctor:
		return true
	}
	return false
}

// DefaultPermissions returns a fresh copy of the permissions granted to a role on creation.
func DefaultPermissions(role Role) Permissions {
	var perms Permissions
	switch role {
	case RoleAdmin:
		perms = AllPermissions()
	case RoleDoctor:
		perms = Permissions{
			PermissionViewDashboard,
			PermissionManageAppointments,
			PermissionManagePatients,
			PermissionViewQueue,
		}
	case RoleReceptionist:
		perms = Permissions{
			PermissionViewDashboard,
			PermissionManageAppointments,
			PermissionManagePatients,
			PermissionViewQueue,
			PermissionViewFinancials,
		}
	default:
		perms = Permissions{}
	}
	return perms
}
