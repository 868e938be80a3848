package entity

// Permission is a named capability checked by every protected action.
type Permission string

const (
	PermissionViewDashboard      Permission = "view_dashboard"
	PermissionManageAppointments Permission = "manage_appointments"
	PermissionManagePatients     Permission = "manage_patients"
	PermissionManageDoctors      Permission = "manage_doctors"
	PermissionViewQueue          Permission = "view_queue"
	PermissionViewFinancials     Permission = "view_financials"
	PermissionManageSettings     Permission = "manage_settings"
	PermissionManageUsers        Permission = "manage_users"
	PermissionViewActivityLog    Permission = "view_activity_log"
)

var allPermissions = []Permission{
	PermissionViewDashboard,
	PermissionManageAppointments,
	PermissionManagePatients,
	PermissionManageDoctors,
	PermissionViewQueue,
	PermissionViewFinancials,
	PermissionManageSettings,
	PermissionManageUsers,
	PermissionViewActivityLog,
}

// AllPermissions returns every known permission in canonical order.
func AllPermissions() Permissions {
	perms := make(Permissions, len(allPermissions))
	copy(perms, allPermissions)
	return perms
}

func (p Permission) IsValid() bool {
	for _, known := range allPermissions {
		if p == known {
			return true
		}
	}
	return false
}

// Permissions is a capability set. Stored as a JSON array.
type Permissions []Permission

// Has reports set membership.
func (ps Permissions) Has(p Permission) bool {
	for _, granted := range ps {
		if granted == p {
			return true
		}
	}
	return false
}

// Normalize drops unknown and duplicate entries and returns them in canonical order.
func (ps Permissions) Normalize() Permissions {
	out := Permissions{}
	for _, p := range allPermissions {
		if ps.Has(p) {
			out = append(out, p)
		}
	}
	return out
}
