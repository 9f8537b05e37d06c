// Package rbac holds the fixed permission catalog and the role -> effective
// permission resolution rule shared by login, refresh and identity lookup.
package rbac

import "strings"

// AdminRole is the reserved role name. A role with this name (compared
// case-insensitively) always receives the full catalog, regardless of the
// grants recorded for it.
const AdminRole = "admin"

// Permission codes form a closed set; the database catalog is seeded from this list.
const (
	PermProductManagement     = "product_management"
	PermCategoryManagement    = "category_management"
	PermComboManagement       = "combo_management"
	PermOptionGroupManagement = "option_group_management"
	PermAddonManagement       = "addon_management"
	PermOrderManagement       = "order_management"
	PermUserManagement        = "user_management"
	PermRoleManagement        = "role_management"
	PermSystemSettings        = "system_settings"
	PermCheckout              = "checkout"
	PermReportView            = "report_view"
)

var catalog = []string{
	PermProductManagement,
	PermCategoryManagement,
	PermComboManagement,
	PermOptionGroupManagement,
	PermAddonManagement,
	PermOrderManagement,
	PermUserManagement,
	PermRoleManagement,
	PermSystemSettings,
	PermCheckout,
	PermReportView,
}

// AllPermissions returns a copy of the full catalog.
func AllPermissions() []string {
	out := make([]string, len(catalog))
	copy(out, catalog)
	return out
}

// Resolve maps a role to its effective permission set. The reserved admin role
// gets the full catalog; every other role gets its explicit grants unchanged.
func Resolve(roleName string, explicit []string) []string {
	if strings.EqualFold(roleName, AdminRole) {
		return AllPermissions()
	}
	return explicit
}

// Has reports whether the permission set contains code.
func Has(perms []string, code string) bool {
	for _, p := range perms {
		if p == code {
			return true
		}
	}
	return false
}

// HasAll reports whether every required code is present in perms.
func HasAll(perms []string, required []string) bool {
	for _, r := range required {
		if !Has(perms, r) {
			return false
		}
	}
	return true
}
