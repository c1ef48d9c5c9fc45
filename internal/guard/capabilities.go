package guard

import "github.com/me/hrpulse/pkg/model"

// Capability names one thing a role is allowed to do. Permission sets are
// defined centrally here instead of being re-derived from role lists at
// each call site.
type Capability string

const (
	CapViewDashboard      Capability = "dashboard:view"
	CapRunAnalysis        Capability = "analysis:run"
	CapDownloadResults    Capability = "results:download"
	CapSearchEmployees    Capability = "employees:search"
	CapViewAllDepartments Capability = "departments:view-all"
	CapApproveUsers       Capability = "users:approve"
)

// roleCapabilities is the single source of truth for role permissions.
var roleCapabilities = map[model.Role][]Capability{
	model.RoleAdmin: {
		CapViewDashboard, CapRunAnalysis, CapDownloadResults,
		CapSearchEmployees, CapViewAllDepartments, CapApproveUsers,
	},
	model.RoleExecutive: {
		CapViewDashboard, CapRunAnalysis, CapDownloadResults,
		CapSearchEmployees, CapViewAllDepartments,
	},
	model.RoleManager: {
		CapViewDashboard, CapRunAnalysis, CapDownloadResults,
		CapSearchEmployees,
	},
	model.RoleAnalyst: {
		CapViewDashboard, CapRunAnalysis, CapSearchEmployees,
	},
	model.RoleViewer: {
		CapViewDashboard,
	},
}

// Capabilities returns the permission set for a role. Unknown roles have
// no capabilities.
func Capabilities(role model.Role) []Capability {
	return roleCapabilities[role]
}

// Can reports whether the role holds the capability.
func Can(role model.Role, cap Capability) bool {
	for _, c := range roleCapabilities[role] {
		if c == cap {
			return true
		}
	}
	return false
}
