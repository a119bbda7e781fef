package entity

import "github.com/TheoSfak/volunteer-ops-sub005/pkg/enum"

type GlobalRole string

var (
	RoleSuperAdmin = enum.New(GlobalRole("super_admin"))
	RoleAdmin      = enum.New(GlobalRole("admin"))
	RoleModerator  = enum.New(GlobalRole("moderator"))
	RoleVolunteer  = enum.New(GlobalRole("volunteer"))
)

// Allowed-role sets per operation group. Admin roles are explicit members of
// every set; there is no implicit global override.
var (
	ReviewRoles      = []GlobalRole{RoleSuperAdmin, RoleAdmin, RoleModerator}
	MissionRoles     = []GlobalRole{RoleSuperAdmin, RoleAdmin, RoleModerator}
	AttendanceRoles  = []GlobalRole{RoleSuperAdmin, RoleAdmin, RoleModerator}
	MaintenanceRoles = []GlobalRole{RoleSuperAdmin, RoleAdmin}
)

type User struct {
	Base

	Name string `gorm:"unique"`
	Role GlobalRole

	// Cached projections of the point ledger. The rewards engine updates
	// them incrementally; the periodic aggregator re-derives and resets
	// them from the ledger.
	TotalPoints   int64
	MonthlyPoints int64
}
