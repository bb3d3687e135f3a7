// file: internals/constants/roles.go
package constants

import "fmt"

const (
	RoleAdmin    = "admin"
	RoleWriter   = "writer"
	RoleSchool   = "school"
	RoleMarketer = "marketer"
)

// Role error message templates
const (
	ErrOnlyStaffCanAccess    = "❌ Only writer or admin may access %s."
	ErrOnlyAdminsCanAccess   = "❌ Only admin may access %s."
	ErrOnlySchoolsCanAccess  = "❌ Only school or admin may access %s."
	ErrOnlyMarketerCanAccess = "❌ Only marketer or admin may access %s."
)

func RoleErrorStaff(feature string) string {
	return fmt.Sprintf(ErrOnlyStaffCanAccess, feature)
}

func RoleErrorAdmin(feature string) string {
	return fmt.Sprintf(ErrOnlyAdminsCanAccess, feature)
}

func RoleErrorSchool(feature string) string {
	return fmt.Sprintf(ErrOnlySchoolsCanAccess, feature)
}

func RoleErrorMarketer(feature string) string {
	return fmt.Sprintf(ErrOnlyMarketerCanAccess, feature)
}

// ==========================
// ✅ Grouped Role Slices
// ==========================
var (
	AllRoles = []string{
		RoleAdmin,
		RoleWriter,
		RoleSchool,
		RoleMarketer,
	}

	// Drafting crew
	StaffRoles = []string{
		RoleWriter,
		RoleAdmin,
	}

	// May approve and publish
	PublishRoles = []string{
		RoleSchool,
		RoleAdmin,
	}

	// Social fan-out crew; schools may announce their own blogs
	SocialRoles = []string{
		RoleMarketer,
		RoleSchool,
		RoleAdmin,
	}

	AdminOnly = []string{
		RoleAdmin,
	}
)
