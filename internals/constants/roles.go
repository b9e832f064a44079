package constants

import "fmt"

const (
	RoleTeacher = "teacher"
	RoleStudent = "student"
	RoleParent  = "parent"
)

// Template pesan error role
const (
	ErrOnlyTeachersCanAccess = "Access is allowed for teachers only (%s)."
	ErrOnlyStudentsCanAccess = "Access is allowed for students only (%s)."
	ErrOnlyParentsCanAccess  = "Access is allowed for parents only (%s)."
)

func RoleErrorTeacher(feature string) string {
	return fmt.Sprintf(ErrOnlyTeachersCanAccess, feature)
}

func RoleErrorStudent(feature string) string {
	return fmt.Sprintf(ErrOnlyStudentsCanAccess, feature)
}

func RoleErrorParent(feature string) string {
	return fmt.Sprintf(ErrOnlyParentsCanAccess, feature)
}

// ==========================
// Grouped Role Slices
// ==========================
var (
	AllRoles = []string{
		RoleTeacher,
		RoleStudent,
		RoleParent,
	}

	TeacherOnly = []string{RoleTeacher}
	StudentOnly = []string{RoleStudent}
	ParentOnly  = []string{RoleParent}
)

// IsValidRole reports whether role is one of AllRoles (exact, case-sensitive).
func IsValidRole(role string) bool {
	for _, r := range AllRoles {
		if r == role {
			return true
		}
	}
	return false
}
