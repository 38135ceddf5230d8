package user

type Role string

const (
	RoleOwner    Role = "owner"    // Company owner - full access
	RoleManager  Role = "manager"  // Can validate time records and read reports
	RoleEmployee Role = "employee" // Regular employee
	RoleService  Role = "service"  // In-process callers such as the CLI and jobs
)

func (r Role) IsValid() bool {
	switch r {
	case RoleOwner, RoleManager, RoleEmployee, RoleService:
		return true
	}
	return false
}
