package user

type Permission string

const (
	// Time records
	PermissionTimeRecordCreate   Permission = "time_record.create"
	PermissionTimeRecordCorrect  Permission = "time_record.correct"
	PermissionTimeRecordValidate Permission = "time_record.validate"
	PermissionTimeRecordDelete   Permission = "time_record.delete"

	// Leave
	PermissionLeaveBalanceView Permission = "leave.balance_view"
	PermissionLeaveCertificate Permission = "leave.certificate"

	// Reports
	PermissionReportsView Permission = "reports.view"
)

// RolePermissions maps roles to their permissions
var RolePermissions = map[Role][]Permission{
	RoleOwner: {
		PermissionTimeRecordCreate,
		PermissionTimeRecordCorrect,
		PermissionTimeRecordValidate,
		PermissionTimeRecordDelete,
		PermissionLeaveBalanceView,
		PermissionLeaveCertificate,
		PermissionReportsView,
	},
	RoleManager: {
		PermissionTimeRecordCreate,
		PermissionTimeRecordCorrect,
		PermissionTimeRecordValidate,
		PermissionLeaveBalanceView,
		PermissionLeaveCertificate,
		PermissionReportsView,
	},
	RoleEmployee: {
		PermissionTimeRecordCreate,
		PermissionLeaveCertificate,
	},
	RoleService: {
		PermissionTimeRecordCorrect,
		PermissionLeaveBalanceView,
		PermissionReportsView,
	},
}

// HasPermission checks if a role has a specific permission
func HasPermission(role Role, permission Permission) bool {
	for _, p := range RolePermissions[role] {
		if p == permission {
			return true
		}
	}
	return false
}
