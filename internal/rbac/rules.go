package rbac

// Simple default policy. Expand as needed.
var RolePermissions = map[string][]string{
	"student": {
		"sheet:upload",
		"sheet:view-own",
	},
	"teacher": {
		"sheet:upload",
		"sheet:view-all",
		"sheet:grade",
		"key:upload",
		"key:regrade",
	},
	"admin": {
		"*", // everything
	},
}
