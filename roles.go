package bastion

// Predefined role names with built-in grants. Deployments may extend or
// replace these through Config.Grants.
const (
	// RoleReader may read data.
	RoleReader = "reader"

	// RolePublisher may read and write data.
	RolePublisher = "publisher"

	// RoleArchitect may additionally change the schema.
	RoleArchitect = "architect"

	// RoleAdmin may do everything, including user and role management.
	RoleAdmin = "admin"
)

// DefaultGrants returns the permission patterns granted to the predefined
// roles.
func DefaultGrants() map[string][]string {
	return map[string][]string{
		RoleReader:    {"data:read"},
		RolePublisher: {"data:read", "data:write"},
		RoleArchitect: {"data:*", "schema:*"},
		RoleAdmin:     {"*"},
	}
}
