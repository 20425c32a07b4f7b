package command

const (
	Start = "start"
	Me    = "me"
	Users = "users"
)

// AllCommands contains all available bot commands
var AllCommands = CommandSlice{
	{Name: Start, Description: "Register with the service", Role: RolePublic},
	{Name: Me, Description: "Show your record", Role: RolePublic},
	{Name: Users, Description: "List registered users", Role: RoleAdmin},
}

// GetPublicCommands returns all commands available to public users
func GetPublicCommands() CommandSlice {
	return AllCommands.ByRole(RolePublic)
}

// GetAdminCommands returns all admin-only commands
func GetAdminCommands() CommandSlice {
	return AllCommands.ByRole(RoleAdmin)
}
