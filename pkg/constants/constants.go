package constants

const (
	// Token is the gin context key holding the raw bearer token.
	Token = "token"
	// Claims is the gin context key holding the parsed *user.Claims.
	Claims = "claims"
	// UserRole is the gin context key holding the caller's role.
	UserRole = "user_role"
)

const (
	RoleAdmin     = "admin"
	RoleModerator = "moderator"
	RoleUser      = "user"
)

const (
	IncidentCollection    = "incidents"
	ContactCollection     = "contacts"
	UserCollection        = "users"
	DispatchLogCollection = "sos_dispatch_logs"
)
