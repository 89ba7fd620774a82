package constants

// Role is an authorization role name. Stored role values and security
// policies match these literals exactly, so the spellings must not change.
type Role string

const (
	Admin  Role = "ADMIN"
	HOC    Role = "HOC"
	Member Role = "MEMBER"

	RoleAdmin  Role = "ROLE_ADMIN"
	RoleHOC    Role = "ROLE_HOC"
	RoleMember Role = "ROLE_MEMBER"
)

// authorities pairs every unprefixed role with its prefixed authority.
var authorities = map[Role]Role{
	Admin:  RoleAdmin,
	HOC:    RoleHOC,
	Member: RoleMember,
}

var names = map[Role]Role{
	RoleAdmin:  Admin,
	RoleHOC:    HOC,
	RoleMember: Member,
}

// Roles returns every known role, unprefixed names first.
func Roles() []Role {
	return []Role{Admin, HOC, Member, RoleAdmin, RoleHOC, RoleMember}
}

// Authority returns the prefixed authority paired with the role name r.
func Authority(r Role) (Role, bool) {
	a, ok := authorities[r]
	return a, ok
}

// Name returns the unprefixed role name paired with the authority a.
func Name(a Role) (Role, bool) {
	n, ok := names[a]
	return n, ok
}

func (r Role) Valid() bool {
	_, isName := authorities[r]
	_, isAuthority := names[r]
	return isName || isAuthority
}

func (r Role) String() string {
	return string(r)
}
