package auth

type Role string

const (
	RoleAdmin Role = "Admin"
	RoleUser  Role = "User"
)

func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleAdmin, RoleUser:
		return Role(s), true
	}
	return "", false
}

// Principal is the authenticated human identity bound to a request. Role
// checks go through the capability predicates below instead of raw claim
// string lookups.
type Principal struct {
	UserID string
	Email  string
	Roles  []Role
}

func (p *Principal) HasRole(role Role) bool {
	if p == nil {
		return false
	}
	for _, r := range p.Roles {
		if r == role {
			return true
		}
	}
	return false
}

func (p *Principal) CanManageDevices() bool {
	return p.HasRole(RoleAdmin)
}

func (p *Principal) CanManageRules() bool {
	return p.HasRole(RoleAdmin)
}

func (p *Principal) CanAssignRoles() bool {
	return p.HasRole(RoleAdmin)
}

func (p *Principal) CanViewReadings() bool {
	return p.HasRole(RoleAdmin) || p.HasRole(RoleUser)
}

func (p *Principal) CanViewAlerts() bool {
	return p.CanViewReadings()
}

// DevicePrincipal is the authenticated device identity produced by an API
// key lookup.
type DevicePrincipal struct {
	DeviceID string
	Name     string
}
