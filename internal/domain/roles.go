package domain

// RolePolicy is the capability oracle consumed by the publish gate.
// The permission matrix itself lives with an external collaborator; this is
// the one capability this core needs, loaded once from config at boot and
// passed by reference (no mutable global state).
type RolePolicy struct {
	directPublish map[string]bool
}

// NewRolePolicy builds an immutable policy from the configured role list
func NewRolePolicy(directPublishRoles []string) *RolePolicy {
	m := make(map[string]bool, len(directPublishRoles))
	for _, r := range directPublishRoles {
		m[r] = true
	}
	return &RolePolicy{directPublish: m}
}

// CanPublishDirectly reports whether the role may publish without review
func (p *RolePolicy) CanPublishDirectly(role string) bool {
	return p.directPublish[role]
}
