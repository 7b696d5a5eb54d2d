package service

import (
	"github.com/newsroomhq/newsroom-backend/internal/domain"
)

// PublishGate decides whether a requested publish is honored immediately or
// redirected into the approval queue. Pure decision, persists nothing.
type PublishGate struct {
	policy *domain.RolePolicy
}

// NewPublishGate creates a gate bound to the configured role policy
func NewPublishGate(policy *domain.RolePolicy) *PublishGate {
	return &PublishGate{policy: policy}
}

// Decide returns the status the write proceeds with and whether the
// submission must be queued for review. Only a requested "published" by a
// role without direct-publish capability is redirected; every other status
// passes through unchanged.
func (g *PublishGate) Decide(requested domain.Status, role string) (domain.Status, bool) {
	if requested == domain.StatusPublished && !g.policy.CanPublishDirectly(role) {
		return domain.StatusPendingApproval, true
	}
	return requested, false
}
