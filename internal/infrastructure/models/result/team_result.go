package result

import "github.com/niklvrr/FossaOnboarding/internal/domain"

type EnsureTeamResult struct {
	Team    *domain.Team
	Created bool
	State   domain.ReconcileState
}

type SyncMembersResult struct {
	TeamId      int
	Added       []int
	Attempted   []int
	InviteQueue []string
	State       domain.ReconcileState
}
