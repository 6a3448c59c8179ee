package services

import (
	"fmt"
	"time"

	"github.com/Nitteswaran/Routely/models"
)

// ActionWindow bounds rate-limit counts for both action types.
const ActionWindow = time.Hour

// Per-hour policy: below the reward cap an action earns full points, between
// reward cap and hard cap it is allowed but earns nothing, at the hard cap
// it is rejected.
const (
	incidentHardCap   = 5
	incidentRewardCap = 3
	incidentPoints    = 20

	journalHardCap   = 10
	journalRewardCap = 5
	journalPoints    = 10
)

// EvaluateAction decides whether an action is allowed and how many points it
// earns. recentCount is the number of same-type actions in the trailing hour,
// not counting the action being evaluated. Returns ErrRateLimited at the cap.
func EvaluateAction(action string, recentCount int) (int, error) {
	switch action {
	case models.ActionIncident:
		if recentCount >= incidentHardCap {
			return 0, ErrRateLimited
		}
		if recentCount < incidentRewardCap {
			return incidentPoints, nil
		}
		return 0, nil
	case models.ActionJournal:
		if recentCount >= journalHardCap {
			return 0, ErrRateLimited
		}
		if recentCount < journalRewardCap {
			return journalPoints, nil
		}
		return 0, nil
	default:
		return 0, fmt.Errorf("unknown action type %q", action)
	}
}
