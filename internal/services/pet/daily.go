package pet

import (
	"fmt"

	"github.com/keepsakehq/keepsake/internal/model"
)

// Daily interaction caps, keyed by local calendar date
const (
	FeedDailyCap = 3
	PlayDailyCap = 5
)

// Interaction action names, also used as daily counter keys
const (
	ActionFeed = "feed"
	ActionPlay = "play"
)

// DailyLimitError reports that an action hit its per-day cap
type DailyLimitError struct {
	Action string
	Cap    int
}

// Error implements error
func (e *DailyLimitError) Error() string {
	return fmt.Sprintf("daily %s limit reached (%d/day)", e.Action, e.Cap)
}

// checkDailyLimit enforces an action's per-day cap. A counter stamped with a
// previous date counts as zero; the reset happens exactly once per new date
// because bumpDailyCount rewrites the stamp. Both the check and the bump run
// inside the caller's storage transaction.
func checkDailyLimit(p *model.Pet, action string, cap int, today string) error {
	counter := p.DailyActions[action]
	if counter.Date != today {
		counter.Count = 0
	}
	if counter.Count >= cap {
		return &DailyLimitError{Action: action, Cap: cap}
	}
	return nil
}

// bumpDailyCount increments an action's counter for today, resetting it first
// if the stored stamp is stale
func bumpDailyCount(p *model.Pet, action string, today string) {
	counter := p.DailyActions[action]
	if counter.Date != today {
		counter = model.DailyAction{Date: today}
	}
	counter.Count++
	if p.DailyActions == nil {
		p.DailyActions = make(map[string]model.DailyAction)
	}
	p.DailyActions[action] = counter
}

// refreshDailyCounters rewrites stale counter stamps to today with zero
// counts, mirroring what a fetch of companion state does
func refreshDailyCounters(p *model.Pet, today string) {
	for action, counter := range p.DailyActions {
		if counter.Date != today {
			p.DailyActions[action] = model.DailyAction{Date: today}
		}
	}
}
