package model

import "time"

// DailyAction tracks how many times an interaction has run on a given local
// calendar date. Date is a "2006-01-02" stamp; a stale stamp means the count
// resets before the next cap check.
type DailyAction struct {
	Count int    `json:"count"`
	Date  string `json:"date"`
}

// Pet is the virtual companion. There is exactly one per deployment, created
// lazily on first access and never deleted.
//
// Invariants maintained by the progression engine:
//   - Level >= 1 and 0 <= Experience < required exp for the current level
//   - Happiness and Hunger stay in [0, 100]
//   - Evolution is a non-decreasing step function of Level
//   - Accessories only ever grows; EquippedItems values must be unlocked
type Pet struct {
	ID            string                 `json:"id"`
	Name          string                 `json:"name"`
	Color         string                 `json:"color"`
	Level         int                    `json:"level"`
	Experience    int                    `json:"experience"`
	Happiness     int                    `json:"happiness"`
	Hunger        int                    `json:"hunger"`
	Evolution     int                    `json:"evolution"`
	Accessories   []string               `json:"accessories"`
	EquippedItems map[string]string      `json:"equipped_items"`
	DailyActions  map[string]DailyAction `json:"daily_actions"`
	LastVisitAt   time.Time              `json:"last_visit_at"`
	LastFedAt     *time.Time             `json:"last_fed_at,omitempty"`
	LastPlayAt    *time.Time             `json:"last_play_at,omitempty"`
	CreatedAt     time.Time              `json:"created_at"`
}

// HasAccessory reports whether the given accessory has been unlocked.
func (p *Pet) HasAccessory(id string) bool {
	for _, a := range p.Accessories {
		if a == id {
			return true
		}
	}
	return false
}
