package client

import (
	"sync"
	"time"
)

type view struct {
	TargetID string
	Accessed time.Time
}

// https://blog.golang.org/maps
// mediate access to the views-map using mutex
// this is needed because the map is maintained by a GO-routine
var registry = struct {
	sync.RWMutex
	views map[string]view // key is the client address
}{}

// Registry remembers the last viewed target per client, so a page refresh
// doesn't count as another view. This cooldown lives in the request layer on
// purpose - the engagement ledger itself counts every call.
type Registry struct {
}

func (r Registry) Initialize() {
	registry.views = make(map[string]view)
}

// CountView tells whether a view of targetID by this client should count
// (false when the client just re-requested the same target).
// Check and update happen under one write lock - two racing refreshes of
// the same target must not both count.
func (r Registry) CountView(client string, targetID string) bool {

	registry.Lock()
	defer registry.Unlock()

	count := !(registry.views[client].TargetID == targetID)

	// add or update the last (relevant) view
	registry.views[client] = view{
		TargetID: targetID,
		Accessed: time.Now(),
	}

	return count
}

// Flush removes entries which are older than 15 minutes
// usually called by a GO-routine that runs in a ticker
func (r Registry) Flush() {

	registry.Lock()
	now := time.Now()
	if len(registry.views) > 5000 {
		// it's safe to just delete expired keys, since iterations over maps are not ordered
		for key, value := range registry.views {
			if now.Sub(value.Accessed).Minutes() > 15 {
				delete(registry.views, key)
			}
		}
	}
	registry.Unlock()
}

// Count returns how many different clients are currently active
func (r Registry) Count() int {
	registry.RLock()
	cnt := len(registry.views)
	registry.RUnlock()
	return cnt
}

// Dump returns the last viewed target and timestamp for each client
func (r Registry) Dump(max int) []view {

	var res []view
	var v view
	i := 0

	registry.RLock()
	for _, entry := range registry.views {
		if i >= max {
			break
		}

		v.TargetID = entry.TargetID
		v.Accessed = entry.Accessed

		res = append(res, v)
		i++
	}
	registry.RUnlock()

	return res
}
