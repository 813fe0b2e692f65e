package preview

import (
	"sync"

	"git.home.luguber.info/inful/mdsite/internal/site"
)

// buildStatus tracks the latest build result for health reporting.
type buildStatus struct {
	mu           sync.RWMutex
	lastError    error
	lastReport   *site.BuildReport
	hasGoodBuild bool // true if at least one successful build exists
	builds       int
}

func (bs *buildStatus) record(report *site.BuildReport, err error) {
	bs.mu.Lock()
	defer bs.mu.Unlock()
	bs.builds++
	bs.lastReport = report
	bs.lastError = err
	if err == nil {
		bs.hasGoodBuild = true
	}
}

type statusSnapshot struct {
	err          error
	report       *site.BuildReport
	hasGoodBuild bool
	builds       int
}

func (bs *buildStatus) snapshot() statusSnapshot {
	bs.mu.RLock()
	defer bs.mu.RUnlock()
	return statusSnapshot{err: bs.lastError, report: bs.lastReport, hasGoodBuild: bs.hasGoodBuild, builds: bs.builds}
}
