package ledger

import (
	"time"

	"github.com/charettep/splitup/models"
)

// ResolvePeriod returns the first period, in caller-supplied order, whose
// date range contains the given date. A nil EndDate means the period is
// ongoing. Returns nil when no period matches.
//
// Overlapping periods are a data-quality problem, not an engine concern:
// ties resolve to whichever comes first in the slice.
func ResolvePeriod(date time.Time, periods []models.SplitPeriod) *models.SplitPeriod {
	for i := range periods {
		p := &periods[i]
		if date.Before(p.StartDate) {
			continue
		}
		if p.EndDate == nil || !date.After(*p.EndDate) {
			return p
		}
	}
	return nil
}
