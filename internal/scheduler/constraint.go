package scheduler

import (
	"fmt"
	"time"

	"github.com/alexanderramin/taskgraph/internal/domain"
)

// anchors reports which end of each task a dependency type constrains:
// the successor's anchor must be >= the predecessor's anchor + lag.
//
//	FS: succ.start  >= pred.finish + lag
//	SS: succ.start  >= pred.start  + lag
//	FF: succ.finish >= pred.finish + lag
//	SF: succ.finish >= pred.start  + lag
func anchors(typ domain.DependencyType) (predFinish, succFinish bool) {
	switch typ {
	case domain.FinishToStart:
		return true, false
	case domain.StartToStart:
		return false, false
	case domain.FinishToFinish:
		return true, true
	case domain.StartToFinish:
		return false, true
	default:
		panic(fmt.Sprintf("scheduler: unknown dependency type %q", typ))
	}
}

// earliestStart is the lower bound a single edge places on the successor's
// start, given the predecessor's start/finish and the successor's duration.
// All values are day numbers.
func earliestStart(typ domain.DependencyType, predStart, predFinish, lag, succDur int) int {
	predFinishAnchor, succFinishAnchor := anchors(typ)
	bound := predStart + lag
	if predFinishAnchor {
		bound = predFinish + lag
	}
	if succFinishAnchor {
		return bound - succDur
	}
	return bound
}

// latestFinish is the upper bound a single edge places on the predecessor's
// finish, given the successor's late start/finish and the predecessor's
// duration.
func latestFinish(typ domain.DependencyType, succLateStart, succLateFinish, lag, predDur int) int {
	predFinishAnchor, succFinishAnchor := anchors(typ)
	limit := succLateStart - lag
	if succFinishAnchor {
		limit = succLateFinish - lag
	}
	if predFinishAnchor {
		return limit
	}
	return limit + predDur
}

// dayNumber maps a calendar day onto an integer axis for constraint arithmetic.
func dayNumber(t time.Time) int {
	return int(domain.Day(t).Unix() / 86400)
}
