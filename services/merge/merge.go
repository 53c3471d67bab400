package merge

import (
	"sort"
	"time"
)

// Record is anything the merger can reconcile. Groups implement it.
type Record interface {
	RecordID() string
	MemberCount() int
	CreatedTime() time.Time
	// RecordVersion is a monotonic mutation counter, zero when unknown
	RecordVersion() int64
}

// Merge reconciles the local cache with a remote listing. The result is the union by id.
// When both sides hold an id the remote copy wins, except that a remote copy with a single
// member loses to a local copy with more: the remote listing usually lags behind joins
// this client just made. If both copies carry a version and the remote one is strictly
// newer, remote wins regardless, so members who really left are not resurrected.
// The result is ordered newest first.
func Merge[T Record](local, remote []T) []T {
	localByID := make(map[string]T, len(local))
	for _, l := range local {
		if _, dup := localByID[l.RecordID()]; !dup {
			localByID[l.RecordID()] = l
		}
	}

	out := make([]T, 0, len(local)+len(remote))
	seen := make(map[string]bool, len(local)+len(remote))
	for _, r := range remote {
		id := r.RecordID()
		if seen[id] {
			continue
		}
		seen[id] = true
		if l, ok := localByID[id]; ok {
			out = append(out, pick(l, r))
			continue
		}
		out = append(out, r)
	}
	for _, l := range local {
		if seen[l.RecordID()] {
			continue
		}
		seen[l.RecordID()] = true
		out = append(out, l)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedTime().After(out[j].CreatedTime())
	})
	return out
}

func pick[T Record](local, remote T) T {
	lv, rv := local.RecordVersion(), remote.RecordVersion()
	if lv > 0 && rv > 0 && rv > lv {
		return remote
	}
	if remote.MemberCount() == 1 && local.MemberCount() > 1 {
		return local
	}
	return remote
}
