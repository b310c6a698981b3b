package branches

import (
	"github.com/temirov/gitdot/internal/gitrepo"
)

// ClassifyCandidates partitions local branches into deletion candidates.
//
// Branches whose upstream was configured but is now gone are always
// candidates. When includeLocalOnly is set, branches that never had an
// upstream are added as well. The currently checked-out branch is excluded
// unconditionally, regardless of its upstream status.
func ClassifyCandidates(branchRecords []gitrepo.BranchRecord, includeLocalOnly bool) []gitrepo.BranchRecord {
	deletionCandidates := []gitrepo.BranchRecord{}
	for _, branchRecord := range branchRecords {
		if branchRecord.IsCurrent {
			continue
		}

		switch branchRecord.UpstreamStatus {
		case gitrepo.UpstreamStatusGone:
			deletionCandidates = append(deletionCandidates, branchRecord)
		case gitrepo.UpstreamStatusNone:
			if includeLocalOnly {
				deletionCandidates = append(deletionCandidates, branchRecord)
			}
		}
	}
	return deletionCandidates
}
