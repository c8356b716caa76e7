package plan

import (
	"os"
	"path/filepath"
)

// Resolve validates a batch of planned operations. Two conflict classes are
// detected:
//
//   - destination collision: two distinct sources computing the same
//     destination. Unresolvable automatically; every collider is failed with
//     ReasonDuplicateDestination and excluded from execution.
//   - pre-existing target: the destination already exists on disk and is not
//     itself a source being moved in this batch. Skipped with
//     ReasonSkippedExisting unless replaceDuplicates is set, in which case
//     the operation is validated with Replace so the executor deletes the
//     target immediately before the move.
//
// No-op operations (source already at its destination) are skipped with
// ReasonAlreadySorted. The slice is mutated in place and returned.
func Resolve(ops []Operation, replaceDuplicates bool) []Operation {
	sources := make(map[string]struct{}, len(ops))
	for _, op := range ops {
		if op.Status == StatusPlanned {
			sources[filepath.Clean(op.Source)] = struct{}{}
		}
	}

	byDest := make(map[string][]int, len(ops))
	for i := range ops {
		if ops[i].Status != StatusPlanned {
			continue
		}
		src := filepath.Clean(ops[i].Source)
		dest := filepath.Clean(ops[i].Destination)
		if src == dest {
			ops[i].Status = StatusSkipped
			ops[i].Reason = ReasonAlreadySorted
			continue
		}
		byDest[dest] = append(byDest[dest], i)
	}

	for dest, indexes := range byDest {
		if len(indexes) > 1 {
			for _, i := range indexes {
				ops[i].Status = StatusFailed
				ops[i].Reason = ReasonDuplicateDestination
			}
			continue
		}

		i := indexes[0]
		if _, occupied := sources[dest]; !occupied {
			if _, err := os.Lstat(dest); err == nil {
				if !replaceDuplicates {
					ops[i].Status = StatusSkipped
					ops[i].Reason = ReasonSkippedExisting
					continue
				}
				ops[i].Replace = true
			}
		}
		ops[i].Status = StatusValidated
	}

	return ops
}
