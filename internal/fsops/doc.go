// Package fsops executes validated plan operations against the filesystem.
// Every OS-level failure is classified into a closed kind set at the call
// boundary and recorded per operation; a failing operation never aborts the
// rest of the batch. Preconditions (target non-existence, directory
// emptiness) are re-verified immediately before each mutation so externally
// concurrent changes to the tree are tolerated.
package fsops
