// Package plan computes canonical destination paths from resolved metadata
// and validates batches of planned operations against each other and the
// filesystem. Planning is fully separated from execution: nothing in this
// package mutates the tree.
package plan
