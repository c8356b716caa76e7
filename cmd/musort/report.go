package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"musort/internal/plan"
	"musort/internal/sorter"
)

type report struct {
	Root       string            `json:"root"`
	Mode       string            `json:"mode"`
	RunID      string            `json:"run_id,omitempty"`
	DryRun     bool              `json:"dry_run"`
	Executed   int               `json:"executed"`
	Skipped    int               `json:"skipped"`
	Failed     int               `json:"failed"`
	Unreadable []string          `json:"unreadable,omitempty"`
	Operations []reportOperation `json:"operations"`
}

type reportOperation struct {
	Kind        string `json:"kind"`
	Source      string `json:"source"`
	Destination string `json:"destination,omitempty"`
	Status      string `json:"status"`
	Reason      string `json:"reason,omitempty"`
	Error       string `json:"error,omitempty"`
}

func newReport(result *sorter.Result) report {
	rep := report{
		Root:       result.Root,
		Mode:       result.Mode.String(),
		RunID:      result.RunID,
		DryRun:     result.DryRun,
		Executed:   result.Executed(),
		Skipped:    result.Skipped(),
		Failed:     result.Failed(),
		Unreadable: result.Unreadable,
		Operations: make([]reportOperation, 0, len(result.Operations)),
	}
	for _, op := range result.Operations {
		rop := reportOperation{
			Kind:        string(op.Kind),
			Source:      op.Source,
			Destination: op.Destination,
			Status:      string(op.Status),
			Reason:      string(op.Reason),
		}
		if op.Err != nil {
			rop.Error = op.Err.Error()
		}
		rep.Operations = append(rep.Operations, rop)
	}
	return rep
}

// renderReport prints the human-readable run summary: a table of sorted
// music, any unreadable paths, and outcome counts.
func renderReport(cmd *cobra.Command, result *sorter.Result) {
	out := cmd.OutOrStdout()

	rows := make([][]string, 0, len(result.Operations))
	for _, op := range result.Operations {
		if op.File == nil || op.Kind == plan.KindRmdir {
			continue
		}
		rows = append(rows, []string{
			op.File.Genre,
			op.File.Artist,
			albumLabel(op),
			filepath.Base(op.Source),
			outcomeLabel(op),
		})
	}
	if len(rows) > 0 {
		fmt.Fprintln(out, renderTable(
			[]string{"Genre", "Artist", "Album", "File", "Result"},
			rows,
			nil,
		))
	}

	for _, path := range result.Unreadable {
		fmt.Fprintf(out, "unreadable: %s\n", path)
	}

	verb := "executed"
	if result.DryRun {
		verb = "planned"
	}
	fmt.Fprintf(out, "%d %s, %d skipped, %d failed, %d unreadable\n",
		countForSummary(result), verb, result.Skipped(), result.Failed(), len(result.Unreadable))
}

func countForSummary(result *sorter.Result) int {
	if result.DryRun {
		n := 0
		for _, op := range result.Operations {
			if op.Status == plan.StatusValidated {
				n++
			}
		}
		return n
	}
	return result.Executed()
}

func albumLabel(op plan.Operation) string {
	if op.File.Year > 0 {
		return fmt.Sprintf("%04d - %s", op.File.Year, op.File.Album)
	}
	return op.File.Album
}

func outcomeLabel(op plan.Operation) string {
	switch op.Status {
	case plan.StatusExecuted:
		return "sorted"
	case plan.StatusValidated:
		return "planned"
	case plan.StatusSkipped:
		if op.Reason != plan.ReasonNone {
			return string(op.Reason)
		}
		return "skipped"
	case plan.StatusFailed:
		if op.Err != nil {
			return "failed: " + op.Err.Error()
		}
		return string(op.Reason)
	default:
		return string(op.Status)
	}
}
