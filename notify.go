package main

import (
	"fmt"

	"github.com/gen2brain/beeep"
)

// Notifier receives the outcome of a finished environment sync. Quiet mode
// installs no notifier at all.
type Notifier interface {
	NotifyOutcome(job SyncJob, outcome Outcome) error
}

// DesktopNotifier surfaces the per-environment summary as a desktop
// notification. Failures are non-fatal; the orchestrator only logs them.
type DesktopNotifier struct {
	AppName string
}

func (d *DesktopNotifier) NotifyOutcome(job SyncJob, outcome Outcome) error {
	return beeep.Notify(
		fmt.Sprintf("%s: %s", d.AppName, job.Env),
		outcomeSummary(job, outcome),
		"",
	)
}

func outcomeSummary(job SyncJob, outcome Outcome) string {
	summary := fmt.Sprintf(
		"%d %s %s updated",
		outcome.Uploaded, plural("file", outcome.Uploaded), pastVerb(outcome.Uploaded, job.DryRun),
	)
	if job.Delete {
		summary += fmt.Sprintf(
			", %d %s %s removed",
			outcome.Deleted, plural("file", outcome.Deleted), pastVerb(outcome.Deleted, job.DryRun),
		)
	}
	if outcome.Invalidated > 0 {
		summary += fmt.Sprintf(
			", %d %s invalidated",
			outcome.Invalidated, plural("distribution", outcome.Invalidated),
		)
	}
	return summary
}
