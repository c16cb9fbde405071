// Package cli provides the cobra command tree for scholardocs.
package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/scholardocs/internal/core/ports/driving"
	"github.com/custodia-labs/scholardocs/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

var verbose bool

// Services wired in by main. Commands check for nil and fail with a
// "not configured" error so a partial wiring is still usable.
var (
	requirementService driving.RequirementService
	wizardService      driving.WizardService
	toolService        driving.DocumentToolService
	historyService     driving.JobHistoryService
	settingsService    driving.SettingsService
)

// Services groups the driving ports the commands use.
type Services struct {
	Requirements driving.RequirementService
	Wizard       driving.WizardService
	Tools        driving.DocumentToolService
	History      driving.JobHistoryService
	Settings     driving.SettingsService
}

// SetServices installs the services used by every command.
func SetServices(s Services) {
	requirementService = s.Requirements
	wizardService = s.Wizard
	toolService = s.Tools
	historyService = s.History
	settingsService = s.Settings
}

// SetVersion overrides the version string.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

var rootCmd = &cobra.Command{
	Use:   "scholardocs",
	Short: "Scholarship renewal document helper",
	Long: `scholardocs works out which documents a student must upload for a
scholarship application and prepares them for the portal.

It answers a few questions about the course, category and year of study,
lists the required documents, and converts scans and PDFs into files that
meet the portal's 230 KB limit.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		// The flag can only turn logging on; SCHOLARDOCS_VERBOSE may already have.
		if verbose {
			logger.SetVerbose(true)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "print debug logs to stderr")
}

// Execute runs the root command. ctx is cancelled on interrupt and reaches
// every command through cmd.Context().
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}
