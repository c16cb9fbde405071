package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/scholardocs/internal/core/domain"
)

// checklistJSON is the --json shape of a checklist.
type checklistJSON struct {
	Selection   domain.SelectionState     `json:"selection"`
	Pills       []string                  `json:"pills"`
	Result      *domain.RequirementResult `json:"result"`
	PortalRules []string                  `json:"portal_rules"`
}

func printChecklist(cmd *cobra.Command, sel domain.SelectionState, result *domain.RequirementResult) {
	cmd.Println(strings.Join(sel.Pills(), " · "))
	cmd.Println()

	printGroup(cmd, "Academic Documents", result.Academic)
	printGroup(cmd, "Government Documents", result.Government)
	if len(result.Hostel) > 0 {
		printGroup(cmd, "Hostel Documents", result.Hostel)
	}
	if result.HasChoiceGroup() {
		printGroup(cmd, "Upload any one of", result.ChoiceGroup)
	}

	if len(result.Declarations) > 0 {
		cmd.Println("Declarations")
		for _, form := range result.Declarations {
			cmd.Printf("  [ ] %s\n", form.Title)
			if form.Instruction != "" {
				cmd.Printf("      %s\n", form.Instruction)
			}
			cmd.Printf("      File: %s\n", form.SuggestedFileName)
			if form.DownloadURL != "" {
				cmd.Printf("      Download: %s\n", form.DownloadURL)
			}
		}
		cmd.Println()
	}

	cmd.Println("Portal rules")
	for _, rule := range domain.PortalRules() {
		cmd.Printf("  - %s\n", rule)
	}
}

func printGroup(cmd *cobra.Command, title string, docs []domain.DocumentRequirement) {
	cmd.Println(title)
	for _, d := range docs {
		line := "  [ ] " + d.Name
		if meta, ok := d.Badge.Meta(); ok {
			line += " (" + meta.Label + ")"
		}
		cmd.Println(line)
		if d.FileNameHint != "" {
			cmd.Printf("      File: %s\n", d.FileNameHint)
		}
	}
	cmd.Println()
}
