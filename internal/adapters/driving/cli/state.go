package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var stateCmd = &cobra.Command{
	Use:   "state",
	Short: "Show or clear the saved wizard answers",
	RunE:  runStateShow,
}

var stateShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the saved wizard answers",
	RunE:  runStateShow,
}

var stateClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Forget the saved wizard answers",
	RunE:  runStateClear,
}

func init() {
	stateCmd.AddCommand(stateShowCmd)
	stateCmd.AddCommand(stateClearCmd)
	rootCmd.AddCommand(stateCmd)
}

func runStateShow(cmd *cobra.Command, _ []string) error {
	if wizardService == nil {
		return errors.New("wizard service not configured")
	}

	state, err := wizardService.Current(cmd.Context())
	if err != nil {
		return fmt.Errorf("loading wizard state: %w", err)
	}

	sel := state.Selection
	cmd.Println("Saved Answers")
	cmd.Println("=============")
	cmd.Printf("  Step:      %s\n", state.Step.Description())
	cmd.Printf("  Language:  %s\n", state.Language.Description())
	cmd.Printf("  Stream:    %s\n", orUnset(sel.Stream != "", sel.Stream.Description()))
	if sel.Stream.HasCourseChoice() {
		cmd.Printf("  Course:    %s\n", orUnset(sel.Course != "", sel.Course.Description()))
	}
	cmd.Printf("  Category:  %s\n", orUnset(sel.Category != "", sel.Category.Description()))
	cmd.Printf("  Year:      %s\n", orUnset(sel.CurrentYear > 0, fmt.Sprintf("%d", sel.CurrentYear)))
	if sel.IsFresh() {
		cmd.Printf("  Gap year:  %s\n", yesNo(sel.HadGap))
	}
	if sel.HostelEligible() {
		cmd.Printf("  Hosteller: %s\n", yesNo(sel.Hosteller))
	}
	if sel.DirectSecondYear != nil {
		cmd.Printf("  Direct second year: %s\n", yesNo(*sel.DirectSecondYear))
	}
	if sel.IsRenewal() {
		cmd.Printf("  Portal login ready: %s\n", yesNo(sel.Login.Ready()))
	}
	if sel.Complete() {
		cmd.Println()
		cmd.Println(strings.Join(sel.Pills(), " · "))
	}
	return nil
}

func runStateClear(cmd *cobra.Command, _ []string) error {
	if wizardService == nil {
		return errors.New("wizard service not configured")
	}

	state, err := wizardService.Restart(cmd.Context())
	if err != nil {
		return fmt.Errorf("clearing wizard state: %w", err)
	}
	cmd.Printf("Saved answers cleared. Language kept: %s\n", state.Language.Description())
	return nil
}

func orUnset(set bool, value string) string {
	if !set {
		return "(not answered)"
	}
	return value
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

