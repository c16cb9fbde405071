package cli

import (
	"bufio"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/scholardocs/internal/core/domain"
	"github.com/custodia-labs/scholardocs/internal/core/services"
)

var wizardCmd = &cobra.Command{
	Use:   "wizard",
	Short: "Answer a few questions and get your document checklist",
	Long: `Walk through the application questions one step at a time.

Answers are saved after every step, so you can stop and resume later.
Type "b" at any question to go back a step. Use --restart to start over.`,
	RunE: runWizard,
}

var wizardRestart bool

func init() {
	wizardCmd.Flags().BoolVar(&wizardRestart, "restart", false, "clear saved answers and start again")
	rootCmd.AddCommand(wizardCmd)
}

// loginItems are the readiness checks shown before a renewal checklist.
var loginItems = []struct {
	key      string
	question string
}{
	{services.LoginItemUsername, "Do you have your scholarship portal username?"},
	{services.LoginItemPassword, "Do you know your portal password?"},
	{services.LoginItemMobile, "Is your registered mobile number active for OTP?"},
}

func runWizard(cmd *cobra.Command, _ []string) error {
	if wizardService == nil {
		return errors.New("wizard service not configured")
	}
	if requirementService == nil {
		return errors.New("requirement service not configured")
	}
	if err := requireTerminal(cmd.InOrStdin()); err != nil {
		return err
	}

	ctx := cmd.Context()
	var state *domain.WizardState
	var err error
	if wizardRestart {
		state, err = wizardService.Restart(ctx)
	} else {
		state, err = wizardService.Current(ctx)
	}
	if err != nil {
		return fmt.Errorf("loading wizard: %w", err)
	}

	cmd.Println("Scholarship Document Wizard")
	cmd.Println("===========================")

	reader := bufio.NewReader(cmd.InOrStdin())
	for state.Step != domain.StepChecklist {
		cmd.Printf("\n%s\n", state.Step.Description())
		var stop bool
		state, stop, err = runWizardStep(cmd, reader, state)
		if err != nil {
			return err
		}
		if stop {
			return nil
		}
	}

	result, err := requirementService.Evaluate(state.Selection)
	if err != nil {
		return fmt.Errorf("evaluating requirements: %w", err)
	}

	cmd.Println()
	cmd.Println("Your Document Checklist")
	cmd.Println("=======================")
	printChecklist(cmd, state.Selection, result)
	cmd.Println()
	cmd.Println("Use 'scholardocs tool' to merge, compress or convert scans to PDF.")
	return nil
}

// runWizardStep asks the question for the current step and advances.
// stop is true when the wizard should end early without an error.
func runWizardStep(
	cmd *cobra.Command, reader *bufio.Reader, state *domain.WizardState,
) (next *domain.WizardState, stop bool, err error) {
	ctx := cmd.Context()
	allowBack := state.Step != domain.StepStream
	sel := state.Selection

	var back bool
	switch state.Step {
	case domain.StepStream:
		streams := domain.AllStreams()
		var idx int
		idx, back, err = askChoice(cmd, reader, describeAll(streams), allowBack)
		if err == nil && !back {
			_, err = wizardService.SelectStream(ctx, streams[idx])
		}

	case domain.StepCourse:
		courses := sel.Stream.Courses()
		var idx int
		idx, back, err = askChoice(cmd, reader, describeAll(courses), allowBack)
		if err == nil && !back {
			_, err = wizardService.SelectCourse(ctx, courses[idx])
		}

	case domain.StepCategory:
		categories := domain.AllCategories()
		var idx int
		idx, back, err = askChoice(cmd, reader, describeAll(categories), allowBack)
		if err == nil && !back {
			_, err = wizardService.SelectCategory(ctx, categories[idx])
		}

	case domain.StepYear:
		back, err = askYear(cmd, reader, sel)

	case domain.StepLogin:
		var ready bool
		ready, err = askLogin(cmd, reader, sel.Login)
		if err == nil && !ready {
			cmd.Println()
			cmd.Println("You need all three before you can renew on the portal.")
			cmd.Println("Contact your college scholarship desk, then run 'scholardocs wizard' again.")
			return state, true, nil
		}
	}
	if err != nil {
		return nil, false, err
	}

	if back {
		next, err = wizardService.Back(ctx)
	} else {
		next, err = wizardService.Next(ctx)
	}
	if err != nil {
		return nil, false, err
	}
	return next, false, nil
}

func askYear(cmd *cobra.Command, reader *bufio.Reader, sel domain.SelectionState) (bool, error) {
	ctx := cmd.Context()

	years := make([]string, sel.YearCap())
	for i := range years {
		years[i] = fmt.Sprintf("Year %d", i+1)
	}
	idx, back, err := askChoice(cmd, reader, years, true)
	if err != nil || back {
		return back, err
	}
	state, err := wizardService.SelectYear(ctx, idx+1)
	if err != nil {
		return false, err
	}
	sel = state.Selection

	if sel.IsFresh() {
		gap, err := askYesNo(cmd, reader, "Did you have a gap year after your last qualification?", false)
		if err != nil {
			return false, err
		}
		if _, err := wizardService.SetGap(ctx, gap); err != nil {
			return false, err
		}
	}
	if sel.HostelEligible() {
		hosteller, err := askYesNo(cmd, reader, "Do you live in a hostel?", sel.Hosteller)
		if err != nil {
			return false, err
		}
		if _, err := wizardService.SetHosteller(ctx, hosteller); err != nil {
			return false, err
		}
	}
	if sel.DirectSecondYearApplicable() {
		direct, err := askYesNo(cmd, reader, "Were you admitted directly to the second year?", false)
		if err != nil {
			return false, err
		}
		if _, err := wizardService.SetDirectSecondYear(ctx, direct); err != nil {
			return false, err
		}
	}
	return false, nil
}

func askLogin(cmd *cobra.Command, reader *bufio.Reader, login domain.LoginReadiness) (bool, error) {
	current := map[string]bool{
		services.LoginItemUsername: login.Username,
		services.LoginItemPassword: login.Password,
		services.LoginItemMobile:   login.Mobile,
	}

	ready := true
	for _, item := range loginItems {
		answer, err := askYesNo(cmd, reader, item.question, current[item.key])
		if err != nil {
			return false, err
		}
		if answer != current[item.key] {
			if _, err := wizardService.ToggleLogin(cmd.Context(), item.key); err != nil {
				return false, err
			}
		}
		ready = ready && answer
	}
	return ready, nil
}

type described interface {
	Description() string
}

func describeAll[T described](items []T) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = item.Description()
	}
	return out
}
