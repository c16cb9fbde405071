package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/scholardocs/internal/adapters/driving/request"
	"github.com/custodia-labs/scholardocs/internal/core/domain"
)

var requirementsCmd = &cobra.Command{
	Use:     "requirements",
	Aliases: []string{"checklist"},
	Short:   "Print the document checklist for a selection",
	Long: `Print the documents required for a scholarship application.

Describe the student with flags, or use --from-state to reuse the answers
saved by the wizard.

Examples:
  scholardocs requirements --stream engineering --category open --year 3 --hosteller
  scholardocs requirements --stream pharmacy --course bpharm --category sc --year 1
  scholardocs requirements --from-state --json`,
	RunE: runRequirements,
}

var (
	reqStream    string
	reqCourse    string
	reqCategory  string
	reqYear      int
	reqGap       bool
	reqHosteller bool
	reqDirect    bool
	reqFromState bool
	reqJSON      bool
)

func init() {
	flags := requirementsCmd.Flags()
	flags.StringVar(&reqStream, "stream", "", "engineering, pharmacy, nursing, management or asc")
	flags.StringVar(&reqCourse, "course", "", "course code, e.g. bpharm, mba, bsc")
	flags.StringVar(&reqCategory, "category", "", "open, obc, sc, st, sbc, vjnt, sebc or minority")
	flags.IntVar(&reqYear, "year", 0, "current year of study")
	flags.BoolVar(&reqGap, "gap", false, "first-year student with a gap year")
	flags.BoolVar(&reqHosteller, "hosteller", false, "student lives in a hostel")
	flags.BoolVar(&reqDirect, "direct-second-year", false, "B-Pharmacy year 2 direct admission")
	flags.BoolVar(&reqFromState, "from-state", false, "use the answers saved by the wizard")
	flags.BoolVar(&reqJSON, "json", false, "print JSON")
	requirementsCmd.MarkFlagsMutuallyExclusive("from-state", "stream")
	rootCmd.AddCommand(requirementsCmd)
}

func runRequirements(cmd *cobra.Command, _ []string) error {
	if requirementService == nil {
		return errors.New("requirement service not configured")
	}

	sel, err := requirementsSelection(cmd)
	if err != nil {
		return err
	}

	result, err := requirementService.Evaluate(sel)
	if err != nil {
		return fmt.Errorf("evaluating requirements: %w", err)
	}

	if reqJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(checklistJSON{
			Selection:   sel,
			Pills:       sel.Pills(),
			Result:      result,
			PortalRules: domain.PortalRules(),
		})
	}

	printChecklist(cmd, sel, result)
	return nil
}

func requirementsSelection(cmd *cobra.Command) (domain.SelectionState, error) {
	if reqFromState {
		if wizardService == nil {
			return domain.SelectionState{}, errors.New("wizard service not configured")
		}
		state, err := wizardService.Current(cmd.Context())
		if err != nil {
			return domain.SelectionState{}, fmt.Errorf("loading saved answers: %w", err)
		}
		if !state.Selection.Complete() {
			return domain.SelectionState{}, fmt.Errorf("%w: run 'scholardocs wizard' first",
				domain.ErrIncompleteSelection)
		}
		return state.Selection, nil
	}

	req := request.RequirementsRequest{
		Stream:    reqStream,
		Course:    reqCourse,
		Category:  reqCategory,
		Year:      reqYear,
		HadGap:    reqGap,
		Hosteller: reqHosteller,
	}
	if cmd.Flags().Changed("direct-second-year") {
		req.DirectSecondYear = domain.BoolPtr(reqDirect)
	}
	if err := req.Validate(); err != nil {
		return domain.SelectionState{}, err
	}
	return req.Selection(), nil
}
