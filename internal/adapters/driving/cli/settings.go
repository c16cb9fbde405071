package cli

import (
	"bufio"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/scholardocs/internal/core/domain"
	"github.com/custodia-labs/scholardocs/internal/core/services"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and configure the language, document tool limits, storage and
declaration form links.

Use subcommands to change one setting or run the interactive wizard.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsWizardCmd = &cobra.Command{
	Use:   "wizard",
	Short: "Interactive setup wizard",
	Long:  `Run an interactive wizard to configure all settings step by step.`,
	RunE:  runSettingsWizard,
}

var settingsLanguageCmd = &cobra.Command{
	Use:       "language [en|hi|mr]",
	Short:     "Set the interface language",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"en", "hi", "mr"},
	RunE:      runSettingsLanguage,
}

var settingsLimitsCmd = &cobra.Command{
	Use:   "limits",
	Short: "Lower the document tool size limits",
	Long: `Set the maximum total input size and the output size target.

Limits can be lowered for a stricter portal but never raised above
7 MB of input and 230 KB of output.`,
	RunE: runSettingsLimits,
}

var settingsOutputDirCmd = &cobra.Command{
	Use:   "output-dir [dir]",
	Short: "Set where tool outputs are written (empty to reset)",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runSettingsOutputDir,
}

var settingsStorageCmd = &cobra.Command{
	Use:       "storage [sqlite|memory]",
	Short:     "Choose where wizard answers and tool history are kept",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"sqlite", "memory"},
	RunE:      runSettingsStorage,
}

var settingsDeclarationCmd = &cobra.Command{
	Use:   "declaration [form-id] [url]",
	Short: "Override a declaration form download link (omit url to reset)",
	Long: `Override where a declaration form is downloaded from.

Form IDs: ` + strings.Join(services.AllDeclarationIDs(), ", "),
	Args: cobra.RangeArgs(1, 2),
	RunE: runSettingsDeclaration,
}

var (
	limitMaxInputKB int64
	limitTargetKB   int64
)

func init() {
	settingsLimitsCmd.Flags().Int64Var(&limitMaxInputKB, "max-input-kb", 0, "maximum total input in KB")
	settingsLimitsCmd.Flags().Int64Var(&limitTargetKB, "target-kb", 0, "output size target in KB")

	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsWizardCmd)
	settingsCmd.AddCommand(settingsLanguageCmd)
	settingsCmd.AddCommand(settingsLimitsCmd)
	settingsCmd.AddCommand(settingsOutputDirCmd)
	settingsCmd.AddCommand(settingsStorageCmd)
	settingsCmd.AddCommand(settingsDeclarationCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	cmd.Println("[App]")
	cmd.Printf("  Language: %s\n", settings.Language.Description())
	cmd.Println()

	cmd.Println("[Tools]")
	cmd.Printf("  Max input:     %s\n", humanSize(settings.Tools.MaxInputBytes))
	cmd.Printf("  Output target: %s\n", humanSize(settings.Tools.TargetBytes))
	outDir := settings.Tools.OutputDir
	if outDir == "" {
		outDir = "(current directory)"
	}
	cmd.Printf("  Output dir:    %s\n", outDir)
	cmd.Printf("  Keep results:  %s\n", settings.Tools.ReleaseGrace)
	cmd.Println()

	cmd.Println("[Storage]")
	cmd.Printf("  Backend: %s\n", settings.Storage.Description())
	cmd.Println()

	if len(settings.DeclarationURLs) > 0 {
		cmd.Println("[Declarations]")
		ids := make([]string, 0, len(settings.DeclarationURLs))
		for id := range settings.DeclarationURLs {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		for _, id := range ids {
			cmd.Printf("  %s: %s\n", id, settings.DeclarationURLs[id])
		}
		cmd.Println()
	}

	if err := settingsService.Validate(); err != nil {
		cmd.Printf("Warning: %v\n", err)
		cmd.Println("Run 'scholardocs settings wizard' to fix configuration issues.")
	} else {
		cmd.Println("Configuration is valid.")
	}

	return nil
}

func runSettingsWizard(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}
	if err := requireTerminal(cmd.InOrStdin()); err != nil {
		return err
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("scholardocs Settings Wizard")
	cmd.Println("===========================")
	cmd.Println()

	reader := bufio.NewReader(cmd.InOrStdin())

	cmd.Println("Step 1: Language")
	cmd.Println("----------------")
	langs := domain.AllLanguages()
	idx, _, err := askChoice(cmd, reader, describeAll(langs), false)
	if err != nil {
		return err
	}
	if err := settingsService.SetLanguage(langs[idx]); err != nil {
		return fmt.Errorf("failed to set language: %w", err)
	}
	cmd.Printf("Language set to: %s\n\n", langs[idx].Description())

	cmd.Println("Step 2: Storage")
	cmd.Println("---------------")
	backends := domain.AllStorageBackends()
	idx, _, err = askChoice(cmd, reader, describeAll(backends), false)
	if err != nil {
		return err
	}
	if err := settingsService.SetStorageBackend(backends[idx]); err != nil {
		return fmt.Errorf("failed to set storage: %w", err)
	}
	cmd.Printf("Storage set to: %s\n\n", backends[idx].Description())

	cmd.Println("Step 3: Output Directory")
	cmd.Println("------------------------")
	cmd.Printf("Enter directory [%s]: ", settings.Tools.OutputDir)
	dir, err := readAnswer(reader)
	if err != nil {
		return err
	}
	if dir != "" {
		if err := settingsService.SetOutputDir(dir); err != nil {
			return fmt.Errorf("failed to set output directory: %w", err)
		}
	}
	cmd.Println()

	cmd.Println("Configuration Complete!")
	cmd.Println("=======================")
	if err := settingsService.Validate(); err != nil {
		cmd.Printf("Warning: %v\n", err)
	} else {
		cmd.Println("All settings are valid and saved.")
	}
	return nil
}

func runSettingsLanguage(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	lang := domain.Language(strings.ToLower(args[0]))
	if !lang.IsValid() {
		return fmt.Errorf("%w: unknown language %q (use en, hi or mr)", domain.ErrInvalidInput, args[0])
	}
	if err := settingsService.SetLanguage(lang); err != nil {
		return fmt.Errorf("failed to set language: %w", err)
	}
	if wizardService != nil {
		if _, err := wizardService.SetLanguage(cmd.Context(), lang); err != nil {
			return fmt.Errorf("failed to update saved answers: %w", err)
		}
	}
	cmd.Printf("Language set to: %s\n", lang.Description())
	return nil
}

func runSettingsLimits(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	maxInput := settings.Tools.MaxInputBytes
	target := settings.Tools.TargetBytes
	if cmd.Flags().Changed("max-input-kb") {
		maxInput = limitMaxInputKB << 10
	}
	if cmd.Flags().Changed("target-kb") {
		target = limitTargetKB << 10
	}

	if err := settingsService.SetToolLimits(maxInput, target); err != nil {
		return fmt.Errorf("failed to set limits: %w", err)
	}
	cmd.Printf("Limits set: input up to %s, output up to %s\n", humanSize(maxInput), humanSize(target))
	return nil
}

func runSettingsOutputDir(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	dir := ""
	if len(args) == 1 {
		dir = args[0]
	}
	if err := settingsService.SetOutputDir(dir); err != nil {
		return fmt.Errorf("failed to set output directory: %w", err)
	}
	if dir == "" {
		cmd.Println("Output directory reset to the current directory.")
	} else {
		cmd.Printf("Output directory set to: %s\n", dir)
	}
	return nil
}

func runSettingsStorage(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	backend := domain.StorageBackend(strings.ToLower(args[0]))
	if err := settingsService.SetStorageBackend(backend); err != nil {
		return fmt.Errorf("failed to set storage: %w", err)
	}
	cmd.Printf("Storage set to: %s\n", backend.Description())
	cmd.Println("The change takes effect the next time scholardocs starts.")
	return nil
}

func runSettingsDeclaration(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	url := ""
	if len(args) == 2 {
		url = args[1]
	}
	if err := settingsService.SetDeclarationURL(args[0], url); err != nil {
		return fmt.Errorf("failed to set declaration link: %w", err)
	}
	if url == "" {
		cmd.Printf("Declaration %s reset to the default link.\n", args[0])
	} else {
		cmd.Printf("Declaration %s now downloads from %s\n", args[0], url)
	}
	return nil
}
