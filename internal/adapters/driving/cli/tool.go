package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/scholardocs/internal/adapters/driving/request"
	"github.com/custodia-labs/scholardocs/internal/adapters/driving/watch"
	"github.com/custodia-labs/scholardocs/internal/core/domain"
)

var toolCmd = &cobra.Command{
	Use:   "tool",
	Short: "Prepare documents for the portal",
	Long: `Merge, compress or convert files into PDFs of at most 230 KB.

Inputs may total at most 7 MB. Results are written to --out-dir, the
configured output directory, or the current directory.`,
}

var toolMergeCmd = &cobra.Command{
	Use:   "merge [file.pdf...]",
	Short: "Merge PDFs into one file",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runToolOperation(cmd, domain.OpMerge, args)
	},
}

var toolCompressCmd = &cobra.Command{
	Use:   "compress [file.pdf]",
	Short: "Compress a PDF",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runToolOperation(cmd, domain.OpCompress, args)
	},
}

var toolImagesCmd = &cobra.Command{
	Use:   "images [image...]",
	Short: "Convert photos or scans into one PDF",
	Long: `Convert images into a PDF with one page per image, in the order given.

JPEG, PNG, GIF, BMP, TIFF, WebP and HEIC inputs are accepted. Pages are
re-encoded at decreasing quality until the PDF fits the size limit.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runToolOperation(cmd, domain.OpImagesToPDF, args)
	},
}

var toolNamesCmd = &cobra.Command{
	Use:   "names [merge|compress|images]",
	Short: "Suggest output file names for your saved answers",
	Args:  cobra.ExactArgs(1),
	RunE:  runToolNames,
}

var toolHistoryCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent tool runs",
	RunE:  runToolHistory,
}

var toolWatchCmd = &cobra.Command{
	Use:   "watch [dir]",
	Short: "Convert files as they are dropped into a folder",
	Long: `Watch a folder and convert every image or PDF dropped into it.

Images become single-page PDFs and PDFs over the size limit are
compressed. Results go to the "converted" folder inside the watched one
unless --out-dir is set. Press Ctrl+C to stop.`,
	Args: cobra.ExactArgs(1),
	RunE: runToolWatch,
}

var (
	toolOutDir       string
	toolName         string
	toolHistoryLimit int
)

func init() {
	for _, c := range []*cobra.Command{toolMergeCmd, toolCompressCmd, toolImagesCmd} {
		c.Flags().StringVarP(&toolOutDir, "out-dir", "o", "", "directory to write the PDF to")
		c.Flags().StringVarP(&toolName, "name", "n", "", "output file name, e.g. Aadhaar_Card.pdf")
		toolCmd.AddCommand(c)
	}
	toolWatchCmd.Flags().StringVarP(&toolOutDir, "out-dir", "o", "", "directory to write converted files to")
	toolHistoryCmd.Flags().IntVarP(&toolHistoryLimit, "limit", "l", 0, "number of runs to show (default 20)")

	toolCmd.AddCommand(toolNamesCmd)
	toolCmd.AddCommand(toolHistoryCmd)
	toolCmd.AddCommand(toolWatchCmd)
	rootCmd.AddCommand(toolCmd)
}

func runToolOperation(cmd *cobra.Command, op domain.ToolOperation, paths []string) error {
	if toolService == nil {
		return errors.New("tool service not configured")
	}

	req := request.ToolRequest{
		Operation: op.String(),
		Paths:     paths,
		Name:      toolName,
		OutputDir: toolOutDir,
	}
	job, err := req.Job(toolService.Limits().MaxInputBytes)
	if err != nil {
		return toolFailure(err)
	}

	stderr := cmd.ErrOrStderr()
	out, err := toolService.Run(cmd.Context(), job, func(percent int) {
		fmt.Fprintf(stderr, "\r%s... %3d%%", op.Description(), percent)
	})
	fmt.Fprintln(stderr)
	if err != nil {
		return toolFailure(err)
	}

	handle, err := toolService.Hold(out)
	if err != nil {
		return fmt.Errorf("holding output: %w", err)
	}
	path, err := toolService.Download(handle, req.OutputDir, req.Name)
	if err != nil {
		_ = toolService.Discard(handle)
		return fmt.Errorf("saving output: %w", err)
	}

	cmd.Printf("Saved %s\n", path)
	cmd.Printf("  Pages: %d\n", out.Pages)
	cmd.Printf("  Size:  %s\n", humanSize(int64(len(out.Data))))
	if op == domain.OpImagesToPDF {
		cmd.Printf("  Compression level: %d\n", out.Stage+1)
	}
	return nil
}

// toolFailure adds the suggestion for tool errors.
func toolFailure(err error) error {
	var te *domain.ToolError
	if errors.As(err, &te) && te.Suggestion != "" {
		return fmt.Errorf("%w\n%s", err, te.Suggestion)
	}
	return err
}

func runToolNames(cmd *cobra.Command, args []string) error {
	if toolService == nil {
		return errors.New("tool service not configured")
	}
	op, err := parseOperation(args[0])
	if err != nil {
		return err
	}

	var sel domain.SelectionState
	if wizardService != nil {
		state, err := wizardService.Current(cmd.Context())
		if err != nil {
			return fmt.Errorf("loading saved answers: %w", err)
		}
		sel = state.Selection
	}
	if !sel.Complete() {
		cmd.Println("No complete answers saved; showing common names. Run 'scholardocs wizard' for your list.")
	}

	for _, name := range toolService.SuggestedNames(op, sel) {
		cmd.Println(name)
	}
	return nil
}

func runToolHistory(cmd *cobra.Command, _ []string) error {
	if historyService == nil {
		return errors.New("history service not configured")
	}

	records, err := historyService.ListRecent(cmd.Context(), toolHistoryLimit)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		cmd.Println("No tool runs recorded.")
		return nil
	}

	cmd.Printf("%-16s  %-14s  %6s  %9s  %9s  %s\n", "WHEN", "OPERATION", "FILES", "IN", "OUT", "RESULT")
	for _, r := range records {
		result := "ok"
		if !r.Succeeded() {
			result = strings.ReplaceAll(r.Outcome, "_", " ")
		}
		out := "-"
		if r.OutputBytes > 0 {
			out = humanSize(r.OutputBytes)
		}
		cmd.Printf("%-16s  %-14s  %6d  %9s  %9s  %s\n",
			r.CreatedAt.Local().Format("2006-01-02 15:04"),
			r.Operation.Description(),
			r.InputCount,
			humanSize(r.InputBytes),
			out,
			result)
	}
	return nil
}

func runToolWatch(cmd *cobra.Command, args []string) error {
	if toolService == nil {
		return errors.New("tool service not configured")
	}

	w := watch.New(args[0], toolService, watch.WithOutputDir(toolOutDir))
	defer w.Close()

	results, err := w.Watch(cmd.Context())
	if err != nil {
		return err
	}
	cmd.Printf("Watching %s, writing to %s. Press Ctrl+C to stop.\n", args[0], w.OutputDir())

	for res := range results {
		switch {
		case res.Err != nil:
			fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", res.Input, toolFailure(res.Err))
		case res.Skipped != "":
			cmd.Printf("%s: skipped, %s\n", res.Input, res.Skipped)
		default:
			cmd.Printf("%s -> %s (%d pages, %s)\n", res.Input, res.Output, res.Pages, humanSize(res.Bytes))
		}
	}
	return nil
}

func parseOperation(s string) (domain.ToolOperation, error) {
	switch strings.ToLower(s) {
	case "merge":
		return domain.OpMerge, nil
	case "compress":
		return domain.OpCompress, nil
	case "images", "images_to_pdf", "images-to-pdf":
		return domain.OpImagesToPDF, nil
	}
	return "", fmt.Errorf("%w: unknown operation %q", domain.ErrInvalidInput, s)
}

func humanSize(n int64) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%d KB", n>>10)
	default:
		return fmt.Sprintf("%d B", n)
	}
}

