// Package tool provides the document tools view for the TUI: merge PDFs,
// compress a PDF and turn images into a PDF.
package tool

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/scholardocs/internal/adapters/driving/request"
	"github.com/custodia-labs/scholardocs/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/scholardocs/internal/adapters/driving/tui/components/list"
	"github.com/custodia-labs/scholardocs/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/scholardocs/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/scholardocs/internal/core/domain"
	"github.com/custodia-labs/scholardocs/internal/core/ports/driving"
)

// Phase is the step of a tool run shown by the view.
type Phase int

const (
	PhasePick Phase = iota
	PhaseFiles
	PhaseRunning
	PhaseDone
	PhaseSaved
)

// View runs one document tool job at a time.
type View struct {
	styles *styles.Styles
	tools  driving.DocumentToolService
	wizard driving.WizardService
	ctx    context.Context

	phase     Phase
	operation domain.ToolOperation
	ops       *list.OptionList
	path      *input.PathInput
	files     []string

	bar     progress.Model
	percent int
	events  chan tea.Msg

	output *domain.ToolOutput
	handle string
	names  *list.OptionList
	saved  string
	err    error

	width  int
	height int
	ready  bool
}

// NewView creates a new tool view. wizard may be nil; it is only used for
// file name suggestions.
func NewView(s *styles.Styles, tools driving.DocumentToolService, wizard driving.WizardService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}

	ops := list.NewOptionList(s)
	opts := make([]list.Option, 0, len(domain.AllToolOperations()))
	for _, op := range domain.AllToolOperations() {
		opts = append(opts, list.Option{Label: op.Description()})
	}
	ops.SetOptions(opts)

	return &View{
		styles: s,
		tools:  tools,
		wizard: wizard,
		ctx:    context.Background(),
		ops:    ops,
		path:   input.NewPathInput(s, "File"),
		bar:    progress.New(progress.WithDefaultGradient()),
		names:  list.NewOptionList(s),
		width:  80,
		height: 24,
	}
}

// WithContext sets the context used for tool runs.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return nil
}

// Reset returns to the operation picker, discarding any held output.
func (v *View) Reset() {
	v.discard()
	v.phase = PhasePick
	v.files = nil
	v.percent = 0
	v.output = nil
	v.saved = ""
	v.err = nil
	v.path.Reset()
}

func (v *View) discard() {
	if v.handle != "" && v.tools != nil {
		_ = v.tools.Discard(v.handle)
	}
	v.handle = ""
}

// Update handles messages for the tool view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case messages.ToolProgress:
		if msg.Percent > v.percent {
			v.percent = msg.Percent
		}
		return v, waitForEvent(v.events)

	case messages.ToolFinished:
		v.events = nil
		if msg.Err != nil {
			v.err = msg.Err
			v.phase = PhaseFiles
			if v.operation == domain.OpCompress {
				v.files = nil
			}
			return v, nil
		}
		v.percent = 100
		v.output = msg.Output
		v.handle = msg.Handle
		opts := make([]list.Option, 0, len(msg.Names))
		for _, n := range msg.Names {
			opts = append(opts, list.Option{Label: n})
		}
		v.names.SetOptions(opts)
		v.names.Select(0)
		v.phase = PhaseDone
		return v, nil

	case messages.ToolSaved:
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		v.handle = ""
		v.saved = msg.Path
		v.err = nil
		v.phase = PhaseSaved
		return v, nil

	case tea.KeyMsg:
		return v.handleKey(msg)
	}
	return v, nil
}

func (v *View) handleKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch v.phase {
	case PhasePick:
		switch msg.String() {
		case "esc", "q":
			return v, changeView(messages.ViewMenu)
		case "enter":
			ops := domain.AllToolOperations()
			v.operation = ops[v.ops.Selected()]
			v.files = nil
			v.err = nil
			v.path.Reset()
			v.phase = PhaseFiles
			return v, v.path.Focus()
		}
		v.ops, _ = v.ops.Update(msg)
		return v, nil

	case PhaseFiles:
		switch msg.String() {
		case "esc":
			v.phase = PhasePick
			v.err = nil
			return v, nil
		case "enter":
			return v, v.addOrRun()
		case "ctrl+u":
			if n := len(v.files); n > 0 {
				v.files = v.files[:n-1]
			}
			return v, nil
		}
		var cmd tea.Cmd
		v.path, cmd = v.path.Update(msg)
		return v, cmd

	case PhaseRunning:
		// Jobs run to completion; keys are ignored until then.
		return v, nil

	case PhaseDone:
		switch msg.String() {
		case "esc":
			v.Reset()
			return v, nil
		case "enter":
			opt, ok := v.names.SelectedOption()
			if !ok {
				return v, nil
			}
			return v, v.save(opt.Label)
		}
		v.names, _ = v.names.Update(msg)
		return v, nil

	case PhaseSaved:
		switch msg.String() {
		case "esc", "q":
			v.Reset()
			return v, changeView(messages.ViewMenu)
		case "enter":
			v.Reset()
			return v, nil
		}
	}
	return v, nil
}

// addOrRun adds the typed path, or starts the job when the input is empty.
// Compress runs as soon as its single file is added.
func (v *View) addOrRun() tea.Cmd {
	p := v.path.Path()
	if p == "" {
		if len(v.files) == 0 {
			v.err = fmt.Errorf("add at least one file")
			return nil
		}
		return v.start()
	}

	info, err := os.Stat(p)
	if err != nil {
		v.err = fmt.Errorf("cannot open %s: %w", p, err)
		return nil
	}
	if info.IsDir() {
		v.err = fmt.Errorf("%s is a folder, not a file", p)
		return nil
	}
	v.err = nil
	v.files = append(v.files, p)
	v.path.Reset()

	if v.operation == domain.OpCompress {
		return v.start()
	}
	return nil
}

// start runs the job in the background and streams its progress.
func (v *View) start() tea.Cmd {
	if v.tools == nil {
		v.err = fmt.Errorf("tool service not available")
		return nil
	}

	v.phase = PhaseRunning
	v.percent = 0
	v.err = nil
	events := make(chan tea.Msg, 16)
	v.events = events

	ctx := v.ctx
	tools := v.tools
	wizard := v.wizard
	req := request.ToolRequest{Operation: string(v.operation), Paths: append([]string(nil), v.files...)}

	go func() {
		defer close(events)
		events <- runJob(ctx, tools, wizard, req, func(p int) {
			select {
			case events <- messages.ToolProgress{Percent: p}:
			default:
			}
		})
	}()

	return waitForEvent(events)
}

func runJob(
	ctx context.Context,
	tools driving.DocumentToolService,
	wizard driving.WizardService,
	req request.ToolRequest,
	onProgress domain.ProgressFunc,
) messages.ToolFinished {
	job, err := req.Job(tools.Limits().MaxInputBytes)
	if err != nil {
		return messages.ToolFinished{Err: err}
	}
	out, err := tools.Run(ctx, job, onProgress)
	if err != nil {
		return messages.ToolFinished{Err: err}
	}
	handle, err := tools.Hold(out)
	if err != nil {
		return messages.ToolFinished{Err: err}
	}

	names := []string{out.SuggestedName}
	var sel domain.SelectionState
	if wizard != nil {
		if state, err := wizard.Current(ctx); err == nil {
			sel = state.Selection
		}
	}
	for _, n := range tools.SuggestedNames(job.Operation, sel) {
		if n != out.SuggestedName {
			names = append(names, n)
		}
	}
	return messages.ToolFinished{Output: out, Handle: handle, Names: names}
}

func waitForEvent(events <-chan tea.Msg) tea.Cmd {
	if events == nil {
		return nil
	}
	return func() tea.Msg {
		msg, ok := <-events
		if !ok {
			return nil
		}
		return msg
	}
}

func (v *View) save(name string) tea.Cmd {
	tools := v.tools
	handle := v.handle
	return func() tea.Msg {
		path, err := tools.Download(handle, "", name)
		return messages.ToolSaved{Path: path, Err: err}
	}
}

// View renders the tool view.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	var b strings.Builder
	b.WriteString(v.styles.Title.Render("Document Tools"))
	b.WriteString("\n\n")

	switch v.phase {
	case PhasePick:
		b.WriteString(v.styles.Normal.Render("What do you want to do?"))
		b.WriteString("\n\n")
		b.WriteString(v.ops.View())
		b.WriteString("\n")
		b.WriteString(v.styles.Help.Render(v.limitsLine()))
		b.WriteString("\n\n")
		b.WriteString(v.styles.Help.Render("[j/k] Navigate  [Enter] Select  [Esc] Back"))

	case PhaseFiles:
		b.WriteString(v.styles.Subtitle.Render(v.operation.Description()))
		b.WriteString("\n\n")
		for i, f := range v.files {
			b.WriteString(fmt.Sprintf("  %d. %s\n", i+1, filepath.Base(f)))
		}
		if len(v.files) > 0 {
			b.WriteString("\n")
		}
		b.WriteString(v.path.View())
		b.WriteString("\n\n")
		b.WriteString(v.renderError())
		b.WriteString(v.styles.Help.Render(v.filesHelp()))

	case PhaseRunning:
		b.WriteString(v.styles.Subtitle.Render(v.operation.Description()))
		b.WriteString("\n\n")
		b.WriteString(v.bar.ViewAs(float64(v.percent) / 100))
		b.WriteString("\n\n")
		b.WriteString(v.styles.Muted.Render(fmt.Sprintf("Working on %d file(s)...", len(v.files))))

	case PhaseDone:
		b.WriteString(v.styles.Success.Render("Your PDF is ready."))
		b.WriteString("\n\n")
		if v.output != nil {
			b.WriteString(fmt.Sprintf("  Pages: %d\n", v.output.Pages))
			b.WriteString(fmt.Sprintf("  Size:  %s\n", humanSize(int64(len(v.output.Data)))))
			if v.output.Stage >= 0 {
				b.WriteString(fmt.Sprintf("  Compression level: %d\n", v.output.Stage+1))
			}
		}
		b.WriteString("\n")
		b.WriteString(v.styles.Normal.Render("Save as:"))
		b.WriteString("\n")
		b.WriteString(v.names.View())
		b.WriteString("\n")
		b.WriteString(v.renderError())
		b.WriteString(v.styles.Help.Render("[j/k] Choose name  [Enter] Save  [Esc] Discard"))

	case PhaseSaved:
		b.WriteString(v.styles.Success.Render("Saved"))
		b.WriteString("\n\n  ")
		b.WriteString(v.saved)
		b.WriteString("\n\n")
		b.WriteString(v.styles.Help.Render("[Enter] Another file  [Esc] Menu"))
	}

	return b.String()
}

func (v *View) renderError() string {
	if v.err == nil {
		return ""
	}
	msg := v.styles.Error.Render("Error: " + v.err.Error())
	var te *domain.ToolError
	if errors.As(v.err, &te) && te.Suggestion != "" {
		msg += "\n" + v.styles.Warning.Render(te.Suggestion)
	}
	return msg + "\n\n"
}

func (v *View) filesHelp() string {
	if v.operation == domain.OpCompress {
		return "[Enter] Compress  [Esc] Back"
	}
	return "[Enter] Add file (empty to start)  [Ctrl+U] Remove last  [Esc] Back"
}

func (v *View) limitsLine() string {
	if v.tools == nil {
		return ""
	}
	limits := v.tools.Limits()
	return fmt.Sprintf("Inputs up to %s in total. Output kept under %s.",
		humanSize(limits.MaxInputBytes), humanSize(limits.TargetBytes))
}

func humanSize(n int64) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.0f KB", float64(n)/(1<<10))
	default:
		return fmt.Sprintf("%d B", n)
	}
}

func changeView(view messages.ViewType) tea.Cmd {
	return func() tea.Msg {
		return messages.ViewChanged{View: view}
	}
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
	v.path.SetWidth(width - 4)
	barWidth := width - 8
	if barWidth > 60 {
		barWidth = 60
	}
	if barWidth < 10 {
		barWidth = 10
	}
	v.bar.Width = barWidth
	rows := height - 16
	if rows < 3 {
		rows = 3
	}
	v.names.SetDimensions(width, rows)
}

// Phase returns the current phase.
func (v *View) Phase() Phase {
	return v.phase
}

// Files returns the files queued for the job.
func (v *View) Files() []string {
	return v.files
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}
