// Package history provides the tool run history view for the TUI.
package history

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/scholardocs/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/scholardocs/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/scholardocs/internal/core/domain"
	"github.com/custodia-labs/scholardocs/internal/core/ports/driving"
)

// Limit is how many records the view asks for.
const Limit = 50

// View lists recent document tool runs.
type View struct {
	styles  *styles.Styles
	history driving.JobHistoryService
	ctx     context.Context
	now     func() time.Time

	records []domain.JobRecord
	loaded  bool
	err     error
	table   table.Model

	width  int
	height int
	ready  bool
}

// NewView creates a new history view.
func NewView(s *styles.Styles, history driving.JobHistoryService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}

	t := table.New(
		table.WithColumns(columns()),
		table.WithFocused(true),
		table.WithHeight(10),
	)
	ts := table.DefaultStyles()
	ts.Header = ts.Header.Foreground(s.Theme().Primary).Bold(true)
	ts.Selected = s.Selected
	t.SetStyles(ts)

	return &View{
		styles:  s,
		history: history,
		ctx:     context.Background(),
		now:     time.Now,
		table:   t,
		width:   80,
		height:  24,
	}
}

func columns() []table.Column {
	return []table.Column{
		{Title: "WHEN", Width: 16},
		{Title: "OPERATION", Width: 14},
		{Title: "FILES", Width: 5},
		{Title: "IN", Width: 9},
		{Title: "OUT", Width: 9},
		{Title: "RESULT", Width: 28},
	}
}

// WithContext sets the context passed to the history service.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init loads the most recent runs.
func (v *View) Init() tea.Cmd {
	ctx := v.ctx
	history := v.history
	return func() tea.Msg {
		if history == nil {
			return messages.HistoryLoaded{Err: fmt.Errorf("history not available")}
		}
		records, err := history.ListRecent(ctx, Limit)
		return messages.HistoryLoaded{Records: records, Err: err}
	}
}

// Update handles messages for the history view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case messages.HistoryLoaded:
		v.loaded = true
		v.err = msg.Err
		v.records = msg.Records
		v.table.SetRows(v.rows())
		v.table.GotoTop()
		return v, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc", "q":
			return v, func() tea.Msg {
				return messages.ViewChanged{View: messages.ViewMenu}
			}
		case "r":
			return v, v.Init()
		}
		var cmd tea.Cmd
		v.table, cmd = v.table.Update(msg)
		return v, cmd
	}
	return v, nil
}

func (v *View) rows() []table.Row {
	rows := make([]table.Row, 0, len(v.records))
	for _, r := range v.records {
		rows = append(rows, table.Row{
			v.when(r.CreatedAt),
			r.Operation.Description(),
			fmt.Sprintf("%d", r.InputCount),
			sizeLabel(r.InputBytes),
			sizeLabel(r.OutputBytes),
			result(r),
		})
	}
	return rows
}

func (v *View) when(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	t = t.Local()
	now := v.now().Local()
	if t.Year() == now.Year() && t.YearDay() == now.YearDay() {
		return "today " + t.Format("15:04")
	}
	return t.Format("2006-01-02 15:04")
}

func result(r domain.JobRecord) string {
	if r.Succeeded() {
		if r.Stage >= 0 {
			return fmt.Sprintf("ok (level %d)", r.Stage+1)
		}
		return "ok"
	}
	return strings.ReplaceAll(r.Outcome, "_", " ")
}

func sizeLabel(n int64) string {
	switch {
	case n <= 0:
		return "-"
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(n)/(1<<20))
	default:
		return fmt.Sprintf("%d KB", (n+1023)>>10)
	}
}

// View renders the history view.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	var b strings.Builder
	b.WriteString(v.styles.Title.Render("History"))
	b.WriteString("\n\n")

	switch {
	case v.err != nil:
		b.WriteString(v.styles.Error.Render(fmt.Sprintf("Error: %s", v.err.Error())))
		b.WriteString("\n")
	case !v.loaded:
		b.WriteString(v.styles.Muted.Render("Loading..."))
		b.WriteString("\n")
	case len(v.records) == 0:
		b.WriteString(v.styles.Muted.Render("No tool runs yet. Open Document Tools to make your first PDF."))
		b.WriteString("\n")
	default:
		b.WriteString(v.table.View())
		b.WriteString("\n\n")
		b.WriteString(v.styles.Muted.Render(v.summary()))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(v.styles.Help.Render("[j/k] Scroll  [r] Refresh  [Esc] Back"))
	return b.String()
}

func (v *View) summary() string {
	ok := 0
	for _, r := range v.records {
		if r.Succeeded() {
			ok++
		}
	}
	return fmt.Sprintf("%d runs, %d succeeded", len(v.records), ok)
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
	rows := height - 10
	if rows < 3 {
		rows = 3
	}
	v.table.SetHeight(rows)
	v.table.SetWidth(width - 2)
}

// Records returns the loaded records.
func (v *View) Records() []domain.JobRecord {
	return v.records
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}
