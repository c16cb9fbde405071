package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/scholardocs/internal/adapters/driving/request"
	"github.com/custodia-labs/scholardocs/internal/core/domain"
)

// ChecklistOutput is the output schema for the evaluate_requirements tool.
type ChecklistOutput struct {
	Summary      []string          `json:"summary"`
	PortalRules  []string          `json:"portal_rules"`
	Academic     []DocumentOutput  `json:"academic"`
	Government   []DocumentOutput  `json:"government"`
	Hostel       []DocumentOutput  `json:"hostel,omitempty"`
	AnyOneOf     []DocumentOutput  `json:"any_one_of,omitempty"`
	Declarations []DeclarationForm `json:"declarations,omitempty"`
}

// DocumentOutput is one required document.
type DocumentOutput struct {
	Name     string `json:"name"`
	Badge    string `json:"badge,omitempty"`
	FileName string `json:"file_name,omitempty"`
}

// DeclarationForm is a form the student downloads, signs and uploads.
type DeclarationForm struct {
	Title       string `json:"title"`
	Instruction string `json:"instruction,omitempty"`
	FileName    string `json:"file_name"`
	DownloadURL string `json:"download_url,omitempty"`
}

// ToolOutput is the output schema for the run_document_tool tool.
type ToolOutput struct {
	Path           string   `json:"path"`
	Bytes          int      `json:"bytes"`
	Pages          int      `json:"pages"`
	Stage          int      `json:"compression_stage"`
	SuggestedNames []string `json:"suggested_names,omitempty"`
}

// registerTools registers the tool handlers. run_document_tool is only
// offered when a tool service is wired.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name: "evaluate_requirements",
		Description: "List the documents a student must upload for a scholarship application, " +
			"given their stream, course, category and year of study",
	}, s.handleEvaluate)

	if s.ports.Tools == nil {
		return
	}
	mcp.AddTool(s.server, &mcp.Tool{
		Name: "run_document_tool",
		Description: "Merge PDFs, compress a PDF, or turn images into a PDF that fits the " +
			"portal's 230 KB upload limit. Reads local files and writes the result to disk",
	}, s.handleRunTool)
}

func (s *Server) handleEvaluate(
	_ context.Context,
	_ *mcp.CallToolRequest,
	input request.RequirementsRequest,
) (*mcp.CallToolResult, ChecklistOutput, error) {
	if err := input.Validate(); err != nil {
		return nil, ChecklistOutput{}, err
	}

	sel := input.Selection()
	result, err := s.ports.Requirements.Evaluate(sel)
	if err != nil {
		return nil, ChecklistOutput{}, err
	}

	output := ChecklistOutput{
		Summary:     sel.Pills(),
		PortalRules: domain.PortalRules(),
		Academic:    documents(result.Academic),
		Government:  documents(result.Government),
		Hostel:      documents(result.Hostel),
		AnyOneOf:    documents(result.ChoiceGroup),
	}
	for _, f := range result.Declarations {
		output.Declarations = append(output.Declarations, DeclarationForm{
			Title:       f.Title,
			Instruction: f.Instruction,
			FileName:    f.SuggestedFileName,
			DownloadURL: f.DownloadURL,
		})
	}

	return nil, output, nil
}

func documents(docs []domain.DocumentRequirement) []DocumentOutput {
	if len(docs) == 0 {
		return nil
	}
	out := make([]DocumentOutput, len(docs))
	for i, d := range docs {
		out[i] = DocumentOutput{Name: d.Name, FileName: d.FileNameHint}
		if meta, ok := d.Badge.Meta(); ok {
			out[i].Badge = meta.Label
		}
	}
	return out
}

func (s *Server) handleRunTool(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input request.ToolRequest,
) (*mcp.CallToolResult, ToolOutput, error) {
	tools := s.ports.Tools
	if tools == nil {
		return nil, ToolOutput{}, ErrToolsUnavailable
	}

	job, err := input.Job(tools.Limits().MaxInputBytes)
	if err != nil {
		return nil, ToolOutput{}, err
	}
	out, err := tools.Run(ctx, job, nil)
	if err != nil {
		return nil, ToolOutput{}, describeToolError(err)
	}
	handle, err := tools.Hold(out)
	if err != nil {
		return nil, ToolOutput{}, err
	}
	path, err := tools.Download(handle, input.OutputDir, input.Name)
	if err != nil {
		_ = tools.Discard(handle)
		return nil, ToolOutput{}, err
	}

	output := ToolOutput{
		Path:  path,
		Bytes: len(out.Data),
		Pages: out.Pages,
		Stage: out.Stage,
	}
	if s.ports.Wizard != nil {
		if state, err := s.ports.Wizard.Current(ctx); err == nil {
			output.SuggestedNames = tools.SuggestedNames(job.Operation, state.Selection)
		}
	}
	return nil, output, nil
}

// describeToolError appends the remedy so the assistant can relay it.
func describeToolError(err error) error {
	kind, ok := domain.ToolErrorKindOf(err)
	if !ok {
		return err
	}
	return fmt.Errorf("%w (%s)", err, kind.Suggestion())
}
