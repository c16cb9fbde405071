package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/scholardocs/internal/core/domain"
)

const (
	// uriScheme is the custom URI scheme for scholardocs resources.
	uriScheme = "scholardocs://"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "state",
		Name:        "state",
		Description: "The saved wizard session: current step, language and answers",
		MIMEType:    "application/json",
	}, s.handleStateResource)

	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "rules",
		Name:        "portal-rules",
		Description: "Upload rules enforced by the scholarship portal",
		MIMEType:    "text/plain",
	}, s.handleRulesResource)
}

// stateInfo is the JSON shape of the state resource.
type stateInfo struct {
	Step      int                       `json:"step"`
	StepName  string                    `json:"step_name"`
	Language  domain.Language           `json:"language"`
	Selection domain.SelectionState     `json:"selection"`
	Summary   []string                  `json:"summary,omitempty"`
	Complete  bool                      `json:"complete"`
	Checklist *domain.RequirementResult `json:"checklist,omitempty"`
}

// handleStateResource returns the saved wizard session, with its checklist
// once every answer is in.
func (s *Server) handleStateResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Wizard == nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	state, err := s.ports.Wizard.Current(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading wizard state: %w", err)
	}

	info := stateInfo{
		Step:      int(state.Step),
		StepName:  state.Step.Description(),
		Language:  state.Language,
		Selection: state.Selection,
		Complete:  state.Selection.Complete(),
	}
	if info.Complete {
		info.Summary = state.Selection.Pills()
		result, err := s.ports.Requirements.Evaluate(state.Selection)
		if err != nil {
			return nil, fmt.Errorf("evaluating checklist: %w", err)
		}
		info.Checklist = result
	}

	data, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling state: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// handleRulesResource returns the portal rules, one per line.
func (s *Server) handleRulesResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "text/plain",
			Text:     strings.Join(domain.PortalRules(), "\n"),
		}},
	}, nil
}
