package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// uriScheme is the custom URI scheme for Pickles resources.
const uriScheme = "pickles://"

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "sources",
		Name:        "sources",
		Description: "Data sources the journal can be fetched from",
		MIMEType:    "application/json",
	}, s.handleSourcesResource)

	if s.ports.Runs != nil {
		s.server.AddResourceTemplate(&mcp.ResourceTemplate{
			URITemplate: uriScheme + "runs/{runId}",
			Name:        "run",
			Description: "An analysis run with its report and deliveries",
			MIMEType:    "application/json",
		}, s.handleRunResource)
	}
}

// handleSourcesResource lists the registered source names.
func (s *Server) handleSourcesResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	type sourceInfo struct {
		Name    string `json:"name"`
		Default bool   `json:"default"`
	}

	names := s.ports.Reconciler.Sources()
	infos := make([]sourceInfo, len(names))
	for i, name := range names {
		infos[i] = sourceInfo{Name: name, Default: name == s.ports.Defaults.Source}
	}
	return jsonResource(req.Params.URI, infos)
}

// handleRunResource returns one run with its deliveries.
func (s *Server) handleRunResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	runID := extractRunID(req.Params.URI)
	if runID == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	outcome, err := s.ports.Runs.Get(ctx, runID)
	if err != nil {
		return nil, fmt.Errorf("getting run: %w", err)
	}

	type deliveryInfo struct {
		Method    string `json:"method"`
		Status    string `json:"status"`
		Recipient string `json:"recipient,omitempty"`
		Location  string `json:"location,omitempty"`
		Error     string `json:"error,omitempty"`
	}
	type runInfo struct {
		RunOutput
		Insights    string         `json:"insights"`
		Statistics  string         `json:"statistics"`
		CompletedAt string         `json:"completed_at,omitempty"`
		Deliveries  []deliveryInfo `json:"deliveries"`
	}

	info := runInfo{
		RunOutput:  runOutput(&outcome.Run),
		Insights:   outcome.Result.Insights,
		Statistics: outcome.Result.Statistics,
		Deliveries: make([]deliveryInfo, len(outcome.Deliveries)),
	}
	if outcome.Run.CompletedAt != nil {
		info.CompletedAt = outcome.Run.CompletedAt.Format(time.RFC3339)
	}
	for i, d := range outcome.Deliveries {
		info.Deliveries[i] = deliveryInfo{
			Method:    d.Method,
			Status:    string(d.Status),
			Recipient: d.Recipient,
			Location:  d.Location,
			Error:     d.ErrorMessage,
		}
	}
	return jsonResource(req.Params.URI, info)
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling resource: %w", err)
	}
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// extractRunID extracts the run ID from a URI like pickles://runs/{runId}.
func extractRunID(uri string) string {
	const prefix = uriScheme + "runs/"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}
	return strings.TrimPrefix(uri, prefix)
}
