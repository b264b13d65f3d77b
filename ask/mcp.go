package ask

import (
	"context"
	"encoding/json"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/janmitra/yojana/kit"
	"github.com/janmitra/yojana/linkcheck"
)

// RegisterMCP registers the question-answering tools on an MCP server.
func RegisterMCP(srv *mcp.Server, svc *Service, verifier *linkcheck.Verifier) {
	registerAskTool(srv, svc)
	registerVerifyLinkTool(srv, verifier)
	registerResolveSchemeTool(srv, svc)
}

func inputSchema(properties map[string]any, required []string) map[string]any {
	s := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		s["required"] = required
	}
	return s
}

// --- ask_question ---

type askReq struct {
	Question string `json:"question"`
}

func registerAskTool(srv *mcp.Server, svc *Service) {
	tool := &mcp.Tool{
		Name:        "ask_question",
		Description: "Answer a question about Indian government welfare schemes, with scheme details and supporting web sources.",
		InputSchema: inputSchema(map[string]any{
			"question": map[string]any{"type": "string", "description": "The question to answer"},
		}, []string{"question"}),
	}

	endpoint := func(ctx context.Context, req any) (any, error) {
		r := req.(*askReq)
		return svc.Answer(ctx, r.Question)
	}

	decode := func(req *mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
		var r askReq
		if err := json.Unmarshal(req.Params.Arguments, &r); err != nil {
			return nil, err
		}
		return &kit.MCPDecodeResult{Request: &r}, nil
	}

	kit.RegisterMCPTool(srv, tool, endpoint, decode)
}

// --- verify_link ---

type verifyLinkReq struct {
	Link string `json:"link"`
}

func registerVerifyLinkTool(srv *mcp.Server, verifier *linkcheck.Verifier) {
	tool := &mcp.Tool{
		Name:        "verify_link",
		Description: "Check whether a URL belongs to a recognized Indian government domain and is reachable.",
		InputSchema: inputSchema(map[string]any{
			"link": map[string]any{"type": "string", "description": "URL to verify"},
		}, []string{"link"}),
	}

	endpoint := func(ctx context.Context, req any) (any, error) {
		r := req.(*verifyLinkReq)
		return verifier.Verify(ctx, r.Link), nil
	}

	decode := func(req *mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
		var r verifyLinkReq
		if err := json.Unmarshal(req.Params.Arguments, &r); err != nil {
			return nil, err
		}
		return &kit.MCPDecodeResult{Request: &r}, nil
	}

	kit.RegisterMCPTool(srv, tool, endpoint, decode)
}

// --- resolve_scheme ---

type resolveSchemeReq struct {
	Name string `json:"name"`
}

func registerResolveSchemeTool(srv *mcp.Server, svc *Service) {
	tool := &mcp.Tool{
		Name:        "resolve_scheme",
		Description: "Look up details for a named government scheme across the local store, the scheme registry and the services portal.",
		InputSchema: inputSchema(map[string]any{
			"name": map[string]any{"type": "string", "description": "Scheme name to look up"},
		}, []string{"name"}),
	}

	endpoint := func(ctx context.Context, req any) (any, error) {
		r := req.(*resolveSchemeReq)
		details, err := svc.resolver.Resolve(ctx, r.Name)
		if err != nil {
			return nil, err
		}
		return map[string]any{"found": details != nil, "scheme": details}, nil
	}

	decode := func(req *mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
		var r resolveSchemeReq
		if err := json.Unmarshal(req.Params.Arguments, &r); err != nil {
			return nil, err
		}
		return &kit.MCPDecodeResult{Request: &r}, nil
	}

	kit.RegisterMCPTool(srv, tool, endpoint, decode)
}
