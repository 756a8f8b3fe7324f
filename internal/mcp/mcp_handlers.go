package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/huangsam/commitscope/core"
	"github.com/huangsam/commitscope/internal/contract"
	"github.com/huangsam/commitscope/internal/session"
	"github.com/huangsam/commitscope/schema"
	"github.com/mark3labs/mcp-go/mcp"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	sess    *session.Session
	baseCfg *contract.Config
}

// viewResult is the payload of every tool that changes or reads the view.
type viewResult struct {
	schema.ViewSnapshot
	Rows []schema.CommitRow `json:"rows,omitempty"`
}

func (h *toolHandler) viewText(includeRows bool) *mcp.CallToolResult {
	out := viewResult{ViewSnapshot: h.sess.Snapshot()}
	if includeRows {
		out.Rows = h.sess.Rows()
	}
	return textResult(out)
}

func textResult(out viewResult) *mcp.CallToolResult {
	jsonData, _ := json.MarshalIndent(out, "", "  ")
	return mcp.NewToolResultText(string(jsonData))
}

func (h *toolHandler) apply(entry string, fn func(st *core.State) error, includeRows bool) *mcp.CallToolResult {
	res, err := h.sess.Apply(entry, fn)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("%s failed: %v", entry, err))
	}
	out := viewResult{ViewSnapshot: res.Snapshot}
	if includeRows {
		out.Rows = res.Rows
	}
	return textResult(out)
}

func (h *toolHandler) handleGetView(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return h.viewText(request.GetBool("include_rows", false)), nil
}

func (h *toolHandler) handleGetSteps(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	jsonData, _ := json.MarshalIndent(h.sess.Steps(), "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleSetProgress(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	p, err := request.RequireFloat("progress")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if p < schema.ProgressMin || p > schema.ProgressMax {
		return mcp.NewToolResultError(fmt.Sprintf("progress must be between 0 and 100, got %v", p)), nil
	}
	return h.apply("set_progress", func(st *core.State) error { return st.SetProgress(p) }, false), nil
}

func (h *toolHandler) handleEnterStep(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	i, err := request.RequireInt("index")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return h.apply("enter_step", func(st *core.State) error { return st.EnterStep(i) }, false), nil
}

func (h *toolHandler) handleBrush(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var rect *schema.Rect
	args := request.GetArguments()
	_, hasCorner := args["x0"]
	if hasCorner && !request.GetBool("clear", false) {
		r, err := requireRect(request)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		rect = &r
	}
	return h.apply("brush", func(st *core.State) error { return st.Brush(rect) }, true), nil
}

func requireRect(request mcp.CallToolRequest) (schema.Rect, error) {
	var vals [4]float64
	for i, key := range []string{"x0", "y0", "x1", "y1"} {
		v, err := request.RequireFloat(key)
		if err != nil {
			return schema.Rect{}, err
		}
		vals[i] = v
	}
	return schema.Rect{X0: vals[0], Y0: vals[1], X1: vals[2], Y1: vals[3]}, nil
}

func (h *toolHandler) handleHover(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := request.GetString("commit_id", "")
	pointer := schema.Point{X: request.GetFloat("x", 0), Y: request.GetFloat("y", 0)}
	viewport := schema.Size{Width: h.baseCfg.Layout.Width, Height: h.baseCfg.Layout.Height}
	return h.apply("hover", func(st *core.State) error { return st.Hover(id, pointer, viewport) }, false), nil
}
