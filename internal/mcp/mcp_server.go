// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/huangsam/commitscope/internal/contract"
	"github.com/huangsam/commitscope/internal/session"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// NewMCPServer initializes and configures the commitscope MCP server without
// starting it. Every tool drives the same session, so an agent sees the
// effect of one interaction in the next tool call.
func NewMCPServer(sess *session.Session, baseCfg *contract.Config) *server.MCPServer {
	s := server.NewMCPServer(
		"Commitscope Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		sess:    sess,
		baseCfg: baseCfg,
	}

	s.AddTool(mcp.NewTool("get_view",
		mcp.WithDescription("Return the current view: visible commits, stats, language breakdown, files and selection."),
		mcp.WithBoolean("include_rows", mcp.Description("Include one row per commit with visibility and selection flags.")),
	), h.handleGetView)

	s.AddTool(mcp.NewTool("get_steps",
		mcp.WithDescription("List the narrative steps, one per commit in chronological order."),
	), h.handleGetSteps)

	s.AddTool(mcp.NewTool("set_progress",
		mcp.WithDescription("Move the time slider. Commits at or before the matching time become visible."),
		mcp.WithNumber("progress", mcp.Description("Slider position from 0 to 100."), mcp.Required()),
	), h.handleSetProgress)

	s.AddTool(mcp.NewTool("enter_step",
		mcp.WithDescription("Scroll to a narrative step. Shows every commit up to that step's commit."),
		mcp.WithNumber("index", mcp.Description("Zero-based step index."), mcp.Required()),
	), h.handleEnterStep)

	s.AddTool(mcp.NewTool("brush",
		mcp.WithDescription("Select the commits inside a rectangle in plot coordinates. Omit the corners or pass clear to drop the selection."),
		mcp.WithNumber("x0", mcp.Description("First corner x.")),
		mcp.WithNumber("y0", mcp.Description("First corner y.")),
		mcp.WithNumber("x1", mcp.Description("Opposite corner x.")),
		mcp.WithNumber("y1", mcp.Description("Opposite corner y.")),
		mcp.WithBoolean("clear", mcp.Description("Clear the brush.")),
	), h.handleBrush)

	s.AddTool(mcp.NewTool("hover",
		mcp.WithDescription("Show the tooltip for a visible commit. An empty commit_id hides it."),
		mcp.WithString("commit_id", mcp.Description("Commit to hover.")),
		mcp.WithNumber("x", mcp.Description("Pointer x in viewport pixels.")),
		mcp.WithNumber("y", mcp.Description("Pointer y in viewport pixels.")),
	), h.handleHover)

	return s
}

// StartMCPServer starts the commitscope MCP server on stdio.
func StartMCPServer(_ context.Context, sess *session.Session, baseCfg *contract.Config) error {
	s := NewMCPServer(sess, baseCfg)
	return server.ServeStdio(s)
}
