package util

import (
	"context"
	"fmt"
	"runtime/debug"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/sirupsen/logrus"
)

var logger = logrus.New()

// LegacyHandlerFunc is the map-arguments handler shape most tool files use.
type LegacyHandlerFunc func(arguments map[string]interface{}) (*mcp.CallToolResult, error)

// AdaptLegacyHandler lifts a legacy handler into the server's handler type.
func AdaptLegacyHandler(handler LegacyHandlerFunc) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handler(request.Params.Arguments)
	}
}

// ErrorGuard converts handler errors and panics into MCP error results so a
// misbehaving tool never takes the server down.
func ErrorGuard(handler server.ToolHandlerFunc) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (result *mcp.CallToolResult, err error) {
		defer func() {
			if r := recover(); r != nil {
				logger.WithFields(logrus.Fields{
					"tool":  request.Params.Name,
					"panic": r,
				}).Error(string(debug.Stack()))
				result = mcp.NewToolResultError(fmt.Sprintf("tool panicked: %v", r))
				err = nil
			}
		}()
		result, err = handler(ctx, request)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return result, nil
	}
}
