package ai

import (
	"context"
)

// ToolCaller defines the contract for a tool-calling capable language model.
// Implementations are stateless handles and safe for concurrent use.
type ToolCaller interface {
	// CallTool sends the request and returns the tool invocations found in the
	// first choice, in model order. An empty slice means the model answered
	// without calling the tool.
	CallTool(ctx context.Context, req ToolRequest) ([]ToolInvocation, error)
}
