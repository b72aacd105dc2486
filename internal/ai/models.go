package ai

import "encoding/json"

// Role identifies the author of a conversation turn.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is a single conversation turn forwarded to the model.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Property describes one named parameter of a declared tool.
type Property struct {
	Name        string
	Type        string
	Description string
}

// ParameterSchema is the object schema a model must fill when invoking a tool.
// Properties keep declaration order.
type ParameterSchema struct {
	Properties []Property
	Required   []string
}

// ToolDefinition is a caller-declared function the model may invoke.
type ToolDefinition struct {
	Name        string
	Description string
	Parameters  ParameterSchema
}

// ToolInvocation is one structured call emitted by the model.
// Arguments holds the raw JSON object exactly as produced.
type ToolInvocation struct {
	Name      string
	Arguments json.RawMessage
}

// ToolRequest bundles everything needed for a single tool-calling completion.
type ToolRequest struct {
	Messages    []Message
	Tool        ToolDefinition
	Temperature float32
}
