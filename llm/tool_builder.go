package llm

import (
	"encoding/json"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/ollama/ollama/api"
)

// ToolBuilder defines a function tool schema.
type ToolBuilder struct {
	tool api.Tool
}

func NewToolBuilder(name, description string) *ToolBuilder {
	b := &ToolBuilder{
		tool: api.Tool{
			Type: "function",
			Function: api.ToolFunction{
				Name:        name,
				Description: description,
			},
		},
	}

	b.tool.Function.Parameters.Type = "object"
	b.tool.Function.Parameters.Properties = make(map[string]api.ToolProperty, 4)
	return b
}

func (b *ToolBuilder) StringParam(name, desc string, required bool) *ToolBuilder {
	b.setProp(name, api.ToolProperty{
		Type:        api.PropertyType{"string"},
		Description: desc,
	}, required)
	return b
}

func (b *ToolBuilder) IntegerParam(name, desc string, required bool) *ToolBuilder {
	b.setProp(name, api.ToolProperty{
		Type:        api.PropertyType{"integer"},
		Description: desc,
	}, required)
	return b
}

func (b *ToolBuilder) Build() api.Tool {
	return b.tool
}

func (b *ToolBuilder) setProp(name string, p api.ToolProperty, required bool) {
	b.tool.Function.Parameters.Properties[name] = p
	if required {
		req := b.tool.Function.Parameters.Required
		if !slices.Contains(req, name) {
			b.tool.Function.Parameters.Required = append(req, name)
		}
	}
}

// StringArg reads a string argument, returning "" when absent or not a string.
func StringArg(args api.ToolCallFunctionArguments, name string) string {
	v, ok := args[name]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return strings.TrimSpace(s)
	}
	return ""
}

// IntArg reads an integer argument. Providers send numbers as float64,
// json.Number or occasionally as strings.
func IntArg(args api.ToolCallFunctionArguments, name string, def int) int {
	v, ok := args[name]
	if !ok || v == nil {
		return def
	}

	switch n := v.(type) {
	case float64:
		return int(math.Round(n))
	case int:
		return n
	case int64:
		return int(n)
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return int(i)
		}
	case string:
		if i, err := strconv.Atoi(strings.TrimSpace(n)); err == nil {
			return i
		}
	}
	return def
}
