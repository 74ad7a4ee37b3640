package tools

import (
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/spf13/cast"
)

// getInt extracts a required integer argument. JSON numbers and numeric
// strings are accepted; fractional values and booleans are rejected.
func getInt(req mcp.CallToolRequest, name string) (int, error) {
	raw := mcp.ParseArgument(req, name, nil)
	if raw == nil {
		return 0, fmt.Errorf("%s parameter is required", name)
	}
	switch raw.(type) {
	case float64, float32, int, int32, int64, json.Number, string:
	default:
		return 0, fmt.Errorf("%s must be a number, got %T", name, raw)
	}

	f, err := cast.ToFloat64E(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be a number: %v", name, err)
	}
	n := cast.ToInt(f)
	if float64(n) != f {
		return 0, fmt.Errorf("%s must be an integer, got %v", name, raw)
	}
	return n, nil
}

// jsonResult marshals a tool result into indented JSON text
func jsonResult(v any) *mcp.CallToolResult {
	jsonBytes, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to marshal tool result JSON: %v", err))
	}
	return mcp.NewToolResultText(string(jsonBytes))
}
