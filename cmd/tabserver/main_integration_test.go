//go:build integration

package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/averycrespi/tabserver/internal/results"
	"github.com/stretchr/testify/assert"
)

// MCPRequest represents a JSON-RPC 2.0 request
type MCPRequest struct {
	JSONRPC string `json:"jsonrpc"`
	ID      any    `json:"id"`
	Method  string `json:"method"`
	Params  any    `json:"params,omitempty"`
}

// MCPResponse represents a JSON-RPC 2.0 response
type MCPResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      any             `json:"id"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *MCPError       `json:"error,omitempty"`
}

// MCPError represents a JSON-RPC 2.0 error
type MCPError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// MCPServerProcess manages the MCP server process for testing
type MCPServerProcess struct {
	cmd     *exec.Cmd
	stdin   io.WriteCloser
	stdout  io.ReadCloser
	stderr  io.ReadCloser
	scanner *bufio.Scanner
}

// startMCPServer starts the MCP server process
func startMCPServer(t *testing.T, workspaceRoot string) *MCPServerProcess {
	cmd := exec.Command("go", "run", ".", "mcp", "--workspace-root", workspaceRoot, "--log-level", "debug", "calculator.go", "main.go")

	stdin, err := cmd.StdinPipe()
	assert.NoError(t, err, "Failed to create stdin pipe")

	stdout, err := cmd.StdoutPipe()
	assert.NoError(t, err, "Failed to create stdout pipe")

	stderr, err := cmd.StderrPipe()
	assert.NoError(t, err, "Failed to create stderr pipe")

	err = cmd.Start()
	assert.NoError(t, err, "Failed to start MCP server")

	go func() {
		stderrScanner := bufio.NewScanner(stderr)
		for stderrScanner.Scan() {
			t.Logf("Server stderr: %s", stderrScanner.Text())
		}
	}()

	scanner := bufio.NewScanner(stdout)

	// Give the server a moment to start
	time.Sleep(100 * time.Millisecond)

	return &MCPServerProcess{
		cmd:     cmd,
		stdin:   stdin,
		stdout:  stdout,
		stderr:  stderr,
		scanner: scanner,
	}
}

// stop terminates the MCP server process
func (s *MCPServerProcess) stop() error {
	s.stdin.Close()
	s.stdout.Close()
	s.stderr.Close()
	return s.cmd.Process.Kill()
}

// sendRequest sends a JSON-RPC request to the server
func (s *MCPServerProcess) sendRequest(t *testing.T, req MCPRequest) MCPResponse {
	reqJSON, err := json.Marshal(req)
	assert.NoError(t, err, "Failed to marshal request")

	_, err = s.stdin.Write(append(reqJSON, '\n'))
	assert.NoError(t, err, "Failed to write request")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	done := make(chan MCPResponse, 1)
	errChan := make(chan error, 1)

	go func() {
		if s.scanner.Scan() {
			line := s.scanner.Text()
			var resp MCPResponse
			if err := json.Unmarshal([]byte(line), &resp); err != nil {
				errChan <- fmt.Errorf("failed to unmarshal response: %v", err)
				return
			}
			done <- resp
		} else {
			if err := s.scanner.Err(); err != nil {
				errChan <- fmt.Errorf("scanner error: %v", err)
			} else {
				errChan <- fmt.Errorf("scanner returned false but no error")
			}
		}
	}()

	select {
	case resp := <-done:
		return resp
	case err := <-errChan:
		assert.Fail(t, "Error reading response", err.Error())
	case <-ctx.Done():
		assert.Fail(t, "Timeout waiting for response")
	}

	return MCPResponse{} // unreachable
}

// parseToolResult parses the JSON content from a tool result
func parseToolResult(t *testing.T, result map[string]any) string {
	content, ok := result["content"]
	assert.True(t, ok, "Expected content in tool result")

	// Handle both string and array format
	if contentStr, ok := content.(string); ok {
		return contentStr
	}

	// Handle array format (MCP content can be an array of content items)
	if contentArray, ok := content.([]interface{}); ok {
		assert.NotEmpty(t, contentArray, "Content array should not be empty")

		// Get first content item
		firstContent := contentArray[0]
		if contentMap, ok := firstContent.(map[string]interface{}); ok {
			if text, ok := contentMap["text"].(string); ok {
				return text
			}
		}
	}

	assert.Fail(t, "Unexpected content format", "Expected string or array, got %T", content)
	return ""
}

// validateReadTabToolResult validates the structure of a read tab result
func validateReadTabToolResult(t *testing.T, jsonContent string, expectedTab string) {
	var result results.ReadTabToolResult
	err := json.Unmarshal([]byte(jsonContent), &result)
	assert.NoError(t, err, "Should be able to unmarshal read tab tool result")

	assert.Equal(t, expectedTab, result.TabName, "Tab name should match")
	assert.NotEmpty(t, result.Path, "Path should not be empty")
	assert.Equal(t, 1, result.Version, "Freshly opened tab should be at version 1")
	assert.Greater(t, result.LineCount, 0, "Line count should be positive")
	assert.Contains(t, result.Text, "type Calculator struct", "Text should hold the file contents")
}

// validateGetTabOutlineToolResult validates the structure of a tab outline result
func validateGetTabOutlineToolResult(t *testing.T, jsonContent string) {
	var result results.GetTabOutlineToolResult
	err := json.Unmarshal([]byte(jsonContent), &result)
	assert.NoError(t, err, "Should be able to unmarshal get tab outline tool result")

	assert.NotEmpty(t, result.Message, "Message should not be empty")
	assert.Contains(t, result.Outline, "Struct Calculator", "Outline should list the Calculator struct")
	assert.Greater(t, len(result.Symbols), 0, "Should have found at least one symbol")
}

// initialize sends the MCP initialize request
func (s *MCPServerProcess) initialize(t *testing.T) {
	req := MCPRequest{
		JSONRPC: "2.0",
		ID:      1,
		Method:  "initialize",
		Params: map[string]any{
			"protocolVersion": "2024-11-05",
			"capabilities": map[string]any{
				"tools": map[string]any{},
			},
			"clientInfo": map[string]any{
				"name":    "integration-test",
				"version": "1.0.0",
			},
		},
	}

	resp := s.sendRequest(t, req)
	assert.Nil(t, resp.Error, "MCP initialize should not return an error")
}

// TestMCPServerIntegration tests the MCP server integration using testdata/example
func TestMCPServerIntegration(t *testing.T) {
	workspaceRoot, err := filepath.Abs("../../testdata/example")
	assert.NoError(t, err, "Failed to get testdata/example directory")

	_, err = os.Stat(filepath.Join(workspaceRoot, "calculator.go"))
	assert.NoError(t, err, "testdata/example should contain calculator.go")

	server := startMCPServer(t, workspaceRoot)
	defer server.stop()

	server.initialize(t)

	t.Run("ListTools", func(t *testing.T) {
		req := MCPRequest{
			JSONRPC: "2.0",
			ID:      2,
			Method:  "tools/list",
		}

		resp := server.sendRequest(t, req)
		assert.Nil(t, resp.Error, "List tools should not return an error")

		var result map[string]any
		err := json.Unmarshal(resp.Result, &result)
		assert.NoError(t, err, "Should be able to unmarshal tools list")

		tools, ok := result["tools"].([]any)
		assert.True(t, ok, "Expected tools array, got %T", result["tools"])

		expectedTools := []string{
			"list_tabs",
			"read_tab",
			"get_tab_outline",
			"propose_tab_edit",
		}

		assert.Len(t, tools, len(expectedTools), "Should have exactly %d tools", len(expectedTools))

		foundTools := make(map[string]bool)
		for _, tool := range tools {
			toolMap, ok := tool.(map[string]any)
			assert.True(t, ok, "Expected tool to be map, got %T", tool)
			if !ok {
				continue
			}
			if name, ok := toolMap["name"].(string); ok {
				foundTools[name] = true
			}
		}

		for _, expectedTool := range expectedTools {
			assert.True(t, foundTools[expectedTool], "Expected tool %s not found", expectedTool)
		}
	})

	t.Run("ListTabs", func(t *testing.T) {
		req := MCPRequest{
			JSONRPC: "2.0",
			ID:      3,
			Method:  "tools/call",
			Params: map[string]any{
				"name":      "list_tabs",
				"arguments": map[string]any{},
			},
		}

		resp := server.sendRequest(t, req)
		assert.Nil(t, resp.Error, "List tabs should not return an error")

		var result map[string]any
		err := json.Unmarshal(resp.Result, &result)
		assert.NoError(t, err, "Should be able to unmarshal list tabs result")

		var tabs results.ListTabsToolResult
		assert.NoError(t, json.Unmarshal([]byte(parseToolResult(t, result)), &tabs))
		assert.Len(t, tabs.Tabs, 2, "Both files given on the command line should be open")
	})

	t.Run("ReadTab", func(t *testing.T) {
		req := MCPRequest{
			JSONRPC: "2.0",
			ID:      4,
			Method:  "tools/call",
			Params: map[string]any{
				"name": "read_tab",
				"arguments": map[string]any{
					"tabName": "calculator.go",
				},
			},
		}

		resp := server.sendRequest(t, req)
		assert.Nil(t, resp.Error, "Read tab should not return an error")

		var result map[string]any
		err := json.Unmarshal(resp.Result, &result)
		assert.NoError(t, err, "Should be able to unmarshal read tab result")

		validateReadTabToolResult(t, parseToolResult(t, result), "calculator.go")
	})

	t.Run("GetTabOutline", func(t *testing.T) {
		req := MCPRequest{
			JSONRPC: "2.0",
			ID:      5,
			Method:  "tools/call",
			Params: map[string]any{
				"name": "get_tab_outline",
				"arguments": map[string]any{
					"tabName": "calculator.go",
				},
			},
		}

		resp := server.sendRequest(t, req)
		assert.Nil(t, resp.Error, "Get tab outline should not return an error")

		var result map[string]any
		err := json.Unmarshal(resp.Result, &result)
		assert.NoError(t, err, "Should be able to unmarshal outline result")

		contentStr := parseToolResult(t, result)
		validateGetTabOutlineToolResult(t, contentStr)

		t.Logf("Outline content: %v", contentStr)
	})

	t.Run("ProposeTabEditOutOfRange", func(t *testing.T) {
		req := MCPRequest{
			JSONRPC: "2.0",
			ID:      6,
			Method:  "tools/call",
			Params: map[string]any{
				"name": "propose_tab_edit",
				"arguments": map[string]any{
					"tabName":        "calculator.go",
					"startLine":      1000,
					"startCharacter": 0,
					"endLine":        1000,
					"endCharacter":   0,
					"newText":        "x",
				},
			},
		}

		resp := server.sendRequest(t, req)
		assert.Nil(t, resp.Error, "Tool failures are reported in the result, not as JSON-RPC errors")

		var result map[string]any
		err := json.Unmarshal(resp.Result, &result)
		assert.NoError(t, err, "Should be able to unmarshal propose result")
		assert.Equal(t, true, result["isError"], "Out of range edit should be a tool error")
		assert.Contains(t, parseToolResult(t, result), "Invalid range")
	})
}
