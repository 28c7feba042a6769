package generator

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// CLIClient runs paragraph rewrites through a local claude binary, one
// non-interactive invocation per paragraph. The user prompt goes on stdin.
type CLIClient struct {
	cliPath string
	args    []string
}

func NewCLIClient(cliPath string) *CLIClient {
	return &CLIClient{
		cliPath: cliPath,
		args:    []string{"--print", "--output-format", "text", "--max-turns", "1"},
	}
}

func (c *CLIClient) Generate(ctx context.Context, systemPrompt string, userPrompt string) (*LLMResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	args := append(append([]string{}, c.args...), "--system-prompt", systemPrompt)
	cmd := exec.CommandContext(ctx, c.cliPath, args...)
	cmd.Stdin = strings.NewReader(userPrompt)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("rewrite via %s: %w (stderr: %s)", c.cliPath, err, strings.TrimSpace(stderr.String()))
	}

	out := strings.TrimSpace(stdout.String())
	if out == "" {
		return nil, fmt.Errorf("rewrite via %s: empty output", c.cliPath)
	}

	// The CLI reports no token usage; estimate at four bytes per token so
	// run reports stay comparable across backends.
	return &LLMResponse{
		Content:      out,
		PromptTokens: (len(systemPrompt) + len(userPrompt)) / 4,
		OutputTokens: len(out) / 4,
	}, nil
}
