// Package server exposes the speech pipeline as MCP tools over stdio.
package server

import (
	"context"
	"errors"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/sirupsen/logrus"

	"murmur/internal/speech"
)

// SpeakParams are the arguments of the speak tool.
type SpeakParams struct {
	Text  string   `json:"text" mcp:"The text to speak aloud"`
	Voice *string  `json:"voice,omitempty" mcp:"Voice to use (default 'af_heart'; e.g. 'af_bella', 'af_sarah', 'am_adam')"`
	Speed *float64 `json:"speed,omitempty" mcp:"Speaking speed multiplier (default 1.0)"`
}

// AskApprovalParams are the arguments of the ask_approval tool.
type AskApprovalParams struct {
	RequestText string `json:"request_text" mcp:"The request to ask approval for"`
}

// AnnounceTaskParams are the arguments of the announce_task tool.
type AnnounceTaskParams struct {
	TaskName string  `json:"task_name" mcp:"The name of the task"`
	Status   *string `json:"status,omitempty" mcp:"The status (e.g. 'completed', 'failed', 'started'; default 'completed')"`
}

// New builds an MCP server with the three speech tools registered against
// the given speaker.
func New(speaker *speech.Speaker, version string) *mcp.Server {
	s := mcp.NewServer(&mcp.Implementation{
		Name:    "murmur",
		Title:   "Kokoro Text-to-Speech",
		Version: version,
	}, nil)

	mcp.AddTool(s, &mcp.Tool{
		Name:        "speak",
		Description: "Speak the provided text using Kokoro TTS",
		Annotations: &mcp.ToolAnnotations{
			Title:          "Speak text aloud",
			IdempotentHint: true, // same triple replays from cache
		},
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input SpeakParams) (*mcp.CallToolResult, any, error) {
		req, err := speakRequest(input)
		if err != nil {
			return acknowledge("", err), nil, nil
		}

		_, err = speaker.Speak(ctx, req)
		return acknowledge(fmt.Sprintf("Successfully spoke: %s", input.Text), err), nil, nil
	})

	mcp.AddTool(s, &mcp.Tool{
		Name:        "ask_approval",
		Description: "Ask for user approval audibly. This is a semantic wrapper around speak.",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input AskApprovalParams) (*mcp.CallToolResult, any, error) {
		_, err := speaker.AskApproval(ctx, input.RequestText)
		return acknowledge(fmt.Sprintf("Asked for approval: %s", input.RequestText), err), nil, nil
	})

	mcp.AddTool(s, &mcp.Tool{
		Name:        "announce_task",
		Description: "Announce a task update audibly.",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input AnnounceTaskParams) (*mcp.CallToolResult, any, error) {
		status := ""
		if input.Status != nil {
			status = *input.Status
		}
		_, err := speaker.AnnounceTask(ctx, input.TaskName, status)
		return acknowledge(fmt.Sprintf("Announced task: %s", input.TaskName), err), nil, nil
	})

	return s
}

// Run serves the MCP protocol on stdin/stdout until the context ends.
func Run(ctx context.Context, s *mcp.Server) error {
	logrus.Info("Serving MCP on stdio")
	if err := s.Run(ctx, &mcp.StdioTransport{}); err != nil {
		return fmt.Errorf("failed to serve MCP: %w", err)
	}
	return nil
}

// speakRequest builds the pipeline request from the tool arguments. An
// omitted speed falls back to the speaker default, but an explicit
// non-positive one is rejected here: the zero value means "absent" further
// down the pipeline, so the boundary is the only place that can tell the
// two apart.
func speakRequest(input SpeakParams) (speech.Request, error) {
	req := speech.Request{Text: input.Text}
	if input.Voice != nil {
		req.Voice = *input.Voice
	}
	if input.Speed != nil {
		if *input.Speed <= 0 {
			return speech.Request{}, fmt.Errorf("%w: speed must be positive, got %v", speech.ErrInvalidArgument, *input.Speed)
		}
		req.Speed = *input.Speed
	}
	return req, nil
}

// acknowledge maps a pipeline outcome onto a tool result. Device failures
// after a successful synthesis or cache hit come back as warnings, not
// tool errors; everything else error-flags the call with the cause.
func acknowledge(okText string, err error) *mcp.CallToolResult {
	switch {
	case err == nil:
		return textResult(okText, false)
	case errors.Is(err, speech.ErrDeviceFailure):
		logrus.WithError(err).Warn("Playback failed")
		return textResult(fmt.Sprintf("%s (warning: playback failed: %v)", okText, err), false)
	default:
		logrus.WithError(err).Error("Tool call failed")
		return textResult(fmt.Sprintf("Error speaking text: %v", err), true)
	}
}

func textResult(text string, isError bool) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
		IsError: isError,
	}
}
