package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/venice-ai/venice-go/core"
	"github.com/venice-ai/venice-go/venice"
)

// Exit codes
const (
	ExitSuccess    = 0
	ExitValidation = 1
	ExitAPI        = 2
	ExitNetwork    = 3
)

func (a *App) newChatCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Send a chat completion request",
		Long: `Send a chat completion request to a Venice model.

Examples:
  venice chat --model llama-3.3-70b --prompt "Hello"
  venice chat --prompt "Hello" --stream
  venice chat --prompt "Hello" --character alan-watts
  venice chat --prompt "Hello" --json`,
		RunE: a.runChat,
	}

	cmd.Flags().StringVar(&a.chatPrompt, "prompt", "", "User message (required)")
	cmd.Flags().StringVar(&a.chatSystem, "system", "", "System message")
	cmd.Flags().StringVar(&a.chatCharacter, "character", "", "Character slug to chat with")
	cmd.Flags().StringVar(&a.chatWebSearch, "web-search", "", `Web search mode ("on", "off", "auto")`)
	cmd.Flags().IntVar(&a.chatMaxTokens, "max-tokens", 0, "Max completion tokens (0 = use default)")
	cmd.Flags().BoolVar(&a.chatStream, "stream", false, "Enable streaming output")

	_ = cmd.MarkFlagRequired("prompt")
	return cmd
}

func (a *App) runChat(cmd *cobra.Command, args []string) error {
	if a.model == "" {
		return exitWithCode(ExitValidation, fmt.Errorf("model required: use --model flag or set default_model in config"))
	}

	client, err := a.client()
	if err != nil {
		return err
	}

	req := &venice.ChatCompletionRequest{
		Model:    a.model,
		Messages: []venice.Message{},
	}
	if a.chatSystem != "" {
		req.Messages = append(req.Messages, venice.Message{Role: venice.RoleSystem, Content: a.chatSystem})
	}
	req.Messages = append(req.Messages, venice.Message{Role: venice.RoleUser, Content: a.chatPrompt})

	if a.chatMaxTokens > 0 {
		req.MaxTokens = &a.chatMaxTokens
	}
	if a.chatCharacter != "" || a.chatWebSearch != "" {
		req.VeniceParameters = &venice.VeniceParameters{
			CharacterSlug:   a.chatCharacter,
			EnableWebSearch: a.chatWebSearch,
		}
	}

	ctx := context.Background()
	if a.chatStream {
		return a.runStreamingChat(ctx, client, req)
	}
	return a.runBufferedChat(ctx, client, req)
}

func (a *App) runBufferedChat(ctx context.Context, client *venice.Client, req *venice.ChatCompletionRequest) error {
	resp, err := client.Chat.CreateCompletion(ctx, req)
	if err != nil {
		return a.handleAPIError(err)
	}

	if a.jsonOutput {
		return a.outputCompletionJSON(resp)
	}

	fmt.Fprintf(a.stdout, "> %s\n", a.chatPrompt)
	fmt.Fprintln(a.stdout, resp.Output())
	return nil
}

func (a *App) runStreamingChat(ctx context.Context, client *venice.Client, req *venice.ChatCompletionRequest) error {
	stream, err := client.Chat.StreamCompletion(ctx, req)
	if err != nil {
		return a.handleAPIError(err)
	}
	defer stream.Close()

	if a.jsonOutput {
		resp, err := stream.Collect(ctx)
		if err != nil {
			return a.handleAPIError(err)
		}
		return a.outputCompletionJSON(resp)
	}

	fmt.Fprintf(a.stdout, "> %s\n", a.chatPrompt)

	var usage *venice.Usage
	for chunk := range stream.Ch {
		fmt.Fprint(a.stdout, chunk.Delta())
		if chunk.Usage != nil {
			usage = chunk.Usage
		}
	}
	fmt.Fprintln(a.stdout)

	if err, ok := <-stream.Err; ok && err != nil {
		return a.handleAPIError(err)
	}

	if a.verbose && usage != nil {
		fmt.Fprintf(a.stderr, "Usage: %d prompt + %d completion = %d total tokens\n",
			usage.PromptTokens, usage.CompletionTokens, usage.TotalTokens)
	}
	return nil
}

func (a *App) outputCompletionJSON(resp *venice.ChatCompletion) error {
	output := map[string]any{
		"id":     resp.ID,
		"model":  resp.Model,
		"output": resp.Output(),
		"usage": map[string]int{
			"prompt_tokens":     resp.Usage.PromptTokens,
			"completion_tokens": resp.Usage.CompletionTokens,
			"total_tokens":      resp.Usage.TotalTokens,
		},
	}
	return a.writeJSON(a.stdout, output)
}

// handleAPIError prints a typed error and maps it to an exit code.
func (a *App) handleAPIError(err error) error {
	var apiErr *core.Error
	if errors.As(err, &apiErr) {
		if a.jsonOutput {
			a.outputErrorJSON(apiErr)
		} else {
			fmt.Fprintf(a.stderr, "Error: %s\n", apiErr.Message)
			if apiErr.RequestID != "" {
				fmt.Fprintf(a.stderr, "  Request ID: %s\n", apiErr.RequestID)
			}
			if apiErr.RateLimit != nil && !apiErr.RateLimit.Reset.IsZero() {
				fmt.Fprintf(a.stderr, "  Rate limit resets at %s\n", apiErr.RateLimit.Reset.Format("15:04:05"))
			}
			for _, hint := range apiErr.Hints {
				fmt.Fprintf(a.stderr, "  Hint: %s\n", hint.Description)
			}
		}

		switch {
		case errors.Is(err, core.ErrValidation):
			return exitWithCode(ExitValidation, err)
		case errors.Is(err, core.ErrNetwork), errors.Is(err, core.ErrTimeout):
			return exitWithCode(ExitNetwork, err)
		default:
			return exitWithCode(ExitAPI, err)
		}
	}

	if a.jsonOutput {
		a.outputSimpleErrorJSON("error", err.Error())
	} else {
		fmt.Fprintf(a.stderr, "Error: %v\n", err)
	}
	return exitWithCode(ExitAPI, err)
}

func (a *App) outputErrorJSON(apiErr *core.Error) {
	output := map[string]any{
		"error": map[string]any{
			"kind":       string(apiErr.Kind()),
			"code":       apiErr.Code,
			"message":    apiErr.Message,
			"status":     apiErr.Status,
			"request_id": apiErr.RequestID,
		},
	}
	a.writeJSON(a.stderr, output)
}

func (a *App) outputSimpleErrorJSON(errType, message string) {
	output := map[string]any{
		"error": map[string]any{
			"type":    errType,
			"message": message,
		},
	}
	a.writeJSON(a.stderr, output)
}

func (a *App) writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// exitError wraps an error with an exit code.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	return e.err.Error()
}

func (e *exitError) ExitCode() int {
	return e.code
}

func exitWithCode(code int, err error) error {
	return &exitError{code: code, err: err}
}
