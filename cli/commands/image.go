package commands

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/venice-ai/venice-go/venice"
)

func (a *App) newImageCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "image",
		Short: "Generate images",
		Long: `Generate an image from a text prompt and write it to a file.

Examples:
  venice image --model flux-dev --prompt "a red fox in snow" --out fox.png
  venice image --prompt "a lighthouse" --width 1024 --height 768 --out out.png`,
		RunE: a.runImage,
	}

	cmd.Flags().StringVar(&a.imagePrompt, "prompt", "", "Image prompt (required)")
	cmd.Flags().StringVar(&a.imageOut, "out", "image.png", "Output file path")
	cmd.Flags().IntVar(&a.imageWidth, "width", 0, "Image width (0 = model default)")
	cmd.Flags().IntVar(&a.imageHeight, "height", 0, "Image height (0 = model default)")

	_ = cmd.MarkFlagRequired("prompt")
	return cmd
}

func (a *App) runImage(cmd *cobra.Command, args []string) error {
	if a.model == "" {
		return exitWithCode(ExitValidation, fmt.Errorf("model required: use --model flag or set default_model in config"))
	}

	client, err := a.client()
	if err != nil {
		return err
	}

	resp, err := client.Images.Generate(context.Background(), &venice.ImageGenerateRequest{
		Model:  a.model,
		Prompt: a.imagePrompt,
		Width:  a.imageWidth,
		Height: a.imageHeight,
	})
	if err != nil {
		return a.handleAPIError(err)
	}
	if len(resp.Images) == 0 {
		return exitWithCode(ExitAPI, fmt.Errorf("no image returned"))
	}

	data, err := base64.StdEncoding.DecodeString(resp.Images[0])
	if err != nil {
		return exitWithCode(ExitAPI, fmt.Errorf("decoding image data: %w", err))
	}
	if err := os.WriteFile(a.imageOut, data, 0644); err != nil {
		return exitWithCode(ExitValidation, fmt.Errorf("writing %s: %w", a.imageOut, err))
	}

	if a.jsonOutput {
		return a.writeJSON(a.stdout, map[string]any{"id": resp.ID, "file": a.imageOut})
	}
	fmt.Fprintf(a.stdout, "Wrote %s\n", a.imageOut)
	return nil
}
