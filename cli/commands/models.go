package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func (a *App) newModelsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "models",
		Short: "List available models",
		Long: `List the models available for inference.

Examples:
  venice models
  venice models --type image`,
		RunE: a.runModels,
	}

	cmd.Flags().StringVar(&a.modelsType, "type", "", `Filter by model type ("text", "image", "embedding")`)
	return cmd
}

func (a *App) runModels(cmd *cobra.Command, args []string) error {
	client, err := a.client()
	if err != nil {
		return err
	}

	list, err := client.Models.List(context.Background(), a.modelsType)
	if err != nil {
		return a.handleAPIError(err)
	}

	if a.jsonOutput {
		return a.writeJSON(a.stdout, list)
	}

	if len(list.Data) == 0 {
		fmt.Fprintln(a.stdout, "No models available.")
		return nil
	}
	for _, m := range list.Data {
		line := fmt.Sprintf("%-40s %s", m.ID, m.Type)
		if m.Spec.AvailableContextTokens > 0 {
			line += fmt.Sprintf("  (%dk context)", m.Spec.AvailableContextTokens/1024)
		}
		fmt.Fprintln(a.stdout, line)
	}
	return nil
}
