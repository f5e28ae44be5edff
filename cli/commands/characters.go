package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func (a *App) newCharactersCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "characters",
		Short: "List public characters",
		Long: `List the public character personas. Use a character's slug with
'venice chat --character <slug>'.`,
		RunE: a.runCharacters,
	}
}

func (a *App) runCharacters(cmd *cobra.Command, args []string) error {
	client, err := a.client()
	if err != nil {
		return err
	}

	list, err := client.Characters.List(context.Background())
	if err != nil {
		return a.handleAPIError(err)
	}

	if a.jsonOutput {
		return a.writeJSON(a.stdout, list)
	}

	if len(list.Data) == 0 {
		fmt.Fprintln(a.stdout, "No characters available.")
		return nil
	}
	for _, c := range list.Data {
		fmt.Fprintf(a.stdout, "%-30s %s\n", c.Slug, c.Name)
	}
	return nil
}
