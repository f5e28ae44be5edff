package commands

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/venice-ai/venice-go/cli/keystore"
)

func (a *App) newKeysCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "keys",
		Short: "Manage API keys",
		Long: `Manage API keys. Keys are stored locally in an encrypted keystore;
the limits subcommand queries the API for your account's standing quota.`,
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "set",
		Short: "Store the inference API key",
		Long:  `Store the inference API key. The key is prompted without echo.`,
		RunE: func(c *cobra.Command, args []string) error {
			return a.runKeysSet(keystoreAPIKey, "Venice API key")
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "set-admin",
		Short: "Store the admin API key",
		RunE: func(c *cobra.Command, args []string) error {
			return a.runKeysSet(keystoreAdminKey, "Venice admin API key")
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List stored keys",
		Long:  `List locally stored key names. Key values are never shown.`,
		RunE:  a.runKeysList,
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "delete <name>",
		Short: "Delete a stored key",
		Args:  cobra.ExactArgs(1),
		RunE:  a.runKeysDelete,
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "limits",
		Short: "Show account rate limits",
		Long:  `Query the API for the account's per-model rate limits and balances.`,
		RunE:  a.runKeysLimits,
	})

	return cmd
}

func (a *App) runKeysSet(name, label string) error {
	fmt.Fprintf(a.stdout, "Enter %s: ", label)

	// Read without echo if terminal
	var apiKey string
	if f, ok := a.stdin.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		keyBytes, err := term.ReadPassword(int(f.Fd()))
		if err != nil {
			return fmt.Errorf("failed to read key: %w", err)
		}
		apiKey = string(keyBytes)
		fmt.Fprintln(a.stdout) // Newline after hidden input
	} else {
		// Fallback for non-terminal (e.g., piped input)
		reader := bufio.NewReader(a.stdin)
		line, err := reader.ReadString('\n')
		if err != nil {
			return fmt.Errorf("failed to read key: %w", err)
		}
		apiKey = strings.TrimSpace(line)
	}

	if apiKey == "" {
		return fmt.Errorf("API key cannot be empty")
	}

	ks, err := a.newKeystore()
	if err != nil {
		return fmt.Errorf("failed to open keystore: %w", err)
	}

	if err := ks.Set(name, apiKey); err != nil {
		return fmt.Errorf("failed to store key: %w", err)
	}

	fmt.Fprintf(a.stdout, "Key %q stored successfully.\n", name)
	return nil
}

func (a *App) runKeysList(cmd *cobra.Command, args []string) error {
	ks, err := a.newKeystore()
	if err != nil {
		return fmt.Errorf("failed to open keystore: %w", err)
	}

	names, err := ks.List()
	if err != nil {
		return fmt.Errorf("failed to list keys: %w", err)
	}

	if len(names) == 0 {
		fmt.Fprintln(a.stdout, "No API keys stored.")
		return nil
	}

	fmt.Fprintln(a.stdout, "Stored keys:")
	for _, name := range names {
		fmt.Fprintf(a.stdout, "  - %s\n", name)
	}

	return nil
}

func (a *App) runKeysDelete(cmd *cobra.Command, args []string) error {
	name := args[0]

	ks, err := a.newKeystore()
	if err != nil {
		return fmt.Errorf("failed to open keystore: %w", err)
	}

	if err := ks.Delete(name); err != nil {
		if _, ok := err.(*keystore.ErrKeyNotFound); ok {
			return fmt.Errorf("no key stored for %s", name)
		}
		return fmt.Errorf("failed to delete key: %w", err)
	}

	fmt.Fprintf(a.stdout, "Key %q deleted.\n", name)
	return nil
}

func (a *App) runKeysLimits(cmd *cobra.Command, args []string) error {
	client, err := a.client()
	if err != nil {
		return err
	}

	status, err := client.Keys.RateLimits(context.Background())
	if err != nil {
		return a.handleAPIError(err)
	}

	if a.jsonOutput {
		return a.writeJSON(a.stdout, status)
	}

	fmt.Fprintf(a.stdout, "Access permitted: %v\n", status.Data.AccessPermitted)
	for _, rl := range status.Data.RateLimits {
		fmt.Fprintf(a.stdout, "  %s: %s\n", rl.ModelID, string(rl.RateLimits))
	}
	return nil
}
