package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func (a *App) newVVVCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vvv",
		Short: "Show VVV token network stats",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "supply",
		Short: "Show circulating VVV supply",
		RunE:  a.runVVVSupply,
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "utilization",
		Short: "Show network compute utilization",
		RunE:  a.runVVVUtilization,
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "yield",
		Short: "Show current staking yield",
		RunE:  a.runVVVYield,
	})
	return cmd
}

func (a *App) runVVVSupply(cmd *cobra.Command, args []string) error {
	client, err := a.client()
	if err != nil {
		return err
	}
	out, err := client.VVV.CirculatingSupply(context.Background())
	if err != nil {
		return a.handleAPIError(err)
	}
	if a.jsonOutput {
		return a.writeJSON(a.stdout, out)
	}
	fmt.Fprintf(a.stdout, "Circulating supply: %.2f VVV\n", out.Supply)
	return nil
}

func (a *App) runVVVUtilization(cmd *cobra.Command, args []string) error {
	client, err := a.client()
	if err != nil {
		return err
	}
	out, err := client.VVV.Utilization(context.Background())
	if err != nil {
		return a.handleAPIError(err)
	}
	if a.jsonOutput {
		return a.writeJSON(a.stdout, out)
	}
	fmt.Fprintf(a.stdout, "Network utilization: %.1f%%\n", out.Utilization)
	return nil
}

func (a *App) runVVVYield(cmd *cobra.Command, args []string) error {
	client, err := a.client()
	if err != nil {
		return err
	}
	out, err := client.VVV.StakingYield(context.Background())
	if err != nil {
		return a.handleAPIError(err)
	}
	if a.jsonOutput {
		return a.writeJSON(a.stdout, out)
	}
	fmt.Fprintf(a.stdout, "Staking APY: %.2f%% (%.0f VVV staked)\n", out.CurrentAPY, out.TotalStaked)
	return nil
}
