// appkit-mirror is a terminal demonstration client for a Bitcoin
// wallet-connection SDK.
//
// It mirrors the SDK's account, network, modal state, theme, event log,
// wallet and provider streams and renders each one as a serialized block,
// with buttons that open the connect modal, disconnect, switch network, sign
// a message and toggle the theme.
//
// Usage:
//
//	appkit-mirror [tui|watch|networks|version] [flags]
//
// Flags:
//
//	--config string      Path to configuration file
//	--connector string   Connector implementation (sim|bridge)
//	--bridge-url string  WebSocket URL of the AppKit host
//	--project-id string  Project id passed to the SDK
//	--verbose            Enable debug logging
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"gitlab.com/tinyland/lab/appkit-mirror/pkg/network"
)

var (
	version = "0.1.0"
	commit  = "dev"
	date    = "unknown"
)

// globalFlags are shared by every subcommand.
type globalFlags struct {
	configPath string
	connector  string
	bridgeURL  string
	projectID  string
	verbose    bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "appkit-mirror:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var flags globalFlags

	root := &cobra.Command{
		Use:           "appkit-mirror",
		Short:         "Mirror a Bitcoin wallet connection in the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runInteractive(cmd.Context(), flags)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&flags.configPath, "config", "", "path to configuration file")
	pf.StringVar(&flags.connector, "connector", "", "connector implementation (sim|bridge)")
	pf.StringVar(&flags.bridgeURL, "bridge-url", "", "WebSocket URL of the AppKit host")
	pf.StringVar(&flags.projectID, "project-id", "", "project id passed to the SDK")
	pf.BoolVarP(&flags.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(
		&cobra.Command{
			Use:   "tui",
			Short: "Run the interactive interface (default)",
			RunE: func(cmd *cobra.Command, _ []string) error {
				return runInteractive(cmd.Context(), flags)
			},
		},
		&cobra.Command{
			Use:   "watch",
			Short: "Print every block, then each block again when it changes",
			RunE: func(cmd *cobra.Command, _ []string) error {
				return runWatch(cmd.Context(), flags)
			},
		},
		&cobra.Command{
			Use:   "networks",
			Short: "List the configured network whitelist",
			RunE: func(cmd *cobra.Command, _ []string) error {
				return printNetworks(cmd, flags)
			},
		},
		&cobra.Command{
			Use:   "version",
			Short: "Print the version",
			Run: func(cmd *cobra.Command, _ []string) {
				fmt.Fprintf(cmd.OutOrStdout(), "appkit-mirror %s (%s) built %s\n", version, commit, date)
			},
		},
	)
	return root
}

func printNetworks(cmd *cobra.Command, flags globalFlags) error {
	cfg, err := loadConfig(flags)
	if err != nil {
		return err
	}
	nets, err := network.Whitelist(cfg.AppKit.Networks)
	if err != nil {
		return err
	}
	target, err := cfg.SwitchTarget()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, n := range nets {
		marker := " "
		if n.CAIPNetworkID == target.CAIPNetworkID {
			marker = "*"
		}
		kind := "mainnet"
		if n.Testnet {
			kind = "testnet"
		}
		fmt.Fprintf(out, "%s %-18s %-48s %s\n", marker, n.Name, n.CAIPNetworkID, kind)
	}
	return nil
}
