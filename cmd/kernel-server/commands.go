package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/morezero/kernel-server/internal/config"
	"github.com/morezero/kernel-server/internal/server"
	"github.com/morezero/kernel-server/pkg/catalog"
	"github.com/morezero/kernel-server/pkg/registry"
)

// Version is set at build time.
var Version = "0.1.0"

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "kernel-server",
		Short: "Serve computational kernels behind an OpenAI-compatible HTTP API",
		Long: `kernel-server exposes a fixed set of kernels (HTML tags, markdown, file I/O,
routing) as models of an OpenAI-compatible API, plus a direct execution endpoint.

Environment: KERNEL_HOST, KERNEL_PORT, KERNEL_CATALOG_FILE, LOG_LEVEL,
COMMS_URL (enables the NATS bridge), METRICS_ADDR. Flags override the environment.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		// Serve when no subcommand is given.
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Flags())
		},
	}

	root.PersistentFlags().String("host", "localhost", "Host to bind (overrides KERNEL_HOST)")
	root.PersistentFlags().Int("port", 8080, "Port to listen on (overrides KERNEL_PORT)")

	root.AddCommand(newServeCmd())
	root.AddCommand(newKernelsCmd())
	return root
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the kernel server (default)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Flags())
		},
	}
}

func newKernelsCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "kernels",
		Short: "List the kernels the server would load",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.LoadConfig()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			reg, err := loadRegistry(cfg)
			if err != nil {
				return err
			}
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(reg.Describe())
			}
			return printKernels(cmd.OutOrStdout(), reg.Describe())
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print as JSON")
	return cmd
}

// loadConfig reads the environment and applies flags the user set explicitly.
func loadConfig(flags *pflag.FlagSet) (*config.Config, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if flags.Changed("host") {
		if cfg.Host, err = flags.GetString("host"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("port") {
		if cfg.Port, err = flags.GetInt("port"); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

func runServe(flags *pflag.FlagSet) error {
	cfg, err := loadConfig(flags)
	if err != nil {
		return err
	}
	return server.Run(cfg)
}

func loadRegistry(cfg *config.Config) (*registry.Registry, error) {
	cat, err := catalog.LoadCatalog(cfg.CatalogFile)
	if err != nil {
		return nil, err
	}
	return catalog.NewRegistry(cat)
}

func printKernels(w io.Writer, kernels []registry.KernelInfo) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tVERSION\tPARAMS\tDESCRIPTION")
	for _, k := range kernels {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", k.Name, k.Version, strings.Join(k.Params, ","), k.Description)
	}
	return tw.Flush()
}
