// cmd/sitecfg/commands.go
package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"sitecfg/internal/config"
	"sitecfg/internal/export"
	"sitecfg/internal/render"
	"sitecfg/internal/scaffold"
	"sitecfg/internal/server"

	"github.com/spf13/cobra"
)

func newValidateCmd(appCfg *appConfig) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check the site config and report every invalid field",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			siteCfg, err := appCfg.siteConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, key := range siteCfg.UnknownKeys() {
				fmt.Fprintf(out, "⚠️  Unknown key ignored: %s\n", key)
			}
			fmt.Fprintf(out, "✅ %s is valid.\n", appCfg.configPath)
			return nil
		},
	}
}

func newShowCmd(appCfg *appConfig) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the validated site config",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := config.ParseFormat(format)
			if err != nil {
				return err
			}
			siteCfg, err := appCfg.siteConfig()
			if err != nil {
				return err
			}
			return export.Encode(cmd.OutOrStdout(), siteCfg, export.Format(f))
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "yaml", "Output format: yaml, json or toml.")
	return cmd
}

func newExportCmd(appCfg *appConfig) *cobra.Command {
	var (
		format string
		out    string
		unsafe bool
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the site metadata consumed by the site generator",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := export.ParseFormat(format)
			if err != nil {
				return err
			}
			siteCfg, err := appCfg.siteConfig()
			if err != nil {
				return err
			}
			meta, err := export.NewMetadata(siteCfg, render.Options{Unsafe: unsafe})
			if err != nil {
				return err
			}
			if out == "" {
				return export.Encode(cmd.OutOrStdout(), meta, f)
			}
			if err := export.WriteFile(out, meta, f); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✅ Site metadata written to %s.\n", out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "json", "Output format: json, yaml, toml or js.")
	cmd.Flags().StringVarP(&out, "out", "o", "", "Output file (default stdout).")
	cmd.Flags().BoolVar(&unsafe, "unsafe", false, "Disable HTML sanitization of the rendered description.")
	return cmd
}

func newInitCmd(appCfg *appConfig) *cobra.Command {
	p := scaffold.DefaultParams()
	var (
		force  bool
		social map[string]string
	)
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a starter site config file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(social) > 0 {
				p.Social = config.Social(social)
			}
			if err := scaffold.CreateConfig(appCfg.configPath, p, force); err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "Created:", appCfg.configPath)
			fmt.Fprintln(out, "You can now:")
			fmt.Fprintln(out, "  sitecfg validate")
			fmt.Fprintln(out, "  sitecfg export -f js -o site-config.js")
			return nil
		},
	}
	flags := cmd.Flags()
	flags.StringVar(&p.Title, "title", p.Title, "Site title.")
	flags.StringVar(&p.Author, "author", p.Author, "Author name.")
	flags.StringVar(&p.Description, "description", p.Description, "Tagline or bio.")
	flags.StringVar(&p.PrimaryColor, "color", p.PrimaryColor, "Primary theme color.")
	flags.IntVar(&p.PostsPerPage, "posts-per-page", p.PostsPerPage, "Posts per page.")
	flags.StringToStringVar(&social, "social", nil, "Social links, e.g. github=https://github.com/you.")
	flags.StringVar(&p.PathPrefix, "path-prefix", "", "URL path prefix for deployment.")
	flags.StringVar(&p.SiteURL, "site-url", "", "Canonical site URL.")
	flags.BoolVar(&force, "force", false, "Overwrite an existing config file.")
	return cmd
}

func newWatchCmd(appCfg *appConfig) *cobra.Command {
	var port int
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Revalidate the config on every change and publish it",
		Long: `Watches the config file and reloads it on change. With --port, the last
valid config is served at /config.json and reload results are pushed to
websocket clients at /ws.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			opts := server.Options{
				OnReload: func(res server.Result) {
					out := cmd.OutOrStdout()
					if res.OK {
						fmt.Fprintf(out, "✅ %s valid %v\n", res.Time.Format("15:04:05"), res.Changed)
						return
					}
					fmt.Fprintf(out, "❌ %s invalid:\n", res.Time.Format("15:04:05"))
					for _, e := range res.Errors {
						fmt.Fprintf(out, "   - %s\n", e)
					}
				},
			}
			if port > 0 {
				opts.Addr = fmt.Sprintf(":%d", port)
				fmt.Fprintf(cmd.OutOrStdout(), "Serving config on http://localhost%s/config.json\n", opts.Addr)
				fmt.Fprintln(cmd.OutOrStdout(), "Press Ctrl+C to stop")
			}
			return server.Watch(ctx, appCfg.configPath, opts)
		},
	}
	cmd.Flags().IntVar(&port, "port", 0, "Port for the config endpoint (0 disables it).")
	return cmd
}
