package main

import (
	"context"
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"github.com/launchdash/launchdash/pkg/types"
	"github.com/launchdash/launchdash/server/internal/dashboard"
	"github.com/launchdash/launchdash/server/internal/launch"
	"github.com/launchdash/launchdash/server/internal/metrics"
	"github.com/launchdash/launchdash/server/internal/rpc"
	"github.com/launchdash/launchdash/server/internal/store"
)

// sourceFlags choose where chart commands read from: a local dataset file or
// a running server's gRPC API.
type sourceFlags struct {
	dataset  string
	format   string
	table    string
	remote   string
	markdown bool
}

func (f *sourceFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVar(&f.dataset, "dataset", "", "dataset file (default from config)")
	fs.StringVar(&f.format, "format", "", "dataset format: csv|sqlite (default from extension)")
	fs.StringVar(&f.table, "table", "", "SQLite table name (default from config)")
	fs.StringVar(&f.remote, "remote", "", "query a running server's gRPC API at host:port instead of a local file")
	fs.BoolVar(&f.markdown, "markdown", false, "render Markdown instead of a terminal table")
}

// open returns the dashboard to query and a function releasing it.
func (f *sourceFlags) open(cmd *cobra.Command, g *globalFlags) (rpc.DashboardServer, func(), error) {
	if f.remote != "" {
		c, err := rpc.Dial(f.remote)
		if err != nil {
			return nil, nil, err
		}
		return c, func() { c.Close() }, nil
	}

	cfg, err := loadConfig(cmd, g)
	if err != nil {
		return nil, nil, err
	}
	path, format, tbl := cfg.Dataset.Path, cfg.Dataset.Format, cfg.Dataset.Table
	if f.dataset != "" {
		path, format = f.dataset, ""
	}
	if f.format != "" {
		format = f.format
	}
	if f.table != "" {
		tbl = f.table
	}
	t, err := launch.LoadFile(path, format, tbl)
	if err != nil {
		return nil, nil, err
	}
	slider := dashboard.SliderSpec{Min: cfg.Slider.Min, Max: cfg.Slider.Max, Step: cfg.Slider.Step}
	return rpc.New(store.New(t), slider, metrics.New(nil, nil)), func() {}, nil
}

func (f *sourceFlags) render(w io.Writer, tw table.Writer) {
	if f.markdown {
		fmt.Fprintln(w, tw.RenderMarkdown())
		return
	}
	tw.SetStyle(table.StyleLight)
	fmt.Fprintln(w, tw.Render())
}

func newSitesCmd(g *globalFlags) *cobra.Command {
	src := &sourceFlags{}
	cmd := &cobra.Command{
		Use:   "sites",
		Short: "List the launch site dropdown options and the payload slider",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			d, done, err := src.open(cmd, g)
			if err != nil {
				return err
			}
			defer done()

			resp, err := d.Sites(ctx(cmd), &rpc.SitesRequest{})
			if err != nil {
				return err
			}
			tw := table.NewWriter()
			tw.SetTitle("Launch Sites")
			tw.AppendHeader(table.Row{"Label", "Value"})
			for _, s := range resp.Sites {
				tw.AppendRow(table.Row{s.Label, s.Value})
			}
			src.render(cmd.OutOrStdout(), tw)

			sl := resp.Slider
			fmt.Fprintf(cmd.OutOrStdout(), "Payload slider: %s to %s kg, step %s, initial [%s, %s]\n",
				kg(sl.Min), kg(sl.Max), kg(sl.Step), kg(sl.Initial.Low), kg(sl.Initial.High))
			return nil
		},
	}
	src.register(cmd)
	return cmd
}

func newPieCmd(g *globalFlags) *cobra.Command {
	src := &sourceFlags{}
	var site string
	cmd := &cobra.Command{
		Use:   "pie",
		Short: "Print the launch success pie chart for a site or all sites",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			d, done, err := src.open(cmd, g)
			if err != nil {
				return err
			}
			defer done()

			resp, err := d.Pie(ctx(cmd), &rpc.PieRequest{Site: site})
			if err != nil {
				return err
			}
			tw := table.NewWriter()
			tw.SetTitle("%s", resp.Title)
			tw.AppendHeader(table.Row{"Label", "Launches", "Share"})
			for _, s := range resp.Slices {
				tw.AppendRow(table.Row{s.Label, s.Count, share(s.Count, resp.Total)})
			}
			tw.AppendFooter(table.Row{"Total", resp.Total, ""})
			tw.SetColumnConfigs([]table.ColumnConfig{
				{Number: 2, Align: text.AlignRight, AlignFooter: text.AlignRight},
				{Number: 3, Align: text.AlignRight},
			})
			src.render(cmd.OutOrStdout(), tw)
			return nil
		},
	}
	cmd.Flags().StringVar(&site, "site", types.AllSites, "launch site, or ALL for every site")
	src.register(cmd)
	return cmd
}

func newScatterCmd(g *globalFlags) *cobra.Command {
	src := &sourceFlags{}
	var (
		site      string
		low, high float64
	)
	cmd := &cobra.Command{
		Use:   "scatter",
		Short: "Print the payload vs. outcome points for a site and payload range",
		Long:  "Print the payload vs. outcome points for a site and payload range.\nBoth bounds are exclusive and default to the lightest and heaviest payload.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			d, done, err := src.open(cmd, g)
			if err != nil {
				return err
			}
			defer done()

			req := &rpc.ScatterRequest{Site: site}
			if cmd.Flags().Changed("low") {
				req.Low = &low
			}
			if cmd.Flags().Changed("high") {
				req.High = &high
			}
			resp, err := d.Scatter(ctx(cmd), req)
			if err != nil {
				return err
			}
			p := resp.Selection.Payload
			tw := table.NewWriter()
			tw.SetTitle("Payload vs. Outcome for %s, (%s, %s) kg", siteName(resp.Selection.Site), kg(p.Low), kg(p.High))
			tw.AppendHeader(table.Row{"Payload Mass (kg)", "Class", "Booster Version"})
			for _, pt := range resp.Points {
				tw.AppendRow(table.Row{kg(pt.PayloadMassKg), int(pt.Class), pt.BoosterVersion})
			}
			tw.AppendFooter(table.Row{"Points", len(resp.Points), ""})
			tw.SetColumnConfigs([]table.ColumnConfig{
				{Number: 1, Align: text.AlignRight},
				{Number: 2, Align: text.AlignRight, AlignFooter: text.AlignRight},
			})
			src.render(cmd.OutOrStdout(), tw)
			return nil
		},
	}
	cmd.Flags().StringVar(&site, "site", types.AllSites, "launch site, or ALL for every site")
	cmd.Flags().Float64Var(&low, "low", 0, "exclusive lower payload bound in kg")
	cmd.Flags().Float64Var(&high, "high", 0, "exclusive upper payload bound in kg")
	src.register(cmd)
	return cmd
}

func ctx(cmd *cobra.Command) context.Context {
	if c := cmd.Context(); c != nil {
		return c
	}
	return context.Background()
}

func kg(v float64) string { return fmt.Sprintf("%g", v) }

func share(n, total int) string {
	if total == 0 {
		return "-"
	}
	return fmt.Sprintf("%.1f%%", 100*float64(n)/float64(total))
}

func siteName(site string) string {
	if site == types.AllSites {
		return types.AllSitesLabel
	}
	return site
}
