package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"zheatmap/adapters/render"
	"zheatmap/adapters/tabular"
	"zheatmap/app"
	"zheatmap/internal"
	"zheatmap/internal/colormap"
	"zheatmap/internal/config"
	"zheatmap/internal/errors"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	errorColor   = color.New(color.FgRed)
	successColor = color.New(color.FgGreen)
)

// options are the raw flag values; they only override the loaded
// configuration when set on the command line
type options struct {
	output     string
	title      string
	vmin       float64
	vmax       float64
	colorbar   bool
	configPath string
	verbose    bool

	cmap          string
	width         float64
	height        float64
	dpi           int
	xtickInterval int
	xlabel        string
	ylabel        string
	label         string
	timeColumn    string
	prefix        string
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes the command line and returns the process exit code
func run(args []string, stdout, stderr io.Writer) int {
	if args == nil {
		args = []string{}
	}
	cmd := newRootCmd(stdout, stderr)
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	if err := cmd.ExecuteContext(context.Background()); err != nil {
		errorColor.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	defaults := config.Default()
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "heatmap <input-file>",
		Short: "Render a z-score heatmap from a table of per-subject time series",
		Long: `Render a z-score heatmap from a CSV, TSV or XLSX file.

Every column whose name starts with the subject prefix (default "Mouse") becomes
one heatmap row; each table row is one time point. The color scale runs from
--vmin to --vmax, each computed from the data when omitted.

Settings are read from built-in defaults, then a YAML file (--config or
HEATMAP_CONFIG), then HEATMAP_* environment variables, then flags.`,
		Example:       "  heatmap data.csv -o heatmap.png --vmin -2 --vmax 2 --colorbar",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHeatmap(cmd, opts, args[0], stdout, stderr)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.output, "output", "o", "", "Output image path (default <input-stem>_heatmap.png)")
	flags.StringVarP(&opts.title, "title", "t", "", "Heatmap title (default \"Z-score Heatmap (n=<subjects>)\")")
	flags.Float64Var(&opts.vmin, "vmin", 0, "Lower end of the color scale (default: data minimum)")
	flags.Float64Var(&opts.vmax, "vmax", 0, "Upper end of the color scale (default: data maximum)")
	flags.BoolVar(&opts.colorbar, "colorbar", false, "Also write vertical and horizontal colorbar images")
	flags.StringVar(&opts.configPath, "config", "", "YAML configuration file")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "Enable debug logging")

	flags.StringVar(&opts.cmap, "cmap", defaults.Render.Colormap, "Color map name (see 'heatmap colormaps')")
	flags.Float64Var(&opts.width, "width", defaults.Render.Width, "Figure width in inches")
	flags.Float64Var(&opts.height, "height", defaults.Render.Height, "Figure height in inches")
	flags.IntVar(&opts.dpi, "dpi", defaults.Render.DPI, "Output resolution in dots per inch")
	flags.IntVar(&opts.xtickInterval, "xtick-interval", defaults.Render.XTickInterval, "Label every Nth time point")
	flags.StringVar(&opts.xlabel, "xlabel", defaults.Render.XLabel, "X axis label")
	flags.StringVar(&opts.ylabel, "ylabel", defaults.Render.YLabel, "Y axis label")
	flags.StringVar(&opts.label, "label", defaults.Render.ValueLabel, "Colorbar label")
	flags.StringVar(&opts.timeColumn, "time-column", defaults.Input.TimeColumn, "Name of the time column (informational)")
	flags.StringVar(&opts.prefix, "mouse-prefix", defaults.Input.SubjectPrefix, "Prefix selecting the subject columns")

	cmd.AddCommand(newColormapsCmd(stdout))
	return cmd
}

func newColormapsCmd(stdout io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "colormaps",
		Short: "List the available color maps",
		Long:  `List the available color maps. Append "_r" to any name to reverse it.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range colormap.Names() {
				fmt.Fprintln(stdout, name)
			}
			return nil
		},
	}
}

func runHeatmap(cmd *cobra.Command, opts *options, input string, stdout, stderr io.Writer) error {
	configPath := opts.configPath
	if configPath == "" {
		configPath = os.Getenv("HEATMAP_CONFIG")
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if err := applyFlags(cmd, opts, cfg); err != nil {
		return err
	}

	level := internal.ParseLogLevel(cfg.Log.Level)
	if opts.verbose {
		level = internal.LogLevelDebug
	}
	logger := internal.NewLogger(stderr, level)
	defer logger.Sync()

	req := app.HeatmapRequest{
		InputPath:     input,
		OutputPath:    opts.output,
		Title:         opts.title,
		XLabel:        cfg.Render.XLabel,
		YLabel:        cfg.Render.YLabel,
		ValueLabel:    cfg.Render.ValueLabel,
		Colormap:      cfg.Render.Colormap,
		WidthInches:   cfg.Render.Width,
		HeightInches:  cfg.Render.Height,
		DPI:           cfg.Render.DPI,
		XTickInterval: cfg.Render.XTickInterval,
		TimeColumn:    cfg.Input.TimeColumn,
		SubjectPrefix: cfg.Input.SubjectPrefix,
		Colorbar:      opts.colorbar,
	}
	if cmd.Flags().Changed("vmin") {
		v := opts.vmin
		req.Bounds.Low = &v
	}
	if cmd.Flags().Changed("vmax") {
		v := opts.vmax
		req.Bounds.High = &v
	}

	svc := app.NewHeatmapService(
		tabular.NewReader(logger),
		render.NewHeatmapRenderer(),
		render.NewLegendRenderer(),
		render.NewPNGWriter(logger),
		logger,
	)
	result, err := svc.Run(cmd.Context(), req)
	if err != nil {
		return err
	}

	successColor.Fprintf(stdout, "Heatmap saved to %s\n", result.OutputPath)
	for _, path := range result.LegendPaths {
		successColor.Fprintf(stdout, "Colorbar saved to %s\n", path)
	}
	return nil
}

// applyFlags copies explicitly set flags over the loaded configuration
func applyFlags(cmd *cobra.Command, opts *options, cfg *config.Config) error {
	flags := cmd.Flags()
	if flags.Changed("cmap") {
		cfg.Render.Colormap = opts.cmap
	}
	if flags.Changed("width") {
		cfg.Render.Width = opts.width
	}
	if flags.Changed("height") {
		cfg.Render.Height = opts.height
	}
	if flags.Changed("dpi") {
		cfg.Render.DPI = opts.dpi
	}
	if flags.Changed("xtick-interval") {
		cfg.Render.XTickInterval = opts.xtickInterval
	}
	if flags.Changed("xlabel") {
		cfg.Render.XLabel = opts.xlabel
	}
	if flags.Changed("ylabel") {
		cfg.Render.YLabel = opts.ylabel
	}
	if flags.Changed("label") {
		cfg.Render.ValueLabel = opts.label
	}
	if flags.Changed("time-column") {
		cfg.Input.TimeColumn = opts.timeColumn
	}
	if flags.Changed("mouse-prefix") {
		cfg.Input.SubjectPrefix = opts.prefix
	}
	if err := cfg.Validate(); err != nil {
		return errors.Wrap(err, "invalid command line options")
	}
	return nil
}
