package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/ChristianF88/lsdsort/config"
	"github.com/ChristianF88/lsdsort/intutils"
	"github.com/ChristianF88/lsdsort/version"
	cli "github.com/urfave/cli/v2"
)

// parseDate attempts to parse the build date
func parseDate(d string) time.Time {
	t, err := time.Parse(time.RFC3339, d)
	if err != nil {
		return time.Now()
	}
	return t
}

// Shared flag definitions to eliminate duplication
var (
	// Configuration flags
	configFlag = &cli.StringFlag{
		Name:  "config",
		Usage: "Path to configuration file (mutually exclusive with other flags)",
	}
	widthFlag = &cli.IntFlag{
		Name:  "width",
		Usage: "Integer width in bits: 8, 16, 32 or 64",
		Value: config.DefaultWidth,
	}

	// Output flags
	plotPathFlag = &cli.StringFlag{
		Name:  "plotPath",
		Usage: "Path where to save the bucket heatmap (e.g., '/path/to/buckets.html'). If not provided, no plot will be generated.",
	}
	outputFlag = &cli.StringFlag{
		Name:  "output",
		Usage: "Path where to write the sorted values, one per line",
	}
	compactFlag = &cli.BoolFlag{
		Name:  "compact",
		Usage: "Output compact JSON (no pretty printing)",
		Value: false,
	}
	plainFlag = &cli.BoolFlag{
		Name:  "plain",
		Usage: "Output plain text format for easy readability",
		Value: false,
	}

	// Live-specific flags
	portFlag = &cli.IntFlag{
		Name:  "port",
		Usage: "Port to listen on for lumberjack clients",
	}
	windowMaxTimeFlag = &cli.DurationFlag{
		Name:  "windowMaxTime",
		Usage: "Maximum age of values in the sliding window",
		Value: config.DefaultWindowMaxTime,
	}
	windowMaxSizeFlag = &cli.IntFlag{
		Name:  "windowMaxSize",
		Usage: "Maximum number of values in the sliding window",
		Value: config.DefaultWindowMaxSize,
	}
	sleepBetweenIterationsFlag = &cli.IntFlag{
		Name:  "sleepBetweenIterations",
		Usage: "Sleep duration between iterations in seconds",
		Value: config.DefaultSleepBetweenIterations,
	}
	quantilesFlag = &cli.Float64SliceFlag{
		Name:  "quantiles",
		Usage: "Quantiles of the sorted window to report (e.g., 0.5,0.99)",
	}

	// Static-specific flags
	inputFlag = &cli.StringFlag{
		Name:  "input",
		Usage: "Path to the file holding the integers",
	}
	fromFlag = &cli.IntFlag{
		Name:  "from",
		Usage: "First index of the range to sort (inclusive)",
		Value: 0,
	}
	toFlag = &cli.IntFlag{
		Name:  "to",
		Usage: "End index of the range to sort (exclusive), end of input when not set",
	}
	verifyFlag = &cli.BoolFlag{
		Name:  "verify",
		Usage: "Compare the result against a reference sort",
		Value: false,
	}
	tuiFlag = &cli.BoolFlag{
		Name:  "tui",
		Usage: "Launch TUI (Terminal User Interface) mode",
		Value: false,
	}
)

// Shared validation functions
func validateConfigModeFlags(c *cli.Context, allowedFlags []string) error {
	allowed := make(map[string]bool)
	for _, flag := range allowedFlags {
		allowed[flag] = true
	}

	flagsToCheck := []string{
		"port", "windowMaxTime", "windowMaxSize", "sleepBetweenIterations", "quantiles",
		"width", "input", "from", "to", "output", "plotPath", "verify",
		"tui", "compact", "plain",
	}

	for _, flag := range flagsToCheck {
		if c.IsSet(flag) && !allowed[flag] {
			return fmt.Errorf("when using --config, only %v flags are allowed", allowedFlags)
		}
	}
	return nil
}

func validateOutputModes(c *cli.Context) error {
	set := 0
	for _, flag := range []string{"compact", "plain", "tui"} {
		if c.Bool(flag) {
			set++
		}
	}
	if set > 1 {
		return fmt.Errorf("--compact, --plain and --tui are mutually exclusive")
	}
	return nil
}

func validateWidth(width int) error {
	if !intutils.IsValidWidth(width) {
		return fmt.Errorf("invalid width %d: must be one of %v", width, intutils.SupportedWidths)
	}
	return nil
}

// validateOutputPath checks that the directory of an output file exists
func validateOutputPath(kind, path string) error {
	if path != "" {
		dir := filepath.Dir(path)
		if dir == "." {
			dir, _ = os.Getwd()
		}
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			return fmt.Errorf("%s directory does not exist: %s", kind, dir)
		}
	}
	return nil
}

func validateInputFileExists(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return fmt.Errorf("input file does not exist: %s", path)
	}
	return nil
}

func validateQuantiles(quantiles []float64) error {
	for _, q := range quantiles {
		if q < 0 || q > 1 {
			return fmt.Errorf("invalid quantile %v: must be within [0, 1]", q)
		}
	}
	return nil
}

// Command handler functions to reduce deep nesting

// handleLiveCommand processes the live command with proper separation of concerns
func handleLiveCommand(c *cli.Context) error {
	configPath := c.String("config")
	if configPath != "" {
		return handleLiveConfigMode(c, configPath)
	}
	return handleLiveFlagsMode(c)
}

// handleLiveConfigMode handles live command when using config file
func handleLiveConfigMode(c *cli.Context, configPath string) error {
	if err := validateConfigModeFlags(c, []string{"compact", "plain"}); err != nil {
		return err
	}
	if err := validateOutputModes(c); err != nil {
		return err
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := cfg.ValidateLive(); err != nil {
		return fmt.Errorf("invalid live configuration: %w", err)
	}
	if err := validateQuantiles(cfg.Live.Quantiles); err != nil {
		return err
	}

	fmt.Println("Running in live mode from config file:")
	LiveFromConfig(cfg, OutputConfig{Compact: c.Bool("compact"), Plain: c.Bool("plain")})
	return nil
}

// handleLiveFlagsMode handles live command when using CLI flags only
func handleLiveFlagsMode(c *cli.Context) error {
	if !c.IsSet("port") {
		return fmt.Errorf("port is required when not using --config")
	}
	if c.Bool("tui") {
		return fmt.Errorf("--tui is only available for the static command")
	}
	if err := validateOutputModes(c); err != nil {
		return err
	}
	if err := validateWidth(c.Int("width")); err != nil {
		return err
	}
	if c.Int("windowMaxSize") < 0 || c.Int("sleepBetweenIterations") < 0 || c.Duration("windowMaxTime") < 0 {
		return fmt.Errorf("windowMaxSize, windowMaxTime and sleepBetweenIterations must not be negative")
	}
	if err := validateQuantiles(c.Float64Slice("quantiles")); err != nil {
		return err
	}

	fmt.Println("Running in live mode with CLI flags:")
	Live(
		strconv.Itoa(c.Int("port")),
		c.Int("width"),
		c.Duration("windowMaxTime"),
		c.Int("windowMaxSize"),
		c.Int("sleepBetweenIterations"),
		c.Float64Slice("quantiles"),
		OutputConfig{Compact: c.Bool("compact"), Plain: c.Bool("plain")},
	)
	return nil
}

// handleStaticCommand processes the static command with proper separation of concerns
func handleStaticCommand(c *cli.Context) error {
	configPath := c.String("config")
	if configPath != "" {
		return handleStaticConfigMode(c, configPath)
	}
	return handleStaticFlagsMode(c)
}

// handleStaticConfigMode handles static command when using config file
func handleStaticConfigMode(c *cli.Context, configPath string) error {
	if err := validateConfigModeFlags(c, []string{"tui", "compact", "plain"}); err != nil {
		return err
	}
	if err := validateOutputModes(c); err != nil {
		return err
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := cfg.ValidateStatic(); err != nil {
		return fmt.Errorf("invalid static configuration: %w", err)
	}

	if err := validateOutputPath("plot", cfg.Static.PlotPath); err != nil {
		return err
	}
	if err := validateOutputPath("output", cfg.GetOutputFile()); err != nil {
		return err
	}

	return StaticFromConfig(cfg, c.Bool("compact"), c.Bool("plain"), c.Bool("tui"))
}

// handleStaticFlagsMode handles static command when using CLI flags only
func handleStaticFlagsMode(c *cli.Context) error {
	if !c.IsSet("input") {
		return fmt.Errorf("input is required when not using --config")
	}

	if err := validateInputFileExists(c.String("input")); err != nil {
		return err
	}
	if err := validateOutputModes(c); err != nil {
		return err
	}
	if err := validateWidth(c.Int("width")); err != nil {
		return err
	}
	if err := validateOutputPath("plot", c.String("plotPath")); err != nil {
		return err
	}
	if err := validateOutputPath("output", c.String("output")); err != nil {
		return err
	}

	var to *int
	if c.IsSet("to") {
		v := c.Int("to")
		to = &v
	}

	return Static(
		c.String("input"),
		c.Int("width"),
		c.Int("from"),
		to,
		c.String("output"),
		c.String("plotPath"),
		c.Bool("verify"),
		OutputConfig{
			Compact: c.Bool("compact"),
			Plain:   c.Bool("plain"),
			TUI:     c.Bool("tui"),
		},
	)
}

var App = &cli.App{
	Name:     "lsdsort",
	Usage:    "Radix sort integers from a file or a live lumberjack stream",
	Version:  version.Version,
	Compiled: parseDate(version.Date),
	Commands: []*cli.Command{
		{
			Name:  "live",
			Usage: "Sort a sliding window of integers received over lumberjack",
			Flags: []cli.Flag{
				// Configuration
				configFlag,
				widthFlag,
				// Live-specific flags
				portFlag,
				windowMaxTimeFlag,
				windowMaxSizeFlag,
				sleepBetweenIterationsFlag,
				quantilesFlag,
				// Output flags
				compactFlag,
				plainFlag,
			},
			Action: handleLiveCommand,
		},
		{
			Name:  "static",
			Usage: "Sort a range of the integers in a file",
			Flags: []cli.Flag{
				// Configuration
				configFlag,
				widthFlag,
				// Static-specific flags
				inputFlag,
				fromFlag,
				toFlag,
				verifyFlag,
				tuiFlag,
				// Output flags
				outputFlag,
				plotPathFlag,
				compactFlag,
				plainFlag,
			},
			Action: handleStaticCommand,
		},
	},
}
