// Package cli implements the CLI of the ntdcarbon pipeline app
package cli

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kingpin/v2"
	"github.com/go-kit/log/level"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/prometheus/common/promlog"
	"github.com/prometheus/common/promlog/flag"
	"github.com/prometheus/common/version"

	"github.com/ntdcarbon/ntdcarbon/internal/common"
	"github.com/ntdcarbon/ntdcarbon/pkg/awards"
	"github.com/ntdcarbon/ntdcarbon/pkg/models"
	"github.com/ntdcarbon/ntdcarbon/pkg/pipeline"
	"github.com/ntdcarbon/ntdcarbon/pkg/sources"
	"github.com/ntdcarbon/ntdcarbon/pkg/store"
)

const appName = "ntdcarbon"

// NTDCarbonAppConfig contains the file based configuration of the pipeline.
type NTDCarbonAppConfig struct {
	Pipeline NTDCarbonConfig `yaml:"ntdcarbon"`
}

// NTDCarbonConfig contains the source settings of the pipeline.
type NTDCarbonConfig struct {
	Sources SourcesConfig `yaml:"sources"`
}

// SourcesConfig overrides the dataset endpoints. Empty fields keep the
// built-in defaults.
type SourcesConfig struct {
	ProfileURL string   `yaml:"profile_url"`
	EnergyURL  string   `yaml:"energy_url"`
	ServiceURL string   `yaml:"service_url"`
	States     []string `yaml:"states"`
}

// NTDCarbonApp represents the `ntdcarbon` cli.
type NTDCarbonApp struct {
	appName string
	App     *kingpin.Application
}

// NewNTDCarbonApp creates a new NTDCarbonApp instance.
func NewNTDCarbonApp() (*NTDCarbonApp, error) {
	return &NTDCarbonApp{
		appName: appName,
		App:     kingpin.New(appName, "Transit emissions pipeline over NTD and state electricity data."),
	}, nil
}

// Main is the entry point of the `ntdcarbon` command.
func (b *NTDCarbonApp) Main() error {
	var (
		configFile = b.App.Flag(
			"config.file",
			"Path to ntdcarbon configuration file.",
		).Envar("NTDCARBON_CONFIG_FILE").Default("").String()
		cacheDir = b.App.Flag(
			"cache.dir",
			"Directory of the on-disk fetch cache.",
		).Default("cache").String()
		dataPath = b.App.Flag(
			"data.path",
			"Directory of the pipeline database.",
		).Default("data").String()
		outputCSV = b.App.Flag(
			"output.csv",
			"Path the finished emissions table is exported to as CSV. Disabled when empty.",
		).Default("").String()
		fetchTimeout = b.App.Flag(
			"fetch.timeout",
			"Timeout of each source fetch request.",
		).Default("60s").Duration()
	)

	promlogConfig := &promlog.Config{}
	flag.AddFlags(b.App, promlogConfig)
	b.App.Version(version.Print(b.appName))
	b.App.UsageWriter(os.Stdout)
	b.App.HelpFlag.Short('h')

	if _, err := b.App.Parse(os.Args[1:]); err != nil {
		return fmt.Errorf("failed to parse CLI flags: %w", err)
	}

	// Make config from file when one is given
	config := &NTDCarbonAppConfig{}

	if *configFile != "" {
		var err error

		config, err = common.MakeConfig[NTDCarbonAppConfig](*configFile)
		if err != nil {
			return fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	// Set logger here after properly configuring promlog
	logger := promlog.New(promlogConfig)

	level.Info(logger).Log("msg", fmt.Sprintf("Starting %s", b.appName), "version", version.Info())

	// Create context that listens for the interrupt signal from the OS.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pipe, err := pipeline.New(pipeline.Config{
		Logger: logger,
		Sources: sources.Config{
			CacheDir:   *cacheDir,
			ProfileURL: config.Pipeline.Sources.ProfileURL,
			EnergyURL:  config.Pipeline.Sources.EnergyURL,
			ServiceURL: config.Pipeline.Sources.ServiceURL,
			States:     config.Pipeline.Sources.States,
			Client:     &http.Client{Timeout: *fetchTimeout},
		},
	})
	if err != nil {
		level.Error(logger).Log("msg", "Failed to create pipeline", "err", err)

		return err
	}

	outcome, err := pipe.Run(ctx)
	if err != nil {
		level.Error(logger).Log("msg", "Pipeline run failed", "err", err)

		return err
	}

	// Persist the finished table and run record
	db, err := store.New(*dataPath, logger)
	if err != nil {
		level.Error(logger).Log("msg", "Failed to open pipeline DB", "err", err)

		return err
	}
	defer db.Close()

	if err := db.SaveOutcome(outcome.Run, outcome.Rows); err != nil {
		level.Error(logger).Log("msg", "Failed to persist outcome", "err", err)

		return err
	}

	if *outputCSV != "" {
		if err := store.WriteCSV(*outputCSV, outcome.Rows); err != nil {
			level.Error(logger).Log("msg", "Failed to export CSV", "err", err)

			return err
		}

		level.Info(logger).Log("msg", "Exported emissions table", "path", *outputCSV)
	}

	printSummary(outcome.Summary)

	return nil
}

// printSummary renders the award winners and median context metrics.
func printSummary(summary *awards.Summary) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetStyle(table.StyleLight)
	t.Style().Format.Header = text.FormatUpper

	t.AppendHeader(table.Row{"Award", "Agency", "Mode", "Value"})

	appendAward := func(name string, row *models.EmissionsRow, value string) {
		if row == nil {
			t.AppendRow(table.Row{name, "-", "-", "-"})

			return
		}

		t.AppendRow(table.Row{name, row.AgencyName, row.Mode, value})
	}

	appendAward("Greenest", summary.Greenest, perMile(summary.Greenest))
	appendAward("Most emissions avoided", summary.MostAvoided, avoided(summary.MostAvoided))
	appendAward("Best electrified", summary.BestElectrified, share(summary.BestElectrified))
	appendAward("Worst polluter", summary.WorstPolluter, perMile(summary.WorstPolluter))

	t.AppendFooter(table.Row{"Median lbs CO2/mile", "", "", fmt.Sprintf("%.4f", summary.MedianEmissionsPerMile)})
	t.AppendFooter(table.Row{"Median lbs CO2 avoided", "", "", fmt.Sprintf("%.0f", summary.MedianEmissionsAvoided)})

	t.Render()
}

func perMile(row *models.EmissionsRow) string {
	if row == nil {
		return ""
	}

	return fmt.Sprintf("%.4f lbs CO2/mile", row.EmissionsPerMile)
}

func avoided(row *models.EmissionsRow) string {
	if row == nil {
		return ""
	}

	return fmt.Sprintf("%.0f lbs CO2", row.EmissionsAvoided)
}

func share(row *models.EmissionsRow) string {
	if row == nil {
		return ""
	}

	return fmt.Sprintf("%.1f%% electric", row.ElectricShare*100)
}
