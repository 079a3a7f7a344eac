// Copyright (c) 2026 The Freyr developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// freyr runs a standalone staking-reward ledger node.
package main

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/freyrlabs/freyr/api"
	ledgerAPI "github.com/freyrlabs/freyr/api/ledger"
	"github.com/freyrlabs/freyr/cmd/freyr/httpserver"
	"github.com/freyrlabs/freyr/cmd/freyr/stepper"
	"github.com/freyrlabs/freyr/health"
	"github.com/freyrlabs/freyr/log"
	"github.com/freyrlabs/freyr/logdb"
	"github.com/freyrlabs/freyr/metrics"
)

var (
	version   string
	gitCommit string
	gitTag    string

	logger = log.WithContext("pkg", "main")
)

func fullVersion() string {
	versionMeta := "release"
	if gitTag == "" {
		versionMeta = "dev"
	}
	return fmt.Sprintf("%s-%s-%s", version, gitCommit, versionMeta)
}

func main() {
	app := cli.App{
		Version:   fullVersion(),
		Name:      "Freyr",
		Usage:     "Node of the Freyr staking-reward ledger",
		Copyright: "2026 The Freyr developers",
		Flags: []cli.Flag{
			genesisFlag,
			dataDirFlag,
			persistFlag,
			apiAddrFlag,
			apiCorsFlag,
			apiTimeoutFlag,
			apiBacktraceLimitFlag,
			apiLogsLimitFlag,
			enableAPILogsFlag,
			verbosityFlag,
			jsonLogsFlag,
			pprofFlag,
			skipLogsFlag,
			memCheckFlag,
			enableMetricsFlag,
			metricsAddrFlag,
			enableAdminFlag,
			adminAddrFlag,
			onDemandFlag,
			stepIntervalFlag,
		},
		Action: defaultAction,
		Commands: []cli.Command{
			{
				Name:  "export-logs",
				Usage: "export event and transfer logs to a JSON lines file",
				Flags: []cli.Flag{
					dataDirFlag,
					genesisFlag,
					outputFlag,
					verbosityFlag,
					jsonLogsFlag,
				},
				Action: exportLogsAction,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func defaultAction(ctx *cli.Context) error {
	defer func() { logger.Info("exited") }()

	lvl, err := readIntFromUInt64Flag(ctx.Uint64(verbosityFlag.Name))
	if err != nil {
		return errors.Wrap(err, "parse verbosity flag")
	}
	logLevel := initLogger(lvl, ctx.Bool(jsonLogsFlag.Name))

	checkAvailableMemory(ctx.Uint64(memCheckFlag.Name))

	gene := selectGenesis(ctx)

	stateDB := openStateDB()
	defer func() { logger.Info("closing state database..."); stateDB.Close() }()

	var logDB *logdb.LogDB
	var instanceDir string
	if ctx.Bool(persistFlag.Name) {
		instanceDir = makeInstanceDir(ctx, gene)
		logDB = openLogDB(instanceDir)
	} else {
		instanceDir = "Memory"
		logDB = openMemLogDB()
	}
	defer func() { logger.Info("closing log database..."); logDB.Close() }()

	ledger := initRuntime(gene, stateDB, logDB)

	exitSignal := handleExitSignal()

	healthTracker := &health.Health{}

	if ctx.Bool(enableMetricsFlag.Name) {
		metrics.InitializePrometheusMetrics()
		url, closeFunc, err := httpserver.StartMetricsServer(ctx.String(metricsAddrFlag.Name))
		if err != nil {
			return fmt.Errorf("unable to start metrics server - %w", err)
		}
		logger.Info("metrics server started", "url", url)
		defer closeFunc()
	}

	if ctx.Bool(enableAdminFlag.Name) {
		url, closeFunc, err := httpserver.StartAdminServer(ctx.String(adminAddrFlag.Name), logLevel, healthTracker)
		if err != nil {
			return fmt.Errorf("unable to start admin server - %w", err)
		}
		logger.Info("admin server started", "url", url)
		defer closeFunc()
	}

	onDemand := ctx.Bool(onDemandFlag.Name)

	apiHandler, apiCloser := api.New(
		ledger,
		logDB,
		ledgerAPI.InfoFromGenesis(gene, onDemand),
		api.Options{
			Version:         fullVersion(),
			StepInterval:    ctx.Uint64(stepIntervalFlag.Name),
			AllowedOrigins:  ctx.String(apiCorsFlag.Name),
			BacktraceLimit:  ctx.Uint64(apiBacktraceLimitFlag.Name),
			PprofOn:         ctx.Bool(pprofFlag.Name),
			SkipLogs:        ctx.Bool(skipLogsFlag.Name),
			EnableReqLogger: ctx.Bool(enableAPILogsFlag.Name),
			EnableMetrics:   ctx.Bool(enableMetricsFlag.Name),
			LogsLimit:       ctx.Uint64(apiLogsLimitFlag.Name),
		})
	defer func() { logger.Info("closing API..."); apiCloser() }()

	apiURL, srvCloser := startAPIServer(ctx, apiHandler, gene.ID())
	defer func() { logger.Info("stopping API server..."); srvCloser() }()

	printStartupMessage(gene, ledger, instanceDir, apiURL)

	healthTracker.Bootstrapped()

	return stepper.New(ledger, healthTracker, stepper.Options{
		Interval: ctx.Uint64(stepIntervalFlag.Name),
		OnDemand: onDemand,
	}).Run(exitSignal)
}
