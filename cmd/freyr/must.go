// Copyright (c) 2026 The Freyr developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math/big"
	"net"
	"net/http"
	"os"
	"os/user"
	"path/filepath"
	"runtime"
	"time"

	"github.com/elastic/gosigar"
	"github.com/ethereum/go-ethereum/common"
	"github.com/mattn/go-isatty"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/freyrlabs/freyr/co"
	"github.com/freyrlabs/freyr/freyr"
	"github.com/freyrlabs/freyr/genesis"
	"github.com/freyrlabs/freyr/log"
	"github.com/freyrlabs/freyr/logdb"
	"github.com/freyrlabs/freyr/memdb"
	rt "github.com/freyrlabs/freyr/runtime"
	"github.com/freyrlabs/freyr/state"
)

func fatal(args ...any) {
	var w io.Writer
	if runtime.GOOS == "windows" {
		// The SameFile check below doesn't work on Windows.
		// stdout is unlikely to get redirected though, so just print there.
		w = os.Stdout
	} else {
		outf, _ := os.Stdout.Stat()
		errf, _ := os.Stderr.Stat()
		if outf != nil && errf != nil && os.SameFile(outf, errf) {
			w = os.Stderr
		} else {
			w = io.MultiWriter(os.Stdout, os.Stderr)
		}
	}
	fmt.Fprint(w, "Fatal: ")
	fmt.Fprintln(w, args...)
	os.Exit(1)
}

func initLogger(lvl int, jsonLogs bool) *slog.LevelVar {
	level := new(slog.LevelVar)
	level.Set(log.FromLegacyLevel(lvl))

	output := io.Writer(os.Stdout)
	var handler slog.Handler
	if jsonLogs {
		handler = log.JSONHandlerWithLevel(output, level)
	} else {
		useColor := isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
		handler = log.NewTerminalHandlerWithLevel(output, level, useColor)
	}
	log.SetDefault(log.NewLogger(handler))

	return level
}

// checkAvailableMemory refuses to boot when the host has less free memory
// than minMB. A value of 0 skips the check.
func checkAvailableMemory(minMB uint64) {
	if minMB == 0 {
		return
	}
	var mem gosigar.Mem
	if err := mem.Get(); err != nil {
		logger.Warn("failed to read memory stats, skipping boot memory check", "err", err)
		return
	}
	availMB := mem.ActualFree / 1024 / 1024
	if availMB < minMB {
		fatal(fmt.Sprintf("insufficient available memory [%v MB], at least %v MB required", availMB, minMB))
	}
}

func selectGenesis(ctx *cli.Context) *genesis.Genesis {
	path := ctx.String(genesisFlag.Name)
	if path == "" {
		return genesis.NewDevnet()
	}

	file, err := os.Open(path)
	if err != nil {
		fatal(fmt.Sprintf("open genesis file: %v", err))
	}
	defer file.Close()

	decoder := json.NewDecoder(file)
	decoder.DisallowUnknownFields()

	var gen genesis.CustomGenesis
	if err := decoder.Decode(&gen); err != nil {
		fatal(fmt.Sprintf("decode genesis file: %v", err))
	}

	customGen, err := genesis.NewCustomNet(&gen)
	if err != nil {
		fatal(fmt.Sprintf("build genesis: %v", err))
	}
	return customGen
}

func makeDataDir(ctx *cli.Context) string {
	dataDir := ctx.String(dataDirFlag.Name)
	if dataDir == "" {
		fatal(fmt.Sprintf("unable to infer default data dir, use -%s to specify", dataDirFlag.Name))
	}
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		fatal(fmt.Sprintf("create data dir [%v]: %v", dataDir, err))
	}
	return dataDir
}

func makeInstanceDir(ctx *cli.Context, gene *genesis.Genesis) string {
	dataDir := makeDataDir(ctx)

	instanceDir := filepath.Join(dataDir, fmt.Sprintf("instance-%x", gene.ID().Bytes()[24:]))
	if err := os.MkdirAll(instanceDir, 0700); err != nil {
		fatal(fmt.Sprintf("create instance dir [%v]: %v", instanceDir, err))
	}
	return instanceDir
}

func openStateDB() *memdb.MemDB {
	db, err := memdb.New()
	if err != nil {
		fatal(fmt.Sprintf("open state database: %v", err))
	}
	return db
}

func openLogDB(instanceDir string) *logdb.LogDB {
	dir := filepath.Join(instanceDir, "logs.db")
	db, err := logdb.New(dir)
	if err != nil {
		fatal(fmt.Sprintf("open log database [%v]: %v", dir, err))
	}
	return db
}

func openMemLogDB() *logdb.LogDB {
	db, err := logdb.NewMem()
	if err != nil {
		fatal(fmt.Sprintf("open log database: %v", err))
	}
	return db
}

func initRuntime(gene *genesis.Genesis, mainDB *memdb.MemDB, logDB *logdb.LogDB) *rt.Runtime {
	st := state.New(mainDB)
	if err := gene.Build(st); err != nil {
		fatal("build genesis state: ", err)
	}

	ledger, err := rt.New(st, logDB)
	if err != nil {
		fatal("initialize runtime: ", err)
	}
	return ledger
}

func startAPIServer(ctx *cli.Context, handler http.Handler, genesisID freyr.Bytes32) (string, func()) {
	addr := ctx.String(apiAddrFlag.Name)
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		fatal(fmt.Sprintf("listen API addr [%v]: %v", addr, err))
	}
	timeout := ctx.Uint64(apiTimeoutFlag.Name)
	if timeout > 0 {
		handler = handleAPITimeout(handler, time.Duration(timeout)*time.Millisecond)
	}
	handler = handleXGenesisID(handler, genesisID)
	handler = handleXFreyrVersion(handler)
	handler = requestBodyLimit(handler)
	srv := &http.Server{Handler: handler}
	var goes co.Goes
	goes.Go(func() {
		srv.Serve(listener)
	})
	return "http://" + listener.Addr().String() + "/", func() {
		srv.Close()
		goes.Wait()
	}
}

func printStartupMessage(
	gene *genesis.Genesis,
	ledger *rt.Runtime,
	instanceDir string,
	apiURL string,
) {
	step, err := ledger.Step()
	if err != nil {
		fatal("read current step: ", err)
	}

	fmt.Printf(`Starting %v
    Network      [ %v %v ]
    Current step [ %v ]
    Instance dir [ %v ]
    API portal   [ %v ]
`,
		common.MakeName("Freyr", fullVersion()),
		gene.ID(), gene.Name(),
		step,
		instanceDir,
		apiURL)

	if gene.Name() == "devnet" {
		printDevAccountsTable(ledger)
	}
}

func printDevAccountsTable(ledger *rt.Runtime) {
	tableHead := `
┌────────────────────────────────────────────┬──────────────────────────┐
│                   Address                  │      Stake Balance       │`
	tableContent := `
├────────────────────────────────────────────┼──────────────────────────┤
│ %v │ %-24v │`
	tableEnd := `
└────────────────────────────────────────────┴──────────────────────────┘`

	stake := ledger.StakeToken()
	info := tableHead
	for _, a := range genesis.DevAccounts() {
		balance, err := stake.BalanceOf(a.Address)
		if err != nil {
			fatal("read dev account balance: ", err)
		}
		info += fmt.Sprintf(tableContent,
			a.Address,
			fmt.Sprintf("%v %v", new(big.Int).Div(balance, freyr.RewardScale), stake.Symbol()),
		)
	}
	info += tableEnd + "\r\n"

	fmt.Print(info)
}

// copy from go-ethereum
func defaultDataDir() string {
	// Try to place the data folder in the user's home dir
	if home := homeDir(); home != "" {
		switch runtime.GOOS {
		case "darwin":
			return filepath.Join(home, "Library", "Application Support", "org.freyrlabs.freyr")
		case "windows":
			return filepath.Join(home, "AppData", "Roaming", "org.freyrlabs.freyr")
		default:
			return filepath.Join(home, ".org.freyrlabs.freyr")
		}
	}
	// As we cannot guess a stable location, return empty and handle later
	return ""
}

func homeDir() string {
	if home := os.Getenv("HOME"); home != "" {
		return home
	}
	if usr, err := user.Current(); err == nil {
		return usr.HomeDir
	}
	return ""
}
