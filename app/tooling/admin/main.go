// This program performs administrative tasks for the ledger: building a
// local chain to inspect and breaking one to watch validation fail.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/ardanlabs/conf/v3"
	"github.com/brycechampaign/education-cryptomoji/app/tooling/admin/commands"
	"github.com/brycechampaign/education-cryptomoji/foundation/logger"
	"go.uber.org/zap"
)

// build is the git version of this program. It is set using build flags in the makefile.
var build = "develop"

type config struct {
	conf.Version
	Args       conf.Args
	Accounts   string `conf:"default:zblock/accounts/"`
	Difficulty uint   `conf:"default:2"`
	Reward     int64  `conf:"default:10"`
	Blocks     int    `conf:"default:3"`
}

func main() {

	// Construct the application logger.
	log, err := logger.New("ADMIN")
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	defer log.Sync()

	// Perform the startup and shutdown sequence.
	if err := run(log); err != nil {
		if !errors.Is(err, commands.ErrHelp) {
			log.Errorw("admin", "ERROR", err)
		}
		log.Sync()
		os.Exit(1)
	}
}

func run(log *zap.SugaredLogger) error {
	cfg := config{
		Version: conf.Version{
			Build: build,
			Desc:  "cryptomoji ledger admin tool",
		},
	}

	const prefix = "ADMIN"
	help, err := conf.Parse(prefix, &cfg)
	if err != nil {
		if errors.Is(err, conf.ErrHelpWanted) {
			fmt.Println(help)
			return nil
		}
		return fmt.Errorf("parsing config: %w", err)
	}

	return processCommands(cfg.Args, log, cfg)
}

// processCommands handles the execution of the commands specified on
// the command line.
func processCommands(args conf.Args, log *zap.SugaredLogger, cfg config) error {
	demo := commands.Demo{
		Accounts:   cfg.Accounts,
		Difficulty: cfg.Difficulty,
		Reward:     cfg.Reward,
		Blocks:     cfg.Blocks,
	}

	switch args.Num(0) {
	case "demo":
		if err := commands.RunDemo(log, demo); err != nil {
			return fmt.Errorf("running demo: %w", err)
		}

	case "tamper":
		if err := commands.RunTamper(log, demo); err != nil {
			return fmt.Errorf("running tamper: %w", err)
		}

	default:
		fmt.Println("demo:    mine a local chain with the account keys and audit it")
		fmt.Println("tamper:  mine a local chain, break it and audit it again")
		fmt.Println("provide a command to get more help.")
		return commands.ErrHelp
	}

	return nil
}
