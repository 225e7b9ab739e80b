package commands

import (
	"context"
	"flag"
	"fmt"

	"github.com/awakening-overlay/overlay-uploader/config"
	"github.com/awakening-overlay/overlay-uploader/uploader"
)

// RunCmd is the default command, executed when no command is given on the command line.
var RunCmd = Run{
	command: command{
		debug: false,
	},
}

type Run struct {
	command
}

func (cmd *Run) Name() string {
	return "run"
}

func (cmd *Run) Description() string {
	return "Checks access to the configured spreadsheet and reports the first empty row"
}

func (cmd *Run) Usage() string {
	return "[--spreadsheet <ID|URL>] [--sheet <name>]"
}

func (cmd *Run) Help() {
	fmt.Println()
	fmt.Printf("  Usage: %s [--debug] [--config <file>] [run] [options]\n", APP)
	fmt.Println()
	fmt.Println("  Authorises access to the configured Google Sheets spreadsheet (if necessary), checks that")
	fmt.Println("  the spreadsheet is accessible and reports the first empty row of the worksheet")
	fmt.Println()

	helpOptions(cmd.FlagSet())

	fmt.Println()
	fmt.Println("  Examples:")
	fmt.Printf("    %s\n", APP)
	fmt.Printf("    %s --debug run --sheet \"Sheet1\"\n", APP)
	fmt.Println()
}

func (cmd *Run) FlagSet() *flag.FlagSet {
	return cmd.flagset("run")
}

func (cmd *Run) Execute(args ...any) error {
	ctx, options := arguments(args)

	cmd.debug = options.Debug

	conf, err := cmd.resolve(options)
	if err != nil {
		return err
	}

	client, err := cmd.client(ctx, conf)
	if err != nil {
		return err
	}

	_, err = report(ctx, client, conf)

	return err
}

// report checks access to the spreadsheet (if enabled) and logs the first empty row.
func report(ctx context.Context, client *uploader.Client, conf *config.Config) (int, error) {
	if conf.Preflight {
		if err := preflight(ctx, client, conf.Spreadsheet); err != nil {
			return 0, err
		}
	}

	row, err := client.FindFirstEmptyRow(ctx, conf.Spreadsheet, conf.Sheet)
	if err != nil {
		return 0, err
	}

	infof("First empty row in worksheet '%s': %d", conf.Sheet, row)

	return row, nil
}
