package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"

	"github.com/awakening-overlay/overlay-uploader/config"
	"github.com/awakening-overlay/overlay-uploader/uploader"
)

var AppendCmd = Append{
	command: command{
		debug: false,
	},
	file: "",
	row:  0,
}

type Append struct {
	command
	file string
	row  int
}

func (cmd *Append) Name() string {
	return "append"
}

func (cmd *Append) Description() string {
	return "Appends the rows in a TSV file to a Google Sheets worksheet"
}

func (cmd *Append) Usage() string {
	return "--file <file>"
}

func (cmd *Append) Help() {
	fmt.Println()
	fmt.Printf("  Usage: %s [--debug] append [options] --file <file>\n", APP)
	fmt.Println()
	fmt.Println("  Appends the rows in a TSV file to a Google Sheets worksheet, starting in column A of the")
	fmt.Println("  first empty row. Short rows are padded with empty cells. Rate limited requests are retried")
	fmt.Println("  with exponential backoff.")
	fmt.Println()

	helpOptions(cmd.FlagSet())

	fmt.Println()
	fmt.Println("  Examples:")
	fmt.Printf("    %s append --file \"overlay.tsv\"\n", APP)
	fmt.Printf("    %s --debug append --sheet \"Sheet1\" --row 5 --file \"overlay.tsv\"\n", APP)
	fmt.Println()
}

func (cmd *Append) FlagSet() *flag.FlagSet {
	flagset := cmd.flagset("append")

	flagset.StringVar(&cmd.file, "file", cmd.file, "TSV file ('-' for stdin)")
	flagset.IntVar(&cmd.row, "row", cmd.row, "Start row (defaults to the first empty row)")

	return flagset
}

func (cmd *Append) Execute(args ...any) error {
	ctx, options := arguments(args)

	cmd.debug = options.Debug

	f, err := open(cmd.file)
	if err != nil {
		return err
	}

	defer f.Close()

	rows, err := tsvToRows(f)
	if err != nil {
		return fmt.Errorf("invalid TSV file (%w)", err)
	}

	conf, err := cmd.resolve(options)
	if err != nil {
		return err
	}

	client, err := cmd.client(ctx, conf)
	if err != nil {
		return err
	}

	return appendRows(ctx, client, conf, cmd.row, rows, cmd.debug)
}

// appendRows writes the rows at the start row (or the first empty row if the
// start row is not set). Running out of retries is reported but is not an error.
func appendRows(ctx context.Context, client *uploader.Client, conf *config.Config, row int, rows [][]string, debug bool) error {
	row, err := startRow(ctx, client, conf, row)
	if err != nil {
		return err
	}

	if debug {
		debugf("Appending %d rows to '%s' at row %d", len(rows), conf.Sheet, row)
	}

	if err := client.AppendTable(ctx, conf.Spreadsheet, conf.Sheet, row, rows); errors.Is(err, uploader.ErrRetriesExhausted) {
		warnf("%v", err)
	} else if err != nil {
		return err
	}

	return nil
}

func startRow(ctx context.Context, client *uploader.Client, conf *config.Config, row int) (int, error) {
	if row > 0 {
		return row, nil
	}

	return client.FindFirstEmptyRow(ctx, conf.Spreadsheet, conf.Sheet)
}
