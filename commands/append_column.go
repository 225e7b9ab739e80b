package commands

import (
	"context"
	"flag"
	"fmt"

	"github.com/awakening-overlay/overlay-uploader/config"
	"github.com/awakening-overlay/overlay-uploader/uploader"
)

var AppendColumnCmd = AppendColumn{
	command: command{
		debug: false,
	},
	column: "A",
	file:   "",
	row:    0,
}

type AppendColumn struct {
	command
	column string
	file   string
	row    int
}

func (cmd *AppendColumn) Name() string {
	return "append-column"
}

func (cmd *AppendColumn) Description() string {
	return "Appends the lines in a TSV file to a single column of a Google Sheets worksheet"
}

func (cmd *AppendColumn) Usage() string {
	return "--column <A-Z> --file <file>"
}

func (cmd *AppendColumn) Help() {
	fmt.Println()
	fmt.Printf("  Usage: %s [--debug] append-column [options] --column <A-Z> --file <file>\n", APP)
	fmt.Println()
	fmt.Println("  Writes each line of a TSV file to a cell in the column, starting at the first empty row.")
	fmt.Println("  Lines with multiple fields are joined with spaces into a single cell.")
	fmt.Println()

	helpOptions(cmd.FlagSet())

	fmt.Println()
	fmt.Println("  Examples:")
	fmt.Printf("    %s append-column --column B --file \"names.tsv\"\n", APP)
	fmt.Println()
}

func (cmd *AppendColumn) FlagSet() *flag.FlagSet {
	flagset := cmd.flagset("append-column")

	flagset.StringVar(&cmd.column, "column", cmd.column, "Column letter (A-Z)")
	flagset.StringVar(&cmd.file, "file", cmd.file, "TSV file ('-' for stdin)")
	flagset.IntVar(&cmd.row, "row", cmd.row, "Start row (defaults to the first empty row)")

	return flagset
}

func (cmd *AppendColumn) Execute(args ...any) error {
	ctx, options := arguments(args)

	cmd.debug = options.Debug

	f, err := open(cmd.file)
	if err != nil {
		return err
	}

	defer f.Close()

	items, err := tsvToItems(f)
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

	return appendItems(ctx, client, conf, cmd.row, cmd.column, items, cmd.debug)
}

func appendItems(ctx context.Context, client *uploader.Client, conf *config.Config, row int, column string, items []any, debug bool) error {
	row, err := startRow(ctx, client, conf, row)
	if err != nil {
		return err
	}

	if debug {
		debugf("Appending %d items to '%s' column %s at row %d", len(items), conf.Sheet, column, row)
	}

	return client.AppendColumn(ctx, conf.Spreadsheet, conf.Sheet, row, column, items)
}
