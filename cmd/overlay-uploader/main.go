package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/uhppoted/uhppoted-lib/command"

	"github.com/awakening-overlay/overlay-uploader/commands"
)

var cli = []uhppoted.Command{
	&commands.VersionCmd,
	&commands.RunCmd,
	&commands.AuthoriseCmd,
	&commands.AppendCmd,
	&commands.AppendColumnCmd,
}

var options = commands.Options{
	Config: "",
	Debug:  false,
}

var help = uhppoted.NewHelp(commands.APP, cli, &commands.RunCmd)

func main() {
	flag.BoolVar(&options.Debug, "debug", options.Debug, "Enable debugging information")
	flag.StringVar(&options.Config, "config", options.Config, "Configuration file (defaults to ~/.awakening_overlay_uploader/config.toml)")
	flag.Parse()

	// ... no command defaults to 'run'
	cmd, err := uhppoted.Parse(cli, &commands.RunCmd, help)
	if err != nil {
		fmt.Printf("\nError parsing command line: %v\n\n", err)
		os.Exit(1)
	}

	ctx := context.Background()

	if cmd == nil {
		help.Execute(ctx)
		os.Exit(1)
	}

	if err = cmd.Execute(ctx, &options); err != nil {
		log.Fatalf("ERROR: %v", err)
	}
}
