package commands

import (
	"flag"
	"fmt"
)

var AuthoriseCmd = Authorise{
	command: command{
		debug: false,
	},
}

type Authorise struct {
	command
}

func (cmd *Authorise) Name() string {
	return "authorise"
}

func (cmd *Authorise) Description() string {
	return "Authorises overlay-uploader to access Google Sheets"
}

func (cmd *Authorise) Usage() string {
	return "[--credentials <file>] [--tokens <file>]"
}

func (cmd *Authorise) Help() {
	fmt.Println()
	fmt.Printf("  Usage: %s [--debug] authorise [options]\n", APP)
	fmt.Println()
	fmt.Println("  Opens the Google consent page in your browser and saves the authorised OAuth2 token,")
	fmt.Println("  replacing any existing token")
	fmt.Println()

	helpOptions(cmd.FlagSet())

	fmt.Println()
	fmt.Println("  Examples:")
	fmt.Printf("    %s authorise --credentials \"client_secret.json\"\n", APP)
	fmt.Println()
}

func (cmd *Authorise) FlagSet() *flag.FlagSet {
	return cmd.flagset("authorise")
}

func (cmd *Authorise) Execute(args ...any) error {
	ctx, options := arguments(args)

	cmd.debug = options.Debug

	conf, err := cmd.resolve(options)
	if err != nil {
		return err
	}

	store, err := cmd.store(conf)
	if err != nil {
		return err
	}

	if err := store.Authorise(ctx); err != nil {
		return fmt.Errorf("authorisation error (%w)", err)
	}

	infof("Authorised access to Google Sheets (tokens saved to %s)", store.File())

	return nil
}
