package commands

import (
	"flag"
	"fmt"
)

const VERSION = "v0.1.0"

var VersionCmd = Version{}

// Version prints the overlay-uploader release. It takes no flags and does not
// read the configuration or touch the token file.
type Version struct {
}

func (c *Version) FlagSet() *flag.FlagSet {
	return flag.NewFlagSet("version", flag.ExitOnError)
}

func (c *Version) Execute(...any) error {
	fmt.Printf("%s\n", VERSION)

	return nil
}

func (c *Version) Name() string {
	return "version"
}

func (c *Version) Description() string {
	return "Displays the overlay-uploader version"
}

func (c *Version) Usage() string {
	return ""
}

func (c *Version) Help() {
	fmt.Printf("Displays the %s release as v<major>.<minor>.<patch> e.g. %s\n", APP, VERSION)
	fmt.Println()
}
