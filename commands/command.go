package commands

import (
	"context"
	"flag"
	"fmt"
	"log"
	"regexp"
	"strings"

	"golang.org/x/oauth2"

	"github.com/awakening-overlay/overlay-uploader/auth"
	"github.com/awakening-overlay/overlay-uploader/config"
	"github.com/awakening-overlay/overlay-uploader/uploader"
)

const APP = "overlay-uploader"

type Options struct {
	Config string
	Debug  bool
}

// command holds the options shared by all the spreadsheet commands. Empty values
// defer to the configuration file (or the built-in defaults).
type command struct {
	spreadsheet string
	sheet       string
	credentials string
	tokens      string
	debug       bool
}

var spreadsheetURL = regexp.MustCompile(`^https://docs.google.com/spreadsheets/d/(.*?)(?:/.*)?$`)

func (c *command) flagset(name string) *flag.FlagSet {
	flagset := flag.NewFlagSet(name, flag.ExitOnError)

	flagset.StringVar(&c.spreadsheet, "spreadsheet", c.spreadsheet, "Spreadsheet ID or URL (defaults to the configured spreadsheet)")
	flagset.StringVar(&c.sheet, "sheet", c.sheet, "Worksheet name (defaults to the configured worksheet)")
	flagset.StringVar(&c.credentials, "credentials", c.credentials, "Path for the OAuth2 'client_secret.json' file")
	flagset.StringVar(&c.tokens, "tokens", c.tokens, "Path for the OAuth2 token file")

	return flagset
}

// resolve loads the configuration file and applies any command line overrides.
func (c *command) resolve(options *Options) (*config.Config, error) {
	conf := config.NewConfig()

	if options != nil && options.Config != "" {
		if err := conf.Load(options.Config, true); err != nil {
			return nil, err
		}
	} else if err := conf.Load(config.DefaultPath(), false); err != nil {
		return nil, err
	}

	if s := strings.TrimSpace(c.spreadsheet); s != "" {
		id, err := spreadsheetID(s)
		if err != nil {
			return nil, err
		}

		conf.Spreadsheet = id
	}

	if s := strings.TrimSpace(c.sheet); s != "" {
		conf.Sheet = s
	}

	if s := strings.TrimSpace(c.credentials); s != "" {
		conf.ClientSecret = s
	}

	if s := strings.TrimSpace(c.tokens); s != "" {
		conf.Tokens = s
	}

	if c.debug {
		debugf("Spreadsheet - ID:%s  sheet:%s", conf.Spreadsheet, conf.Sheet)
	}

	return conf, nil
}

// store returns the file backed credential store for the configuration.
func (c *command) store(conf *config.Config) (*auth.Store, error) {
	clientSecret := auth.ResolveClientSecret(conf.ClientSecret)

	if c.debug {
		debugf("Client secret: %s", clientSecret)
	}

	oauth, err := auth.LoadConfig(clientSecret, auth.SHEETS)
	if err != nil {
		return nil, err
	}

	tokens := conf.Tokens
	if tokens == "" {
		if tokens, err = auth.DefaultTokenFile(); err != nil {
			return nil, err
		}
	}

	return auth.NewStore(oauth, tokens, auth.BrowserConsent{}), nil
}

func (c *command) client(ctx context.Context, conf *config.Config) (*uploader.Client, error) {
	store, err := c.store(conf)
	if err != nil {
		return nil, err
	}

	return newClient(ctx, store, conf)
}

func newClient(ctx context.Context, provider auth.Provider, conf *config.Config) (*uploader.Client, error) {
	policy := uploader.RetryPolicy{
		Start:   conf.Retry.Start,
		Max:     conf.Retry.Max,
		Backoff: conf.Retry.Backoff,
	}

	if err := policy.Validate(); err != nil {
		return nil, err
	}

	tokens, err := provider.TokenSource(ctx)
	if err != nil {
		return nil, fmt.Errorf("authentication/authorization error (%w)", err)
	}

	service, err := uploader.NewGoogleService(ctx, oauth2.NewClient(ctx, tokens))
	if err != nil {
		return nil, err
	}

	pacer := uploader.NewPacer(conf.Rate.RequestsPerSecond, conf.Rate.Burst)

	return uploader.NewClient(service, policy, pacer), nil
}

// spreadsheetID accepts either a bare spreadsheet ID or a spreadsheet URL.
func spreadsheetID(s string) (string, error) {
	if strings.HasPrefix(s, "https://") {
		match := spreadsheetURL.FindStringSubmatch(s)
		if len(match) < 2 || match[1] == "" {
			return "", fmt.Errorf("invalid spreadsheet URL - expected something like 'https://docs.google.com/spreadsheets/d/1BxiMVs0XRA5nFMdKvBdBZjgmUUqptlbs74OgvE2upms'")
		}

		return match[1], nil
	}

	if !regexp.MustCompile(`^[a-zA-Z0-9_-]+$`).MatchString(s) {
		return "", fmt.Errorf("invalid spreadsheet ID '%s'", s)
	}

	return s, nil
}

// arguments extracts the context and global options passed to Execute.
func arguments(args []any) (context.Context, *Options) {
	ctx := context.Background()
	options := &Options{}

	for _, arg := range args {
		switch v := arg.(type) {
		case context.Context:
			ctx = v
		case *Options:
			options = v
		}
	}

	return ctx, options
}

func helpOptions(flagset *flag.FlagSet) {
	flagset.VisitAll(func(f *flag.Flag) {
		fmt.Printf("    --%-13s %s\n", f.Name, f.Usage)
	})

	fmt.Println()
	fmt.Println("  Options:")
	fmt.Println()
	fmt.Println("    --debug  Displays internal information for diagnosing errors")
	fmt.Println("    --config Configuration file (defaults to ~/.awakening_overlay_uploader/config.toml)")
}

func debugf(format string, args ...any) {
	log.Printf("%-5s %s", "DEBUG", fmt.Sprintf(format, args...))
}

func infof(format string, args ...any) {
	log.Printf("%-5s %s", "INFO", fmt.Sprintf(format, args...))
}

func warnf(format string, args ...any) {
	log.Printf("%-5s %s", "WARN", fmt.Sprintf(format, args...))
}
