package flags

import (
	"flag"
	"fmt"
	"io"
)

type Options struct {
	ConfigFile  string
	Debug       bool
	ShowVersion bool
}

// Parse reads command line flags. Credentials are never taken from flags so
// they do not show up in process listings.
func Parse(name string, args []string, output io.Writer) (Options, error) {
	var opts Options

	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(output)
	fs.StringVar(&opts.ConfigFile, "c", "", "Path to a YAML config file (optional)")
	fs.BoolVar(&opts.Debug, "d", false, "Enable debug logging")
	fs.BoolVar(&opts.ShowVersion, "v", false, "Show Version")

	fs.Usage = func() {
		fmt.Fprintln(output, "Usage:")
		fmt.Fprintf(output, "  %s [-c config.yaml] [-d] [-v]\n", name)
		fmt.Fprintln(output, "  -c string  Path to a YAML config file (optional)")
		fmt.Fprintln(output, "  -d         Enable debug logging")
		fmt.Fprintln(output, "  -v         Show Version")
		fmt.Fprintln(output, "")
		fmt.Fprintln(output, "RELAY_KEY, RELAY_SECRET and RELAY_BUCKET must be set in the environment, a .env file or the config file.")
	}

	if err := fs.Parse(args); err != nil {
		return Options{}, err
	}
	if fs.NArg() > 0 {
		fs.Usage()
		return Options{}, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	return opts, nil
}
