// Package flagx lets several config layers share os.Args without tripping
// over each other's flags.
package flagx

import (
	"flag"
	"io"
	"os"
	"strings"
)

// FilterArgs returns the subset of args that belongs to allowedFlags,
// keeping their values.
//
// Supported formats:
//  1. Flag and value as separate arguments:  -c conf.json
//  2. Flag and value combined with '=':      -config=conf.json
//
// A value is only consumed from the next argument when it does not itself
// look like a flag.
func FilterArgs(args []string, allowedFlags []string) []string {
	allowed := make(map[string]struct{}, len(allowedFlags))
	for _, f := range allowedFlags {
		allowed[f] = struct{}{}
	}

	filtered := make([]string, 0, len(args))

	for i := 0; i < len(args); i++ {
		arg := args[i]

		if strings.HasPrefix(arg, "-") && strings.Contains(arg, "=") {
			name, _, _ := strings.Cut(arg, "=")
			if _, ok := allowed[name]; ok {
				filtered = append(filtered, arg)
			}
			continue
		}

		if _, ok := allowed[arg]; ok {
			filtered = append(filtered, arg)
			if i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
				filtered = append(filtered, args[i+1])
				i++
			}
		}
	}

	return filtered
}

// ConfigFiles holds the paths of the optional configuration files given on
// the command line.
type ConfigFiles struct {
	JSON string // -c / -config
	Env  string // -env
}

// ConfigFileFlags extracts config file paths from os.Args. Only -c, -config
// and -env are inspected; everything else is left to other parsers.
func ConfigFileFlags() ConfigFiles {
	var files ConfigFiles

	args := FilterArgs(os.Args[1:], []string{"-c", "-config", "-env"})

	fs := flag.NewFlagSet("files", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&files.JSON, "config", "", "Path to JSON config file")
	fs.StringVar(&files.JSON, "c", "", "Path to JSON config file (short)")
	fs.StringVar(&files.Env, "env", "", "Path to .env file")
	_ = fs.Parse(args)

	return files
}
