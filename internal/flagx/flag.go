// Package flagx lets several independent flag sets share one command line.
// Each consumer picks out only the flags it owns, so unknown flags never
// abort parsing.
package flagx

import (
	"flag"
	"strings"
)

// flagName strips leading dashes and any "=value" suffix.
func flagName(arg string) string {
	name := strings.TrimLeft(arg, "-")
	if i := strings.IndexByte(name, '='); i >= 0 {
		name = name[:i]
	}
	return name
}

// FilterArgs returns the subset of args that belongs to the named flags.
// Names are given without dashes; both "-name" and "--name" spellings are
// recognized, as are "-name=value" and "-name value". A separate value is
// only consumed when it does not itself start with a dash.
func FilterArgs(args []string, names ...string) []string {
	owned := make(map[string]struct{}, len(names))
	for _, n := range names {
		owned[strings.TrimLeft(n, "-")] = struct{}{}
	}

	filtered := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if !strings.HasPrefix(arg, "-") || arg == "-" || arg == "--" {
			continue
		}
		if _, ok := owned[flagName(arg)]; !ok {
			continue
		}
		filtered = append(filtered, arg)
		if strings.Contains(arg, "=") {
			continue
		}
		if i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
			filtered = append(filtered, args[i+1])
			i++
		}
	}
	return filtered
}

// ConfigPath returns the JSON config file named by -c or -config in args,
// or "" when neither is present.
func ConfigPath(args []string) string {
	var path string
	fs := flag.NewFlagSet("config", flag.ContinueOnError)
	fs.SetOutput(discard{})
	fs.StringVar(&path, "config", "", "path to config file")
	fs.StringVar(&path, "c", "", "path to config file (short)")
	_ = fs.Parse(FilterArgs(args, "c", "config"))
	return path
}

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }
