// Package flagx lets several components parse their own flags out of one
// argument list without tripping over each other's unknown flags.
package flagx

import (
	"flag"
	"io"
	"strings"
)

// FilterArgs keeps only the flags named in allowed, along with their values.
// It understands "-f value", "-f=value" and "--f=value". A following argument
// that starts with "-" is never taken as a value.
func FilterArgs(args []string, allowed []string) []string {
	names := make(map[string]struct{}, len(allowed))
	for _, f := range allowed {
		names[f] = struct{}{}
	}

	out := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		arg := args[i]

		if name, _, ok := strings.Cut(arg, "="); ok && strings.HasPrefix(arg, "-") {
			if _, keep := names[name]; keep {
				out = append(out, arg)
			}
			continue
		}

		if _, keep := names[arg]; !keep {
			continue
		}
		out = append(out, arg)
		if i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
			out = append(out, args[i+1])
			i++
		}
	}
	return out
}

// ConfigPath returns the JSON config file named by -c or -config, or "".
func ConfigPath(args []string) string {
	var path string

	fs := flag.NewFlagSet("config", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&path, "config", "", "path to JSON config file")
	fs.StringVar(&path, "c", "", "path to JSON config file (short)")
	_ = fs.Parse(FilterArgs(args, []string{"-c", "-config", "--config"}))

	return path
}

// Positional is the complement of FilterArgs: it drops the flags named in
// valued together with their values and returns what is left, in order.
func Positional(args []string, valued []string) []string {
	names := make(map[string]struct{}, len(valued))
	for _, f := range valued {
		names[f] = struct{}{}
	}

	out := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		arg := args[i]

		if name, _, ok := strings.Cut(arg, "="); ok && strings.HasPrefix(arg, "-") {
			if _, drop := names[name]; drop {
				continue
			}
		}
		if _, drop := names[arg]; drop {
			if i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
				i++
			}
			continue
		}
		out = append(out, arg)
	}
	return out
}
