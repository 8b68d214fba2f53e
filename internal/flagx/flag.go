// Package flagx lets the fintrack server and CLI share os.Args between
// several flag sets: each set parses only the flags it owns.
package flagx

import (
	"flag"
	"io"
	"strings"
)

// ConfigFileFlags select the JSON config file for both binaries.
var ConfigFileFlags = []string{"-c", "-config"}

// FilterArgs keeps only the flags named in allowed, together with their
// values, in their original order. A flag may carry its value after '='
// or in the following argument. The Go flag package accepts "--name" as
// well as "-name", so both spellings match an allowed "-name".
// Arguments after a bare "--" are positional and never kept.
func FilterArgs(args []string, allowed []string) []string {
	set := make(map[string]struct{}, len(allowed))
	for _, f := range allowed {
		set[f] = struct{}{}
	}

	filtered := make([]string, 0, len(args))

	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--" {
			break
		}
		if !strings.HasPrefix(arg, "-") {
			continue
		}

		name, _, hasValue := strings.Cut(arg, "=")
		if _, ok := set[normalize(name)]; !ok {
			continue
		}

		filtered = append(filtered, arg)
		if hasValue {
			continue
		}
		if i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
			filtered = append(filtered, args[i+1])
			i++
		}
	}

	return filtered
}

// normalize maps "--name" to "-name".
func normalize(name string) string {
	if strings.HasPrefix(name, "--") {
		return name[1:]
	}
	return name
}

// ConfigPath returns the JSON config path given with -c or -config, or ""
// when neither is present. The last occurrence wins.
func ConfigPath(args []string) string {
	var path string

	fs := flag.NewFlagSet("config", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&path, "config", "", "path to JSON config file")
	fs.StringVar(&path, "c", "", "path to JSON config file (short)")
	_ = fs.Parse(FilterArgs(args, ConfigFileFlags))

	return path
}
