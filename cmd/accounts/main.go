package main

import (
	"os"
	"strings"

	"accounts-cli/internal/cli"
	"accounts-cli/internal/store"
)

// Persistent flags that consume the next token.
var valueFlags = map[string]bool{
	"--dir":       true,
	"--workspace": true,
	"--remote":    true,
	"--format":    true,
	"--log-level": true,
	"--log-file":  true,
}

// rewriteDirectLookupArgs turns `accounts <acc-id>` into `accounts show <acc-id>`.
//
// Cobra treats the first non-flag token as a subcommand, so argv is rewritten
// before parsing. Persistent flags may come first, so the first positional
// token is located by skipping known value flags. Unknown flags are skipped
// without their value so an id is never swallowed.
func rewriteDirectLookupArgs(argv []string) []string {
	i := firstPositional(argv)
	if i < 0 || !store.IsAccountID(argv[i]) {
		return argv
	}
	out := make([]string, 0, len(argv)+1)
	out = append(out, argv[:i]...)
	out = append(out, "show")
	return append(out, argv[i:]...)
}

func firstPositional(argv []string) int {
	for i := 1; i < len(argv); i++ {
		a := strings.TrimSpace(argv[i])
		switch {
		case a == "":
			continue
		case a == "--":
			if i+1 < len(argv) {
				return i + 1
			}
			return -1
		case strings.HasPrefix(a, "-"):
			if !strings.Contains(a, "=") && valueFlags[a] {
				i++
			}
			continue
		}
		return i
	}
	return -1
}

func main() {
	os.Args = rewriteDirectLookupArgs(os.Args)

	if err := cli.NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
