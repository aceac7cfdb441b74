// Command rustyhook runs configured git hooks against a set of files:
// resolving the configuration, provisioning tools on demand, scheduling
// read and write hooks with the appropriate concurrency, and reporting a
// pass/fail summary.
package main

import (
	"os"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}
