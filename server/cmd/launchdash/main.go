// launchdash serves the SpaceX launch records dashboard and prints its
// charts from the command line.
//
// Usage:
//
//	launchdash serve   [--config=<path>]
//	launchdash sites   [--dataset=<path>] [--remote=<host:port>]
//	launchdash pie     [--site=<site>] [--dataset=<path>] [--remote=<host:port>]
//	launchdash scatter [--site=<site>] [--low=<kg>] [--high=<kg>] [--dataset=<path>] [--remote=<host:port>]
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
