// Command fixturegen captures, clears and seeds database fixtures and applies schema migrations.
//
// Usage:
//
//	fixturegen migrate up   --driver sqlite3 --dsn file:app.db --migrations ./migrations
//	fixturegen capture      --schema schema.yaml --out snapshots/current.json
//	fixturegen clear        --schema schema.yaml
//	fixturegen seed         --schema schema.yaml --in snapshots/current.json --clear
//	fixturegen diff         snapshots/a.json snapshots/b.json
//	fixturegen scenarios list
//	fixturegen scenarios load CreateUsers --schema schema.yaml
//
// Every flag can also be set as environment variable with the FIXTUREGEN_ prefix
// (e.g. FIXTUREGEN_DSN) or in a YAML config file passed with --config.
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
