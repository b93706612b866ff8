// Command structmatch compares crystal structures stored as pymatgen JSON.
//
//	structmatch fit a.json b.json
//	structmatch rms --stol 0.5 a.json b.json
//	structmatch group -o json candidates/*.json
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/janosh/matterviz-sub000/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := cli.NewRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "structmatch:", err)
		stop()
		os.Exit(1)
	}
}
