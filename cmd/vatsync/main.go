// Command vatsync synchronises Stripe VAT tax rates with the UK/EU rules table.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/roach88/vatsync/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := &cli.RootOptions{}
	cmd := cli.NewRootCommandWithOptions(opts)
	if err := cmd.ExecuteContext(ctx); err != nil {
		formatter := &cli.OutputFormatter{Format: opts.Format, Writer: os.Stdout}
		_ = formatter.Error(err)
		fmt.Fprintln(os.Stderr, "Error:", err)
		stop()
		os.Exit(cli.GetExitCode(err))
	}
}
