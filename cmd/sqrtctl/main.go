// sqrtctl exercises a deployed sqrt API from the command line, fetching a
// bearer token from the Databricks CLI for each request.
package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/maad-zach/sqrt-api/internal/databricks"
	"github.com/maad-zach/sqrt-api/internal/logger"
	"github.com/maad-zach/sqrt-api/internal/sqrt"
	"github.com/maad-zach/sqrt-api/internal/sqrtclient"
	"github.com/maad-zach/sqrt-api/internal/version"
)

func main() {
	var (
		apiURL   string
		host     string
		cliPath  string
		logLevel string
	)

	root := &cobra.Command{
		Use:     "sqrtctl <number> [number...]",
		Short:   "Call the square root API",
		Args:    cobra.MinimumNArgs(1),
		Version: version.GetInfo(),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger.Init(logLevel, "text")

			var tokens sqrtclient.TokenSource
			if host != "" {
				tokens = databricks.NewTokenSource(logger.L, host, cliPath)
			}
			client := sqrtclient.NewClient(logger.L, apiURL, tokens)

			for _, arg := range args {
				number, err := strconv.ParseFloat(arg, 64)
				if err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "skipping %q: %v\n", arg, err)
					continue
				}
				result, err := client.Sqrt(cmd.Context(), number)
				if err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "error for %s: %v\n", sqrt.Format(number), err)
					continue
				}
				fmt.Fprintf(cmd.OutOrStdout(), "√%s = %s\n", sqrt.Format(number), sqrt.Format(result))
			}
			return nil
		},
	}

	root.Flags().StringVar(&apiURL, "url", "http://127.0.0.1:8080", "sqrt API base URL")
	root.Flags().StringVar(&host, "databricks-host", "", "Databricks workspace host for token fetch (empty = no auth)")
	root.Flags().StringVar(&cliPath, "databricks-cli", "databricks", "path to the databricks CLI")
	root.Flags().StringVar(&logLevel, "log-level", "warn", "log level")

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
