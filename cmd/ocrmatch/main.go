package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"ocrmatch/internal/app"
	"ocrmatch/internal/cabinet"
	"ocrmatch/internal/config"
	"ocrmatch/internal/corrector"
	"ocrmatch/internal/observe"
)

var (
	configPath string
	cfg        *config.Config
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "ocrmatch",
		Short: "Learn OCR correction rules from a token list",
		Long: `ocrmatch matches OCR token types against a dictionary using a learned
character confusion matrix, writes correction rules for review, and folds what
it learned back into the matrix for the next pass.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cfg, err = config.Load(configPath)
			if err != nil {
				return err
			}
			slog.SetDefault(observe.NewLogger(os.Stderr, cfg.Server.LogLevel, cfg.Server.LogFormat))
			return nil
		},
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to the YAML configuration file")

	rootCmd.AddCommand(createRunCmd())
	rootCmd.AddCommand(createClassifyCmd())
	rootCmd.AddCommand(createMatrixCmd())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

// createRunCmd classifies token files and updates the learned matrix.
func createRunCmd() *cobra.Command {
	var metricsAddr string
	cmd := &cobra.Command{
		Use:   "run [token files...]",
		Short: "Classify token files and write rules, failures and the updated matrix",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			shutdown, err := observe.InitProvider(ctx, observe.ProviderConfig{ServiceName: "ocrmatch"})
			if err != nil {
				return fmt.Errorf("init metrics: %w", err)
			}
			defer shutdown(context.Background())

			if metricsAddr != "" {
				mux := http.NewServeMux()
				mux.Handle("GET /metrics", promhttp.Handler())
				srv := &http.Server{Addr: metricsAddr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
				go func() {
					if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
						slog.Warn("metrics endpoint stopped", "err", err)
					}
				}()
				defer srv.Close()
			}

			eng, err := app.Build(ctx, cfg, app.NewClient(cfg.Redis), slog.Default())
			if err != nil {
				return err
			}
			return runFiles(ctx, eng, cfg, observe.DefaultMetrics(), args, cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "serve /metrics on this address while the run lasts")
	return cmd
}

// createClassifyCmd classifies tokens given on the command line.
func createClassifyCmd() *cobra.Command {
	var titlecase bool
	cmd := &cobra.Command{
		Use:   "classify [tokens...]",
		Short: "Classify single tokens and print the outcome",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := app.Build(cmd.Context(), cfg, app.NewClient(cfg.Redis), slog.Default())
			if err != nil {
				return err
			}
			for _, w := range args {
				res := eng.Corrector.Classify(corrector.Token{Word: w, Titlecase: titlecase}, nil)
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\n", w, res.Outcome, res.Word)
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&titlecase, "title", "t", false, "treat the tokens as titlecase")
	return cmd
}

// createMatrixCmd dumps the a-z block of the current cost matrix.
func createMatrixCmd() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "matrix",
		Short: "Write the a-z substitution costs as CSV",
		RunE: func(cmd *cobra.Command, args []string) error {
			prior, err := cabinet.ReadCountTable(cfg.Paths.Matrix)
			if err != nil {
				return err
			}
			lines := cabinet.FormatAlphabet(corrector.BuildMatrix(prior))
			if out == "" {
				for _, l := range lines {
					fmt.Fprintln(cmd.OutOrStdout(), l)
				}
				return nil
			}
			return cabinet.WriteLines(out, lines)
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file, "+cabinet.AlphabetSoup+" by convention (default stdout)")
	return cmd
}
