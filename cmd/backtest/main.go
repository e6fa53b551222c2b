// Command backtest replays historical games through the lineup model.
//
// Usage:
//
//	nba-backtest run --games games.csv --out results.csv
//	nba-backtest lineups --out lineups.csv
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/riskibarqy/nba-lineup-model/internal/app"
	"github.com/riskibarqy/nba-lineup-model/internal/backtest"
	"github.com/riskibarqy/nba-lineup-model/internal/config"
	"github.com/riskibarqy/nba-lineup-model/internal/platform/logging"
)

func main() {
	_ = godotenv.Load(".env")

	root := &cobra.Command{
		Use:           "nba-backtest",
		Short:         "Replay games through the NBA lineup model",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(runCmd())
	root.AddCommand(lineupsCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func runCmd() *cobra.Command {
	var gamesPath, outPath string
	var chunk int
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Project and grade every game in a CSV file",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withServices(func(ctx context.Context, cfg config.Config, services app.Services, logger *logging.Logger) error {
				file, err := os.Open(gamesPath)
				if err != nil {
					return fmt.Errorf("open games: %w", err)
				}
				defer file.Close()

				games, err := backtest.ReadGames(file)
				if err != nil {
					return err
				}
				if chunk <= 0 {
					chunk = cfg.BatchMaxGames
				}

				report, err := backtest.NewRunner(services.Projections, chunk, logger).Run(ctx, games)
				if err != nil {
					return err
				}

				if outPath != "" {
					if err := writeFile(outPath, report.WriteCSV); err != nil {
						return err
					}
				}
				fmt.Fprint(cmd.OutOrStdout(), report.Summary())
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&gamesPath, "games", "", "CSV file of games (away, home, book_spread, book_total, away_final, home_final, ...)")
	cmd.Flags().StringVar(&outPath, "out", "", "Write per-game results CSV to this path")
	cmd.Flags().IntVar(&chunk, "chunk", 0, "Games per batch projection (defaults to BATCH_MAX_GAMES)")
	_ = cmd.MarkFlagRequired("games")
	return cmd
}

func lineupsCmd() *cobra.Command {
	var outPath string
	cmd := &cobra.Command{
		Use:   "lineups",
		Short: "Export every team's default lineup with its lineup PER",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withServices(func(ctx context.Context, _ config.Config, services app.Services, _ *logging.Logger) error {
				body, err := services.Projections.ExportLineupsCSV(ctx)
				if err != nil {
					return err
				}
				if outPath == "" {
					_, err = cmd.OutOrStdout().Write(body)
					return err
				}
				return writeFile(outPath, func(w io.Writer) error {
					_, err := w.Write(body)
					return err
				})
			})
		},
	}
	cmd.Flags().StringVar(&outPath, "out", "", "Write the CSV to this path instead of stdout")
	return cmd
}

func withServices(fn func(ctx context.Context, cfg config.Config, services app.Services, logger *logging.Logger) error) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := logging.NewJSONWriter(os.Stderr, cfg.LogLevel).Component("backtest-cli")
	logging.SetDefault(logger)
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	services, err := app.NewServices(cfg, logger)
	if err != nil {
		return err
	}
	return fn(ctx, cfg, services, logger)
}

func writeFile(path string, write func(io.Writer) error) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := write(file); err != nil {
		_ = file.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return file.Close()
}
