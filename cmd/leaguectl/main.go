// Command leaguectl is the league maintenance CLI.
//
// Usage:
//
//	leaguectl migrate up
//	leaguectl migrate down --steps 1
//	leaguectl schedule --teams 8 --seed 2024 --matchdays 7
//	leaguectl standings --snapshot league.json
//	leaguectl bracket --snapshot league.json
//	leaguectl hash-code
package main

import (
	"bufio"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"

	"github.com/Dosada05/league-system/brackets"
	"github.com/Dosada05/league-system/config"
	"github.com/Dosada05/league-system/db"
	"github.com/Dosada05/league-system/models"
	"github.com/Dosada05/league-system/repositories"
	"github.com/Dosada05/league-system/standings"
)

var logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

func main() {
	root := &cobra.Command{
		Use:           "leaguectl",
		Short:         "League maintenance CLI",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(migrateCmd())
	root.AddCommand(scheduleCmd())
	root.AddCommand(standingsCmd())
	root.AddCommand(bracketCmd())
	root.AddCommand(hashCodeCmd())

	if err := root.Execute(); err != nil {
		logger.Error("command failed", "error", err)
		os.Exit(1)
	}
}

// --------------------------------------------------------------------------
// migrate
// --------------------------------------------------------------------------

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or roll back database migrations",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDB(func(conn *sql.DB) error {
				if err := repositories.MigrateUp(conn); err != nil {
					return err
				}
				return printVersion(cmd.OutOrStdout(), conn)
			})
		},
	})

	var steps int
	down := &cobra.Command{
		Use:   "down",
		Short: "Roll back migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			if steps <= 0 {
				return fmt.Errorf("--steps must be positive")
			}
			return withDB(func(conn *sql.DB) error {
				if err := repositories.MigrateDown(conn, steps); err != nil {
					return err
				}
				return printVersion(cmd.OutOrStdout(), conn)
			})
		},
	}
	down.Flags().IntVar(&steps, "steps", 1, "Number of migrations to roll back")
	cmd.AddCommand(down)

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the current schema version",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDB(func(conn *sql.DB) error { return printVersion(cmd.OutOrStdout(), conn) })
		},
	})
	return cmd
}

func withDB(fn func(conn *sql.DB) error) error {
	dsn, err := config.DatabaseURL()
	if err != nil {
		return err
	}
	conn, err := db.Connect(dsn, 5*time.Second)
	if err != nil {
		return err
	}
	defer conn.Close()
	return fn(conn)
}

func printVersion(w io.Writer, conn *sql.DB) error {
	version, dirty, err := repositories.MigrationVersion(conn)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "schema version %d (dirty: %t)\n", version, dirty)
	return err
}

// --------------------------------------------------------------------------
// schedule
// --------------------------------------------------------------------------

func scheduleCmd() *cobra.Command {
	var teams, seed, matchdays int
	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Preview the group schedule a seed produces for teams 1..N",
		RunE: func(cmd *cobra.Command, args []string) error {
			ids := make([]int, teams)
			for i := range ids {
				ids[i] = i + 1
			}
			matches, err := brackets.GenerateSchedule(ids, seed, matchdays)
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ROUND\tHOME\tAWAY")
			for _, m := range matches {
				fmt.Fprintf(tw, "%d\t%d\t%d\n", m.RoundOrZero(), m.HomeID, m.AwayID)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().IntVar(&teams, "teams", 16, "Number of teams")
	cmd.Flags().IntVar(&seed, "seed", 0, "Schedule seed")
	cmd.Flags().IntVar(&matchdays, "matchdays", config.DefaultMatchdays, "Number of rounds to play")
	return cmd
}

// --------------------------------------------------------------------------
// standings / bracket
// --------------------------------------------------------------------------

func readSnapshot(path string) (*models.Snapshot, error) {
	var r io.Reader = os.Stdin
	if path != "" && path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}
	var snap models.Snapshot
	if err := json.NewDecoder(r).Decode(&snap); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	return snap.Normalize(), nil
}

func standingsCmd() *cobra.Command {
	var path string
	cmd := &cobra.Command{
		Use:   "standings",
		Short: "Compute the league table from a snapshot file",
		RunE: func(cmd *cobra.Command, args []string) error {
			snap, err := readSnapshot(path)
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "#\tTEAM\tP\tW\tD\tL\tGS\tGC\tGD\tPTS\tFORM")
			for i, row := range standings.Compute(snap.Teams, snap.Matches) {
				fmt.Fprintf(tw, "%d\t%s\t%d\t%d\t%d\t%d\t%d\t%d\t%+d\t%d\t%s\n",
					i+1, row.Name, row.Played, row.Won, row.Drawn, row.Lost,
					row.GoalsFor, row.GoalsAgainst, row.GoalDiff, row.Points, formString(row))
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVar(&path, "snapshot", "-", "Snapshot JSON file, - for stdin")
	return cmd
}

func formString(row models.StandingRow) string {
	var b strings.Builder
	for _, o := range row.RecentForm(models.FormWindow) {
		if o == models.OutcomeNone {
			b.WriteByte('-')
			continue
		}
		b.WriteString(string(o))
	}
	return b.String()
}

func bracketCmd() *cobra.Command {
	var path string
	cmd := &cobra.Command{
		Use:   "bracket",
		Short: "Resolve the playoff bracket from a snapshot file",
		RunE: func(cmd *cobra.Command, args []string) error {
			snap, err := readSnapshot(path)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(brackets.NewResolver(snap).Bracket())
		},
	}
	cmd.Flags().StringVar(&path, "snapshot", "-", "Snapshot JSON file, - for stdin")
	return cmd
}

// --------------------------------------------------------------------------
// hash-code
// --------------------------------------------------------------------------

func hashCodeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hash-code",
		Short: "Read an admin code from stdin and print its ADMIN_CODE_HASH",
		RunE: func(cmd *cobra.Command, args []string) error {
			line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
			if err != nil && err != io.EOF {
				return err
			}
			code := strings.TrimSpace(line)
			if code == "" {
				return fmt.Errorf("admin code must not be empty")
			}
			hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(hash))
			return err
		},
	}
}
