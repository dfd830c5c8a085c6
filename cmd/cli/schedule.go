package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/SMUK0/RandomForest/pkg/core/services"
	"github.com/SMUK0/RandomForest/pkg/render"
)

func scheduleCmd() *cobra.Command {
	var (
		psychologistID int
		weeks          int
		maxWeek        int
		maxDay         int
		csvPath        string
		calendar       bool
		dryRun         bool
	)

	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Propose appointment slots for a psychologist's patient panel",
		Long: `Loads the patient panel and the committed calendar, scores every
feasible patient/slot pair with the forest model, and packs a conflict-free
weekly schedule. Suggestions are persisted unless --dry-run is set.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := app.database()
			if err != nil {
				return err
			}
			model, err := app.scoringModel()
			if err != nil {
				return err
			}

			slots := app.slotConfig()
			limits := app.limits()
			if weeks > 0 {
				slots.HorizonWeeks = weeks
			}
			if maxWeek > 0 {
				limits.MaxPerWeek = maxWeek
			}
			if maxDay > 0 {
				limits.MaxPerDay = maxDay
			}

			now := time.Now()
			horizonEnd := now.AddDate(0, 0, 7*slots.HorizonWeeks)
			closed, err := services.ExpandClosures(app.cfg.Scheduling.Closures, now, horizonEnd)
			if err != nil {
				return fmt.Errorf("failed to expand closure rules: %w", err)
			}
			slots.ClosedDates = closed

			result, err := services.ProposeSchedule(app.ctx, db, model, app.logger, services.ProposeRequest{
				PsychologistID: psychologistID,
				Slots:          slots,
				Limits:         limits,
				DryRun:         dryRun,
				Now:            now,
			})
			if err != nil {
				return fmt.Errorf("failed to propose schedule: %w", err)
			}

			app.logger.Info("Proposal run complete",
				zap.Int("patients", result.PatientCount),
				zap.Int("candidates", result.CandidateCount),
				zap.Int("accepted", len(result.Schedule.Entries)),
			)

			if result.Schedule.Empty() {
				fmt.Printf("No slots proposed: %s\n", result.Schedule.Reason)
				return nil
			}

			if csvPath != "" {
				f, err := os.Create(csvPath)
				if err != nil {
					return fmt.Errorf("failed to create CSV file: %w", err)
				}
				defer f.Close()
				if err := render.WriteCSV(f, result.Schedule.Entries); err != nil {
					return fmt.Errorf("failed to write CSV: %w", err)
				}
				app.logger.Info("Wrote CSV", zap.String("path", csvPath))
			}

			if calendar {
				render.WriteCalendar(os.Stdout, result.Schedule.Entries, slots.HorizonWeeks, slots.HourStart, slots.HourEnd, fmt.Sprintf("Proposed schedule (psychologist %d)", psychologistID))
				return nil
			}
			return render.WriteTable(os.Stdout, result.Schedule.Entries)
		},
	}

	cmd.Flags().IntVar(&psychologistID, "psychologist-id", 0, "Psychologist whose panel to schedule (required)")
	cmd.Flags().IntVar(&weeks, "weeks", 0, "Override the configured horizon in weeks")
	cmd.Flags().IntVar(&maxWeek, "max-week", 0, "Override the configured weekly cap")
	cmd.Flags().IntVar(&maxDay, "max-day", 0, "Override the configured daily cap")
	cmd.Flags().StringVar(&csvPath, "csv", "", "Also write the proposals to a CSV file")
	cmd.Flags().BoolVar(&calendar, "calendar", false, "Print a weekly calendar grid instead of a table")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Do not persist the suggestions")
	cmd.MarkFlagRequired("psychologist-id")

	return cmd
}
