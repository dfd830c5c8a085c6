package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/SMUK0/RandomForest/pkg/core/services"
)

// windowsFile is the on-disk shape for ad-hoc availability input.
type windowsFile struct {
	Patient  []services.WindowInput `yaml:"patient"`
	Provider []services.WindowInput `yaml:"provider,omitempty"`
}

func predictSlotsCmd() *cobra.Command {
	var (
		weeks            int
		topK             int
		priorities       string
		age              int
		daysSinceLast    int
		prefersAfternoon bool
		windowsPath      string
	)

	cmd := &cobra.Command{
		Use:   "predict-slots",
		Short: "Rank slots for a hypothetical patient profile, per priority tier",
		Long: `Scores every feasible slot for an ad-hoc patient profile and prints the
top proposals for each requested priority tier. Tiers are ranked independently,
so two tiers may propose the same hour. Availability windows are read from a
YAML file; no database access is needed.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			model, err := app.scoringModel()
			if err != nil {
				return err
			}

			data, err := os.ReadFile(windowsPath)
			if err != nil {
				return fmt.Errorf("failed to read windows file: %w", err)
			}
			var wf windowsFile
			if err := yaml.Unmarshal(data, &wf); err != nil {
				return fmt.Errorf("failed to parse windows file: %w", err)
			}

			slots := app.slotConfig()
			if weeks > 0 {
				slots.HorizonWeeks = weeks
			}

			result, err := services.PredictSlots(model, app.logger, slots, services.PredictRequest{
				Weeks:            slots.HorizonWeeks,
				TopK:             topK,
				Priorities:       priorities,
				Age:              age,
				DaysSinceLast:    daysSinceLast,
				PrefersAfternoon: prefersAfternoon,
				PatientWindows:   wf.Patient,
				ProviderWindows:  wf.Provider,
			})
			if err != nil {
				return fmt.Errorf("failed to predict slots: %w", err)
			}

			if len(result.Slots) == 0 {
				fmt.Printf("No slots found: %s\n", result.Reason)
				return nil
			}

			app.logger.Info("Prediction complete", zap.Int("slots", len(result.Slots)))

			tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "PRIORITY\tDATE\tHOUR\tSCORE")
			for _, s := range result.Slots {
				fmt.Fprintf(tw, "%s\t%s\t%02d:00\t%.4f\n", s.Priority, s.Start.Format("2006-01-02"), s.Hour, s.Score)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().IntVar(&weeks, "weeks", 0, "Override the configured horizon in weeks")
	cmd.Flags().IntVar(&topK, "top-k", 3, "Proposals to keep per tier")
	cmd.Flags().StringVar(&priorities, "priorities", "alta", "Comma-separated priority tiers to evaluate")
	cmd.Flags().IntVar(&age, "age", 30, "Patient age for the feature vector")
	cmd.Flags().IntVar(&daysSinceLast, "days-since-last", 90, "Days since the last completed session")
	cmd.Flags().BoolVar(&prefersAfternoon, "prefers-afternoon", false, "Mark the profile as preferring afternoon slots")
	cmd.Flags().StringVar(&windowsPath, "windows", "", "YAML file with patient (and optional provider) availability windows (required)")
	cmd.MarkFlagRequired("windows")

	return cmd
}
