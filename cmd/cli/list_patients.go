package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/SMUK0/RandomForest/pkg/core/services"
)

func listPatientsCmd() *cobra.Command {
	var psychologistID int

	cmd := &cobra.Command{
		Use:   "list-patients",
		Short: "List a psychologist's patient panel",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := app.database()
			if err != nil {
				return err
			}

			patients, err := services.ListPatients(app.ctx, db, app.logger, psychologistID)
			if err != nil {
				return fmt.Errorf("failed to list patients: %w", err)
			}

			if len(patients) == 0 {
				fmt.Println("No patients found")
				return nil
			}

			tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tALIAS\tNAME\tAGE\tPRIORITY\tLAST SESSION\tWINDOWS")
			for _, p := range patients {
				lastSession := "-"
				if p.LastSessionAt != nil {
					lastSession = p.LastSessionAt.Format("2006-01-02")
				}
				fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%s\t%s\t%d\n",
					p.ID, p.Alias(), p.Name(), p.Age, p.Priority, lastSession, len(p.Windows))
			}
			return tw.Flush()
		},
	}

	cmd.Flags().IntVar(&psychologistID, "psychologist-id", 0, "Psychologist whose panel to list (required)")
	cmd.MarkFlagRequired("psychologist-id")

	return cmd
}
