package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cpapath/cpapath/internal/tracker"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Reset learner progress (a snapshot is kept for restore)",
	RunE: func(cmd *cobra.Command, args []string) error {
		if yes, _ := cmd.Flags().GetBool("yes"); !yes {
			return errors.New("reset erases progress; re-run with --yes to confirm")
		}

		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		res, err := a.tracker.Reset(cmd.Context(), a.cfg.Learner, now())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Reset %s (%d XP). Snapshot saved at sequence %d; run `cpapath restore` to undo.\n",
			a.cfg.Learner, res.PreviousXP, res.SnapshotSequence)
		return nil
	},
}

var restoreCmd = &cobra.Command{
	Use:   "restore",
	Short: "Restore the learner's most recent snapshot",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		rec, err := a.tracker.Restore(cmd.Context(), a.cfg.Learner, now())
		if errors.Is(err, tracker.ErrNoSnapshot) {
			return fmt.Errorf("%s has no snapshot to restore", a.cfg.Learner)
		}
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Restored %s to %d XP.\n", a.cfg.Learner, rec.Profile.XP)
		return nil
	},
}

func init() {
	resetCmd.Flags().Bool("yes", false, "Confirm the reset")
}
