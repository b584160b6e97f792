// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/doculearn/doculearn/internal/remind"
)

var remindCmd = &cobra.Command{
	Use:   "remind",
	Short: "Run the review reminder daemon",
	Long: `Remind checks every hour which learners have reviews due and prints a
reminder for each, inside the notification window. With --once, it runs a
single check and exits.`,
	RunE: runRemind,
}

func init() {
	remindCmd.Flags().Bool("once", false, "run a single check and exit")
	remindCmd.Flags().Int("start-hour", remind.DefaultStartHour, "first local hour reminders are delivered")
	remindCmd.Flags().Int("end-hour", remind.DefaultEndHour, "last local hour reminders are delivered")

	rootCmd.AddCommand(remindCmd)
}

func runRemind(cmd *cobra.Command, args []string) error {
	once, _ := cmd.Flags().GetBool("once")
	startHour, _ := cmd.Flags().GetInt("start-hour")
	endHour, _ := cmd.Flags().GetInt("end-hour")

	store, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	reminder := remind.New(store, remind.WriterNotifier{W: os.Stdout}, os.Stderr,
		remind.WithWindow(startHour, endHour))

	if once {
		return reminder.Check(cmd.Context())
	}

	if err := reminder.Start(); err != nil {
		return err
	}
	defer reminder.Stop()

	fmt.Fprintln(os.Stderr, "Reminder daemon running; Ctrl-C to stop.")
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()
	return nil
}
