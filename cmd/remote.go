package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"mindfulbreak/internal/control"
	"mindfulbreak/internal/core/model"
	"mindfulbreak/internal/core/scheduler"
	"mindfulbreak/internal/platform"
	"mindfulbreak/internal/storage"
)

const remoteTimeout = 5 * time.Second

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the state of the running instance",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

var breakCmd = &cobra.Command{
	Use:   "break",
	Short: "Ask the running instance to start a break now",
	Args:  cobra.NoArgs,
	RunE:  runBreak,
}

func runStatus(cmd *cobra.Command, args []string) error {
	client, err := remoteClient(opts)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(cmd.Context(), remoteTimeout)
	defer cancel()

	snapshot, err := client.State(ctx)
	if err != nil {
		return fmt.Errorf("is mindfulbreak running? %w", err)
	}
	printSnapshot(cmd.OutOrStdout(), snapshot, time.Now())
	return nil
}

func runBreak(cmd *cobra.Command, args []string) error {
	client, err := remoteClient(opts)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(cmd.Context(), remoteTimeout)
	defer cancel()

	snapshot, err := client.TakeBreak(ctx)
	if errors.Is(err, control.ErrConflict) {
		fmt.Fprintln(cmd.OutOrStdout(), "Already on a break.")
		return nil
	}
	if err != nil {
		return fmt.Errorf("is mindfulbreak running? %w", err)
	}
	printSnapshot(cmd.OutOrStdout(), snapshot, time.Now())
	return nil
}

// remoteClient finds the running instance: --control-addr, then the config
// file's controlAddress, then the single-instance port.
func remoteClient(opts options) (*control.Client, error) {
	address := strings.TrimSpace(opts.controlAddress)
	if address == "" {
		config, _ := loadConfig(opts)
		address = config.ControlAddress
	}
	switch address {
	case model.ControlDisabled:
		return nil, errors.New("the control API is turned off in the config")
	case "":
		address = platform.InstanceAddress(storage.AppName)
	}
	return control.NewClient(address), nil
}

func printSnapshot(out io.Writer, snapshot scheduler.Snapshot, now time.Time) {
	switch snapshot.State {
	case scheduler.StateWorking:
		fmt.Fprintln(out, "Working.")
		fmt.Fprintf(out, "  Next break: %s (in %s)\n", snapshot.NextBreakAt.Local().Format("15:04"), snapshot.NextBreakAt.Sub(now).Round(time.Second))
	case scheduler.StateBreakPending:
		fmt.Fprintln(out, "Break prompt is waiting for an answer.")
	case scheduler.StateOnBreak:
		fmt.Fprintln(out, "On a break.")
		if snapshot.Session != nil {
			fmt.Fprintf(out, "  Since: %s (%s ago)\n", snapshot.Session.StartedAt.Local().Format("15:04"), now.Sub(snapshot.Session.StartedAt).Round(time.Second))
		}
	default:
		fmt.Fprintln(out, "Not running.")
	}
	if snapshot.WorkInterval > 0 {
		fmt.Fprintf(out, "  Work interval: %s\n", snapshot.WorkInterval)
	}
}
