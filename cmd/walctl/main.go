// Package main implements walctl, a command-line client for inspecting and
// driving a rosekv write-ahead log directly, without going through the HTTP
// API.
package main

import (
	"fmt"
	"os"

	"github.com/divedb/rosekv/internal/kvdemo"
	"github.com/divedb/rosekv/internal/libs/obs"
	"github.com/divedb/rosekv/internal/wal"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var walDir string

	root := &cobra.Command{
		Use:   "walctl",
		Short: "Inspect and drive a rosekv write-ahead log",
	}
	root.PersistentFlags().StringVar(&walDir, "dir", "./data/wal", "WAL directory")

	root.AddCommand(
		newPutCmd(&walDir),
		newGetCmd(&walDir),
		newDeleteCmd(&walDir),
		newStatsCmd(&walDir),
		newSyncCmd(&walDir),
	)
	return root
}

func openStore(dir string) (*kvdemo.Store, error) {
	obs.InitLogger("error")
	return kvdemo.Open(wal.Options{Dir: dir})
}

func newPutCmd(dir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "put <key> <value>",
		Short: "Durably write a key/value pair",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore(*dir)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if err := store.Put(args[0], []byte(args[1])); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "put %q\n", args[0])
			return nil
		},
	}
}

func newGetCmd(dir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Read the current value for a key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore(*dir)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			value, ok, err := store.Get(args[0])
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("key %q not found", args[0])
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(value))
			return nil
		},
	}
}

func newDeleteCmd(dir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <key>",
		Short: "Append a tombstone for a key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore(*dir)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			deleted, err := store.Delete(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %q: %v\n", args[0], deleted)
			return nil
		},
	}
}

func newStatsCmd(dir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Print the WAL's running IO counters and segment roster",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := openStore(*dir)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			stats := store.Stats()
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "keys:                  %d\n", store.Len())
			fmt.Fprintf(out, "segments:              %v\n", store.SegmentIDs())
			fmt.Fprintf(out, "total_bytes_written:   %d\n", stats.TotalBytesWritten)
			fmt.Fprintf(out, "total_write_ops:       %d\n", stats.TotalWriteOps)
			fmt.Fprintf(out, "bytes_since_last_sync: %d\n", stats.BytesSinceLastSync)
			fmt.Fprintf(out, "sync_ops:              %d\n", stats.SyncOps)
			return nil
		},
	}
}

func newSyncCmd(dir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Force an immediate flush of the WAL to durable storage",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := openStore(*dir)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if err := store.Sync(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "synced")
			return nil
		},
	}
}
