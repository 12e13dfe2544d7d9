package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	memorydb "github.com/southvictor/memory-db"
	"github.com/southvictor/memory-db/store"
)

var (
	backupsAll    bool
	migrateTo     string
	migrateToRoot string
)

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show the database's path, size, and backup state",
	Args:  cobra.NoArgs,
	RunE:  runInfo,
}

var backupsCmd = &cobra.Command{
	Use:   "backups",
	Short: "List the stored backups, oldest first",
	Long: `Lists the timestamped backups captured by previous saves, oldest first.

Files in the backups directory whose names do not parse as timestamps are
not backups; they are never listed, pruned, or restored. Pass --all to see
them anyway.`,
	Args: cobra.NoArgs,
	RunE: runBackups,
}

var verifyCmd = &cobra.Command{
	Use:   "verify NAME",
	Short: "Compare a backup's content digest against the live database",
	Long: `Computes the content digest of the named backup and of the live database
and reports whether they match. NAME is a timestamp as printed by the
backups command.

Flat-file backups are byte copies, so a match means the live database still
holds exactly the backed-up state. Bolt snapshots are rewritten on capture
and normally differ from the live file even when the records are equal.`,
	Args: cobra.ExactArgs(1),
	RunE: runVerify,
}

var restoreCmd = &cobra.Command{
	Use:   "restore NAME",
	Short: "Replace the live database with a backup",
	Long: `Replaces the live database with the named backup's contents. NAME is a
timestamp as printed by the backups command. The replacement is atomic; a
failed restore leaves the live database untouched.`,
	Args: cobra.ExactArgs(1),
	RunE: runRestore,
}

var pruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete the oldest backups beyond the retention cap",
	Long: `Deletes the oldest backups until at most --max-backups remain. Saves do
this automatically; prune reclaims space after the cap was lowered.`,
	Args: cobra.NoArgs,
	RunE: runPrune,
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Copy every record into another backend",
	Long: `Reads every record from the configured database and writes the full set
into the backend named by --to. The source is not modified.

The destination defaults to the same root directory; the engines use
different live file names, so both can coexist there. Pass --to-root to
write somewhere else.`,
	Args: cobra.NoArgs,
	RunE: runMigrate,
}

func init() {
	backupsCmd.Flags().BoolVar(&backupsAll, "all", false, "also list files that are not backups")
	migrateCmd.Flags().StringVar(&migrateTo, "to", "", `destination engine: "flatfile" or "bolt"`)
	migrateCmd.Flags().StringVar(&migrateToRoot, "to-root", "", "destination directory (default: same as --root)")
	_ = migrateCmd.MarkFlagRequired("to")

	rootCmd.AddCommand(infoCmd)
	rootCmd.AddCommand(backupsCmd)
	rootCmd.AddCommand(verifyCmd)
	rootCmd.AddCommand(restoreCmd)
	rootCmd.AddCommand(pruneCmd)
	rootCmd.AddCommand(migrateCmd)
}

func runInfo(cmd *cobra.Command, _ []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	stat, err := db.Stat()
	if err != nil {
		return err
	}

	backups, err := db.Backups()
	if err != nil {
		return err
	}

	cmd.Printf("Path:     %s\n", stat.Path)
	cmd.Printf("Backend:  %s\n", cfg.Backend)
	cmd.Printf("Entries:  %d\n", stat.Entries)
	cmd.Printf("Size:     %s\n", humanize.Bytes(uint64(stat.Bytes)))
	cmd.Printf("Digest:   %016x\n", stat.Digest)

	if len(backups) == 0 {
		cmd.Println("Backups:  0")

		return nil
	}

	newest := backups[len(backups)-1]
	cmd.Printf("Backups:  %d (newest %s)\n", len(backups), humanize.Time(newest.CreatedAt))

	return nil
}

func runBackups(cmd *cobra.Command, _ []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	backups, err := db.Backups()
	if err != nil {
		return err
	}

	for _, backup := range backups {
		cmd.Printf("%-35s  %10s  %s\n",
			backup.Name, humanize.Bytes(uint64(backup.Size)), humanize.Time(backup.CreatedAt))
	}

	foreign := 0
	if backupsAll {
		foreign, err = printForeignFiles(cmd, backups)
		if err != nil {
			return err
		}
	}

	if len(backups) == 0 && foreign == 0 {
		cmd.Println("No backups.")
	}

	return nil
}

// printForeignFiles lists entries of the backups directory that the backup
// machinery ignores, and returns how many there are.
func printForeignFiles(cmd *cobra.Command, backups []memorydb.Backup) (int, error) {
	known := make(map[string]struct{}, len(backups))
	for _, backup := range backups {
		known[backup.Name] = struct{}{}
	}

	dir := filepath.Join(cfg.Options().Root, store.BackupsDirName)

	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return 0, nil
		}

		return 0, fmt.Errorf("reading backups directory: %w", err)
	}

	foreign := 0

	for _, entry := range entries {
		if _, ok := known[entry.Name()]; ok {
			continue
		}

		foreign++
		cmd.Printf("%-35s  (not a backup)\n", entry.Name())
	}

	return foreign, nil
}

func runVerify(cmd *cobra.Command, args []string) error {
	name := args[0]

	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	backups, err := db.Backups()
	if err != nil {
		return err
	}

	if !slices.ContainsFunc(backups, func(b memorydb.Backup) bool { return b.Name == name }) {
		return fmt.Errorf("backup %q not found", name)
	}

	backupDigest, err := store.FileDigest(filepath.Join(cfg.Options().Root, store.BackupsDirName, name))
	if err != nil {
		return err
	}

	stat, err := db.Stat()
	if err != nil {
		return err
	}

	cmd.Printf("Backup:  %s  %016x\n", name, backupDigest)
	cmd.Printf("Live:    %s  %016x\n", stat.Path, stat.Digest)

	if backupDigest == stat.Digest {
		cmd.Println("The live database matches this backup.")
	} else {
		cmd.Println("The live database differs from this backup.")
	}

	return nil
}

func runRestore(cmd *cobra.Command, args []string) error {
	name := args[0]

	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.Restore(name); err != nil {
		return err
	}

	logger.Debug("backup restored", "name", name)
	cmd.Printf("Restored %s\n", name)

	return nil
}

func runPrune(cmd *cobra.Command, _ []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	before, err := db.Backups()
	if err != nil {
		return err
	}

	if err := db.Prune(); err != nil {
		return err
	}

	after, err := db.Backups()
	if err != nil {
		return err
	}

	cmd.Printf("Removed %d backups (%d remain).\n", len(before)-len(after), len(after))

	return nil
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	if migrateTo == memorydb.BackendMemory {
		return fmt.Errorf("cannot migrate into the ephemeral %q backend", memorydb.BackendMemory)
	}

	srcOpts := cfg.Options()

	destCfg := *cfg
	destCfg.Backend = migrateTo
	// The destination uses its engine's default file name.
	destCfg.FileName = ""

	if migrateToRoot != "" {
		destCfg.Root = migrateToRoot
	}

	destOpts := destCfg.Options()
	if srcOpts.Equal(destOpts) {
		return errors.New("source and destination are the same database")
	}

	src, err := openDB()
	if err != nil {
		return err
	}
	defer src.Close()

	values, err := src.Load()
	if err != nil {
		return err
	}

	dest, err := memorydb.OpenWithCodec[json.RawMessage](destOpts, memorydb.RawCodec{})
	if err != nil {
		return err
	}
	defer dest.Close()

	if err := dest.Save(values); err != nil {
		return err
	}

	stat, err := dest.Stat()
	if err != nil {
		return err
	}

	logger.Debug("migration complete",
		"records", len(values),
		"from", srcOpts.Backend,
		"to", destOpts.Backend)
	cmd.Printf("Migrated %d records to %s.\n", len(values), stat.Path)

	return nil
}
