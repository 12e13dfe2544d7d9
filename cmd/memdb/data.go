package main

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"

	"github.com/spf13/cobra"
)

var setString bool

var getCmd = &cobra.Command{
	Use:   "get KEY",
	Short: "Print the value stored under a key",
	Args:  cobra.ExactArgs(1),
	RunE:  runGet,
}

var setCmd = &cobra.Command{
	Use:   "set KEY VALUE",
	Short: "Store a value under a key",
	Long: `Stores VALUE under KEY, replacing any existing value.

VALUE must be JSON. Pass --string to store a bare string without quoting
it yourself.`,
	Args: cobra.ExactArgs(2),
	RunE: runSet,
}

var unsetCmd = &cobra.Command{
	Use:   "unset KEY",
	Short: "Remove a key",
	Args:  cobra.ExactArgs(1),
	RunE:  runUnset,
}

var keysCmd = &cobra.Command{
	Use:   "keys",
	Short: "List every key, sorted",
	Args:  cobra.NoArgs,
	RunE:  runKeys,
}

var dumpCmd = &cobra.Command{
	Use:   "dump",
	Short: "Print the whole database as indented JSON",
	Args:  cobra.NoArgs,
	RunE:  runDump,
}

func init() {
	setCmd.Flags().BoolVar(&setString, "string", false, "treat VALUE as a bare string instead of JSON")

	rootCmd.AddCommand(getCmd)
	rootCmd.AddCommand(setCmd)
	rootCmd.AddCommand(unsetCmd)
	rootCmd.AddCommand(keysCmd)
	rootCmd.AddCommand(dumpCmd)
}

func runGet(cmd *cobra.Command, args []string) error {
	key := args[0]

	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	values, err := db.Load()
	if err != nil {
		return err
	}

	value, ok := values[key]
	if !ok {
		return fmt.Errorf("key %q not found", key)
	}

	cmd.Println(string(value))

	return nil
}

func runSet(cmd *cobra.Command, args []string) error {
	key, raw := args[0], args[1]

	value := json.RawMessage(raw)
	if setString {
		quoted, err := json.Marshal(raw)
		if err != nil {
			return fmt.Errorf("quoting value: %w", err)
		}

		value = quoted
	} else if !json.Valid(value) {
		return fmt.Errorf("value is not valid JSON (use --string to store it as a string): %q", raw)
	}

	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	values, err := db.Load()
	if err != nil {
		return err
	}

	values[key] = value

	if err := db.Save(values); err != nil {
		return err
	}

	cmd.Printf("%s = %s\n", key, value)

	return nil
}

func runUnset(cmd *cobra.Command, args []string) error {
	key := args[0]

	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	values, err := db.Load()
	if err != nil {
		return err
	}

	if _, ok := values[key]; !ok {
		return fmt.Errorf("key %q not found", key)
	}

	delete(values, key)

	if err := db.Save(values); err != nil {
		return err
	}

	cmd.Printf("Removed %q\n", key)

	return nil
}

func runKeys(cmd *cobra.Command, _ []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	values, err := db.Load()
	if err != nil {
		return err
	}

	for _, key := range slices.Sorted(maps.Keys(values)) {
		cmd.Println(key)
	}

	return nil
}

func runDump(cmd *cobra.Command, _ []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	values, err := db.Load()
	if err != nil {
		return err
	}

	// MarshalIndent sorts the keys, so dumps diff cleanly between runs.
	rendered, err := json.MarshalIndent(values, "", "  ")
	if err != nil {
		return fmt.Errorf("rendering dump: %w", err)
	}

	cmd.Println(string(rendered))

	return nil
}
