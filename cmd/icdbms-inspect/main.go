// Command icdbms-inspect is a small debugging CLI over a store file:
// it lists registered tables and dumps a table's raw record bytes. It
// is bundled tooling around the engine, not part of the engine itself.
package main

import (
	"encoding/hex"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/icdbms/icdbms/internal/catalog"
	"github.com/icdbms/icdbms/internal/pagestore"
	"github.com/icdbms/icdbms/internal/pagestore/badgerstore"
)

func addPageSizeFlag(fs *pflag.FlagSet, pageSize *uint32) {
	fs.Uint32VarP(pageSize, "page-size", "p", pagestore.DefaultPageSize, "store page size in bytes")
}

func addRowAlignmentFlag(fs *pflag.FlagSet, alignment *uint16) {
	fs.Uint16VarP(alignment, "row-alignment", "a", 2, "table registry row alignment in bytes")
}

func openAllocator(dir string, pageSize uint32) (*pagestore.Allocator, func() error, error) {
	store, err := badgerstore.Open(dir, pageSize)
	if err != nil {
		return nil, nil, fmt.Errorf("opening store at %s: %w", dir, err)
	}
	alloc, err := pagestore.NewAllocator(store, pageSize, nil)
	if err != nil {
		store.Close()
		return nil, nil, fmt.Errorf("opening allocator: %w", err)
	}
	return alloc, store.Close, nil
}

func newSchemasCommand() *cobra.Command {
	var pageSize uint32
	cmd := &cobra.Command{
		Use:   "schemas <store-dir>",
		Short: "List every table registered in a store",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			alloc, closeStore, err := openAllocator(args[0], pageSize)
			if err != nil {
				return err
			}
			defer closeStore()

			root, found, err := alloc.SchemaRegistryRoot()
			if err != nil {
				return err
			}
			if !found {
				fmt.Fprintln(cmd.OutOrStdout(), "no tables registered")
				return nil
			}
			reg, err := catalog.OpenSchemaRegistry(alloc, root)
			if err != nil {
				return err
			}
			for _, e := range reg.Entries() {
				fmt.Fprintf(cmd.OutOrStdout(), "%-20s fingerprint=%016x registry_page=%d\n", e.Name, e.Fingerprint, e.RegistryPage)
			}
			return nil
		},
	}
	addPageSizeFlag(cmd.Flags(), &pageSize)
	return cmd
}

func newRecordsCommand() *cobra.Command {
	var (
		pageSize     uint32
		rowAlignment uint16
		table        string
	)
	cmd := &cobra.Command{
		Use:   "records <store-dir>",
		Short: "Dump a table's raw record bytes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if table == "" {
				return fmt.Errorf("--table is required")
			}
			alloc, closeStore, err := openAllocator(args[0], pageSize)
			if err != nil {
				return err
			}
			defer closeStore()

			root, found, err := alloc.SchemaRegistryRoot()
			if err != nil {
				return err
			}
			if !found {
				return fmt.Errorf("no tables registered in this store")
			}
			schemaRegistry, err := catalog.OpenSchemaRegistry(alloc, root)
			if err != nil {
				return err
			}
			var registryPage pagestore.Page
			var exists bool
			for _, e := range schemaRegistry.Entries() {
				if e.Name == table {
					registryPage, exists = e.RegistryPage, true
					break
				}
			}
			if !exists {
				return fmt.Errorf("table %q not found", table)
			}

			tableRegistry, err := catalog.OpenTableRegistry(alloc, registryPage, rowAlignment)
			if err != nil {
				return err
			}
			records, err := tableRegistry.ReadAll()
			if err != nil {
				return err
			}
			for _, r := range records {
				fmt.Fprintf(cmd.OutOrStdout(), "page=%d offset=%d size=%d bytes=%s\n",
					r.Location.Page, r.Location.Offset, r.Location.PhysicalSize, hex.EncodeToString(r.Raw))
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d record(s)\n", len(records))
			return nil
		},
	}
	fs := cmd.Flags()
	addPageSizeFlag(fs, &pageSize)
	addRowAlignmentFlag(fs, &rowAlignment)
	fs.StringVarP(&table, "table", "t", "", "table name to dump")
	return cmd
}

func rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "icdbms-inspect",
		Short: "Inspect an icdbms store file",
	}
	root.AddCommand(newSchemasCommand())
	root.AddCommand(newRecordsCommand())
	return root
}

func main() {
	if err := rootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
