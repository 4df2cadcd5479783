package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Trivaxy/Spyglass/src/symbols"
)

var cacheInspectCmd = &cobra.Command{
	Use:   CmdCacheInspect + " <file>",
	Short: "Summarize a persisted symbol cache",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		file, err := symbols.LoadCacheFile(args[0])
		if err != nil {
			return err
		}

		fmt.Printf("version: %d\n", file.Version)
		fmt.Printf("tracked files: %d\n", len(file.Files))
		fmt.Printf("units: %d, positions: %d\n", file.Cache.UnitCount(), file.Cache.PositionCount())
		for _, t := range file.Cache.Types() {
			cat := file.Cache.Category(t)
			positions := 0
			for _, id := range cat.Identities() {
				unit := cat.Get(id)
				positions += len(unit.Declarations) + len(unit.Definitions) + len(unit.References)
			}
			fmt.Printf("  %-40s %5d units %6d positions\n", t, cat.Len(), positions)
		}
		return nil
	},
}

var cacheVerifyCmd = &cobra.Command{
	Use:   CmdCacheVerify + " <file>",
	Short: "Check tracked files against their recorded checksums",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		file, err := symbols.LoadCacheFile(args[0])
		if err != nil {
			return err
		}

		stale, missing := 0, 0
		for document, state := range file.Files {
			content, err := os.ReadFile(document.Filename())
			if err != nil {
				fmt.Printf("missing: %s\n", document)
				missing++
				continue
			}
			if symbols.ChecksumContent(content) != state.Checksum {
				fmt.Printf("stale:   %s\n", document)
				stale++
			}
		}

		fmt.Printf("%d tracked, %d stale, %d missing\n", len(file.Files), stale, missing)
		if stale+missing > 0 {
			return fmt.Errorf("cache is out of date")
		}
		return nil
	},
}
