package cmd

import (
	"fmt"
	"strings"

	"github.com/roffe/memslog/pkg/rosco"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version <code>",
	Short: "look up the ECU for a D0 version answer",
	Long:  `example: memstool version 99 00 03 03`,
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		code := strings.Join(args, " ")
		e, ok := rosco.VersionFromCode(code)
		if !ok {
			return fmt.Errorf("unknown ECU version code %q", code)
		}
		fmt.Printf("%s, schema %s\n", e.ID, e.Version)
		return nil
	},
}
