package cmd

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/roffe/memslog/pkg/config"
	"github.com/roffe/memslog/pkg/rosco"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(schemaCmd)
}

var schemaCmd = &cobra.Command{
	Use:   "schema [a|b]",
	Short: "print frame layouts, handshake and command table",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		versions := []rosco.SchemaVersion{rosco.VersionA, rosco.VersionB}
		if len(args) == 1 {
			v, err := config.ParseSchema(args[0])
			if err != nil {
				return err
			}
			if v != rosco.UnknownVersion {
				versions = []rosco.SchemaVersion{v}
			}
		}
		head := color.New(color.FgGreen, color.Bold)
		for _, v := range versions {
			e, _ := rosco.ECUFor(v)
			head.Printf("%s %s (%s)\n", v, e.ID, e.Code)
			fmt.Println("handshake:")
			for _, st := range rosco.HandshakeSequence(v) {
				fmt.Printf("  tx % X  rx % X\n", st.Tx, st.Response)
			}
			for _, fs := range rosco.Frames(v) {
				fmt.Printf("frame 0x%02X, %d bytes:\n", fs.Command, len(fs.Fields))
				for i, name := range fs.Fields {
					fmt.Printf("  0x%02X %s\n", i, name)
				}
			}
			fmt.Println()
		}
		head.Println("commands")
		var sb strings.Builder
		for _, c := range rosco.Commands() {
			sb.WriteString("  " + c.String() + "\n")
		}
		fmt.Print(sb.String())
		return nil
	},
}
