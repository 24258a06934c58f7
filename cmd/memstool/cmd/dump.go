package cmd

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/roffe/memslog/pkg/config"
	"github.com/roffe/memslog/pkg/decoder"
	"github.com/roffe/memslog/pkg/frame"
	"github.com/spf13/cobra"
)

const flagFields = "fields"

func init() {
	dumpCmd.Flags().Bool(flagFields, false, "print every field of each frame")
	rootCmd.AddCommand(dumpCmd)
}

var dumpCmd = &cobra.Command{
	Use:   "dump <file>",
	Short: "print the decoded data frames of a log",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		fields, _ := cmd.Flags().GetBool(flagFields)
		return dump(args[0], runConfig, fields)
	},
}

func dump(path string, cfg *config.Config, fields bool) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	s := decoder.NewSession(decoder.WithVersion(cfg.Schema))
	frames, err := s.Decode(f)
	if err != nil {
		return err
	}

	reported := s.ReportedVersion()
	if reported == "" {
		reported = "none"
	}
	color.New(color.FgYellow).Printf("reported version: %s, schema: %s\n", reported, s.Version())

	// frames are printed in log order, secondary before primary for each sample
	byIndex := make(map[int][]*frame.RawFrame)
	for _, fr := range frames.Secondary {
		byIndex[fr.Index()] = append(byIndex[fr.Index()], fr)
	}
	for _, fr := range frames.Primary {
		byIndex[fr.Index()] = append(byIndex[fr.Index()], fr)
	}
	for i := 0; i <= s.Counter(); i++ {
		for _, fr := range byIndex[i] {
			fmt.Println(fr.String())
			if fields {
				for n := 0; n < fr.Len(); n++ {
					fmt.Println("    " + fr.Field(n))
				}
			}
		}
	}
	fmt.Printf("%d primary, %d secondary, %d unrecognized lines, %d malformed\n",
		len(frames.Primary), len(frames.Secondary),
		s.Skipped(decoder.UnrecognizedLine), s.Skipped(decoder.MalformedToken))
	return nil
}
