package cmd

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/roffe/memslog"
	"github.com/roffe/memslog/pkg/normalize"
	"github.com/roffe/memslog/pkg/rosco"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(statsCmd)
}

var statsCmd = &cobra.Command{
	Use:   "stats <file>",
	Short: "print min, median and max of every reading",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, _ := runOptions()
		run, err := memslog.AnalyseFile(args[0], opts...)
		if err != nil {
			return err
		}
		st, err := run.Metrics.Stats()
		if err != nil {
			return err
		}

		faulty := make(map[string]bool)
		for _, f := range rosco.FaultFields {
			bad, err := run.Metrics.IsFaulty(f)
			if err != nil {
				return err
			}
			faulty[f] = bad
		}

		red := color.New(color.FgRed).SprintFunc()
		fmt.Printf("%-45s%10s%10s%10s\n", "", "min", "median", "max")
		for _, s := range st {
			line := fmt.Sprintf("%s %s", s, normalize.Unit(s.Name))
			if faulty[s.Name] {
				line = red(line)
			}
			fmt.Println(line)
		}
		return nil
	},
}
