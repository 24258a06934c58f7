package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/fatih/color"
	"github.com/manifoldco/promptui"
	"github.com/roffe/memslog"
	"github.com/roffe/memslog/pkg/bar"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(analyseCmd)
}

var analyseCmd = &cobra.Command{
	Use:     "analyse [files...]",
	Aliases: []string{"analyze"},
	Short:   "diagnose faults in one or more logs",
	Long:    `without arguments the logs in the current directory are offered for selection`,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, cfg := runOptions()
		if len(args) == 0 {
			f, err := selectLog(".")
			if err != nil {
				return err
			}
			args = []string{f}
		}

		if len(args) == 1 {
			run, err := memslog.AnalyseFile(args[0], opts...)
			if err != nil {
				return err
			}
			printRun(args[0], run)
			return nil
		}

		pb := bar.New(len(args), "analysing")
		results, err := memslog.AnalyseFiles(cmd.Context(), args, cfg.Workers, func(memslog.FileResult) {
			pb.Add(1)
		}, opts...)
		pb.Finish()
		if err != nil {
			return err
		}
		var failed int
		for _, r := range results {
			if r.Err != nil {
				failed++
				color.New(color.FgRed).Printf("%s: %v\n\n", r.Path, r.Err)
				continue
			}
			printRun(r.Path, r.Run)
		}
		if failed > 0 {
			return fmt.Errorf("%d of %d logs failed", failed, len(results))
		}
		return nil
	},
}

func printRun(path string, run *memslog.Run) {
	header := color.New(color.FgYellow, color.Bold)
	header.Printf("%s", filepath.Base(path))
	fmt.Printf(" %s %s, %d samples, %d warm\n\n", run.ECUID, run.Version, run.Diagnosis.RunLength, run.Diagnosis.WarmRunLength)
	if len(run.Diagnosis.Faults) == 0 {
		color.New(color.FgGreen).Println(run.Report)
	} else {
		fmt.Println(run.Report)
	}
	fmt.Println()
}

func findLogs(dir string) ([]string, error) {
	var out []string
	for _, pattern := range []string{"*.txt", "*.log"} {
		m, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			return nil, err
		}
		out = append(out, m...)
	}
	sort.Strings(out)
	return out, nil
}

func selectLog(dir string) (string, error) {
	logs, err := findLogs(dir)
	if err != nil {
		return "", err
	}
	if len(logs) == 0 {
		wd, _ := os.Getwd()
		return "", fmt.Errorf("no .txt or .log files in %s", wd)
	}
	prompt := promptui.Select{
		Label: "Select log",
		Items: logs,
		Size:  10,
	}
	_, result, err := prompt.Run()
	if err != nil {
		return "", fmt.Errorf("prompt failed: %w", err)
	}
	return result, nil
}
