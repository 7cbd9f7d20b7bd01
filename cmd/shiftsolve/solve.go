package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/staffjoy/shiftsolve/internal/config"
	"github.com/staffjoy/shiftsolve/internal/obslog"
	"github.com/staffjoy/shiftsolve/internal/shiftsolve"
)

var solveInputPath string

var solveCmd = &cobra.Command{
	Use:   "solve",
	Short: "Run a single decomposition from a week-demand JSON file and print the resulting shifts",
	RunE:  runSolve,
}

func init() {
	solveCmd.Flags().StringVar(&solveInputPath, "input", "", "path to a JSON file holding {week_demand, min_length, max_length}")
	solveCmd.MarkFlagRequired("input")
}

type solveInput struct {
	WeekDemand [][]int `json:"week_demand"`
	MinLength  int     `json:"min_length"`
	MaxLength  int     `json:"max_length"`
}

func runSolve(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(envOrDefault())
	if err != nil {
		return err
	}
	logger := obslog.New(cfg.Env, cfg.LogLevel)

	data, err := os.ReadFile(solveInputPath)
	if err != nil {
		return fmt.Errorf("solve: reading %s: %w", solveInputPath, err)
	}

	var input solveInput
	if err := json.Unmarshal(data, &input); err != nil {
		return fmt.Errorf("solve: parsing %s: %w", solveInputPath, err)
	}
	if input.MinLength == 0 {
		input.MinLength = cfg.MinLength
	}
	if input.MaxLength == 0 {
		input.MaxLength = cfg.MaxLength
	}

	opts := shiftsolve.DefaultOptions()
	opts.CalculationTimeout = cfg.CalculationTimeout()
	opts.BifurcationThreshold = cfg.BifurcationThreshold
	opts.Logger = logger
	opts.MaxWindowWorkers = cfg.WindowWorkers

	splitter, err := shiftsolve.NewSplitter(input.WeekDemand, input.MinLength, input.MaxLength, opts)
	if err != nil {
		return fmt.Errorf("solve: building splitter: %w", err)
	}
	if err := splitter.Calculate(); err != nil {
		return fmt.Errorf("solve: %w", err)
	}

	encoded, err := json.MarshalIndent(splitter.GetShifts(), "", "  ")
	if err != nil {
		return fmt.Errorf("solve: encoding result: %w", err)
	}
	fmt.Println(string(encoded))
	return nil
}

func envOrDefault() string {
	if env := os.Getenv("SHIFTSOLVE_ENV"); env != "" {
		return env
	}
	return "development"
}
