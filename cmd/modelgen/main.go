// Package main provides a minimal CLI wrapping the schema-to-model
// pipeline: read a JSON Schema draft-07 document, print its CommonModel
// map as JSON. Code rendering and a broader flag surface are out of scope
// for the core (spec §1); this binary only demonstrates Process.
package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/xseman/modelgen/internal/pipeline"
)

var (
	inputPath  string
	configPath string
	verbose    bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "modelgen",
	Short: "Run the schema-to-model pipeline over a JSON Schema draft-07 document",
	RunE:  runProcess,
}

func init() {
	rootCmd.Flags().StringVarP(&inputPath, "input", "i", "", "JSON Schema draft-07 document")
	rootCmd.Flags().StringVarP(&configPath, "config", "c", "", "Pipeline configuration file (YAML)")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Log pipeline stage progress")
	_ = rootCmd.MarkFlagRequired("input")
}

func runProcess(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(inputPath)
	if err != nil {
		return fmt.Errorf("read %s: %w", inputPath, err)
	}

	var input any
	if err := json.Unmarshal(data, &input); err != nil {
		return fmt.Errorf("parse %s: %w", inputPath, err)
	}

	cfg := pipeline.DefaultConfig()
	if configPath != "" {
		cfg, err = pipeline.LoadConfig(configPath)
		if err != nil {
			return err
		}
	}

	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	result, err := pipeline.NewProcessor(cfg, logger).Process(input)
	if err != nil {
		return err
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(result.Models)
}
