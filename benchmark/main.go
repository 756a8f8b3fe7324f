// Package main times the commitscope CLI over a directory of line-change
// CSV files. Each command runs without a cache, then with the SQLite cache
// where the first run is cold and the rest are warm.
//
// Prerequisites:
// - commitscope binary installed and available in PATH
// - One or more *.csv files in the data directory
//
// Usage: go run benchmark/main.go [data-dir]
package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// BenchmarkResult holds the timings of one command on one dataset.
type BenchmarkResult struct {
	Dataset     string
	Command     string
	NoCacheTime string
	ColdTime    string
	WarmTime    string
}

// BenchmarkConfig holds configuration for the benchmark run.
type BenchmarkConfig struct {
	DataDir     string
	Timeout     time.Duration
	NoCacheRuns int
	CacheRuns   int
	Datasets    []string
	OutDir      string
}

// benchCommand is one CLI invocation under test.
type benchCommand struct {
	name string
	args func(outDir string) []string
}

var commands = []benchCommand{
	{"stats", func(string) []string { return []string{"stats", "--output", "json", "--output-file", os.DevNull} }},
	{"render", func(string) []string { return []string{"render", "--output-file", os.DevNull} }},
	{"export", func(dir string) []string {
		return []string{"export", "--output", "parquet", "--output-file", filepath.Join(dir, "lines.parquet")}
	}},
}

func main() {
	if len(os.Args) != 2 {
		fmt.Printf("Usage: %s [data-dir]\n", os.Args[0])
		os.Exit(1)
	}

	outDir, err := os.MkdirTemp("", "commitscope-bench-*")
	if err != nil {
		fmt.Printf("Failed to create temp dir: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = os.RemoveAll(outDir) }()

	config := BenchmarkConfig{
		DataDir:     os.Args[1],
		Timeout:     2 * time.Minute,
		NoCacheRuns: 3,
		CacheRuns:   4,
		OutDir:      outDir,
	}

	if err := checkPrerequisites(&config); err != nil {
		fmt.Printf("Prerequisites check failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Clearing cache...\n")
	if output, err := exec.Command("commitscope", "cache", "clear").CombinedOutput(); err != nil {
		fmt.Printf("Warning: failed to clear cache: %v\nOutput: %s\n", err, string(output))
	}

	results := runBenchmarks(config)

	if err := saveResults(results); err != nil {
		fmt.Printf("Failed to save results: %v\n", err)
		os.Exit(1)
	}

	printSummary(results)
}

// checkPrerequisites finds the binary and collects the datasets.
func checkPrerequisites(config *BenchmarkConfig) error {
	if _, err := exec.LookPath("commitscope"); err != nil {
		return fmt.Errorf("commitscope binary not found in PATH")
	}

	matches, err := filepath.Glob(filepath.Join(config.DataDir, "*.csv"))
	if err != nil {
		return err
	}
	if len(matches) == 0 {
		return fmt.Errorf("no csv files found in %s", config.DataDir)
	}
	sort.Strings(matches)
	config.Datasets = matches
	return nil
}

func runBenchmarks(config BenchmarkConfig) []BenchmarkResult {
	var results []BenchmarkResult

	fmt.Printf("Starting benchmark: %d datasets, %v timeout, no-cache: %d runs, cache: %d runs\n",
		len(config.Datasets), config.Timeout, config.NoCacheRuns, config.CacheRuns)

	for _, dataset := range config.Datasets {
		fmt.Printf("Benchmarking %s\n", filepath.Base(dataset))
		for _, c := range commands {
			results = append(results, runBenchmarkSuite(config, dataset, c))
		}
	}
	return results
}

// runBenchmarkSuite runs both no-cache and cache phases for a command.
func runBenchmarkSuite(config BenchmarkConfig, dataset string, c benchCommand) BenchmarkResult {
	runPhase := func(cacheBackend string, numRuns int, phaseName string) (coldTime float64, avgTime string) {
		fmt.Printf("  %s %s phase (%d runs)\n", c.name, phaseName, numRuns)
		cold, times := runBenchmark(config, dataset, c, cacheBackend, numRuns)
		return cold, average(times)
	}

	_, noCacheAvg := runPhase("none", config.NoCacheRuns, "no-cache")
	coldTime, warmAvg := runPhase("sqlite", config.CacheRuns, "cache")

	coldTimeStr := "TIMEOUT"
	if coldTime > 0 {
		coldTimeStr = fmt.Sprintf("%.3fs", coldTime)
	}

	return BenchmarkResult{
		Dataset:     filepath.Base(dataset),
		Command:     c.name,
		NoCacheTime: noCacheAvg,
		ColdTime:    coldTimeStr,
		WarmTime:    warmAvg,
	}
}

// runBenchmark returns the first successful run time and the times of the rest.
func runBenchmark(config BenchmarkConfig, dataset string, c benchCommand, cacheBackend string, numRuns int) (coldTime float64, warmTimes []float64) {
	args := append(c.args(config.OutDir), dataset, "--cache-backend", cacheBackend)

	var times []float64
	for range numRuns {
		ctx, cancel := context.WithTimeout(context.Background(), config.Timeout)
		start := time.Now()
		output, err := exec.CommandContext(ctx, "commitscope", args...).CombinedOutput()
		elapsed := time.Since(start).Seconds()
		cancel()
		if err == nil && isSuccess(output) {
			times = append(times, elapsed)
		}
	}

	if len(times) > 0 {
		coldTime = times[0]
		warmTimes = times[1:]
	}
	return
}

func average(times []float64) string {
	if len(times) == 0 {
		return "TIMEOUT"
	}
	var sum float64
	for _, t := range times {
		sum += t
	}
	return fmt.Sprintf("%.3fs", sum/float64(len(times)))
}

// isSuccess checks that the commits were loaded and something was written.
func isSuccess(output []byte) bool {
	out := string(output)
	return strings.Contains(out, "Loaded") && strings.Contains(out, "Wrote")
}

// saveResults writes benchmark results to a timestamped CSV file.
func saveResults(results []BenchmarkResult) error {
	filename := filepath.Join(os.TempDir(), fmt.Sprintf("commitscope_benchmark_%s.csv", time.Now().Format("20060102_150405")))

	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			fmt.Printf("Warning: failed to close file %s: %v\n", filename, closeErr)
		}
	}()

	writer := csv.NewWriter(file)
	if err := writer.Write([]string{"dataset", "cmd", "no_cache_avg", "cold_time", "warm_avg"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, r := range results {
		if err := writer.Write([]string{r.Dataset, r.Command, r.NoCacheTime, r.ColdTime, r.WarmTime}); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return err
	}

	fmt.Printf("Results saved to %s\n", filename)
	return nil
}

func printSummary(results []BenchmarkResult) {
	fmt.Printf("Benchmark complete\n")
	for _, c := range commands {
		fmt.Printf("%s:\n", c.name)
		for _, r := range results {
			if r.Command == c.name {
				fmt.Printf("  %-20s: No-cache: %s, Cold: %s, Warm: %s\n", r.Dataset, r.NoCacheTime, r.ColdTime, r.WarmTime)
			}
		}
	}
}
