package kv

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/ValentinKolb/cloudkv/cmd/util"
	"github.com/ValentinKolb/cloudkv/lib/codec"
	"github.com/ValentinKolb/cloudkv/lib/query"
	"github.com/ValentinKolb/cloudkv/rpc/client"
	"github.com/ValentinKolb/cloudkv/rpc/common"
	"github.com/google/uuid"
	"github.com/rcrowley/go-metrics"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	perfTestCmd = &cobra.Command{
		Use:   "perf",
		Short: "Performance testing tool for a cloudkv namespace",
		Long: `Measures the latency of the client operations against a namespace.

All keys written by the test share a random prefix and are deleted afterwards.
Requires a write token.`,
		Args:    cobra.NoArgs,
		RunE:    runPerf,
		PreRunE: processPerfConfig,
	}
	perfLargeValueSizeKB = 100
	perfNumThreads       = 10
	perfKeySpread        = 100
	perfRequests         = 1000
	perfSkip             = make([]string, 0)
)

// perfTests lists the tests in the order they are run
var perfTests = []string{"set", "set-large", "get", "get-missing", "keys", "delete", "mixed"}

func init() {
	// add flags
	key := "skip"
	perfTestCmd.Flags().String(key, "", util.WrapString("Tests to skip (comma separated - e.g. set,get)"))
	key = "threads"
	perfTestCmd.Flags().Int(key, 10, util.WrapString("Number of concurrent workers"))
	key = "requests"
	perfTestCmd.Flags().Int(key, 1000, util.WrapString("Number of requests per test"))
	key = "large-value-size"
	perfTestCmd.Flags().Int(key, 100, util.WrapString("How large the value for the set-large test should be (in KB)"))
	key = "key-spread"
	perfTestCmd.Flags().Int(key, 100, util.WrapString("How many different keys to use for the tests"))
	key = "csv"
	perfTestCmd.Flags().String(key, "", util.WrapString("Optional path to save benchmark results as CSV"))
}

func processPerfConfig(cmd *cobra.Command, _ []string) error {
	if err := util.BindCommandFlags(cmd); err != nil {
		return err
	}

	// Read the configuration from the command line flags and environment variables
	perfLargeValueSizeKB = viper.GetInt("large-value-size")
	perfKeySpread = viper.GetInt("key-spread")
	perfNumThreads = viper.GetInt("threads")
	perfRequests = viper.GetInt("requests")
	perfSkip = strings.Split(viper.GetString("skip"), ",")

	if perfKeySpread <= 0 || perfNumThreads <= 0 || perfRequests <= 0 {
		return fmt.Errorf("threads, requests and key-spread must be positive")
	}
	return nil
}

func runPerf(cmd *cobra.Command, _ []string) error {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Performance testing tool for cloudkv")

	// Print configuration
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Configuration:")
	fmt.Fprintln(out, util.GetClientConfig().String())
	fmt.Fprintf(out, "Threads: %d, Requests: %d\n", perfNumThreads, perfRequests)
	fmt.Fprintln(out)

	registry := metrics.NewRegistry()
	bench := &perfBench{
		prefix:   "__perf-" + uuid.NewString()[:8],
		registry: registry,
	}

	fmt.Fprintln(out, "starting tests...")

	err := kvClient.Use(func(c *client.Client) error {
		bench.client = c
		ctx := cmd.Context()
		for _, test := range perfTests {
			if shouldSkip(test) {
				printResult(out, test, nil)
				continue
			}
			timer, err := bench.run(ctx, test)
			if err != nil {
				return err
			}
			printResult(out, test, timer)
		}
		return nil
	})
	if err != nil {
		return err
	}

	// Write results to csv is specified
	if csvPath := viper.GetString("csv"); csvPath != "" {
		fmt.Fprintf(out, "\nExporting results to CSV: %s\n", csvPath)
		if err := writeResultsToCSV(csvPath, registry, util.GetClientConfig()); err != nil {
			return fmt.Errorf("failed to export results to CSV: %v", err)
		}
		fmt.Fprintln(out, "Export complete")
	}

	return nil
}

// --------------------------------------------------------------------------
// Benchmark
// --------------------------------------------------------------------------

// perfBench runs the tests against one namespace. Every test records its
// latencies in a timer of the registry named after the test.
type perfBench struct {
	client   *client.Client
	prefix   string
	registry metrics.Registry
}

// run prepares the keys of test, runs it and removes the keys again
func (b *perfBench) run(ctx context.Context, test string) (metrics.Timer, error) {
	keys := b.keys(test)
	value := codec.Text("test")

	// prepare keys
	if test != "set" && test != "set-large" && test != "get-missing" {
		for _, k := range keys {
			if _, err := b.client.Set(ctx, k, value); err != nil {
				return nil, fmt.Errorf("(%s) - error setting key: %w", test, err)
			}
		}
	}

	// cleanup
	defer func() {
		for _, k := range keys {
			if _, err := b.client.Delete(ctx, k); err != nil {
				Logger.Warningf("(%s) - error deleting key: %v", test, err)
			}
		}
	}()

	var op func(i int) error
	switch test {
	case "set":
		op = func(i int) error {
			_, err := b.client.Set(ctx, keys[i%len(keys)], value)
			return err
		}
	case "set-large":
		large := codec.Binary(make([]byte, perfLargeValueSizeKB*1024))
		op = func(i int) error {
			_, err := b.client.Set(ctx, keys[i%len(keys)], large)
			return err
		}
	case "get", "get-missing":
		op = func(i int) error {
			_, _, err := b.client.Get(ctx, keys[i%len(keys)])
			return err
		}
	case "keys":
		op = func(int) error {
			_, err := b.client.ListKeys(ctx, query.Query{Filter: query.StartsWith(b.prefix)})
			return err
		}
	case "delete":
		op = func(i int) error {
			_, err := b.client.Delete(ctx, keys[i%len(keys)])
			return err
		}
	case "mixed":
		op = func(i int) error {
			key := keys[i%len(keys)]
			var err error
			switch i % 3 {
			case 0:
				_, err = b.client.Set(ctx, key, value)
			case 1:
				_, _, err = b.client.Get(ctx, key)
			case 2:
				_, err = b.client.Delete(ctx, key)
			}
			return err
		}
	default:
		return nil, fmt.Errorf("unknown test %s", test)
	}

	timer := metrics.GetOrRegisterTimer(test, b.registry)
	b.parallel(test, timer, op)
	return timer, nil
}

// parallel runs perfRequests calls of op on perfNumThreads workers
func (b *perfBench) parallel(test string, timer metrics.Timer, op func(i int) error) {
	var (
		wg   sync.WaitGroup
		next = make(chan int)
	)
	for range perfNumThreads {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range next {
				start := time.Now()
				if err := op(i); err != nil {
					Logger.Warningf("(%s) - request failed: %v", test, err)
					continue
				}
				timer.UpdateSince(start)
			}
		}()
	}
	for i := range perfRequests {
		next <- i
	}
	close(next)
	wg.Wait()
}

// keys creates the test keys of one test
func (b *perfBench) keys(test string) []string {
	keys := make([]string, perfKeySpread)
	for i := range keys {
		keys[i] = fmt.Sprintf("%s-%s-%d", b.prefix, test, i)
	}
	return keys
}

// --------------------------------------------------------------------------
// Helper
// --------------------------------------------------------------------------

func shouldSkip(test string) bool {
	return slices.Contains(perfSkip, test)
}

// printResult prints the result of a test in a formatted way, a nil timer
// means the test was skipped
func printResult(w io.Writer, test string, timer metrics.Timer) {
	if timer == nil {
		fmt.Fprintf(w, "%-14sskipped\n", test)
		return
	}
	if timer.Count() == 0 {
		fmt.Fprintf(w, "%-14sfailed (all %d requests failed, see log)\n", test, perfRequests)
		return
	}

	s := timer.Snapshot()
	ps := s.Percentiles([]float64{0.5, 0.99})
	fmt.Fprintf(w, "%-14s%6d ok  mean %-12s p50 %-12s p99 %-12s %.0f ops/sec\n",
		test, s.Count(),
		time.Duration(s.Mean()), time.Duration(ps[0]), time.Duration(ps[1]),
		s.RateMean())
}

// writeResultsToCSV writes the timers of the registry to a CSV file
func writeResultsToCSV(csvPath string, registry metrics.Registry, config *common.ClientConfig) error {
	file, err := os.Create(csvPath)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %v", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	// Write header
	header := []string{
		"Test", "Count", "MeanNs", "P50Ns", "P99Ns", "MaxNs", "OpsPerSec",
		"BaseURL", "TimeoutSec", "RetryCount", "Threads", "LargeValueSizeKB", "KeySpread",
	}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %v", err)
	}

	// Write test results
	for _, test := range perfTests {
		timer, ok := registry.Get(test).(metrics.Timer)
		if !ok {
			continue
		}
		s := timer.Snapshot()
		ps := s.Percentiles([]float64{0.5, 0.99})

		row := []string{
			test,
			strconv.FormatInt(s.Count(), 10),
			fmt.Sprintf("%.0f", s.Mean()),
			fmt.Sprintf("%.0f", ps[0]),
			fmt.Sprintf("%.0f", ps[1]),
			strconv.FormatInt(s.Max(), 10),
			fmt.Sprintf("%.0f", s.RateMean()),
			config.BaseURL,
			strconv.Itoa(config.TimeoutSecond),
			strconv.Itoa(config.RetryCount),
			strconv.Itoa(perfNumThreads),
			strconv.Itoa(perfLargeValueSizeKB),
			strconv.Itoa(perfKeySpread),
		}

		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write row for test %s: %v", test, err)
		}
	}

	return nil
}
