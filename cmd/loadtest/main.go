// Command loadtest fires concurrent requests at a running ledger service and
// verifies balances afterwards.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"sort"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"
)

func main() {
	baseURL := flag.String("url", "http://localhost:8080", "Base URL of the ledger service")
	name := flag.String("scenario", "all", fmt.Sprintf("Scenario to run: all or one of %v", scenarioNames()))
	concurrency := flag.Int("concurrent", 100, "Number of concurrent requests")
	timeout := flag.Duration("timeout", 30*time.Second, "Per-request timeout")
	flag.Parse()

	names := []string{*name}
	if *name == "all" {
		names = scenarioNames()
	}

	c := newClient(*baseURL, *timeout)
	failed := false
	for _, n := range names {
		r, err := runScenario(context.Background(), n, c, *concurrency)
		if err != nil {
			log.Fatalf("scenario %s: %v", n, err)
		}
		if !printReport(os.Stdout, r) {
			failed = true
		}
	}
	if failed {
		os.Exit(1)
	}
}

// printReport renders a report and returns whether every check passed.
func printReport(w io.Writer, r *report) bool {
	fmt.Fprintf(w, "\n=== %s: %d requests in %s ===\n", r.Scenario, len(r.Outcomes), r.Elapsed.Round(time.Millisecond))

	statuses := map[string]int{}
	var replayed int
	latencies := make([]time.Duration, 0, len(r.Outcomes))
	for _, o := range r.Outcomes {
		key := strconv.Itoa(o.Status)
		if o.Err != nil {
			key = "transport error"
		}
		statuses[key]++
		if o.Replayed {
			replayed++
		}
		latencies = append(latencies, o.Latency)
	}
	sort.Slice(latencies, func(i, j int) bool { return latencies[i] < latencies[j] })

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Status", "Count"})
	keys := make([]string, 0, len(statuses))
	for k := range statuses {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		table.Append([]string{k, strconv.Itoa(statuses[k])})
	}
	table.Append([]string{"replayed", strconv.Itoa(replayed)})
	table.Render()

	table = tablewriter.NewWriter(w)
	table.SetHeader([]string{"p50 (ms)", "p95 (ms)", "max (ms)"})
	table.Append([]string{ms(percentile(latencies, 50)), ms(percentile(latencies, 95)), ms(percentile(latencies, 100))})
	table.Render()

	passed := true
	table = tablewriter.NewWriter(w)
	table.SetHeader([]string{"Check", "Expected", "Actual", "Result"})
	for _, c := range r.Checks {
		result := "PASS"
		if !c.ok() {
			result = "FAIL"
			passed = false
		}
		table.Append([]string{c.Name, strconv.FormatInt(c.Expected, 10), strconv.FormatInt(c.Actual, 10), result})
	}
	table.Render()
	return passed
}

// percentile expects sorted input.
func percentile(sorted []time.Duration, p int) time.Duration {
	if len(sorted) == 0 {
		return 0
	}
	idx := (len(sorted)*p + 99) / 100
	if idx < 1 {
		idx = 1
	}
	return sorted[idx-1]
}

func ms(d time.Duration) string {
	return fmt.Sprintf("%.2f", float64(d.Microseconds())/1000)
}
