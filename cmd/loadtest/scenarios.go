package main

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/chris/remittance-ledger/pkg/api"
	"github.com/google/uuid"
)

// check is one expectation verified after a scenario ran.
type check struct {
	Name     string
	Expected int64
	Actual   int64
}

func (c check) ok() bool { return c.Expected == c.Actual }

// report summarises one scenario run.
type report struct {
	Scenario string
	Outcomes []outcome
	Elapsed  time.Duration
	Checks   []check
}

type scenario func(ctx context.Context, c *client, concurrency int) (*report, error)

var scenarios = map[string]scenario{
	"withdraw-distinct":  withdrawDistinct,
	"withdraw-duplicate": withdrawDuplicate,
	"transfer-opposing":  transferOpposing,
}

func scenarioNames() []string {
	names := make([]string, 0, len(scenarios))
	for name := range scenarios {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// fire runs n requests concurrently and collects their outcomes in order.
func fire(n int, req func(i int) outcome) ([]outcome, time.Duration) {
	outcomes := make([]outcome, n)
	var wg sync.WaitGroup
	start := make(chan struct{})
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			outcomes[i] = req(i)
		}(i)
	}
	began := time.Now()
	close(start)
	wg.Wait()
	return outcomes, time.Since(began)
}

// withdrawDistinct sends n withdrawals of 10,000 with distinct ids against
// an account holding exactly n*10,000.
func withdrawDistinct(ctx context.Context, c *client, n int) (*report, error) {
	const amount = 10_000
	total := int64(n) * amount
	acc, err := c.openAccount(ctx, total, uuid.NewString())
	if err != nil {
		return nil, err
	}
	if err := c.setLimits(ctx, acc.AccountId, total, total); err != nil {
		return nil, err
	}

	outcomes, elapsed := fire(n, func(int) outcome {
		return c.do(ctx, http.MethodPost, accountPath(acc.AccountId, "withdraw"), api.MoneyRequest{Amount: amount, TransactionId: uuid.NewString()}, nil)
	})

	balance, err := c.balance(ctx, acc.AccountId)
	if err != nil {
		return nil, err
	}
	rows, err := c.historyCount(ctx, acc.AccountNo)
	if err != nil {
		return nil, err
	}
	return &report{
		Scenario: "withdraw-distinct",
		Outcomes: outcomes,
		Elapsed:  elapsed,
		Checks: []check{
			{Name: "final balance", Expected: 0, Actual: balance},
			{Name: "ledger rows (incl. seed deposit)", Expected: int64(n) + 1, Actual: int64(rows)},
		},
	}, nil
}

// withdrawDuplicate sends n copies of one 5,000 withdrawal against 100,000.
func withdrawDuplicate(ctx context.Context, c *client, n int) (*report, error) {
	acc, err := c.openAccount(ctx, 100_000, uuid.NewString())
	if err != nil {
		return nil, err
	}

	requestID := uuid.NewString()
	outcomes, elapsed := fire(n, func(int) outcome {
		return c.do(ctx, http.MethodPost, accountPath(acc.AccountId, "withdraw"), api.MoneyRequest{Amount: 5_000, TransactionId: requestID}, nil)
	})

	balance, err := c.balance(ctx, acc.AccountId)
	if err != nil {
		return nil, err
	}
	rows, err := c.historyCount(ctx, acc.AccountNo)
	if err != nil {
		return nil, err
	}
	return &report{
		Scenario: "withdraw-duplicate",
		Outcomes: outcomes,
		Elapsed:  elapsed,
		Checks: []check{
			{Name: "final balance", Expected: 95_000, Actual: balance},
			{Name: "ledger rows (incl. seed deposit)", Expected: 2, Actual: int64(rows)},
		},
	}, nil
}

// transferOpposing sends n transfers alternating A→B and B→A. Money is
// conserved net of fees whatever the interleaving.
func transferOpposing(ctx context.Context, c *client, n int) (*report, error) {
	const seed, amount = 10_000_000, 1_000
	a, err := c.openAccount(ctx, seed, uuid.NewString())
	if err != nil {
		return nil, err
	}
	b, err := c.openAccount(ctx, seed, uuid.NewString())
	if err != nil {
		return nil, err
	}

	var mu sync.Mutex
	var fees int64
	outcomes, elapsed := fire(n, func(i int) outcome {
		from, to := a.AccountId, b.AccountId
		if i%2 == 1 {
			from, to = to, from
		}
		var receipt api.TransferReceipt
		o := c.do(ctx, http.MethodPost, "/api/transfers",
			api.TransferRequest{FromAccountId: from, ToAccountId: to, Amount: amount, TransactionId: uuid.NewString()}, &receipt)
		if o.Err == nil && o.Status == http.StatusOK {
			mu.Lock()
			fees += receipt.Fee
			mu.Unlock()
		}
		return o
	})

	balA, err := c.balance(ctx, a.AccountId)
	if err != nil {
		return nil, err
	}
	balB, err := c.balance(ctx, b.AccountId)
	if err != nil {
		return nil, err
	}
	return &report{
		Scenario: "transfer-opposing",
		Outcomes: outcomes,
		Elapsed:  elapsed,
		Checks: []check{
			{Name: "total balance + fees", Expected: 2 * seed, Actual: balA + balB + fees},
		},
	}, nil
}

func runScenario(ctx context.Context, name string, c *client, concurrency int) (*report, error) {
	s, ok := scenarios[name]
	if !ok {
		return nil, fmt.Errorf("unknown scenario %q (one of %v)", name, scenarioNames())
	}
	return s(ctx, c, concurrency)
}
