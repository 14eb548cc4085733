package assess

import (
	"context"
	"sync"

	"github.com/NoliDD/assessment-tool/measure"
	"github.com/NoliDD/assessment-tool/ruleset"
	"github.com/NoliDD/assessment-tool/verdict"
)

// evaluateAll produces one verdict per rule, fanning out to a bounded pool
// of workers when parallelism allows. Each worker writes into its own index
// of the result slice and the caller waits on the join barrier, so verdict
// order never depends on scheduling.
func (a *Aggregator) evaluateAll(ctx context.Context, rules []ruleset.Rule, feed *measure.Feed) ([]verdict.Attribute, error) {
	results := make([]verdict.Attribute, len(rules))
	if len(rules) == 0 {
		return results, nil
	}

	workers := a.parallelism
	if workers > len(rules) {
		workers = len(rules)
	}
	if workers <= 1 {
		for i, rule := range rules {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			results[i] = Evaluate(rule, lookup(feed, rule.Attribute))
		}
		return results, nil
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i] = Evaluate(rules[i], lookup(feed, rules[i].Attribute))
			}
		}()
	}

feed:
	for i := range rules {
		select {
		case jobs <- i:
		case <-ctx.Done():
			break feed
		}
	}
	close(jobs)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

// lookup fetches the measurement for an attribute, or nil when the feed has
// no record for it.
func lookup(feed *measure.Feed, attribute string) *measure.Measurement {
	m, ok := feed.Get(attribute)
	if !ok {
		return nil
	}
	return &m
}
