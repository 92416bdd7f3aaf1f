package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/MrEthical07/bankgate"
	"github.com/MrEthical07/bankgate/role"
	"github.com/MrEthical07/bankgate/session"
)

type loadtestOptions struct {
	sessions    int
	concurrency int
	ops         int
	redisAddr   string
	prefix      string
}

var loadOpts = loadtestOptions{
	sessions:    10000,
	concurrency: 64,
	ops:         100000,
	prefix:      "bg-load",
}

var loadtestCmd = &cobra.Command{
	Use:   "loadtest",
	Short: "Measure session store latency under concurrent guard checks and logins",
	Long: `Seed sessions into Redis, then run two phases against the session store:

  guard   resolve a random session and evaluate the customer and privileged predicates
  rotate  replace a random session with a fresh ID, as a repeated login does

Without --redis-addr an in-process Redis is used.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runLoadtest(cmd.Context(), cmd.OutOrStdout(), loadOpts)
	},
}

func init() {
	f := loadtestCmd.Flags()
	f.IntVar(&loadOpts.sessions, "sessions", loadOpts.sessions, "number of sessions to seed")
	f.IntVar(&loadOpts.concurrency, "concurrency", loadOpts.concurrency, "number of concurrent workers")
	f.IntVar(&loadOpts.ops, "ops", loadOpts.ops, "operations per phase")
	f.StringVar(&loadOpts.redisAddr, "redis-addr", "", "redis address; empty starts an in-process redis")
	f.StringVar(&loadOpts.prefix, "prefix", loadOpts.prefix, "session key prefix")
	rootCmd.AddCommand(loadtestCmd)
}

type seededSession struct {
	mu    sync.Mutex
	id    string
	roles role.Set
}

func runLoadtest(ctx context.Context, out io.Writer, opts loadtestOptions) error {
	if opts.sessions <= 0 || opts.concurrency <= 0 || opts.ops <= 0 {
		return errors.New("sessions, concurrency and ops must be > 0")
	}

	addr := opts.redisAddr
	if addr == "" {
		mr, err := miniredis.Run()
		if err != nil {
			return fmt.Errorf("start miniredis: %w", err)
		}
		defer mr.Close()
		addr = mr.Addr()
		fmt.Fprintf(out, "using miniredis at %s\n", addr)
	} else {
		fmt.Fprintf(out, "using redis at %s\n", addr)
	}

	client := redis.NewUniversalClient(&redis.UniversalOptions{Addrs: []string{addr}})
	defer client.Close()
	store := session.NewStore(client, opts.prefix, time.Hour)

	states := make([]seededSession, opts.sessions)
	fmt.Fprintf(out, "seeding %d sessions...\n", opts.sessions)
	startSeed := time.Now()
	for i := range states {
		states[i] = seededSession{id: session.NewID(), roles: rolesFor(i)}
		h := session.Bind(store, states[i].id, nil)
		if err := h.Save(ctx, fmt.Sprintf("tok-%d", i), states[i].roles); err != nil {
			return fmt.Errorf("seed session: %w", err)
		}
	}
	fmt.Fprintf(out, "seeded in %s\n", time.Since(startSeed).Round(time.Millisecond))

	guardStats := runPhase(opts.ops, opts.concurrency, func(r *rand.Rand, i int) bool {
		s := &states[r.Intn(len(states))]
		s.mu.Lock()
		id, roles := s.id, s.roles
		s.mu.Unlock()

		snap := session.Bind(store, id, nil).Current(ctx)
		return bankgate.IsCustomer(ctx, snap) == roles.Has(role.Customer) &&
			bankgate.IsPrivileged(ctx, snap) == (roles.Has(role.Admin) || roles.Has(role.Auditor))
	})

	rotateStats := runPhase(opts.ops, opts.concurrency, func(r *rand.Rand, i int) bool {
		s := &states[r.Intn(len(states))]
		s.mu.Lock()
		defer s.mu.Unlock()

		next := session.Bind(store, session.NewID(), nil)
		if err := next.Save(ctx, fmt.Sprintf("tok-r%d", i), s.roles); err != nil {
			return false
		}
		if err := session.Bind(store, s.id, nil).Clear(ctx); err != nil {
			return false
		}
		s.id = next.ID()
		return true
	})

	fmt.Fprintln(out, "---- results ----")
	printStats(out, "guard", guardStats)
	printStats(out, "rotate", rotateStats)
	return nil
}

// rolesFor spreads seeded sessions over customers, admins, auditors and dual-role users.
func rolesFor(i int) role.Set {
	switch i % 4 {
	case 0, 1:
		return role.NewSet(role.Customer)
	case 2:
		return role.NewSet(role.Admin)
	default:
		return role.NewSet(role.Auditor, role.Customer)
	}
}

// runPhase runs op ops times over concurrency workers. op reports success.
func runPhase(ops, concurrency int, op func(r *rand.Rand, i int) bool) phaseStats {
	var (
		wg        sync.WaitGroup
		cursor    int64
		failures  int64
		latencies = make([]time.Duration, 0, ops)
		mu        sync.Mutex
	)

	start := time.Now()
	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			r := rand.New(rand.NewSource(time.Now().UnixNano() + int64(worker)*7919))
			for {
				i := int(atomic.AddInt64(&cursor, 1)) - 1
				if i >= ops {
					return
				}
				t0 := time.Now()
				ok := op(r, i)
				d := time.Since(t0)
				if !ok {
					atomic.AddInt64(&failures, 1)
				}
				mu.Lock()
				latencies = append(latencies, d)
				mu.Unlock()
			}
		}(w)
	}
	wg.Wait()
	return computeStats(time.Since(start), latencies, failures)
}

type phaseStats struct {
	total    time.Duration
	ops      int
	failures int64
	p50      time.Duration
	p95      time.Duration
	p99      time.Duration
	opsPerS  float64
}

func computeStats(total time.Duration, samples []time.Duration, failures int64) phaseStats {
	if len(samples) == 0 {
		return phaseStats{total: total}
	}
	sort.Slice(samples, func(i, j int) bool { return samples[i] < samples[j] })
	return phaseStats{
		total:    total,
		ops:      len(samples),
		failures: failures,
		p50:      percentile(samples, 50),
		p95:      percentile(samples, 95),
		p99:      percentile(samples, 99),
		opsPerS:  float64(len(samples)) / total.Seconds(),
	}
}

func percentile(samples []time.Duration, p int) time.Duration {
	if len(samples) == 0 {
		return 0
	}
	if p <= 0 {
		return samples[0]
	}
	if p >= 100 {
		return samples[len(samples)-1]
	}
	return samples[(len(samples)-1)*p/100]
}

func printStats(out io.Writer, name string, s phaseStats) {
	fmt.Fprintf(out, "%s: ops=%d failures=%d total=%s ops/sec=%.0f p50=%s p95=%s p99=%s\n",
		name,
		s.ops,
		s.failures,
		s.total.Round(time.Millisecond),
		s.opsPerS,
		s.p50.Round(time.Microsecond),
		s.p95.Round(time.Microsecond),
		s.p99.Round(time.Microsecond),
	)
}
