// Command keepalive-bench renders a synthetic stream of views through the
// keep-alive cache and exposes optional pprof/Prometheus endpoints.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"math/rand"
	"net/http"
	_ "net/http/pprof" // registers /debug/pprof/* on DefaultServeMux
	"os"
	"regexp"
	"runtime"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/IvanBrykalov/keepalive/config"
	"github.com/IvanBrykalov/keepalive/filter"
	"github.com/IvanBrykalov/keepalive/internal/logger"
	"github.com/IvanBrykalov/keepalive/keepalive"
	pmet "github.com/IvanBrykalov/keepalive/metrics/prom"
)

// view is the synthetic kept-alive instance. Its hooks are driven by the
// cache's default TreeNotifier.
type view struct {
	name string
}

var activations, deactivations, destroys atomic.Uint64

// hotViews matches View0..View9, the head of the Zipf distribution.
var hotViews = regexp.MustCompile(`^View[0-9]$`)

func (v *view) Activate() error   { activations.Add(1); return nil }
func (v *view) Deactivate() error { deactivations.Add(1); return nil }
func (v *view) Destroy() error    { destroys.Add(1); return nil }

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "keepalive-bench:", err)
		os.Exit(1)
	}
}

func run() error {
	// ---- Flags ----
	var (
		cfgPath = flag.String("config", "", "YAML config file (default: KEEPALIVE_* environment)")
		maxN    = flag.Int("max", 0, "capacity bound, overrides config (0 = keep config)")
		include = flag.String("include", "", "include pattern, overrides config (\"A,B\" or \"/re/\")")
		exclude = flag.String("exclude", "", "exclude pattern, overrides config")

		workers  = flag.Int("workers", 2*runtime.GOMAXPROCS(0), "number of worker goroutines")
		duration = flag.Duration("duration", 10*time.Second, "benchmark duration")
		churn    = flag.Duration("churn", 0, "toggle an exclude rule at this interval (0 = disabled)")

		keys  = flag.Int("keys", 1_000, "number of distinct view names")
		zipfS = flag.Float64("zipf_s", 1.1, "Zipf s > 1 (skew)")
		zipfV = flag.Float64("zipf_v", 1.0, "Zipf v")
		seed  = flag.Int64("seed", time.Now().UnixNano(), "random seed")

		logFormat = flag.String("log-format", "text", "log format: text | json")
		logLevel  = flag.String("log-level", "info", "log level: debug | info | warn | error")

		pprofAddr   = flag.String("pprof", "", "serve pprof at addr (e.g. :6060); empty = disabled")
		metricsAddr = flag.String("http", ":8080", "serve Prometheus metrics at addr; empty = disabled")
	)
	flag.Parse()

	// ---- Logging ----
	format, err := logger.ParseFormat(*logFormat)
	if err != nil {
		return err
	}
	level, err := logger.ParseLevel(*logLevel)
	if err != nil {
		return err
	}
	log := logger.New(
		logger.WithFormat(format),
		logger.WithLevel(level),
		logger.WithAttr(slog.String("cmd", "keepalive-bench")),
	)

	// ---- Configuration: file or environment, then flags ----
	var cfg config.Config
	if *cfgPath != "" {
		cfg, err = config.LoadFile(*cfgPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return err
	}
	if *maxN > 0 {
		cfg.Max = *maxN
	}
	if *include != "" {
		cfg.Include = filter.Parse(*include)
	}
	if *exclude != "" {
		cfg.Exclude = filter.Parse(*exclude)
	}

	// ---- pprof server (on DefaultServeMux) ----
	if *pprofAddr != "" {
		go func() {
			log.Info("pprof: serving", slog.String("addr", *pprofAddr))
			log.Error("pprof: stopped", slog.Any("error", http.ListenAndServe(*pprofAddr, nil)))
		}()
	}

	// ---- Prometheus metrics (on DefaultServeMux) ----
	metrics := pmet.New(nil, "keepalive", "bench", nil)
	if *metricsAddr != "" {
		http.Handle("/metrics", promhttp.Handler())
		go func() {
			log.Info("metrics: serving", slog.String("addr", *metricsAddr))
			log.Error("metrics: stopped", slog.Any("error", http.ListenAndServe(*metricsAddr, nil)))
		}()
	}

	// ---- Build cache ----
	opt := keepalive.Options[*view]{
		Metrics: metrics,
		Logger:  log,
		Factory: func(_ context.Context, d *keepalive.Descriptor) (*view, error) {
			return &view{name: d.Name()}, nil
		},
	}
	if err := config.Apply(cfg, &opt); err != nil {
		return err
	}
	c := keepalive.New[*view](opt)

	// ---- Snapshot flags for goroutines ----
	keysMax := uint64(max(*keys, 1) - 1)
	seedBase := *seed
	zipfSVal := *zipfS
	zipfVVal := *zipfV
	workersN := max(*workers, 1)

	// Views are shared so that every worker renders the same identities.
	comps := make([]*keepalive.Component, keysMax+1)
	for i := range comps {
		comps[i] = &keepalive.Component{ID: uint64(i + 1), Name: "View" + strconv.Itoa(i)}
	}

	// ---- Load generation ----
	var total, failed uint64
	ctx, cancel := context.WithTimeout(context.Background(), *duration)
	defer cancel()

	start := time.Now()
	g, gctx := errgroup.WithContext(ctx)
	for w := 0; w < workersN; w++ {
		g.Go(func() error {
			// Each worker gets its own RNG + Zipf (rand.Rand is NOT goroutine-safe).
			localR := rand.New(rand.NewSource(seedBase + int64(w)*9973))
			localZipf := rand.NewZipf(localR, zipfSVal, zipfVVal, keysMax)

			for gctx.Err() == nil {
				comp := comps[localZipf.Uint64()]
				d := &keepalive.Descriptor{Component: comp, Tag: comp.Name}
				atomic.AddUint64(&total, 1)
				if _, err := c.Render(gctx, d); err != nil {
					atomic.AddUint64(&failed, 1)
					log.Warn("render failed", slog.String("name", comp.Name), slog.Any("error", err))
				}
			}
			return nil
		})
	}
	if *churn > 0 {
		g.Go(func() error {
			return toggleExclude(gctx, c, *churn, cfg.Exclude, log)
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	elapsed := time.Since(start)

	// ---- Report ----
	st := c.Stats()
	if err := c.Close(); err != nil {
		log.Warn("close failed", slog.Any("error", err))
	}

	ops := atomic.LoadUint64(&total)
	hitRate := 0.0
	if n := st.Hits + st.Misses; n > 0 {
		hitRate = float64(st.Hits) / float64(n) * 100
	}

	fmt.Printf("max=%d include=%s exclude=%s workers=%d keys=%d dur=%v seed=%d\n",
		cfg.Max, cfg.Include, cfg.Exclude, workersN, keysMax+1, elapsed, seedBase)
	fmt.Printf("renders=%d (%.0f ops/s)  failed=%d\n",
		ops, float64(ops)/elapsed.Seconds(), atomic.LoadUint64(&failed))
	fmt.Printf("hits=%d  misses=%d  uncacheable=%d  hit-rate=%.2f%%  evictions=%d\n",
		st.Hits, st.Misses, st.Bypasses, hitRate, st.Evictions)
	fmt.Printf("activate=%d  deactivate=%d  destroy=%d  entries(before close)=%d\n",
		activations.Load(), deactivations.Load(), destroys.Load(), st.Entries)
	return nil
}

// toggleExclude alternates between the configured exclude pattern and one
// that also rejects the first few views, forcing periodic prunes.
func toggleExclude(ctx context.Context, c keepalive.Cache[*view], every time.Duration, base filter.Pattern, log *slog.Logger) error {
	hot := filter.Regexp(hotViews)
	t := time.NewTicker(every)
	defer t.Stop()

	on := false
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-t.C:
		}
		on = !on
		next := base
		if on {
			next = filter.Func(func(name string) bool {
				return filter.Matches(base, name) || filter.Matches(hot, name)
			})
		}
		before := c.Len()
		if err := c.SetExclude(ctx, next, nil); err != nil {
			log.Warn("set exclude failed", slog.Any("error", err))
		}
		log.Debug("exclude toggled", slog.Bool("hot_excluded", on), slog.Int("before", before), slog.Int("after", c.Len()))
	}
}
