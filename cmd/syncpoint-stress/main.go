// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jessevdk/go-flags"
	"github.com/prometheus/client_golang/prometheus"

	"go.syncpoint.io/syncpoint/harness"
	"go.syncpoint.io/syncpoint/harness/standalone"
	"go.syncpoint.io/syncpoint/logging"
	"go.syncpoint.io/syncpoint/sync"

	log "github.com/sirupsen/logrus"
)

type options struct {
	LogLevel      string        `long:"log-level" default:"info" description:"log level"`
	Workers       uint32        `long:"workers" default:"15" description:"number of worker goroutines"`
	Cycles        int           `long:"cycles" default:"15" description:"number of cycles driven by the manager"`
	Observers     int           `long:"observers" default:"1" description:"number of observer goroutines"`
	ManagerDelay  time.Duration `long:"manager-delay" description:"upper bound of the random manager delay per cycle"`
	WorkerDelay   time.Duration `long:"worker-delay" description:"upper bound of the random worker delay per cycle"`
	ObserverDelay time.Duration `long:"observer-delay" description:"upper bound of the random observer delay per wake-up"`
	Seed          int64         `long:"seed" description:"random seed, defaults to the current time"`
	Listen        string        `long:"listen" description:"address of the debug HTTP API, e.g. 127.0.0.1:8080"`
}

func main() {
	opts := getCLIArgs()
	if err := logging.SetLogLevel(opts.LogLevel); err != nil {
		log.WithError(err).Fatal("Failed to set log level")
	}

	log.WithField("deadlockDetection", sync.DeadlockDetection).Debug("Lock implementation selected")

	if opts.Seed == 0 {
		opts.Seed = time.Now().UnixNano()
	}

	registry := prometheus.NewRegistry()
	metrics := harness.NewMetrics("syncpoint")
	if err := metrics.Register(registry); err != nil {
		log.WithError(err).Fatal("Failed to register metrics")
	}

	monitor := &harness.Monitor{}
	if len(opts.Listen) > 0 {
		go startHTTPServer(opts.Listen, monitor, registry)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	failed := false
	for _, cfg := range getProfiles(opts) {
		result, err := runProfile(ctx, cfg, metrics, monitor)
		if err != nil {
			log.WithError(err).WithField("profile", cfg.Name).Error("Stress run aborted")
			failed = true
			if errors.Is(err, context.Canceled) {
				break
			}
			continue
		}

		fmt.Printf("NOTE: observer wait calls: %d / %d cycles\n", result.ObserverWakeups, result.Cycles)
		if result.Passed() {
			fmt.Println("PASS")
		} else {
			for _, f := range result.Failures {
				fmt.Printf("ERROR: worker[%d] returned %d, expected %d\n", f.Worker, f.Observed, f.Expected)
			}
			fmt.Println("FAIL")
			failed = true
		}
	}

	if failed {
		os.Exit(1)
	}
}

func getCLIArgs() options {
	var opts options
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.ParseArgs(os.Args[1:]); err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		log.WithError(err).Fatal("Failed to parse command line arguments:", os.Args)
	}
	return opts
}

// getProfiles returns the reference delay profiles unless a delay was given
// on the command line.
func getProfiles(opts options) []harness.Config {
	if opts.ManagerDelay == 0 && opts.WorkerDelay == 0 && opts.ObserverDelay == 0 {
		return harness.DefaultProfiles(opts.Workers, opts.Cycles, opts.Observers, opts.Seed)
	}

	return []harness.Config{{
		Name:          "custom",
		Workers:       opts.Workers,
		Cycles:        opts.Cycles,
		Observers:     opts.Observers,
		ManagerDelay:  opts.ManagerDelay,
		WorkerDelay:   opts.WorkerDelay,
		ObserverDelay: opts.ObserverDelay,
		Seed:          opts.Seed,
	}}
}

func runProfile(ctx context.Context, cfg harness.Config, metrics *harness.Metrics, monitor *harness.Monitor) (*harness.Result, error) {
	fmt.Println("-------------------------------------------------------------------------")
	fmt.Printf("CASE: %s, max delays manager: %v worker: %v observer: %v\n", cfg.Name, cfg.ManagerDelay, cfg.WorkerDelay, cfg.ObserverDelay)
	fmt.Printf("SEED: %d\n", cfg.Seed)

	runner, err := harness.NewRunner(cfg, metrics)
	if err != nil {
		return nil, err
	}

	monitor.Start(runner)
	result, err := runner.Run(ctx)
	monitor.Finish(result)
	return result, err
}

func startHTTPServer(addr string, monitor *harness.Monitor, registry *prometheus.Registry) {
	srv := &http.Server{
		Addr:    addr,
		Handler: standalone.NewHTTPRouter(monitor, registry),
	}

	log.Infof("Listening on %s", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.WithError(err).Error("Debug HTTP API stopped")
	}
}
