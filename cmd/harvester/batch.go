package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/coolbeans/harvester/pkg/harvest"
)

func batchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "batch <dir>",
		Short: "Split every XML document in a directory",
		Long: `Process all *.xml files in a directory with a bounded worker pool and
write <name>.yaml for each document to the output directory.

Failed documents are reported in the summary; a failure never stops the batch.

Example:
  harvester batch ./bwb --output-dir ./yaml --concurrency 8
  harvester batch ./bwb --output-dir ./yaml --metrics-addr :2112`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			metricsAddr, _ := cmd.Flags().GetString("metrics-addr")

			env, err := loadEnvironment(cmd)
			if err != nil {
				return err
			}
			defer env.logger.Sync()

			if env.cfg.OutputDir == "" {
				return fmt.Errorf("--output-dir flag is required")
			}
			if err := os.MkdirAll(env.cfg.OutputDir, 0755); err != nil {
				return fmt.Errorf("failed to create directory %s: %w", env.cfg.OutputDir, err)
			}

			payloads, err := loadPayloads(args[0])
			if err != nil {
				return err
			}
			if len(payloads) == 0 {
				fmt.Printf("No XML documents found in %s\n", args[0])
				return nil
			}

			registry := prometheus.NewRegistry()
			metrics, err := harvest.NewMetrics(registry)
			if err != nil {
				return fmt.Errorf("failed to register metrics: %w", err)
			}
			if metricsAddr != "" {
				server := serveMetrics(metricsAddr, registry, env.logger)
				defer server.Close()
			}

			pipeline, err := env.pipeline(harvest.WithMetrics(metrics))
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			start := time.Now()
			results, batchErr := pipeline.ProcessBatch(ctx, payloads, env.cfg.Concurrency)

			var s summary
			for _, res := range results {
				if res.OK() {
					path := filepath.Join(env.cfg.OutputDir, res.DocumentID+".yaml")
					if err := os.WriteFile(path, res.YAML, 0644); err != nil {
						res.Failure = harvest.NewFailure(fmt.Errorf("failed to write %s: %w", path, err))
						env.logger.Error("Write failed", zap.String("document", res.DocumentID), zap.Error(err))
					}
				}
				s.add(res)
			}
			s.print(time.Since(start))

			if batchErr != nil {
				return fmt.Errorf("batch interrupted: %w", batchErr)
			}
			if s.failed > 0 {
				return fmt.Errorf("%d of %d documents failed", s.failed, len(results))
			}
			return nil
		},
	}

	cmd.Flags().String("output-dir", "", "Directory for YAML output")
	cmd.Flags().Int("concurrency", 0, "Documents processed at once (default: number of CPUs)")
	cmd.Flags().Int("width", 0, "Wrap width for text fields (0 disables wrapping)")
	cmd.Flags().String("metrics-addr", "", "Serve Prometheus metrics on this address, e.g. :2112")

	return cmd
}

// loadPayloads reads every .xml file in dir, sorted by name. The file name
// without extension becomes the document ID.
func loadPayloads(dir string) ([]harvest.Payload, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	var names []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.EqualFold(filepath.Ext(entry.Name()), ".xml") {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)

	payloads := make([]harvest.Payload, 0, len(names))
	for _, name := range names {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", name, err)
		}
		payloads = append(payloads, harvest.Payload{
			DocumentID: strings.TrimSuffix(name, filepath.Ext(name)),
			Content:    data,
		})
	}
	return payloads, nil
}

func serveMetrics(addr string, registry *prometheus.Registry, logger *zap.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	server := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		logger.Info("Starting metrics server", zap.String("addr", addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Metrics server failed", zap.Error(err))
		}
	}()
	return server
}

type summary struct {
	succeeded  int
	failed     int
	components int
	references int
	warnings   int
	bytes      uint64
	failures   []harvest.Result
}

func (s *summary) add(res harvest.Result) {
	if !res.OK() {
		s.failed++
		s.failures = append(s.failures, res)
		return
	}
	s.succeeded++
	s.components += res.Components
	s.references += len(res.References)
	s.warnings += len(res.Warnings)
	s.bytes += uint64(len(res.YAML))
}

func (s *summary) print(elapsed time.Duration) {
	fmt.Printf("Processed %s documents in %s\n",
		humanize.Comma(int64(s.succeeded+s.failed)), elapsed.Round(time.Millisecond))
	fmt.Printf("  Succeeded:   %s\n", humanize.Comma(int64(s.succeeded)))
	fmt.Printf("  Failed:      %s\n", humanize.Comma(int64(s.failed)))
	fmt.Printf("  Components:  %s\n", humanize.Comma(int64(s.components)))
	fmt.Printf("  References:  %s\n", humanize.Comma(int64(s.references)))
	fmt.Printf("  Unknown tags: %s\n", humanize.Comma(int64(s.warnings)))
	fmt.Printf("  YAML written: %s\n", humanize.Bytes(s.bytes))

	if len(s.failures) == 0 {
		return
	}
	fmt.Println("\nFailures:")
	for _, res := range s.failures {
		retry := "permanent"
		if !res.Failure.Permanent {
			retry = "transient"
		}
		fmt.Printf("  %s [%s, %s]: %s\n", res.DocumentID, res.Failure.Kind, retry, res.Failure.Message)
	}
}
