// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"cogentcore.org/xyzsync/base/errors"
	"cogentcore.org/xyzsync/base/logx"
	"github.com/fsnotify/fsnotify"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
)

// settle is how long model file changes must stop
// before the models are reloaded.
const settle = 100 * time.Millisecond

// watchModels calls changed with the source name of every model file
// in dir that is written or created, until ctx is done. Bursts of
// changes to the same file are reported once.
func watchModels(ctx context.Context, dir string, changed func(source string)) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()
	if err := w.Add(dir); err != nil {
		return fmt.Errorf("watching %s: %w", dir, err)
	}
	pending := map[string]bool{}
	timer := time.NewTimer(settle)
	timer.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			name := filepath.Base(ev.Name)
			if filepath.Ext(name) != ".yaml" {
				continue
			}
			pending[strings.TrimSuffix(name, ".yaml")] = true
			timer.Reset(settle)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			errors.Log(err)
		case <-timer.C:
			for src := range pending {
				changed(src)
			}
			clear(pending)
		}
	}
}

func metricsHandler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	return mux
}

// serveMetrics serves the metrics on the given address until ctx is done.
func serveMetrics(ctx context.Context, addr string) *http.Server {
	srv := &http.Server{Addr: addr, Handler: metricsHandler(), ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errors.Log(err)
		}
	}()
	go func() {
		<-ctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		errors.Log(srv.Shutdown(sctx))
	}()
	return srv
}

func newWatchCommand(opts *options) *cobra.Command {
	var metricsAddr string
	cmd := &cobra.Command{
		Use:   "watch [model...]",
		Short: "Reload the models into every view whenever their files change",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()
			if metricsAddr != "" {
				serveMetrics(ctx, metricsAddr)
				slog.Info("serving metrics", "addr", metricsAddr)
			}
			load := func() {
				s, err := opts.newSession(ctx, args)
				if err != nil {
					fmt.Fprintln(out, logx.ErrorColor(err.Error()))
					return
				}
				defer s.Close()
				fmt.Fprintln(out, logx.SuccessColor(fmt.Sprintf("loaded %d models into %d views", len(s.Models()), len(s.views))))
			}
			load()
			watched := map[string]bool{}
			for _, src := range append(append([]string(nil), opts.cfg.Models...), args...) {
				watched[strings.TrimSuffix(src, filepath.Ext(src))] = true
			}
			return watchModels(ctx, opts.cfg.Assets, func(src string) {
				if !watched[src] {
					return
				}
				slog.Info("model changed", "source", src)
				load()
			})
		},
	}
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "address to serve prometheus metrics on, such as :9090")
	return cmd
}
