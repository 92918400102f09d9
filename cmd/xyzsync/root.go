// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"fmt"
	"os"

	"cogentcore.org/xyzsync/app"
	"cogentcore.org/xyzsync/base/errors"
	"cogentcore.org/xyzsync/base/fsx"
	"cogentcore.org/xyzsync/base/logx"
	"cogentcore.org/xyzsync/config"
	"cogentcore.org/xyzsync/viewer"
	"cogentcore.org/xyzsync/viewer/memview"
	"github.com/spf13/cobra"
)

// options are the global flags of all commands.
type options struct {
	file     string
	assets   string
	logLevel string
	views    []string
	cfg      *config.Config
}

func newRootCommand() *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:           "xyzsync",
		Short:         "Synchronize models and instances across views",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.load(cmd)
		},
	}
	fl := cmd.PersistentFlags()
	fl.StringVarP(&opts.file, "config", "c", "", "config file (default "+config.DefaultFile+" if it exists)")
	fl.StringVar(&opts.assets, "assets", "", "directory to read models from")
	fl.StringVar(&opts.logLevel, "log-level", "", "log level (debug|info|warn|error)")
	fl.StringSliceVar(&opts.views, "views", nil, "view names, the first being the primary view")

	cmd.AddCommand(newPlaceCommand(opts))
	cmd.AddCommand(newArrangeCommand(opts))
	cmd.AddCommand(newTreeCommand(opts))
	cmd.AddCommand(newWatchCommand(opts))
	return cmd
}

// load reads the config and applies the flags on top of it.
func (opts *options) load(cmd *cobra.Command) error {
	file := opts.file
	if file == "" {
		fsys, name, err := fsx.DirFS(config.DefaultFile)
		if err != nil {
			return err
		}
		if errors.Log1(fsx.FileExistsFS(fsys, name)) {
			file = config.DefaultFile
		}
	}
	cfg := config.Defaults()
	if file != "" {
		var err error
		cfg, err = config.Open(file)
		if err != nil {
			return err
		}
	}
	fl := cmd.Flags()
	if fl.Changed("assets") {
		cfg.Assets = opts.assets
	}
	if fl.Changed("log-level") {
		cfg.LogLevel = opts.logLevel
	}
	if fl.Changed("views") {
		cfg.Views = opts.views
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	lv, err := logx.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	logx.SetLevel(lv)
	opts.cfg = cfg
	return nil
}

// session is an app over in-memory views.
type session struct {
	*app.App
	views []*memview.View
}

// newSession sets up the views of the config and loads the
// configured models followed by the given ones.
func (opts *options) newSession(ctx context.Context, models []string) (*session, error) {
	cfg := opts.cfg
	assets := cfg.AssetsFS()
	s := &session{}
	var attached []viewer.View
	for i, nm := range cfg.Views {
		vw := memview.NewView(nm)
		vw.Store.Assets = assets
		s.views = append(s.views, vw)
		if i > 0 {
			attached = append(attached, vw)
		}
	}
	s.App = app.New(cfg, s.views[0], attached...)
	s.Alert = func(msg string) {
		fmt.Fprintln(os.Stderr, logx.WarnColor(msg))
	}
	if err := s.Setup(ctx); err != nil {
		return nil, err
	}
	for _, src := range append(append([]string(nil), cfg.Models...), models...) {
		if ok, err := cfg.HasModel(src); err != nil || !ok {
			return nil, fmt.Errorf("model %q not found in %s", src, cfg.Assets)
		}
		if _, err := s.LoadModel(ctx, src); err != nil {
			return nil, err
		}
	}
	return s, nil
}
