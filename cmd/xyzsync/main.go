// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command xyzsync runs a sync session over in-memory views: it loads
// models into every view, and places instances or arranges models in
// the primary view, replicating the changes to the attached views.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"cogentcore.org/xyzsync/base/logx"
)

func main() {
	logx.SetDefaultLogger()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, logx.ErrorColor(err.Error()))
		os.Exit(1)
	}
}
