// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package operator provides the pointer-driven interaction modes of the
// primary view and the stack through which they receive events. Only
// the operators on the stack get events, so the application switches
// between selecting, transforming and instancing by pushing and removing
// operators.
//
// Operators are driven from a single interaction goroutine. Engine calls
// that may take time run in their own goroutines, so event handling
// never blocks on them.
package operator

import (
	"context"
	"log/slog"
	"slices"

	"cogentcore.org/xyzsync/events"
)

// Operator is one interaction mode that handles events for a view.
type Operator interface {

	// Name returns the name of the operator, for logging.
	Name() string

	// HandleEvent handles the given event. Events an operator does not
	// care about are ignored. Marking the event as handled stops it from
	// reaching operators lower on the stack.
	HandleEvent(e events.Event)

	// Activate is called when the operator is pushed on a stack. The
	// context is canceled when the stack is closed.
	Activate(ctx context.Context)

	// Deactivate is called when the operator is removed from a stack.
	Deactivate()
}

// Stack is an ordered set of active operators. Events go to the
// top-most operator first.
type Stack struct {
	ctx    context.Context
	cancel context.CancelFunc
	ops    []Operator
}

// NewStack returns a new empty stack. Operators on it are activated
// with a context derived from the given one.
func NewStack(ctx context.Context) *Stack {
	s := &Stack{}
	s.ctx, s.cancel = context.WithCancel(ctx)
	return s
}

// Push adds the given operator on top of the stack and activates it.
// Pushing an operator that is already on the stack does nothing.
func (s *Stack) Push(op Operator) {
	if s.Has(op) {
		return
	}
	s.ops = append(s.ops, op)
	slog.Debug("operator: push", "operator", op.Name())
	op.Activate(s.ctx)
}

// Remove removes the given operator from the stack and deactivates it.
// It returns false if the operator was not on the stack.
func (s *Stack) Remove(op Operator) bool {
	i := slices.Index(s.ops, op)
	if i < 0 {
		return false
	}
	s.ops = slices.Delete(s.ops, i, i+1)
	slog.Debug("operator: remove", "operator", op.Name())
	op.Deactivate()
	return true
}

// Has returns whether the given operator is on the stack.
func (s *Stack) Has(op Operator) bool {
	return slices.Contains(s.ops, op)
}

// Top returns the top-most operator, or nil if the stack is empty.
func (s *Stack) Top() Operator {
	if len(s.ops) == 0 {
		return nil
	}
	return s.ops[len(s.ops)-1]
}

// Operators returns the operators from bottom to top.
func (s *Stack) Operators() []Operator {
	return slices.Clone(s.ops)
}

// HandleEvent sends the given event to the operators from the top of
// the stack down, until one of them marks it as handled.
func (s *Stack) HandleEvent(e events.Event) {
	for i := len(s.ops) - 1; i >= 0; i-- {
		if e.IsHandled() {
			return
		}
		s.ops[i].HandleEvent(e)
	}
}

// Close removes all operators and cancels the stack context.
func (s *Stack) Close() {
	for len(s.ops) > 0 {
		s.Remove(s.ops[len(s.ops)-1])
	}
	s.cancel()
}
