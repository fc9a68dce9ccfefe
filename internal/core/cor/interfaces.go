// Copyright 2024 Google, LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package cor (Chain of Responsibility) provides the building blocks for the
// generation pipelines: a shared Context, atomic Commands and Chains that run
// commands in order, piping each command's output into the next one's input.
package cor

import (
	"context"

	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// CtxIn and CtxOut are the keys the BaseChain uses to pipe data between commands.
const (
	// CtxIn holds the primary input of the command about to run.
	CtxIn = "__IN__"
	// CtxOut is where a command places its primary output.
	CtxOut = "__OUT__"
)

// Context is the state carried through one pipeline execution.
type Context interface {
	// SetContext sets the Go context used for cancellation and tracing.
	SetContext(context context.Context)

	// GetContext returns the current Go context.
	GetContext() context.Context

	// Add stores a value under a key and returns the Context for chaining.
	Add(key string, value interface{}) Context

	// AddError records the error produced by the named command.
	AddError(key string, err error)

	// GetErrors returns all errors keyed by command name.
	GetErrors() map[string]error

	// FirstError returns the error recorded first, or nil.
	FirstError() error

	// Get returns the value stored under key, or nil.
	Get(key string) interface{}

	// Remove deletes the value stored under key.
	Remove(key string)

	// HasErrors reports whether any command recorded an error.
	HasErrors() bool
}

// Executable is anything with an Execute step.
type Executable interface {
	Execute(context Context)
}

// Command is an atomic unit of work in a pipeline.
type Command interface {
	Executable

	// GetName returns the command name used in spans, metrics and error keys.
	GetName() string

	// GetInputParam returns the context key of the command's input.
	GetInputParam() string

	// GetOutputParam returns the context key of the command's output.
	GetOutputParam() string

	// IsExecutable is the precondition checked before Execute.
	IsExecutable(context Context) bool

	GetTracer() trace.Tracer
	GetMeter() metric.Meter
	GetSuccessCounter() metric.Int64Counter
	GetErrorCounter() metric.Int64Counter
}

// Chain is a Command made of other commands.
type Chain interface {
	Command

	// ContinueOnFailure selects whether later commands run after a failure.
	ContinueOnFailure(bool) Chain

	// AddCommand appends a command to the chain.
	AddCommand(command Command) Chain
}
