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

package cor_test

import (
	"context"
	"errors"
	"testing"

	"github.com/jaycherian/gcp-go-thumbnail-studio/internal/core/cor"
	"github.com/zeebo/assert"
)

// appendCommand appends its suffix to the string input.
type appendCommand struct {
	cor.BaseCommand
	suffix string
	err    error
	runs   *int
}

func newAppend(name string, suffix string, runs *int) *appendCommand {
	return &appendCommand{BaseCommand: *cor.NewBaseCommand(name), suffix: suffix, runs: runs}
}

func (c *appendCommand) Execute(context cor.Context) {
	*c.runs++
	if c.err != nil {
		c.Fail(context, c.err)
		return
	}
	c.Succeed(context)
	context.Add(c.GetOutputParam(), context.Get(c.GetInputParam()).(string)+c.suffix)
}

func TestChainPipesOutputToInput(t *testing.T) {
	runs := 0
	chain := cor.NewBaseChain("pipe")
	chain.AddCommand(newAppend("a", "-a", &runs)).AddCommand(newAppend("b", "-b", &runs))

	chCtx := cor.NewBaseContextWith(context.Background(), "start")
	chain.Execute(chCtx)

	assert.False(t, chCtx.HasErrors())
	assert.Equal(t, runs, 2)
	assert.Equal(t, chCtx.Get(cor.CtxIn), "start-a-b")
	assert.Nil(t, chCtx.Get(cor.CtxOut))
}

func TestChainStopsOnFirstError(t *testing.T) {
	runs := 0
	boom := errors.New("boom")
	failing := newAppend("fails", "-x", &runs)
	failing.err = boom

	chain := cor.NewBaseChain("stops")
	chain.AddCommand(failing).AddCommand(newAppend("never", "-n", &runs))

	chCtx := cor.NewBaseContextWith(context.Background(), "start")
	chain.Execute(chCtx)

	assert.True(t, chCtx.HasErrors())
	assert.Equal(t, runs, 1)
	assert.True(t, errors.Is(chCtx.FirstError(), boom))
}

func TestChainContinueOnFailure(t *testing.T) {
	runs := 0
	failing := newAppend("fails", "-x", &runs)
	failing.err = errors.New("boom")

	chain := cor.NewBaseChain("continues")
	chain.ContinueOnFailure(true)
	chain.AddCommand(failing).AddCommand(newAppend("after", "-after", &runs))

	chCtx := cor.NewBaseContextWith(context.Background(), "start")
	chain.Execute(chCtx)

	assert.Equal(t, runs, 2)
	assert.Equal(t, chCtx.Get(cor.CtxIn), "start-after")
	assert.True(t, chCtx.HasErrors())
	assert.Nil(t, chCtx.GetErrors()["after"])
}

func TestChainRecordsNotExecutable(t *testing.T) {
	runs := 0
	chain := cor.NewBaseChain("no-input")
	chain.AddCommand(newAppend("a", "-a", &runs))

	chCtx := cor.NewBaseContextWith(context.Background(), nil)
	chain.Execute(chCtx)

	assert.Equal(t, runs, 0)
	assert.True(t, errors.Is(chCtx.FirstError(), cor.ErrNotExecutable))
}

func TestChainRestoresParentContext(t *testing.T) {
	type key struct{}
	parent := context.WithValue(context.Background(), key{}, "parent")
	runs := 0
	chain := cor.NewBaseChain("restore")
	chain.AddCommand(newAppend("a", "-a", &runs))

	chCtx := cor.NewBaseContextWith(parent, "start")
	chain.Execute(chCtx)

	assert.Equal(t, chCtx.GetContext(), parent)
}

func TestFirstErrorKeepsInsertionOrder(t *testing.T) {
	first := errors.New("first")
	chCtx := cor.NewBaseContext()
	chCtx.AddError("one", first)
	chCtx.AddError("two", errors.New("second"))
	assert.Equal(t, chCtx.FirstError(), first)
	assert.Equal(t, len(chCtx.GetErrors()), 2)
}
