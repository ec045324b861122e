package runner

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/agentfan/agent"
	"github.com/hupe1980/agentfan/internal/testutil"
	"github.com/hupe1980/agentfan/logging"
	"github.com/hupe1980/agentfan/model"
)

func twoAgents() []*agent.Agent {
	return []*agent.Agent{
		agent.New("A", "sys-A", agent.WithModel("m1")),
		agent.New("B", "sys-B", agent.WithModel("m1")),
	}
}

func pairs(b *Batch) [][2]string {
	out := make([][2]string, 0, len(b.Results))
	for _, r := range b.Results {
		out = append(out, [2]string{r.Name, r.Text()})
	}
	return out
}

func TestRunAll_EchoScenario(t *testing.T) {
	backend := model.NewMockBackend(nil)
	r := New(backend)

	batch, err := r.RunAll(context.Background(), twoAgents(), "hello")
	require.NoError(t, err)
	require.NotNil(t, batch)

	assert.Equal(t, [][2]string{{"A", "m1:hello"}, {"B", "m1:hello"}}, pairs(batch))
	assert.Equal(t, "hello", batch.Input)
	assert.Equal(t, 2, backend.CallCount())

	for _, call := range backend.Calls() {
		assert.Equal(t, "m1", call.Model)
		require.Len(t, call.Messages, 2)
		assert.Equal(t, model.RoleSystem, call.Messages[0].Role)
		assert.Equal(t, model.UserMessage("hello"), call.Messages[1])
	}
}

func TestRunAll_PreservesInputOrder(t *testing.T) {
	// Later agents finish first.
	backend := model.NewMockBackend(testutil.DelayedEcho(map[string]time.Duration{
		"sys-A": 60 * time.Millisecond,
		"sys-B": 30 * time.Millisecond,
		"sys-C": 0,
	}))
	agents := []*agent.Agent{
		agent.New("A", "sys-A", agent.WithModel("m1")),
		agent.New("B", "sys-B", agent.WithModel("m2")),
		agent.New("C", "sys-C", agent.WithModel("m3")),
	}

	batch, err := New(backend).RunAll(context.Background(), agents, "hi")
	require.NoError(t, err)

	assert.Equal(t, [][2]string{{"A", "m1:hi"}, {"B", "m2:hi"}, {"C", "m3:hi"}}, pairs(batch))
	for i, res := range batch.Results {
		assert.Equal(t, i, res.Index)
		assert.NoError(t, res.Err)
	}
}

func TestRunAll_Deterministic(t *testing.T) {
	r := New(model.NewMockBackend(nil))

	first, err := r.RunAll(context.Background(), twoAgents(), "hello")
	require.NoError(t, err)
	second, err := r.RunAll(context.Background(), twoAgents(), "hello")
	require.NoError(t, err)

	assert.Equal(t, pairs(first), pairs(second))
	assert.NotEqual(t, first.ID, second.ID)
}

func TestRunAll_MissingContentOnlyAffectsThatAgent(t *testing.T) {
	backend := model.NewMockBackend(func(ctx context.Context, req model.Request) (*model.Response, error) {
		if testutil.SystemPrompt(req) == "sys-B" {
			return testutil.NewResponseBuilder().Model(req.Model).NoContent().Build(), nil
		}
		return model.EchoHandler(ctx, req)
	})

	batch, err := New(backend).RunAll(context.Background(), twoAgents(), "hello")
	require.NoError(t, err)

	require.NotNil(t, batch.Results[0].Output)
	assert.Equal(t, "m1:hello", *batch.Results[0].Output)
	assert.Nil(t, batch.Results[1].Output)
	assert.NoError(t, batch.Results[1].Err)
	assert.Empty(t, batch.Failed())
}

func TestRunAll_FailFast(t *testing.T) {
	sentinel := errors.New("upstream unavailable")
	// Siblings block until cancelled, so Wait only returns if the failure
	// cancels them.
	backend := model.NewMockBackend(testutil.FailFor("sys-B", sentinel, testutil.BlockUntilDone))
	agents := []*agent.Agent{
		agent.New("A", "sys-A"),
		agent.New("B", "sys-B"),
		agent.New("C", "sys-C"),
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	batch, err := New(backend).RunAll(ctx, agents, "hello")
	assert.Nil(t, batch)
	require.Error(t, err)
	assert.ErrorIs(t, err, sentinel)
	assert.NoError(t, ctx.Err(), "siblings should be cancelled by the failure, not by the test deadline")

	var agentErr *AgentError
	require.ErrorAs(t, err, &agentErr)
	assert.Equal(t, 1, agentErr.Index)
	assert.Equal(t, "B", agentErr.Name)
}

func TestRunAll_Isolate(t *testing.T) {
	sentinel := errors.New("rate limited")
	backend := model.NewMockBackend(testutil.FailFor("sys-A", sentinel, nil))

	r := New(backend, func(o *Options) { o.ErrorPolicy = Isolate })
	batch, err := r.RunAll(context.Background(), twoAgents(), "hello")
	require.NoError(t, err)
	require.NotNil(t, batch)

	assert.ErrorIs(t, batch.Results[0].Err, sentinel)
	assert.Nil(t, batch.Results[0].Output)
	assert.Equal(t, "m1:hello", batch.Results[1].Text())

	failed := batch.Failed()
	require.Len(t, failed, 1)
	assert.Equal(t, "A", failed[0].Name)
}

func TestRunAll_ConcurrencyLimit(t *testing.T) {
	var inFlight testutil.InFlight
	backend := model.NewMockBackend(inFlight.Wrap(testutil.DelayedEcho(map[string]time.Duration{
		"sys": 20 * time.Millisecond,
	})))

	agents := make([]*agent.Agent, 6)
	for i := range agents {
		agents[i] = agent.New(string(rune('A'+i)), "sys")
	}

	batch, err := New(backend, func(o *Options) { o.MaxConcurrency = 2 }).RunAll(context.Background(), agents, "hello")
	require.NoError(t, err)
	assert.Len(t, batch.Results, 6)
	assert.LessOrEqual(t, inFlight.Peak(), 2)
	assert.Equal(t, 6, backend.CallCount())
}

func TestRunAll_DispatchesInInputOrder(t *testing.T) {
	backend := model.NewMockBackend(nil)
	agents := []*agent.Agent{
		agent.New("A", "sys-A"),
		agent.New("B", "sys-B"),
		agent.New("C", "sys-C"),
	}

	_, err := New(backend, func(o *Options) { o.MaxConcurrency = 1 }).RunAll(context.Background(), agents, "hello")
	require.NoError(t, err)

	calls := backend.Calls()
	require.Len(t, calls, 3)
	for i, call := range calls {
		assert.Equal(t, agents[i].Instructions(), testutil.SystemPrompt(call))
	}
}

func TestRunAll_AllCallsInFlightTogether(t *testing.T) {
	const n = 5

	var arrived sync.WaitGroup
	arrived.Add(n)
	release := make(chan struct{})
	go func() {
		arrived.Wait()
		close(release)
	}()

	backend := model.NewMockBackend(func(ctx context.Context, req model.Request) (*model.Response, error) {
		arrived.Done()
		select {
		case <-release:
			return model.EchoHandler(ctx, req)
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	})

	agents := make([]*agent.Agent, n)
	for i := range agents {
		agents[i] = agent.New(string(rune('A'+i)), "sys")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	batch, err := New(backend).RunAll(ctx, agents, "hello")
	require.NoError(t, err)
	assert.Len(t, batch.Results, n)
}

func TestRunAll_CallTimeout(t *testing.T) {
	backend := model.NewMockBackend(testutil.BlockUntilDone)

	t.Run("fail fast", func(t *testing.T) {
		r := New(backend, func(o *Options) { o.CallTimeout = 20 * time.Millisecond })
		_, err := r.RunAll(context.Background(), twoAgents(), "hello")
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})

	t.Run("isolate", func(t *testing.T) {
		r := New(backend, func(o *Options) {
			o.CallTimeout = 20 * time.Millisecond
			o.ErrorPolicy = Isolate
		})
		batch, err := r.RunAll(context.Background(), twoAgents(), "hello")
		require.NoError(t, err)
		for _, res := range batch.Results {
			assert.ErrorIs(t, res.Err, context.DeadlineExceeded)
		}
	})
}

func TestRunAll_ParentCancel(t *testing.T) {
	for _, policy := range []ErrorPolicy{FailFast, Isolate} {
		t.Run(policy.String(), func(t *testing.T) {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()

			r := New(model.NewMockBackend(nil), func(o *Options) { o.ErrorPolicy = policy })
			batch, err := r.RunAll(ctx, twoAgents(), "hello")
			assert.Nil(t, batch)
			assert.ErrorIs(t, err, context.Canceled)
		})
	}
}

func TestRunAll_Validation(t *testing.T) {
	tests := []struct {
		name   string
		agents []*agent.Agent
		input  string
		want   error
	}{
		{"no agents", nil, "hello", ErrNoAgents},
		{"empty input", twoAgents(), "", ErrEmptyInput},
		{"duplicate name", []*agent.Agent{agent.New("A", "x"), agent.New("A", "y")}, "hello", ErrDuplicateName},
		{"nil agent", []*agent.Agent{agent.New("A", "x"), nil}, "hello", ErrNilAgent},
		{"empty name", []*agent.Agent{agent.New("", "x")}, "hello", agent.ErrEmptyName},
		{"empty model", []*agent.Agent{agent.New("A", "x", agent.WithModel(""))}, "hello", agent.ErrEmptyModel},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			backend := model.NewMockBackend(nil)
			batch, err := New(backend).RunAll(context.Background(), tc.agents, tc.input)
			assert.Nil(t, batch)
			assert.ErrorIs(t, err, tc.want)
			assert.Zero(t, backend.CallCount())
		})
	}
}

func TestRunAll_NilBackend(t *testing.T) {
	_, err := New(nil).RunAll(context.Background(), twoAgents(), "hello")
	assert.ErrorIs(t, err, agent.ErrNilBackend)
}

func TestRunAll_BatchMetadata(t *testing.T) {
	batch, err := New(model.NewMockBackend(nil)).RunAll(context.Background(), twoAgents(), "hello")
	require.NoError(t, err)

	_, parseErr := uuid.Parse(batch.ID)
	assert.NoError(t, parseErr)
	assert.False(t, batch.Finished.Before(batch.Started))
	assert.GreaterOrEqual(t, batch.Duration(), time.Duration(0))

	outputs := batch.Outputs()
	require.Contains(t, outputs, "A")
	assert.Equal(t, "m1:hello", *outputs["B"])
}

func TestRunAll_Logging(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.NewLogger(&logging.LoggerConfig{Level: logging.LogLevelDebug, Format: "json", Output: &buf})

	_, err := New(model.NewMockBackend(nil), func(o *Options) { o.Logger = logger }).RunAll(context.Background(), twoAgents(), "hello")
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "Batch started")
	assert.Contains(t, out, "Agent call completed")
	assert.Contains(t, out, "Batch completed")
	assert.Contains(t, out, `"agent_count":2`)
}

func TestErrorPolicy(t *testing.T) {
	p, err := ParseErrorPolicy("isolate")
	require.NoError(t, err)
	assert.Equal(t, Isolate, p)

	p, err = ParseErrorPolicy("")
	require.NoError(t, err)
	assert.Equal(t, FailFast, p)

	_, err = ParseErrorPolicy("retry")
	assert.Error(t, err)

	assert.Equal(t, "fail-fast", FailFast.String())
	assert.Equal(t, "isolate", Isolate.String())
}
