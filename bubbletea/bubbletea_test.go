package bubbletea_test

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fwojciec/kaoyan"
	bt "github.com/fwojciec/kaoyan/bubbletea"
	"github.com/fwojciec/kaoyan/mock"
	"github.com/stretchr/testify/require"
)

// initModel creates a model and sends a WindowSizeMsg to initialize the viewport.
func initModel(t *testing.T, run bt.RunFunc) bt.Model {
	t.Helper()
	m := bt.New(run, "zhipu", kaoyan.DefaultTheme())
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	model, ok := updated.(bt.Model)
	require.True(t, ok)
	return model
}

// updateModel sends a message and returns the updated Model.
func updateModel(t *testing.T, m bt.Model, msg tea.Msg) bt.Model {
	t.Helper()
	updated, _ := m.Update(msg)
	model, ok := updated.(bt.Model)
	require.True(t, ok)
	return model
}

func nopRun(_ context.Context, _ string, _ ...kaoyan.GenerateOption) (kaoyan.Result, error) {
	return kaoyan.Result{}, nil
}

// scriptedRun replays chunks through the handlers in opts the way
// kaoyan.Client.Generate does, then returns err.
func scriptedRun(thinking bool, err error, chunks ...kaoyan.Chunk) bt.RunFunc {
	return func(ctx context.Context, _ string, opts ...kaoyan.GenerateOption) (kaoyan.Result, error) {
		p := &mock.Provider{
			StreamFn: func(context.Context, kaoyan.Request) (kaoyan.Stream, error) {
				return mock.Chunks(err, chunks...), nil
			},
			EmitsThinkingFn: func() bool { return thinking },
		}
		c := kaoyan.NewClient(map[kaoyan.ProviderName]kaoyan.Provider{kaoyan.ProviderZhipu: p})
		return c.Generate(ctx, kaoyan.ProviderConfig{Provider: kaoyan.ProviderZhipu}, kaoyan.Request{Prompt: "p"}, nil, opts...)
	}
}
