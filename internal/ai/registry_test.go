package ai

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry(t *testing.T) {
	reg := NewRegistry()
	var gotModel string
	reg.Register(" OpenRouter ", func(ctx context.Context, model string) (Provider, error) {
		gotModel = model
		return &fakeProvider{reply: "x"}, nil
	})

	p, err := reg.Get(context.Background(), "openrouter", "m1")
	require.NoError(t, err)
	assert.NotNil(t, p)
	assert.Equal(t, "m1", gotModel)
	assert.Equal(t, []string{"openrouter"}, reg.Names())

	_, err = reg.Get(context.Background(), "nope", "")
	require.ErrorIs(t, err, ErrUnknownProvider)
}
