package cmd

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gaurav-prasanna/stampify/core/config"
	"github.com/gaurav-prasanna/stampify/core/embed"
	"github.com/gaurav-prasanna/stampify/core/render"
)

func newTestCommand(f *storyFlags) *cobra.Command {
	cmd := &cobra.Command{Use: "test"}
	f.register(cmd.Flags())
	return cmd
}

func TestRenderer_DefaultsToHTML(t *testing.T) {
	var f storyFlags
	r, err := f.renderer()
	require.NoError(t, err)
	assert.IsType(t, &render.HTMLRenderer{}, r)
}

func TestRenderer_SelectsFormat(t *testing.T) {
	f := storyFlags{pdf: true}
	r, err := f.renderer()
	require.NoError(t, err)
	assert.Equal(t, ".pdf", r.Extension())

	f = storyFlags{markdown: true}
	r, err = f.renderer()
	require.NoError(t, err)
	assert.Equal(t, ".md", r.Extension())
}

func TestRenderer_RejectsMultipleFormats(t *testing.T) {
	f := storyFlags{json: true, pdf: true}
	_, err := f.renderer()
	assert.Error(t, err)
}

func TestApply_OnlyChangedFlags(t *testing.T) {
	var f storyFlags
	cmd := newTestCommand(&f)
	require.NoError(t, cmd.Flags().Parse([]string{"--max-pages", "6", "--embedder", "ollama"}))

	c := config.Default()
	f.apply(cmd, &c)

	assert.Equal(t, 6, c.MaxPages)
	assert.Equal(t, "ollama", c.Embedder.Provider)
	assert.Equal(t, config.Default().Threshold, c.Threshold)
	assert.Equal(t, config.Default().SummaryRatio, c.SummaryRatio)
	assert.False(t, c.DocumentOrder)
}

func TestStampifierFactory(t *testing.T) {
	c := config.Default()
	factory := stampifierFactory(c, embed.NewHashing(32))

	s, err := factory(4)
	require.NoError(t, err)
	assert.NotNil(t, s)

	c.Threshold = 2
	_, err = stampifierFactory(c, embed.NewHashing(32))(0)
	assert.ErrorIs(t, err, config.ErrInvalidConfig)
}
