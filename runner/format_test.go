package runner

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/agentfan/model"
)

func TestWriteResults(t *testing.T) {
	results := []Result{
		{Index: 0, Name: "Professional Sales Agent", Output: model.String("Dear customer,")},
		{Index: 1, Name: "Busy Sales Agent"},
		{Index: 2, Name: "Engaging Sales Agent", Err: errors.New("rate limited")},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteResults(&buf, results))

	want := "=== Professional Sales Agent ===\nDear customer,\n\n" +
		"=== Busy Sales Agent ===\n\n\n" +
		"=== Engaging Sales Agent ===\nerror: rate limited\n\n"
	assert.Equal(t, want, buf.String())
}

func TestWriteResults_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteResults(&buf, nil))
	assert.Empty(t, buf.String())
}
