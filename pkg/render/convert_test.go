package render

import (
	"context"
	"errors"
	"os/exec"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const square = `<svg xmlns="http://www.w3.org/2000/svg" width="10" height="10"><rect width="10" height="10"/></svg>`

func TestToPNGRejectsScale(t *testing.T) {
	_, err := ToPNG(context.Background(), []byte(square), 0)
	assert.ErrorContains(t, err, "scale")
}

func TestConvertMissingBinary(t *testing.T) {
	t.Setenv("PATH", t.TempDir())
	_, err := ToPDF(context.Background(), []byte(square))
	assert.True(t, errors.Is(err, ErrConverterMissing))
}

func TestConvert(t *testing.T) {
	if _, err := exec.LookPath(rsvgConvert); err != nil {
		t.Skip("rsvg-convert not installed")
	}
	ctx := context.Background()

	pdf, err := ToPDF(ctx, []byte(square))
	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(pdf[:4]))

	png, err := ToPNG(ctx, []byte(square), 2)
	require.NoError(t, err)
	assert.Equal(t, "\x89PNG", string(png[:4]))
}
