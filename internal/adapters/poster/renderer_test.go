package poster_test

import (
	"bytes"
	"context"
	"image/png"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/streetcauseviit/donation_poster_app/internal/adapters/poster"
	"github.com/streetcauseviit/donation_poster_app/internal/core/domain"
)

func newTestRenderer(t *testing.T) *poster.Renderer {
	t.Helper()
	r, err := poster.NewRenderer("")
	require.NoError(t, err)
	return r
}

func testPayload() domain.PosterPayload {
	amount := decimal.NewFromInt(500)
	return domain.PosterPayload{
		DonorName:  "Asha Rao",
		CauseLabel: "Education Initiative",
		Amount:     &amount,
		ShowAmount: true,
		Message:    "Your kindness lights the way for students who need it most.",
	}
}

func TestRenderPoster_ProducesDecodablePNG(t *testing.T) {
	r := newTestRenderer(t)

	data, err := r.RenderPoster(context.Background(), testPayload())
	require.NoError(t, err)
	require.NotEmpty(t, data)

	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	bounds := img.Bounds()
	assert.Equal(t, 800, bounds.Dx())
	assert.Equal(t, 1000, bounds.Dy())
}

func TestRenderPoster_HiddenAmount(t *testing.T) {
	r := newTestRenderer(t)

	payload := testPayload()
	payload.ShowAmount = false

	data, err := r.RenderPoster(context.Background(), payload)
	require.NoError(t, err)
	_, err = png.Decode(bytes.NewReader(data))
	assert.NoError(t, err)
}

func TestRenderPoster_NoAmount(t *testing.T) {
	r := newTestRenderer(t)

	payload := testPayload()
	payload.Amount = nil

	data, err := r.RenderPoster(context.Background(), payload)
	require.NoError(t, err)
	_, err = png.Decode(bytes.NewReader(data))
	assert.NoError(t, err)
}

func TestRenderPoster_LongMessageWraps(t *testing.T) {
	r := newTestRenderer(t)

	payload := testPayload()
	payload.Message = strings.Repeat("every act of kindness matters ", 40)

	data, err := r.RenderPoster(context.Background(), payload)
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 1000, img.Bounds().Dy())
}

func TestRenderPoster_MultibyteDonorName(t *testing.T) {
	r := newTestRenderer(t)

	payload := testPayload()
	payload.DonorName = strings.Repeat("అ", 40)

	data, err := r.RenderPoster(context.Background(), payload)
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 800, img.Bounds().Dx())
}

func TestRenderPoster_RequiresNameAndMessage(t *testing.T) {
	r := newTestRenderer(t)

	payload := testPayload()
	payload.DonorName = ""
	_, err := r.RenderPoster(context.Background(), payload)
	assert.Error(t, err)

	payload = testPayload()
	payload.Message = ""
	_, err = r.RenderPoster(context.Background(), payload)
	assert.Error(t, err)
}

func TestNewRenderer_MissingLogoFile(t *testing.T) {
	_, err := poster.NewRenderer("/nonexistent/logo.png")
	assert.Error(t, err)
}

func TestRenderPoster_CancelledContext(t *testing.T) {
	r := newTestRenderer(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := r.RenderPoster(ctx, testPayload())
	assert.Error(t, err)
}
