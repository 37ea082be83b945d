// Package poster composites donor data, the appreciation message and static
// branding into the thank-you poster PNG.
package poster

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/streetcauseviit/donation_poster_app/internal/core/domain"
	portssvc "github.com/streetcauseviit/donation_poster_app/internal/core/ports/services"
)

const (
	posterWidth  = 800
	posterHeight = 1000

	lineHeight = 15
	margin     = 60
)

var (
	topColor    = color.RGBA{R: 240, G: 249, B: 255, A: 255} // pale blue
	bottomColor = color.RGBA{R: 255, G: 247, B: 230, A: 255} // pale amber
	accentColor = color.RGBA{R: 22, G: 101, B: 52, A: 255}   // brand green
	inkColor    = color.RGBA{R: 30, G: 30, B: 30, A: 255}
	mutedColor  = color.RGBA{R: 100, G: 100, B: 100, A: 255}
)

// Renderer draws posters in memory. An optional logo PNG is composited at the
// top when configured; everything else is drawn, so rendering has no runtime
// file dependencies.
type Renderer struct {
	logo image.Image
}

// NewRenderer creates a poster renderer. logoPath may be empty.
func NewRenderer(logoPath string) (*Renderer, error) {
	r := &Renderer{}
	if logoPath != "" {
		f, err := os.Open(logoPath)
		if err != nil {
			return nil, fmt.Errorf("open logo: %w", err)
		}
		defer f.Close()
		logo, err := png.Decode(f)
		if err != nil {
			return nil, fmt.Errorf("decode logo: %w", err)
		}
		r.logo = logo
	}
	return r, nil
}

var _ portssvc.PosterRenderer = (*Renderer)(nil)

// RenderPoster produces the poster PNG for one donation.
func (r *Renderer) RenderPoster(ctx context.Context, payload domain.PosterPayload) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(payload.DonorName) == "" {
		return nil, fmt.Errorf("poster payload missing donor name")
	}
	if strings.TrimSpace(payload.Message) == "" {
		return nil, fmt.Errorf("poster payload missing message")
	}

	img := image.NewRGBA(image.Rect(0, 0, posterWidth, posterHeight))
	drawGradient(img)

	y := 80
	if r.logo != nil {
		y = drawLogo(img, r.logo, y)
	}

	drawCenteredString(img, "OFFICIAL SUPPORTER", y, mutedColor)
	y += 3 * lineHeight
	drawCenteredString(img, "Certificate of Appreciation", y, inkColor)
	y += 2 * lineHeight
	drawAccentRule(img, y)
	y += 4 * lineHeight

	drawCenteredString(img, "This recognizes", y, mutedColor)
	y += 2 * lineHeight
	drawCenteredString(img, payload.DonorName, y, accentColor)
	y += 4 * lineHeight

	// Appreciation message, wrapped and boxed like the admin preview
	messageLines := wrapText("\""+payload.Message+"\"", posterWidth-2*margin, basicfont.Face7x13)
	boxHeight := len(messageLines)*lineHeight + 30
	drawTextBox(img, margin-15, y-20, posterWidth-2*(margin-15), boxHeight)
	for _, line := range messageLines {
		drawCenteredString(img, line, y, inkColor)
		y += lineHeight
	}
	y += 3 * lineHeight

	drawCenteredString(img, "for supporting "+payload.CauseLabel, y, inkColor)
	y += 2 * lineHeight

	if payload.ShowAmount && payload.Amount != nil {
		// "Rs." rather than the rupee sign: Face7x13 has no glyph for it
		drawCenteredString(img, "Contribution: Rs. "+payload.Amount.String(), y, accentColor)
		y += 2 * lineHeight
	}

	drawCenteredString(img, "Team Street Cause VIIT", posterHeight-5*lineHeight, accentColor)
	drawCenteredString(img, "16 Years of Compassion in Action | Vision 2030", posterHeight-3*lineHeight, mutedColor)

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode poster: %w", err)
	}
	return buf.Bytes(), nil
}

// drawGradient fills the canvas with a vertical blend of the brand colors.
func drawGradient(img *image.RGBA) {
	bounds := img.Bounds()
	height := bounds.Dy()
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		t := float64(y) / float64(height)
		c := color.RGBA{
			R: lerp(topColor.R, bottomColor.R, t),
			G: lerp(topColor.G, bottomColor.G, t),
			B: lerp(topColor.B, bottomColor.B, t),
			A: 255,
		}
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			img.Set(x, y, c)
		}
	}
}

func lerp(a, b uint8, t float64) uint8 {
	return uint8(float64(a) + (float64(b)-float64(a))*t)
}

// drawLogo composites the logo centered at the given top offset and returns
// the next free Y position.
func drawLogo(img *image.RGBA, logo image.Image, y int) int {
	lb := logo.Bounds()
	x := (posterWidth - lb.Dx()) / 2
	target := image.Rect(x, y, x+lb.Dx(), y+lb.Dy())
	draw.Draw(img, target, logo, lb.Min, draw.Over)
	return y + lb.Dy() + 3*lineHeight
}

// drawAccentRule draws a short horizontal brand-colored rule.
func drawAccentRule(img *image.RGBA, y int) {
	start := posterWidth/2 - 60
	for x := start; x < start+120; x++ {
		img.Set(x, y, accentColor)
		img.Set(x, y+1, accentColor)
	}
}

// drawTextBox draws a semi-transparent white box behind the message.
func drawTextBox(img *image.RGBA, x, y, width, height int) {
	boxColor := color.RGBA{255, 255, 255, 160}
	for py := y; py < y+height && py < posterHeight; py++ {
		for px := x; px < x+width && px < posterWidth; px++ {
			cur := img.RGBAAt(px, py)
			img.Set(px, py, blend(cur, boxColor))
		}
	}
}

func blend(dst, src color.RGBA) color.RGBA {
	a := float64(src.A) / 255
	return color.RGBA{
		R: uint8(float64(src.R)*a + float64(dst.R)*(1-a)),
		G: uint8(float64(src.G)*a + float64(dst.G)*(1-a)),
		B: uint8(float64(src.B)*a + float64(dst.B)*(1-a)),
		A: 255,
	}
}

// drawCenteredString draws text horizontally centered at the given baseline.
func drawCenteredString(img *image.RGBA, text string, y int, col color.Color) {
	width := font.MeasureString(basicfont.Face7x13, text).Ceil()
	x := (posterWidth - width) / 2
	if x < margin {
		x = margin
	}
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(col),
		Face: basicfont.Face7x13,
		Dot: fixed.Point26_6{
			X: fixed.I(x),
			Y: fixed.I(y),
		},
	}
	d.DrawString(text)
}

// wrapText wraps text to fit within a given pixel width.
func wrapText(text string, maxWidth int, face font.Face) []string {
	words := strings.Fields(text)
	lines := []string{}
	currentLine := ""

	for _, word := range words {
		testLine := currentLine
		if testLine != "" {
			testLine += " "
		}
		testLine += word

		width := font.MeasureString(face, testLine).Ceil()
		if width > maxWidth && currentLine != "" {
			lines = append(lines, currentLine)
			currentLine = word
		} else {
			currentLine = testLine
		}
	}
	if currentLine != "" {
		lines = append(lines, currentLine)
	}

	// Appreciation messages are capped at a few sentences; clamp anyway so a
	// runaway generator response cannot overflow the canvas.
	if len(lines) > 12 {
		lines = lines[:12]
		lines[11] += "..."
	}
	return lines
}
