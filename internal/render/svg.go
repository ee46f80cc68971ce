// Package render draws the view models to SVG and PNG.
package render

import (
	"errors"
	"io"
	"math"
	"strconv"

	svg "github.com/ajstarks/svgo"

	"marketswarm/internal/app"
)

// ErrNothingToDraw is returned for a view with no data selected.
var ErrNothingToDraw = errors.New("nothing to draw")

const (
	gridStyle  = "stroke:#dddddd;stroke-width:1"
	axisStyle  = "stroke:#333333;stroke-width:1"
	labelStyle = "font-family:sans-serif;font-size:11px;fill:#555555"
)

// errWriter keeps the first write error so callers of svgo, which does not
// report errors, can.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) Write(p []byte) (int, error) {
	if e.err != nil {
		return 0, e.err
	}
	n, err := e.w.Write(p)
	e.err = err
	return n, err
}

func px(v float64) int { return int(math.Round(v)) }

func canvasSize(b app.Bounds, margin float64) (int, int) {
	return px(b.MaxX + margin), px(b.MaxY + margin)
}

// Beeswarm writes the swarm's current frame as SVG: gridlines, then one
// circle per visible company.
func Beeswarm(w io.Writer, b *app.Beeswarm) error {
	ew := &errWriter{w: w}
	bd := b.Bounds()
	width, height := canvasSize(bd, 20)

	canvas := svg.New(ew)
	canvas.Start(width, height)
	canvas.Title("beeswarm")
	canvas.Rect(0, 0, width, height, "fill:white")

	canvas.Gstyle(gridStyle)
	for _, t := range b.GridY() {
		canvas.Line(px(bd.MinX), px(t.Pos), px(bd.MaxX), px(t.Pos))
	}
	for _, t := range b.GridX() {
		canvas.Line(px(t.Pos), px(bd.MinY), px(t.Pos), px(bd.MaxY))
	}
	canvas.Gend()

	canvas.Gstyle(labelStyle)
	for _, t := range b.GridY() {
		canvas.Text(px(bd.MinX)+2, px(t.Pos)-2, t.Label)
	}
	for _, t := range b.GridX() {
		if t.Label != "" {
			canvas.Text(px(t.Pos), px(bd.MinY)-4, t.Label, "text-anchor:middle")
		}
	}
	canvas.Gend()

	for _, c := range b.Circles() {
		if !c.Visible || c.R <= 0 {
			continue
		}
		canvas.Circle(px(c.X), px(c.Y), int(math.Max(1, math.Round(c.R))),
			`data-ticker="`+c.ID+`"`,
			"fill:"+c.Color+";fill-opacity:0.8;stroke:#ffffff;stroke-width:0.5")
	}
	canvas.End()
	return ew.err
}

// OHLC writes the selected company's bars as SVG: a high-low wick and an
// open-close body per period, green when the close is at or above the open.
func OHLC(w io.Writer, o *app.OHLC) error {
	c, ok := o.Company()
	if !ok {
		return ErrNothingToDraw
	}
	ew := &errWriter{w: w}
	bd := o.Bounds()
	width, height := canvasSize(bd, 20)
	bars := o.Bars()

	body := 1
	if len(bars) > 1 {
		body = int(math.Max(1, (bd.Width()/float64(len(bars)))*0.6))
	}

	canvas := svg.New(ew)
	canvas.Start(width, height)
	canvas.Title(c.Ticker + " " + c.Name)
	canvas.Rect(0, 0, width, height, "fill:white")
	canvas.Line(px(bd.MinX), px(bd.MaxY), px(bd.MaxX), px(bd.MaxY), axisStyle)
	canvas.Line(px(bd.MinX), px(bd.MinY), px(bd.MinX), px(bd.MaxY), axisStyle)

	lo, hi := o.YDomain()
	canvas.Gstyle(labelStyle)
	canvas.Text(px(bd.MinX)-4, px(bd.MinY)+4, strconv.FormatFloat(hi, 'f', 2, 64), "text-anchor:end")
	canvas.Text(px(bd.MinX)-4, px(bd.MaxY), strconv.FormatFloat(lo, 'f', 2, 64), "text-anchor:end")
	for _, t := range o.DateTicks(5) {
		canvas.Text(px(t.Pos), px(bd.MaxY)+14, t.Label, "text-anchor:middle")
	}
	canvas.Gend()

	for _, b := range bars {
		color := "#d62728"
		if b.Up {
			color = "#2ca02c"
		}
		x := px(b.X)
		canvas.Line(x, px(b.High), x, px(b.Low), "stroke:"+color)
		top, bottom := math.Min(b.Open, b.Close), math.Max(b.Open, b.Close)
		h := int(math.Max(1, bottom-top))
		canvas.Rect(x-body/2, px(top), body, h, "fill:"+color)
	}
	canvas.End()
	return ew.err
}
