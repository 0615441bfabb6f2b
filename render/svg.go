// Package render draws laid-out calendar views as standalone SVG documents.
//
// The layout engines already produce pixel tops/heights and percentage
// lefts/widths; this package only maps them onto a fixed-width canvas.
package render

import (
	"fmt"
	"strings"

	"github.com/warp/booking-timeline/timeline"
)

// Options controls the canvas.
type Options struct {
	Width      int    // total width in px
	AxisWidth  int    // hour-label gutter for day/week views
	HeaderH    int    // weekday header height for week/month views
	CellHeight int    // month cell height
	FontFamily string
	FontSize   int
	Background string
	GridColor  string
	TextColor  string
}

// DefaultOptions returns an 800px wide canvas.
func DefaultOptions() Options {
	return Options{
		Width:      800,
		AxisWidth:  56,
		HeaderH:    24,
		CellHeight: 96,
		FontFamily: "Helvetica, Arial, sans-serif",
		FontSize:   11,
		Background: "#ffffff",
		GridColor:  "#e5e7eb",
		TextColor:  "#111827",
	}
}

func (o Options) normalize() Options {
	def := DefaultOptions()
	if o.Width <= 0 {
		o.Width = def.Width
	}
	if o.AxisWidth < 0 {
		o.AxisWidth = def.AxisWidth
	}
	if o.HeaderH <= 0 {
		o.HeaderH = def.HeaderH
	}
	if o.CellHeight <= 0 {
		o.CellHeight = def.CellHeight
	}
	if o.FontFamily == "" {
		o.FontFamily = def.FontFamily
	}
	if o.FontSize <= 0 {
		o.FontSize = def.FontSize
	}
	if o.Background == "" {
		o.Background = def.Background
	}
	if o.GridColor == "" {
		o.GridColor = def.GridColor
	}
	if o.TextColor == "" {
		o.TextColor = def.TextColor
	}
	return o
}

// SVG renders whichever grid v carries.
func SVG(v timeline.View, opts Options) string {
	opts = opts.normalize()
	switch {
	case v.Week != nil:
		return weekSVG(*v.Week, opts)
	case v.Month != nil:
		return monthSVG(*v.Month, opts)
	case v.Day != nil:
		return daySVG(*v.Day, opts)
	default:
		return ""
	}
}

// =============================================================================
// DAY / WEEK
// =============================================================================

func daySVG(g timeline.DayGrid, opts Options) string {
	height := int(g.Height)
	var svg strings.Builder
	open(&svg, opts, opts.Width, height)
	plotW := float64(opts.Width - opts.AxisWidth)

	drawHours(&svg, g.Hours, 0, opts)
	for _, b := range g.Boxes {
		drawBox(&svg, b, float64(opts.AxisWidth)+b.Left*plotW/100, 0, b.Width*plotW/100, opts)
	}

	svg.WriteString("</svg>")
	return svg.String()
}

func weekSVG(g timeline.WeekGrid, opts Options) string {
	top := float64(opts.HeaderH)
	height := opts.HeaderH + int(g.Height)
	var svg strings.Builder
	open(&svg, opts, opts.Width, height)
	plotW := float64(opts.Width - opts.AxisWidth)

	for _, col := range g.Columns {
		x := float64(opts.AxisWidth) + col.Left*plotW/100
		w := col.Width * plotW / 100
		weight := "normal"
		if col.IsToday {
			weight = "bold"
		}
		svg.WriteString(fmt.Sprintf(`<text class="head" x="%.2f" y="%d" text-anchor="middle" font-weight="%s">%s %d</text>`+"\n",
			x+w/2, opts.HeaderH-8, weight, escapeXML(col.Weekday), col.Day))
		svg.WriteString(fmt.Sprintf(`<line x1="%.2f" y1="%.2f" x2="%.2f" y2="%d" stroke="%s"/>`+"\n",
			x, top, x, height, opts.GridColor))
	}

	drawHours(&svg, g.Hours, top, opts)

	// Boxes before the first visible hour have a negative Top.
	svg.WriteString(fmt.Sprintf(`<defs><clipPath id="week-plot"><rect x="0" y="%.2f" width="%d" height="%.2f"/></clipPath></defs>`+"\n",
		top, opts.Width, g.Height))
	svg.WriteString(`<g clip-path="url(#week-plot)">` + "\n")
	for _, col := range g.Columns {
		for _, b := range col.Boxes {
			if b.Top+b.Height <= 0 || b.Top >= g.Height {
				continue
			}
			drawBox(&svg, b, float64(opts.AxisWidth)+b.Left*plotW/100, top, b.Width*plotW/100, opts)
		}
	}
	svg.WriteString("</g>\n")

	svg.WriteString("</svg>")
	return svg.String()
}

func drawHours(svg *strings.Builder, hours []timeline.HourLabel, offset float64, opts Options) {
	for _, h := range hours {
		y := offset + h.Top
		svg.WriteString(fmt.Sprintf(`<line x1="%d" y1="%.2f" x2="%d" y2="%.2f" stroke="%s"/>`+"\n",
			opts.AxisWidth, y, opts.Width, y, opts.GridColor))
		svg.WriteString(fmt.Sprintf(`<text class="axis" x="%d" y="%.2f" text-anchor="end">%s</text>`+"\n",
			opts.AxisWidth-6, y+float64(opts.FontSize), escapeXML(h.Label)))
	}
}

func drawBox(svg *strings.Builder, b timeline.Box, x, offset, w float64, opts Options) {
	fill := b.Color.Hex()
	y := offset + b.Top
	svg.WriteString(fmt.Sprintf(`<g class="booking" data-booking-id="%s">`+"\n", escapeXML(b.BookingID)))
	svg.WriteString(fmt.Sprintf(`<rect x="%.2f" y="%.2f" width="%.2f" height="%.2f" rx="3" fill="%s" fill-opacity="0.2" stroke="%s"/>`+"\n",
		x+1, y, w-2, b.Height, fill, fill))
	svg.WriteString(fmt.Sprintf(`<text class="box" x="%.2f" y="%.2f">%s</text>`+"\n",
		x+4, y+float64(opts.FontSize)+2, escapeXML(b.Title)))
	if b.Height >= float64(2*opts.FontSize+6) {
		svg.WriteString(fmt.Sprintf(`<text class="meta" x="%.2f" y="%.2f">%s</text>`+"\n",
			x+4, y+float64(2*opts.FontSize)+4, escapeXML(b.TimeRange)))
	}
	svg.WriteString("</g>\n")
}

// =============================================================================
// MONTH
// =============================================================================

func monthSVG(g timeline.MonthGrid, opts Options) string {
	weeks := g.Weeks()
	cellW := float64(opts.Width) / 7
	height := opts.HeaderH + len(weeks)*opts.CellHeight
	var svg strings.Builder
	open(&svg, opts, opts.Width, height)

	for i, name := range g.Weekdays {
		svg.WriteString(fmt.Sprintf(`<text class="head" x="%.2f" y="%d" text-anchor="middle">%s</text>`+"\n",
			float64(i)*cellW+cellW/2, opts.HeaderH-8, escapeXML(name)))
	}

	lineH := float64(opts.FontSize + 4)
	for r, week := range weeks {
		for c, cell := range week {
			x := float64(c) * cellW
			y := float64(opts.HeaderH + r*opts.CellHeight)
			fill := opts.Background
			if cell.Padding {
				fill = "#f9fafb"
			}
			svg.WriteString(fmt.Sprintf(`<rect x="%.2f" y="%.2f" width="%.2f" height="%d" fill="%s" stroke="%s"/>`+"\n",
				x, y, cellW, opts.CellHeight, fill, opts.GridColor))
			if cell.Padding {
				continue
			}

			weight := "normal"
			if cell.IsToday {
				weight = "bold"
			}
			svg.WriteString(fmt.Sprintf(`<text class="day" x="%.2f" y="%.2f" font-weight="%s">%d</text>`+"\n",
				x+4, y+lineH, weight, cell.Day))

			for i, e := range cell.Entries {
				ey := y + lineH*float64(i+1) + 2
				fillHex := e.Color.Hex()
				svg.WriteString(fmt.Sprintf(`<g class="booking" data-booking-id="%s">`+"\n", escapeXML(e.BookingID)))
				svg.WriteString(fmt.Sprintf(`<rect x="%.2f" y="%.2f" width="%.2f" height="%.2f" rx="2" fill="%s" fill-opacity="0.2"/>`+"\n",
					x+2, ey, cellW-4, lineH-2, fillHex))
				svg.WriteString(fmt.Sprintf(`<text class="meta" x="%.2f" y="%.2f">%s %s</text>`+"\n",
					x+4, ey+lineH-5, escapeXML(e.Time), escapeXML(e.Title)))
				svg.WriteString("</g>\n")
			}
			if cell.OverflowLabel != "" {
				oy := y + lineH*float64(len(cell.Entries)+2)
				svg.WriteString(fmt.Sprintf(`<text class="more" x="%.2f" y="%.2f">%s</text>`+"\n",
					x+4, oy, escapeXML(cell.OverflowLabel)))
			}
		}
	}

	svg.WriteString("</svg>")
	return svg.String()
}

// =============================================================================
// HELPERS
// =============================================================================

func open(svg *strings.Builder, opts Options, width, height int) {
	svg.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg width="%d" height="%d" xmlns="http://www.w3.org/2000/svg">
<rect width="100%%" height="100%%" fill="%s"/>
<defs>
<style>
text { font-family: %s; font-size: %dpx; fill: %s; }
.axis, .more { fill: #6b7280; }
.head { font-weight: bold; }
.meta { font-size: %dpx; }
</style>
</defs>
`, width, height, opts.Background,
		opts.FontFamily, opts.FontSize, opts.TextColor,
		opts.FontSize-1))
}

// escapeXML escapes the five XML special characters.
func escapeXML(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	s = strings.ReplaceAll(s, "\"", "&quot;")
	s = strings.ReplaceAll(s, "'", "&apos;")
	return s
}
