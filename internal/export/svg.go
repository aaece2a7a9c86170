package export

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/san-kum/circlesim/internal/dynamo"
)

func hex(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

func header(sb *strings.Builder, width, height int, c dynamo.Config) {
	fmt.Fprintf(sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#ffffff"/>
<circle cx="%.1f" cy="%.1f" r="%.1f" fill="none" stroke="#000000" stroke-width="1"/>
`, width, height, width, height, c.Container.Center.X, c.Container.Center.Y, c.Container.Radius)
}

// SnapshotToSVG draws one frame the way the window does: the container
// outline, each trail as dots fading from transparent (oldest) to opaque,
// and both bodies as filled discs.
func SnapshotToSVG(snap dynamo.Snapshot, cfg dynamo.Config, width, height int) string {
	var sb strings.Builder
	header(&sb, width, height, cfg)

	for i, body := range snap.Bodies {
		trail := snap.Trails[i]
		fill := hex(body.Color)
		for j, p := range trail {
			alpha := float64(j) / float64(len(trail))
			fmt.Fprintf(&sb, "<circle cx=\"%.1f\" cy=\"%.1f\" r=\"2\" fill=\"%s\" fill-opacity=\"%.3f\"/>\n", p.X, p.Y, fill, alpha)
		}
	}
	for _, body := range snap.Bodies {
		fmt.Fprintf(&sb, "<circle cx=\"%.1f\" cy=\"%.1f\" r=\"%.1f\" fill=\"%s\"/>\n",
			body.Position.X, body.Position.Y, body.Radius, hex(body.Color))
	}

	sb.WriteString("</svg>")
	return sb.String()
}

// TrajectoryToSVG draws the full recorded path of both bodies as polylines
// inside the container.
func TrajectoryToSVG(frames []dynamo.State, cfg dynamo.Config, colors [2]color.RGBA, width, height int) string {
	if len(frames) < 2 {
		return ""
	}

	var sb strings.Builder
	header(&sb, width, height, cfg)

	for i := range 2 {
		fmt.Fprintf(&sb, `<path fill="none" stroke="%s" stroke-width="1.5" d="M`, hex(colors[i]))
		for j, st := range frames {
			p := st.Bodies[i].Position
			if j == 0 {
				fmt.Fprintf(&sb, "%.1f,%.1f", p.X, p.Y)
			} else {
				fmt.Fprintf(&sb, " L%.1f,%.1f", p.X, p.Y)
			}
		}
		sb.WriteString("\"/>\n")
	}

	last := frames[len(frames)-1]
	for i, body := range last.Bodies {
		fmt.Fprintf(&sb, "<circle cx=\"%.1f\" cy=\"%.1f\" r=\"%.1f\" fill=\"%s\"/>\n",
			body.Position.X, body.Position.Y, cfg.BodyRadius, hex(colors[i]))
	}

	sb.WriteString("</svg>")
	return sb.String()
}
