package gui

import (
	rl "github.com/gen2brain/raylib-go/raylib"
	"gonum.org/v1/gonum/spatial/r2"
)

// trailAlpha fades trail point i of n from transparent (oldest) to almost
// opaque (newest).
func trailAlpha(i, n int) uint8 {
	if n <= 0 {
		return 0
	}
	return uint8(255 * i / n)
}

func vec(p r2.Vec) rl.Vector2 {
	return rl.NewVector2(float32(p.X), float32(p.Y))
}

func (a *App) Draw() {
	rl.BeginDrawing()
	defer rl.EndDrawing()

	rl.ClearBackground(ColBg)

	c := a.Sim.Container
	r := float32(c.Radius)
	rl.DrawRing(vec(c.Center), r-containerLineW, r, 0, 360, 128, ColLine)

	for i := range 2 {
		a.drawTrail(i)
	}
	for i, b := range a.Driver.Bodies() {
		rl.DrawCircleV(vec(b.Position), float32(b.Radius), a.Colors[i])
	}

	rl.DrawText(a.CounterText(), counterX, counterY, fontSize, ColText)

	if a.Phase == AwaitingDismiss {
		w := rl.MeasureText(completeMessage, fontSize)
		x := int32(a.Cfg.Window.Width)/2 - w/2
		y := int32(a.Cfg.Window.Height) / 2
		rl.DrawText(completeMessage, x, y, fontSize, ColText)
	}
}

func (a *App) drawTrail(i int) {
	trail := a.Driver.Trail(i)
	n := trail.Len()
	base := a.Colors[i]
	trail.Each(func(j int, p r2.Vec) bool {
		col := base
		col.A = trailAlpha(j, n)
		rl.DrawPixel(int32(p.X), int32(p.Y), col)
		return true
	})
}
