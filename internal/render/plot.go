package render

import (
	"context"
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/playmatatu/tablesim/internal/physics"
)

const (
	pathRune  = '·'
	finalRune = '●'
)

var (
	frameStyle   = tcell.StyleDefault.Foreground(tcell.ColorWhite)
	pathStyle    = tcell.StyleDefault.Foreground(tcell.ColorBlue)
	finalStyle   = tcell.StyleDefault.Foreground(tcell.ColorRed)
	captionStyle = tcell.StyleDefault.Foreground(tcell.ColorYellow)
)

// Plotter draws one table and trajectory on a tcell screen.
type Plotter struct {
	screen tcell.Screen
	layout Layout
}

// NewPlotter sizes the layout to the current screen.
func NewPlotter(screen tcell.Screen, table physics.Table) (*Plotter, error) {
	cols, rows := screen.Size()
	l, err := NewLayout(table, cols, rows)
	if err != nil {
		return nil, err
	}
	return &Plotter{screen: screen, layout: l}, nil
}

// Layout exposes the cell mapping in use.
func (p *Plotter) Layout() Layout {
	return p.layout
}

// Plot draws the frame, the full path, the final position and the caption.
func (p *Plotter) Plot(traj physics.Trajectory) {
	p.screen.Clear()
	p.drawFrame()
	p.drawPath(traj, len(traj))
	p.drawCaption(traj, len(traj))
	p.screen.Show()
}

// Animate reveals the path frame by frame, advancing step samples per frame,
// until the whole trajectory is shown or ctx is done. onBounce is called for
// every revealed sample that followed a reflection.
func (p *Plotter) Animate(ctx context.Context, table physics.Table, params physics.Params, frame time.Duration, step int, onBounce func(physics.Reflection)) error {
	if step <= 0 {
		step = 1
	}
	var samples []physics.Sample
	physics.Walk(params, table, func(s physics.Sample) bool {
		samples = append(samples, s)
		return true
	})
	traj := make(physics.Trajectory, len(samples))
	for i, s := range samples {
		traj[i] = s.Position
	}

	ticker := time.NewTicker(frame)
	defer ticker.Stop()

	shown := 0
	for shown < len(traj) {
		next := shown + step
		if next > len(traj) {
			next = len(traj)
		}
		if onBounce != nil {
			for _, s := range samples[shown:next] {
				if s.Reflection.Any() {
					onBounce(s.Reflection)
				}
			}
		}
		shown = next

		p.screen.Clear()
		p.drawFrame()
		p.drawPath(traj, shown)
		p.drawCaption(traj, shown)
		p.screen.Show()

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
	return nil
}

// cornerRunes follow the order of physics.Table.Corners.
var cornerRunes = [4]rune{'└', '┘', '┐', '┌'}

// drawFrame traces the table outline one cell outside the inner area.
func (p *Plotter) drawFrame() {
	outline := p.layout.Table.Corners()
	cols := make([]int, len(outline))
	rows := make([]int, len(outline))
	for i, v := range outline {
		cols[i], rows[i] = p.layout.BorderCell(v)
	}

	for i := 1; i < len(outline); i++ {
		edge := '─'
		if cols[i] == cols[i-1] {
			edge = '│'
		}
		line(cols[i-1], rows[i-1], cols[i], rows[i], func(c, r int) {
			p.screen.SetContent(c, r, edge, nil, frameStyle)
		})
	}
	for i, ch := range cornerRunes {
		p.screen.SetContent(cols[i], rows[i], ch, nil, frameStyle)
	}
}

// drawPath connects the first n samples and marks sample n-1 as the ball.
func (p *Plotter) drawPath(traj physics.Trajectory, n int) {
	if n == 0 {
		return
	}
	pc, pr, pok := p.layout.Cell(traj[0])
	for _, pt := range traj[1:n] {
		c, r, ok := p.layout.Cell(pt)
		if ok && pok {
			line(pc, pr, c, r, p.setPath)
		} else if ok {
			p.setPath(c, r)
		}
		pc, pr, pok = c, r, ok
	}
	if n == 1 && pok {
		p.setPath(pc, pr)
	}

	if c, r, ok := p.layout.Cell(traj[n-1]); ok {
		p.screen.SetContent(c, r, finalRune, nil, finalStyle)
	}
}

func (p *Plotter) setPath(c, r int) {
	if c < 1 || r < 1 || c > p.layout.InnerCols || r > p.layout.InnerRows {
		return
	}
	p.screen.SetContent(c, r, pathRune, nil, pathStyle)
}

func (p *Plotter) drawCaption(traj physics.Trajectory, n int) {
	row := p.layout.FrameRows()
	t := p.layout.Table
	p.drawText(0, row, fmt.Sprintf("Ball trajectory  table %gm x %gm   x, m →   y, m ↑", t.Width, t.Height))
	if n > 0 {
		f := traj[n-1]
		p.drawText(0, row+1, fmt.Sprintf("sample %d/%d  position (%.3f, %.3f)", n, len(traj), f.X, f.Y))
	}
	p.drawText(0, row+2, "press any key to exit")
}

func (p *Plotter) drawText(col, row int, s string) {
	for _, ch := range s {
		p.screen.SetContent(col, row, ch, nil, captionStyle)
		col++
	}
}
