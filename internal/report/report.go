// Package report writes evaluation results as plain text for downstream
// plotting tools.
package report

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/specialistvlad/tilegrid/internal/grid"
	"github.com/specialistvlad/tilegrid/internal/tiled"
)

// WriteCounts writes one grid row per line, values separated by spaces.
// The first line is the row at ymin.
func WriteCounts(w io.Writer, out *grid.Output[int]) error {
	return writeMatrix(w, out, func(v int) string { return strconv.Itoa(v) })
}

// WriteMask writes a bounded mask as 1 (bounded) and 0 (escaped).
func WriteMask(w io.Writer, out *grid.Output[bool]) error {
	return writeMatrix(w, out, func(v bool) string {
		if v {
			return "1"
		}
		return "0"
	})
}

func writeMatrix[T any](w io.Writer, out *grid.Output[T], format func(T) string) error {
	bw := bufio.NewWriter(w)
	for r := 0; r < out.Height; r++ {
		for c, v := range out.Row(r) {
			if c > 0 {
				bw.WriteByte(' ')
			}
			bw.WriteString(format(v))
		}
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

// WriteTimeline lists every tile with the worker that computed it and its
// start and end offsets from the beginning of the run, grouped by worker.
func WriteTimeline(w io.Writer, ev *tiled.Evaluation) error {
	outcomes := append(ev.Outcomes[:0:0], ev.Outcomes...)
	sort.Slice(outcomes, func(i, j int) bool {
		if outcomes[i].Worker != outcomes[j].Worker {
			return outcomes[i].Worker < outcomes[j].Worker
		}
		return outcomes[i].Start.Before(outcomes[j].Start)
	})

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "worker\ttile_row\ttile_col\tstart_ms\tend_ms")
	for _, o := range outcomes {
		fmt.Fprintf(tw, "%d\t%d\t%d\t%s\t%s\n", o.Worker, o.Tile.Row, o.Tile.Col, millis(o.Start.Sub(ev.Start)), millis(o.End.Sub(ev.Start)))
	}
	fmt.Fprintf(tw, "total\t\t\t0.000\t%s\n", millis(ev.Elapsed()))
	return tw.Flush()
}

// SweepPoint is one division count of a speedup sweep.
type SweepPoint struct {
	Divisions  int
	Sequential time.Duration
	Parallel   time.Duration
}

// WriteSweep writes the sweep table. speedup is relative to the first
// point's parallel time; gain compares each point's sequential and parallel
// runs.
func WriteSweep(w io.Writer, points []SweepPoint) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "divisions\ttiles\tsequential_ms\tparallel_ms\tspeedup\tgain")
	for _, p := range points {
		fmt.Fprintf(tw, "%d\t%d\t%s\t%s\t%s\t%s\n",
			p.Divisions, p.Divisions*p.Divisions,
			millis(p.Sequential), millis(p.Parallel),
			ratio(points[0].Parallel, p.Parallel), ratio(p.Sequential, p.Parallel))
	}
	return tw.Flush()
}

func millis(d time.Duration) string {
	return strconv.FormatFloat(float64(d)/float64(time.Millisecond), 'f', 3, 64)
}

func ratio(num, den time.Duration) string {
	if den <= 0 {
		return "-"
	}
	return strconv.FormatFloat(float64(num)/float64(den), 'f', 2, 64)
}
