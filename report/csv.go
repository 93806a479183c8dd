// Package report writes batch results as CSV and renders solved games for a terminal.
package report

import (
	"encoding/csv"
	"io"
	"strconv"
	"time"
)

var header = []string{
	"n_done",
	"n_failed",
	"n_unknown",
	"n_nodes",
	"duration",
	"n_players",
	"difficulty",
	"feasible",
}

// Row is the outcome of one search in a batch
type Row struct {
	Done       int
	Failed     int
	Unknown    int
	Nodes      int
	Duration   time.Duration
	Players    int
	Difficulty int
	Feasible   bool
}

func (r Row) record() []string {
	return []string{
		strconv.Itoa(r.Done),
		strconv.Itoa(r.Failed),
		strconv.Itoa(r.Unknown),
		strconv.Itoa(r.Nodes),
		strconv.FormatFloat(r.Duration.Seconds(), 'f', 6, 64),
		strconv.Itoa(r.Players),
		strconv.Itoa(r.Difficulty),
		strconv.FormatBool(r.Feasible),
	}
}

// Writer streams rows, writing the header before the first one.
type Writer struct {
	w       *csv.Writer
	started bool
}

func NewWriter(w io.Writer) *Writer {
	return &Writer{w: csv.NewWriter(w)}
}

// Write appends a row and flushes it so a long batch can be followed as it runs.
func (w *Writer) Write(r Row) error {
	if !w.started {
		if err := w.w.Write(header); err != nil {
			return err
		}
		w.started = true
	}
	if err := w.w.Write(r.record()); err != nil {
		return err
	}
	w.w.Flush()
	return w.w.Error()
}

// WriteCSV writes the header and every row. The header is written even without rows.
func WriteCSV(out io.Writer, rows []Row) error {
	w := csv.NewWriter(out)
	if err := w.Write(header); err != nil {
		return err
	}
	for _, r := range rows {
		if err := w.Write(r.record()); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
