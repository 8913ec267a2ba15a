package main

import (
	"fmt"
	"io"

	"lumen/internal/observ"
)

func printTimings(out io.Writer, timer *observ.Timer) {
	if out == nil || timer == nil {
		return
	}
	report := timer.Report()
	for _, phase := range report.Phases {
		if _, err := fmt.Fprintf(out, "%s %.1f ms\n", phase.Name, phase.DurationMS); err != nil {
			panic(err)
		}
	}
	if _, err := fmt.Fprintf(out, "total %.1f ms\n", report.TotalMS); err != nil {
		panic(err)
	}
}
