// ABOUTME: Demo model that writes progress, markdown, and a summary table while the page polls.
// ABOUTME: Honors context cancellation between steps so shutdown does not wait for the full run.
package main

import (
	"context"
	"fmt"
	"time"

	"github.com/2389-research/lofigui/format"
	"github.com/2389-research/lofigui/web"
)

// demoModel counts through steps, one per tick, then summarizes them with a
// table whose last row spans both columns.
func demoModel(steps int, tick time.Duration, home string) web.Model {
	return func(ctx context.Context, out *format.Printer) error {
		if err := out.Print("Hello world."); err != nil {
			return err
		}

		rows := make([][]string, 0, steps+1)
		start := time.Now()
		for i := 0; i < steps; i++ {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(tick):
			}
			if err := out.Printf("Count %d", i); err != nil {
				return err
			}
			rows = append(rows, []string{fmt.Sprint(i), time.Since(start).Round(time.Millisecond).String()})
		}
		rows = append(rows, []string{"done"})

		if err := out.Markdown("## Summary\n\nEvery step above was written while the page polled."); err != nil {
			return err
		}
		if err := out.Table(rows, format.WithHeader("Step", "Elapsed")); err != nil {
			return err
		}
		return out.HTML(fmt.Sprintf(`<a class="button is-link" href="%s">Restart</a>`, home))
	}
}
