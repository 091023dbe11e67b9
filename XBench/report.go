// Copyright (c) 2025 EFramework Organization. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package XBench

import (
	"fmt"
	"io"
	"time"

	"github.com/eframework-org/GO.UTIL/XString"
	"github.com/olekukonko/tablewriter"
)

var reportHeader = []string{"Case", "N", "Mean", "Min", "Max", "P50", "P95", "Allocs/op", "Bytes/op", "Error"}

// Report 以表格形式输出测量结果。
func Report(w io.Writer, results []*Result) {
	table := tablewriter.NewWriter(w)
	table.SetHeader(reportHeader)
	table.SetAutoFormatHeaders(false)
	table.SetAlignment(tablewriter.ALIGN_RIGHT)

	for _, r := range results {
		errText := ""
		if r.Err != nil {
			errText = r.Err.Error()
		}
		if r.Iterations == 0 {
			table.Append([]string{r.Name, "0", "-", "-", "-", "-", "-", "-", "-", errText})
			continue
		}
		table.Append([]string{
			r.Name,
			XString.ToString(r.Iterations),
			formatDuration(r.Mean),
			formatDuration(r.Min),
			formatDuration(r.Max),
			formatDuration(r.P50),
			formatDuration(r.P95),
			fmt.Sprintf("%d", r.AllocsPerOp),
			fmt.Sprintf("%d", r.BytesPerOp),
			errText,
		})
	}
	table.Render()
}

// formatDuration 以微秒输出耗时，保留两位小数。
func formatDuration(d time.Duration) string {
	return fmt.Sprintf("%.2fus", float64(d)/float64(time.Microsecond))
}
