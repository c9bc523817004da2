package ui

import (
	"fmt"
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"empgrid/internal/grid"
	"empgrid/internal/model"
)

func overlay(base, overlay string) string {
	bLines := strings.Split(base, "\n")
	oLines := strings.Split(overlay, "\n")
	maxLen := len(bLines)
	if len(oLines) > maxLen {
		maxLen = len(oLines)
	}
	for len(bLines) < maxLen {
		bLines = append(bLines, "")
	}
	for len(oLines) < maxLen {
		oLines = append(oLines, "")
	}
	out := make([]string, maxLen)
	for i := 0; i < maxLen; i++ {
		// whitespace-only overlay lines are transparent
		if strings.TrimSpace(oLines[i]) != "" {
			out[i] = oLines[i]
		} else {
			out[i] = bLines[i]
		}
	}
	return strings.Join(out, "\n")
}

var ansiRE = regexp.MustCompile(`\x1b\[[0-9;?]*[ -/]*[@-~]`)

func stripANSI(s string) string {
	return ansiRE.ReplaceAllString(s, "")
}

// fieldValue renders one editable field of rec as input text.
func fieldValue(rec model.Employee, f grid.Field) string {
	switch f {
	case grid.FieldName:
		return rec.Name
	case grid.FieldJobTitle:
		return rec.JobTitle
	case grid.FieldAge:
		return strconv.Itoa(rec.Age)
	case grid.FieldNickname:
		return rec.Nickname
	case grid.FieldIsEmployee:
		return strconv.FormatBool(rec.IsEmployee)
	default:
		return ""
	}
}

// buildStats summarizes one column over rows. Age is numeric; the name
// column is summarized by job title since names repeat little.
func buildStats(col grid.Column, rows []model.Employee) string {
	switch col {
	case grid.ColAge:
		nums := make([]float64, 0, len(rows))
		uniq := map[int]int{}
		for _, r := range rows {
			nums = append(nums, float64(r.Age))
			uniq[r.Age]++
		}
		if len(uniq) <= 12 {
			counts := map[string]int{}
			for age, c := range uniq {
				counts[strconv.Itoa(age)] = c
			}
			return categoricalStats("age", counts)
		}
		return numericStats("age", nums)
	case grid.ColName:
		counts := map[string]int{}
		for _, r := range rows {
			counts[r.JobTitle]++
		}
		return categoricalStats("job title", counts)
	case grid.ColNickname:
		counts := map[string]int{}
		for _, r := range rows {
			k := r.Nickname
			if k == "" {
				k = "(none)"
			}
			counts[k]++
		}
		return categoricalStats("nickname", counts)
	case grid.ColIsEmployee:
		counts := map[string]int{}
		for _, r := range rows {
			counts[strconv.FormatBool(r.IsEmployee)]++
		}
		return categoricalStats("employee", counts)
	default:
		return "No data"
	}
}

func numericStats(field string, vals []float64) string {
	if len(vals) == 0 {
		return "No data"
	}
	min, max, sum := vals[0], vals[0], 0.0
	for _, v := range vals {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
		sum += v
	}
	mean := sum / float64(len(vals))
	const bins = 8
	hist := make([]int, bins)
	step := (max - min) / bins
	for _, v := range vals {
		idx := 0
		if step > 0 {
			idx = int(math.Floor((v - min) / step))
		}
		if idx >= bins {
			idx = bins - 1
		}
		hist[idx]++
	}
	maxc := 1
	for _, c := range hist {
		if c > maxc {
			maxc = c
		}
	}
	var b strings.Builder
	b.WriteString(fmt.Sprintf("Stats for %s (numeric):\n", field))
	b.WriteString(fmt.Sprintf("min=%.0f mean=%.2f max=%.0f n=%d\n", min, mean, max, len(vals)))
	for i := 0; i < bins; i++ {
		low := min + float64(i)*step
		high := low + step
		width := int(math.Round(20 * float64(hist[i]) / float64(maxc)))
		label := fmt.Sprintf("[%.0f - %.0f]", low, high)
		b.WriteString(fmt.Sprintf("%-12s %s (%d)\n", label, colorBar(width, float64(hist[i]), float64(maxc)), hist[i]))
	}
	return b.String()
}

func categoricalStats(field string, counts map[string]int) string {
	if len(counts) == 0 {
		return "No data"
	}
	type kv struct {
		k string
		v int
	}
	arr := make([]kv, 0, len(counts))
	for k, v := range counts {
		arr = append(arr, kv{k, v})
	}
	sort.Slice(arr, func(i, j int) bool {
		if arr[i].v != arr[j].v {
			return arr[i].v > arr[j].v
		}
		return arr[i].k < arr[j].k
	})
	maxc := arr[0].v
	var b strings.Builder
	b.WriteString(fmt.Sprintf("Stats for %s (categorical):\n", field))
	for _, it := range arr {
		width := int(math.Round(20 * float64(it.v) / float64(maxc)))
		b.WriteString(fmt.Sprintf("%-22s | %s (%d)\n", fit(it.k, 22), colorBar(width, float64(it.v), float64(maxc)), it.v))
	}
	return b.String()
}

// colorBar returns a bar shading from yellow to red as val approaches max.
func colorBar(width int, val, max float64) string {
	if width <= 0 {
		return ""
	}
	r := 0.0
	if max > 0 {
		r = val / max
	}
	color := 226 - int(r*30)
	if color < 196 {
		color = 196
	}
	return fmt.Sprintf("\x1b[38;5;%dm%s\x1b[0m", color, strings.Repeat("▇", width))
}
