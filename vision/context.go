package vision

import (
	"fmt"
	"strings"
)

// Context block framing. The markers let the generation backend tell
// pre-analyzed factual data apart from free-form instructions.
const (
	contextHeader = "--- PRE-ANALYZED IMAGE DATA (from object detection + OCR) ---"
	contextFooter = "--- END PRE-ANALYZED DATA ---"
)

// Region bucket thresholds for box centers. Comparisons are strict: a
// center exactly at 0.33 or 0.66 lands in the middle bucket.
const (
	regionLow  = 0.33
	regionHigh = 0.66
)

// RegionLabel buckets a box center into a 3x3 grid and returns the
// "vertical-horizontal" label (e.g. "top-left", "middle-center").
func RegionLabel(centerX, centerY float64) string {
	h := "center"
	if centerX < regionLow {
		h = "left"
	} else if centerX > regionHigh {
		h = "right"
	}

	v := "middle"
	if centerY < regionLow {
		v = "top"
	} else if centerY > regionHigh {
		v = "bottom"
	}

	return v + "-" + h
}

// FormatContext renders a preprocessing result as the structured text block
// injected ahead of the user prompt. Output is deterministic for a given
// input: labels are summarized in first-appearance order and objects are
// listed in detection order. Returns the empty string when both sub-results
// are empty.
func FormatContext(result PreprocessResult) string {
	var sections []string

	if len(result.Objects) > 0 {
		sections = append(sections, formatObjects(result.Objects))
	}
	if result.OCR != nil {
		sections = append(sections, fmt.Sprintf("[DETECTED TEXT (%d%% confidence)]: %q",
			result.OCR.Confidence, result.OCR.Text))
	}
	if len(sections) == 0 {
		return ""
	}

	return contextHeader + "\n" + strings.Join(sections, "\n\n") + "\n" + contextFooter + "\n\n"
}

func formatObjects(objects []DetectedObject) string {
	// Count per label, preserving first-appearance order.
	counts := make(map[string]int, len(objects))
	var order []string
	for _, obj := range objects {
		if counts[obj.Label] == 0 {
			order = append(order, obj.Label)
		}
		counts[obj.Label]++
	}

	summary := make([]string, len(order))
	for i, label := range order {
		summary[i] = fmt.Sprintf("%dx %s", counts[label], label)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "[DETECTED OBJECTS: %s]", strings.Join(summary, ", "))
	for i, obj := range objects {
		cx, cy := obj.Box.Center()
		fmt.Fprintf(&b, "\n  %d. %s (%.1f%%) - %s region",
			i+1, obj.Label, obj.Score*100, RegionLabel(cx, cy))
	}
	return b.String()
}
