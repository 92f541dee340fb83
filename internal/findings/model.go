package findings

// Category classifies a finding into one of the three review families.
// The string values are the wire labels used in report JSON.
type Category string

// Category values, in display order.
const (
	Security    Category = "Security"
	Performance Category = "Performance"
	CodeQuality Category = "Code Quality"
)

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	switch c {
	case Security, Performance, CodeQuality:
		return true
	}
	return false
}

// rank returns the fixed ordering used when findings share a file and
// line: Security first, CodeQuality last.
func (c Category) rank() int {
	switch c {
	case Security:
		return 0
	case Performance:
		return 1
	case CodeQuality:
		return 2
	}
	return 3
}

// Raw is a single rule match at a specific file and line. Created once
// per match and never mutated afterwards.
type Raw struct {
	File        string   `json:"file"`
	Line        int      `json:"line"` // 1-based
	Issue       string   `json:"issue"`
	Category    Category `json:"category"`
	CodeSnippet string   `json:"code_snippet"`
	Context     string   `json:"context"` // surrounding lines, hit line marked
}

// Enhanced is a Raw finding enriched with reviewer-facing prose and a
// severity. Exactly one Enhanced exists per Raw entering the
// enhancement stage; enhancement failure produces fallback values,
// never a dropped finding.
type Enhanced struct {
	Raw
	Explanation  string `json:"explanation"`
	SuggestedFix string `json:"suggested_fix"`
	Severity     int    `json:"severity"` // 1 (info) .. 5 (critical)
}

// Severity bounds and the conservative default assigned when the
// enhancement service returns nothing usable.
const (
	SeverityMin     = 1
	SeverityMax     = 5
	SeverityDefault = 3
)

// ClampSeverity forces v into the valid severity range.
func ClampSeverity(v int) int {
	if v < SeverityMin {
		return SeverityMin
	}
	if v > SeverityMax {
		return SeverityMax
	}
	return v
}

// SeverityLabel returns the report label for a severity value.
func SeverityLabel(severity int) string {
	switch severity {
	case 5:
		return "critical"
	case 4:
		return "high"
	case 3:
		return "medium"
	case 2:
		return "low"
	}
	return "info"
}

// CategoryCounts buckets findings per category. Field names match the
// report JSON contract.
type CategoryCounts struct {
	Security    int `json:"security"`
	Performance int `json:"performance"`
	CodeQuality int `json:"code_quality"`
}

func (c *CategoryCounts) add(cat Category) {
	switch cat {
	case Security:
		c.Security++
	case Performance:
		c.Performance++
	case CodeQuality:
		c.CodeQuality++
	}
}

// SeverityCounts buckets findings per severity label.
type SeverityCounts struct {
	Critical int `json:"critical"`
	High     int `json:"high"`
	Medium   int `json:"medium"`
	Low      int `json:"low"`
	Info     int `json:"info"`
}

func (c *SeverityCounts) add(severity int) {
	switch severity {
	case 5:
		c.Critical++
	case 4:
		c.High++
	case 3:
		c.Medium++
	case 2:
		c.Low++
	default:
		c.Info++
	}
}

// Stats aggregates the deduplicated finding set. Recomputed on every
// run, never persisted.
type Stats struct {
	ByCategory         CategoryCounts `json:"by_category"`
	BySeverity         SeverityCounts `json:"by_severity"`
	ByFile             map[string]int `json:"by_file"`
	TotalFilesAnalyzed int            `json:"total_files_analyzed"`
}

// TotalIssues is the category-count sum. By construction it equals the
// number of deduplicated findings the stats were computed over.
func (s Stats) TotalIssues() int {
	return s.ByCategory.Security + s.ByCategory.Performance + s.ByCategory.CodeQuality
}

// CountSeverities fills the severity buckets from the enhanced set.
// Severity is only known after enhancement, so this runs as the last
// stats step before report assembly.
func (s *Stats) CountSeverities(enhanced []Enhanced) {
	s.BySeverity = SeverityCounts{}
	for _, f := range enhanced {
		s.BySeverity.add(f.Severity)
	}
}
