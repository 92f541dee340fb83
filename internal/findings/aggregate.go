package findings

import "sort"

// dedupKey identifies a finding for duplicate elimination. Category is
// part of the key: rules in different categories may legitimately flag
// the same line.
type dedupKey struct {
	file     string
	line     int
	category Category
	issue    string
}

// Dedupe removes duplicate findings, keeping the first occurrence of
// each (file, line, category, issue) tuple.
func Dedupe(raw []Raw) []Raw {
	seen := make(map[dedupKey]bool, len(raw))
	out := make([]Raw, 0, len(raw))
	for _, f := range raw {
		k := dedupKey{f.File, f.Line, f.Category, f.Issue}
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, f)
	}
	return out
}

// Sort orders findings by file path, then line, then category with
// Security before Performance before CodeQuality. The sort is stable,
// so equal-key findings keep their relative order. This ordering is
// the display contract for report consumers.
func Sort(ff []Raw) {
	sort.SliceStable(ff, func(i, j int) bool {
		a, b := ff[i], ff[j]
		if a.File != b.File {
			return a.File < b.File
		}
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		return a.Category.rank() < b.Category.rank()
	})
}

// ComputeStats tallies category and per-file counts over findings.
// filesAnalyzed is the number of files the engine looked at, including
// clean ones. Severity buckets stay zero here and are filled by
// CountSeverities once enhancement has assigned severities.
func ComputeStats(ff []Raw, filesAnalyzed int) Stats {
	s := Stats{
		ByFile:             make(map[string]int),
		TotalFilesAnalyzed: filesAnalyzed,
	}
	for _, f := range ff {
		s.ByCategory.add(f.Category)
		s.ByFile[f.File]++
	}
	return s
}

// Aggregate deduplicates and orders raw findings, then computes
// summary statistics over the deduplicated set.
func Aggregate(raw []Raw, filesAnalyzed int) ([]Raw, Stats) {
	deduped := Dedupe(raw)
	Sort(deduped)
	return deduped, ComputeStats(deduped, filesAnalyzed)
}
