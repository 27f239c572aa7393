package pipeline

// MismatchReason classifies one sequence-validation finding.
type MismatchReason string

const (
	LengthMismatch   MismatchReason = "Length Mismatch"
	SequenceMismatch MismatchReason = "Sequence Mismatch"
	Duplicate        MismatchReason = "Duplicate"
)

// Mismatch is a diagnostic attached to a run. It never blocks or alters the
// produced sheets.
type Mismatch struct {
	Group  string         `json:"group"`
	Value  string         `json:"value"`
	Reason MismatchReason `json:"reason"`
}

// shape maps each character to its class: ASCII digits become 'N', anything
// else 'L'. Two values with equal shape follow the same letter/digit layout.
func shape(s string) string {
	mask := make([]byte, len(s))
	for i := 0; i < len(s); i++ {
		if s[i] >= '0' && s[i] <= '9' {
			mask[i] = 'N'
		} else {
			mask[i] = 'L'
		}
	}
	return string(mask)
}

// validateGroup compares every group member against the first value as
// reference. Groups with fewer than two values produce no mismatches. The
// length check wins over the shape check for any one value; duplicates are
// tracked independently of both.
func validateGroup(group string, values []string) []Mismatch {
	if len(values) < 2 {
		return nil
	}

	refLen := len(values[0])
	refShape := shape(values[0])

	var mismatches []Mismatch
	seen := map[string]bool{values[0]: true}

	for _, v := range values[1:] {
		if len(v) != refLen {
			mismatches = append(mismatches, Mismatch{Group: group, Value: v, Reason: LengthMismatch})
		} else if shape(v) != refShape {
			mismatches = append(mismatches, Mismatch{Group: group, Value: v, Reason: SequenceMismatch})
		}

		if seen[v] {
			mismatches = append(mismatches, Mismatch{Group: group, Value: v, Reason: Duplicate})
		}
		seen[v] = true
	}
	return mismatches
}

// dedupe removes repeated values keeping first occurrences, the
// drop-silently duplicate policy.
func dedupe(values []string) []string {
	seen := make(map[string]bool, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}
