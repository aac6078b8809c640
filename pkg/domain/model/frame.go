package model

// CaseFrame is the structured understanding of a user's situation,
// extracted from free text. Fields the extractor could not determine
// stay empty; nothing here is ever guessed downstream.
type CaseFrame struct {
	Facts     string
	Goal      string
	Parties   []string
	Values    []string
	Deadlines []string
	Tags      []string
}

// IsEmpty reports whether the frame carries no extracted information
func (f CaseFrame) IsEmpty() bool {
	return f.Facts == "" && f.Goal == "" &&
		len(f.Parties) == 0 && len(f.Values) == 0 &&
		len(f.Deadlines) == 0 && len(f.Tags) == 0
}

// MergeTags appends tags that are not already present, preserving order.
// Existing facts and goal are never overwritten.
func (f *CaseFrame) MergeTags(tags []string) {
	seen := make(map[string]bool, len(f.Tags))
	for _, t := range f.Tags {
		seen[t] = true
	}
	for _, t := range tags {
		if t == "" || seen[t] {
			continue
		}
		f.Tags = append(f.Tags, t)
		seen[t] = true
	}
}
