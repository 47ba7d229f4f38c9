package tokenregistry

// TokenSystemDiff lists the changes between two token universes.
type TokenSystemDiff struct {
	Additions []Token  `json:"additions,omitempty"`
	Updates   []Token  `json:"updates,omitempty"`
	Deletions []string `json:"deletions,omitempty"`
}

// IsEmpty returns true if the diff contains no changes.
func (d TokenSystemDiff) IsEmpty() bool {
	return len(d.Additions) == 0 && len(d.Updates) == 0 && len(d.Deletions) == 0
}

// Differ calculates the difference between two token universes keyed by
// normalized ID. A token whose symbol or name changed is an update. Results
// follow the order of the input slices.
func Differ(old, new []Token) TokenSystemDiff {
	oldTokensMap := make(map[string]Token, len(old))
	for _, token := range old {
		oldTokensMap[NormalizeID(token.ID)] = token
	}

	newTokensMap := make(map[string]Token, len(new))
	var diff TokenSystemDiff
	for _, newToken := range new {
		id := NormalizeID(newToken.ID)
		if _, dup := newTokensMap[id]; dup {
			continue
		}
		newTokensMap[id] = newToken

		oldToken, exists := oldTokensMap[id]
		switch {
		case !exists:
			diff.Additions = append(diff.Additions, newToken)
		case oldToken.Symbol != newToken.Symbol || oldToken.Name != newToken.Name:
			diff.Updates = append(diff.Updates, newToken)
		}
	}

	seen := make(map[string]struct{}, len(old))
	for _, oldToken := range old {
		id := NormalizeID(oldToken.ID)
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		if _, exists := newTokensMap[id]; !exists {
			diff.Deletions = append(diff.Deletions, id)
		}
	}

	return diff
}
