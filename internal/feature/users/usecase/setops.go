package usecase

// UnionCount is the number of distinct wallets appearing on either side.
func UnionCount(buyers, sellers []string) int64 {
	seen := make(map[string]struct{}, len(buyers)+len(sellers))
	for _, w := range buyers {
		seen[w] = struct{}{}
	}
	for _, w := range sellers {
		seen[w] = struct{}{}
	}
	return int64(len(seen))
}

// IntersectCount is the number of distinct wallets appearing on both sides.
func IntersectCount(buyers, sellers []string) int64 {
	set := make(map[string]struct{}, len(buyers))
	for _, w := range buyers {
		set[w] = struct{}{}
	}
	counted := make(map[string]struct{})
	for _, w := range sellers {
		if _, ok := set[w]; ok {
			counted[w] = struct{}{}
		}
	}
	return int64(len(counted))
}
