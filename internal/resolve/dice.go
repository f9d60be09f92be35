package resolve

// DiceCoefficient computes the Sørensen-Dice similarity of two strings over
// character bigrams, in [0, 1]. Inputs are expected to be normalized already.
func DiceCoefficient(a, b string) float64 {
	if a == b {
		if a == "" {
			return 0
		}
		return 1
	}
	if len(a) < 2 || len(b) < 2 {
		return 0
	}

	bigramsA := make(map[string]int, len(a)-1)
	for i := 0; i < len(a)-1; i++ {
		bigramsA[a[i:i+2]]++
	}

	overlap := 0
	for i := 0; i < len(b)-1; i++ {
		gram := b[i : i+2]
		if bigramsA[gram] > 0 {
			bigramsA[gram]--
			overlap++
		}
	}

	return 2 * float64(overlap) / float64(len(a)-1+len(b)-1)
}
