// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package election

// DecodeTally turns a tally vector (one count per selection) into per-contest
// results in contest order. Write-in slots are summed under ChoiceWriteIn;
// null-vote slots are dropped.
func DecodeTally(tally []int64, em *ElectionMap) ([]ContestTally, error) {
	if em == nil {
		return nil, ErrNoElection
	}
	if len(tally) != em.NumberOfSelections {
		return nil, &TallyLengthError{Got: len(tally), Want: em.NumberOfSelections}
	}

	tallies := make([]ContestTally, 0, len(em.ContestOrder))
	for _, id := range em.ContestOrder {
		cm := em.ContestMaps[id]
		results := make(map[string]int64, len(cm.SelectionMap)+1)
		for choice, index := range cm.SelectionMap {
			results[choice] = tally[index]
		}
		if cm.HasWriteIns() {
			var writeIns int64
			for i := cm.WriteInStartIndex; i < cm.NullVoteStartIndex; i++ {
				writeIns += tally[i]
			}
			results[ChoiceWriteIn] = writeIns
		}
		tallies = append(tallies, ContestTally{Contest: cm.Contest, Results: results})
	}

	return tallies, nil
}

// SumSelections adds selection vectors column by column, the plaintext
// equivalent of homomorphically adding their encryptions.
func SumSelections(vectors [][]bool, width int) ([]int64, error) {
	sum := make([]int64, width)
	for _, v := range vectors {
		if len(v) != width {
			return nil, &TallyLengthError{Got: len(v), Want: width}
		}
		for i, selected := range v {
			if selected {
				sum[i]++
			}
		}
	}
	return sum, nil
}
