package phh

import (
	"fmt"
	"io"
	"slices"
	"strconv"

	"github.com/BurntSushi/toml"
)

// Decode reads a .phhs collection. Hands are returned in section order;
// sections with non-numeric names sort after the numbered ones.
func Decode(r io.Reader) ([]HandHistory, error) {
	sections := make(map[string]HandHistory)
	if _, err := toml.NewDecoder(r).Decode(&sections); err != nil {
		return nil, fmt.Errorf("decode phh: %w", err)
	}

	keys := make([]string, 0, len(sections))
	for k := range sections {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, compareSections)

	hands := make([]HandHistory, 0, len(keys))
	for _, k := range keys {
		hand := sections[k]
		if hand.HandID == "" {
			hand.HandID = k
		}
		hands = append(hands, hand)
	}
	return hands, nil
}

func compareSections(a, b string) int {
	ai, errA := strconv.Atoi(a)
	bi, errB := strconv.Atoi(b)
	switch {
	case errA == nil && errB == nil:
		return ai - bi
	case errA == nil:
		return -1
	case errB == nil:
		return 1
	}
	if a < b {
		return -1
	}
	if a > b {
		return 1
	}
	return 0
}
