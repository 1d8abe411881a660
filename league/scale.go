package league

import (
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"
)

// Scale maps a final placement to league points. Positions missing from Table earn Other.
type Scale struct {
	Table map[int]int
	Other int
}

// DefaultScale awards 3 points to the champion, 2 to the runner-up and 1 for 3rd place.
func DefaultScale() Scale {
	return Scale{Table: map[int]int{1: 3, 2: 2, 3: 1}}
}

func (s Scale) Points(position int) int {
	if p, ok := s.Table[position]; ok {
		return p
	}
	if position < 1 {
		return 0
	}
	return s.Other
}

// Decode parses "1:3,2:2,3:1,*:0" so a Scale can be read straight from the environment.
func (s *Scale) Decode(value string) error {
	parsed, err := ParseScale(value)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

func ParseScale(value string) (Scale, error) {
	s := Scale{Table: make(map[int]int)}
	for _, part := range strings.Split(value, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		pos, pts, ok := strings.Cut(part, ":")
		if !ok {
			return Scale{}, fmt.Errorf("league scale entry %q: want position:points", part)
		}
		points, err := strconv.Atoi(strings.TrimSpace(pts))
		if err != nil {
			return Scale{}, fmt.Errorf("league scale entry %q: %w", part, err)
		}
		pos = strings.TrimSpace(pos)
		if pos == "*" {
			s.Other = points
			continue
		}
		position, err := strconv.Atoi(pos)
		if err != nil || position < 1 {
			return Scale{}, fmt.Errorf("league scale entry %q: invalid position", part)
		}
		s.Table[position] = points
	}
	if len(s.Table) == 0 {
		return Scale{}, fmt.Errorf("league scale %q has no positions", value)
	}
	return s, nil
}

func (s Scale) String() string {
	positions := slices.Sorted(maps.Keys(s.Table))
	parts := make([]string, 0, len(positions)+1)
	for _, p := range positions {
		parts = append(parts, fmt.Sprintf("%d:%d", p, s.Table[p]))
	}
	if s.Other != 0 {
		parts = append(parts, fmt.Sprintf("*:%d", s.Other))
	}
	return strings.Join(parts, ",")
}
