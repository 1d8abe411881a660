// Package brackets turns group standings into knockout brackets and keeps their
// placeholder slots resolved as feeder matches complete.
package brackets

import (
	"fmt"
	"time"

	"github.com/Dosada05/tournament-progression/models"
)

const (
	DefaultQualifiersPerGroup = 2
	DefaultSlotDuration       = 60 * time.Minute
)

// Config tunes generation. The zero value is usable.
type Config struct {
	QualifiersPerGroup int           `envconfig:"BRACKET_QUALIFIERS_PER_GROUP" default:"0"`
	SlotDuration       time.Duration `envconfig:"BRACKET_SLOT_DURATION" default:"60m"`
	SkipThirdPlace     bool          `envconfig:"BRACKET_SKIP_THIRD_PLACE" default:"false"`
	Courts             []string      `envconfig:"BRACKET_COURTS"`
	GroupLegs          int           `envconfig:"BRACKET_GROUP_LEGS" default:"1"`

	// StartTime is used when the tournament has no scheduled match yet.
	StartTime *time.Time `ignored:"true"`
	// ScheduleOverride gives the time of each generated match in generation order.
	ScheduleOverride []time.Time `ignored:"true"`
}

func (c Config) slotDuration() time.Duration {
	if c.SlotDuration <= 0 {
		return DefaultSlotDuration
	}
	return c.SlotDuration
}

func (c Config) qualifiers(cat models.Category) int {
	switch {
	case c.QualifiersPerGroup > 0:
		return c.QualifiersPerGroup
	case cat.QualifiersPerGroup > 0:
		return cat.QualifiersPerGroup
	}
	return DefaultQualifiersPerGroup
}

type GenerateBracketParams struct {
	Category           models.Category
	Groups             []models.GroupStanding
	Seeds              []int
	QualifiersPerGroup int
	Legs               int
}

type BracketGenerator interface {
	GenerateBracket(params GenerateBracketParams) ([]*BracketMatch, error)

	GetName() string
}

// KnockoutGenerator builds a single-elimination bracket. The crossing rule is the only
// thing that differs between standard, crossed and mixed categories.
type KnockoutGenerator struct {
	Rule       CrossingRule
	ThirdPlace bool
}

func NewKnockoutGenerator(rule CrossingRule, thirdPlace bool) BracketGenerator {
	return &KnockoutGenerator{Rule: rule, ThirdPlace: thirdPlace}
}

func (g *KnockoutGenerator) GetName() string {
	return "Knockout/" + g.Rule.String()
}

func (g *KnockoutGenerator) GenerateBracket(params GenerateBracketParams) ([]*BracketMatch, error) {
	cat := params.Category

	var leaves []*node
	if cat.Format == models.FormatKnockoutOnly {
		if len(params.Seeds) < 2 {
			return nil, &InsufficientQualifiersError{CategoryID: cat.ID, Required: 2, Available: len(params.Seeds)}
		}
		if err := ValidateSeeds(cat.ID, params.Seeds, nil); err != nil {
			return nil, err
		}
		seeds := make([]*node, len(params.Seeds))
		for i, id := range params.Seeds {
			seeds[i] = &node{slot: models.ResolvedSlot(id)}
		}
		leaves = seededLeaves(seeds)
		return buildTree(leaves, false, g.ThirdPlace)
	}

	entries, err := qualifiers(cat.ID, params.Groups, params.QualifiersPerGroup)
	if err != nil {
		return nil, err
	}

	switch g.Rule {
	case CrossHalves:
		leaves, err = crossedLeaves(cat.ID, entries)
	case CrossMixedPairs:
		leaves, err = mixedLeaves(cat.ID, entries)
	default:
		if len(entries) < 2 {
			return nil, &InsufficientQualifiersError{CategoryID: cat.ID, Required: 2, Available: len(entries)}
		}
		seeds := make([]*node, len(entries))
		for i, e := range entries {
			seeds[i] = e.node()
		}
		leaves = seededLeaves(seeds)
		separateGroups(leaves)
	}
	if err != nil {
		return nil, err
	}
	return buildTree(leaves, g.Rule != CrossNone, g.ThirdPlace)
}

// KnockoutParams is the snapshot the knockout stage is generated from.
type KnockoutParams struct {
	Category models.Category
	// Groups are the ranked tables of the category's groups.
	Groups []models.GroupStanding
	// Seeds lists participant ids best first, for knockout_only categories.
	Seeds []int
	// Participants are the category's registered ids; when set, every seed must be one.
	Participants []int
	// Linked are the categories sharing this category's knockout stage: the other half of
	// a crossed pair, whichever side names the pairing.
	Linked []int
	// Existing holds every match of the tournament, in any category.
	Existing []models.Match
}

// GenerateKnockoutStage returns the knockout matches for a category, numbered after the
// tournament's last match and scheduled after its last scheduled time. Slots that depend on
// an unfinished group or an unplayed match are left as placeholders.
//
// If the category or a linked category already has a knockout match nothing is generated
// and *DuplicateGenerationError is returned.
func GenerateKnockoutStage(p KnockoutParams, cfg Config) ([]models.Match, error) {
	cat := p.Category
	if err := checkKnockoutFormat(cat); err != nil {
		return nil, err
	}
	n := countRounds(p.Existing, cat.ID, models.RoundTag.IsKnockout)
	for _, id := range p.Linked {
		if id != cat.ID {
			n += countRounds(p.Existing, id, models.RoundTag.IsKnockout)
		}
	}
	if n > 0 {
		return nil, &DuplicateGenerationError{CategoryID: cat.ID, ExistingMatches: n}
	}
	if cat.Format == models.FormatKnockoutOnly {
		if err := ValidateSeeds(cat.ID, p.Seeds, p.Participants); err != nil {
			return nil, err
		}
	}

	rule := CrossingFor(cat.Format)
	gen := NewKnockoutGenerator(rule, !cfg.SkipThirdPlace)
	bracket, err := gen.GenerateBracket(GenerateBracketParams{
		Category:           cat,
		Groups:             p.Groups,
		Seeds:              p.Seeds,
		QualifiersPerGroup: cfg.qualifiers(cat),
	})
	if err != nil {
		return nil, err
	}

	if rule != CrossNone {
		halfOf := make(map[int]models.Half)
		for _, g := range p.Groups {
			for _, id := range g.Group.ParticipantIDs {
				halfOf[id] = g.Group.Half
			}
		}
		if err := validateCrossed(rule, halfOf, bracket); err != nil {
			return nil, fmt.Errorf("category %d: %w", cat.ID, err)
		}
	}

	return finalize(cat, bracket, p.Existing, cfg)
}

// ValidateSeeds rejects repeated ids and, when participants is non-empty, ids that are not
// registered in the category.
func ValidateSeeds(categoryID int, seeds, participants []int) error {
	registered := make(map[int]bool, len(participants))
	for _, id := range participants {
		registered[id] = true
	}
	seen := make(map[int]bool, len(seeds))
	for _, id := range seeds {
		switch {
		case seen[id]:
			return fmt.Errorf("category %d: %w: participant %d seeded twice", categoryID, ErrInvalidSeeds, id)
		case len(participants) > 0 && !registered[id]:
			return fmt.Errorf("category %d: %w: participant %d is not registered", categoryID, ErrInvalidSeeds, id)
		}
		seen[id] = true
	}
	return nil
}

func checkKnockoutFormat(cat models.Category) error {
	switch {
	case !cat.Format.Valid():
		return &UnsupportedFormatError{CategoryID: cat.ID, Format: cat.Format}
	case cat.Format == models.FormatGroupOnly:
		return &UnsupportedFormatError{CategoryID: cat.ID, Format: cat.Format, Reason: "has no knockout stage"}
	case !cat.KnockoutStage:
		return &UnsupportedFormatError{CategoryID: cat.ID, Format: cat.Format, Reason: "has knockout_stage disabled"}
	}
	return nil
}

func countRounds(matches []models.Match, categoryID int, pred func(models.RoundTag) bool) int {
	n := 0
	for i := range matches {
		if matches[i].InCategory(categoryID) && pred(matches[i].Round) {
			n++
		}
	}
	return n
}

// finalize turns bracket matches into match records: numbers continue the tournament's
// sequence, feeder references become match numbers, and times walk forward from the
// latest scheduled match.
func finalize(cat models.Category, bracket []*BracketMatch, existing []models.Match, cfg Config) ([]models.Match, error) {
	if len(cfg.ScheduleOverride) > 0 && len(cfg.ScheduleOverride) < len(bracket) {
		return nil, fmt.Errorf("%w: %d times for %d matches", ErrScheduleOverride, len(cfg.ScheduleOverride), len(bracket))
	}

	base := 0
	var last *time.Time
	for i := range existing {
		m := &existing[i]
		if m.TournamentID != cat.TournamentID {
			continue
		}
		base = max(base, m.MatchNumber)
		if m.ScheduledTime != nil && (last == nil || m.ScheduledTime.After(*last)) {
			last = m.ScheduledTime
		}
	}

	numbers := make(map[string]int, len(bracket))
	for i, bm := range bracket {
		numbers[bm.UID] = base + i + 1
	}

	step := cfg.slotDuration()
	categoryID := cat.ID
	out := make([]models.Match, 0, len(bracket))
	for i, bm := range bracket {
		m := models.Match{
			TournamentID: cat.TournamentID,
			CategoryID:   &categoryID,
			GroupID:      bm.GroupID,
			Round:        bm.Round,
			MatchNumber:  numbers[bm.UID],
			BracketUID:   bm.UID,
			Slot1:        linkFeeder(bm.Slot1, bm.SourceMatch1UID, numbers),
			Slot2:        linkFeeder(bm.Slot2, bm.SourceMatch2UID, numbers),
			Status:       models.StatusPendingQualification,
		}
		if m.Resolved() {
			m.Status = models.StatusScheduled
		}

		switch {
		case len(cfg.ScheduleOverride) > 0:
			t := cfg.ScheduleOverride[i]
			m.ScheduledTime = &t
		case last != nil:
			t := last.Add(time.Duration(i+1) * step)
			m.ScheduledTime = &t
		case cfg.StartTime != nil:
			t := cfg.StartTime.Add(time.Duration(i) * step)
			m.ScheduledTime = &t
		}
		if len(cfg.Courts) > 0 {
			court := cfg.Courts[i%len(cfg.Courts)]
			m.Court = &court
		}

		if err := m.Validate(); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}

func linkFeeder(s models.Slot, sourceUID *string, numbers map[string]int) models.Slot {
	if s.Kind != models.SlotPendingFeeder || sourceUID == nil {
		return s
	}
	s.FeederMatchNumber = numbers[*sourceUID]
	return s
}
