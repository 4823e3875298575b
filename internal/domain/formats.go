package domain

// MatchFormat describes how many teams a match type requires and how many
// wrestlers fill each team slot.
type MatchFormat struct {
	Type     string
	Teams    int
	TeamSize int
}

const (
	MatchSingle       = "single"
	MatchTag          = "tag"
	MatchTripleThreat = "triple_threat"
	MatchFatalFourWay = "fatal_four_way"
)

var formats = map[string]MatchFormat{
	MatchSingle:       {Type: MatchSingle, Teams: 2, TeamSize: 1},
	MatchTag:          {Type: MatchTag, Teams: 2, TeamSize: 2},
	MatchTripleThreat: {Type: MatchTripleThreat, Teams: 3, TeamSize: 1},
	MatchFatalFourWay: {Type: MatchFatalFourWay, Teams: 4, TeamSize: 1},
}

// FormatFor looks up the format registry for a match type.
func FormatFor(matchType string) (MatchFormat, bool) {
	f, ok := formats[matchType]
	return f, ok
}

// ValidateTeams checks that every team slot required by the format is
// filled, with no extra teams and no duplicate wrestlers across slots.
func ValidateTeams(matchType string, participants map[int][]int64) error {
	format, ok := FormatFor(matchType)
	if !ok {
		return ErrIncompleteTeams
	}
	if len(participants) != format.Teams {
		return ErrIncompleteTeams
	}
	seen := make(map[int64]bool)
	for idx := 0; idx < format.Teams; idx++ {
		team, ok := participants[idx]
		if !ok || len(team) != format.TeamSize {
			return ErrIncompleteTeams
		}
		for _, id := range team {
			if id <= 0 || seen[id] {
				return ErrIncompleteTeams
			}
			seen[id] = true
		}
	}
	return nil
}
