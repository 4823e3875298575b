package domain

import (
	"encoding/json"
	"time"
)

type Alignment string

const (
	AlignmentFace Alignment = "Face"
	AlignmentHeel Alignment = "Heel"
)

type TitleCategory string

const (
	CategoryWorld   TitleCategory = "World"
	CategoryMidcard TitleCategory = "Midcard"
	CategoryTag     TitleCategory = "Tag"
	CategoryMITB    TitleCategory = "MITB"
)

type EntryKind string

const (
	EntryIn  EntryKind = "IN"
	EntryOut EntryKind = "OUT"
)

// Save is one independent game/career instance. Every other entity hangs
// off a save by foreign key; deleting a save cascades to everything it owns.
type Save struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Brand       string    `json:"brand"`
	ThemeColor  string    `json:"theme_color"`
	CurrentWeek int       `json:"current_week"`
	CurrentCash int64     `json:"current_cash"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type Wrestler struct {
	ID             int64     `json:"id"`
	SaveID         int64     `json:"save_id"`
	Name           string    `json:"name"`
	Gender         string    `json:"gender"`
	Alignment      Alignment `json:"alignment"`
	RingLevel      int       `json:"ring_level"`
	Mic            int       `json:"mic"`
	MainClass      string    `json:"main_class"`
	AltClass       string    `json:"alt_class"`
	IsPermanent    bool      `json:"is_permanent"`
	WeeksRemaining int       `json:"weeks_remaining"`
	Salary         int64     `json:"salary"`
	Wins           int       `json:"wins"`
	Losses         int       `json:"losses"`
	ImageRef       string    `json:"image_ref"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Expired reports whether the contract has run out. weeks_remaining is
// allowed to go negative; expiry is always this read-time check.
func (w Wrestler) Expired() bool {
	return !w.IsPermanent && w.WeeksRemaining <= 0
}

// MarshalJSON includes the derived expired flag in API responses.
func (w Wrestler) MarshalJSON() ([]byte, error) {
	type alias Wrestler
	return json.Marshal(struct {
		alias
		Expired bool `json:"expired"`
	}{alias(w), w.Expired()})
}

// Title holds the current reign implicitly: holder fields plus WeekWon.
// History rows exist only for past reigns. Holder2 is set for Tag only.
type Title struct {
	ID        int64         `json:"id"`
	SaveID    int64         `json:"save_id"`
	Name      string        `json:"name"`
	Category  TitleCategory `json:"category"`
	Gender    string        `json:"gender"`
	Holder1ID *int64        `json:"holder1_id"`
	Holder2ID *int64        `json:"holder2_id"`
	WeekWon   int           `json:"week_won"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

func (t Title) Vacant() bool {
	return t.Holder1ID == nil
}

// HolderIDs returns the current holder set, empty when vacant.
func (t Title) HolderIDs() []int64 {
	var ids []int64
	if t.Holder1ID != nil {
		ids = append(ids, *t.Holder1ID)
	}
	if t.Holder2ID != nil {
		ids = append(ids, *t.Holder2ID)
	}
	return ids
}

// TitleReign is a closed reign. Immutable once written. DefeatedBy fields
// are empty for manual coronations (unknown defeater).
type TitleReign struct {
	ID            int64     `json:"id"`
	SaveID        int64     `json:"save_id"`
	TitleID       int64     `json:"title_id"`
	Holder1ID     *int64    `json:"holder1_id"`
	Holder2ID     *int64    `json:"holder2_id"`
	Holder1Name   string    `json:"holder1_name"`
	Holder2Name   string    `json:"holder2_name,omitempty"`
	WeekWon       int       `json:"week_won"`
	WeekLost      int       `json:"week_lost"`
	DefeatedBy1ID *int64    `json:"defeated_by1_id,omitempty"`
	DefeatedBy2ID *int64    `json:"defeated_by2_id,omitempty"`
	DefeatedBy1   string    `json:"defeated_by1,omitempty"`
	DefeatedBy2   string    `json:"defeated_by2,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// PlannedMatch is a booked card item for one week. Participants are grouped
// by team index; the map is loaded from the match_participants join table.
type PlannedMatch struct {
	ID           int64           `json:"id"`
	SaveID       int64           `json:"save_id"`
	Week         int             `json:"week"`
	Type         string          `json:"type"`
	Participants map[int][]int64 `json:"participants"`
	Stipulation  string          `json:"stipulation"`
	Cost         int64           `json:"cost"`
	IsTitleMatch bool            `json:"is_title_match"`
	TitleID      *int64          `json:"title_id"`
	IsCompleted  bool            `json:"is_completed"`
	ResultText   string          `json:"result_text"`
	SortOrder    int             `json:"sort_order"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// ParticipantIDs flattens every team into a single slice.
func (m PlannedMatch) ParticipantIDs() []int64 {
	var ids []int64
	for _, team := range m.Participants {
		ids = append(ids, team...)
	}
	return ids
}

// TeamOf returns the team index containing the wrestler, or -1.
func (m PlannedMatch) TeamOf(wrestlerID int64) int {
	for idx, team := range m.Participants {
		for _, id := range team {
			if id == wrestlerID {
				return idx
			}
		}
	}
	return -1
}

// FinanceEntry is append-only. Reference is an opaque code stamped at
// insertion time so entries can be cited in the UI and exports.
type FinanceEntry struct {
	ID          int64     `json:"id"`
	SaveID      int64     `json:"save_id"`
	Week        int       `json:"week"`
	Category    string    `json:"category"`
	Description string    `json:"description"`
	Amount      int64     `json:"amount"`
	Kind        EntryKind `json:"kind"`
	Reference   string    `json:"reference"`
	CreatedAt   time.Time `json:"created_at"`
}

// MatchLogEntry is the authoritative event source for all analytics. Rows
// are append-only and outlive the planned match they came from. Winner and
// loser display names are denormalized so history survives roster deletions.
type MatchLogEntry struct {
	ID            int64     `json:"id"`
	SaveID        int64     `json:"save_id"`
	Week          int       `json:"week"`
	MatchType     string    `json:"match_type"`
	WinnerID      *int64    `json:"winner_id"`
	WinnerName    string    `json:"winner_name"`
	LoserName     string    `json:"loser_name"`
	Rating        int       `json:"rating"`
	IsTitleChange bool      `json:"is_title_change"`
	TitleName     string    `json:"title_name,omitempty"`
	Winners       []int64   `json:"winners"`
	Losers        []int64   `json:"losers"`
	CreatedAt     time.Time `json:"created_at"`
}

// WeeklySummary is written once at week closure and read-only afterward.
type WeeklySummary struct {
	ID            int64     `json:"id"`
	SaveID        int64     `json:"save_id"`
	Week          int       `json:"week"`
	AvgRating     float64   `json:"avg_rating"`
	TotalIncome   int64     `json:"total_income"`
	TotalExpenses int64     `json:"total_expenses"`
	CreatedAt     time.Time `json:"created_at"`
}
