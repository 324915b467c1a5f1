package models

import (
	"fmt"
	"time"
)

// wireTimeFormat matches the RFC-1123 GMT timestamps the API has always
// produced, e.g. "Sun, 24 Feb 2019 00:00:00 GMT".
const wireTimeFormat = "Mon, 02 Jan 2006 15:04:05 GMT"

// WireTime serializes a timestamp in the API's fixed RFC-1123 GMT format.
type WireTime time.Time

func (t WireTime) MarshalJSON() ([]byte, error) {
	formatted := time.Time(t).UTC().Format(wireTimeFormat)
	return []byte(`"` + formatted + `"`), nil
}

func (t *WireTime) UnmarshalJSON(data []byte) error {
	raw := string(data)
	if raw == "null" {
		return nil
	}
	if len(raw) < 2 || raw[0] != '"' || raw[len(raw)-1] != '"' {
		return fmt.Errorf("invalid wire timestamp %s", raw)
	}
	parsed, err := time.Parse(wireTimeFormat, raw[1:len(raw)-1])
	if err != nil {
		return fmt.Errorf("parsing wire timestamp: %w", err)
	}
	*t = WireTime(parsed)
	return nil
}

type ActionWire struct {
	ActionDate WireTime `json:"actionDate"`
	Points     int      `json:"points"`
}

type PeriodWire struct {
	PeriodType string    `json:"periodType"`
	Amount     int       `json:"amount"`
	Start      *WireTime `json:"start"`
}

type BufferWire struct {
	BufferType string `json:"bufferType"`
	Amount     int    `json:"amount"`
}

type RepeatWire struct {
	RepeatType string   `json:"repeatType"`
	When       []string `json:"when"`
}

// TodoWire is the base wire shape shared by every todo kind.
type TodoWire struct {
	TodoID           string       `json:"todoId"`
	TodoOwnerID      string       `json:"todoOwnerId"`
	Name             string       `json:"name"`
	Description      string       `json:"description"`
	TodoType         string       `json:"todoType"`
	CompletionPoints int          `json:"completionPoints"`
	Categories       []string     `json:"categories"`
	Tags             []string     `json:"tags"`
	Actions          []ActionWire `json:"actions"`
	CreatedDate      WireTime     `json:"createdDate"`
	ModifiedDate     WireTime     `json:"modifiedDate"`
}

type HabitWire struct {
	TodoWire
	PointsPer int        `json:"pointsPer"`
	Frequency int        `json:"frequency"`
	Period    PeriodWire `json:"period"`
	Buffer    BufferWire `json:"buffer"`
}

type ReoccurWire struct {
	TodoWire
	Repeat   RepeatWire `json:"repeat"`
	Required bool       `json:"required"`
}

// Wire converts the todo to its JSON representation: the base shape for
// tasks, extended with the variant fields for habits and reoccurs.
// Collections marshal as empty arrays, never null.
func (todo Todo) Wire() any {
	base := TodoWire{
		TodoID:           todo.ID,
		TodoOwnerID:      todo.OwnerID,
		Name:             todo.Name,
		Description:      todo.Description,
		TodoType:         string(todo.Type),
		CompletionPoints: todo.CompletionPoints,
		Categories:       make([]string, 0, len(todo.Categories)),
		Tags:             make([]string, 0, len(todo.Tags)),
		Actions:          make([]ActionWire, 0, len(todo.Actions)),
		CreatedDate:      WireTime(todo.CreatedAt),
		ModifiedDate:     WireTime(todo.UpdatedAt),
	}
	for _, category := range todo.Categories {
		base.Categories = append(base.Categories, category.Name)
	}
	for _, tag := range todo.Tags {
		base.Tags = append(base.Tags, tag.Name)
	}
	for _, action := range todo.Actions {
		base.Actions = append(base.Actions, ActionWire{
			ActionDate: WireTime(action.Date),
			Points:     action.Points,
		})
	}

	switch {
	case todo.Type == TodoTypeHabit && todo.Habit != nil:
		var start *WireTime
		if todo.Habit.Period.Start != nil {
			converted := WireTime(*todo.Habit.Period.Start)
			start = &converted
		}
		return HabitWire{
			TodoWire:  base,
			PointsPer: todo.Habit.PointsPer,
			Frequency: todo.Habit.Frequency,
			Period: PeriodWire{
				PeriodType: string(todo.Habit.Period.Type),
				Amount:     todo.Habit.Period.Amount,
				Start:      start,
			},
			Buffer: BufferWire{
				BufferType: string(todo.Habit.Buffer.Type),
				Amount:     todo.Habit.Buffer.Amount,
			},
		}
	case todo.Type == TodoTypeReoccur && todo.Reoccur != nil:
		when := todo.Reoccur.Repeat.When
		if when == nil {
			when = []string{}
		}
		return ReoccurWire{
			TodoWire: base,
			Repeat: RepeatWire{
				RepeatType: string(todo.Reoccur.Repeat.Type),
				When:       when,
			},
			Required: todo.Reoccur.Required,
		}
	}
	return base
}
