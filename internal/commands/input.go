package commands

import (
	"time"

	"github.com/avelis/habitdo/internal/models"
)

// TodoInput is the structured creation/update payload handed to commands by
// the controller layer. OwnerID is the optional explicit target owner; when
// empty the acting user owns the todo.
type TodoInput struct {
	OwnerID          string
	Name             string
	Description      string
	CompletionPoints int
	Categories       []string
	Tags             []string
	Habit            *HabitInput
	Reoccur          *ReoccurInput
}

type HabitInput struct {
	PointsPer int
	Frequency int
	Period    PeriodInput
	Buffer    BufferInput
}

type PeriodInput struct {
	PeriodType string
	Amount     int
	Start      *time.Time
}

type BufferInput struct {
	BufferType string
	Amount     int
}

type ReoccurInput struct {
	Repeat   RepeatInput
	Required bool
}

type RepeatInput struct {
	RepeatType string
	When       []string
}

// buildTodo validates the payload and constructs the in-memory todo for the
// requested type. The repository assigns the id; timestamps are stamped by
// the calling command from a single sampled now.
func buildTodo(input TodoInput, todoType models.TodoType, ownerID string) (models.Todo, error) {
	if input.Name == "" {
		return models.Todo{}, validationf("name is required")
	}

	todo := models.Todo{
		OwnerID:          ownerID,
		Name:             input.Name,
		Description:      input.Description,
		Type:             todoType,
		CompletionPoints: input.CompletionPoints,
		Actions:          []models.Action{},
	}
	for _, name := range dedupNames(input.Categories) {
		todo.Categories = append(todo.Categories, models.Category{Name: name})
	}
	for _, name := range dedupNames(input.Tags) {
		todo.Tags = append(todo.Tags, models.Tag{Name: name})
	}

	switch todoType {
	case models.TodoTypeTask:
		// no variant payload

	case models.TodoTypeHabit:
		if input.Habit == nil {
			return models.Todo{}, validationf("habit payload is required")
		}
		habit, err := buildHabit(*input.Habit)
		if err != nil {
			return models.Todo{}, err
		}
		todo.Habit = habit

	case models.TodoTypeReoccur:
		if input.Reoccur == nil {
			return models.Todo{}, validationf("reoccur payload is required")
		}
		reoccur, err := buildReoccur(*input.Reoccur)
		if err != nil {
			return models.Todo{}, err
		}
		todo.Reoccur = reoccur

	default:
		return models.Todo{}, validationf("unknown todo type %q", todoType)
	}

	return todo, nil
}

func buildHabit(input HabitInput) (*models.Habit, error) {
	if input.Frequency <= 0 {
		return nil, validationf("frequency must be positive")
	}
	periodType, err := models.ParsePeriodType(input.Period.PeriodType)
	if err != nil {
		return nil, validationf("%v", err)
	}
	bufferType, err := models.ParseBufferType(input.Buffer.BufferType)
	if err != nil {
		return nil, validationf("%v", err)
	}
	return &models.Habit{
		PointsPer: input.PointsPer,
		Frequency: input.Frequency,
		Period: models.Period{
			Type:   periodType,
			Amount: input.Period.Amount,
			Start:  input.Period.Start,
		},
		Buffer: models.Buffer{
			Type:   bufferType,
			Amount: input.Buffer.Amount,
		},
	}, nil
}

func buildReoccur(input ReoccurInput) (*models.Reoccur, error) {
	repeatType, err := models.ParseRepeatType(input.Repeat.RepeatType)
	if err != nil {
		return nil, validationf("%v", err)
	}
	if len(input.Repeat.When) == 0 {
		return nil, validationf("repeat.when is required")
	}
	return &models.Reoccur{
		Repeat: models.Repeat{
			Type: repeatType,
			When: input.Repeat.When,
		},
		Required: input.Required,
	}, nil
}

// dedupNames drops duplicate names while preserving first-seen order.
// Category and tag uniqueness is per todo, not global.
func dedupNames(names []string) []string {
	seen := make(map[string]bool, len(names))
	var unique []string
	for _, name := range names {
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		unique = append(unique, name)
	}
	return unique
}
