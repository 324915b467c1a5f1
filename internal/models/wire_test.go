package models_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/avelis/habitdo/internal/models"
)

func marshalWire(t *testing.T, todo models.Todo) map[string]any {
	t.Helper()
	encoded, err := json.Marshal(todo.Wire())
	if err != nil {
		t.Fatalf("marshaling wire form: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(encoded, &decoded); err != nil {
		t.Fatalf("unmarshaling wire form: %v", err)
	}
	return decoded
}

func TestTodoWire_Reoccur(t *testing.T) {
	at := time.Date(2019, 2, 24, 0, 0, 0, 0, time.UTC)
	todo := models.Todo{
		ID:               "abc",
		OwnerID:          "user-1",
		Name:             "reoccur",
		Description:      "description",
		Type:             models.TodoTypeReoccur,
		CompletionPoints: 1,
		Categories:       []models.Category{{Name: "again"}, {Name: "test"}},
		Tags:             []models.Tag{{Name: "knows"}, {Name: "who"}},
		Actions:          []models.Action{{Date: at, Points: 1}},
		Reoccur: &models.Reoccur{
			Repeat:   models.Repeat{Type: models.RepeatDayOfWeek, When: []string{"Sunday"}},
			Required: false,
		},
		CreatedAt: at,
		UpdatedAt: at,
	}

	decoded := marshalWire(t, todo)

	if decoded["todoId"] != "abc" || decoded["todoOwnerId"] != "user-1" {
		t.Errorf("unexpected identity fields: %v", decoded)
	}
	if decoded["todoType"] != "REOCCUR" {
		t.Errorf("expected todoType REOCCUR, got %v", decoded["todoType"])
	}
	if decoded["required"] != false {
		t.Errorf("expected required false, got %v", decoded["required"])
	}

	repeat, ok := decoded["repeat"].(map[string]any)
	if !ok {
		t.Fatalf("expected repeat object, got %v", decoded["repeat"])
	}
	if repeat["repeatType"] != "DAY_OF_WEEK" {
		t.Errorf("expected repeatType DAY_OF_WEEK, got %v", repeat["repeatType"])
	}
	when, _ := repeat["when"].([]any)
	if len(when) != 1 || when[0] != "Sunday" {
		t.Errorf("expected when [Sunday], got %v", repeat["when"])
	}

	if decoded["createdDate"] != "Sun, 24 Feb 2019 00:00:00 GMT" {
		t.Errorf("unexpected createdDate format: %v", decoded["createdDate"])
	}
	if decoded["modifiedDate"] != decoded["createdDate"] {
		t.Errorf("expected matching dates, got %v and %v", decoded["createdDate"], decoded["modifiedDate"])
	}

	actions, _ := decoded["actions"].([]any)
	if len(actions) != 1 {
		t.Fatalf("expected 1 action, got %v", decoded["actions"])
	}
	action := actions[0].(map[string]any)
	if action["actionDate"] != "Sun, 24 Feb 2019 00:00:00 GMT" {
		t.Errorf("unexpected actionDate: %v", action["actionDate"])
	}
	if action["points"] != float64(1) {
		t.Errorf("expected 1 point, got %v", action["points"])
	}
}

func TestTodoWire_Habit(t *testing.T) {
	at := time.Date(2019, 2, 24, 0, 0, 0, 0, time.UTC)
	start := time.Date(2019, 2, 17, 0, 0, 0, 0, time.UTC)
	todo := models.Todo{
		ID:      "h1",
		OwnerID: "user-1",
		Name:    "habit",
		Type:    models.TodoTypeHabit,
		Habit: &models.Habit{
			PointsPer: 2,
			Frequency: 3,
			Period:    models.Period{Type: models.PeriodWeeks, Amount: 1, Start: &start},
			Buffer:    models.Buffer{Type: models.BufferDayStart, Amount: 1},
		},
		CreatedAt: at,
		UpdatedAt: at,
	}

	decoded := marshalWire(t, todo)

	if decoded["todoType"] != "HABIT" {
		t.Errorf("expected todoType HABIT, got %v", decoded["todoType"])
	}
	if decoded["pointsPer"] != float64(2) || decoded["frequency"] != float64(3) {
		t.Errorf("unexpected habit fields: %v", decoded)
	}

	period, _ := decoded["period"].(map[string]any)
	if period["periodType"] != "WEEKS" || period["amount"] != float64(1) {
		t.Errorf("unexpected period: %v", period)
	}
	if period["start"] != "Sun, 17 Feb 2019 00:00:00 GMT" {
		t.Errorf("unexpected period start: %v", period["start"])
	}

	buffer, _ := decoded["buffer"].(map[string]any)
	if buffer["bufferType"] != "DAY_START" || buffer["amount"] != float64(1) {
		t.Errorf("unexpected buffer: %v", buffer)
	}

	// Empty collections are arrays, never null.
	if _, ok := decoded["categories"].([]any); !ok {
		t.Errorf("expected categories array, got %v", decoded["categories"])
	}
	if _, ok := decoded["actions"].([]any); !ok {
		t.Errorf("expected actions array, got %v", decoded["actions"])
	}
}

func TestTodoWire_TaskHasNoVariantFields(t *testing.T) {
	todo := models.Todo{
		ID:        "t1",
		OwnerID:   "user-1",
		Name:      "task",
		Type:      models.TodoTypeTask,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	decoded := marshalWire(t, todo)
	if _, present := decoded["period"]; present {
		t.Error("task wire form should not carry period")
	}
	if _, present := decoded["repeat"]; present {
		t.Error("task wire form should not carry repeat")
	}
}

func TestWireTime_RoundTrip(t *testing.T) {
	original := models.WireTime(time.Date(2019, 2, 24, 13, 45, 0, 0, time.UTC))
	encoded, err := json.Marshal(original)
	if err != nil {
		t.Fatalf("marshaling: %v", err)
	}
	if string(encoded) != `"Sun, 24 Feb 2019 13:45:00 GMT"` {
		t.Errorf("unexpected encoding: %s", encoded)
	}

	var decoded models.WireTime
	if err := json.Unmarshal(encoded, &decoded); err != nil {
		t.Fatalf("unmarshaling: %v", err)
	}
	if !time.Time(decoded).Equal(time.Time(original)) {
		t.Errorf("round trip mismatch: %v != %v", decoded, original)
	}
}
