package models

import (
	"fmt"
	"time"
)

type Role string

const (
	RoleAdmin  Role = "admin"
	RoleMember Role = "member"
)

// TodoType tags which variant payload a Todo carries.
type TodoType string

const (
	TodoTypeTask    TodoType = "TASK"
	TodoTypeHabit   TodoType = "HABIT"
	TodoTypeReoccur TodoType = "REOCCUR"
)

type PeriodType string

const (
	PeriodDays   PeriodType = "DAYS"
	PeriodWeeks  PeriodType = "WEEKS"
	PeriodMonths PeriodType = "MONTHS"
	PeriodYears  PeriodType = "YEARS"
)

type BufferType string

const (
	BufferNone     BufferType = "NO_BUFFER"
	BufferDayStart BufferType = "DAY_START"
	BufferHours    BufferType = "HOURS"
)

type RepeatType string

const (
	RepeatDayOfWeek  RepeatType = "DAY_OF_WEEK"
	RepeatDayOfMonth RepeatType = "DAY_OF_MONTH"
	RepeatDayOfYear  RepeatType = "DAY_OF_YEAR"
)

func ParsePeriodType(value string) (PeriodType, error) {
	switch PeriodType(value) {
	case PeriodDays, PeriodWeeks, PeriodMonths, PeriodYears:
		return PeriodType(value), nil
	}
	return "", fmt.Errorf("unknown period type %q", value)
}

func ParseBufferType(value string) (BufferType, error) {
	switch BufferType(value) {
	case BufferNone, BufferDayStart, BufferHours:
		return BufferType(value), nil
	}
	return "", fmt.Errorf("unknown buffer type %q", value)
}

func ParseRepeatType(value string) (RepeatType, error) {
	switch RepeatType(value) {
	case RepeatDayOfWeek, RepeatDayOfMonth, RepeatDayOfYear:
		return RepeatType(value), nil
	}
	return "", fmt.Errorf("unknown repeat type %q", value)
}

type User struct {
	ID        string
	Subject   string
	Email     string
	Name      string
	Role      Role
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (user User) IsAdmin() bool {
	return user.Role == RoleAdmin
}

type APIToken struct {
	ID              string
	Name            string
	TokenHash       string
	CreatedByUserID string
	ExpiresAt       *time.Time
	CreatedAt       time.Time
}

// Period is the recurrence window of a habit: Amount units of Type,
// anchored at Start. A nil Start anchors at the todo's creation time.
type Period struct {
	Type   PeriodType
	Amount int
	Start  *time.Time
}

// Buffer is the wall-clock fudge applied to a habit's window deadline.
type Buffer struct {
	Type   BufferType
	Amount int
}

type Habit struct {
	PointsPer int
	Frequency int
	Period    Period
	Buffer    Buffer
}

// Repeat is a reoccur schedule rule. When qualifies days depending on Type:
// day names for DAY_OF_WEEK, day numbers for DAY_OF_MONTH, "01-15"
// month-day pairs for DAY_OF_YEAR.
type Repeat struct {
	Type RepeatType
	When []string
}

type Reoccur struct {
	Repeat   Repeat
	Required bool
}

type Category struct {
	ID   string
	Name string
}

type Tag struct {
	ID   string
	Name string
}

// Action is an immutable completion event. The actions list on a todo is
// append-only and ordered by occurrence.
type Action struct {
	ID     string
	Date   time.Time
	Points int
}

// Todo is the aggregate root. Exactly one of Habit/Reoccur is set when Type
// is HABIT/REOCCUR; both are nil for TASK.
type Todo struct {
	ID               string
	OwnerID          string
	Name             string
	Description      string
	Type             TodoType
	CompletionPoints int

	Categories []Category
	Tags       []Tag
	Actions    []Action

	Habit   *Habit
	Reoccur *Reoccur

	CreatedAt time.Time
	UpdatedAt time.Time
}
