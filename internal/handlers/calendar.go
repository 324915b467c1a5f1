package handlers

import (
	"fmt"
	"net/http"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/avelis/habitdo/internal/commands"
	"github.com/avelis/habitdo/internal/middleware"
	"github.com/avelis/habitdo/internal/models"
	"github.com/avelis/habitdo/internal/repository"
	"github.com/avelis/habitdo/internal/services"
)

const feedHorizon = 14 * 24 * time.Hour

// CalendarHandler serves an iCalendar feed of the acting user's upcoming
// reoccur occurrences and habit window deadlines.
type CalendarHandler struct {
	listTodos *commands.ListTodos
}

func NewCalendarHandler(todoRepo repository.TodoRepository) *CalendarHandler {
	return &CalendarHandler{listTodos: commands.NewListTodos(todoRepo)}
}

func (handler *CalendarHandler) Feed(w http.ResponseWriter, r *http.Request) {
	actor := middleware.GetUser(r.Context())

	todos, err := handler.listTodos.Execute(r.Context(), actor, actor.ID)
	if err != nil {
		writeCommandError(w, err)
		return
	}

	now := time.Now()
	until := now.Add(feedHorizon)

	calendar := ics.NewCalendar()
	calendar.SetMethod(ics.MethodPublish)
	calendar.SetProductId("-//habitdo//habitdo//EN")

	for _, todo := range todos {
		switch todo.Type {
		case models.TodoTypeReoccur:
			for _, occurrence := range services.UpcomingOccurrences(todo.Reoccur.Repeat, now, until) {
				uid := fmt.Sprintf("%s-%s@habitdo", todo.ID, occurrence.Format("20060102"))
				event := calendar.AddEvent(uid)
				event.SetDtStampTime(now)
				event.SetAllDayStartAt(occurrence)
				event.SetAllDayEndAt(occurrence.AddDate(0, 0, 1))
				event.SetSummary(todo.Name)
				if todo.Description != "" {
					event.SetDescription(todo.Description)
				}
			}

		case models.TodoTypeHabit:
			_, windowEnd := services.CurrentWindow(todo.Habit.Period, todo.CreatedAt, now)
			deadline := services.ApplyBuffer(todo.Habit.Buffer, windowEnd)
			if deadline.After(until) {
				continue
			}
			event := calendar.AddEvent(fmt.Sprintf("%s-deadline@habitdo", todo.ID))
			event.SetDtStampTime(now)
			event.SetStartAt(deadline)
			event.SetEndAt(deadline)
			event.SetSummary(fmt.Sprintf("%s (%dx due)", todo.Name, todo.Habit.Frequency))
		}
	}

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", "attachment; filename=habitdo.ics")
	w.Write([]byte(calendar.Serialize()))
}
