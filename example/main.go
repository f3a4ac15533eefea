// Command example seeds an in-memory task store and working calendar,
// expands one week of occurrences, and prints a single day's working-day
// filtered bucket.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/clinova/taskcal/model"
	"github.com/clinova/taskcal/recurrence"
	"github.com/clinova/taskcal/taskstore/memory"
	"github.com/clinova/taskcal/workcal"
	workcalmem "github.com/clinova/taskcal/workcal/memory"
)

const clinicID = "main-street"

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	ctx := context.Background()

	store := memory.New()
	anchor := time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC) // a Monday
	seed := []model.Task{
		{Title: "Morning instrument check", Recurrence: model.RecurrenceDaily, CreatedAt: anchor},
		{Title: "Weekly inventory count", Recurrence: model.RecurrenceEndOfWeek, CreatedAt: anchor},
		{Title: "Order lab supplies", Recurrence: model.RecurrenceMidMonth, CreatedAt: anchor},
		{Title: "Close out billing", Recurrence: model.RecurrenceEndOfMonth, CreatedAt: anchor},
		{Title: "Replace waiting-room sign", DueType: model.DueEndOfDay, CreatedAt: anchor},
	}
	for _, t := range seed {
		if _, err := store.PutTask(ctx, clinicID, t); err != nil {
			logger.Error("seed task", "error", err)
			os.Exit(1)
		}
	}

	calendars := workcalmem.New()
	calendars.SetSettings(clinicID, &workcal.Settings{
		WeekendsAreWorkdays: false,
		Holidays:            []time.Time{time.Date(2024, 3, 8, 0, 0, 0, 0, time.UTC)},
	})

	engine := recurrence.NewEngineWithConfig(recurrence.NoCacheConfig)
	workdays := recurrence.NewWorkdayEngine(engine, calendars, logger)

	tasks, err := store.ListTasks(ctx, clinicID)
	if err != nil {
		logger.Error("list tasks", "error", err)
		os.Exit(1)
	}

	start := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)

	fmt.Println("== Week expansion ==")
	for _, item := range engine.Expand(tasks, start, end) {
		printItem(item)
	}

	day := time.Date(2024, 3, 7, 0, 0, 0, 0, time.UTC)
	fmt.Printf("\n== Working-day bucket for %s ==\n", day.Format("2006-01-02"))
	for _, item := range workdays.ForWorkingDay(ctx, tasks, day, clinicID) {
		printItem(item)
	}

	ics, err := recurrence.ExportICS(engine.ForDate(tasks, day))
	if err != nil {
		logger.Error("export ics", "error", err)
		os.Exit(1)
	}
	fmt.Printf("\n== ICS for %s ==\n%s", day.Format("2006-01-02"), ics)
}

func printItem(item model.Item) {
	switch v := item.(type) {
	case model.Instance:
		marker := " "
		if v.IsOverdue {
			marker = "!"
		}
		fmt.Printf("%s %-10s %-28s (instance of %s)\n", marker, v.InstanceDate.Format("2006-01-02"), v.Title, v.ParentTaskID)
	case model.Task:
		fmt.Printf("  %-10s %-28s (task %s)\n", v.CreatedAt.Format("2006-01-02"), v.Title, v.ID)
	}
}
