package recurrence

import (
	"time"

	"github.com/teambition/rrule-go"

	"github.com/clinova/taskcal/model"
)

// Engine expands task recurrence rules into concrete calendar occurrences
// and classifies them as overdue. The date-math path is pure: it never
// mutates a task and allocates a fresh result per call, so one Engine may
// be shared by any number of goroutines.
type Engine struct {
	clock  Clock
	cache  *ExpansionCache
	config EngineConfig
}

// NewEngine creates a new recurrence engine with default configuration
func NewEngine() *Engine {
	return NewEngineWithConfig(DefaultEngineConfig)
}

// Close releases the engine's cache resources, if any.
func (e *Engine) Close() {
	if e.cache != nil {
		e.cache.Close()
	}
}

// standardRules maps each fixed-step pattern to its rrule recurrence
// frequency and interval.
var standardRules = map[model.Recurrence]rrule.ROption{
	model.RecurrenceDaily:     {Freq: rrule.DAILY, Interval: 1},
	model.RecurrenceWeekly:    {Freq: rrule.WEEKLY, Interval: 1},
	model.RecurrenceBiweekly:  {Freq: rrule.WEEKLY, Interval: 2},
	model.RecurrenceMonthly:   {Freq: rrule.MONTHLY, Interval: 1},
	model.RecurrenceQuarterly: {Freq: rrule.MONTHLY, Interval: 3},
	model.RecurrenceYearly:    {Freq: rrule.YEARLY, Interval: 1},
}

// Generate produces the ordered occurrences of task inside [start, end],
// ascending by date. It returns nil when the range is inverted, the task
// has no recurrence, or the task is completed. A recurrence value that
// slipped past boundary validation yields no occurrences rather than an
// error, so one bad task definition cannot break expansion of a whole
// collection.
func (e *Engine) Generate(task model.Task, start, end time.Time) []model.Instance {
	if end.Before(start) || task.Recurrence == model.RecurrenceNone || task.Completed() {
		return nil
	}

	var instances []model.Instance
	switch task.Recurrence {
	case model.RecurrenceEndOfWeek:
		instances = e.generateEndOfWeek(task, start, end)
	case model.RecurrenceMidMonth:
		instances = e.generateMidMonth(task, start, end)
	case model.RecurrenceEndOfMonth:
		instances = e.generateEndOfMonth(task, start, end)
	default:
		instances = e.generateStandard(task, start, end)
	}

	// Classify at generation time so callers get display-ready instances.
	now := e.clock.Now()
	for i := range instances {
		if IsOverdue(instances[i], now) {
			instances[i].IsOverdue = true
			instances[i].OverdueReason = OverdueReason(task)
		}
	}
	return instances
}

// generateStandard steps a fixed-unit pattern forward from
// max(anchor, start) until it leaves the range or hits the occurrence cap.
func (e *Engine) generateStandard(task model.Task, start, end time.Time) []model.Instance {
	opt, ok := standardRules[task.Recurrence]
	if !ok {
		return nil
	}

	// Work at day granularity so a time-of-day on the anchor or the range
	// bounds can never drop an occurrence.
	startDay, endDay := dayOf(start), dayOf(end)
	first := dayOf(task.Anchor())
	if first.Before(startDay) {
		first = startDay
	}
	opt.Dtstart = first
	opt.Count = e.config.MaxOccurrences

	rule, err := rrule.NewRRule(opt)
	if err != nil {
		return nil
	}

	// Between is inclusive of both bounds with inc=true.
	var instances []model.Instance
	for _, occ := range rule.Between(startDay, endOfDay(endDay), true) {
		date := dayOf(occ)
		instances = append(instances, model.NewInstance(task, date, endOfDay(date), model.PeriodNone))
	}
	return instances
}

// generateEndOfWeek emits one occurrence for every in-range day of every
// Monday-Sunday week overlapping the range: the task stays open and
// visible all week until done, with the week's Sunday as its deadline.
func (e *Engine) generateEndOfWeek(task model.Task, start, end time.Time) []model.Instance {
	startDay, endDay := dayOf(start), dayOf(end)

	var instances []model.Instance
	for ws := weekStart(startDay); !ws.After(endDay); ws = ws.AddDate(0, 0, 7) {
		sunday := ws.AddDate(0, 0, 6)
		due := endOfDay(sunday)
		for d := ws; !d.After(sunday); d = d.AddDate(0, 0, 1) {
			if d.Before(startDay) || d.After(endDay) {
				continue
			}
			if len(instances) >= e.config.MaxOccurrences {
				return instances
			}
			instances = append(instances, model.NewInstance(task, d, due, model.PeriodNone))
		}
	}
	return instances
}

// generateMidMonth emits the two fixed cycles of every month overlapping
// the range: days 1-7 ("first") and days 15-21 ("second").
func (e *Engine) generateMidMonth(task model.Task, start, end time.Time) []model.Instance {
	startDay, endDay := dayOf(start), dayOf(end)

	var instances []model.Instance
	for m := monthStart(startDay); !m.After(endDay); m = m.AddDate(0, 1, 0) {
		instances = e.emitWindow(instances, task, m, 1, 7, 7, model.PeriodFirst, startDay, endDay)
		instances = e.emitWindow(instances, task, m, 15, 21, 21, model.PeriodSecond, startDay, endDay)
	}
	return instances
}

// generateEndOfMonth emits the month-end window (day 25 through the last
// day) plus the carry-over window (days 1-5) of every overlapping month.
// Both windows share the deadline of the instance's own month end.
func (e *Engine) generateEndOfMonth(task model.Task, start, end time.Time) []model.Instance {
	startDay, endDay := dayOf(start), dayOf(end)

	var instances []model.Instance
	for m := monthStart(startDay); !m.After(endDay); m = m.AddDate(0, 1, 0) {
		last := lastDayOfMonth(m)
		instances = e.emitWindow(instances, task, m, 1, 5, last, model.PeriodStart, startDay, endDay)
		instances = e.emitWindow(instances, task, m, 25, last, last, model.PeriodEnd, startDay, endDay)
	}
	return instances
}

// emitWindow appends one instance per day of the window [fromDay, toDay]
// of month that falls inside [startDay, endDay]. dueDay is the day of
// month carrying the window's 23:59:59 deadline.
func (e *Engine) emitWindow(instances []model.Instance, task model.Task, month time.Time, fromDay, toDay, dueDay int, period model.CyclePeriod, startDay, endDay time.Time) []model.Instance {
	due := endOfDay(time.Date(month.Year(), month.Month(), dueDay, 0, 0, 0, 0, month.Location()))
	for day := fromDay; day <= toDay; day++ {
		d := time.Date(month.Year(), month.Month(), day, 0, 0, 0, 0, month.Location())
		if d.Before(startDay) || d.After(endDay) {
			continue
		}
		if len(instances) >= e.config.MaxOccurrences {
			return instances
		}
		instances = append(instances, model.NewInstance(task, d, due, period))
	}
	return instances
}

// Date helpers. All day-granular math stays in the location of its input.

func dayOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func endOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 0, t.Location())
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// weekStart returns the Monday of the week containing t, at midnight.
func weekStart(t time.Time) time.Time {
	d := dayOf(t)
	offset := (int(d.Weekday()) + 6) % 7 // Monday = 0
	return d.AddDate(0, 0, -offset)
}

func monthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

func lastDayOfMonth(t time.Time) int {
	return time.Date(t.Year(), t.Month()+1, 0, 0, 0, 0, 0, t.Location()).Day()
}
