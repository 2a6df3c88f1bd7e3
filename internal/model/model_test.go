package model

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 12, 0, 0, 0, time.UTC)
}

func TestRepeatRuleNext(t *testing.T) {
	// 2026-08-28 is a Friday.
	friday := date(2026, time.August, 28)

	cases := []struct {
		rule RepeatRule
		from time.Time
		want time.Time
	}{
		{RepeatDaily, friday, date(2026, time.August, 29)},
		{RepeatWeekly, friday, date(2026, time.September, 4)},
		{RepeatMonthly, friday, date(2026, time.September, 28)},
		{RepeatYearly, friday, date(2027, time.August, 28)},
		// Friday -> skip the weekend to Monday.
		{RepeatWeekdays, friday, date(2026, time.August, 31)},
		// Friday -> Saturday.
		{RepeatWeekends, friday, date(2026, time.August, 29)},
		// Saturday -> next weekend day is Sunday.
		{RepeatWeekends, date(2026, time.August, 29), date(2026, time.August, 30)},
		// Sunday -> the following Saturday.
		{RepeatWeekends, date(2026, time.August, 30), date(2026, time.September, 5)},
		// Monday -> Tuesday.
		{RepeatWeekdays, date(2026, time.August, 31), date(2026, time.September, 1)},
	}
	for _, tc := range cases {
		got := tc.rule.Next(tc.from)
		if !got.Equal(tc.want) {
			t.Errorf("%s.Next(%s) = %s, want %s", tc.rule, tc.from.Format("2006-01-02"), got.Format("2006-01-02"), tc.want.Format("2006-01-02"))
		}
	}
}

func TestTaskSetStatusCompletedAt(t *testing.T) {
	task := NewTask("write report", "", PriorityMedium)
	if task.CompletedAt != nil {
		t.Fatalf("new task has CompletedAt set")
	}

	done := date(2026, time.August, 30)
	task.SetStatus(StatusCompleted, done)
	if task.CompletedAt == nil || !task.CompletedAt.Equal(done) {
		t.Fatalf("CompletedAt = %v, want %s", task.CompletedAt, done)
	}

	// Completing again keeps the original completion time.
	later := done.AddDate(0, 0, 1)
	task.SetStatus(StatusCompleted, later)
	if !task.CompletedAt.Equal(done) {
		t.Fatalf("re-completing moved CompletedAt to %s", task.CompletedAt)
	}

	// Reopening clears it.
	task.SetStatus(StatusInProgress, later)
	if task.Status != StatusInProgress || task.CompletedAt != nil {
		t.Fatalf("after reopen: status=%s completedAt=%v", task.Status, task.CompletedAt)
	}

	task.SetStatus(StatusCancelled, later)
	if task.CompletedAt != nil {
		t.Fatalf("cancelled task has CompletedAt set")
	}
}

func TestBudgetPeriodEndDate(t *testing.T) {
	start := date(2026, time.January, 31)

	if got := PeriodWeekly.EndDate(start); !got.Equal(date(2026, time.February, 7)) {
		t.Errorf("weekly end = %s", got)
	}
	// AddDate normalizes Jan 31 + 1 month to Mar 3 (2026 is not a leap year).
	if got := PeriodMonthly.EndDate(start); !got.Equal(date(2026, time.March, 3)) {
		t.Errorf("monthly end = %s", got)
	}
	if got := PeriodYearly.EndDate(start); !got.Equal(date(2027, time.January, 31)) {
		t.Errorf("yearly end = %s", got)
	}
}

func TestBudgetWindowAndProgress(t *testing.T) {
	b := NewBudget("groceries", 400, PeriodMonthly, CategoryFood)
	if !b.EndDate.Equal(b.Period.EndDate(b.StartDate)) {
		t.Fatalf("EndDate %s not derived from period", b.EndDate)
	}

	start := date(2026, time.June, 1)
	b.SetWindow(PeriodWeekly, start)
	if !b.EndDate.Equal(date(2026, time.June, 8)) {
		t.Fatalf("SetWindow end = %s", b.EndDate)
	}
	if b.IsExpired(date(2026, time.June, 8)) {
		t.Errorf("budget expired exactly at end date")
	}
	if !b.IsExpired(date(2026, time.June, 9)) {
		t.Errorf("budget not expired after end date")
	}

	b.Spent = 100
	if got := b.Remaining(); got != 300 {
		t.Errorf("Remaining = %v, want 300", got)
	}
	if got := b.Progress(); got != 0.25 {
		t.Errorf("Progress = %v, want 0.25", got)
	}
	if b.IsOverBudget() {
		t.Errorf("IsOverBudget true at 25%%")
	}

	b.Spent = 500
	if got := b.Progress(); got != 1 {
		t.Errorf("Progress = %v, want clamp to 1", got)
	}
	if !b.IsOverBudget() {
		t.Errorf("IsOverBudget false when spent exceeds amount")
	}

	b.Amount = 0
	if got := b.Progress(); got != 0 {
		t.Errorf("Progress with zero amount = %v, want 0", got)
	}
}
