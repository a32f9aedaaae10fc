package records

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var base = time.Date(2020, time.February, 3, 0, 0, 0, 0, time.UTC)

func day(n int) time.Time {
	return base.AddDate(0, 0, n)
}

func TestDefaults(t *testing.T) {
	doc := NewDocument("Chimie", "Plan de cours", base, false, "  ")
	require.Equal(t, LinkLabel, doc.AttachmentName())
	require.False(t, doc.Seen())
	require.Equal(t, "03/Feb/2020", doc.DateString())

	event := NewCalendarEvent("", "Journée pédagogique", base, "")
	require.Equal(t, NotACourse, event.CourseName())
	require.Equal(t, NoDescription, event.Description())
	require.True(t, event.Seen())

	assignment := NewAssignment("Chimie", "Labo 1", base, true, true)
	require.True(t, assignment.Completed())
	require.Equal(t, "Chimie", assignment.CourseName())
}

func TestTimestampIsNotShared(t *testing.T) {
	ts := base
	doc := NewDocument("Chimie", "Plan de cours", ts, true, "plan.pdf")
	ts = ts.AddDate(1, 0, 0)

	require.Equal(t, base, doc.Timestamp())
	got := doc.Timestamp()
	got = got.AddDate(5, 0, 0)
	require.Equal(t, base, doc.Timestamp())
}

func TestCompareAndEqual(t *testing.T) {
	a := NewDocument("Chimie", "A", day(0), true, "")
	b := NewDocument("Physique", "B", day(0), false, "x.pdf")
	c := NewDocument("Chimie", "A", day(1), true, "")
	aCopy := NewDocument("Physique", "A", day(0), false, "other.pdf")

	require.Negative(t, Compare(a, b))
	require.Positive(t, Compare(c, b))
	require.Zero(t, Compare(a, aCopy))

	require.True(t, Equal(a, aCopy))
	require.False(t, Equal(a, b))
	require.False(t, Equal(a, c))
}

func TestSortedIsAscendingForAnyInsertionOrder(t *testing.T) {
	rndm := rand.New(rand.NewSource(42))

	var list []*Assignment
	for i := 0; i < 50; i++ {
		title := string(rune('a' + rndm.Intn(26)))
		list = append(list, NewAssignment("Chimie", title, day(rndm.Intn(10)), true, false))
	}

	for round := 0; round < 20; round++ {
		rndm.Shuffle(len(list), func(i, j int) {
			list[i], list[j] = list[j], list[i]
		})
		sorted := Sorted(list)
		require.Len(t, sorted, len(list))
		for i := 1; i < len(sorted); i++ {
			require.LessOrEqual(t, Compare(sorted[i-1], sorted[i]), 0)
		}
	}
}

func TestSortedDoesNotMutateInput(t *testing.T) {
	list := []*Document{
		NewDocument("Chimie", "B", day(2), true, ""),
		NewDocument("Chimie", "A", day(1), true, ""),
	}
	_ = Sorted(list)
	require.Equal(t, "B", list[0].Title())
}

func TestSlice(t *testing.T) {
	sorted := []int{1, 2, 3, 4, 5}

	testCases := []struct {
		n        int
		newest   bool
		expected []int
	}{
		{n: 2, newest: true, expected: []int{4, 5}},
		{n: 2, newest: false, expected: []int{1, 2}},
		{n: 5, newest: true, expected: []int{1, 2, 3, 4, 5}},
		{n: 100, newest: true, expected: []int{1, 2, 3, 4, 5}},
		{n: 100, newest: false, expected: []int{1, 2, 3, 4, 5}},
		{n: 0, newest: true, expected: []int{}},
		{n: -3, newest: false, expected: []int{}},
	}

	for _, test := range testCases {
		got := Slice(sorted, test.n, test.newest)
		require.Equal(t, test.expected, got, "n=%d newest=%v", test.n, test.newest)
	}

	require.Empty(t, Slice([]int{}, 3, true))
	require.Empty(t, Slice[int](nil, 3, false))
}

func TestSliceReturnsCopy(t *testing.T) {
	sorted := []int{1, 2, 3}
	got := Slice(sorted, 2, false)
	got[0] = 100
	require.Equal(t, 1, sorted[0])
}

func TestAsRecords(t *testing.T) {
	events := []*CalendarEvent{NewCalendarEvent("Chimie", "Examen", base, "Salle B")}
	recs := AsRecords(events)
	require.Len(t, recs, 1)
	require.Equal(t, "Examen", recs[0].Title())
}
