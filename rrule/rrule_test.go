// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package rrule

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// TODO: replace with calls to New once go 1.26 is released
func getPointer[T any](v T) *T {
	return &v
}

func TestParseRecurrenceRule(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		want        *RecurrenceRule
		expectError error
	}{
		{
			name:  "Valid daily rule with interval set",
			input: "FREQ=DAILY;INTERVAL=2;COUNT=10",
			want: &RecurrenceRule{
				Frequency: FrequencyDaily,
				Interval:  2,
				Count:     getPointer(10),
				Until:     nil,
				WeekStart: Monday,
			},
			expectError: nil,
		},
		{
			name:        "Invalid frequency",
			input:       "FREQ=DALLY;INTERVAL=2;COUNT=10",
			want:        nil,
			expectError: fmt.Errorf("%w: %s", ErrInvalidFrequency, "DALLY"),
		},
		{
			name:  "Valid daily rule with interval not set",
			input: "FREQ=DAILY;COUNT=10",
			want: &RecurrenceRule{
				Frequency: FrequencyDaily,
				Interval:  1,
				Count:     getPointer(10),
				WeekStart: Monday,
			},
			expectError: nil,
		},
		{
			name:        "Invalid rule: missing frequency",
			input:       "INTERVAL=1;COUNT=10",
			want:        nil,
			expectError: ErrFrequencyRequired,
		},
		{
			name:        "Invalid rule: count and until cannot both be set",
			input:       "FREQ=DAILY;COUNT=10;UNTIL=19730429T070000Z",
			want:        nil,
			expectError: ErrCountAndUntilBothSet,
		},
		{
			name:        "Invalid rule: interval must be a positive integer",
			input:       "FREQ=DAILY;INTERVAL=0;COUNT=10",
			want:        nil,
			expectError: ErrInvalidInterval,
		},
		{
			name:        "Invalid rule: malformed rrule string",
			input:       "FREQ=DAILY;INVALID",
			want:        nil,
			expectError: ErrInvalidRRuleString,
		},
		{
			name:  "Monthly on the third-to-the-last day of the month, forever",
			input: "FREQ=MONTHLY;BYMONTHDAY=-3",
			want: &RecurrenceRule{
				Frequency:  FrequencyMonthly,
				Interval:   1,
				ByMonthDay: []int{-3},
				WeekStart:  Monday,
			},
			expectError: nil,
		},
		{
			name:  "Monthly on the first and last day of the month for 10 occurrences",
			input: "FREQ=MONTHLY;COUNT=10;BYMONTHDAY=1,-1",
			want: &RecurrenceRule{
				Frequency:  FrequencyMonthly,
				Interval:   1,
				Count:      getPointer(10),
				ByMonthDay: []int{1, -1},
				WeekStart:  Monday,
			},
			expectError: nil,
		},
		{
			name:  "Every Tuesday, every other month",
			input: "FREQ=MONTHLY;INTERVAL=2;BYDAY=TU",
			want: &RecurrenceRule{
				Frequency: FrequencyMonthly,
				Interval:  2,
				ByDay: []ByDay{{
					Weekday: Tuesday,
					Pos:     0,
				}},
				WeekStart: Monday,
			},
			expectError: nil,
		},
		{
			name:  "Every third year on the 1st, 100th, and 200th day for 10 occurrences:",
			input: "FREQ=YEARLY;INTERVAL=3;COUNT=10;BYYEARDAY=1,100,200",
			want: &RecurrenceRule{
				Frequency: FrequencyYearly,
				Interval:  3,
				Count:     getPointer(10),
				ByYearDay: []int{1, 100, 200},
				WeekStart: Monday,
			},
			expectError: nil,
		},
		{
			name:  "Every 20th Monday of the year, forever",
			input: "FREQ=YEARLY;BYDAY=20MO",
			want: &RecurrenceRule{
				Frequency: FrequencyYearly,
				Interval:  1,
				ByDay:     []ByDay{{Weekday: Monday, Pos: 20}},
				WeekStart: Monday,
			},
			expectError: nil,
		},
		// DAILY examples from RFC 5545
		{
			name:  "Daily for 10 occurrences",
			input: "FREQ=DAILY;COUNT=10",
			want: &RecurrenceRule{
				Frequency: FrequencyDaily,
				Interval:  1,
				Count:     getPointer(10),
				WeekStart: Monday,
			},
			expectError: nil,
		},
		{
			name:  "Daily until December 24, 1997",
			input: "FREQ=DAILY;UNTIL=19971224T000000Z",
			want: &RecurrenceRule{
				Frequency: FrequencyDaily,
				Interval:  1,
				Until:     getPointer(time.Date(1997, 12, 24, 0, 0, 0, 0, time.UTC)),
				WeekStart: Monday,
			},
			expectError: nil,
		},
		{
			name:  "Every other day - forever",
			input: "FREQ=DAILY;INTERVAL=2",
			want: &RecurrenceRule{
				Frequency: FrequencyDaily,
				Interval:  2,
				WeekStart: Monday,
			},
			expectError: nil,
		},
		{
			name:  "Every 10 days, 5 occurrences",
			input: "FREQ=DAILY;INTERVAL=10;COUNT=5",
			want: &RecurrenceRule{
				Frequency: FrequencyDaily,
				Interval:  10,
				Count:     getPointer(5),
				WeekStart: Monday,
			},
			expectError: nil,
		},
		// WEEKLY examples from RFC 5545
		{
			name:  "Weekly for 10 occurrences",
			input: "FREQ=WEEKLY;COUNT=10",
			want: &RecurrenceRule{
				Frequency: FrequencyWeekly,
				Interval:  1,
				Count:     getPointer(10),
				WeekStart: Monday,
			},
			expectError: nil,
		},
		{
			name:  "Weekly until December 24, 1997",
			input: "FREQ=WEEKLY;UNTIL=19971224T000000Z",
			want: &RecurrenceRule{
				Frequency: FrequencyWeekly,
				Interval:  1,
				Until:     getPointer(time.Date(1997, 12, 24, 0, 0, 0, 0, time.UTC)),
				WeekStart: Monday,
			},
			expectError: nil,
		},
		{
			name:  "Every other week - forever",
			input: "FREQ=WEEKLY;INTERVAL=2",
			want: &RecurrenceRule{
				Frequency: FrequencyWeekly,
				Interval:  2,
				WeekStart: Monday,
			},
			expectError: nil,
		},
		{
			name:  "Weekly on Tuesday and Thursday for five weeks",
			input: "FREQ=WEEKLY;COUNT=10;BYDAY=TU,TH",
			want: &RecurrenceRule{
				Frequency: FrequencyWeekly,
				Interval:  1,
				Count:     getPointer(10),
				ByDay: []ByDay{
					{Weekday: Tuesday, Pos: 0},
					{Weekday: Thursday, Pos: 0},
				},
				WeekStart: Monday,
			},
			expectError: nil,
		},
		{
			name:  "Every other week on Monday, Wednesday, and Friday until December 24, 1997",
			input: "FREQ=WEEKLY;INTERVAL=2;UNTIL=19971224T000000Z;BYDAY=MO,WE,FR",
			want: &RecurrenceRule{
				Frequency: FrequencyWeekly,
				Interval:  2,
				Until:     getPointer(time.Date(1997, 12, 24, 0, 0, 0, 0, time.UTC)),
				ByDay: []ByDay{
					{Weekday: Monday, Pos: 0},
					{Weekday: Wednesday, Pos: 0},
					{Weekday: Friday, Pos: 0},
				},
				WeekStart: Monday,
			},
			expectError: nil,
		},
		{
			name:  "Every other week on Tuesday and Thursday, for 8 occurrences",
			input: "FREQ=WEEKLY;INTERVAL=2;COUNT=8;BYDAY=TU,TH",
			want: &RecurrenceRule{
				Frequency: FrequencyWeekly,
				Interval:  2,
				Count:     getPointer(8),
				ByDay: []ByDay{
					{Weekday: Tuesday, Pos: 0},
					{Weekday: Thursday, Pos: 0},
				},
				WeekStart: Monday,
			},
			expectError: nil,
		},
		// MONTHLY examples from RFC 5545
		{
			name:  "Monthly on the first Friday for 10 occurrences",
			input: "FREQ=MONTHLY;COUNT=10;BYDAY=1FR",
			want: &RecurrenceRule{
				Frequency: FrequencyMonthly,
				Interval:  1,
				Count:     getPointer(10),
				ByDay:     []ByDay{{Weekday: Friday, Pos: 1}},
				WeekStart: Monday,
			},
			expectError: nil,
		},
		{
			name:  "Monthly on the first Friday until December 24, 1997",
			input: "FREQ=MONTHLY;UNTIL=19971224T000000Z;BYDAY=1FR",
			want: &RecurrenceRule{
				Frequency: FrequencyMonthly,
				Interval:  1,
				Until:     getPointer(time.Date(1997, 12, 24, 0, 0, 0, 0, time.UTC)),
				ByDay:     []ByDay{{Weekday: Friday, Pos: 1}},
				WeekStart: Monday,
			},
			expectError: nil,
		},
		{
			name:  "Every other month on the first and last Sunday of the month for 10 occurrences",
			input: "FREQ=MONTHLY;INTERVAL=2;COUNT=10;BYDAY=1SU,-1SU",
			want: &RecurrenceRule{
				Frequency: FrequencyMonthly,
				Interval:  2,
				Count:     getPointer(10),
				ByDay: []ByDay{
					{Weekday: Sunday, Pos: 1},
					{Weekday: Sunday, Pos: -1},
				},
				WeekStart: Monday,
			},
			expectError: nil,
		},
		{
			name:  "Monthly on the second-to-last Monday of the month for 6 months",
			input: "FREQ=MONTHLY;COUNT=6;BYDAY=-2MO",
			want: &RecurrenceRule{
				Frequency: FrequencyMonthly,
				Interval:  1,
				Count:     getPointer(6),
				ByDay:     []ByDay{{Weekday: Monday, Pos: -2}},
				WeekStart: Monday,
			},
			expectError: nil,
		},
		{
			name:  "Monthly on the 2nd and 15th of the month for 10 occurrences",
			input: "FREQ=MONTHLY;COUNT=10;BYMONTHDAY=2,15",
			want: &RecurrenceRule{
				Frequency:  FrequencyMonthly,
				Interval:   1,
				Count:      getPointer(10),
				ByMonthDay: []int{2, 15},
				WeekStart:  Monday,
			},
			expectError: nil,
		},
		{
			name:  "Every 18 months on the 10th thru 15th of the month for 10 occurrences",
			input: "FREQ=MONTHLY;INTERVAL=18;COUNT=10;BYMONTHDAY=10,11,12,13,14,15",
			want: &RecurrenceRule{
				Frequency:  FrequencyMonthly,
				Interval:   18,
				Count:      getPointer(10),
				ByMonthDay: []int{10, 11, 12, 13, 14, 15},
				WeekStart:  Monday,
			},
			expectError: nil,
		},
		// YEARLY examples from RFC 5545
		{
			name:  "Yearly in June and July for 10 occurrences",
			input: "FREQ=YEARLY;COUNT=10;BYMONTH=6,7",
			want: &RecurrenceRule{
				Frequency: FrequencyYearly,
				Interval:  1,
				Count:     getPointer(10),
				ByMonth:   []int{6, 7},
				WeekStart: Monday,
			},
			expectError: nil,
		},
		{
			name:  "Every other year on January, February, and March for 10 occurrences",
			input: "FREQ=YEARLY;INTERVAL=2;COUNT=10;BYMONTH=1,2,3",
			want: &RecurrenceRule{
				Frequency: FrequencyYearly,
				Interval:  2,
				Count:     getPointer(10),
				ByMonth:   []int{1, 2, 3},
				WeekStart: Monday,
			},
			expectError: nil,
		},
		{
			name:  "Every Thursday in March, forever",
			input: "FREQ=YEARLY;BYMONTH=3;BYDAY=TH",
			want: &RecurrenceRule{
				Frequency: FrequencyYearly,
				Interval:  1,
				ByMonth:   []int{3},
				ByDay:     []ByDay{{Weekday: Thursday, Pos: 0}},
				WeekStart: Monday,
			},
			expectError: nil,
		},
		{
			name:  "Every Thursday, but only during June, July, and August, forever",
			input: "FREQ=YEARLY;BYDAY=TH;BYMONTH=6,7,8",
			want: &RecurrenceRule{
				Frequency: FrequencyYearly,
				Interval:  1,
				ByMonth:   []int{6, 7, 8},
				ByDay:     []ByDay{{Weekday: Thursday, Pos: 0}},
				WeekStart: Monday,
			},
			expectError: nil,
		},
		{
			name:  "Every Friday the 13th, forever",
			input: "FREQ=MONTHLY;BYDAY=FR;BYMONTHDAY=13",
			want: &RecurrenceRule{
				Frequency:  FrequencyMonthly,
				Interval:   1,
				ByDay:      []ByDay{{Weekday: Friday, Pos: 0}},
				ByMonthDay: []int{13},
				WeekStart:  Monday,
			},
			expectError: nil,
		},
		// HOURLY and MINUTELY examples from RFC 5545
		{
			name:  "Every 3 hours from 9:00 AM to 5:00 PM on a specific day",
			input: "FREQ=HOURLY;INTERVAL=3;UNTIL=19970902T170000Z",
			want: &RecurrenceRule{
				Frequency: FrequencyHourly,
				Interval:  3,
				Until:     getPointer(time.Date(1997, 9, 2, 17, 0, 0, 0, time.UTC)),
				WeekStart: Monday,
			},
			expectError: nil,
		},
		{
			name:  "Every 15 minutes for 6 occurrences",
			input: "FREQ=MINUTELY;INTERVAL=15;COUNT=6",
			want: &RecurrenceRule{
				Frequency: FrequencyMinutely,
				Interval:  15,
				Count:     getPointer(6),
				WeekStart: Monday,
			},
			expectError: nil,
		},
		{
			name:  "Every hour and a half for 4 occurrences",
			input: "FREQ=MINUTELY;INTERVAL=90;COUNT=4",
			want: &RecurrenceRule{
				Frequency: FrequencyMinutely,
				Interval:  90,
				Count:     getPointer(4),
				WeekStart: Monday,
			},
			expectError: nil,
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			rule, err := ParseRecurrenceRule(test.input)
			if test.expectError != nil {
				assert.Error(t, err)
				assert.ErrorContains(t, err, test.expectError.Error())
				assert.Nil(t, rule)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, test.want, rule)
		})
	}
}

func TestParseByDay(t *testing.T) {
	tests := []struct {
		name            string
		input           string
		expectedPos     int
		expectedWeekday WeekdayCode
		expectError     error
	}{
		{
			name:            "String with interval and weekday",
			input:           "20MO",
			expectedPos:     20,
			expectedWeekday: Monday,
			expectError:     nil,
		},
		{
			name:            "String with just weekday",
			input:           "MO",
			expectedPos:     0,
			expectedWeekday: Monday,
			expectError:     nil,
		},
		{
			name:            "String with interval and Tuesday",
			input:           "5TU",
			expectedPos:     5,
			expectedWeekday: Tuesday,
			expectError:     nil,
		},
		{
			name:            "String with just Tuesday",
			input:           "TU",
			expectedPos:     0,
			expectedWeekday: Tuesday,
			expectError:     nil,
		},
		{
			name:            "String with interval and Wednesday",
			input:           "3WE",
			expectedPos:     3,
			expectedWeekday: Wednesday,
			expectError:     nil,
		},
		{
			name:            "String with just Wednesday",
			input:           "WE",
			expectedPos:     0,
			expectedWeekday: Wednesday,
			expectError:     nil,
		},
		{
			name:            "String with interval and Thursday",
			input:           "7TH",
			expectedPos:     7,
			expectedWeekday: Thursday,
			expectError:     nil,
		},
		{
			name:            "String with just Thursday",
			input:           "TH",
			expectedPos:     0,
			expectedWeekday: Thursday,
			expectError:     nil,
		},
		{
			name:            "String with interval and Friday",
			input:           "2FR",
			expectedPos:     2,
			expectedWeekday: Friday,
			expectError:     nil,
		},
		{
			name:            "String with just Friday",
			input:           "FR",
			expectedPos:     0,
			expectedWeekday: Friday,
			expectError:     nil,
		},
		{
			name:            "String with interval and Saturday",
			input:           "4SA",
			expectedPos:     4,
			expectedWeekday: Saturday,
			expectError:     nil,
		},
		{
			name:            "String with just Saturday",
			input:           "SA",
			expectedPos:     0,
			expectedWeekday: Saturday,
			expectError:     nil,
		},
		{
			name:            "String with interval and Sunday",
			input:           "6SU",
			expectedPos:     6,
			expectedWeekday: Sunday,
			expectError:     nil,
		},
		{
			name:            "String with just Sunday",
			input:           "SU",
			expectedPos:     0,
			expectedWeekday: Sunday,
			expectError:     nil,
		},
		{
			name:        "Invalid string returns error",
			input:       "INVALID",
			expectedPos: 0,
			expectError: ErrInvalidByDayString,
		},
		{
			name:        "Empty string returns error",
			input:       "",
			expectedPos: 0,
			expectError: ErrInvalidByDayString,
		},
		{
			name:            "String with invalid weekday returns error",
			input:           "5XX",
			expectedPos:     0,
			expectedWeekday: "",
			expectError:     ErrInvalidByDayString,
		},
		{
			name:            "String with negative interval and weekday",
			input:           "-1SU",
			expectedPos:     -1,
			expectedWeekday: Sunday,
			expectError:     nil,
		},
		{
			name:            "String with negative interval and Monday",
			input:           "-2MO",
			expectedPos:     -2,
			expectedWeekday: Monday,
			expectError:     nil,
		},
		{
			name:            "String with negative interval and Friday",
			input:           "-3FR",
			expectedPos:     -3,
			expectedWeekday: Friday,
			expectError:     nil,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			pos, weekday, err := ParseByDay(test.input)
			if test.expectError != nil {
				assert.ErrorIs(t, err, test.expectError)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, test.expectedPos, pos)
			assert.Equal(t, test.expectedWeekday, weekday)
		})
	}
}
