package service

import (
	"sort"

	"github.com/noah-isme/section-planner-api/internal/dto"
	"github.com/noah-isme/section-planner-api/internal/models"
	"github.com/noah-isme/section-planner-api/internal/scheduler"
)

// BuildWeek lays the meetings of the given sections out per weekday, Saturday first.
// Days without meetings are omitted and meetings with unknown days are dropped.
func BuildWeek(sections []models.Section) []dto.DayMeetings {
	byDay := make(map[scheduler.Weekday][]dto.MeetingSlot)
	for _, section := range sections {
		faculty := section.FacultyName
		if faculty == "" {
			faculty = section.FacultyInitial
		}
		meetings := [2]struct{ day, time, room string }{
			{section.Day1, section.Time1, section.Room1},
			{section.Day2, section.Time2, section.Room2},
		}
		for _, m := range meetings {
			day, ok := scheduler.ParseWeekday(m.day)
			if !ok {
				continue
			}
			r := scheduler.ParseRange(m.time)
			byDay[day] = append(byDay[day], dto.MeetingSlot{
				CourseCode: section.CourseCode,
				Section:    section.SectionLabel,
				Time:       m.time,
				Start:      r.Start,
				End:        r.End,
				Room:       m.room,
				Faculty:    faculty,
			})
		}
	}

	week := make([]dto.DayMeetings, 0, len(byDay))
	for _, day := range scheduler.AllWeekdays() {
		meetings, ok := byDay[day]
		if !ok {
			continue
		}
		sort.SliceStable(meetings, func(i, j int) bool {
			return meetings[i].Start < meetings[j].Start
		})
		week = append(week, dto.DayMeetings{Day: day.String(), Meetings: meetings})
	}
	return week
}
