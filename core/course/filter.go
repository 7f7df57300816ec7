package course

import "strings"

// MyCourses keeps the courses the user created or teaches, in source order.
func MyCourses(all []Course, userID ID) []Course {
	mine := make([]Course, 0, len(all))
	for _, c := range all {
		if RoleFor(c, userID) != RoleNone {
			mine = append(mine, c)
		}
	}
	return mine
}

// LessonsForCourse keeps the lessons that belong to courseID, in source order.
func LessonsForCourse(all []Lesson, courseID ID) []Lesson {
	courseID = NewID(string(courseID))
	lessons := make([]Lesson, 0, len(all))
	for _, l := range all {
		if NewID(string(l.CourseID)) == courseID {
			lessons = append(lessons, l)
		}
	}
	return lessons
}

// ApplyFilters does a case-insensitive substring match on the title AND an exact
// status match. Empty criteria match everything.
func ApplyFilters(lessons []Lesson, f Filter) []Lesson {
	if f.IsEmpty() {
		return lessons
	}
	title := strings.ToLower(f.Title)
	filtered := make([]Lesson, 0, len(lessons))
	for _, l := range lessons {
		if title != "" && !strings.Contains(strings.ToLower(l.Title), title) {
			continue
		}
		if f.Status != "" && l.Status != f.Status {
			continue
		}
		filtered = append(filtered, l)
	}
	return filtered
}
