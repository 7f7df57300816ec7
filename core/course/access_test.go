package course

import "testing"

func TestPermissionsFor(t *testing.T) {
	c := Course{ID: "1", CreatorID: "1", Instructors: NewIDSet("5")}

	tests := []struct {
		name   string
		course Course
		userID ID
		want   Permissions
	}{
		{
			name: "creator", course: Course{ID: "1", CreatorID: "1"}, userID: "1",
			want: Permissions{Role: RoleCreator, EditCourse: true, ManageInstructors: true, CreateLesson: true},
		},
		{name: "stranger", course: Course{ID: "1", CreatorID: "1"}, userID: "2", want: Permissions{Role: RoleNone}},
		{name: "instructor", course: c, userID: "5", want: Permissions{Role: RoleInstructor, CreateLesson: true}},
		{name: "instructor (string id)", course: c, userID: " 05", want: Permissions{Role: RoleInstructor, CreateLesson: true}},
		{name: "anonymous", course: c, userID: "", want: Permissions{Role: RoleNone}},
		{
			name: "creator listed as instructor", course: Course{ID: "1", CreatorID: "1", Instructors: NewIDSet("1")}, userID: "1",
			want: Permissions{Role: RoleCreator, EditCourse: true, ManageInstructors: true, CreateLesson: true},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PermissionsFor(tt.course, tt.userID); got != tt.want {
				t.Errorf("PermissionsFor() = %+v, want %+v", got, tt.want)
			}
			if got := CanViewCourse(tt.course, tt.userID); got != (tt.want.Role != RoleNone) {
				t.Errorf("CanViewCourse() = %v", got)
			}
		})
	}
}

func TestCanEditOrDeleteLesson(t *testing.T) {
	c := Course{ID: "1", CreatorID: "1", Instructors: NewIDSet("2", "3")}

	tests := []struct {
		name   string
		lesson Lesson
		userID ID
		want   bool
	}{
		{name: "lesson creator", lesson: Lesson{CreatorID: "2"}, userID: "2", want: true},
		{name: "course creator", lesson: Lesson{CreatorID: "2"}, userID: "1", want: true},
		{name: "other instructor", lesson: Lesson{CreatorID: "2"}, userID: "3"},
		{name: "stranger", lesson: Lesson{CreatorID: "2"}, userID: "4"},
		{name: "anonymous on orphan lesson", lesson: Lesson{}, userID: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanEditOrDeleteLesson(tt.lesson, c, tt.userID); got != tt.want {
				t.Errorf("CanEditOrDeleteLesson() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMyCourses(t *testing.T) {
	all := []Course{
		{ID: "1", CreatorID: "1"},
		{ID: "2", CreatorID: "2", Instructors: NewIDSet("1")},
		{ID: "3", CreatorID: "3"},
	}
	got := MyCourses(all, "1")
	if len(got) != 2 || got[0].ID != "1" || got[1].ID != "2" {
		t.Errorf("MyCourses() = %+v", got)
	}
	if got := MyCourses(all, "9"); len(got) != 0 {
		t.Errorf("MyCourses() = %+v, want none", got)
	}
}
