package course

// Roles a user can hold on a course.
const (
	RoleNone       Role = "none"
	RoleInstructor Role = "instructor"
	RoleCreator    Role = "creator"
)

type Role string

// RoleFor derives the relationship between a user and a course.
// Creator takes precedence over instructor.
func RoleFor(c Course, userID ID) Role {
	userID = NewID(string(userID))
	if userID.IsZero() {
		return RoleNone
	}
	if NewID(string(c.CreatorID)) == userID {
		return RoleCreator
	}
	if c.Instructors.Contains(userID) {
		return RoleInstructor
	}
	return RoleNone
}

func CanViewCourse(c Course, userID ID) bool {
	return RoleFor(c, userID) != RoleNone
}

func CanCreateLesson(c Course, userID ID) bool {
	role := RoleFor(c, userID)
	return role == RoleCreator || role == RoleInstructor
}

func CanEditOrDeleteLesson(l Lesson, c Course, userID ID) bool {
	userID = NewID(string(userID))
	if !userID.IsZero() && NewID(string(l.CreatorID)) == userID {
		return true
	}
	return RoleFor(c, userID) == RoleCreator
}

func CanManageInstructors(c Course, userID ID) bool {
	return RoleFor(c, userID) == RoleCreator
}

func CanEditCourse(c Course, userID ID) bool {
	return RoleFor(c, userID) == RoleCreator
}

// Permissions lists what a user may do on a course.
type Permissions struct {
	Role              Role `json:"role"`
	EditCourse        bool `json:"edit_course"`
	ManageInstructors bool `json:"manage_instructors"`
	CreateLesson      bool `json:"create_lesson"`
}

func PermissionsFor(c Course, userID ID) Permissions {
	return Permissions{
		Role:              RoleFor(c, userID),
		EditCourse:        CanEditCourse(c, userID),
		ManageInstructors: CanManageInstructors(c, userID),
		CreateLesson:      CanCreateLesson(c, userID),
	}
}
