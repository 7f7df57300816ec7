package course

import (
	"reflect"
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/coursesphere/core"
)

var (
	NowFunc = time.Now // mockable

	futureTag  = "future"
	futureText = "{0} must be in the future"

	endBeforeStartTag  = "end_after_start"
	endBeforeStartText = "end date must not be before the start date"

	statusText = "{0} must be one of draft, published or archived"
)

// InitValidators registers the course validators & their translations.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	// dates are validated as time.Time; the zero Date counts as missing
	validate.RegisterCustomTypeFunc(dateValue, Date{})

	_ = validate.RegisterValidation(futureTag, futureValidation)
	core.RegisterCustomTranslation(validate, translator, futureTag, futureText)

	validate.RegisterStructValidation(courseStructValidation, CourseData{})
	core.RegisterCustomTranslation(validate, translator, endBeforeStartTag, endBeforeStartText)

	core.RegisterCustomTranslation(validate, translator, "oneof", statusText, true)
}

func dateValue(v reflect.Value) interface{} {
	if d, ok := v.Interface().(Date); ok && !d.IsZero() {
		return d.Time
	}
	return nil
}

// futureValidation only accepts dates strictly after today.
func futureValidation(fl validator.FieldLevel) bool {
	t, ok := fl.Field().Interface().(time.Time)
	if !ok {
		return false
	}
	y, m, d := NowFunc().Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return t.After(today)
}

// courseStructValidation checks that a course does not end before it starts.
func courseStructValidation(sl validator.StructLevel) {
	cd, ok := sl.Current().Interface().(CourseData)
	if !ok || cd.StartDate.IsZero() || cd.EndDate.IsZero() {
		return
	}
	if cd.EndDate.Before(cd.StartDate.Time) {
		sl.ReportError(cd.EndDate, "end_date", "EndDate", endBeforeStartTag, "")
	}
}
