package logsvc

import (
	"bytes"
	"log"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/coursesphere/core"
	"github.com/trezcool/coursesphere/core/course"
)

func newTestLogger(buf *bytes.Buffer) RollbarLogger {
	logger := NewRollbarLogger(log.New(buf, "", 0), &core.Config{Env: "TEST"})
	logger.Enable(false)
	return *logger
}

func Test_newEntry(t *testing.T) {
	err := errors.New("boom")
	other := errors.New("second")
	usr := course.User{ID: course.IntID(1), Name: "Alice", Email: "alice@example.com"}

	e := newEntry("error", "failed", []interface{}{
		err, usr, course.User{ID: course.IntID(2)}, other,
		map[string]interface{}{"course": 1}, map[string]interface{}{"lesson": 3}, 42,
	})

	assert.Equal(t, err, e.err)
	require.NotNil(t, e.user)
	assert.Equal(t, usr, *e.user)
	assert.Equal(t, map[string]interface{}{"course": 1, "lesson": 3}, e.extras)
	assert.Equal(t, []interface{}{other, 42}, e.rest)
	assert.Equal(t, []interface{}{"failed", err, e.extras}, e.rollbarArgs())
}

func Test_entry_rollbarArgs(t *testing.T) {
	assert.Equal(t, []interface{}{"plain"}, newEntry("info", "plain", nil).rollbarArgs())
}

func TestRollbarLogger_print(t *testing.T) {
	tests := []struct {
		name     string
		log      func(RollbarLogger)
		wantHead string
		wantRest []string
	}{
		{
			name:     "message only",
			log:      func(l RollbarLogger) { l.Debug("starting") },
			wantHead: "DEBUG starting",
		},
		{
			name: "user & extras",
			log: func(l RollbarLogger) {
				l.Warn("duplicate instructor", course.User{ID: course.IntID(7)}, map[string]interface{}{"b": 2, "a": "x"})
			},
			wantHead: "WARNING duplicate instructor [user #7]",
			wantRest: []string{"a=x", "b=2"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.log(newTestLogger(&buf))
			lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
			assert.Equal(t, append([]string{tt.wantHead}, tt.wantRest...), lines)
		})
	}

	t.Run("error keeps its stack", func(t *testing.T) {
		var buf bytes.Buffer
		newTestLogger(&buf).Info("loading courses", errors.New("timeout"))

		out := buf.String()
		assert.True(t, strings.HasPrefix(out, "INFO loading courses\ntimeout\n"), out)
		assert.Contains(t, out, "TestRollbarLogger_print")
	})
}

func TestRollbarLogger_Fatal(t *testing.T) {
	var code int
	orig := exit
	exit = func(c int) { code = c }
	t.Cleanup(func() { exit = orig })

	var buf bytes.Buffer
	newTestLogger(&buf).Fatal("server error")
	assert.Equal(t, 1, code)
	assert.Equal(t, "CRITICAL server error\n", buf.String())
}
