package logsvc

import (
	"bytes"
	"fmt"
	"log"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lgoenaga/front-gea-cesde-sub000/core"
)

type operator struct{}

func (operator) LogIdentity() (id, username, email string) {
	return "7", "coord", "coord@example.com"
}

func newTestLogger(debug bool) (*RollbarLogger, *bytes.Buffer) {
	var buf bytes.Buffer
	l := NewRollbarLogger(log.New(&buf, "", 0), &core.Config{Env: "test", Debug: debug})
	l.Enable(false)
	return l, &buf
}

func TestRollbarLogger(t *testing.T) {
	tests := []struct {
		name  string
		debug bool
		logFn func(l *RollbarLogger)
		want  string
	}{
		{
			name:  "debug hidden",
			logFn: func(l *RollbarLogger) { l.Debug("GET /courses") },
			want:  "",
		},
		{
			name:  "debug shown",
			debug: true,
			logFn: func(l *RollbarLogger) { l.Debug("GET /courses") },
			want:  "[DEBUG] GET /courses\n",
		},
		{
			name:  "error with args",
			logFn: func(l *RollbarLogger) { l.Error("saving grade", fmt.Errorf("boom"), operator{}) },
			want:  "[ERROR] saving grade\n  boom\n  user: coord\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, buf := newTestLogger(tt.debug)
			tt.logFn(l)
			assert.Equal(t, tt.want, buf.String())
		})
	}
}
