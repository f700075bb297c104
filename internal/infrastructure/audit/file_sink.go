// Package audit пишет события сверки в локальный журнал, одна строка на событие:
//
//	timestamp, eventType, action, payload
//
// timestamp в миллисекундах Unix, payload сериализован в JSON.
package audit

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/niklvrr/FossaOnboarding/internal/domain"
	"go.uber.org/zap"
)

type FileSink struct {
	path string
	mu   sync.Mutex
	now  func() time.Time
	log  *zap.Logger
}

func NewFileSink(path string, log *zap.Logger) *FileSink {
	return &FileSink{
		path: path,
		now:  time.Now,
		log:  log,
	}
}

// Emit дописывает событие в журнал. Ошибки только логируются.
func (s *FileSink) Emit(event domain.AuditEvent) {
	if event.Timestamp.IsZero() {
		event.Timestamp = s.now()
	}

	line, err := formatLine(event)
	if err != nil {
		s.log.Error("failed to encode audit event",
			zap.String("event_type", event.EventType),
			zap.String("action", event.Action),
			zap.Error(err),
		)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := appendLine(s.path, line); err != nil {
		s.log.Error("failed to emit audit event",
			zap.String("path", s.path),
			zap.String("event", line),
			zap.Error(err),
		)
		return
	}

	s.log.Debug("audit event emitted",
		zap.String("event_type", event.EventType),
		zap.String("action", event.Action),
	)
}

func formatLine(event domain.AuditEvent) (string, error) {
	payload, err := json.Marshal(event.Payload)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%d, %s, %s, %s\n",
		event.Timestamp.UnixMilli(),
		event.EventType,
		event.Action,
		payload,
	), nil
}

func appendLine(path, line string) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	if _, err := f.WriteString(line); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
