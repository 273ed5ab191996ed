package service

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/reymarksuan121298-max/kiosk-mapping/internal/domain"
	"github.com/reymarksuan121298-max/kiosk-mapping/internal/metrics"
	"github.com/reymarksuan121298-max/kiosk-mapping/internal/models"
)

// Auditor is an alias for the canonical domain.Auditor interface.
type Auditor = domain.Auditor

// AuditEnqueuer accepts audit entries for asynchronous recording.
type AuditEnqueuer interface {
	Enqueue(entry *models.AuditEntry)
}

// AuditWorker buffers registry audit entries and writes them from a single
// goroutine. Scan audits do not go through here; they share the event's
// transaction.
type AuditWorker struct {
	auditor Auditor
	log     *logrus.Logger
	jobs    chan *models.AuditEntry
}

// NewAuditWorker creates an AuditWorker with the given queue capacity.
func NewAuditWorker(auditor Auditor, log *logrus.Logger, queueSize int) *AuditWorker {
	if queueSize <= 0 {
		queueSize = 1000
	}

	return &AuditWorker{
		auditor: auditor,
		log:     log,
		jobs:    make(chan *models.AuditEntry, queueSize),
	}
}

// Enqueue adds an audit entry. Non-blocking; drops the entry if the queue is full.
func (w *AuditWorker) Enqueue(entry *models.AuditEntry) {
	select {
	case w.jobs <- entry:
		metrics.AuditQueueDepth.Set(float64(len(w.jobs)))
	default:
		w.log.WithFields(logrus.Fields{
			"action": entry.Action,
			"table":  entry.TableName,
		}).Warn("audit queue full, dropping entry")
	}
}

// Run processes entries until the context is cancelled, then drains what is left.
func (w *AuditWorker) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			w.drain()
			return
		case entry := <-w.jobs:
			w.process(entry)
		}
	}
}

func (w *AuditWorker) drain() {
	for {
		select {
		case entry := <-w.jobs:
			w.process(entry)
		default:
			return
		}
	}
}

func (w *AuditWorker) process(entry *models.AuditEntry) {
	metrics.AuditQueueDepth.Set(float64(len(w.jobs)))

	if err := w.auditor.RecordAudit(context.Background(), entry); err != nil {
		w.log.WithError(err).WithField("action", entry.Action).Warn("audit record failed")
	}
}
