package notifier

import (
	"context"
	"sync"
	"time"

	"timeboss-backend/metrics"
	"timeboss-backend/models"
	"timeboss-backend/utils/logger"
)

// DispatcherConfig sizes the delivery queue
type DispatcherConfig struct {
	QueueSize   int
	Workers     int
	SendTimeout time.Duration
}

// Dispatcher turns job events into messages and delivers them from a bounded
// queue so request handlers never wait on an SMS or e-mail provider.
type Dispatcher struct {
	sender  Sender
	cfg     DispatcherConfig
	queue   chan models.Message
	logger  logger.Logger
	now     func() time.Time
	mu      sync.RWMutex
	closed  bool
	started bool
	wg      sync.WaitGroup
}

func NewDispatcher(sender Sender, cfg DispatcherConfig, log logger.Logger) *Dispatcher {
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 256
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.SendTimeout <= 0 {
		cfg.SendTimeout = 10 * time.Second
	}
	return &Dispatcher{
		sender: sender,
		cfg:    cfg,
		queue:  make(chan models.Message, cfg.QueueSize),
		logger: log,
		now:    time.Now,
	}
}

// Start launches the delivery workers. Calling it twice has no effect.
func (d *Dispatcher) Start() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.started || d.closed {
		return
	}
	d.started = true
	for i := 0; i < d.cfg.Workers; i++ {
		d.wg.Add(1)
		go d.run()
	}
	d.logger.Infof("Notification dispatcher started with %d workers", d.cfg.Workers)
}

// Stop closes the queue and waits for queued messages to drain or ctx to end
func (d *Dispatcher) Stop(ctx context.Context) error {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return nil
	}
	d.closed = true
	close(d.queue)
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		d.logger.Info("Notification dispatcher stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Enqueue queues a message for delivery. It reports false when the message was
// dropped because the queue is full or the dispatcher is stopped.
func (d *Dispatcher) Enqueue(msg models.Message) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		d.logger.Warnf("Dropping %s notification to %s: dispatcher stopped", msg.Channel, msg.To)
		metrics.Notifications.WithLabelValues(string(msg.Channel), "dropped").Inc()
		return false
	}
	select {
	case d.queue <- msg:
		metrics.NotificationQueueDepth.Set(float64(len(d.queue)))
		return true
	default:
		d.logger.Warnf("Dropping %s notification to %s: queue full", msg.Channel, msg.To)
		metrics.Notifications.WithLabelValues(string(msg.Channel), "dropped").Inc()
		return false
	}
}

func (d *Dispatcher) NotifyAssignment(job *models.Job, crew *models.Crew, client *models.Client) {
	for _, msg := range AssignmentMessages(job, crew, client, d.now()) {
		d.Enqueue(msg)
	}
}

func (d *Dispatcher) NotifyStatusChange(job *models.Job, crew *models.Crew, client *models.Client) {
	for _, msg := range StatusMessages(job, crew, client, d.now()) {
		d.Enqueue(msg)
	}
}

func (d *Dispatcher) run() {
	defer d.wg.Done()
	for msg := range d.queue {
		metrics.NotificationQueueDepth.Set(float64(len(d.queue)))
		d.deliver(msg)
	}
}

func (d *Dispatcher) deliver(msg models.Message) {
	ctx, cancel := context.WithTimeout(context.Background(), d.cfg.SendTimeout)
	defer cancel()

	if err := d.sender.Send(ctx, msg); err != nil {
		d.logger.WithFields(map[string]interface{}{
			"message_id": msg.ID,
			"channel":    msg.Channel,
			"job_id":     msg.JobID,
		}).Errorf("Failed to send notification to %s: %v", msg.To, err)
		metrics.Notifications.WithLabelValues(string(msg.Channel), "failed").Inc()
		return
	}
	metrics.Notifications.WithLabelValues(string(msg.Channel), "sent").Inc()
}
