// Package sos alerts a tenant's emergency contacts when an SOS incident
// is raised, and offers an explicit bulk SMS resend.
package sos

import (
	"context"
	"sync"
	"time"
	_ "time/tzdata"

	"rakshak-service/config"
	"rakshak-service/internal/contact"
	"rakshak-service/internal/incident"
	"rakshak-service/internal/metrics"
	"rakshak-service/internal/models"
	"rakshak-service/internal/notify"
	"rakshak-service/pkg/apperror"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const logWriteTimeout = 5 * time.Second

// IncidentFinder returns nil, nil when the incident does not exist.
type IncidentFinder interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*incident.Incident, error)
}

type ContactLister interface {
	List(ctx context.Context, tenant string) ([]*contact.Contact, error)
}

// Pusher broadcasts one alert to moderators.
type Pusher interface {
	Push(ctx context.Context, title, body string, data map[string]string) notify.Result
}

type ContactResult struct {
	Contact string `json:"contact"`
	Phone   string `json:"phone"`
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

type BulkResult struct {
	Success bool            `json:"success"`
	Sent    int             `json:"sent"`
	Total   int             `json:"total"`
	Results []ContactResult `json:"results"`
}

type Orchestrator struct {
	incidents IncidentFinder
	contacts  ContactLister
	sms       notify.Sender
	whatsapp  notify.Sender
	pusher    Pusher
	logs      DispatchLogRepository
	metrics   *metrics.Metrics
	logger    *zap.SugaredLogger

	location *time.Location
	timeout  time.Duration
	sem      chan struct{}
	wg       sync.WaitGroup
}

// NewOrchestrator wires the channels. pusher and logs may be nil.
func NewOrchestrator(
	cfg config.NotifyConfig,
	incidents IncidentFinder,
	contacts ContactLister,
	sms notify.Sender,
	whatsapp notify.Sender,
	pusher Pusher,
	logs DispatchLogRepository,
	m *metrics.Metrics,
	logger *zap.SugaredLogger,
) *Orchestrator {
	loc, err := time.LoadLocation(cfg.TimeZone)
	if err != nil || cfg.TimeZone == "" {
		logger.Warnw("unknown notify time zone, using UTC", "time_zone", cfg.TimeZone)
		loc = time.UTC
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	maxConcurrent := cfg.MaxConcurrent
	if maxConcurrent <= 0 {
		maxConcurrent = 16
	}

	return &Orchestrator{
		incidents: incidents,
		contacts:  contacts,
		sms:       sms,
		whatsapp:  whatsapp,
		pusher:    pusher,
		logs:      logs,
		metrics:   m,
		logger:    logger,
		location:  loc,
		timeout:   timeout,
		sem:       make(chan struct{}, maxConcurrent),
	}
}

// DispatchSOS starts the moderator push and the contact fan-out and
// returns immediately. inc is owned by the dispatch from here on. The
// push, the contact load and every send each get their own deadline.
func (o *Orchestrator) DispatchSOS(tenant string, inc incident.Incident) {
	if o.pusher != nil {
		o.detach(inc.ID, func() { o.push(tenant, &inc) })
	}
	o.detach(inc.ID, func() { o.dispatch(tenant, &inc) })
}

func (o *Orchestrator) detach(incidentID primitive.ObjectID, fn func()) {
	o.wg.Add(1)
	go func() {
		defer o.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				o.logger.Errorw("sos dispatch panicked", "incident_id", incidentID.Hex(), "panic", r)
			}
		}()
		fn()
	}()
}

func (o *Orchestrator) push(tenant string, inc *incident.Incident) {
	ctx, cancel := context.WithTimeout(context.Background(), o.timeout)
	defer cancel()

	res := o.pusher.Push(ctx, incident.SOSTitle, inc.Location.Address, map[string]string{
		"incidentId": inc.ID.Hex(),
		"tenant":     tenant,
	})
	o.record(tenant, models.TriggerSOS, inc.ID, nil, notify.ChannelPush, res)
}

func (o *Orchestrator) dispatch(tenant string, inc *incident.Incident) {
	message := AlertMessage(inc, o.location)

	loadCtx, cancel := context.WithTimeout(context.Background(), o.timeout)
	contacts, err := o.contacts.List(loadCtx, tenant)
	cancel()
	if err != nil {
		o.logger.Errorw("sos dispatch: failed to load contacts", "incident_id", inc.ID.Hex(), "tenant", tenant, "error", err)
		return
	}

	if len(contacts) == 0 {
		o.metrics.IncSOSDispatch(false)
		o.logger.Warnw("sos dispatch: no emergency contacts", "incident_id", inc.ID.Hex(), "tenant", tenant)
		return
	}
	o.metrics.IncSOSDispatch(true)

	o.logger.Infow("sos dispatch started", "incident_id", inc.ID.Hex(), "tenant", tenant, "contacts", len(contacts))

	var wg sync.WaitGroup
	for _, c := range contacts {
		for _, sender := range []notify.Sender{o.sms, o.whatsapp} {
			wg.Add(1)
			go func(c contact.Contact, sender notify.Sender) {
				defer wg.Done()
				res := o.sendDetached(sender, c.Phone, message)
				o.record(tenant, models.TriggerSOS, inc.ID, &c, sender.Channel(), res)
			}(*c, sender)
		}
	}
	wg.Wait()
}

// sendDetached waits for a free slot, then gives the attempt its own
// deadline. The slot is released at the deadline even if the provider
// ignores ctx, so one stuck channel cannot starve the other.
func (o *Orchestrator) sendDetached(sender notify.Sender, phone, message string) notify.Result {
	o.sem <- struct{}{}
	defer func() { <-o.sem }()

	ctx, cancel := context.WithTimeout(context.Background(), o.timeout)
	defer cancel()

	done := make(chan notify.Result, 1)
	go func() {
		done <- o.call(ctx, sender, phone, message)
	}()

	select {
	case res := <-done:
		return res
	case <-ctx.Done():
		return notify.Result{Success: false, Error: ctx.Err().Error()}
	}
}

// send runs one attempt under the concurrency limit and the caller's ctx.
func (o *Orchestrator) send(ctx context.Context, sender notify.Sender, phone, message string) notify.Result {
	select {
	case o.sem <- struct{}{}:
		defer func() { <-o.sem }()
	case <-ctx.Done():
		return notify.Result{Success: false, Error: ctx.Err().Error()}
	}
	return o.call(ctx, sender, phone, message)
}

func (o *Orchestrator) call(ctx context.Context, sender notify.Sender, phone, message string) (res notify.Result) {
	defer func() {
		if r := recover(); r != nil {
			res = notify.Result{Success: false, Error: "provider panic"}
		}
	}()
	return sender.Send(ctx, phone, message)
}

func (o *Orchestrator) record(tenant, trigger string, incidentID primitive.ObjectID, c *contact.Contact, channel notify.Channel, res notify.Result) {
	o.metrics.IncNotification(string(channel), res.Success)

	fields := []interface{}{
		"incident_id", incidentID.Hex(),
		"tenant", tenant,
		"channel", channel,
		"trigger", trigger,
	}
	if c != nil {
		fields = append(fields, "contact", c.Name, "phone", c.Phone)
	}
	if res.Success {
		o.logger.Infow("notification sent", append(fields, "message_id", res.MessageID)...)
	} else {
		o.logger.Warnw("notification failed", append(fields, "error", res.Error)...)
	}

	if o.logs == nil {
		return
	}

	entry := &models.DispatchLog{
		IncidentID: incidentID,
		Tenant:     tenant,
		Trigger:    trigger,
		Channel:    string(channel),
		Success:    res.Success,
		MessageID:  res.MessageID,
		Error:      res.Error,
		CreatedAt:  time.Now().UTC(),
	}
	if c != nil {
		entry.ContactName = c.Name
		entry.Phone = c.Phone
	}

	ctx, cancel := context.WithTimeout(context.Background(), logWriteTimeout)
	defer cancel()
	if err := o.logs.Record(ctx, entry); err != nil {
		o.logger.Warnw("failed to write dispatch log", "incident_id", incidentID.Hex(), "error", err)
	}
}

// SendSOSSMS sends the alert by SMS to every contact of tenant, one
// after another, and reports the per-contact outcome.
func (o *Orchestrator) SendSOSSMS(ctx context.Context, incidentID, tenant string) (*BulkResult, error) {
	if tenant == "" {
		return nil, apperror.Validation("userId is required")
	}

	oid, err := primitive.ObjectIDFromHex(incidentID)
	if err != nil {
		return nil, apperror.NotFound("incident not found")
	}

	inc, err := o.incidents.FindByID(ctx, oid)
	if err != nil {
		return nil, apperror.Internal("failed to load incident", err)
	}
	if inc == nil {
		return nil, apperror.NotFound("incident not found")
	}
	if !inc.IsSOS {
		return nil, apperror.Validation("invalid SOS incident")
	}

	contacts, err := o.contacts.List(ctx, tenant)
	if err != nil {
		return nil, err
	}
	if len(contacts) == 0 {
		return nil, apperror.Validation("no emergency contacts found")
	}

	message := BulkSMSMessage(inc, o.location)

	out := &BulkResult{
		Success: true,
		Total:   len(contacts),
		Results: make([]ContactResult, 0, len(contacts)),
	}
	for _, c := range contacts {
		res := o.send(ctx, o.sms, c.Phone, message)
		o.record(tenant, models.TriggerBulkSMS, inc.ID, c, notify.ChannelSMS, res)

		out.Results = append(out.Results, ContactResult{
			Contact: c.Name,
			Phone:   c.Phone,
			Success: res.Success,
			Error:   res.Error,
		})
		if res.Success {
			out.Sent++
		}
	}

	return out, nil
}

// DispatchLogs lists the recorded attempts for one incident.
func (o *Orchestrator) DispatchLogs(ctx context.Context, incidentID string) ([]*models.DispatchLog, error) {
	oid, err := primitive.ObjectIDFromHex(incidentID)
	if err != nil {
		return nil, apperror.NotFound("incident not found")
	}
	if o.logs == nil {
		return []*models.DispatchLog{}, nil
	}
	logs, err := o.logs.FindByIncident(ctx, oid)
	if err != nil {
		return nil, apperror.Internal("failed to load dispatch logs", err)
	}
	return logs, nil
}

// Wait blocks until every in-flight dispatch finished or ctx is done.
func (o *Orchestrator) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		o.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
