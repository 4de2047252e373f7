package slack

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/kurotych/fluckybackup/internal/model"
)

const (
	// TestMessage is the fixed text posted by the settings dialog's Test action.
	TestMessage = "Hello from Qt!"
	// MsgTestSent is shown as soon as a test message has been submitted.
	MsgTestSent = "Test message sent to Slack webhook!"

	defaultUserAgent = "fluckybackup"
)

// Payload is the JSON body of an incoming-webhook POST.
type Payload struct {
	Text string `json:"text"`
}

// Request is a single submitted notification.
type Request struct {
	ID          string
	URL         string
	Text        string
	Body        []byte
	SubmittedAt time.Time
}

// Outcome is the single completion of a Request.
type Outcome struct {
	Request     Request
	Kind        model.OutcomeKind
	StatusCode  int
	Body        []byte
	Err         error
	CompletedAt time.Time
}

// Sent reports whether the endpoint accepted the notification.
func (o Outcome) Sent() bool {
	return o.Kind == model.OutcomeSent
}

// Delivery converts the outcome into a history record. The URL is redacted.
func (o Outcome) Delivery() *model.Delivery {
	d := model.NewDelivery(o.Request.ID, RedactURL(o.Request.URL), o.Request.Text, o.Kind)
	d.StatusCode = o.StatusCode
	d.SetBody(o.Body)
	if o.Err != nil {
		d.Error = o.Err.Error()
	}
	if !o.Request.SubmittedAt.IsZero() {
		d.SubmittedAt = o.Request.SubmittedAt.Unix()
	}
	if !o.CompletedAt.IsZero() {
		d.CompletedAt = o.CompletedAt.Unix()
	}
	return d
}

// TransportError describes a failed delivery. StatusCode and Body are set
// when the endpoint answered with a non-2xx status.
type TransportError struct {
	StatusCode int
	Body       []byte
	Err        error
}

func (e *TransportError) Error() string {
	if e.Err != nil {
		return "slack webhook: " + e.Err.Error()
	}
	return fmt.Sprintf("slack webhook returned HTTP %d", e.StatusCode)
}

func (e *TransportError) Unwrap() error { return e.Err }

// Observer receives every outcome. It runs on the dispatching goroutine.
type Observer func(Outcome)

// Pending is the acknowledgement returned by Dispatch. Done receives
// exactly one Outcome and is then closed.
type Pending struct {
	Request Request
	done    chan Outcome
}

// Done returns the channel carrying the outcome.
func (p *Pending) Done() <-chan Outcome {
	return p.done
}

// Wait blocks until the outcome arrives or ctx ends.
func (p *Pending) Wait(ctx context.Context) (Outcome, error) {
	select {
	case o := <-p.done:
		return o, nil
	case <-ctx.Done():
		return Outcome{}, ctx.Err()
	}
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithLogger sets the logger used for outcome diagnostics.
func WithLogger(logger *zap.Logger) Option {
	return func(d *Dispatcher) {
		if logger != nil {
			d.logger = logger.Named("slack")
		}
	}
}

// WithObserver registers fn to receive every outcome.
func WithObserver(fn Observer) Option {
	return func(d *Dispatcher) {
		if fn != nil {
			d.observers = append(d.observers, fn)
		}
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(d *Dispatcher) {
		if ua != "" {
			d.userAgent = ua
		}
	}
}

// WithRateLimit paces POSTs to perMinute, with a burst of one. Zero or
// less disables pacing. A request that cannot get a slot before its context
// ends completes as a transport error.
func WithRateLimit(perMinute int) Option {
	return func(d *Dispatcher) {
		if perMinute > 0 {
			d.limiter = rate.NewLimiter(rate.Limit(float64(perMinute)/60.0), 1)
		}
	}
}

// Dispatcher posts notifications to webhook URLs without blocking the caller.
// It never validates the URL, retries or de-duplicates.
type Dispatcher struct {
	transport Transport
	logger    *zap.Logger
	observers []Observer
	userAgent string
	limiter   *rate.Limiter
	now       func() time.Time
}

// NewDispatcher creates a Dispatcher sending through transport.
func NewDispatcher(transport Transport, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		transport: transport,
		logger:    zap.NewNop(),
		userAgent: defaultUserAgent,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Dispatch submits one POST of {"text": text} to url and returns at once.
func (d *Dispatcher) Dispatch(ctx context.Context, url, text string) *Pending {
	p := &Pending{
		Request: Request{
			ID:          uuid.New().String(),
			URL:         url,
			Text:        text,
			SubmittedAt: d.now(),
		},
		done: make(chan Outcome, 1),
	}

	body, err := encodePayload(Payload{Text: text})
	if err != nil {
		d.complete(p, Outcome{
			Kind: model.OutcomeTransportError,
			Err:  &TransportError{Err: fmt.Errorf("encode payload: %w", err)},
		})
		return p
	}
	p.Request.Body = body

	d.logger.Debug("Submitting webhook notification",
		zap.String("request_id", p.Request.ID),
		zap.String("url", RedactURL(url)),
	)
	go d.send(ctx, p)
	return p
}

// DispatchAndWait dispatches and blocks until the outcome arrives.
func (d *Dispatcher) DispatchAndWait(ctx context.Context, url, text string) (Outcome, error) {
	return d.Dispatch(ctx, url, text).Wait(ctx)
}

func (d *Dispatcher) send(ctx context.Context, p *Pending) {
	if d.limiter != nil {
		if err := d.limiter.Wait(ctx); err != nil {
			d.complete(p, Outcome{Kind: model.OutcomeTransportError, Err: &TransportError{Err: err}})
			return
		}
	}

	header := http.Header{}
	header.Set("Content-Type", "application/json")
	header.Set("User-Agent", d.userAgent)

	resp, err := d.transport.Post(ctx, p.Request.URL, p.Request.Body, header)

	var o Outcome
	switch {
	case err != nil:
		o = Outcome{Kind: model.OutcomeTransportError, Err: &TransportError{Err: err}}
		if resp != nil {
			o.StatusCode = resp.StatusCode
			o.Body = resp.Body
		}
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		o = Outcome{
			Kind:       model.OutcomeTransportError,
			StatusCode: resp.StatusCode,
			Body:       resp.Body,
			Err:        &TransportError{StatusCode: resp.StatusCode, Body: resp.Body},
		}
	default:
		o = Outcome{Kind: model.OutcomeSent, StatusCode: resp.StatusCode, Body: resp.Body}
	}
	d.complete(p, o)
}

// complete finalizes p with o. Called exactly once per Pending.
func (d *Dispatcher) complete(p *Pending, o Outcome) {
	o.Request = p.Request
	o.CompletedAt = d.now()

	if o.Sent() {
		d.logger.Debug("Webhook notification delivered",
			zap.String("request_id", o.Request.ID),
			zap.Int("status", o.StatusCode),
			zap.ByteString("body", o.Body),
		)
	} else {
		d.logger.Warn("Webhook notification failed",
			zap.String("request_id", o.Request.ID),
			zap.String("url", RedactURL(o.Request.URL)),
			zap.Int("status", o.StatusCode),
			zap.Error(o.Err),
		)
	}

	for _, fn := range d.observers {
		fn(o)
	}
	p.done <- o
	close(p.done)
}

// encodePayload marshals without HTML escaping so Slack link markup
// such as <https://example.com|label> is sent verbatim.
func encodePayload(payload Payload) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(payload); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
