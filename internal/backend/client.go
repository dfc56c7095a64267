package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"prezz/config"
	"prezz/internal/dto"
	"prezz/internal/session"
	pkgerrors "prezz/pkg/errors"
)

// Client the institution REST backend. Every call forwards the caller's
// bearer token; the backend remains the authority on who may see what.
type Client struct {
	baseURL    string
	httpClient *http.Client
	attempts   int
	baseDelay  time.Duration
	logger     *zap.Logger

	// wait blocks for d or until ctx is done; replaced in tests
	wait func(ctx context.Context, d time.Duration) error
}

// NewClient creates a Client
func NewClient(cfg *config.BackendConfig, httpClient *http.Client, logger *zap.Logger) *Client {
	attempts := cfg.MaxRetries
	if attempts < 1 {
		attempts = 1
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: httpClient,
		attempts:   attempts,
		baseDelay:  cfg.RetryBaseDelay,
		logger:     logger,
		wait:       sleepCtx,
	}
}

// DefaultHTTPClient http.Client with the configured timeout
func DefaultHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &http.Client{Timeout: timeout}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// ════════════════════════════════════════════════════════════
// Reads
// ════════════════════════════════════════════════════════════

func (c *Client) ListTimeSlots(ctx context.Context, sess *session.Session) ([]dto.TimeSlot, error) {
	var out []dto.TimeSlot
	return out, c.getList(ctx, sess, "/api/time-slots", nil, &out)
}

// ListClassSchedules regular entries of the caller's class. Students get the
// semester view, class representatives the editable list.
func (c *Client) ListClassSchedules(ctx context.Context, sess *session.Session) ([]dto.ScheduleEntry, error) {
	path := "/api/class-schedules"
	if sess.IsStudent() {
		path = "/api/classes/semester"
	}
	var out []dto.ScheduleEntry
	return out, c.getList(ctx, sess, path, nil, &out)
}

// ListElectiveSchedules entries of the caller's electives
func (c *Client) ListElectiveSchedules(ctx context.Context, sess *session.Session) ([]dto.ScheduleEntry, error) {
	var out []dto.ScheduleEntry
	return out, c.getList(ctx, sess, "/api/elective-schedules", nil, &out)
}

func (c *Client) ListHolidays(ctx context.Context, sess *session.Session) ([]dto.Holiday, error) {
	var out []dto.Holiday
	return out, c.getList(ctx, sess, "/api/holidays", nil, &out)
}

// ListAttendance marks of the caller between start and end inclusive
func (c *Client) ListAttendance(ctx context.Context, sess *session.Session, start, end string) ([]dto.AttendanceRecord, error) {
	q := url.Values{}
	q.Set("start_date", start)
	q.Set("end_date", end)
	var out []dto.AttendanceRecord
	return out, c.getList(ctx, sess, "/api/attendance", q, &out)
}

func (c *Client) ListAbsenceReasons(ctx context.Context, sess *session.Session) ([]string, error) {
	var out []string
	return out, c.getList(ctx, sess, "/api/attendance/reasons", nil, &out)
}

func (c *Client) GetProfile(ctx context.Context, sess *session.Session) (*dto.Profile, error) {
	var out dto.Profile
	if err := c.do(ctx, sess, http.MethodGet, "/api/profile", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListSubjects(ctx context.Context, sess *session.Session) ([]dto.Subject, error) {
	var out []dto.Subject
	return out, c.getList(ctx, sess, "/api/subjects", nil, &out)
}

// ListElectives electives the caller selected, in any status
func (c *Client) ListElectives(ctx context.Context, sess *session.Session) ([]dto.Elective, error) {
	var out []dto.Elective
	return out, c.getList(ctx, sess, "/api/electives/selected", nil, &out)
}

// ════════════════════════════════════════════════════════════
// Writes
// ════════════════════════════════════════════════════════════

// SaveAttendance bulk upsert; returns the records as stored upstream
func (c *Client) SaveAttendance(ctx context.Context, sess *session.Session, records []dto.AttendanceRecord) ([]dto.AttendanceRecord, error) {
	var out []dto.AttendanceRecord
	if err := c.do(ctx, sess, http.MethodPost, "/api/attendance", nil, records, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateSchedule(ctx context.Context, sess *session.Session, entry dto.ScheduleEntry) (*dto.ScheduleEntry, error) {
	var out dto.ScheduleEntry
	if err := c.do(ctx, sess, http.MethodPost, "/api/class-schedules", nil, entry, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteSchedule(ctx context.Context, sess *session.Session, id int64) error {
	return c.do(ctx, sess, http.MethodDelete, "/api/class-schedules/"+strconv.FormatInt(id, 10), nil, nil, nil)
}

func (c *Client) CreateHoliday(ctx context.Context, sess *session.Session, h dto.Holiday) (*dto.Holiday, error) {
	var out dto.Holiday
	if err := c.do(ctx, sess, http.MethodPost, "/api/holidays", nil, h, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteHoliday(ctx context.Context, sess *session.Session, id int64) error {
	return c.do(ctx, sess, http.MethodDelete, "/api/holidays/"+strconv.FormatInt(id, 10), nil, nil, nil)
}

// ════════════════════════════════════════════════════════════
// Transport
// ════════════════════════════════════════════════════════════

// getList decodes a JSON array into out; any other JSON value is an empty list
func (c *Client) getList(ctx context.Context, sess *session.Session, path string, q url.Values, out interface{}) error {
	var raw json.RawMessage
	if err := c.do(ctx, sess, http.MethodGet, path, q, nil, &raw); err != nil {
		return err
	}
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		c.logger.Warn("backend returned a non-array list", zap.String("path", path))
		return nil
	}
	if err := json.Unmarshal(trimmed, out); err != nil {
		return fmt.Errorf("%w: decode %s: %v", pkgerrors.ErrUpstreamUnavailable, path, err)
	}
	return nil
}

type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// do sends one request, retrying rate limits (and transport failures on
// reads) with exponential backoff, and maps the final status to a sentinel.
func (c *Client) do(ctx context.Context, sess *session.Session, method, path string, q url.Values, body, out interface{}) error {
	if c.baseURL == "" {
		return fmt.Errorf("%w: backend base url not configured", pkgerrors.ErrUpstreamUnavailable)
	}

	var payload []byte
	if body != nil {
		var err error
		if payload, err = json.Marshal(body); err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
	}

	target := c.baseURL + path
	if len(q) > 0 {
		target += "?" + q.Encode()
	}

	for attempt := 0; ; attempt++ {
		last := attempt == c.attempts-1

		resp, err := c.send(ctx, sess, method, target, payload)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if method == http.MethodGet && !last {
				if werr := c.backoff(ctx, path, attempt, err.Error()); werr != nil {
					return werr
				}
				continue
			}
			return fmt.Errorf("%w: %s %s: %v", pkgerrors.ErrUpstreamUnavailable, method, path, err)
		}

		if resp.StatusCode == http.StatusTooManyRequests && !last {
			drain(resp)
			if werr := c.backoff(ctx, path, attempt, "rate limited"); werr != nil {
				return werr
			}
			continue
		}

		return c.handle(resp, method, path, out)
	}
}

func (c *Client) send(ctx context.Context, sess *session.Session, method, target string, payload []byte) (*http.Response, error) {
	var rdr io.Reader
	if payload != nil {
		rdr = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, rdr)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if sess != nil && sess.Token != "" {
		req.Header.Set("Authorization", "Bearer "+sess.Token)
	}
	return c.httpClient.Do(req)
}

func (c *Client) backoff(ctx context.Context, path string, attempt int, reason string) error {
	d := c.baseDelay << uint(attempt)
	c.logger.Warn("retrying backend request",
		zap.String("path", path),
		zap.Int("attempt", attempt+1),
		zap.Int("of", c.attempts),
		zap.Duration("after", d),
		zap.String("reason", reason),
	)
	return c.wait(ctx, d)
}

func (c *Client) handle(resp *http.Response, method, path string, out interface{}) error {
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		if out == nil || resp.StatusCode == http.StatusNoContent {
			drain(resp)
			return nil
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("%w: decode %s: %v", pkgerrors.ErrUpstreamUnavailable, path, err)
		}
		return nil
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return pkgerrors.ErrUpstreamUnauthorized
	case resp.StatusCode == http.StatusNotFound:
		return pkgerrors.ErrNotFound
	case resp.StatusCode >= 400 && resp.StatusCode < 500 && resp.StatusCode != http.StatusTooManyRequests:
		return fmt.Errorf("%w: %s", pkgerrors.ErrUpstreamRejected, errorMessage(resp))
	default:
		return fmt.Errorf("%w: %s %s: status %d", pkgerrors.ErrUpstreamUnavailable, method, path, resp.StatusCode)
	}
}

// errorMessage reads {"error": "..."} or {"message": "..."}
func errorMessage(resp *http.Response) string {
	var body errorBody
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err := json.Unmarshal(raw, &body); err == nil {
		if body.Error != "" {
			return body.Error
		}
		if body.Message != "" {
			return body.Message
		}
	}
	if s := strings.TrimSpace(string(raw)); s != "" {
		return s
	}
	return http.StatusText(resp.StatusCode)
}

func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
	resp.Body.Close()
}
