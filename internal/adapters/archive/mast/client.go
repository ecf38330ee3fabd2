package mast

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"plannedobs/internal/core/version"
	perr "plannedobs/internal/platform/errors"
	"plannedobs/internal/platform/logger"
)

const (
	baseURLDefault = "https://mast.stsci.edu"
	invokePath     = "/api/v0/invoke"
	defaultTimeout = 60 * time.Second
	defaultMaxBody = int64(512 << 20)

	// ServiceDefault is the filtered CAOM service holding planned observations
	ServiceDefault = "Mast.Caom.Filtered.TestV230"

	countColumns = "COUNT_BIG(*)"
	allColumns   = "*"
	countField   = "Column1"
	statusError  = "ERROR"
)

// Options configures the Client
type Options struct {
	BaseURL   string
	Service   string
	UserAgent string
	Timeout   time.Duration

	// MaxBodyBytes caps how much of a response is read
	MaxBodyBytes int64
}

// Client issues filtered queries against the archive invoke endpoint
type Client struct {
	http *http.Client
	opts Options
	log  logger.Logger
	now  func() time.Time
}

// Reply is the raw outcome of one invoke call
type Reply struct {
	Status int
	Header http.Header
	Body   []byte
}

// NewClient creates a new Client with sane defaults
func NewClient(o Options) *Client {
	if o.BaseURL == "" {
		o.BaseURL = baseURLDefault
	}
	o.BaseURL = strings.TrimRight(o.BaseURL, "/")
	if o.Service == "" {
		o.Service = ServiceDefault
	}
	if o.UserAgent == "" {
		o.UserAgent = version.UserAgent()
	}
	if o.Timeout <= 0 {
		o.Timeout = defaultTimeout
	}
	if o.MaxBodyBytes <= 0 {
		o.MaxBodyBytes = defaultMaxBody
	}
	return &Client{
		http: &http.Client{Timeout: o.Timeout},
		opts: o,
		log:  *logger.Named("archive"),
		now:  time.Now,
	}
}

// Service returns the archive service name queries are sent to
func (c *Client) Service() string { return c.opts.Service }

// Invoke sends req as one form-encoded POST and returns status, headers and body.
// Any HTTP status is returned to the caller; only transport failures are errors
func (c *Client) Invoke(ctx context.Context, req Request) (*Reply, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeInvalidArgument, "archive encode request failed")
	}
	form := url.Values{"request": {string(payload)}}.Encode()

	hreq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.opts.BaseURL+invokePath, strings.NewReader(form))
	if err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeInvalidArgument, "archive new request failed")
	}
	hreq.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	hreq.Header.Set("Accept", "text/plain")
	hreq.Header.Set("User-Agent", c.opts.UserAgent)

	c.log.Info().
		Str("service", req.Service).
		Str("columns", req.Params.Columns).
		Msg("sending archive query")

	start := c.now()
	resp, err := c.http.Do(hreq)
	if err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeNetwork, "archive post failed")
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			c.log.Error().Err(cerr).Msg("archive close body failed")
		}
	}()

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.opts.MaxBodyBytes+1))
	if err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeNetwork, "archive read body failed")
	}
	if int64(len(body)) > c.opts.MaxBodyBytes {
		return nil, perr.Newf(perr.ErrorCodeMalformedResponse, "archive response exceeds %d bytes", c.opts.MaxBodyBytes)
	}

	c.log.Debug().
		Int("status", resp.StatusCode).
		Dur("latency", c.now().Sub(start)).
		Int("bytes", len(body)).
		Msg("archive http response")
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.log.Warn().Int("status", resp.StatusCode).Msg("archive returned non-2xx status; parsing body anyway")
	}

	return &Reply{Status: resp.StatusCode, Header: resp.Header, Body: body}, nil
}

// Count returns the number of rows matching filters
func (c *Client) Count(ctx context.Context, filters []Filter) (int64, error) {
	res, err := c.query(ctx, countColumns, filters)
	if err != nil {
		return 0, perr.WithOp(err, "archive.count")
	}
	if len(res.Data) == 0 {
		return 0, perr.Malformedf("archive count: empty data")
	}
	v, ok := res.Data[0][countField]
	if !ok {
		return 0, perr.Malformedf("archive count: data[0] has no %q", countField)
	}
	n, err := toCount(v)
	if err != nil {
		return 0, perr.Wrapf(err, perr.ErrorCodeMalformedResponse, "archive count: bad %q value %v", countField, v)
	}
	return n, nil
}

// Fetch returns every row matching filters along with the field descriptors
func (c *Client) Fetch(ctx context.Context, filters []Filter) (ResultSet, error) {
	res, err := c.query(ctx, allColumns, filters)
	if err != nil {
		return ResultSet{}, perr.WithOp(err, "archive.fetch")
	}
	return res, nil
}

func (c *Client) query(ctx context.Context, columns string, filters []Filter) (ResultSet, error) {
	rep, err := c.Invoke(ctx, Request{
		Service: c.opts.Service,
		Format:  "json",
		Params:  Params{Columns: columns, Filters: filters},
	})
	if err != nil {
		return ResultSet{}, err
	}
	return decodeResult(rep)
}

func decodeResult(rep *Reply) (ResultSet, error) {
	var w wireResult
	dec := json.NewDecoder(bytes.NewReader(rep.Body))
	dec.UseNumber()
	if err := dec.Decode(&w); err != nil {
		return ResultSet{}, perr.Wrapf(err, perr.ErrorCodeMalformedResponse, "archive returned invalid JSON (status %d)", rep.Status)
	}
	if strings.EqualFold(w.Status, statusError) {
		return ResultSet{}, perr.Malformedf("archive reported error (status %d): %s", rep.Status, w.Msg)
	}
	if w.Data == nil {
		return ResultSet{}, perr.Malformedf("archive response has no \"data\" (status %d)", rep.Status)
	}
	if w.Fields == nil {
		return ResultSet{}, perr.Malformedf("archive response has no \"fields\" (status %d)", rep.Status)
	}
	return ResultSet{Fields: *w.Fields, Data: *w.Data}, nil
}

// toCount accepts the aggregate as a JSON number or numeric string
func toCount(v any) (int64, error) {
	var s string
	switch t := v.(type) {
	case json.Number:
		s = t.String()
	case string:
		s = strings.TrimSpace(t)
	default:
		return 0, perr.Malformedf("unexpected type %T", v)
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		if n < 0 {
			return 0, perr.Malformedf("not a row count: %s", s)
		}
		return n, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if f < 0 || f != math.Trunc(f) {
		return 0, perr.Malformedf("not a row count: %s", s)
	}
	return int64(f), nil
}
