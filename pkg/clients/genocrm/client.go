package genocrm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"begw/api_contact/pkg/clients"

	"github.com/failsafe-go/failsafe-go"
)

// ErrNotConfigured is returned when the client has no API key. The
// caller is expected to skip the CRM leg in that case.
var ErrNotConfigured = errors.New("genocrm: API key not configured")

type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("genocrm returned status %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("genocrm returned status: %d", e.StatusCode)
}

// IsDuplicate reports whether the error is a 409 from the CRM,
// meaning the applicant's email address is already registered.
func IsDuplicate(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusConflict
}

// Application is a validated membership application ready for CRM
// registration. Birthdate is kept as submitted; the client normalizes
// it to ISO form on the wire.
type Application struct {
	Firstname       string
	Lastname        string
	Email           string
	Phone           string
	Birthdate       string
	Street          string
	Zipcode         string
	City            string
	Abilities       string
	MandatoryShares int
	VoluntaryShares int
	TotalShares     int
	TotalAmount     int
}

type registrationPayload struct {
	// 0 = Individual, 1 = Company. The website form only accepts
	// individual applications.
	MemberType      int    `json:"memberType"`
	FirstName       string `json:"firstName"`
	LastName        string `json:"lastName"`
	Email           string `json:"email"`
	Phone           string `json:"phone"`
	Street          string `json:"street"`
	PostalCode      string `json:"postalCode"`
	City            string `json:"city"`
	Country         string `json:"country"`
	BirthDate       string `json:"birthDate,omitempty"`
	Notes           string `json:"notes"`
	RequestedShares int    `json:"requestedShares"`
}

// RegistrationResult is the CRM's answer to a successful application.
type RegistrationResult struct {
	MemberID int64  `json:"memberId"`
	Message  string `json:"message"`
}

type Client struct {
	baseURL      string
	apiKey       string
	client       *http.Client
	httpExecutor failsafe.Executor[*http.Response]
	shouldRetry  func(resp *http.Response, err error) bool
	now          func() time.Time
}

type Option func(*Client)

func NewClient(baseURL, apiKey string, opts ...Option) *Client {
	defaultConfig := clients.DefaultHTTPExecutorConfig()
	c := &Client{
		baseURL:      strings.TrimRight(baseURL, "/"),
		apiKey:       apiKey,
		client:       &http.Client{Timeout: 10 * time.Second},
		httpExecutor: clients.NewHTTPExecutor(defaultConfig),
		shouldRetry:  defaultConfig.ShouldRetry,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		if httpClient != nil {
			c.client = httpClient
		}
	}
}

func WithHTTPExecutorConfig(cfg clients.HTTPExecutorConfig) Option {
	return func(c *Client) {
		c.httpExecutor = clients.NewHTTPExecutor(cfg)
		c.shouldRetry = cfg.ShouldRetry
	}
}

func WithHTTPExecutor(executor failsafe.Executor[*http.Response], shouldRetry func(resp *http.Response, err error) bool) Option {
	return func(c *Client) {
		if executor != nil {
			c.httpExecutor = executor
			c.shouldRetry = shouldRetry
		}
	}
}

// Configured reports whether the client can reach the CRM at all.
func (c *Client) Configured() bool {
	return c.apiKey != ""
}

func (c *Client) doRequest(ctx context.Context, build func(ctx context.Context) (*http.Request, error)) (*http.Response, error) {
	if c.httpExecutor == nil {
		req, err := build(ctx)
		if err != nil {
			return nil, err
		}
		return c.client.Do(req)
	}

	return clients.ExecuteHTTP(ctx, c.httpExecutor, func() (*http.Response, error) {
		req, err := build(ctx)
		if err != nil {
			return nil, err
		}
		resp, err := c.client.Do(req)
		if c.shouldRetry != nil && c.shouldRetry(resp, err) {
			if resp != nil && resp.Body != nil {
				_ = resp.Body.Close()
			}
		}
		return resp, err
	})
}

// SubmitApplication registers a membership application with GenoCRM.
// A 409 means the email address is already registered; use IsDuplicate
// to detect it.
func (c *Client) SubmitApplication(ctx context.Context, app Application) (*RegistrationResult, error) {
	if !c.Configured() {
		return nil, ErrNotConfigured
	}

	payload := registrationPayload{
		MemberType:      0,
		FirstName:       app.Firstname,
		LastName:        app.Lastname,
		Email:           app.Email,
		Phone:           app.Phone,
		Street:          app.Street,
		PostalCode:      app.Zipcode,
		City:            app.City,
		Country:         "Deutschland",
		BirthDate:       NormalizeBirthdate(app.Birthdate),
		Notes:           c.buildNotes(app),
		RequestedShares: app.TotalShares,
	}

	jsonBody, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	reqURL := c.baseURL + "/api/registration/apply"

	resp, err := c.doRequest(ctx, func(ctx context.Context) (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, "POST", reqURL, bytes.NewBuffer(jsonBody))
		if err != nil {
			return nil, err
		}

		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-API-Key", c.apiKey)
		return req, nil
	})
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var body struct {
			Message string `json:"message"`
		}
		if decodeErr := json.NewDecoder(resp.Body).Decode(&body); decodeErr == nil {
			apiErr.Message = body.Message
		}
		return nil, apiErr
	}

	var result RegistrationResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return &result, nil
}

// buildNotes summarizes the share subscription for the CRM record.
func (c *Client) buildNotes(app Application) string {
	notes := []string{
		fmt.Sprintf("Mitgliedsantrag über Website eingereicht am %s", c.now().Format("02.01.2006")),
		"",
		fmt.Sprintf("Pflichtanteile: %d", app.MandatoryShares),
		fmt.Sprintf("Freiwillige Anteile: %d", app.VoluntaryShares),
		fmt.Sprintf("Gesamtanteile: %d", app.TotalShares),
		fmt.Sprintf("Gesamtbetrag: %d€", app.TotalAmount),
	}

	if strings.TrimSpace(app.Abilities) != "" {
		notes = append(notes, "", fmt.Sprintf("Kompetenzen: %s", app.Abilities))
	}

	return strings.Join(notes, "\n")
}

// NormalizeBirthdate converts DD.MM.YYYY and MM/DD/YYYY dates to
// YYYY-MM-DD for the CRM. ISO input passes through; anything
// unrecognized (or empty) yields "".
func NormalizeBirthdate(date string) string {
	date = strings.TrimSpace(date)
	if date == "" {
		return ""
	}

	switch {
	case strings.Contains(date, "."):
		// German format DD.MM.YYYY
		parts := strings.Split(date, ".")
		if len(parts) == 3 {
			return fmt.Sprintf("%s-%s-%s", parts[2], pad2(parts[1]), pad2(parts[0]))
		}
	case strings.Contains(date, "-"):
		// Already ISO
		return date
	case strings.Contains(date, "/"):
		// US format MM/DD/YYYY
		parts := strings.Split(date, "/")
		if len(parts) == 3 {
			return fmt.Sprintf("%s-%s-%s", parts[2], pad2(parts[0]), pad2(parts[1]))
		}
	}

	return ""
}

func pad2(s string) string {
	if len(s) == 1 {
		return "0" + s
	}
	return s
}
