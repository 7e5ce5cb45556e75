package SheetApi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"
)

// ErrNotConfigured means no sheet endpoint URL is set. This is a valid
// operating mode: the app keeps working locally and everything queues.
var ErrNotConfigured = errors.New("sheet endpoint not configured")

// MalformedResponseError carries a snippet of whatever the endpoint actually
// returned, for diagnostics. The Apps Script frequently answers HTML error
// pages with status 200.
type MalformedResponseError struct {
	Snippet string
	Reason  string
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("malformed sheet response (%s): %s", e.Reason, e.Snippet)
}

const snippetLimit = 200

func snippet(body []byte) string {
	s := string(body)
	if len(s) > snippetLimit {
		s = s[:snippetLimit] + "..."
	}
	return s
}

// AuthUser is the identity payload the authenticate action returns.
type AuthUser struct {
	Name string `json:"name"`
	Role string `json:"role"`
}

// Client talks to the spreadsheet-backed remote endpoint. Reads are normal
// JSON GETs; writes are fire-and-forget POSTs whose responses carry no
// machine-checkable result (the browser original used no-cors mode, and the
// deployed script keeps that contract).
type Client struct {
	BaseURL string
	HTTP    *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: baseURL,
		HTTP: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (c *Client) Configured() bool {
	return c.BaseURL != ""
}

func (c *Client) get(ctx context.Context, params url.Values) ([]byte, error) {
	if !c.Configured() {
		return nil, ErrNotConfigured
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("sheet endpoint returned status %d", resp.StatusCode)
	}
	if !json.Valid(body) {
		return nil, &MalformedResponseError{Snippet: snippet(body), Reason: "not JSON"}
	}

	// Error payloads come back as {"error": "..."} with status 200.
	var probe struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(body, &probe) == nil && probe.Error != "" {
		return nil, &MalformedResponseError{Snippet: probe.Error, Reason: "script error"}
	}

	return body, nil
}

// FetchHistory retrieves all checklist entries. Depending on the deployed
// script version the array holds either flat task rows or grouped submissions;
// both decode into RawEntry.
func (c *Client) FetchHistory(ctx context.Context) ([]RawEntry, error) {
	body, err := c.get(ctx, url.Values{"action": {"getHistory"}})
	if err != nil {
		return nil, err
	}

	var entries []RawEntry
	if err := json.Unmarshal(body, &entries); err != nil {
		return nil, &MalformedResponseError{Snippet: snippet(body), Reason: "unexpected shape"}
	}
	return entries, nil
}

// FetchDetail retrieves one entry by id. Some script versions answer with a
// one-element array; that is unwrapped here.
func (c *Client) FetchDetail(ctx context.Context, id string) (*RawEntry, error) {
	body, err := c.get(ctx, url.Values{"action": {"getDetail"}, "id": {id}})
	if err != nil {
		return nil, err
	}

	var entry RawEntry
	if err := json.Unmarshal(body, &entry); err == nil && (entry.SubmitterName() != "" || len(entry.Tasks) > 0) {
		return &entry, nil
	}

	var entries []RawEntry
	if err := json.Unmarshal(body, &entries); err != nil {
		return nil, &MalformedResponseError{Snippet: snippet(body), Reason: "unexpected shape"}
	}
	if len(entries) == 0 {
		return nil, nil
	}
	return &entries[0], nil
}

// FetchUserList retrieves the known user names.
func (c *Client) FetchUserList(ctx context.Context) ([]string, error) {
	body, err := c.get(ctx, url.Values{"action": {"getUserList"}})
	if err != nil {
		return nil, err
	}

	var out struct {
		Result  string   `json:"result"`
		Users   []string `json:"users"`
		Message string   `json:"message"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, &MalformedResponseError{Snippet: snippet(body), Reason: "unexpected shape"}
	}
	if out.Result != "success" {
		return nil, fmt.Errorf("user list request failed: %s", out.Message)
	}
	return out.Users, nil
}

// ErrAuthFailed is returned when the script rejects the credentials, as
// opposed to the transport failing.
var ErrAuthFailed = errors.New("authentication rejected")

// Authenticate checks credentials against the sheet's user table.
func (c *Client) Authenticate(ctx context.Context, name, password string) (*AuthUser, error) {
	body, err := c.get(ctx, url.Values{
		"action":   {"authenticate"},
		"name":     {name},
		"password": {password},
	})
	if err != nil {
		return nil, err
	}

	var out struct {
		Result  string   `json:"result"`
		User    AuthUser `json:"user"`
		Message string   `json:"message"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, &MalformedResponseError{Snippet: snippet(body), Reason: "unexpected shape"}
	}
	if out.Result != "success" {
		return nil, fmt.Errorf("%w: %s", ErrAuthFailed, out.Message)
	}
	return &out.User, nil
}

// Dispatch POSTs a payload to the endpoint. A nil return means the request was
// dispatched, NOT that the server processed it: the script gives no
// machine-checkable response to writes, so transport success is the strongest
// guarantee available. Callers must not treat nil as confirmed delivery.
func (c *Client) Dispatch(ctx context.Context, payload any) error {
	if !c.Configured() {
		return ErrNotConfigured
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= 400 {
		return fmt.Errorf("sheet endpoint returned status %d", resp.StatusCode)
	}

	log.Printf("Dispatched payload to sheet endpoint (%d bytes)", len(body))
	return nil
}

// Ping reports whether the endpoint is reachable at the transport level. Any
// response at all counts; the connectivity watcher only cares about the
// network path being up.
func (c *Client) Ping(ctx context.Context) bool {
	if !c.Configured() {
		return false
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL, nil)
	if err != nil {
		return false
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)
	return true
}
