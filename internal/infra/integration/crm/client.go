package crm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/xavierca1/jetleads/internal/infra/queue"
)

type Client struct {
	apiToken   string
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL, apiToken string) *Client {
	return &Client{
		apiToken:   apiToken,
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// SyncLead pushes a captured lead into the CRM pipeline, attaching it to an
// existing contact with the same email when there is one.
func (c *Client) SyncLead(ctx context.Context, event queue.LeadCreatedEvent) error {
	if c.baseURL == "" || c.apiToken == "" {
		return fmt.Errorf("crm not configured")
	}

	contactID, err := c.findOrCreateContact(ctx, event)
	if err != nil {
		return fmt.Errorf("find or create contact: %w", err)
	}

	lead := []leadRequest{{
		Name: fmt.Sprintf("%s → %s (%d pax) - %s", event.FromCity, event.ToCity, event.Passengers, event.Name),
		Embedded: leadEmbedded{
			Tags: []tag{
				{Name: "quality_" + event.LeadQuality},
				{Name: "affiliate_" + event.AffiliateID},
			},
			Contacts: []idRef{{ID: contactID}},
		},
	}}

	var out embeddedIDs
	if err := c.do(ctx, http.MethodPost, "/leads", lead, &out); err != nil {
		return fmt.Errorf("create lead: %w", err)
	}
	if len(out.Embedded.Leads) == 0 {
		return fmt.Errorf("crm returned no lead id")
	}

	logrus.WithFields(logrus.Fields{
		"lead_id": event.LeadID,
		"crm_id":  out.Embedded.Leads[0].ID,
	}).Info("crm lead created")
	return nil
}

func (c *Client) findOrCreateContact(ctx context.Context, event queue.LeadCreatedEvent) (int, error) {
	var found embeddedIDs
	err := c.do(ctx, http.MethodGet, "/contacts?query="+url.QueryEscape(event.Email), nil, &found)
	if err == nil && len(found.Embedded.Contacts) > 0 {
		return found.Embedded.Contacts[0].ID, nil
	}

	contact := []contactRequest{{
		Name: event.Name,
		CustomFieldsValues: []contactField{
			{FieldCode: "PHONE", Values: []fieldValue{{Value: event.Phone, EnumCode: "WORK"}}},
			{FieldCode: "EMAIL", Values: []fieldValue{{Value: event.Email, EnumCode: "WORK"}}},
		},
	}}

	var created embeddedIDs
	if err := c.do(ctx, http.MethodPost, "/contacts", contact, &created); err != nil {
		return 0, err
	}
	if len(created.Embedded.Contacts) == 0 {
		return 0, fmt.Errorf("crm returned no contact id")
	}
	return created.Embedded.Contacts[0].ID, nil
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	c.addAuthHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("crm %s %s: %d - %s", method, path, resp.StatusCode, string(raw))
	}
	if out == nil || len(raw) == 0 {
		return nil
	}
	return json.Unmarshal(raw, out)
}

func (c *Client) addAuthHeaders(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+c.apiToken)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
}
