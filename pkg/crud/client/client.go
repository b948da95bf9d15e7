// Package client talks to the routes of a crud server.
package client

import (
	"context"
	"io"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/materials-commons/mccrud/pkg/crud"
	"github.com/materials-commons/mccrud/pkg/crud/repository"
	"github.com/pkg/errors"
)

type Client struct {
	rc *resty.Client
}

// NewClient returns a client for the crud service mounted at baseURL, for
// example http://localhost:1360/crud.
func NewClient(baseURL string) *Client {
	rc := resty.New().
		SetBaseURL(strings.TrimSuffix(baseURL, "/")).
		SetHeader("Accept", "application/json").
		SetTimeout(30 * time.Second).
		SetRetryCount(2)

	return &Client{rc: rc}
}

// WithAPIKey sends key in header on every request.
func (c *Client) WithAPIKey(header, key string) *Client {
	if key != "" {
		c.rc.SetHeader(header, key)
	}

	return c
}

func (c *Client) request(ctx context.Context) *resty.Request {
	return c.rc.R().SetContext(ctx)
}

func (c *Client) Menu(ctx context.Context) ([]crud.MenuItem, error) {
	var menu []crud.MenuItem
	resp, err := c.request(ctx).SetResult(&menu).Get("/_menu")
	if err := checkResponse(resp, err); err != nil {
		return nil, err
	}

	return menu, nil
}

// Schema returns the schema of resource as decoded JSON.
func (c *Client) Schema(ctx context.Context, resource string) (map[string]any, error) {
	var schema map[string]any
	resp, err := c.request(ctx).
		SetPathParam("entity", resource).
		SetResult(&schema).
		Get("/{entity}/_schema")
	if err := checkResponse(resp, err); err != nil {
		return nil, err
	}

	return schema, nil
}

// Paginate fetches one page of resource. params are sent as search params.
func (c *Client) Paginate(ctx context.Context, resource string, page, size int, params map[string]string) (*repository.Page, error) {
	var result repository.Page
	req := c.request(ctx).
		SetPathParam("entity", resource).
		SetQueryParams(params).
		SetQueryParam("page", strconv.Itoa(page)).
		SetResult(&result)
	if size > 0 {
		req.SetQueryParam("size", strconv.Itoa(size))
	}

	resp, err := req.Get("/{entity}")
	if err := checkResponse(resp, err); err != nil {
		return nil, err
	}

	return &result, nil
}

// List walks every page of resource.
func (c *Client) List(ctx context.Context, resource string, params map[string]string) ([]any, error) {
	var records []any
	for page := 1; ; page++ {
		p, err := c.Paginate(ctx, resource, page, 0, params)
		if err != nil {
			return nil, err
		}

		records = append(records, p.Data...)
		if page >= p.LastPage || len(p.Data) == 0 {
			return records, nil
		}
	}
}

func (c *Client) Find(ctx context.Context, resource, id string) (map[string]any, error) {
	var record map[string]any
	resp, err := c.request(ctx).
		SetPathParams(map[string]string{"entity": resource, "id": id}).
		SetResult(&record).
		Get("/{entity}/{id}")
	if err := checkResponse(resp, err); err != nil {
		return nil, err
	}

	return record, nil
}

func (c *Client) Create(ctx context.Context, resource string, attrs map[string]any) (map[string]any, error) {
	var record map[string]any
	resp, err := c.request(ctx).
		SetPathParam("entity", resource).
		SetBody(attrs).
		SetResult(&record).
		Post("/{entity}")
	if err := checkResponse(resp, err); err != nil {
		return nil, err
	}

	return record, nil
}

func (c *Client) Update(ctx context.Context, resource, id string, attrs map[string]any) (map[string]any, error) {
	var record map[string]any
	resp, err := c.request(ctx).
		SetPathParams(map[string]string{"entity": resource, "id": id}).
		SetBody(attrs).
		SetResult(&record).
		Put("/{entity}/{id}")
	if err := checkResponse(resp, err); err != nil {
		return nil, err
	}

	return record, nil
}

// Delete removes one record, or several when id is a comma separated list.
func (c *Client) Delete(ctx context.Context, resource, id string) error {
	resp, err := c.request(ctx).
		SetPathParams(map[string]string{"entity": resource, "id": id}).
		Delete("/{entity}/{id}")

	return checkResponse(resp, err)
}

// Export runs a custom action and copies its response body to w. An empty
// id runs the action over all (search filtered) records.
func (c *Client) Export(ctx context.Context, resource, action, id string, params url.Values, w io.Writer) error {
	if id == "" {
		id = "action"
	}

	resp, err := c.request(ctx).
		SetPathParams(map[string]string{"entity": resource, "id": id, "action": action}).
		SetQueryParamsFromValues(params).
		SetDoNotParseResponse(true).
		Get("/{entity}/{id}/{action}")
	if err != nil {
		return errors.Wrapf(err, "export %s/%s", resource, action)
	}

	body := resp.RawBody()
	defer body.Close()

	if resp.IsError() {
		b, _ := io.ReadAll(body)
		return &ErrorResponse{StatusCode: resp.StatusCode(), Message: strings.TrimSpace(string(b))}
	}

	_, err = io.Copy(w, body)
	return err
}

func checkResponse(resp *resty.Response, err error) error {
	if err != nil {
		return err
	}

	if resp.IsError() {
		return ToErrorFromResponse(resp)
	}

	return nil
}
