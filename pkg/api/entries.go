package api

import (
	"context"
	"net/http"
	"net/url"

	"tableflip.dev/boost/pkg/entry"
)

// EntryGateway is the set of entry calls the entry store needs.
type EntryGateway interface {
	List(ctx context.Context, token string) ([]entry.Entry, error)
	Create(ctx context.Context, token, content string) (entry.Entry, error)
	Update(ctx context.Context, token, id, content string) (entry.Entry, error)
	Delete(ctx context.Context, token, id string) (string, error)
}

var _ EntryGateway = (*Client)(nil)

type contentBody struct {
	Content string `json:"content"`
}

func (c *Client) List(ctx context.Context, token string) ([]entry.Entry, error) {
	if err := requireToken(token); err != nil {
		return nil, err
	}
	var out []entry.Entry
	if err := c.call(ctx, http.MethodGet, "/entries", token, nil, &out, "failed to fetch entries"); err != nil {
		return nil, err
	}
	if out == nil {
		out = []entry.Entry{}
	}
	return out, nil
}

func (c *Client) Create(ctx context.Context, token, content string) (entry.Entry, error) {
	if err := requireToken(token); err != nil {
		return entry.Entry{}, err
	}
	var out entry.Entry
	if err := c.call(ctx, http.MethodPost, "/entries", token, contentBody{Content: content}, &out, "failed to add entry"); err != nil {
		return entry.Entry{}, err
	}
	c.stats.Delete(token)
	return out, nil
}

func (c *Client) Update(ctx context.Context, token, id, content string) (entry.Entry, error) {
	if err := requireToken(token); err != nil {
		return entry.Entry{}, err
	}
	var out entry.Entry
	path := "/entries/" + url.PathEscape(id)
	if err := c.call(ctx, http.MethodPut, path, token, contentBody{Content: content}, &out, "failed to update entry"); err != nil {
		return entry.Entry{}, err
	}
	return out, nil
}

// Delete removes the entry and returns its id. The API echoes the id; the
// echo is not trusted over the id that was asked for.
func (c *Client) Delete(ctx context.Context, token, id string) (string, error) {
	if err := requireToken(token); err != nil {
		return "", err
	}
	path := "/entries/" + url.PathEscape(id)
	if err := c.call(ctx, http.MethodDelete, path, token, nil, nil, "failed to delete entry"); err != nil {
		return "", err
	}
	c.stats.Delete(token)
	return id, nil
}
