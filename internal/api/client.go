// Package api implements the remote graph store client. It satisfies the
// search, detail-fetch, and media-upload collaborator interfaces consumed by
// the resolution and diffing engines.
package api

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/tracefold/graphpub/internal/transport"
	"github.com/tracefold/graphpub/pkg/errors"
	"github.com/tracefold/graphpub/pkg/graph"
	"github.com/tracefold/graphpub/pkg/logging"
	"github.com/tracefold/graphpub/pkg/names"
)

// Client talks to the remote graph store over HTTP. It implements
// graph.Searcher, graph.DetailFetcher, and graph.MediaUploader.
type Client struct {
	endpoint string
	shared   []graph.ID
	http     *transport.Client
}

var (
	_ graph.Searcher      = (*Client)(nil)
	_ graph.DetailFetcher = (*Client)(nil)
	_ graph.MediaUploader = (*Client)(nil)
)

// New creates a client for the graph store at endpoint, authenticating every
// request with apiKey.
func New(endpoint, apiKey string, opts ...Option) (*Client, error) {
	if endpoint == "" {
		return nil, &errors.ValidationError{
			Field:   "endpoint",
			Message: "endpoint is required",
		}
	}
	if apiKey == "" {
		return nil, errors.ErrAPIKeyRequired
	}

	options, err := newOptions(opts...)
	if err != nil {
		return nil, err
	}

	return &Client{
		endpoint: strings.TrimRight(endpoint, "/"),
		shared:   options.sharedSpaces,
		http:     transport.New(&transport.BearerAuth{}, apiKey),
	}, nil
}

// Wire structures for the search endpoint.
type searchRequest struct {
	Kind   string     `json:"kind"`
	Names  []string   `json:"names"`
	Spaces []graph.ID `json:"spaces,omitempty"`
}

type searchResult struct {
	ID       graph.ID       `json:"id"`
	Name     string         `json:"name"`
	Types    []graph.ID     `json:"types,omitempty"`
	DataType graph.DataType `json:"dataType,omitempty"`
}

type searchResponse struct {
	Results []searchResult `json:"results"`
}

// SearchEntities implements graph.Searcher. The given space is searched
// first; any configured shared spaces are searched in the same request, with
// the primary space winning on a name collision.
func (c *Client) SearchEntities(ctx context.Context, entityNames []string, spaceID graph.ID) (map[names.Normalized]graph.EntityMatch, error) {
	spaces := append([]graph.ID{spaceID}, c.shared...)
	results, err := c.search(ctx, "entity", entityNames, spaces)
	if err != nil {
		return nil, err
	}

	matches := make(map[names.Normalized]graph.EntityMatch, len(results))
	for _, r := range results {
		key := names.Normalize(r.Name)
		if _, ok := matches[key]; ok {
			continue
		}
		matches[key] = graph.EntityMatch{ID: r.ID, Name: r.Name, Types: r.Types}
	}
	return matches, nil
}

// SearchTypes implements graph.Searcher.
func (c *Client) SearchTypes(ctx context.Context, typeNames []string) (map[names.Normalized]graph.TypeMatch, error) {
	results, err := c.search(ctx, "type", typeNames, nil)
	if err != nil {
		return nil, err
	}

	matches := make(map[names.Normalized]graph.TypeMatch, len(results))
	for _, r := range results {
		key := names.Normalize(r.Name)
		if _, ok := matches[key]; ok {
			continue
		}
		matches[key] = graph.TypeMatch{ID: r.ID, Name: r.Name}
	}
	return matches, nil
}

// SearchProperties implements graph.Searcher. The data type returned by the
// store is authoritative for linked properties.
func (c *Client) SearchProperties(ctx context.Context, propertyNames []string) (map[names.Normalized]graph.PropertyMatch, error) {
	results, err := c.search(ctx, "property", propertyNames, nil)
	if err != nil {
		return nil, err
	}

	matches := make(map[names.Normalized]graph.PropertyMatch, len(results))
	for _, r := range results {
		key := names.Normalize(r.Name)
		if _, ok := matches[key]; ok {
			continue
		}
		matches[key] = graph.PropertyMatch{ID: r.ID, Name: r.Name, DataType: r.DataType}
	}
	return matches, nil
}

func (c *Client) search(ctx context.Context, kind string, searchNames []string, spaces []graph.ID) ([]searchResult, error) {
	if len(searchNames) == 0 {
		return nil, nil
	}

	logging.FromContext(ctx).Debug().
		Str("kind", kind).
		Int("names", len(searchNames)).
		Msg("searching graph store")

	url := c.endpoint + "/search"
	resp, err := c.http.Post(ctx, url, searchRequest{
		Kind:   kind,
		Names:  searchNames,
		Spaces: spaces,
	})
	if err != nil {
		return nil, errors.WrapAPI("search", kind, err)
	}

	var result searchResponse
	if err := transport.Decode(resp, "search", kind, &result); err != nil {
		return nil, err
	}
	return result.Results, nil
}

// FetchEntityDetail implements graph.DetailFetcher. A 404 from the store
// means the id has no live entity and yields (nil, nil).
func (c *Client) FetchEntityDetail(ctx context.Context, entityID, spaceID graph.ID) (*graph.EntityDetail, error) {
	url := fmt.Sprintf("%s/spaces/%s/entities/%s", c.endpoint, spaceID, entityID)
	resp, err := c.http.Get(ctx, url)
	if err != nil {
		return nil, errors.WrapAPI("fetch detail", string(entityID), err)
	}
	if resp.StatusCode == http.StatusNotFound {
		_ = resp.Body.Close()
		return nil, nil
	}

	var detail graph.EntityDetail
	if err := transport.Decode(resp, "fetch detail", string(entityID), &detail); err != nil {
		return nil, err
	}
	return &detail, nil
}

// Wire structures for the media endpoint.
type uploadRequest struct {
	URL string `json:"url"`
}

type uploadResponse struct {
	ID graph.ID `json:"id"`
}

// Upload implements graph.MediaUploader. The store fetches the image at the
// given URL and returns the registered media id.
func (c *Client) Upload(ctx context.Context, url string) (graph.ID, error) {
	resp, err := c.http.Post(ctx, c.endpoint+"/media", uploadRequest{URL: url})
	if err != nil {
		return "", errors.WrapAPI("upload media", url, err)
	}

	var result uploadResponse
	if err := transport.Decode(resp, "upload media", url, &result); err != nil {
		return "", err
	}
	if result.ID == "" {
		return "", errors.NewAPIError("upload media", url, resp.StatusCode, errors.ErrAPIFailure)
	}
	return result.ID, nil
}
