package http

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/JustinCWang/NNPL-Website-sub000/internal/app"
	"github.com/JustinCWang/NNPL-Website-sub000/internal/domain"
	"github.com/JustinCWang/NNPL-Website-sub000/internal/listing"
)

type queryError struct {
	param string
}

func (e queryError) Error() string {
	return fmt.Sprintf("invalid query parameter %q", e.param)
}

func intParam(q url.Values, name string) (int, error) {
	raw := strings.TrimSpace(q.Get(name))
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, queryError{param: name}
	}
	return n, nil
}

func timeParam(q url.Values, name string) (*time.Time, error) {
	raw := strings.TrimSpace(q.Get(name))
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, queryError{param: name}
	}
	t = t.UTC()
	return &t, nil
}

func boolParam(q url.Values, name string) (bool, error) {
	raw := strings.TrimSpace(q.Get(name))
	if raw == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return false, queryError{param: name}
	}
	return b, nil
}

// listParam collects a repeated or comma-separated parameter.
func listParam(q url.Values, name string) []string {
	var out []string
	for _, raw := range q[name] {
		for _, part := range strings.Split(raw, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func pageParams(q url.Values) (listing.Request, error) {
	var (
		req listing.Request
		err error
	)
	if req.Page, err = intParam(q, "page"); err != nil {
		return listing.Request{}, err
	}
	if req.PageSize, err = intParam(q, "page_size"); err != nil {
		return listing.Request{}, err
	}
	if req.ViewportWidth, err = intParam(q, "viewport_width"); err != nil {
		return listing.Request{}, err
	}
	return req, nil
}

func eventQuery(q url.Values) (app.EventQuery, error) {
	page, err := pageParams(q)
	if err != nil {
		return app.EventQuery{}, err
	}
	from, err := timeParam(q, "from")
	if err != nil {
		return app.EventQuery{}, err
	}
	to, err := timeParam(q, "to")
	if err != nil {
		return app.EventQuery{}, err
	}
	includePast, err := boolParam(q, "include_past")
	if err != nil {
		return app.EventQuery{}, err
	}

	var formats []domain.Format
	for _, f := range listParam(q, "format") {
		format := domain.Format(strings.ToLower(f))
		if !format.Valid() {
			return app.EventQuery{}, queryError{param: "format"}
		}
		formats = append(formats, format)
	}

	return app.EventQuery{
		Filter: app.EventFilter{
			Query:       q.Get("q"),
			StoreID:     strings.TrimSpace(q.Get("store_id")),
			Formats:     formats,
			State:       q.Get("state"),
			From:        from,
			To:          to,
			IncludePast: includePast,
		},
		Sort: q.Get("sort"),
		Page: page,
	}, nil
}

func storeQuery(q url.Values) (app.StoreQuery, error) {
	page, err := pageParams(q)
	if err != nil {
		return app.StoreQuery{}, err
	}
	return app.StoreQuery{
		Filter: app.StoreFilter{
			Query: q.Get("q"),
			City:  q.Get("city"),
			State: q.Get("state"),
		},
		Sort: q.Get("sort"),
		Page: page,
	}, nil
}

func userQuery(q url.Values) (app.UserQuery, error) {
	page, err := pageParams(q)
	if err != nil {
		return app.UserQuery{}, err
	}
	return app.UserQuery{
		Filter: app.UserFilter{
			Query: q.Get("q"),
			Role:  domain.Role(strings.ToLower(strings.TrimSpace(q.Get("role")))),
		},
		Sort: q.Get("sort"),
		Page: page,
	}, nil
}

// pathParts splits a request path into its non-empty segments.
func pathParts(path string) []string {
	trimmed := strings.Trim(path, "/")
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, "/")
}
