package controllers

import (
	"net/url"
	"strconv"

	"foodgram/config"

	"github.com/gin-gonic/gin"
)

const (
	defaultPageLimit = 6
	maxPageLimit     = 100
)

type page struct {
	Limit  int
	Offset int
}

type paginated struct {
	Count    int64   `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  any     `json:"results"`
}

// parsePage reads limit plus either offset or a 1-based page number.
func parsePage(ctx *gin.Context) page {
	limit := queryInt(ctx, "limit", defaultPageLimit)
	if limit <= 0 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}

	offset := 0
	if _, ok := ctx.GetQuery("offset"); ok {
		offset = max(queryInt(ctx, "offset", 0), 0)
	} else if p := queryInt(ctx, "page", 1); p > 1 {
		offset = (p - 1) * limit
	}
	return page{Limit: limit, Offset: offset}
}

func paginate(ctx *gin.Context, p page, count int64, results any) paginated {
	out := paginated{Count: count, Results: results}
	if int64(p.Offset+p.Limit) < count {
		next := pageURL(ctx, p.Limit, p.Offset+p.Limit)
		out.Next = &next
	}
	if p.Offset > 0 {
		prev := pageURL(ctx, p.Limit, max(p.Offset-p.Limit, 0))
		out.Previous = &prev
	}
	return out
}

func pageURL(ctx *gin.Context, limit, offset int) string {
	scheme, host := requestOrigin(ctx)

	q := ctx.Request.URL.Query()
	q.Del("page")
	q.Set("limit", strconv.Itoa(limit))
	if offset > 0 {
		q.Set("offset", strconv.Itoa(offset))
	} else {
		q.Del("offset")
	}

	u := url.URL{
		Scheme:   scheme,
		Host:     host,
		Path:     ctx.Request.URL.Path,
		RawQuery: q.Encode(),
	}
	return u.String()
}

// requestOrigin is the scheme and host of app.baseurl when set, else of the request itself.
// Forwarding headers are ignored since any client can send them.
func requestOrigin(ctx *gin.Context) (string, string) {
	if cfg := config.AppConfig; cfg != nil && cfg.App.BaseURL != "" {
		if u, err := url.Parse(cfg.App.BaseURL); err == nil && u.Scheme != "" && u.Host != "" {
			return u.Scheme, u.Host
		}
	}
	if ctx.Request.TLS != nil {
		return "https", ctx.Request.Host
	}
	return "http", ctx.Request.Host
}
