package utils

import (
	"net/url"
	"strconv"
	"strings"

	"gearguard/pkg/types"
)

const (
	DefaultLimit = 200
	MaxLimit     = 500
)

// ParseFilterFromQuery turns ?filter[key]=value, search, limit/offset/page
// query parameters into a types.Filter. Limit 0 is never produced; callers that
// need the unbounded collection build the Filter themselves.
func ParseFilterFromQuery(values url.Values) types.Filter {
	filterReq := types.Filter{
		Filter: make(map[string]interface{}),
		Limit:  DefaultLimit,
		Page:   1,
	}

	if limitStr := values.Get("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 {
			if l > MaxLimit {
				filterReq.Limit = MaxLimit
			} else {
				filterReq.Limit = l
			}
		}
	}

	if pageStr := values.Get("page"); pageStr != "" {
		if p, err := strconv.Atoi(pageStr); err == nil && p > 0 {
			filterReq.Page = p
		}
	}

	if offsetStr := values.Get("offset"); offsetStr != "" {
		if o, err := strconv.Atoi(offsetStr); err == nil && o >= 0 {
			filterReq.Offset = o
		}
	} else {
		filterReq.Offset = (filterReq.Page - 1) * filterReq.Limit
	}

	for key, vals := range values {
		if len(vals) == 0 || vals[0] == "" {
			continue
		}

		if key == "search" {
			filterReq.Search = vals[0]
			continue
		}

		if strings.HasPrefix(key, "filter[") && strings.HasSuffix(key, "]") {
			field := key[7 : len(key)-1]
			// Repeated parameters stay a slice so sq.Eq renders an IN clause.
			if len(vals) > 1 {
				filterReq.Filter[field] = vals
			} else {
				filterReq.Filter[field] = vals[0]
			}
		}
	}

	return filterReq
}
