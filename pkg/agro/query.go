package agro

import (
	"net/url"
	"sort"
	"strconv"
	"strings"
)

// Filter is implemented by every list filter. Values feeds the request query
// string; CacheKeyPart feeds the cache key and must be deterministic for
// identical filter inputs.
type Filter interface {
	Values() url.Values
	CacheKeyPart() string
}

// PointFilter narrows delivery point listings.
type PointFilter struct {
	PointType PointType
	IsActive  *bool
}

// Values implements Filter.
func (f *PointFilter) Values() url.Values {
	values := url.Values{}

	if f == nil {
		return values
	}

	if f.PointType != "" {
		values.Set("point_type", string(f.PointType))
	}

	if f.IsActive != nil {
		values.Set("is_active", strconv.FormatBool(*f.IsActive))
	}

	return values
}

// CacheKeyPart implements Filter.
func (f *PointFilter) CacheKeyPart() string {
	if f == nil {
		return ""
	}

	return encodeKeyPart(f.Values())
}

// RouteFilter narrows delivery route listings.
type RouteFilter struct {
	Status RouteStatus
}

// Values implements Filter.
func (f *RouteFilter) Values() url.Values {
	values := url.Values{}

	if f == nil {
		return values
	}

	if f.Status != "" {
		values.Set("status", string(f.Status))
	}

	return values
}

// CacheKeyPart implements Filter.
func (f *RouteFilter) CacheKeyPart() string {
	if f == nil {
		return ""
	}

	return encodeKeyPart(f.Values())
}

// AgentFilter narrows agent listings.
type AgentFilter struct {
	IsActive *bool
}

// Values implements Filter.
func (f *AgentFilter) Values() url.Values {
	values := url.Values{}

	if f == nil {
		return values
	}

	if f.IsActive != nil {
		values.Set("is_active", strconv.FormatBool(*f.IsActive))
	}

	return values
}

// CacheKeyPart implements Filter.
func (f *AgentFilter) CacheKeyPart() string {
	if f == nil {
		return ""
	}

	return encodeKeyPart(f.Values())
}

// RequestFilter narrows seed request listings.
type RequestFilter struct {
	Status RequestStatus
}

// Values implements Filter.
func (f *RequestFilter) Values() url.Values {
	values := url.Values{}

	if f == nil {
		return values
	}

	if f.Status != "" {
		values.Set("status", string(f.Status))
	}

	return values
}

// CacheKeyPart implements Filter.
func (f *RequestFilter) CacheKeyPart() string {
	if f == nil {
		return ""
	}

	return encodeKeyPart(f.Values())
}

// encodeKeyPart renders query values as "k=v,k=v" with sorted keys so the same
// filter always yields the same cache key.
func encodeKeyPart(values url.Values) string {
	if len(values) == 0 {
		return ""
	}

	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}

	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		parts = append(parts, key+"="+values.Get(key))
	}

	return strings.Join(parts, ",")
}
