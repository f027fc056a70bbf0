package uri

import (
	"slices"
	"strings"

	"github.com/ghettovoice/httpkit/internal/grammar"
)

// QueryParam is a single "key[=value]" pair of a query.
type QueryParam struct {
	Key      string
	Value    string
	HasValue bool
}

// Param returns a query parameter with a value.
func Param(key, value string) QueryParam { return QueryParam{Key: key, Value: value, HasValue: true} }

// Flag returns a query parameter without value.
func Flag(key string) QueryParam { return QueryParam{Key: key} }

var queryParamEscaper = strings.NewReplacer("=", "%3D", "&", "%26")

func (p QueryParam) render() string {
	s := queryParamEscaper.Replace(p.Key)
	if p.HasValue {
		s += "=" + queryParamEscaper.Replace(p.Value)
	}
	return s
}

// QueryParams returns decoded query parameters in order of appearance.
// Empty "&&" separated pairs are skipped.
func (u URI) QueryParams() []QueryParam {
	if u.query == "" {
		return nil
	}

	var params []QueryParam
	for pair := range strings.SplitSeq(u.query, "&") {
		if pair == "" {
			continue
		}
		k, v, ok := strings.Cut(pair, "=")
		params = append(params, QueryParam{Key: grammar.Unescape(k), Value: grammar.Unescape(v), HasValue: ok})
	}
	return params
}

// WithQueryParam returns a copy of the URI where all pairs with the key
// are replaced by a single "key=value" pair appended to the end of the query.
func (u URI) WithQueryParam(key, value string) URI {
	return u.WithQueryParams(Param(key, value))
}

// WithQueryParams is like [URI.WithQueryParam] but replaces several parameters at once.
// Characters "=" and "&" in keys and values are escaped.
func (u URI) WithQueryParams(params ...QueryParam) URI {
	keys := make([]string, len(params))
	for i := range params {
		keys[i] = params[i].Key
	}

	pairs := u.queryPairsExcept(keys)
	for _, p := range params {
		pairs = append(pairs, p.render())
	}
	return u.WithQuery(strings.Join(pairs, "&"))
}

// WithoutQueryParam returns a copy of the URI without query pairs with the given keys.
// Keys are compared after percent-decoding.
func (u URI) WithoutQueryParam(keys ...string) URI {
	return u.WithQuery(strings.Join(u.queryPairsExcept(keys), "&"))
}

func (u URI) queryPairsExcept(keys []string) []string {
	if u.query == "" {
		return nil
	}

	decoded := make([]string, len(keys))
	for i, k := range keys {
		decoded[i] = grammar.Unescape(k)
	}

	var pairs []string
	for pair := range strings.SplitSeq(u.query, "&") {
		k, _, _ := strings.Cut(pair, "=")
		if !slices.Contains(decoded, grammar.Unescape(k)) {
			pairs = append(pairs, pair)
		}
	}
	return pairs
}
