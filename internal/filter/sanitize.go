package filter

import (
	"strings"

	"github.com/yourorg/yulelog/internal/config"
	"github.com/yourorg/yulelog/pkg/types"
)

// SanitizeConfig is an alias of config.SanitizeConfig.
type SanitizeConfig = config.SanitizeConfig

// Sanitize redacts sensitive query parameters and, optionally, client addresses.
// The input slice is left untouched.
func Sanitize(events []types.Event, cfg SanitizeConfig) []types.Event {
	paramSet := toLowerSet(cfg.QueryParams)
	out := make([]types.Event, len(events))
	for i, e := range events {
		out[i] = e
		out[i].Resource = sanitizeResource(e.Resource, paramSet, cfg.Replacement)
		if cfg.Client {
			out[i].Client = cfg.Replacement
		}
	}
	return out
}

func toLowerSet(items []string) map[string]struct{} {
	set := make(map[string]struct{}, len(items))
	for _, v := range items {
		v = strings.TrimSpace(strings.ToLower(v))
		if v == "" {
			continue
		}
		set[v] = struct{}{}
	}
	return set
}

func sanitizeResource(resource string, set map[string]struct{}, replacement string) string {
	path, query, ok := strings.Cut(resource, "?")
	if !ok || query == "" || len(set) == 0 {
		return resource
	}
	pairs := strings.Split(query, "&")
	for i, pair := range pairs {
		name, _, _ := strings.Cut(pair, "=")
		if _, hit := set[strings.ToLower(name)]; hit {
			pairs[i] = name + "=" + replacement
		}
	}
	return path + "?" + strings.Join(pairs, "&")
}
