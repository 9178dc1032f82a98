package google

import (
	"strings"

	"google.golang.org/api/fitness/v1"

	"github.com/digitaldrywood/fitsession/internal/fit"
)

type scopePair struct {
	read, write string
}

var (
	activityScopes = scopePair{fitness.FitnessActivityReadScope, fitness.FitnessActivityWriteScope}
	bodyScopes     = scopePair{fitness.FitnessBodyReadScope, fitness.FitnessBodyWriteScope}
	locationScopes = scopePair{fitness.FitnessLocationReadScope, fitness.FitnessLocationWriteScope}
)

var scopePrefixes = []struct {
	prefix string
	scopes scopePair
}{
	{"com.google.step_count", activityScopes},
	{"com.google.activity", activityScopes},
	{"com.google.calories", activityScopes},
	{"com.google.heart_rate", bodyScopes},
	{"com.google.weight", bodyScopes},
	{"com.google.body", bodyScopes},
	{"com.google.location", locationScopes},
	{"com.google.distance", locationScopes},
	{"com.google.speed", locationScopes},
}

// ScopesFor maps a capability set to OAuth scopes, in declaration order and
// without duplicates. Types with no known family fall back to activity.
func ScopesFor(caps fit.Capabilities, extra ...string) []string {
	var scopes []string
	seen := make(map[string]bool)
	add := func(s string) {
		if s == "" || seen[s] {
			return
		}
		seen[s] = true
		scopes = append(scopes, s)
	}

	for _, c := range caps.Items() {
		pair := activityScopes
		for _, p := range scopePrefixes {
			if strings.HasPrefix(c.DataType.Name, p.prefix) {
				pair = p.scopes
				break
			}
		}
		if c.Access == fit.AccessWrite {
			add(pair.write)
		} else {
			add(pair.read)
		}
	}
	for _, s := range extra {
		add(s)
	}
	return scopes
}

func containsAll(have, want []string) bool {
	set := make(map[string]bool, len(have))
	for _, s := range have {
		set[s] = true
	}
	for _, s := range want {
		if !set[s] {
			return false
		}
	}
	return true
}
