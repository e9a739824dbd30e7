// Copyright 2026 The Accumulate Authors
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file or at
// https://opensource.org/licenses/MIT.

package logging

import (
	"log/slog"
	"strings"

	"gitlab.com/accumulatenetwork/stakeledger/pkg/errors"
)

// Rule sets the level of a module. A rule with no module sets the default
// level.
type Rule struct {
	Module string
	Level  slog.Level
}

// ParseRules parses rules such as "error;ledger=info;api=debug". A bare level
// or a module of "*" sets the default.
func ParseRules(s string) ([]Rule, error) {
	var rules []Rule
	for _, part := range strings.FieldsFunc(s, func(r rune) bool { return r == ';' || r == ',' }) {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		var r Rule
		module, level, ok := strings.Cut(part, "=")
		if !ok {
			module, level = "", part
		}
		if module != "*" {
			r.Module = strings.TrimSpace(module)
		}

		err := r.Level.UnmarshalText([]byte(strings.TrimSpace(level)))
		if err != nil {
			return nil, errors.BadRequest.WithFormat("invalid log rule %q: %w", part, err)
		}
		rules = append(rules, r)
	}
	return rules, nil
}

// FormatRules formats the rules so that ParseRules can read them back.
func FormatRules(rules []Rule) string {
	s := make([]string, len(rules))
	for i, r := range rules {
		if r.Module == "" {
			s[i] = strings.ToLower(r.Level.String())
		} else {
			s[i] = r.Module + "=" + strings.ToLower(r.Level.String())
		}
	}
	return strings.Join(s, ";")
}
