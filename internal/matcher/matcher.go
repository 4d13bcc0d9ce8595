// Package matcher resolves export rows to target identities.
//
// Channels are tried in a fixed priority order across the whole candidate
// set: normalized phone, then email, then full name. A name match is the
// weakest signal and only decides when neither contact channel matched.
package matcher

import (
	"github.com/maidbook/maidbook/internal/csvsource"
	"github.com/maidbook/maidbook/internal/identity"
	"github.com/maidbook/maidbook/internal/models"
)

// Channel identifies which identifier produced a match.
type Channel string

// Match channels in priority order.
const (
	ChannelPhone Channel = "phone"
	ChannelEmail Channel = "email"
	ChannelName  Channel = "name"
)

// MatchedRecord pairs a source row with the identity it resolved to.
type MatchedRecord struct {
	Row      csvsource.SourceRow
	Target   models.TargetIdentity
	Channel  Channel
	position int
}

// Position returns the index of the matched identity in the target list.
func (m MatchedRecord) Position() int { return m.position }

type candidate struct {
	target models.TargetIdentity
	phone  string
	email  string
	name   string
}

// Matcher holds pre-normalized target identities. It is immutable and safe to reuse.
type Matcher struct {
	candidates []candidate
}

// New normalizes targets once so each Match call only normalizes the row.
func New(targets []models.TargetIdentity) *Matcher {
	cands := make([]candidate, len(targets))
	for i, t := range targets {
		cands[i] = candidate{
			target: t,
			phone:  identity.NormalizePhone(t.Phone),
			email:  identity.NormalizeEmail(t.Email),
			name:   identity.NormalizeName(t.Name),
		}
	}

	return &Matcher{candidates: cands}
}

// Len returns the number of target identities.
func (m *Matcher) Len() int { return len(m.candidates) }

// Match returns the identity row resolves to. ok is false when no channel
// matches, which is the expected outcome for most export rows.
// Within a channel the first identity in list order wins.
func (m *Matcher) Match(row csvsource.SourceRow) (MatchedRecord, bool) {
	phone := identity.NormalizePhone(row.Phone())
	email := identity.NormalizeEmail(row.Email())
	name := identity.NormalizeName(row.FullName())

	channels := []struct {
		ch    Channel
		value string
		key   func(candidate) string
	}{
		{ChannelPhone, phone, func(c candidate) string { return c.phone }},
		{ChannelEmail, email, func(c candidate) string { return c.email }},
		{ChannelName, name, func(c candidate) string { return c.name }},
	}

	for _, c := range channels {
		if c.value == "" {
			continue
		}

		for i, cand := range m.candidates {
			if c.key(cand) == c.value {
				return MatchedRecord{Row: row, Target: cand.target, Channel: c.ch, position: i}, true
			}
		}
	}

	return MatchedRecord{}, false
}
