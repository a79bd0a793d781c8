// Package identity decides whether an incoming volunteer record is the same
// person as an existing master record.
//
// Matching is deterministic and priority ordered: email, then phone, then
// government ID, then name together with date of birth. Name alone never
// matches, and an absent key never matches another absent key.
package identity

import (
	"github.com/agentstation/roster/pkg/columns"
	"github.com/agentstation/roster/pkg/normalize"
	"github.com/agentstation/roster/pkg/records"
)

// KeyKind names a matching key.
type KeyKind string

// Matching keys.
const (
	KeyEmail   KeyKind = "email"
	KeyPhone   KeyKind = "phone"
	KeyID      KeyKind = "id"
	KeyNameDOB KeyKind = "name_dob"

	// KeyName is indexed for duplicate analysis only. FindMatch never uses it.
	KeyName KeyKind = "name"
)

// Priority is the order in which FindMatch consults the keys.
var Priority = []KeyKind{KeyEmail, KeyPhone, KeyID, KeyNameDOB}

// KeySet is the normalized, read-only view of one record. Each key carries
// an explicit presence flag; the string of an absent key is empty.
type KeySet struct {
	Email    string         `json:"email,omitempty" yaml:"email,omitempty"`
	HasEmail bool           `json:"-" yaml:"-"`
	Phone    string         `json:"phone,omitempty" yaml:"phone,omitempty"`
	HasPhone bool           `json:"-" yaml:"-"`
	ID       string         `json:"id,omitempty" yaml:"id,omitempty"`
	HasID    bool           `json:"-" yaml:"-"`
	Name     string         `json:"name,omitempty" yaml:"name,omitempty"`
	HasName  bool           `json:"-" yaml:"-"`
	DOB      normalize.Date `json:"-" yaml:"-"`
	HasDOB   bool           `json:"-" yaml:"-"`
}

// NameDOB returns the composite name and date-of-birth key, present only
// when both parts are.
func (k KeySet) NameDOB() (string, bool) {
	if !k.HasName || !k.HasDOB {
		return "", false
	}
	return k.Name + "\x1f" + k.DOB.String(), true
}

// Key returns the index form of the key of the given kind.
func (k KeySet) Key(kind KeyKind) (string, bool) {
	switch kind {
	case KeyEmail:
		return k.Email, k.HasEmail
	case KeyPhone:
		return k.Phone, k.HasPhone
	case KeyID:
		return k.ID, k.HasID
	case KeyName:
		return k.Name, k.HasName
	case KeyNameDOB:
		return k.NameDOB()
	default:
		return "", false
	}
}

// Extractor derives KeySets from records of one schema.
type Extractor struct {
	resolved columns.Resolved
}

// NewExtractor binds an extractor to resolved columns.
func NewExtractor(resolved columns.Resolved) *Extractor {
	return &Extractor{resolved: resolved}
}

// Resolved returns the columns the extractor reads.
func (e *Extractor) Resolved() columns.Resolved { return e.resolved }

// Keys computes the KeySet of rec. Keys whose column did not resolve are
// absent.
func (e *Extractor) Keys(rec *records.Record) KeySet {
	get := func(k columns.Key) records.Value {
		return rec.Get(e.resolved.Column(k))
	}

	var ks KeySet
	ks.Email, ks.HasEmail = normalize.Email(get(columns.Email))
	ks.Phone, ks.HasPhone = normalize.PhoneKey(get(columns.Phone))
	ks.ID, ks.HasID = normalize.ID(get(columns.ID))
	ks.Name, ks.HasName = normalize.FullName(get(columns.FullName), get(columns.FirstName), get(columns.LastName))
	ks.DOB, ks.HasDOB = normalize.DOB(get(columns.DOB))
	return ks
}
