// Package credentials owns the credential lifecycle for the single stored
// Google token pair: validity derivation, refresh orchestration, and the
// storage contract the physical medium has to satisfy.
package credentials

import (
	"time"
)

// Record is the one persisted credential pair. SavedTime is the local epoch
// timestamp anchoring ExpiresIn; it is set by the Manager at issuance or
// refresh, never by the provider.
type Record struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
	SavedTime    int64  `json:"saved_time"`
}

// ExpiresAt returns the absolute expiry derived from the saved anchor and the
// provider-declared lifetime.
func (r *Record) ExpiresAt() time.Time {
	return time.Unix(r.SavedTime+r.ExpiresIn, 0)
}

// Valid reports whether the access token is still usable at the given time.
// The boundary instant itself counts as expired.
func (r *Record) Valid(now time.Time) bool {
	return now.Before(r.ExpiresAt())
}

// Store persists the single credential record.
//
// Read returns (nil, nil) when no usable record exists - absence and a
// malformed record are the same thing to callers, both mean the user must
// re-authorize. Write atomically replaces the whole record; a concurrent
// Read must never observe a partial write.
type Store interface {
	Read() (*Record, error)
	Write(*Record) error
}
