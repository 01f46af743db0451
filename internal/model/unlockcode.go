package model

import (
	"encoding/json"
	"time"
)

// UnlockCode represents a row in the unlock_codes table. Codes are issued by
// an administrator out of band; the application only reads them and stamps
// used_at on first redemption.
type UnlockCode struct {
	Code          string
	IsActive      bool
	ExpiresAt     *time.Time
	UsedAt        *time.Time
	ProjectAccess json.RawMessage
}

// Grants reports whether the code currently grants access. A set used_at does
// not revoke the code; redemption stays repeatable while the code is active
// and unexpired.
func (u *UnlockCode) Grants(now time.Time) bool {
	if !u.IsActive {
		return false
	}
	return u.ExpiresAt == nil || u.ExpiresAt.After(now)
}

// Expired reports whether the code has an expiry in the past.
func (u *UnlockCode) Expired(now time.Time) bool {
	return u.ExpiresAt != nil && !u.ExpiresAt.After(now)
}

// VerifyUnlockCodeRequest is the DTO for POST /functions/v1/verify-unlock-code.
type VerifyUnlockCodeRequest struct {
	Code string `json:"code"`
}

// UnlockGrant is the success payload returned to the caller.
type UnlockGrant struct {
	ProjectAccess json.RawMessage `json:"projectAccess"`
}
