package user

import (
	"errors"
	"fmt"
)

// Kind categorizes provisioning and reconciliation failures. Handlers
// switch on kinds; nothing above this package inspects error strings.
type Kind string

const (
	// KindDuplicateEmail: the identity provider already has this email.
	KindDuplicateEmail Kind = "duplicate_email"

	// KindWeakCredential: the password fails the provider's policy.
	KindWeakCredential Kind = "weak_credential"

	// KindIdentityCreationFailed: account creation failed for a reason
	// that is neither a duplicate nor a weak password. Nothing was
	// created, so nothing needs compensation.
	KindIdentityCreationFailed Kind = "identity_creation_failed"

	// KindProfileCreationFailed: the profile write failed and the
	// compensating account delete succeeded. Registration did not
	// happen; the caller may retry from scratch.
	KindProfileCreationFailed Kind = "profile_creation_failed"

	// KindCompensationFailed: the profile write failed AND the
	// compensating delete failed. An identity now exists with no
	// profile and the email is burned. Not safely retryable; requires
	// manual operator cleanup.
	KindCompensationFailed Kind = "compensation_failed"

	// KindReconciliationFailed: a missing profile could not be
	// synthesized and the post-failure re-read found nothing either.
	KindReconciliationFailed Kind = "reconciliation_failed"

	// KindInvalidCredentials: sign-in rejected. Deliberately does not
	// distinguish unknown email from wrong password.
	KindInvalidCredentials Kind = "invalid_credentials"

	// KindUnknown is returned by KindOf for errors raised elsewhere.
	KindUnknown Kind = ""
)

// Error is a tagged provisioning failure. The wrapped cause keeps full
// detail for logs; the Kind is the contract with callers.
type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return string(e.Kind)
	}
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(kind Kind, err error) *Error {
	return &Error{Kind: kind, Err: err}
}

// KindOf returns the failure kind of err, or KindUnknown when err did
// not originate in this package.
func KindOf(err error) Kind {
	var ue *Error
	if errors.As(err, &ue) {
		return ue.Kind
	}
	return KindUnknown
}
