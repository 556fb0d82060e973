package api

import "net/mail"

// MinPasswordLength applies to newly registered accounts only; existing
// credentials are verified as stored.
const MinPasswordLength = 6

// Validate checks a registration payload and returns a FieldErrors map
// covering every failing field, or nil if the payload is valid.
func (r *RegisterRequest) Validate() error {
	errs := FieldErrors{}

	validateEmail(errs, r.Email)

	if r.Password == "" {
		errs["password"] = "password is required"
	} else if len(r.Password) < MinPasswordLength {
		errs["password"] = "password must be at least 6 characters"
	}

	if r.FirstName == "" {
		errs["first_name"] = "first name is required"
	}
	if r.LastName == "" {
		errs["last_name"] = "last name is required"
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Validate checks an authentication payload. Only presence is enforced;
// anything else is answered by the credential verifier, uniformly.
func (r *AuthenticateRequest) Validate() error {
	errs := FieldErrors{}

	if r.Email == "" {
		errs["email"] = "email is required"
	}
	if r.Password == "" {
		errs["password"] = "password is required"
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// validateEmail records an error for a missing or syntactically invalid
// address. mail.ParseAddress accepts the "Name <addr>" form, which is not a
// bare login email, so that shape is rejected too.
func validateEmail(errs FieldErrors, email string) {
	if email == "" {
		errs["email"] = "email is required"
		return
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		errs["email"] = "email must be a valid email address"
	}
}
