// internal/models/registration.go
package models

import "encoding/json"

// RegistrationRequest is the form submitted by a user signing up to the customer portal.
// Exactly one of CardNumber or PolicyNumber is expected; with both blank no identity lookup happens.
type RegistrationRequest struct {
	PolicyNumber     string `json:"policyNumber,omitempty"`
	CollectiveNumber string `json:"collectiveNumber,omitempty"`
	CardNumber       string `json:"cardNumber,omitempty"`
	DocumentType     string `json:"documentType,omitempty"`
	DocumentNumber   string `json:"documentNumber,omitempty"`
	Email            string `json:"email"`
	Phone            string `json:"phone,omitempty"`
}

// LookupResult is the normalized outcome of the identity lookup.
// ClientID is nil both when the lookup failed and when it was not attempted.
type LookupResult struct {
	ClientName string  `json:"clientName"`
	ClientID   *string `json:"clientId,omitempty"`
	Detail     string  `json:"detail"`
}

// PolicyKey identifies a policy in the policy-detail service.
type PolicyKey struct {
	PolicyNumber     int `json:"numPoliza"`
	CollectiveNumber int `json:"numColectivo"`
	Company          int `json:"compania"`
}

type PolicyHolder struct {
	ID            string `json:"idCliente"`
	Name          string `json:"nombre"`
	FirstSurname  string `json:"apellido1"`
	SecondSurname string `json:"apellido2"`
}

// PolicyDetail is the policy-detail service response. Raw keeps the body as received,
// including fields not modelled here.
type PolicyDetail struct {
	PolicyNumber     int          `json:"numPoliza"`
	CollectiveNumber int          `json:"numColectivo"`
	Company          int          `json:"compania"`
	Product          string       `json:"producto,omitempty"`
	Status           string       `json:"estado,omitempty"`
	Holder           PolicyHolder `json:"tomador"`

	Raw json.RawMessage `json:"-"`
}
