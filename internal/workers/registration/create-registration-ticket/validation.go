package createregistrationticket

import "onboarding-workers/internal/common/validation"

// GetInputSchema only bounds field types and lengths. Every field is optional so that
// an incomplete form still reaches the pipeline and its fallback.
func GetInputSchema() validation.JSONSchema {
	return validation.JSONSchema{
		Type: "object",
		Properties: map[string]validation.Property{
			"policyNumber": {
				Type:        "string",
				Description: "Policy number, set when the user registers with a policy",
				MaxLength:   validation.IntPtr(20),
			},
			"collectiveNumber": {
				Type:        "string",
				Description: "Collective (group) number of the policy",
				MaxLength:   validation.IntPtr(20),
			},
			"cardNumber": {
				Type:        "string",
				Description: "Health card number or customer identifier",
				MaxLength:   validation.IntPtr(50),
			},
			"documentType": {
				Type:        "string",
				Description: "Identity document type",
				MaxLength:   validation.IntPtr(30),
			},
			"documentNumber": {
				Type:        "string",
				Description: "Identity document number",
				MaxLength:   validation.IntPtr(30),
			},
			"email": {
				Type:        "string",
				Description: "Personal email address",
				MaxLength:   validation.IntPtr(255),
			},
			"phone": {
				Type:        "string",
				Description: "Mobile phone number",
				MaxLength:   validation.IntPtr(30),
			},
			"userAgent": {
				Type:        "string",
				Description: "Browser tag of the registration form",
				MaxLength:   validation.IntPtr(512),
			},
		},
	}
}

// GetTicketSchema is the shape the ticketing platform accepts for a new ticket.
func GetTicketSchema() validation.JSONSchema {
	return validation.JSONSchema{
		Type:     "object",
		Required: []string{"ticket"},
		Properties: map[string]validation.Property{
			"ticket": {
				Type:     "object",
				Required: []string{"subject", "requester", "comment"},
				Properties: map[string]validation.Property{
					"subject": {Type: "string", MinLength: validation.IntPtr(1)},
					"requester": {
						Type:     "object",
						Required: []string{"email"},
						Properties: map[string]validation.Property{
							"name":  {Type: "string"},
							"email": {Type: "string", MinLength: validation.IntPtr(3)},
						},
					},
					"comment": {
						Type:     "object",
						Required: []string{"body"},
						Properties: map[string]validation.Property{
							"body": {Type: "string", MinLength: validation.IntPtr(1)},
						},
					},
					"tags": {Type: "array", Items: &validation.Property{Type: "string"}},
				},
			},
		},
	}
}
