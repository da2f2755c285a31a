// internal/models/customer.go
package models

// CustomerRecord is the BRAVO customer-record service response.
type CustomerRecord struct {
	ID             string  `json:"idCliente"`
	ContactGroup   string  `json:"genTGrupoTmk"`
	BirthDate      string  `json:"fechaNacimiento"`
	DocumentType   *int    `json:"genCTipoDocumento"`
	DocumentNumber string  `json:"numeroDocAcred"`
	ClientType     *int    `json:"genTTipoCliente"`
	Status         *int    `json:"genTStatus"`
	AltaReason     *int    `json:"idMotivoAlta"`
	InactiveSince  *string `json:"fInactivoWeb"`
}

// DocumentType is one entry of the registered document types reference list.
type DocumentType struct {
	Code  string `json:"code"`
	Label string `json:"label"`
}
