package createregistrationticket

import (
	"strings"
)

// lineBreak is the escaped line marker: a backslash followed by 'n', not a real newline.
// Blocks keep it until Flatten (ticket) or HTMLBreaks (email).
const lineBreak = `\n`

var sanitizer = strings.NewReplacer(
	"[", "",
	"]", "",
	"{", "",
	"}", "",
	`"`, "",
	"\r", "",
	"\n", lineBreak,
)

var flattener = strings.NewReplacer(lineBreak, " ", "\n", " ")

// UserBlock renders the fields the user typed in the registration form.
func UserBlock(in *Input) string {
	var b strings.Builder
	if strings.TrimSpace(in.PolicyNumber) != "" {
		b.WriteString("Nº de poliza/colectivo: " + in.PolicyNumber + "/" + in.CollectiveNumber + lineBreak)
	} else {
		b.WriteString("Nº tarjeta Sanitas o Identificador: " + in.CardNumber + lineBreak)
	}
	b.WriteString("Tipo documento: " + in.DocumentType + lineBreak)
	b.WriteString("Nº documento: " + in.DocumentNumber + lineBreak)
	b.WriteString("Email personal: " + in.Email + lineBreak)
	b.WriteString("Nº móvil: " + in.Phone + lineBreak)
	b.WriteString("User Agent: " + in.UserAgent + lineBreak)
	return b.String()
}

// Sanitize strips JSON punctuation and carriage returns from a lookup detail and escapes
// its line feeds, so the text can sit inside a templated JSON string.
func Sanitize(detail string) string {
	return sanitizer.Replace(detail)
}

// Merge concatenates the blocks in report order.
func Merge(userBlock, customerBlock, sanitizedDetail string) string {
	return userBlock + customerBlock + sanitizedDetail
}

// Flatten collapses every line marker, escaped or raw, to a single space.
func Flatten(s string) string {
	return flattener.Replace(s)
}

func HTMLBreaks(s string) string {
	return strings.ReplaceAll(s, lineBreak, "<br/>")
}
