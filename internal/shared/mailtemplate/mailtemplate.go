// Package mailtemplate renders the branded HTML layout shared by OTP and
// notification emails.
package mailtemplate

import (
	"bytes"
	_ "embed"
	"html/template"
	"time"
)

//go:embed otp.html
var layout string

var tmpl = template.Must(template.New("otp").Parse(layout))

// Data fills the layout. When Code is set the verification block is shown,
// otherwise Message is rendered as the body paragraph.
type Data struct {
	Title   string
	Code    string
	Message string
	Year    int
}

// Render executes the layout with d.
func Render(d Data) (string, error) {
	if d.Title == "" {
		d.Title = "Correo de Verificación OTP"
	}
	if d.Year == 0 {
		d.Year = time.Now().Year()
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, d); err != nil {
		return "", err
	}
	return buf.String(), nil
}
