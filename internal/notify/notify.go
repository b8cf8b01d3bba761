// Package notify renders the German notification mails sent to the
// cooperative's office for each accepted form submission.
package notify

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"strconv"
	"strings"
	"time"

	"begw/api_contact/pkg/email"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

const (
	contactFromName    = "BEW Kontaktformular"
	membershipFromName = "BEW Mitgliedsantrag"

	sharePrice = 250
)

var subjectTexts = map[string]string{
	"mitgliedschaft": "Mitgliedschaft",
	"investment":     "Investitionsmöglichkeiten",
	"photovoltaik":   "Photovoltaik-Anlagen",
	"windenergie":    "Windenergie",
	"beratung":       "Energieberatung",
	"allgemein":      "Allgemeine Anfrage",
	"sonstiges":      "Sonstiges",
}

// SubjectText maps a contact form subject key to its display text.
// Unknown keys pass through unchanged.
func SubjectText(key string) string {
	if text, ok := subjectTexts[key]; ok {
		return text
	}
	return key
}

var berlin = func() *time.Location {
	loc, err := time.LoadLocation("Europe/Berlin")
	if err != nil {
		return time.UTC
	}
	return loc
}()

// ContactData is a validated contact form submission ready for rendering.
type ContactData struct {
	Name       string
	Email      string
	Phone      string
	Subject    string
	Message    string
	Newsletter string
}

// MembershipData is a validated membership application ready for rendering.
type MembershipData struct {
	Firstname       string
	Lastname        string
	Email           string
	Phone           string
	Birthdate       string
	Street          string
	Zipcode         string
	City            string
	Abilities       string
	MandatoryShares int
	VoluntaryShares int
	TotalShares     int
	TotalAmount     int
}

// ContactMessage builds the office notification for a contact inquiry.
// Reply-To is set to the submitter so staff can answer directly.
func ContactMessage(to string, data ContactData, now time.Time) (email.Message, error) {
	subjectText := SubjectText(data.Subject)

	tmplData := struct {
		Name        string
		Email       string
		Phone       string
		SubjectText string
		Message     template.HTML
		Newsletter  bool
		Timestamp   string
	}{
		Name:        data.Name,
		Email:       data.Email,
		Phone:       data.Phone,
		SubjectText: subjectText,
		Message:     multiline(data.Message),
		Newsletter:  data.Newsletter == "on",
		Timestamp:   timestamp(now),
	}

	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, "contact.html", tmplData); err != nil {
		return email.Message{}, fmt.Errorf("render contact mail: %w", err)
	}

	return email.Message{
		To:       to,
		ReplyTo:  data.Email,
		Subject:  fmt.Sprintf("Neue Kontaktanfrage: %s - %s", subjectText, data.Name),
		HTMLBody: buf.String(),
		TextBody: contactText(data, now),
		FromName: contactFromName,
	}, nil
}

// MembershipMessage builds the office notification for a membership
// application.
func MembershipMessage(to string, data MembershipData, now time.Time) (email.Message, error) {
	tmplData := struct {
		Firstname       string
		Lastname        string
		Email           string
		Phone           string
		Birthdate       string
		Street          string
		Zipcode         string
		City            string
		Abilities       template.HTML
		MandatoryShares int
		VoluntaryShares int
		TotalShares     int
		MandatoryAmount string
		VoluntaryAmount string
		TotalAmount     string
		Timestamp       string
	}{
		Firstname:       data.Firstname,
		Lastname:        data.Lastname,
		Email:           data.Email,
		Phone:           data.Phone,
		Birthdate:       data.Birthdate,
		Street:          data.Street,
		Zipcode:         data.Zipcode,
		City:            data.City,
		Abilities:       multiline(data.Abilities),
		MandatoryShares: data.MandatoryShares,
		VoluntaryShares: data.VoluntaryShares,
		TotalShares:     data.TotalShares,
		MandatoryAmount: formatEuro(data.MandatoryShares * sharePrice),
		VoluntaryAmount: formatEuro(data.VoluntaryShares * sharePrice),
		TotalAmount:     formatEuro(data.TotalAmount),
		Timestamp:       timestamp(now),
	}

	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, "membership.html", tmplData); err != nil {
		return email.Message{}, fmt.Errorf("render membership mail: %w", err)
	}

	return email.Message{
		To:       to,
		ReplyTo:  data.Email,
		Subject:  fmt.Sprintf("Neuer Mitgliedsantrag - %s %s", data.Firstname, data.Lastname),
		HTMLBody: buf.String(),
		TextBody: membershipText(data, now),
		FromName: membershipFromName,
	}, nil
}

func contactText(data ContactData, now time.Time) string {
	var b strings.Builder

	b.WriteString("NEUE KONTAKTANFRAGE - BEW\n\n")
	fmt.Fprintf(&b, "Name: %s\n", data.Name)
	fmt.Fprintf(&b, "E-Mail: %s\n", data.Email)
	if data.Phone != "" {
		fmt.Fprintf(&b, "Telefon: %s\n", data.Phone)
	}
	fmt.Fprintf(&b, "Betreff: %s\n\n", SubjectText(data.Subject))
	fmt.Fprintf(&b, "Nachricht:\n%s\n\n", data.Message)
	if data.Newsletter == "on" {
		b.WriteString("Newsletter: Ja, möchte den Newsletter erhalten\n\n")
	}
	fmt.Fprintf(&b, "Eingegangen am: %s\n\n", timestamp(now))
	b.WriteString("---\n")
	b.WriteString("Diese E-Mail wurde automatisch über das Kontaktformular der BEW-Website generiert.\n")
	b.WriteString("Bürgerenergie Westsachsen eG")

	return b.String()
}

func membershipText(data MembershipData, now time.Time) string {
	var b strings.Builder

	b.WriteString("NEUER MITGLIEDSANTRAG - BEW\n\n")
	b.WriteString("PERSÖNLICHE DATEN:\n")
	fmt.Fprintf(&b, "Name: %s %s\n", data.Firstname, data.Lastname)
	if data.Birthdate != "" {
		fmt.Fprintf(&b, "Geburtsdatum: %s\n", data.Birthdate)
	}
	fmt.Fprintf(&b, "E-Mail: %s\n", data.Email)
	if data.Phone != "" {
		fmt.Fprintf(&b, "Telefon: %s\n", data.Phone)
	}
	fmt.Fprintf(&b, "Adresse: %s\n", data.Street)
	fmt.Fprintf(&b, "         %s %s\n\n", data.Zipcode, data.City)
	if data.Abilities != "" {
		fmt.Fprintf(&b, "Kompetenzen: %s\n\n", data.Abilities)
	}
	b.WriteString("GESCHÄFTSANTEILE:\n")
	fmt.Fprintf(&b, "Pflichtanteil: %d × 250,00 € = %s €\n", data.MandatoryShares, formatEuro(data.MandatoryShares*sharePrice))
	fmt.Fprintf(&b, "Freiwillige Anteile: %d × 250,00 € = %s €\n", data.VoluntaryShares, formatEuro(data.VoluntaryShares*sharePrice))
	fmt.Fprintf(&b, "Gesamt: %d Anteile = %s €\n\n", data.TotalShares, formatEuro(data.TotalAmount))
	fmt.Fprintf(&b, "Eingegangen am: %s\n\n", timestamp(now))
	b.WriteString("RECHTLICHE BESTÄTIGUNGEN:\n")
	b.WriteString("✓ Datenschutzerklärung akzeptiert\n")
	b.WriteString("✓ Satzung gelesen\n\n")
	b.WriteString("---\n")
	b.WriteString("Diese E-Mail wurde automatisch über das Mitgliedsantragsformular der BEW-Website generiert.\n")
	b.WriteString("Bürgerenergie Westsachsen eG")

	return b.String()
}

// multiline escapes user text and turns newlines into <br> so paragraph
// breaks survive the HTML rendering.
func multiline(s string) template.HTML {
	escaped := template.HTMLEscapeString(s)
	escaped = strings.ReplaceAll(escaped, "\r\n", "\n")
	return template.HTML(strings.ReplaceAll(escaped, "\n", "<br>"))
}

// formatEuro renders a whole euro amount in German notation,
// e.g. 1000 -> "1.000,00".
func formatEuro(amount int) string {
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}

	digits := strconv.Itoa(amount)
	var groups []string
	for len(digits) > 3 {
		groups = append([]string{digits[len(digits)-3:]}, groups...)
		digits = digits[:len(digits)-3]
	}
	groups = append([]string{digits}, groups...)

	return sign + strings.Join(groups, ".") + ",00"
}

func timestamp(now time.Time) string {
	return now.In(berlin).Format("02.01.2006, 15:04")
}
