package notify

import (
	"strings"
	"testing"
	"time"
)

var testTime = time.Date(2025, 3, 14, 13, 30, 0, 0, time.UTC)

func TestContactMessage(t *testing.T) {
	msg, err := ContactMessage("office@example.org", ContactData{
		Name:       "Max Mustermann",
		Email:      "max@example.com",
		Phone:      "+49 123 456789",
		Subject:    "photovoltaik",
		Message:    "Erste Zeile\nZweite Zeile",
		Newsletter: "on",
	}, testTime)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if msg.To != "office@example.org" {
		t.Errorf("To = %q", msg.To)
	}
	if msg.ReplyTo != "max@example.com" {
		t.Errorf("ReplyTo = %q", msg.ReplyTo)
	}
	if msg.Subject != "Neue Kontaktanfrage: Photovoltaik-Anlagen - Max Mustermann" {
		t.Errorf("Subject = %q", msg.Subject)
	}
	if msg.FromName != "BEW Kontaktformular" {
		t.Errorf("FromName = %q", msg.FromName)
	}

	for _, want := range []string{
		"Max Mustermann",
		"Telefon:</strong> +49 123 456789",
		"Photovoltaik-Anlagen",
		"Erste Zeile<br>Zweite Zeile",
		"Newsletter:</strong> Ja",
		// 13:30 UTC in March is 14:30 in Berlin (CET, no DST yet).
		"14.03.2025, 14:30",
	} {
		if !strings.Contains(msg.HTMLBody, want) {
			t.Errorf("HTML body missing %q", want)
		}
	}

	for _, want := range []string{
		"NEUE KONTAKTANFRAGE - BEW",
		"Telefon: +49 123 456789",
		"Betreff: Photovoltaik-Anlagen",
		"Newsletter: Ja",
		"Bürgerenergie Westsachsen eG",
	} {
		if !strings.Contains(msg.TextBody, want) {
			t.Errorf("text body missing %q", want)
		}
	}
}

func TestContactMessageOptionalBlocks(t *testing.T) {
	msg, err := ContactMessage("office@example.org", ContactData{
		Name:    "Max",
		Email:   "max@example.com",
		Subject: "allgemein",
		Message: "Hallo",
	}, testTime)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if strings.Contains(msg.HTMLBody, "Telefon") {
		t.Error("phone block rendered without a phone number")
	}
	if strings.Contains(msg.HTMLBody, "Newsletter") {
		t.Error("newsletter block rendered without opt-in")
	}
	if strings.Contains(msg.TextBody, "Telefon") || strings.Contains(msg.TextBody, "Newsletter") {
		t.Error("text body has optional blocks without data")
	}
}

func TestContactMessageEscapesHTML(t *testing.T) {
	msg, err := ContactMessage("office@example.org", ContactData{
		Name:    "Max",
		Email:   "max@example.com",
		Subject: "allgemein",
		Message: "<script>alert(1)</script>",
	}, testTime)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if strings.Contains(msg.HTMLBody, "<script>") {
		t.Error("message HTML not escaped")
	}
	if !strings.Contains(msg.HTMLBody, "&lt;script&gt;") {
		t.Error("escaped message missing from body")
	}
}

func TestMembershipMessage(t *testing.T) {
	msg, err := MembershipMessage("office@example.org", MembershipData{
		Firstname:       "Erika",
		Lastname:        "Musterfrau",
		Email:           "erika@example.com",
		Birthdate:       "01.02.1980",
		Street:          "Hauptstraße 1",
		Zipcode:         "08056",
		City:            "Zwickau",
		Abilities:       "Buchhaltung",
		MandatoryShares: 1,
		VoluntaryShares: 3,
		TotalShares:     4,
		TotalAmount:     1000,
	}, testTime)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if msg.Subject != "Neuer Mitgliedsantrag - Erika Musterfrau" {
		t.Errorf("Subject = %q", msg.Subject)
	}
	if msg.FromName != "BEW Mitgliedsantrag" {
		t.Errorf("FromName = %q", msg.FromName)
	}
	if msg.ReplyTo != "erika@example.com" {
		t.Errorf("ReplyTo = %q", msg.ReplyTo)
	}

	for _, want := range []string{
		"Erika Musterfrau",
		"01.02.1980",
		"08056 Zwickau",
		"Buchhaltung",
		"1 × 250,00 € = 250,00 €",
		"3 × 250,00 € = 750,00 €",
		"4 Anteile = 1.000,00 €",
		"Datenschutzerklärung akzeptiert",
	} {
		if !strings.Contains(msg.HTMLBody, want) {
			t.Errorf("HTML body missing %q", want)
		}
	}

	for _, want := range []string{
		"NEUER MITGLIEDSANTRAG - BEW",
		"Pflichtanteil: 1 × 250,00 € = 250,00 €",
		"Freiwillige Anteile: 3 × 250,00 € = 750,00 €",
		"Gesamt: 4 Anteile = 1.000,00 €",
		"Satzung gelesen",
	} {
		if !strings.Contains(msg.TextBody, want) {
			t.Errorf("text body missing %q", want)
		}
	}
}

func TestMembershipMessageOptionalBlocks(t *testing.T) {
	msg, err := MembershipMessage("office@example.org", MembershipData{
		Firstname:       "Erika",
		Lastname:        "Musterfrau",
		Email:           "erika@example.com",
		Street:          "Hauptstraße 1",
		Zipcode:         "08056",
		City:            "Zwickau",
		MandatoryShares: 1,
		TotalShares:     1,
		TotalAmount:     250,
	}, testTime)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, absent := range []string{"Geburtsdatum", "Telefon", "Kompetenzen"} {
		if strings.Contains(msg.HTMLBody, absent) {
			t.Errorf("HTML body has %q without data", absent)
		}
		if strings.Contains(msg.TextBody, absent) {
			t.Errorf("text body has %q without data", absent)
		}
	}
}

func TestSubjectText(t *testing.T) {
	cases := map[string]string{
		"mitgliedschaft": "Mitgliedschaft",
		"investment":     "Investitionsmöglichkeiten",
		"photovoltaik":   "Photovoltaik-Anlagen",
		"windenergie":    "Windenergie",
		"beratung":       "Energieberatung",
		"allgemein":      "Allgemeine Anfrage",
		"sonstiges":      "Sonstiges",
		"unbekannt":      "unbekannt",
	}
	for key, want := range cases {
		if got := SubjectText(key); got != want {
			t.Errorf("SubjectText(%q) = %q, want %q", key, got, want)
		}
	}
}

func TestFormatEuro(t *testing.T) {
	cases := map[int]string{
		0:       "0,00",
		250:     "250,00",
		1000:    "1.000,00",
		25000:   "25.000,00",
		1234567: "1.234.567,00",
	}
	for amount, want := range cases {
		if got := formatEuro(amount); got != want {
			t.Errorf("formatEuro(%d) = %q, want %q", amount, got, want)
		}
	}
}

func TestTimestampSummerTime(t *testing.T) {
	// 12:00 UTC in July is 14:00 in Berlin (CEST).
	july := time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC)
	if got := timestamp(july); got != "01.07.2025, 14:00" {
		t.Errorf("timestamp = %q", got)
	}
}
