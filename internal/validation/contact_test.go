package validation

import (
	"reflect"
	"testing"
)

func validContactRaw() Raw {
	return Raw{
		"name":    "Max Mustermann",
		"email":   "max@example.de",
		"subject": "allgemein",
		"message": "Ich habe eine Frage zu Ihren Angeboten.",
		"privacy": "on",
		"captcha": float64(7),
		"website": "",
	}
}

func TestValidateContactFormValid(t *testing.T) {
	result := ValidateContactForm(validContactRaw())

	if !result.Valid {
		t.Fatalf("expected valid submission, got errors: %v", result.Errors)
	}
	if result.Errors != nil {
		t.Fatalf("valid result must not carry errors")
	}
	if result.Data.Subject != "allgemein" {
		t.Fatalf("expected subject allgemein, got %q", result.Data.Subject)
	}
	if result.Data.Captcha != 7 {
		t.Fatalf("expected captcha coerced to int 7, got %d", result.Data.Captcha)
	}
	if result.Data.Phone != "" || result.Data.Newsletter != "" {
		t.Fatalf("optional fields should default to empty strings")
	}
}

func TestValidateContactFormMissingRequired(t *testing.T) {
	for _, name := range []string{"name", "email", "subject", "message", "privacy", "captcha"} {
		raw := validContactRaw()
		delete(raw, name)

		result := ValidateContactForm(raw)
		if result.Valid {
			t.Fatalf("submission without %s should be invalid", name)
		}
		if result.Data != nil {
			t.Fatalf("invalid result must not carry data")
		}
		if _, ok := result.Errors[name]; !ok {
			t.Fatalf("expected error keyed by %s, got %v", name, result.Errors)
		}

		// Empty string counts the same as absent.
		raw[name] = ""
		result = ValidateContactForm(raw)
		if result.Valid {
			t.Fatalf("submission with empty %s should be invalid", name)
		}
		if _, ok := result.Errors[name]; !ok {
			t.Fatalf("expected error keyed by %s for empty value", name)
		}
	}
}

func TestValidateContactFormReportsAllFields(t *testing.T) {
	result := ValidateContactForm(Raw{})
	if result.Valid {
		t.Fatal("empty submission should be invalid")
	}
	for _, name := range []string{"name", "email", "subject", "message", "privacy", "captcha"} {
		if _, ok := result.Errors[name]; !ok {
			t.Fatalf("expected every failing field reported, missing %s in %v", name, result.Errors)
		}
	}
}

func TestValidateContactFormStripsUnknownFields(t *testing.T) {
	raw := validContactRaw()
	raw["admin"] = "true"
	raw["role"] = "superuser"

	data, errs := evaluate(contactSchema, raw)
	if len(errs) != 0 {
		t.Fatalf("unknown fields must not fail validation: %v", errs)
	}
	if _, ok := data["admin"]; ok {
		t.Fatal("unknown field leaked into normalized record")
	}
	if _, ok := data["role"]; ok {
		t.Fatal("unknown field leaked into normalized record")
	}
}

func TestValidateContactFormIdempotent(t *testing.T) {
	raw := validContactRaw()
	first := ValidateContactForm(raw)
	second := ValidateContactForm(raw)
	if !reflect.DeepEqual(first, second) {
		t.Fatal("validation of identical input must yield identical results")
	}

	raw["email"] = "nope"
	firstInvalid := ValidateContactForm(raw)
	secondInvalid := ValidateContactForm(raw)
	if !reflect.DeepEqual(firstInvalid, secondInvalid) {
		t.Fatal("invalid results must be stable too")
	}
}

func TestContactNameLengthBounds(t *testing.T) {
	raw := validContactRaw()
	raw["name"] = "A"
	result := ValidateContactForm(raw)
	if result.Valid || result.Errors["name"] != "Name muss mindestens 2 Zeichen lang sein" {
		t.Fatalf("expected min-length message, got %v", result.Errors)
	}

	long := make([]rune, 101)
	for i := range long {
		long[i] = 'x'
	}
	raw["name"] = string(long)
	result = ValidateContactForm(raw)
	if result.Valid || result.Errors["name"] != "Name darf maximal 100 Zeichen lang sein" {
		t.Fatalf("expected max-length message, got %v", result.Errors)
	}
}

func TestContactEmailRule(t *testing.T) {
	raw := validContactRaw()
	for _, bad := range []string{"max", "max@", "max@example", "max example@de.de", "@example.de"} {
		raw["email"] = bad
		result := ValidateContactForm(raw)
		if result.Valid {
			t.Fatalf("email %q should be rejected", bad)
		}
		if result.Errors["email"] != "Bitte geben Sie eine gültige E-Mail-Adresse ein" {
			t.Fatalf("unexpected email message: %v", result.Errors)
		}
	}
}

func TestContactPhoneFirstFailureWins(t *testing.T) {
	raw := validContactRaw()

	// Violates both the pattern and the minimum length; only the
	// pattern message is reported.
	raw["phone"] = "abc"
	result := ValidateContactForm(raw)
	if result.Valid {
		t.Fatal("invalid phone should be rejected")
	}
	if got := result.Errors["phone"]; got != "Telefonnummer enthält ungültige Zeichen" {
		t.Fatalf("expected pattern message to win, got %q", got)
	}

	raw["phone"] = "12345"
	result = ValidateContactForm(raw)
	if got := result.Errors["phone"]; got != "Telefonnummer muss mindestens 6 Zeichen lang sein" {
		t.Fatalf("expected min-length message, got %q", got)
	}

	raw["phone"] = "+49 (0) 375 / 123456"
	result = ValidateContactForm(raw)
	if !result.Valid {
		t.Fatalf("well-formed phone rejected: %v", result.Errors)
	}
	if result.Data.Phone != "+49 (0) 375 / 123456" {
		t.Fatalf("phone not carried through: %q", result.Data.Phone)
	}
}

func TestContactSubjectEnum(t *testing.T) {
	raw := validContactRaw()
	raw["subject"] = "support"
	result := ValidateContactForm(raw)
	if result.Valid || result.Errors["subject"] != "Bitte wählen Sie einen gültigen Betreff aus" {
		t.Fatalf("expected enum message, got %v", result.Errors)
	}

	for _, subject := range ContactSubjects {
		raw["subject"] = subject
		if result := ValidateContactForm(raw); !result.Valid {
			t.Fatalf("subject %q should be accepted: %v", subject, result.Errors)
		}
	}
}

func TestContactCaptchaRules(t *testing.T) {
	raw := validContactRaw()

	raw["captcha"] = "abc"
	if result := ValidateContactForm(raw); result.Valid || result.Errors["captcha"] == "" {
		t.Fatal("non-numeric captcha should fail with a message")
	}

	raw["captcha"] = float64(7.5)
	result := ValidateContactForm(raw)
	if result.Valid || result.Errors["captcha"] != "Die Antwort auf die Rechenaufgabe muss eine ganze Zahl sein" {
		t.Fatalf("fractional captcha must fail the integer rule, got %v", result.Errors)
	}

	raw["captcha"] = float64(21)
	if result := ValidateContactForm(raw); result.Valid {
		t.Fatal("captcha above 20 should be rejected")
	}

	raw["captcha"] = float64(-1)
	if result := ValidateContactForm(raw); result.Valid {
		t.Fatal("negative captcha should be rejected")
	}

	// Form-encoded bodies submit numbers as strings.
	raw["captcha"] = "7"
	result = ValidateContactForm(raw)
	if !result.Valid {
		t.Fatalf("numeric string captcha rejected: %v", result.Errors)
	}
	if result.Data.Captcha != 7 {
		t.Fatalf("expected coerced captcha 7, got %d", result.Data.Captcha)
	}

	raw["captcha"] = float64(0)
	if result := ValidateContactForm(raw); !result.Valid {
		t.Fatalf("captcha 0 is a legal answer: %v", result.Errors)
	}
	raw["captcha"] = float64(20)
	if result := ValidateContactForm(raw); !result.Valid {
		t.Fatalf("captcha 20 is a legal answer: %v", result.Errors)
	}
}

func TestContactNewsletterRule(t *testing.T) {
	raw := validContactRaw()

	raw["newsletter"] = "on"
	result := ValidateContactForm(raw)
	if !result.Valid || result.Data.Newsletter != "on" {
		t.Fatalf("newsletter on should be accepted: %v", result.Errors)
	}

	raw["newsletter"] = ""
	if result := ValidateContactForm(raw); !result.Valid {
		t.Fatalf("empty newsletter should be accepted: %v", result.Errors)
	}

	raw["newsletter"] = "yes"
	result = ValidateContactForm(raw)
	if result.Valid || result.Errors["newsletter"] != "Ungültiger Newsletter-Wert" {
		t.Fatalf("expected newsletter rejection, got %v", result.Errors)
	}
}

func TestContactWebsiteHoneypotField(t *testing.T) {
	raw := validContactRaw()
	raw["website"] = "https://spam.example"

	result := ValidateContactForm(raw)
	if result.Valid {
		t.Fatal("filled website field must fail schema validation")
	}
	if _, ok := result.Errors["website"]; !ok {
		t.Fatalf("expected website error, got %v", result.Errors)
	}
}
