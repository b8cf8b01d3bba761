package validation

import "regexp"

// ContactForm is the normalized result of a valid contact submission.
type ContactForm struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Subject    string `json:"subject"`
	Message    string `json:"message"`
	Privacy    string `json:"privacy"`
	Newsletter string `json:"newsletter"`
	Captcha    int    `json:"captcha"`
	Website    string `json:"website"`
}

// ContactResult reports either the normalized form or the per-field
// German error messages, never both.
type ContactResult struct {
	Valid  bool
	Errors map[string]string
	Data   *ContactForm
}

var phonePattern = regexp.MustCompile(`^[\d\s\+\-\(\)\/]+$`)

// ContactSubjects are the accepted values of the subject dropdown.
var ContactSubjects = []string{
	"mitgliedschaft", "investment", "photovoltaik", "windenergie",
	"beratung", "allgemein", "sonstiges",
}

var contactSchema = []field{
	{
		name: "name", required: true, kind: kindText, minLen: 2, maxLen: 100,
		messages: map[failure]string{
			failRequired: "Name ist erforderlich",
			failType:     "Name muss ein Text sein",
			failTooShort: "Name muss mindestens 2 Zeichen lang sein",
			failTooLong:  "Name darf maximal 100 Zeichen lang sein",
		},
	},
	{
		name: "email", required: true, kind: kindEmail,
		messages: map[failure]string{
			failRequired: "E-Mail-Adresse ist erforderlich",
			failType:     "E-Mail muss ein Text sein",
			failEmail:    "Bitte geben Sie eine gültige E-Mail-Adresse ein",
		},
	},
	{
		name: "phone", kind: kindPattern, pattern: phonePattern, minLen: 6, maxLen: 30,
		messages: map[failure]string{
			failType:     "Telefonnummer muss ein Text sein",
			failPattern:  "Telefonnummer enthält ungültige Zeichen",
			failTooShort: "Telefonnummer muss mindestens 6 Zeichen lang sein",
			failTooLong:  "Telefonnummer darf maximal 30 Zeichen lang sein",
		},
	},
	{
		name: "subject", required: true, kind: kindEnum, enum: ContactSubjects,
		messages: map[failure]string{
			failRequired: "Betreff ist erforderlich",
			failType:     "Betreff ist erforderlich",
			failEnum:     "Bitte wählen Sie einen gültigen Betreff aus",
		},
	},
	{
		name: "message", required: true, kind: kindText, minLen: 10, maxLen: 2000,
		messages: map[failure]string{
			failRequired: "Nachricht ist erforderlich",
			failType:     "Nachricht muss ein Text sein",
			failTooShort: "Nachricht muss mindestens 10 Zeichen lang sein",
			failTooLong:  "Nachricht darf maximal 2000 Zeichen lang sein",
		},
	},
	{
		name: "privacy", required: true, kind: kindLiteral, literal: "on",
		messages: map[failure]string{
			failRequired: "Sie müssen der Datenschutzerklärung zustimmen",
			failType:     "Sie müssen der Datenschutzerklärung zustimmen",
			failLiteral:  "Sie müssen der Datenschutzerklärung zustimmen",
		},
	},
	{
		name: "newsletter", kind: kindEnum, enum: []string{"on"},
		messages: map[failure]string{
			failType: "Ungültiger Newsletter-Wert",
			failEnum: "Ungültiger Newsletter-Wert",
		},
	},
	captchaField,
	websiteField,
}

// captchaField range-checks the client-side arithmetic challenge. The
// challenge uses operands 1-10 with + or -, so any honest answer lands
// in 0-20. The answer is not re-derived server-side.
var captchaField = field{
	name: "captcha", required: true, kind: kindInt, min: 0, max: 20,
	messages: map[failure]string{
		failRequired: "Bitte lösen Sie die Rechenaufgabe",
		failType:     "Die Antwort auf die Rechenaufgabe muss eine Zahl sein",
		failInteger:  "Die Antwort auf die Rechenaufgabe muss eine ganze Zahl sein",
		failMin:      "Die Antwort auf die Rechenaufgabe ist falsch",
		failMax:      "Die Antwort auf die Rechenaufgabe ist falsch",
	},
}

// websiteField is schema-level defense in depth on top of IsHuman: the
// hidden input must stay empty even when a bot bypasses the gate.
var websiteField = field{
	name: "website", kind: kindLiteral, literal: "",
	messages: map[failure]string{
		failType:    "Ungültige Eingabe",
		failLiteral: "Ungültige Eingabe",
	},
}

// ValidateContactForm checks a raw contact submission against the
// contact schema. All fields are evaluated; unknown keys are stripped.
func ValidateContactForm(raw Raw) ContactResult {
	data, errs := evaluate(contactSchema, raw)
	if len(errs) > 0 {
		return ContactResult{Valid: false, Errors: errs}
	}

	return ContactResult{
		Valid: true,
		Data: &ContactForm{
			Name:       str(data, "name"),
			Email:      str(data, "email"),
			Phone:      str(data, "phone"),
			Subject:    str(data, "subject"),
			Message:    str(data, "message"),
			Privacy:    str(data, "privacy"),
			Newsletter: str(data, "newsletter"),
			Captcha:    num(data, "captcha"),
			Website:    str(data, "website"),
		},
	}
}

func str(data map[string]any, key string) string {
	s, _ := data[key].(string)
	return s
}

func num(data map[string]any, key string) int {
	n, _ := data[key].(int)
	return n
}
