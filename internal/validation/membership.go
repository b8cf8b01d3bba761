package validation

import "regexp"

// MembershipApplication is the normalized result of a valid membership
// submission. Share counts and amounts are integers; the share price is
// fixed at 250 € per share.
type MembershipApplication struct {
	Firstname       string `json:"firstname"`
	Lastname        string `json:"lastname"`
	Email           string `json:"email"`
	Phone           string `json:"phone"`
	Birthdate       string `json:"birthdate"`
	Street          string `json:"street"`
	Zipcode         string `json:"zipcode"`
	City            string `json:"city"`
	Abilities       string `json:"abilities"`
	MandatoryShares int    `json:"mandatoryShares"`
	VoluntaryShares int    `json:"voluntary-shares"`
	TotalShares     int    `json:"totalShares"`
	TotalAmount     int    `json:"totalAmount"`
	FormType        string `json:"formType"`
	Privacy         string `json:"privacy"`
	Terms           string `json:"terms"`
	Captcha         int    `json:"captcha"`
	Website         string `json:"website"`
}

// MembershipResult reports either the normalized application or the
// per-field German error messages, never both.
type MembershipResult struct {
	Valid  bool
	Errors map[string]string
	Data   *MembershipApplication
}

var (
	zipcodePattern = regexp.MustCompile(`^\d{5}$`)
	// Accepted birthdate shapes: 14.03.1980, 1980-03-14, 3/14/1980.
	// Normalization to ISO happens in the CRM client.
	birthdatePattern = regexp.MustCompile(`^(\d{1,2}\.\d{1,2}\.\d{4}|\d{4}-\d{2}-\d{2}|\d{1,2}/\d{1,2}/\d{4})$`)
)

var membershipSchema = []field{
	{
		name: "firstname", required: true, kind: kindText, minLen: 2, maxLen: 100,
		messages: map[failure]string{
			failRequired: "Vorname ist erforderlich",
			failType:     "Vorname muss ein Text sein",
			failTooShort: "Vorname muss mindestens 2 Zeichen lang sein",
			failTooLong:  "Vorname darf maximal 100 Zeichen lang sein",
		},
	},
	{
		name: "lastname", required: true, kind: kindText, minLen: 2, maxLen: 100,
		messages: map[failure]string{
			failRequired: "Nachname ist erforderlich",
			failType:     "Nachname muss ein Text sein",
			failTooShort: "Nachname muss mindestens 2 Zeichen lang sein",
			failTooLong:  "Nachname darf maximal 100 Zeichen lang sein",
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
		name: "birthdate", kind: kindPattern, pattern: birthdatePattern,
		messages: map[failure]string{
			failType:    "Geburtsdatum muss ein Text sein",
			failPattern: "Bitte geben Sie ein gültiges Geburtsdatum ein",
		},
	},
	{
		name: "street", required: true, kind: kindText, minLen: 5, maxLen: 200,
		messages: map[failure]string{
			failRequired: "Straße und Hausnummer sind erforderlich",
			failType:     "Straße muss ein Text sein",
			failTooShort: "Straße muss mindestens 5 Zeichen lang sein",
			failTooLong:  "Straße darf maximal 200 Zeichen lang sein",
		},
	},
	{
		name: "zipcode", required: true, kind: kindPattern, pattern: zipcodePattern,
		messages: map[failure]string{
			failRequired: "Postleitzahl ist erforderlich",
			failType:     "Postleitzahl muss ein Text sein",
			failPattern:  "Bitte geben Sie eine gültige Postleitzahl ein (5 Ziffern)",
		},
	},
	{
		name: "city", required: true, kind: kindText, minLen: 2, maxLen: 100,
		messages: map[failure]string{
			failRequired: "Ort ist erforderlich",
			failType:     "Ort muss ein Text sein",
			failTooShort: "Ort muss mindestens 2 Zeichen lang sein",
			failTooLong:  "Ort darf maximal 100 Zeichen lang sein",
		},
	},
	{
		name: "abilities", kind: kindText, maxLen: 1000,
		messages: map[failure]string{
			failType:    "Kompetenzen müssen ein Text sein",
			failTooLong: "Kompetenzen dürfen maximal 1000 Zeichen lang sein",
		},
	},
	{
		// Exactly one mandatory share per member; the form pre-fills
		// it, so an absent value defaults rather than fails.
		name: "mandatoryShares", aliases: []string{"mandatory-shares"},
		kind: kindInt, min: 1, max: 1, defaultInt: 1,
		messages: map[failure]string{
			failType:    "Pflichtanteile müssen eine Zahl sein",
			failInteger: "Pflichtanteile müssen eine ganze Zahl sein",
			failMin:     "Es ist genau ein Pflichtanteil vorgesehen",
			failMax:     "Es ist genau ein Pflichtanteil vorgesehen",
		},
	},
	{
		name: "voluntary-shares", aliases: []string{"voluntaryShares"},
		kind: kindInt, min: 0, max: 99,
		messages: map[failure]string{
			failType:    "Freiwillige Anteile müssen eine Zahl sein",
			failInteger: "Freiwillige Anteile müssen eine ganze Zahl sein",
			failMin:     "Freiwillige Anteile müssen zwischen 0 und 99 liegen",
			failMax:     "Freiwillige Anteile müssen zwischen 0 und 99 liegen",
		},
	},
	{
		name: "totalShares", required: true, kind: kindInt, min: 1, max: 100,
		messages: map[failure]string{
			failRequired: "Bitte geben Sie die Anzahl der Anteile an",
			failType:     "Die Anzahl der Anteile muss eine Zahl sein",
			failInteger:  "Die Anzahl der Anteile muss eine ganze Zahl sein",
			failMin:      "Die Anzahl der Anteile muss zwischen 1 und 100 liegen",
			failMax:      "Die Anzahl der Anteile muss zwischen 1 und 100 liegen",
		},
	},
	{
		name: "totalAmount", required: true, kind: kindInt, min: 250, max: 25000,
		messages: map[failure]string{
			failRequired: "Der Gesamtbetrag ist erforderlich",
			failType:     "Der Gesamtbetrag muss eine Zahl sein",
			failInteger:  "Der Gesamtbetrag muss eine ganze Zahl sein",
			failMin:      "Der Gesamtbetrag muss zwischen 250 € und 25.000 € liegen",
			failMax:      "Der Gesamtbetrag muss zwischen 250 € und 25.000 € liegen",
		},
	},
	{
		name: "formType", required: true, kind: kindLiteral, literal: "membership",
		messages: map[failure]string{
			failRequired: "Ungültiger Formulartyp",
			failType:     "Ungültiger Formulartyp",
			failLiteral:  "Ungültiger Formulartyp",
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
		name: "terms", required: true, kind: kindLiteral, literal: "on",
		messages: map[failure]string{
			failRequired: "Sie müssen die Satzung zur Kenntnis nehmen",
			failType:     "Sie müssen die Satzung zur Kenntnis nehmen",
			failLiteral:  "Sie müssen die Satzung zur Kenntnis nehmen",
		},
	},
	captchaField,
	websiteField,
}

// ValidateMembershipForm checks a raw membership submission against
// the membership schema. All fields are evaluated; unknown keys are
// stripped. Note there is deliberately no cross-field rule tying
// totalShares and totalAmount together; the form computes both and the
// backend only range-checks them independently.
func ValidateMembershipForm(raw Raw) MembershipResult {
	data, errs := evaluate(membershipSchema, raw)
	if len(errs) > 0 {
		return MembershipResult{Valid: false, Errors: errs}
	}

	return MembershipResult{
		Valid: true,
		Data: &MembershipApplication{
			Firstname:       str(data, "firstname"),
			Lastname:        str(data, "lastname"),
			Email:           str(data, "email"),
			Phone:           str(data, "phone"),
			Birthdate:       str(data, "birthdate"),
			Street:          str(data, "street"),
			Zipcode:         str(data, "zipcode"),
			City:            str(data, "city"),
			Abilities:       str(data, "abilities"),
			MandatoryShares: num(data, "mandatoryShares"),
			VoluntaryShares: num(data, "voluntary-shares"),
			TotalShares:     num(data, "totalShares"),
			TotalAmount:     num(data, "totalAmount"),
			FormType:        str(data, "formType"),
			Privacy:         str(data, "privacy"),
			Terms:           str(data, "terms"),
			Captcha:         num(data, "captcha"),
			Website:         str(data, "website"),
		},
	}
}
