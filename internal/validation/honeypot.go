package validation

// honeypotFields are decoy input names hidden from real users. A bot
// filling every field it finds trips at least one of them.
var honeypotFields = []string{"website", "url", "homepage", "fax"}

// IsHuman checks the raw submission for filled honeypot fields before
// any schema validation runs, so automated submitters learn nothing
// about the schema from the rejection. Non-string values are ignored;
// only a non-empty string counts as a filled decoy.
func IsHuman(raw Raw) bool {
	for _, name := range honeypotFields {
		if s, ok := raw[name].(string); ok && s != "" {
			return false
		}
	}
	return true
}
