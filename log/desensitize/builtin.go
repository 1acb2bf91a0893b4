package desensitize

// Built-in rules for the fields the codec and the CLI log. Values are
// masked entirely, except phone numbers which keep their last two digits.
var (
	LTKeyRule = MustNewFieldRule("ltkey", "ltkey", `.+`, "******")

	// SecretKeyRule covers permanent_secret_key.
	SecretKeyRule = MustNewFieldRule("secret_key", "secret_key", `.+`, "******")

	// PrivateKeyRule covers every *_private_key field.
	PrivateKeyRule = MustNewFieldRule("private_key", "private_key", `.+`, "******")

	PinRule   = MustNewFieldRule("pin", "pin", `.+`, "******")
	PhoneRule = MustNewFieldRule("phone", "phone", `^\d*(\d{2})$`, "********$1")

	// HexKeyRule masks 256-bit hex strings wherever they appear, such as
	// keys formatted into a message.
	HexKeyRule = MustNewContentRule("hex_key", `\b[0-9a-fA-F]{64}\b`, "<redacted>")
)

// BuiltinRules returns every built-in rule.
func BuiltinRules() []Rule {
	return []Rule{
		LTKeyRule,
		SecretKeyRule,
		PrivateKeyRule,
		PinRule,
		PhoneRule,
		HexKeyRule,
	}
}
