package diag

import "fmt"

// Code identifies one diagnostic rule.
type Code uint16

const (
	// Parser codes.
	ParseUnexpectedToken Code = iota + 1
	ParseUnterminatedString
	ParseUnterminatedComment
	ParseMalformedNumber
	ParseMalformedLet

	// Checker codes. The inference engine itself never reports; these
	// come from the lint pass comparing resolved types.
	CheckNotCallable
	CheckArgCount
	CheckArgType
	CheckUnknownMember
	CheckBadOperands
	CheckBadIndex
	CheckCondNotBool
	CheckDeprecated
)

func (c Code) String() string {
	switch c {
	case ParseUnexpectedToken:
		return "parse_unexpected_token"
	case ParseUnterminatedString:
		return "parse_unterminated_string"
	case ParseUnterminatedComment:
		return "parse_unterminated_comment"
	case ParseMalformedNumber:
		return "parse_malformed_number"
	case ParseMalformedLet:
		return "parse_malformed_let"
	case CheckNotCallable:
		return "check_not_callable"
	case CheckArgCount:
		return "check_arg_count"
	case CheckArgType:
		return "check_arg_type"
	case CheckUnknownMember:
		return "check_unknown_member"
	case CheckBadOperands:
		return "check_bad_operands"
	case CheckBadIndex:
		return "check_bad_index"
	case CheckCondNotBool:
		return "check_cond_not_bool"
	case CheckDeprecated:
		return "check_deprecated"
	default:
		return fmt.Sprintf("diag(%d)", c)
	}
}
