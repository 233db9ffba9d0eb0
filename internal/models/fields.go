package models

import (
	"regexp"
	"strings"

	appErrors "github.com/noah-isme/teachmate/pkg/errors"
)

// Constraint messages shown when a field fails validation.
const (
	MessageNameConstraints = "Names should only contain alphanumeric characters and spaces, and it should not be blank"
	MessageEmailConstraints = "Emails should be of the format local-part@domain and adhere to the following constraints:\n" +
		"1. The local-part should only contain alphanumeric characters and these special characters, excluding " +
		"the parentheses, (+_.-). The local-part may not start or end with any special characters.\n" +
		"2. This is followed by a '@' and then a domain name. The domain name is made up of domain labels " +
		"separated by periods.\n" +
		"The domain name must:\n" +
		"    - end with a domain label at least 2 characters long\n" +
		"    - have each domain label start and end with alphanumeric characters\n" +
		"    - have each domain label consist of alphanumeric characters, separated only by hyphens, if any."
	MessagePhoneConstraints   = "Phone numbers should only contain numbers, and it should be at least 3 digits long"
	MessageAddressConstraints = "Addresses can take any values, and it should not be blank"
	MessageTagConstraints     = "Tags names should be alphanumeric"
	MessageRemarkConstraints  = "Remarks can take any values, and it should not be blank"
)

var (
	namePattern    = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9 ]*$`)
	emailLocal     = regexp.MustCompile(`^[A-Za-z0-9]+([+_.\-][A-Za-z0-9]+)*$`)
	emailLabel     = regexp.MustCompile(`^[A-Za-z0-9]+(-[A-Za-z0-9]+)*$`)
	phonePattern   = regexp.MustCompile(`^\d{3,}$`)
	addressPattern = regexp.MustCompile(`^\S.*$`)
	tagPattern     = regexp.MustCompile(`^[A-Za-z0-9]+$`)
)

func constraintError(message string) error {
	return appErrors.Clone(appErrors.ErrValidation, message)
}

// Name is a person's display name.
type Name string

// NewName validates raw as a Name.
func NewName(raw string) (Name, error) {
	if !namePattern.MatchString(raw) {
		return "", constraintError(MessageNameConstraints)
	}
	return Name(raw), nil
}

func (n Name) String() string { return string(n) }

// Email is a validated email address.
type Email string

// NewEmail validates raw as an Email.
func NewEmail(raw string) (Email, error) {
	if !isValidEmail(raw) {
		return "", constraintError(MessageEmailConstraints)
	}
	return Email(raw), nil
}

func (e Email) String() string { return string(e) }

func isValidEmail(raw string) bool {
	at := strings.LastIndex(raw, "@")
	if at <= 0 || at == len(raw)-1 {
		return false
	}
	if !emailLocal.MatchString(raw[:at]) {
		return false
	}
	labels := strings.Split(raw[at+1:], ".")
	for _, label := range labels {
		if !emailLabel.MatchString(label) {
			return false
		}
	}
	return len(labels[len(labels)-1]) >= 2
}

// Phone is a contact phone number. The empty Phone means none was given.
type Phone string

// NewPhone validates raw as a Phone.
func NewPhone(raw string) (Phone, error) {
	if !phonePattern.MatchString(raw) {
		return "", constraintError(MessagePhoneConstraints)
	}
	return Phone(raw), nil
}

func (p Phone) String() string { return string(p) }

// Address is a contact address. The empty Address means none was given.
type Address string

// NewAddress validates raw as an Address.
func NewAddress(raw string) (Address, error) {
	if !addressPattern.MatchString(raw) {
		return "", constraintError(MessageAddressConstraints)
	}
	return Address(raw), nil
}

func (a Address) String() string { return string(a) }

// Tag labels a person.
type Tag string

// NewTag validates raw as a Tag.
func NewTag(raw string) (Tag, error) {
	if !tagPattern.MatchString(raw) {
		return "", constraintError(MessageTagConstraints)
	}
	return Tag(raw), nil
}

func (t Tag) String() string { return "[" + string(t) + "]" }

// Remark is free text attached to a student. Multiple lines are allowed.
type Remark string

// NewRemark validates raw as a Remark.
func NewRemark(raw string) (Remark, error) {
	if strings.TrimSpace(raw) == "" {
		return "", constraintError(MessageRemarkConstraints)
	}
	return Remark(raw), nil
}

func (r Remark) String() string { return string(r) }
