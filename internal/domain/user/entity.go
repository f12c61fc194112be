package user

import "regexp"

const (
	UsernameMinLength = 2
	UsernameMaxLength = 16
	PasswordMinLength = 6
	PasswordMaxLength = 16
	NameMinLength     = 2
	NameMaxLength     = 60
	PhoneMinLength    = 10
	PhoneMaxLength    = 14
)

// User ids are smallint in the store; participant counts are small.
type User struct {
	ID       int16
	Username string
	Password string
	Name     string
	Phone    string
	IsAdmin  bool
	FileID   int64
}

// Operation tags recorded in history rows.
const (
	OperationAdd          = "add"
	OperationRemove       = "remove"
	OperationEditUsername = "edit_username"
	OperationEditPassword = "edit_password"
	OperationEditName     = "edit_name"
	OperationEditPhone    = "edit_phone"
	OperationEditFileID   = "edit_file_id"
)

var phonePattern = regexp.MustCompile(`^\+?\d+$`)

func ValidateID(id int16) bool {
	return id > 0
}

func ValidateUsername(v string) bool {
	return len(v) >= UsernameMinLength && len(v) <= UsernameMaxLength
}

func ValidatePassword(v string) bool {
	return len(v) >= PasswordMinLength && len(v) <= PasswordMaxLength
}

func ValidateName(v string) bool {
	return len(v) >= NameMinLength && len(v) <= NameMaxLength
}

func ValidatePhone(v string) bool {
	return len(v) >= PhoneMinLength && len(v) <= PhoneMaxLength && phonePattern.MatchString(v)
}
