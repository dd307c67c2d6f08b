package validators

import (
	"errors"
	"regexp"
	"strings"
)

var (
	ErrPhoneEmpty  = errors.New("請輸入聯絡電話")
	ErrPhoneLength = errors.New("電話號碼長度錯誤，手機為 10 碼，市話含區碼為 9 到 10 碼")
	ErrPhoneFormat = errors.New("電話號碼格式錯誤，例如 0912-345-678 或 02-2345-6789")
)

var (
	phoneMobile   = regexp.MustCompile(`^09[0-9]{8}$`)
	phoneLandline = regexp.MustCompile(`^0[2-8][0-9]{7,8}$`)

	phoneStrip = strings.NewReplacer("-", "", " ", "")
)

func NormalizePhone(raw string) string {
	return phoneStrip.Replace(strings.TrimSpace(raw))
}

// ValidatePhone accepts Taiwan mobile (09xxxxxxxx) and landline numbers.
// Length is checked before the pattern so the caller gets the more specific message.
func ValidatePhone(raw string) error {
	phone := NormalizePhone(raw)
	if phone == "" {
		return ErrPhoneEmpty
	}

	if len(phone) < 9 || len(phone) > 10 {
		return ErrPhoneLength
	}

	if strings.HasPrefix(phone, "09") && len(phone) != 10 {
		return ErrPhoneLength
	}

	if phoneMobile.MatchString(phone) || phoneLandline.MatchString(phone) {
		return nil
	}

	return ErrPhoneFormat
}
