package validators

import (
	"errors"
	"regexp"
	"strings"
)

var (
	ErrPlateEmpty           = errors.New("請輸入車牌號碼")
	ErrPlateAmbiguousLetter = errors.New("車牌不會包含英文字母 I 或 O，請確認是否為數字 1 或 0")
	ErrPlateContainsFour    = errors.New("新式車牌不會包含數字 4")
	ErrPlateFormat          = errors.New("車牌格式錯誤，例如 ABC-1234、AB-1234 或 1234-AB")
)

var (
	// new format, 3 letters + 4 digits, no 4
	plateNew = regexp.MustCompile(`^[A-Z]{3}[0-35-9]{4}$`)
	// old formats
	plateOld         = regexp.MustCompile(`^[A-Z]{2}[0-9]{4}$`)
	plateOldReversed = regexp.MustCompile(`^[0-9]{4}[A-Z]{2}$`)

	plateStrip = strings.NewReplacer("-", "", " ", "")
)

func NormalizeLicensePlate(raw string) string {
	return strings.ToUpper(plateStrip.Replace(strings.TrimSpace(raw)))
}

// ValidateLicensePlate returns nil for a valid Taiwan plate.
func ValidateLicensePlate(raw string) error {
	plate := NormalizeLicensePlate(raw)
	if plate == "" {
		return ErrPlateEmpty
	}

	if strings.ContainsAny(plate, "IO") {
		return ErrPlateAmbiguousLetter
	}

	if len(plate) == 7 && strings.Contains(plate, "4") {
		return ErrPlateContainsFour
	}

	if plateNew.MatchString(plate) ||
		plateOld.MatchString(plate) ||
		plateOldReversed.MatchString(plate) {
		return nil
	}

	return ErrPlateFormat
}
