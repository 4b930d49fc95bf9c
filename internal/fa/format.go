// Package fa holds Persian-locale formatting helpers: digit conversion,
// thousands grouping, Toman/Rial currency strings and Jalali calendar dates.
package fa

import (
	"strings"
	"time"
)

var faDigits = []rune("۰۱۲۳۴۵۶۷۸۹")

// ToFaDigits replaces ASCII digits with Persian digits.
func ToFaDigits(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(faDigits[r-'0'])
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ToEnDigits replaces Persian and Arabic-Indic digits with ASCII digits.
func ToEnDigits(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r >= '۰' && r <= '۹':
			b.WriteRune('0' + (r - '۰'))
		case r >= '٠' && r <= '٩':
			b.WriteRune('0' + (r - '٠'))
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// NormalizeNumericInput converts localized digits to ASCII and strips
// separators so the result can be parsed with strconv.
func NormalizeNumericInput(s string) string {
	s = strings.TrimSpace(ToEnDigits(s))
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9', r == '.', r == '-':
			b.WriteRune(r)
		case r == ',', r == '،', r == '٬':
			// thousands separators, dropped
		}
	}
	return b.String()
}

// DigitsOnly keeps ASCII digits after localized-digit normalization.
// Used for phone number storage.
func DigitsOnly(s string) string {
	s = ToEnDigits(s)
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// groupThousands inserts the Persian thousands separator (U+066C).
func groupThousands(digits string) string {
	neg := strings.HasPrefix(digits, "-")
	if neg {
		digits = digits[1:]
	}
	n := len(digits)
	if n <= 3 {
		if neg {
			return "-" + digits
		}
		return digits
	}
	var parts []string
	for n > 3 {
		parts = append([]string{digits[n-3:]}, parts...)
		digits = digits[:n-3]
		n = len(digits)
	}
	parts = append([]string{digits}, parts...)
	out := strings.Join(parts, "٬")
	if neg {
		return "-" + out
	}
	return out
}

// FormatNumberFa renders an integer with Persian digits and grouping.
func FormatNumberFa(v int64) string {
	return ToFaDigits(groupThousands(itoa(v)))
}

// FormatToman renders an amount as "۱٬۲۳۴ تومان".
func FormatToman(amount int64) string {
	return FormatNumberFa(amount) + " تومان"
}

// FormatRial renders an amount as "۱٬۲۳۴ ریال".
func FormatRial(amount int64) string {
	return FormatNumberFa(amount) + " ریال"
}

func itoa(v int64) string {
	if v == 0 {
		return "0"
	}
	neg := v < 0
	if neg {
		v = -v
	}
	var buf [20]byte
	i := len(buf)
	for v > 0 {
		i--
		buf[i] = byte('0' + v%10)
		v /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

var jalaliMonthDays = [12]int{31, 31, 31, 31, 31, 31, 30, 30, 30, 30, 30, 29}

// toJalali converts a Gregorian civil date to the Jalali calendar.
func toJalali(gy, gm, gd int) (jy, jm, jd int) {
	gdm := [12]int{0, 31, 59, 90, 120, 151, 181, 212, 243, 273, 304, 334}

	gy2 := gy - 1600
	dayNo := 365*gy2 + (gy2+3)/4 - (gy2+99)/100 + (gy2+399)/400
	dayNo += gdm[gm-1] + gd - 1
	if gm > 2 && ((gy%4 == 0 && gy%100 != 0) || gy%400 == 0) {
		dayNo++
	}

	jDayNo := dayNo - 79
	jNp := jDayNo / 12053
	jDayNo %= 12053

	jy = 979 + 33*jNp + 4*(jDayNo/1461)
	jDayNo %= 1461
	if jDayNo >= 366 {
		jy += (jDayNo - 1) / 365
		jDayNo = (jDayNo - 1) % 365
	}

	i := 0
	for i < 11 && jDayNo >= jalaliMonthDays[i] {
		jDayNo -= jalaliMonthDays[i]
		i++
	}
	return jy, i + 1, jDayNo + 1
}

// FormatJalali renders t as a Jalali date with Persian digits,
// "۱۴۰۳/۰۱/۰۱" or "۱۴۰۳/۰۱/۰۱ ۱۸:۳۰" with time.
func FormatJalali(t time.Time, withTime bool) string {
	jy, jm, jd := toJalali(t.Year(), int(t.Month()), t.Day())
	s := pad4(jy) + "/" + pad2(jm) + "/" + pad2(jd)
	if withTime {
		s += " " + pad2(t.Hour()) + ":" + pad2(t.Minute())
	}
	return ToFaDigits(s)
}

func pad2(v int) string {
	if v < 10 {
		return "0" + itoa(int64(v))
	}
	return itoa(int64(v))
}

func pad4(v int) string {
	s := itoa(int64(v))
	for len(s) < 4 {
		s = "0" + s
	}
	return s
}
