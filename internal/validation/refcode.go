// Package validation содержит функции валидации входных данных.
package validation

// RefCodeLength задаёт длину реферального кода.
const RefCodeLength = 8

// IsValidRefCode проверяет, что аргумент команды /start может быть реферальным кодом:
// ровно RefCodeLength латинских букв или цифр.
func IsValidRefCode(code string) bool {
	if len(code) != RefCodeLength {
		return false
	}

	for i := 0; i < len(code); i++ {
		ch := code[i]
		switch {
		case ch >= '0' && ch <= '9':
		case ch >= 'a' && ch <= 'z':
		case ch >= 'A' && ch <= 'Z':
		default:
			return false
		}
	}

	return true
}
