// Package standardize содержит чистые правила стандартизации значений полей.
// Каждое правило - отдельная функция ремонта: некорректное значение
// приводится к значению-заглушке ('n/a', NULL или 0) и никогда не отбрасывается.
package standardize

import (
	"database/sql"
	"strings"
)

// NotAvailable - значение-заглушка для неизвестных кодов
const NotAvailable = "n/a"

// Канонические значения перечислений
const (
	MaritalSingle  = "Single"
	MaritalMarried = "Married"

	GenderFemale = "Female"
	GenderMale   = "Male"

	LineMountain   = "Mountain"
	LineRoad       = "Road"
	LineOtherSales = "Other Sales"
	LineTouring    = "Touring"

	CountryGermany      = "Germany"
	CountryUnitedStates = "United States"
)

var (
	maritalStatusCodes = map[string]string{
		"S": MaritalSingle,
		"M": MaritalMarried,
	}

	crmGenderCodes = map[string]string{
		"F": GenderFemale,
		"M": GenderMale,
	}

	erpGenderCodes = map[string]string{
		"F":      GenderFemale,
		"FEMALE": GenderFemale,
		"M":      GenderMale,
		"MALE":   GenderMale,
	}

	productLineCodes = map[string]string{
		"M": LineMountain,
		"R": LineRoad,
		"S": LineOtherSales,
		"T": LineTouring,
	}

	countryCodes = map[string]string{
		"DE":  CountryGermany,
		"US":  CountryUnitedStates,
		"USA": CountryUnitedStates,
	}
)

// MaritalStatus переводит код семейного положения CRM в метку
func MaritalStatus(code sql.NullString) string {
	return lookupCode(maritalStatusCodes, code)
}

// CRMGender переводит код пола CRM в метку
func CRMGender(code sql.NullString) string {
	return lookupCode(crmGenderCodes, code)
}

// ERPGender переводит значение пола ERP ('F', 'FEMALE', 'M', 'MALE') в метку
func ERPGender(value sql.NullString) string {
	return lookupCode(erpGenderCodes, value)
}

// ProductLine переводит код продуктовой линейки в метку
func ProductLine(code sql.NullString) string {
	return lookupCode(productLineCodes, code)
}

// Country нормализует страну: известные коды заменяются названием,
// пустое значение - заглушкой, остальное возвращается без пробелов по краям
func Country(value sql.NullString) string {
	if !value.Valid {
		return NotAvailable
	}
	trimmed := strings.TrimSpace(value.String)
	if trimmed == "" {
		return NotAvailable
	}
	if label, ok := countryCodes[strings.ToUpper(trimmed)]; ok {
		return label
	}
	return trimmed
}

// TrimText убирает пробелы по краям, сохраняя NULL
func TrimText(value sql.NullString) sql.NullString {
	if !value.Valid {
		return value
	}
	return sql.NullString{String: strings.TrimSpace(value.String), Valid: true}
}

// PreferLabel возвращает primary, если это известное значение, иначе fallback,
// а при отсутствии обоих - заглушку
func PreferLabel(primary string, fallback sql.NullString) string {
	if primary != "" && primary != NotAvailable {
		return primary
	}
	if fallback.Valid && fallback.String != "" {
		return fallback.String
	}
	return NotAvailable
}

func lookupCode(codes map[string]string, value sql.NullString) string {
	if !value.Valid {
		return NotAvailable
	}
	if label, ok := codes[strings.ToUpper(strings.TrimSpace(value.String))]; ok {
		return label
	}
	return NotAvailable
}
